package events

import (
	"context"

	portsevents "github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
)

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

var _ portsevents.Publisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, portsevents.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
