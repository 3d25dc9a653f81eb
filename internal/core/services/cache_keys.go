package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
)

func memoDateKey(date time.Time) string {
	return "cashmemo:date:" + domain.FormatDate(date)
}

func partyListKey(kind domain.PartyKind) string {
	return fmt.Sprintf("party:%s:list", kind)
}

func partyDetailKey(kind domain.PartyKind, partyID string) string {
	return fmt.Sprintf("party:%s:%s", kind, partyID)
}

func partyTransactionsPrefix(kind domain.PartyKind, partyID string) string {
	return fmt.Sprintf("party:%s:%s:transactions:", kind, partyID)
}

func partyTransactionsKey(kind domain.PartyKind, partyID string, limit int, nextToken *string) string {
	token := "first"
	if nextToken != nil && *nextToken != "" {
		token = *nextToken
	}
	return fmt.Sprintf("%s%d:%s", partyTransactionsPrefix(kind, partyID), limit, token)
}

// invalidateMemo drops every cached view the given memo versions contribute to:
// the day itself plus the detail, history and list views of each referenced party.
func (s *BaseService) invalidateMemo(ctx context.Context, memos ...*domain.CashMemo) {
	keys := []string{}
	kinds := map[domain.PartyKind]struct{}{}
	parties := map[domain.PartyRef]struct{}{}
	for _, m := range memos {
		if m == nil {
			continue
		}
		keys = append(keys, memoDateKey(m.MemoDate))
		for _, p := range m.Parties() {
			parties[p] = struct{}{}
			kinds[p.Kind] = struct{}{}
		}
	}
	for p := range parties {
		keys = append(keys, partyDetailKey(p.Kind, p.ID))
	}
	for k := range kinds {
		keys = append(keys, partyListKey(k))
	}
	s.cacheDelete(ctx, keys...)
	for p := range parties {
		s.cacheDeletePrefix(ctx, partyTransactionsPrefix(p.Kind, p.ID))
	}
}
