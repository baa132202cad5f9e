package service

import (
	"sort"
	"strings"

	"github.com/nayakvinit/lendbook/internal/domain"
	"github.com/nayakvinit/lendbook/pkg/utils"
)

// Aggregation over the record collection. All functions here are pure:
// they never mutate their input and are recomputed from scratch on every
// read, so there is no cached aggregate state to go stale.

// ComputeTotals returns the global rollup. A record marked paid contributes
// its full original amount to TotalReturned regardless of what was actually
// recorded in its payment history.
func ComputeTotals(records []*domain.LendingRecord) domain.LedgerTotals {
	var totals domain.LedgerTotals
	for _, r := range records {
		totals.TotalLent = totals.TotalLent.Add(r.Amount)
		switch r.Status {
		case domain.RecordStatusPending:
			totals.TotalPending = totals.TotalPending.Add(r.RemainingBalance())
		case domain.RecordStatusPaid:
			totals.TotalReturned = totals.TotalReturned.Add(r.Amount)
		}
	}
	return totals
}

// SummarizeBorrowers groups records by normalized borrower name and returns
// one summary per identity class, sorted by total owed descending. Ties keep
// first-encountered order. The display name is the first-encountered
// record's trimmed name.
func SummarizeBorrowers(records []*domain.LendingRecord) []domain.BorrowerSummary {
	index := make(map[string]int, len(records))
	summaries := make([]domain.BorrowerSummary, 0, len(records))

	for _, r := range records {
		key := utils.NormalizeName(r.BorrowerName)
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, domain.BorrowerSummary{
				Name: utils.DisplayName(r.BorrowerName),
			})
		}

		s := &summaries[i]
		s.TotalBorrowed = s.TotalBorrowed.Add(r.Amount)
		s.RecordCount++
		if r.Status == domain.RecordStatusPending {
			s.TotalOwed = s.TotalOwed.Add(r.RemainingBalance())
		}
		if r.LentDate.After(s.LastBorrowed) {
			s.LastBorrowed = r.LentDate
		}
	}

	sort.SliceStable(summaries, func(a, b int) bool {
		return summaries[a].TotalOwed.GreaterThan(summaries[b].TotalOwed)
	})

	return summaries
}

// FilterRecords returns records whose borrower name or reason contains the
// query, case-insensitively. Only the empty string returns the input
// unfiltered; whitespace in a non-empty query matches literally. Order is
// preserved.
func FilterRecords(records []*domain.LendingRecord, query string) []*domain.LendingRecord {
	if query == "" {
		return records
	}
	query = strings.ToLower(query)

	matched := make([]*domain.LendingRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.BorrowerName), query) ||
			strings.Contains(strings.ToLower(r.Reason), query) {
			matched = append(matched, r)
		}
	}
	return matched
}

// HistoryFor returns all records belonging to the borrower identity class of
// the given name. Partitioning into pending/paid and date sorting is left to
// the caller; it is a display concern.
func HistoryFor(records []*domain.LendingRecord, name string) []*domain.LendingRecord {
	key := utils.NormalizeName(name)
	matched := make([]*domain.LendingRecord, 0)
	for _, r := range records {
		if utils.NormalizeName(r.BorrowerName) == key {
			matched = append(matched, r)
		}
	}
	return matched
}
