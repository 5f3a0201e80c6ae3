package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

// SortEntries orders candidate entries by the primary key. The sort is
// stable: entries that compare equal retain their input order, so
// results for a query are deterministic and reproducible.
func SortEntries(entries []domain.IndexEntry, key domain.OrderKey) {
	sort.SliceStable(entries, func(i, j int) bool {
		return compareEntries(entries[i].Document, entries[j].Document, key) < 0
	})
}

// compareEntries is the total-order comparator over documents for the
// given primary key. Negative means a sorts before b.
func compareEntries(a, b *domain.Document, key domain.OrderKey) int {
	switch key {
	case domain.OrderByTitle:
		return compareText(a, b, func(d *domain.Document) string { return d.Title })
	case domain.OrderByLibrary:
		return compareText(a, b, func(d *domain.Document) string { return d.Server })
	case domain.OrderByAuthor:
		return compareText(a, b, func(d *domain.Document) string { return d.AuthorName })
	case domain.OrderBySpecialty:
		return compareText(a, b, func(d *domain.Document) string { return d.Category })
	case domain.OrderByPubDate:
		return compareDates(a.PubDate, b.PubDate)
	default:
		return compareDates(a.LMDate, b.LMDate)
	}
}

// compareText compares a text field case-insensitively, tie-breaking on
// last-modified date descending.
//
// The missing-field rule is deliberately asymmetric: a document with the
// field present always precedes one missing it, regardless of the
// comparison direction. Do not replace this with a symmetric
// null-ordering policy.
func compareText(a, b *domain.Document, field func(*domain.Document) string) int {
	fa, fb := field(a), field(b)
	switch {
	case fa == "" && fb == "":
		return compareDates(a.LMDate, b.LMDate)
	case fb == "":
		return -1
	case fa == "":
		return 1
	}
	if c := strings.Compare(strings.ToLower(fa), strings.ToLower(fb)); c != 0 {
		return c
	}
	return compareDates(a.LMDate, b.LMDate)
}

// compareDates compares two date strings descending. Dates are assumed
// to be zero-padded ISO form, so a literal string compare orders them.
// A document missing the date sorts after one that has it.
func compareDates(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case b == "":
		return -1
	case a == "":
		return 1
	}
	return -strings.Compare(a, b)
}
