package events

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortDate       SortKey = "date"
	SortTitle      SortKey = "title"
	SortPrice      SortKey = "price"
	SortPopularity SortKey = "popularity"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortNone, SortDate, SortTitle, SortPrice, SortPopularity:
		return k, true
	}
	return "", false
}

// FilterParams is the raw, caller-supplied query. Zero values mean
// "no constraint": empty Category behaves like All, nil Featured matches
// both featured and regular events, Limit 0 returns everything.
type FilterParams struct {
	Category string
	Search   string
	Featured *bool
	Limit    int
	Sort     string
}

// Filters is a validated, immutable catalog query. Build it with NewFilters.
type Filters struct {
	category Category
	search   string
	featured *bool
	limit    int
	sort     SortKey
}

func NewFilters(p FilterParams) (Filters, error) {
	f := Filters{
		category: CategoryAll,
		search:   strings.ToLower(strings.TrimSpace(p.Search)),
		limit:    p.Limit,
	}

	if p.Category != "" {
		c, ok := ParseCategory(p.Category)
		if !ok {
			return Filters{}, fmt.Errorf("unknown category %q: %w", p.Category, ErrInvalidFilters)
		}
		f.category = c
	}

	sort, ok := ParseSortKey(p.Sort)
	if !ok {
		return Filters{}, fmt.Errorf("unknown sort key %q: %w", p.Sort, ErrInvalidFilters)
	}
	f.sort = sort

	if p.Limit < 0 {
		return Filters{}, fmt.Errorf("limit must not be negative, got %d: %w", p.Limit, ErrInvalidFilters)
	}

	if p.Featured != nil {
		v := *p.Featured
		f.featured = &v
	}

	return f, nil
}

// AllEvents is the empty query.
func AllEvents() Filters {
	return Filters{category: CategoryAll}
}

func (f Filters) Category() Category { return f.category }
func (f Filters) Search() string     { return f.search }
func (f Filters) Limit() int         { return f.limit }
func (f Filters) Sort() SortKey      { return f.sort }

func (f Filters) Featured() (bool, bool) {
	if f.featured == nil {
		return false, false
	}
	return *f.featured, true
}

// Matches reports whether e passes every active predicate.
func (f Filters) Matches(e Event) bool {
	if f.category != "" && f.category != CategoryAll && e.Category != f.category {
		return false
	}
	if f.featured != nil && e.Featured != *f.featured {
		return false
	}
	if f.search != "" && !matchesSearch(e, f.search) {
		return false
	}
	return true
}

// term must already be lower-cased.
func matchesSearch(e Event, term string) bool {
	fields := []string{
		e.Title,
		e.Description,
		string(e.Category),
		e.Location,
		e.Organizer.Name,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Apply filters, sorts and truncates, in that order. The input slice is not
// modified and the result is never nil.
func (f Filters) Apply(events []Event) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			result = append(result, e)
		}
	}

	if cmpFn := compareFunc(f.sort); cmpFn != nil {
		slices.SortStableFunc(result, cmpFn)
	}

	if f.limit > 0 && len(result) > f.limit {
		result = result[:f.limit]
	}

	return result
}

func compareFunc(key SortKey) func(a, b Event) int {
	switch key {
	case SortDate:
		return func(a, b Event) int { return a.Date.Compare(b.Date.Time) }
	case SortTitle:
		return func(a, b Event) int { return strings.Compare(a.Title, b.Title) }
	case SortPrice:
		return func(a, b Event) int { return a.Price.Cmp(b.Price) }
	case SortPopularity:
		return func(a, b Event) int { return cmp.Compare(b.CurrentAttendees, a.CurrentAttendees) }
	}
	return nil
}
