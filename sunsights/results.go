package sunsights

import "strings"

// resultsPageSize is the fixed page size for sample-result tables.
const resultsPageSize = 5

// FilterAll shows every row regardless of priority.
const FilterAll = "All"

// ResultPager provides the client-side priority filter and pagination over a
// bulk run's sample results. Filtering is case-insensitive on the priority
// field; changing the filter resets to page 1; the page index is always
// clamped against the filtered count.
type ResultPager struct {
	results []AnalysisResult
	filter  string
	page    int
}

// NewResultPager starts at page 1 with the All filter.
func NewResultPager(results []AnalysisResult) *ResultPager {
	return &ResultPager{
		results: append([]AnalysisResult(nil), results...),
		filter:  FilterAll,
		page:    1,
	}
}

// SetFilter switches the priority filter (All/High/Medium/Low,
// case-insensitive) and resets pagination to page 1. Unknown values behave
// like All.
func (p *ResultPager) SetFilter(filter string) {
	p.filter = strings.TrimSpace(filter)
	p.page = 1
}

// Filter returns the active filter value.
func (p *ResultPager) Filter() string { return p.filter }

// Filtered returns every row matching the active filter.
func (p *ResultPager) Filtered() []AnalysisResult {
	if p.matchAll() {
		return append([]AnalysisResult(nil), p.results...)
	}
	want := strings.ToLower(p.filter)
	out := make([]AnalysisResult, 0, len(p.results))
	for _, r := range p.results {
		if strings.ToLower(string(r.Priority)) == want {
			out = append(out, r)
		}
	}
	return out
}

func (p *ResultPager) matchAll() bool {
	switch strings.ToLower(p.filter) {
	case "", strings.ToLower(FilterAll):
		return true
	case "high", "medium", "low":
		return false
	default:
		return true
	}
}

// FilteredCount is the number of rows the active filter admits.
func (p *ResultPager) FilteredCount() int { return len(p.Filtered()) }

// TotalPages is at least 1 even when the filtered set is empty.
func (p *ResultPager) TotalPages() int {
	n := (p.FilteredCount() + resultsPageSize - 1) / resultsPageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Page returns the current 1-based page index, clamped.
func (p *ResultPager) Page() int {
	if p.page < 1 {
		return 1
	}
	if max := p.TotalPages(); p.page > max {
		return max
	}
	return p.page
}

// SetPage jumps to page k; out-of-range values are clamped on read.
func (p *ResultPager) SetPage(k int) { p.page = k }

// NextPage advances one page when possible.
func (p *ResultPager) NextPage() {
	if p.HasNext() {
		p.page = p.Page() + 1
	}
}

// PrevPage steps back one page when possible.
func (p *ResultPager) PrevPage() {
	if p.HasPrev() {
		p.page = p.Page() - 1
	}
}

// HasNext reports whether a later page exists; the "Next" control is
// disabled when it returns false.
func (p *ResultPager) HasNext() bool { return p.Page() < p.TotalPages() }

// HasPrev reports whether an earlier page exists.
func (p *ResultPager) HasPrev() bool { return p.Page() > 1 }

// Rows returns the rows for the current page: for N filtered rows and page
// k, rows [5(k-1), min(5k, N)).
func (p *ResultPager) Rows() []AnalysisResult {
	filtered := p.Filtered()
	start := (p.Page() - 1) * resultsPageSize
	if start >= len(filtered) {
		return []AnalysisResult{}
	}
	end := start + resultsPageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}
