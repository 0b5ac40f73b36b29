package listutil

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// MaxPerPage caps the page size a client may request.
const MaxPerPage = 200

// DateLayout is the query-string format for calendar dates.
const DateLayout = "2006-01-02"

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// PageInfo carries pagination metadata returned with list responses.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// DateRange is a half-open [From, To) interval; zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParsePageParams extracts page and per_page from URL query values.
// POST: 1 <= PerPage <= MaxPerPage, Page >= 1
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseDate reads a YYYY-MM-DD value as local midnight in loc.
// A missing key returns the zero time and no error.
func ParseDate(q url.Values, key string, loc *time.Location) (time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return t, nil
}

// ParseInstant reads an RFC 3339 timestamp, falling back to fallback when absent.
func ParseInstant(q url.Values, key string, fallback time.Time) (time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return t, nil
}

// ParseDateRange reads from/to dates. "to" is inclusive in the query and
// becomes the exclusive midnight after it.
// POST: returns an error if To is not after From
func ParseDateRange(q url.Values, loc *time.Location) (DateRange, error) {
	from, err := ParseDate(q, "from", loc)
	if err != nil {
		return DateRange{}, err
	}
	to, err := ParseDate(q, "to", loc)
	if err != nil {
		return DateRange{}, err
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return DateRange{}, fmt.Errorf("to must not be before from")
	}
	return DateRange{From: from, To: to}, nil
}

// NewPageInfo computes pagination metadata.
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasNext reports whether another page follows.
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}
