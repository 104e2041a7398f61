package client

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps Page*Size within int for any accepted size.
	MaxPage = math.MaxInt / MaxPageSize
)

// SortField names a sortable attribute using its API name.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByActive    SortField = "active"
)

// SortFields lists every accepted sort field.
var SortFields = []SortField{SortByCreatedAt, SortByUpdatedAt, SortByName, SortByEmail, SortByActive}

// SortDirection is ASC or DESC.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Filter is the predicate shared by the page query and the count query.
type Filter struct {
	Active         *bool  `json:"active,omitempty"`
	IncludeDeleted bool   `json:"include_deleted"`
	Query          string `json:"query,omitempty"`
}

// NormalizedQuery returns the trimmed, lower cased free text term.
func (f Filter) NormalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

// ListQuery describes a filtered, sorted page request. Page is zero based.
type ListQuery struct {
	Filter
	Page    int           `json:"page"`
	Size    int           `json:"size"`
	SortBy  SortField     `json:"sort_by,omitempty"`
	SortDir SortDirection `json:"sort_dir,omitempty"`
}

// WithDefaults fills unset sort and size values. Direction is upper cased.
func (q ListQuery) WithDefaults() ListQuery {
	if q.Size == 0 {
		q.Size = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.SortDir == "" {
		q.SortDir = SortDesc
	}
	q.SortDir = SortDirection(strings.ToUpper(string(q.SortDir)))
	return q
}

// Offset is the number of rows skipped before the page.
func (q ListQuery) Offset() int {
	return q.Page * q.Size
}

// Page is the envelope returned by list operations.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Page          int  `json:"page"`
	Size          int  `json:"size"`
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// NewPage derives the pagination metadata from the total count.
// totalPages uses ceiling division and last is page >= totalPages-1, so an
// empty result is both first (when page is 0) and last.
func NewPage[T any](content []T, page, size, total int) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}
