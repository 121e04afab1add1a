package schema

import "strings"

// DefaultFilterStatus is applied when a search filter is saved without a status.
const DefaultFilterStatus = FilterStatusIncomplete

// CreateSearchFilterInput is a saved search. Reserved: no route stores filters yet.
type CreateSearchFilterInput struct {
	UserID       string           `json:"user_id" validate:"required"`
	SearchQuery  Nullable[string] `json:"search_query,omitzero" validate:"-"`
	FilterStatus string           `json:"filter_status" validate:"required"`
}

// ParseCreateSearchFilter validates a saved-search body for ownerID.
func ParseCreateSearchFilter(data []byte, ownerID string) (CreateSearchFilterInput, error) {
	var in CreateSearchFilterInput
	verr := decode(data, &in)
	in.UserID = ownerID
	in.SearchQuery.checkType("search_query", verr)
	in.FilterStatus = strings.TrimSpace(in.FilterStatus)
	if in.FilterStatus == "" {
		in.FilterStatus = DefaultFilterStatus
	}
	return in, finish(verr, &in)
}

// UpdateSearchFilterInput is a partial saved-search update.
type UpdateSearchFilterInput struct {
	FilterID     string           `json:"filter_id" validate:"required"`
	SearchQuery  Nullable[string] `json:"search_query,omitzero" validate:"-"`
	FilterStatus *string          `json:"filter_status,omitempty"`
}

// SearchSearchFilterInput is the saved-search listing query.
type SearchSearchFilterInput struct {
	UserID       string  `json:"user_id"`
	SearchQuery  string  `json:"search_query"`
	FilterStatus *string `json:"filter_status"`
	Limit        int     `json:"limit" validate:"gt=0"`
	Offset       int     `json:"offset" validate:"gte=0"`
	SortBy       string  `json:"sort_by" validate:"oneof=created_at"`
	SortOrder    string  `json:"sort_order" validate:"oneof=asc desc"`
}

// NewSearchSearchFilterInput returns a query populated with the defaults.
func NewSearchSearchFilterInput() SearchSearchFilterInput {
	return SearchSearchFilterInput{
		Limit:     DefaultLimit,
		Offset:    DefaultOffset,
		SortBy:    "created_at",
		SortOrder: DefaultSortOrder,
	}
}
