package schema

// CreateAuthTokenInput is the record written for every issued token.
type CreateAuthTokenInput struct {
	UserID    string `json:"user_id" validate:"required"`
	AuthToken string `json:"auth_token" validate:"required"`
}

// UpdateAuthTokenInput is declared for completeness; tokens are never updated.
type UpdateAuthTokenInput struct {
	TokenID   string  `json:"token_id" validate:"required"`
	AuthToken *string `json:"auth_token" validate:"omitnil,min=1"`
}

// SearchAuthTokenInput is the token listing query.
type SearchAuthTokenInput struct {
	UserID    string `json:"user_id"`
	Limit     int    `json:"limit" validate:"gt=0"`
	Offset    int    `json:"offset" validate:"gte=0"`
	SortBy    string `json:"sort_by" validate:"oneof=created_at"`
	SortOrder string `json:"sort_order" validate:"oneof=asc desc"`
}

// NewSearchAuthTokenInput returns a query populated with the defaults.
func NewSearchAuthTokenInput() SearchAuthTokenInput {
	return SearchAuthTokenInput{
		Limit:     DefaultLimit,
		Offset:    DefaultOffset,
		SortBy:    "created_at",
		SortOrder: DefaultSortOrder,
	}
}
