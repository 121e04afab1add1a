package schema

import "strings"

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

// ParseCreateUser validates a registration body. The email is normalized and the
// name trimmed before the rules run; the password is kept verbatim.
func ParseCreateUser(data []byte) (CreateUserInput, error) {
	var in CreateUserInput
	verr := decode(data, &in)
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	return in, finish(verr, &in)
}

// NormalizeEmail returns the lowercased, trimmed form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpdateUserInput is a partial user update. No route exposes it yet.
type UpdateUserInput struct {
	UserID   string  `json:"user_id" validate:"required"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=8"`
	Name     *string `json:"name" validate:"omitnil,min=1"`
}

// SearchUserInput is the user listing query.
type SearchUserInput struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit" validate:"gt=0"`
	Offset    int    `json:"offset" validate:"gte=0"`
	SortBy    string `json:"sort_by" validate:"oneof=name created_at"`
	SortOrder string `json:"sort_order" validate:"oneof=asc desc"`
}

// NewSearchUserInput returns a query populated with the defaults.
func NewSearchUserInput() SearchUserInput {
	return SearchUserInput{
		Limit:     DefaultLimit,
		Offset:    DefaultOffset,
		SortBy:    "created_at",
		SortOrder: DefaultSortOrder,
	}
}
