package queries

import (
	"recurring-orders/domain/core/entities"
	pkgerrors "recurring-orders/pkg/errors"
)

// GetUserQuery represents a query for a user's details record
type GetUserQuery struct {
	UserID string
}

// Validate validates the GetUserQuery
func (q GetUserQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

// UserView is the read model of a user
type UserView struct {
	HashKey  string             `json:"hash_key"`
	RangeKey string             `json:"range_key"`
	Info     *entities.UserInfo `json:"info,omitempty"`
}

// NewUserView converts a user into its read model
func NewUserView(user *entities.User) UserView {
	return UserView{
		HashKey:  user.HashKey(),
		RangeKey: user.SortKey(),
		Info:     user.Info(),
	}
}
