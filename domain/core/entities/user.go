package entities

import (
	"recurring-orders/domain/core/valueobjects"
	"recurring-orders/domain/keys"
)

// UserInfo is the profile payload stored on a user's details record.
// No invariants are enforced on it.
type UserInfo struct {
	FirstName     string `json:"first_name" dynamodbav:"first_name"`
	LastName      string `json:"last_name" dynamodbav:"last_name"`
	AccountNumber string `json:"account_number" dynamodbav:"account_number"`
	RoutingNumber string `json:"routing_number" dynamodbav:"routing_number"`
}

// User is the profile record that shares a partition with the user's orders
type User struct {
	id   valueobjects.UserID
	info *UserInfo
}

// NewUser creates a user from a bare or prefixed id
func NewUser(rawID string, info *UserInfo) (*User, error) {
	id, err := valueobjects.NewUserID(rawID)
	if err != nil {
		return nil, err
	}
	return &User{id: id, info: info}, nil
}

func (u *User) ID() valueobjects.UserID { return u.id }
func (u *User) Info() *UserInfo         { return u.info }

// HashKey returns "User#<id>"
func (u *User) HashKey() string { return keys.UserPartitionKey(u.id.String()) }

// SortKey is always "details"
func (u *User) SortKey() string { return keys.UserSortKey }
