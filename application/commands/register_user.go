package commands

import (
	"recurring-orders/domain/core/entities"
	"recurring-orders/pkg/utils"
)

// RegisterUserCommand represents the command to store a user's details record
type RegisterUserCommand struct {
	UserID string             `json:"user_id" validate:"required"`
	Info   *entities.UserInfo `json:"info,omitempty"`
}

// Validate validates the RegisterUserCommand
func (c RegisterUserCommand) Validate() error {
	return utils.ValidateStruct(c)
}
