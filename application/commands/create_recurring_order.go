package commands

import (
	"recurring-orders/pkg/utils"
)

// CreateRecurringOrderCommand represents the command to create a recurring order.
// HashKey accepts a bare user id or a "User#<id>" key.
type CreateRecurringOrderCommand struct {
	HashKey   string `json:"hash_key" validate:"required"`
	Currency  string `json:"currency" validate:"required,oneof=BTC ETH"`
	Frequency string `json:"frequency" validate:"required,oneof=DAILY BI_MONTHLY"`
	Amount    int64  `json:"amount" validate:"gt=0"`
}

// Validate validates the CreateRecurringOrderCommand
func (c CreateRecurringOrderCommand) Validate() error {
	return utils.ValidateStruct(c)
}
