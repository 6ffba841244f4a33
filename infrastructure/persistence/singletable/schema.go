package singletable

import (
	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/keys"
)

// UserSchema places users on their details record
type UserSchema struct {
	Table string
}

var _ keys.Schema[*entities.User] = UserSchema{}

func (s UserSchema) TableName() string                         { return s.Table }
func (s UserSchema) PartitionKeyOf(user *entities.User) string { return user.HashKey() }
func (s UserSchema) SortKeyOf(user *entities.User) string      { return user.SortKey() }

// RecurringOrderSchema places orders in their owner's partition. The sort key
// is the one generated when the order was created.
type RecurringOrderSchema struct {
	Table string
}

var _ keys.Schema[*entities.RecurringOrder] = RecurringOrderSchema{}

func (s RecurringOrderSchema) TableName() string { return s.Table }

func (s RecurringOrderSchema) PartitionKeyOf(order *entities.RecurringOrder) string {
	return order.HashKey()
}

func (s RecurringOrderSchema) SortKeyOf(order *entities.RecurringOrder) string {
	return order.SortKey()
}

// SlotKeyOf returns the key of the guard item that reserves the order's
// currency/frequency pair in its owner's partition
func (s RecurringOrderSchema) SlotKeyOf(order *entities.RecurringOrder) (string, error) {
	return keys.OrderSlotKey(order.Currency(), order.Frequency())
}
