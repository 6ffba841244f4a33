// Package keys encodes users and recurring orders into the shared
// hash_key/range_key namespace of the single table.
//
//	hash_key                range_key
//	User#<user_id>          details
//	User#<user_id>          RecurringOrder#<order_uuid>#<currency>#<frequency>
//	User#<user_id>          RecurringOrderSlot#<currency>#<frequency>
//
// The slot item is the uniqueness guard for a (currency, frequency) pair; its
// key carries no random segment so a conditional put on it collides.
package keys

import (
	"fmt"
	"strings"

	"recurring-orders/domain/core/valueobjects"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/google/uuid"
)

// Attribute names of the table's primary key.
const (
	AttrHashKey  = "hash_key"
	AttrRangeKey = "range_key"
)

const (
	Delimiter = "#"

	UserPrefix           = "User" + Delimiter
	UserSortKey          = "details"
	RecurringOrderPrefix = "RecurringOrder" + Delimiter
	OrderSlotPrefix      = "RecurringOrderSlot" + Delimiter
)

// UserPartitionKey returns "User#<id>" for a bare or already prefixed id.
// Applying it to its own output returns the same key.
func UserPartitionKey(raw string) string {
	return UserPrefix + valueobjects.StripKeyPrefix(raw)
}

// OrderDiscriminant returns "<currency>#<frequency>", the part of an order's
// sort key the uniqueness check inspects.
func OrderDiscriminant(currency valueobjects.Currency, frequency valueobjects.Frequency) (string, error) {
	if err := validatePair(currency, frequency); err != nil {
		return "", err
	}
	return currency.String() + Delimiter + frequency.String(), nil
}

// OrderSortKey returns a new "RecurringOrder#<uuid>#<currency>#<frequency>".
// Every call embeds a fresh UUID.
func OrderSortKey(currency valueobjects.Currency, frequency valueobjects.Frequency) (string, error) {
	discriminant, err := OrderDiscriminant(currency, frequency)
	if err != nil {
		return "", err
	}
	return RecurringOrderPrefix + uuid.NewString() + Delimiter + discriminant, nil
}

// OrderSlotKey returns the guard key "RecurringOrderSlot#<currency>#<frequency>".
func OrderSlotKey(currency valueobjects.Currency, frequency valueobjects.Frequency) (string, error) {
	discriminant, err := OrderDiscriminant(currency, frequency)
	if err != nil {
		return "", err
	}
	return OrderSlotPrefix + discriminant, nil
}

func validatePair(currency valueobjects.Currency, frequency valueobjects.Frequency) error {
	if !currency.IsValid() {
		return pkgerrors.NewValidationErrorf("unrecognized currency %q", currency)
	}
	if !frequency.IsValid() {
		return pkgerrors.NewValidationErrorf("unrecognized frequency %q", frequency)
	}
	return nil
}

// Kind tags which entity a sort key belongs to
type Kind int

const (
	KindUnknown Kind = iota
	KindUser
	KindRecurringOrder
	KindOrderSlot
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindRecurringOrder:
		return "RecurringOrder"
	case KindOrderSlot:
		return "RecurringOrderSlot"
	default:
		return "Unknown"
	}
}

// SortKey is a decoded range_key. OrderID is only set for KindRecurringOrder;
// Currency and Frequency are set for orders and slots.
type SortKey struct {
	Kind      Kind
	Raw       string
	OrderID   string
	Currency  valueobjects.Currency
	Frequency valueobjects.Frequency
}

// DecodeSortKey reads the leading segment of sk to pick the entity kind and
// parses the rest for that kind.
func DecodeSortKey(sk string) (SortKey, error) {
	switch {
	case sk == UserSortKey:
		return SortKey{Kind: KindUser, Raw: sk}, nil

	case strings.HasPrefix(sk, OrderSlotPrefix):
		parts := strings.Split(strings.TrimPrefix(sk, OrderSlotPrefix), Delimiter)
		if len(parts) != 2 {
			return SortKey{}, fmt.Errorf("malformed slot key %q", sk)
		}
		currency, frequency, err := parsePair(parts[0], parts[1])
		if err != nil {
			return SortKey{}, fmt.Errorf("malformed slot key %q: %w", sk, err)
		}
		return SortKey{Kind: KindOrderSlot, Raw: sk, Currency: currency, Frequency: frequency}, nil

	case strings.HasPrefix(sk, RecurringOrderPrefix):
		parts := strings.Split(strings.TrimPrefix(sk, RecurringOrderPrefix), Delimiter)
		if len(parts) != 3 || parts[0] == "" {
			return SortKey{}, fmt.Errorf("malformed recurring order key %q", sk)
		}
		currency, frequency, err := parsePair(parts[1], parts[2])
		if err != nil {
			return SortKey{}, fmt.Errorf("malformed recurring order key %q: %w", sk, err)
		}
		return SortKey{
			Kind:      KindRecurringOrder,
			Raw:       sk,
			OrderID:   parts[0],
			Currency:  currency,
			Frequency: frequency,
		}, nil
	}

	return SortKey{}, fmt.Errorf("unknown sort key %q", sk)
}

func parsePair(c, f string) (valueobjects.Currency, valueobjects.Frequency, error) {
	currency, err := valueobjects.ParseCurrency(c)
	if err != nil {
		return "", "", err
	}
	frequency, err := valueobjects.ParseFrequency(f)
	if err != nil {
		return "", "", err
	}
	return currency, frequency, nil
}
