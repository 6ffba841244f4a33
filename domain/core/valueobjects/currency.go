package valueobjects

import (
	"strings"

	pkgerrors "recurring-orders/pkg/errors"
)

// Currency is the crypto asset a recurring order buys
type Currency string

const (
	CurrencyBTC Currency = "BTC" // Bitcoin
	CurrencyETH Currency = "ETH" // Ethereum
)

// Currencies lists every supported currency
var Currencies = []Currency{CurrencyBTC, CurrencyETH}

// ParseCurrency returns the Currency for value, rejecting anything unsupported
func ParseCurrency(value string) (Currency, error) {
	c := Currency(strings.TrimSpace(value))
	if !c.IsValid() {
		return "", pkgerrors.NewValidationErrorf("currency must be one of %s; got %q", joinCurrencies(), value)
	}
	return c, nil
}

// IsValid reports whether c is a supported currency
func (c Currency) IsValid() bool {
	for _, supported := range Currencies {
		if c == supported {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

func joinCurrencies() string {
	names := make([]string, len(Currencies))
	for i, c := range Currencies {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
