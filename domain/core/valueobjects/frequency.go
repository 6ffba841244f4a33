package valueobjects

import (
	"strings"

	pkgerrors "recurring-orders/pkg/errors"
)

// Frequency is how often a recurring order executes
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyBiMonthly Frequency = "BI_MONTHLY"
)

// Frequencies lists every supported frequency
var Frequencies = []Frequency{FrequencyDaily, FrequencyBiMonthly}

// ParseFrequency returns the Frequency for value, rejecting anything unsupported
func ParseFrequency(value string) (Frequency, error) {
	f := Frequency(strings.TrimSpace(value))
	if !f.IsValid() {
		return "", pkgerrors.NewValidationErrorf("frequency must be one of %s; got %q", joinFrequencies(), value)
	}
	return f, nil
}

// IsValid reports whether f is a supported frequency
func (f Frequency) IsValid() bool {
	for _, supported := range Frequencies {
		if f == supported {
			return true
		}
	}
	return false
}

func (f Frequency) String() string {
	return string(f)
}

func joinFrequencies() string {
	names := make([]string, len(Frequencies))
	for i, f := range Frequencies {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
