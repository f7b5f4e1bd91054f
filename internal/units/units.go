// Package units provides shared constants and conversion for precipitation
// units. Input data are millimetres (accumulations) or millimetres per hour
// (rates); conversion keeps the time base.
package units

import "strings"

// Unit constants
const (
	MM  = "mm"
	MMH = "mm/h"
	CM  = "cm"
	IN  = "in"
	INH = "in/h"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MM, MMH, CM, IN, INH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// FromMillimetres converts a value in millimetres (or mm/h) to the target unit.
// Unknown units are returned unchanged.
func FromMillimetres(v float64, target string) float64 {
	switch target {
	case CM:
		return v / 10
	case IN, INH:
		return v / 25.4
	default:
		return v
	}
}

// ConvertAll applies FromMillimetres to every element of vs in place and
// returns vs.
func ConvertAll(vs []float64, target string) []float64 {
	for i, v := range vs {
		vs[i] = FromMillimetres(v, target)
	}
	return vs
}
