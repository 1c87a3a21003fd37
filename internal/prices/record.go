// Package prices holds raw Scryfall price records and the repository that
// fills them in one card at a time.
package prices

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency keys found in a Scryfall "prices" object.
const (
	FieldUSD       = "usd"
	FieldUSDFoil   = "usd_foil"
	FieldUSDEtched = "usd_etched"
	FieldEUR       = "eur"
	FieldEURFoil   = "eur_foil"
	FieldTix       = "tix"
)

// ErrNotNumeric is returned by ParsePrice for values that are not a number.
var ErrNotNumeric = errors.New("price is not numeric")

// Record is the multi-currency price object for one card. A nil value means
// the API has no price for that currency.
type Record map[string]*string

// Value returns the raw string under field and whether it is present.
func (r Record) Value(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Describe renders the field for log output the way the API sent it.
func (r Record) Describe(field string) string {
	v, ok := r[field]
	switch {
	case !ok:
		return "missing"
	case v == nil:
		return "null"
	default:
		return fmt.Sprintf("%q", *v)
	}
}

// Price parses field as a number.
func (r Record) Price(field string) (float64, error) {
	v, ok := r.Value(field)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s", ErrNotNumeric, field, r.Describe(field))
	}
	return ParsePrice(v)
}

// ParsePrice converts a decimal string such as "12.50" to a float.
func ParsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrNotNumeric, s)
	}
	return f, nil
}

var basicLands = map[string]struct{}{
	"plains":   {},
	"swamp":    {},
	"mountain": {},
	"forest":   {},
	"island":   {},
}

// IsBasicLand reports whether name is one of the five basic lands.
// Basic lands are never priced.
func IsBasicLand(name string) bool {
	_, ok := basicLands[strings.ToLower(name)]
	return ok
}
