package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point amount in minor units (cents). Arithmetic on
// int64 keeps pricing exact; division rounds half up so per-seat prices
// never lose more than half a cent.
type Money int64

// MoneyFromUnits builds a Money from a raw minor-unit count.
func MoneyFromUnits(units int64) Money {
	return Money(units)
}

// ParseMoney parses a decimal string like "12.50" into Money.
// At most two fractional digits are accepted and negative amounts
// are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount %q", s)
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q: expected up to 2 decimal places", s)
		}
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := int64(0)
	if frac != "" {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents = f
	}

	return Money(w*100 + cents), nil
}

// Div splits the amount into n parts, rounding half up.
func (m Money) Div(n int) Money {
	d := Money(n)
	return (2*m + d) / (2 * d)
}

// Mul scales the amount by a whole count.
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}

// MarshalJSON renders the amount as a decimal string, e.g. "25.00".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer, storing the minor-unit count.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("cannot scan %q into Money: %w", string(v), err)
		}
		*m = Money(n)
	case nil:
		*m = 0
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
	return nil
}
