package form

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\d{3}-?\d{3}-?\d{4}$`)
	cardPattern  = regexp.MustCompile(`^\d{16}$`)
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Validate checks a single raw value and returns a human readable problem,
// or "" when the value is acceptable.
func (f Field) Validate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.Required {
			return fmt.Sprintf("%s is required", f.Label)
		}
		return ""
	}

	if f.Kind == KindNumber {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Sprintf("%s must be a number", f.Label)
		}
		if f.Integer && !isInt64(value, n) {
			return fmt.Sprintf("%s must be a whole number", f.Label)
		}
		switch f.Name {
		case "credit_score":
			if n < 300 || n > 850 {
				return "Credit score must be between 300 and 850"
			}
		case "balance":
			if n < 0 {
				return "Balance cannot be negative"
			}
		case "amount", "amount_paid":
			if n <= 0 {
				return fmt.Sprintf("%s must be greater than 0", f.Label)
			}
		}
	}

	switch f.Name {
	case "email":
		if !emailPattern.MatchString(value) {
			return "Enter an email address like user@example.com"
		}
	case "phone":
		if !phonePattern.MatchString(value) {
			return "Enter a phone number like 555-123-4567"
		}
	case "card_number":
		if !cardPattern.MatchString(value) {
			return "Card number must be exactly 16 digits"
		}
	}

	if f.Kind == KindDate && !parsesAsDate(value) {
		return "Enter a date as YYYY-MM-DD"
	}

	if f.Kind == KindEnum && len(f.Options) > 0 && !slices.Contains(f.Options, value) {
		return fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", "))
	}

	return ""
}

// fitsInt64 reports whether n is whole and inside the int64 range.
func fitsInt64(n float64) bool {
	return n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64
}

func isInt64(value string, n float64) bool {
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return true
	}
	return fitsInt64(n)
}

func parsesAsDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// Errors maps field names to problems.
type Errors map[string]string

func (e Errors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e[name])
	}
	return strings.Join(parts, "; ")
}

// ValidateAll checks values against fields. With partial set only the
// supplied values are checked (updates); otherwise every field is, so
// missing required values are reported (inserts). Auto generated fields
// are never required. Returns nil when everything passes.
func ValidateAll(fields []Field, values map[string]string, partial bool) Errors {
	errs := Errors{}
	known := make(map[string]bool, len(fields))

	for _, f := range fields {
		known[f.Name] = true
		v, ok := values[f.Name]
		if !ok && (partial || f.AutoGenerated) {
			continue
		}
		if msg := f.Validate(v); msg != "" {
			errs[f.Name] = msg
		}
	}
	for name := range values {
		if !known[name] {
			errs[name] = "Unknown column"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Coerce converts raw values into a request row, in field order. Numeric
// fields become int64 or float64 and empty values become NULL. Values
// should have passed ValidateAll first.
func Coerce(fields []Field, values map[string]string) (*models.Row, error) {
	row := models.NewRow(len(values))
	for _, f := range fields {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			row.Set(f.Name, nil)
			continue
		}
		if f.Kind != KindNumber {
			row.Set(f.Name, raw)
			continue
		}
		if f.Integer {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				fl, ferr := strconv.ParseFloat(raw, 64)
				if ferr != nil {
					return nil, fmt.Errorf("%s: %w", f.Name, err)
				}
				if !fitsInt64(fl) {
					return nil, fmt.Errorf("%s: %w", f.Name, err)
				}
				n = int64(fl)
			}
			row.Set(f.Name, n)
			continue
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		row.Set(f.Name, n)
	}
	return row, nil
}
