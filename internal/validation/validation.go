// Package validation parses and checks operator input before it reaches a
// query. Every parser returns *domain.ValidationError on malformed input.
package validation

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"

	"hotel_ops/internal/domain"
)

// InputDateLayout is the accepted operator date form, MM/DD/YYYY with
// optional leading zeros.
const InputDateLayout = "1/2/2006"

var datePattern = regexp.MustCompile(`^(0?[1-9]|1[0-2])/(0?[1-9]|[12][0-9]|3[01])/\d{4}$`)

var validate = val.New()

// Coordinates bounds are inclusive.
type Coordinates struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

type Registration struct {
	Name     string `validate:"required,max=50"`
	Password string `validate:"required,min=1,max=72"`
}

type RoomChange struct {
	Price    float64 `validate:"gt=0"`
	ImageURL string  `validate:"max=2048"`
}

func fail(field, reason string) error {
	return &domain.ValidationError{Field: field, Reason: reason}
}

// Struct checks v against its tags and reports the first violation.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve val.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fail(strings.ToLower(ve[0].Field()), message(ve[0]))
	}
	return err
}

// ParseDate accepts MM/DD/YYYY and rejects dates that do not exist
// (02/30/2024).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !datePattern.MatchString(s) {
		return time.Time{}, fail("date", "must be in the format MM/DD/YYYY")
	}
	t, err := time.Parse(InputDateLayout, s)
	if err != nil {
		return time.Time{}, fail("date", "is not a calendar date")
	}
	return t, nil
}

// ParseDateRange parses inclusive bounds and requires from <= to.
func ParseDateRange(from, to string) (domain.DateRange, error) {
	f, err := ParseDate(from)
	if err != nil {
		return domain.DateRange{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return domain.DateRange{}, err
	}
	return NewDateRange(f, t)
}

// NewDateRange rejects an upper bound before the lower one. Both bounds are
// inclusive, so equal bounds cover one day.
func NewDateRange(from, to time.Time) (domain.DateRange, error) {
	if to.Before(from) {
		return domain.DateRange{}, fail("date", "upper bound is before lower bound")
	}
	return domain.DateRange{From: from, To: to}, nil
}

// Round6 rounds to 6 decimal places.
func Round6(f float64) float64 { return math.Round(f*1e6) / 1e6 }

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fail(field, "must be a number")
	}
	return f, nil
}

// ParseLatitude checks the range on the raw value, then rounds, so
// 90.0000001 is rejected rather than rounded into range.
func ParseLatitude(s string) (float64, error) {
	f, err := parseFloat("latitude", s)
	if err != nil {
		return 0, err
	}
	if err := Struct(Coordinates{Lat: f}); err != nil {
		return 0, err
	}
	return Round6(f), nil
}

func ParseLongitude(s string) (float64, error) {
	f, err := parseFloat("longitude", s)
	if err != nil {
		return 0, err
	}
	if err := Struct(Coordinates{Lon: f}); err != nil {
		return 0, err
	}
	return Round6(f), nil
}

// ParseID accepts a positive integer identifier.
func ParseID(field, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fail(field, "must be a whole number")
	}
	if n <= 0 {
		return 0, fail(field, "must be positive")
	}
	return n, nil
}

// ParseChoice accepts any integer menu choice.
func ParseChoice(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fail("choice", "must be a number")
	}
	return n, nil
}

func ParsePrice(s string) (float64, error) {
	f, err := parseFloat("price", s)
	if err != nil {
		return 0, err
	}
	// cents are what is stored, so the bound applies to the rounded value
	f = math.Round(f*100) / 100
	if err := Struct(RoomChange{Price: f}); err != nil {
		return 0, err
	}
	return f, nil
}
