// Package validation holds the field rules applied to inventory input
// before it is written to the worksheet.
package validation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mamadbah2/inventory/internal/domain/models"
)

// MaxLength is the longest value accepted for any field.
const MaxLength = 20

// Kind describes the expected shape of a value.
type Kind string

const (
	KindAny            Kind = ""
	KindText           Kind = "text"
	KindPositiveNumber Kind = "positive number"
)

var (
	// ErrInvalid is wrapped by every field rejection.
	ErrInvalid = errors.New("invalid value")

	ErrTooLong = fmt.Errorf("%w: longer than %d characters", ErrInvalid, MaxLength)
	ErrEmpty   = fmt.Errorf("%w: empty", ErrInvalid)
	ErrKind    = fmt.Errorf("%w: wrong kind", ErrInvalid)
	ErrOption  = fmt.Errorf("%w: not an available option", ErrInvalid)

	// ErrNotANumber indicates an index answer is not an integer.
	ErrNotANumber = errors.New("not a number")

	// ErrIndexOutOfRange indicates an index outside [1, count].
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Validate reports whether value has the given kind. Text must be non-empty
// and not made only of digits; numbers must parse and be strictly positive.
func Validate(value string, kind Kind) bool {
	switch kind {
	case KindText:
		return value != "" && !isDigits(value)
	case KindPositiveNumber:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return false
		}
		return number > 0
	default:
		return false
	}
}

func isDigits(value string) bool {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return value != ""
}

// Rule is the set of constraints for one prompted field.
type Rule struct {
	// Description names the field in rejection messages.
	Description string
	Kind        Kind
	Options     []string
	AllowEmpty  bool
}

// FieldError is returned by Rule.Check.
type FieldError struct {
	Rule  Rule
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Message()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Message renders the rejection for display.
func (e *FieldError) Message() string {
	switch {
	case errors.Is(e.Err, ErrTooLong):
		return fmt.Sprintf("You cannot enter more than %d characters", MaxLength)
	case errors.Is(e.Err, ErrEmpty) && e.Rule.Description == "" && len(e.Rule.Options) > 0:
		return "Please select one of the available options"
	case errors.Is(e.Err, ErrEmpty):
		name := e.Rule.Description
		if name == "" {
			name = "Value"
		}
		return fmt.Sprintf("%s cannot be empty.", name)
	case errors.Is(e.Err, ErrKind):
		return fmt.Sprintf("The value must be %s", e.Rule.Kind)
	case errors.Is(e.Err, ErrOption):
		return "Please select one of the available options"
	default:
		return e.Err.Error()
	}
}

// Check applies the rule to an already trimmed value.
func (r Rule) Check(value string) error {
	if utf8.RuneCountInString(value) > MaxLength {
		return &FieldError{Rule: r, Value: value, Err: ErrTooLong}
	}

	if value == "" {
		if r.AllowEmpty {
			return nil
		}
		return &FieldError{Rule: r, Value: value, Err: ErrEmpty}
	}

	if r.Kind != KindAny && !Validate(value, r.Kind) {
		return &FieldError{Rule: r, Value: value, Err: ErrKind}
	}

	if len(r.Options) > 0 && !slices.Contains(r.Options, value) {
		return &FieldError{Rule: r, Value: value, Err: ErrOption}
	}

	return nil
}

// ParseIndex converts a user supplied item index and checks it against count.
func ParseIndex(raw string, count int) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	if index < 1 || index > count {
		return 0, fmt.Errorf("%w: %d not in 1-%d", ErrIndexOutOfRange, index, count)
	}
	return index, nil
}

// Item field rules shared by the add and update flows.
var (
	NameRule     = Rule{Description: "Item name", Kind: KindText}
	TypeRule     = Rule{Description: "Item type", Kind: KindText}
	QuantityRule = Rule{Description: "Item quantity", Kind: KindPositiveNumber}
	UnitRule     = Rule{Description: "Item unit", Kind: KindText}
)

type fieldCheck struct {
	rule    Rule
	value   string
	current string
}

func itemChecks(current, item models.Item) []fieldCheck {
	return []fieldCheck{
		{NameRule, item.Name, current.Name},
		{TypeRule, item.Type, current.Type},
		{QuantityRule, item.Quantity, current.Quantity},
		{UnitRule, item.Unit, current.Unit},
	}
}

// ValidateItem checks every field of an item about to be written.
func ValidateItem(item models.Item) error {
	for _, c := range itemChecks(models.Item{}, item) {
		if err := c.rule.Check(c.value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateChanges checks only the fields of updated that differ from
// current. Kept values are written back as they are stored.
func ValidateChanges(current, updated models.Item) error {
	for _, c := range itemChecks(current, updated) {
		if c.value == c.current {
			continue
		}
		if err := c.rule.Check(c.value); err != nil {
			return err
		}
	}
	return nil
}
