package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/inventory/internal/domain/models"
)

func TestValidate_Text(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"Flour", true},
		{"kg", true},
		{"7up", true},
		{"A4 paper", true},
		{"12.5", true},
		{"123", false},
		{"0", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Validate(tt.value, KindText), "Validate(%q, text)", tt.value)
	}
}

func TestValidate_PositiveNumber(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"123", true},
		{"5", true},
		{"0.25", true},
		{"1e3", true},
		{"0", false},
		{"-3", false},
		{"0.0", false},
		{"five", false},
		{"", false},
		{"NaN", false},
		{"Inf", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Validate(tt.value, KindPositiveNumber), "Validate(%q, positive number)", tt.value)
	}
}

func TestValidate_DigitsNeverText(t *testing.T) {
	for _, value := range []string{"1", "42", "0000", "98765432109876543210"} {
		assert.False(t, Validate(value, KindText), value)
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	assert.False(t, Validate("anything", Kind("date")))
}

func TestRuleCheck(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		want  error
	}{
		{"accepted text", NameRule, "Flour", nil},
		{"too long", NameRule, strings.Repeat("a", 21), ErrTooLong},
		{"exactly max", NameRule, strings.Repeat("a", 20), nil},
		{"too long beats empty allowed", Rule{AllowEmpty: true}, strings.Repeat("9", 21), ErrTooLong},
		{"empty rejected", NameRule, "", ErrEmpty},
		{"empty allowed skips kind", Rule{Kind: KindText, AllowEmpty: true}, "", nil},
		{"digits as text", NameRule, "123", ErrKind},
		{"text as number", QuantityRule, "lots", ErrKind},
		{"option member", Rule{Options: []string{"y", "n"}}, "y", nil},
		{"option non member", Rule{Options: []string{"y", "n"}}, "maybe", ErrOption},
		{"any kind free text", Rule{}, "0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Check(tt.value)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestFieldErrorMessage(t *testing.T) {
	var fieldErr *FieldError

	require.True(t, errors.As(NameRule.Check(""), &fieldErr))
	assert.Equal(t, "Item name cannot be empty.", fieldErr.Message())

	require.True(t, errors.As(Rule{Options: []string{"1", "0"}}.Check(""), &fieldErr))
	assert.Equal(t, "Please select one of the available options", fieldErr.Message())

	require.True(t, errors.As(Rule{}.Check(""), &fieldErr))
	assert.Equal(t, "Value cannot be empty.", fieldErr.Message())

	require.True(t, errors.As(QuantityRule.Check("abc"), &fieldErr))
	assert.Equal(t, "The value must be positive number", fieldErr.Message())

	require.True(t, errors.As(NameRule.Check(strings.Repeat("x", 30)), &fieldErr))
	assert.Equal(t, "You cannot enter more than 20 characters", fieldErr.Message())
}

func TestParseIndex(t *testing.T) {
	index, err := ParseIndex(" 3 ", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	_, err = ParseIndex("three", 5)
	assert.ErrorIs(t, err, ErrNotANumber)

	for _, raw := range []string{"0", "6", "-1"} {
		_, err = ParseIndex(raw, 5)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, raw)
	}

	_, err = ParseIndex("1", 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestValidateItem(t *testing.T) {
	assert.NoError(t, ValidateItem(models.Item{Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"}))
	assert.ErrorIs(t, ValidateItem(models.Item{Name: "Flour", Type: "Dry", Quantity: "0", Unit: "kg"}), ErrKind)
	assert.ErrorIs(t, ValidateItem(models.Item{Name: "Flour", Type: "", Quantity: "5", Unit: "kg"}), ErrEmpty)
	assert.ErrorIs(t, ValidateItem(models.Item{Name: "Flour", Type: "Dry", Quantity: "5", Unit: "123"}), ErrKind)
}

func TestValidateChanges(t *testing.T) {
	stored := models.Item{Index: 1, Name: "2024", Type: "Dry", Quantity: "0", Unit: "kg"}

	kept := stored
	kept.Unit = "bag"
	assert.NoError(t, ValidateChanges(stored, kept))

	edited := stored
	edited.Quantity = "-1"
	assert.ErrorIs(t, ValidateChanges(stored, edited), ErrKind)

	edited = stored
	edited.Name = "Flour"
	edited.Type = ""
	assert.ErrorIs(t, ValidateChanges(stored, edited), ErrEmpty)
}
