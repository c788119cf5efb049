package typecheck

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vtool/pkg/core"
)

func dec(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNumericCast(t *testing.T) {
	tests := []struct {
		name    string
		checker Checker
		input   string
		want    string // canonical form, empty when the cast must fail
	}{
		{name: "integer", checker: NewInteger(), input: "42", want: "42"},
		{name: "integer signed", checker: NewInteger(), input: "-7", want: "-7"},
		{name: "integer plus", checker: NewInteger(), input: "+7", want: "7"},
		{name: "integer units", checker: NewInteger(), input: "12 <BYTES>", want: "12"},
		{name: "integer rejects real", checker: NewInteger(), input: "1.5"},
		{name: "integer rejects text", checker: NewInteger(), input: "abc"},
		{name: "real", checker: NewReal(), input: "1.50", want: "1.50"},
		{name: "real trailing dot", checker: NewReal(), input: "1.", want: "1"},
		{name: "real leading dot", checker: NewReal(), input: ".5", want: "0.5"},
		{name: "real exponent", checker: NewReal(), input: "1.5E3", want: "1500"},
		{name: "real negative exponent", checker: NewReal(), input: "-2.5e-2", want: "-0.025"},
		{name: "real integer", checker: NewReal(), input: "10", want: "10"},
		{name: "real units", checker: NewReal(), input: "3.2<KM>", want: "3.2"},
		{name: "real rejects dot", checker: NewReal(), input: "."},
		{name: "real rejects nan", checker: NewReal(), input: "NaN"},
		{name: "real rejects inf", checker: NewReal(), input: "Infinity"},
		{name: "non decimal hex", checker: NewNonDecimal(), input: "16#FF#", want: "16#FF#"},
		{name: "non decimal lower", checker: NewNonDecimal(), input: "16#ff#", want: "16#FF#"},
		{name: "non decimal binary", checker: NewNonDecimal(), input: "2#1011#", want: "2#1011#"},
		{name: "non decimal bad digit", checker: NewNonDecimal(), input: "2#102#"},
		{name: "non decimal bad radix", checker: NewNonDecimal(), input: "17#10#"},
		{name: "non decimal plain", checker: NewNonDecimal(), input: "255"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.checker.Cast(tt.input)
			if tt.want == "" {
				var ite *core.InvalidTypeError
				require.True(t, errors.As(err, &ite), "want InvalidTypeError, got %v", err)
				assert.Equal(t, tt.checker.Type(), ite.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(v))
		})
	}
}

func TestNumericCast_RoundTrip(t *testing.T) {
	inputs := map[Checker][]string{
		NewInteger():    {"0", "-12", "+900", "123456789012345678901234567890"},
		NewReal():       {"1.", ".5", "-0.001", "6.02E23", "1.50", "7e-10"},
		NewNonDecimal(): {"16#1F#", "8#777#", "2#0#", "-16#A#", "-16#8000000000000000#", "16#7FFFFFFFFFFFFFFF#"},
	}
	for checker, texts := range inputs {
		for _, text := range texts {
			t.Run(checker.Type()+"/"+text, func(t *testing.T) {
				first, err := checker.Cast(text)
				require.NoError(t, err)
				second, err := checker.Cast(Format(first))
				require.NoError(t, err)
				a, b := first.(Number), second.(Number)
				assert.Zero(t, a.Cmp(b.Value), "%s -> %s", text, Format(first))
				assert.Equal(t, Format(first), Format(second))
			})
		}
	}
}

func TestNumericRange(t *testing.T) {
	checker := NewReal().(NumericChecker)
	v, err := checker.Cast("5.5")
	require.NoError(t, err)
	n := v.(Number)

	minBound, err := checker.ParseBound("0")
	require.NoError(t, err)
	maxBound, err := checker.ParseBound("5")
	require.NoError(t, err)

	assert.NoError(t, checker.CheckMinValue(n, minBound))

	err = checker.CheckMaxValue(n, maxBound)
	var oor *core.OutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.True(t, oor.Max)
	assert.Equal(t, "5.5", oor.Value)
	assert.Equal(t, "5", oor.Bound)

	err = checker.CheckMinValue(n, dec(t, "10"))
	require.True(t, errors.As(err, &oor))
	assert.False(t, oor.Max)

	assert.NoError(t, checker.CheckMaxValue(n, dec(t, "5.5")), "bounds are inclusive")
}

func TestParseBound(t *testing.T) {
	checker := NewInteger().(NumericChecker)
	for text, want := range map[string]string{
		"10":     "10",
		"-3.5":   "-3.5",
		"16#10#": "16",
		"1E2":    "100",
		"5 <M>":  "5",
	} {
		d, err := checker.ParseBound(text)
		require.NoError(t, err, text)
		assert.Zero(t, d.Cmp(dec(t, want)), text)
	}
	_, err := checker.ParseBound("lots")
	assert.Error(t, err)
}

func TestNonDecimalRange(t *testing.T) {
	checker := NewNonDecimal().(NumericChecker)
	v, err := checker.Cast("16#FF#")
	require.NoError(t, err)
	assert.NoError(t, checker.CheckMaxValue(v.(Number), dec(t, "255")))
	assert.Error(t, checker.CheckMaxValue(v.(Number), dec(t, "254")))
}
