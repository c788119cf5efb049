package typecheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/vtool/pkg/core"
)

// Number is a cast numeric value. Radix is 10 for INTEGER and REAL values and
// the declared base for NON_DECIMAL values.
type Number struct {
	Value *apd.Decimal
	Radix int
}

// String renders the number in its canonical textual form.
func (n Number) String() string {
	if n.Value == nil {
		return ""
	}
	if n.Radix != 0 && n.Radix != 10 {
		i, err := n.Value.Int64()
		if err == nil {
			sign, mag := "", uint64(i)
			if i < 0 {
				// -(i+1)+1 stays in range for math.MinInt64.
				sign, mag = "-", uint64(-(i+1))+1
			}
			return fmt.Sprintf("%s%d#%s#", sign, n.Radix, strings.ToUpper(strconv.FormatUint(mag, n.Radix)))
		}
	}
	return n.Value.Text('f')
}

// Cmp compares the number with d.
func (n Number) Cmp(d *apd.Decimal) int { return n.Value.Cmp(d) }

var (
	integerPattern    = regexp.MustCompile(`^[+-]?[0-9]+$`)
	realPattern       = regexp.MustCompile(`^([+-]?)([0-9]*)(?:\.([0-9]*))?(?:[eE]([+-]?[0-9]+))?$`)
	nonDecimalPattern = regexp.MustCompile(`^([+-]?)([0-9]{1,2})#([0-9A-Za-z]+)#$`)
)

// stripUnits drops a trailing <units> token.
func stripUnits(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text
}

func parseInteger(text string) (*apd.Decimal, bool) {
	if !integerPattern.MatchString(text) {
		return nil, false
	}
	d, _, err := apd.NewFromString(strings.TrimPrefix(text, "+"))
	return d, err == nil
}

// parseReal accepts decimal and scientific notation, including the 1. and .5
// forms, and never Inf or NaN.
func parseReal(text string) (*apd.Decimal, bool) {
	m := realPattern.FindStringSubmatch(text)
	if m == nil || (m[2] == "" && m[3] == "") {
		return nil, false
	}
	var b strings.Builder
	if m[1] == "-" {
		b.WriteByte('-')
	}
	if m[2] == "" {
		b.WriteByte('0')
	} else {
		b.WriteString(m[2])
	}
	if m[3] != "" {
		b.WriteByte('.')
		b.WriteString(m[3])
	}
	if m[4] != "" {
		b.WriteByte('E')
		b.WriteString(m[4])
	}
	d, _, err := apd.NewFromString(b.String())
	return d, err == nil
}

func parseNonDecimal(text string) (Number, bool) {
	m := nonDecimalPattern.FindStringSubmatch(text)
	if m == nil {
		return Number{}, false
	}
	radix, err := strconv.Atoi(m[2])
	if err != nil || radix < 2 || radix > 16 {
		return Number{}, false
	}
	i, err := strconv.ParseInt(m[1]+m[3], radix, 64)
	if err != nil {
		return Number{}, false
	}
	return Number{Value: apd.New(i, 0), Radix: radix}, true
}

// parseBound accepts any numeric form a dictionary may use for a bound.
func parseBound(text string) (*apd.Decimal, error) {
	text = stripUnits(text)
	if n, ok := parseNonDecimal(text); ok {
		return n.Value, nil
	}
	if d, ok := parseReal(text); ok {
		return d, nil
	}
	return nil, fmt.Errorf("invalid numeric bound %q", text)
}

// ---------- numeric base ----------

type numeric struct {
	lengths
	name  string
	parse func(text string) (Number, bool)
}

func (c *numeric) Type() string { return c.name }

func (c *numeric) Cast(text string) (any, error) {
	n, ok := c.parse(stripUnits(text))
	if !ok {
		return nil, &core.InvalidTypeError{Type: c.name, Value: text}
	}
	return n, nil
}

func (c *numeric) ParseBound(text string) (*apd.Decimal, error) { return parseBound(text) }

func (c *numeric) CheckMinValue(v Number, bound *apd.Decimal) error {
	if v.Value == nil || bound == nil {
		return nil
	}
	if v.Cmp(bound) < 0 {
		return &core.OutOfRangeError{Value: v.String(), Bound: bound.Text('f')}
	}
	return nil
}

func (c *numeric) CheckMaxValue(v Number, bound *apd.Decimal) error {
	if v.Value == nil || bound == nil {
		return nil
	}
	if v.Cmp(bound) > 0 {
		return &core.OutOfRangeError{Value: v.String(), Bound: bound.Text('f'), Max: true}
	}
	return nil
}

// NewInteger returns the INTEGER checker: signed base-10 whole numbers.
func NewInteger() Checker {
	return &numeric{name: TypeInteger, parse: func(text string) (Number, bool) {
		d, ok := parseInteger(text)
		return Number{Value: d, Radix: 10}, ok
	}}
}

// NewReal returns the REAL checker: decimal or scientific notation.
func NewReal() Checker {
	return &numeric{name: TypeReal, parse: func(text string) (Number, bool) {
		d, ok := parseReal(text)
		return Number{Value: d, Radix: 10}, ok
	}}
}

// NewNonDecimal returns the NON_DECIMAL checker: radix#digits# with a radix
// from 2 to 16.
func NewNonDecimal() Checker {
	return &numeric{name: TypeNonDecimal, parse: parseNonDecimal}
}
