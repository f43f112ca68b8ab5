package units

import (
	"math"
	"strconv"
	"strings"
)

// String renders u so that Parse(u.String()) equals u, e.g. "km*s", "m/s**2",
// "1000*g". Canonical symbols are used: "meter" renders as "m", "°C" as "degC".
// Empty and plain dimensionless units render as "".
func (u Units) String() string {
	if len(u.terms) == 0 && !u.HasFactor() {
		return ""
	}

	var sb strings.Builder
	if u.HasFactor() {
		sb.WriteString(formatNumber(u.Factor()))
	}

	numerators := 0
	for _, t := range u.terms {
		if t.Exponent <= 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('*')
		}
		writeTerm(&sb, t.Name(), t.Exponent)
		numerators++
	}

	first := true
	for _, t := range u.terms {
		if t.Exponent >= 0 {
			continue
		}
		if first {
			if sb.Len() == 0 {
				sb.WriteByte('1')
			}
			sb.WriteByte('/')
			first = false
		} else {
			sb.WriteByte('*')
		}
		writeTerm(&sb, t.Name(), -t.Exponent)
	}

	return sb.String()
}

// GoString renders a debug form such as `units.MustParse("m/s")`.
func (u Units) GoString() string {
	return "units.MustParse(" + strconv.Quote(u.String()) + ")"
}

func writeTerm(sb *strings.Builder, name string, exp float64) {
	sb.WriteString(name)
	if exp != 1 {
		sb.WriteString("**")
		sb.WriteString(formatNumber(exp))
	}
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}
