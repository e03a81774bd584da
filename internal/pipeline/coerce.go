package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rail-fusion/internal/dataset"
)

var digitSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// toNullableInt coerces a raw cell into a nullable integer.
// Accepts numbers, numeric strings and integral decimals ("160.0"); blanks and NaN are null.
func toNullableInt(v any) (*int64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return floatToInt(t)
	case int:
		n := int64(t)
		return &n, nil
	case int64:
		return &t, nil
	case json.Number:
		return parseIntString(t.String())
	case string:
		return parseIntString(t)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func parseIntString(s string) (*int64, error) {
	s = digitSeparators.Replace(strings.TrimSpace(s))
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "<na>":
		return nil, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as integer", s)
	}
	return floatToInt(f)
}

func floatToInt(f float64) (*int64, error) {
	if math.IsNaN(f) {
		return nil, nil
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("%v is out of int64 range", f)
	}
	n := int64(f)
	return &n, nil
}

// normalizeCode renders an identifier cell as a trimmed string.
func normalizeCode(v any) string {
	return dataset.ToString(v)
}

// padInsee zero-pads a commune code to the INSEE width.
func padInsee(code string, width int) string {
	if len(code) >= width {
		return code
	}
	return strings.Repeat("0", width-len(code)) + code
}
