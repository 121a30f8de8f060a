// Package format renders extracted values as display strings. Numeric output
// is en-US locale formatted, with enough fraction digits for crypto and forex
// rates that carry precision well past two decimals.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Semantic formats a field can request.
const (
	Text       = "text"
	Currency   = "currency"
	Percentage = "percentage"
	Number     = "number"
)

// Placeholder stands in for null or unresolved values.
const Placeholder = "-"

// maxFractionDigits bounds numeric precision, mirroring the widest fraction
// Intl.NumberFormat supports.
const maxFractionDigits = 20

const percentDecimals = 4

var printer = message.NewPrinter(language.AmericanEnglish)

// Value renders v per the requested semantic format. Containers render as
// short summaries, numerics honor the format, everything else falls back to
// its string form.
func Value(v any, format string) string {
	switch t := v.(type) {
	case nil:
		return Placeholder
	case gjson.Result:
		return resultValue(t, format)
	case []any:
		return sliceSummary(t)
	case map[string]any:
		return mapSummary(t)
	}
	return scalar(v, format)
}

func resultValue(v gjson.Result, format string) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return Placeholder
	case v.IsArray():
		return arraySummary(v)
	case v.IsObject():
		return objectSummary(v)
	default:
		return scalar(goScalar(v), format)
	}
}

func scalar(v any, format string) string {
	num, ok := toFloat(v)
	switch format {
	case Currency:
		if ok {
			return currencyString(num)
		}
	case Percentage:
		if ok {
			return strconv.FormatFloat(num, 'f', percentDecimals, 64) + "%"
		}
	default:
		if ok {
			return decimalString(num, 0)
		}
	}
	return stringForm(v)
}

func currencyString(num float64) string {
	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}
	return sign + "$" + decimalString(num, 2)
}

// decimalString renders num grouped en-US style. The fraction width is taken
// from the float's shortest decimal form; handing the printer a flat
// 20-digit maximum would expand the binary representation instead
// (19.99 -> "19.98999999999999843681").
func decimalString(num float64, minFrac int) string {
	shortest := strconv.FormatFloat(num, 'f', -1, 64)
	frac := 0
	if i := strings.IndexByte(shortest, '.'); i >= 0 {
		frac = len(shortest) - i - 1
	}
	if frac > maxFractionDigits {
		frac = maxFractionDigits
	}
	if frac < minFrac {
		frac = minFrac
	}
	return printer.Sprintf("%v", number.Decimal(num,
		number.MinFractionDigits(minFrac), number.MaxFractionDigits(frac)))
}

func arraySummary(v gjson.Result) string {
	elems := v.Array()
	if len(elems) == 0 {
		return "0 items"
	}
	if elems[0].IsObject() || elems[0].IsArray() {
		return fmt.Sprintf("%d items (use Table view)", len(elems))
	}
	parts := make([]string, 0, 5)
	for _, e := range elems[:min(len(elems), 5)] {
		parts = append(parts, resultString(e))
	}
	out := strings.Join(parts, ", ")
	if len(elems) > 5 {
		out += "..."
	}
	return out
}

func objectSummary(v gjson.Result) string {
	n := 0
	var parts []string
	v.ForEach(func(k, val gjson.Result) bool {
		n++
		if val.IsObject() || val.IsArray() {
			parts = append(parts, k.String()+": [...]")
		} else {
			parts = append(parts, k.String()+": "+resultString(val))
		}
		return true
	})
	if n <= 3 {
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%d fields", n)
}

func sliceSummary(v []any) string {
	if len(v) == 0 {
		return "0 items"
	}
	switch v[0].(type) {
	case map[string]any, []any:
		return fmt.Sprintf("%d items (use Table view)", len(v))
	}
	parts := make([]string, 0, 5)
	for _, e := range v[:min(len(v), 5)] {
		parts = append(parts, stringForm(e))
	}
	out := strings.Join(parts, ", ")
	if len(v) > 5 {
		out += "..."
	}
	return out
}

// mapSummary renders decoded Go maps; keys are sorted because decoded maps
// carry no source order.
func mapSummary(v map[string]any) string {
	if len(v) > 3 {
		return fmt.Sprintf("%d fields", len(v))
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v[k].(type) {
		case map[string]any, []any:
			parts = append(parts, k+": [...]")
		default:
			parts = append(parts, k+": "+stringForm(v[k]))
		}
	}
	return strings.Join(parts, ", ")
}

func goScalar(v gjson.Result) any {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		return v.Str
	case gjson.Number:
		return json.Number(v.Raw)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func resultString(v gjson.Result) string {
	if v.Type == gjson.Null {
		return "null"
	}
	return v.String()
}

func stringForm(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return fmt.Sprintf("%v", v)
}
