// Package extract turns a fetched document and a stored field selection into
// renderable rows for table, chart, and card displays.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"findash/internal/jsonpath"
)

// Field is the persisted selection a widget keeps for one displayed value.
// Path is the durable identifier; it must re-resolve against future fetches
// of the same endpoint.
type Field struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
}

// Row is one renderable record keyed by field labels. Container values are
// carried as gjson results so their key order survives into formatting.
type Row map[string]any

// IndexKey carries the source position of each row.
const IndexKey = "_index"

// Rows extracts renderable rows from a document.
//
// When any field path traverses an array or time-series, the shared root is
// resolved once and one row is produced per element, in source order. A
// date-keyed object at the root converts into an ordered sequence of
// date-plus-fields elements first. A document that is itself an array yields
// one row per element with field paths resolved inside it. Otherwise each
// field becomes one {Field, Value} row, powering a single-object table view.
//
// Extraction is idempotent: the same document and fields always yield the
// same rows in the same order. No sorting is applied here.
func Rows(doc gjson.Result, fields []Field) []Row {
	if !doc.Exists() || len(fields) == 0 {
		return nil
	}
	for _, f := range fields {
		if jsonpath.HasSample(f.Path) {
			return elementRows(doc, f, fields)
		}
	}
	if doc.IsArray() {
		return arrayDocRows(doc, fields)
	}
	return objectRows(doc, fields)
}

// RowsJSON parses raw JSON and extracts rows from it.
func RowsJSON(data []byte, fields []Field) []Row {
	return Rows(gjson.ParseBytes(data), fields)
}

// element is one entry of the repeating structure being extracted: either a
// real array element, or one date of a time-series object.
type element struct {
	val     gjson.Result
	date    string
	isByDay bool
}

func (e element) lookup(suffix string) any {
	if suffix == "date" {
		if e.isByDay {
			return e.date
		}
		if v, ok := jsonpath.Member(e.val, "date"); ok {
			return goValue(v)
		}
		return nil
	}
	if v, ok := jsonpath.Resolve(e.val, suffix); ok {
		return goValue(v)
	}
	return nil
}

func elementRows(doc gjson.Result, sampled Field, fields []Field) []Row {
	root := jsonpath.ArrayRoot(sampled.Path)
	target := doc
	if root != "" {
		var ok bool
		target, ok = jsonpath.Resolve(doc, root)
		if !ok {
			if doc.IsArray() {
				return arrayDocRows(doc, fields)
			}
			return nil
		}
	}

	var elems []element
	switch {
	case target.IsArray():
		for _, v := range target.Array() {
			elems = append(elems, element{val: v})
		}
	case jsonpath.IsTimeSeries(target):
		target.ForEach(func(k, v gjson.Result) bool {
			elems = append(elems, element{val: v, date: k.String(), isByDay: true})
			return true
		})
	default:
		if doc.IsArray() {
			return arrayDocRows(doc, fields)
		}
		return nil
	}

	rows := make([]Row, 0, len(elems))
	for i, elem := range elems {
		row := Row{IndexKey: i}
		for _, f := range fields {
			suffix := trimDateSegment(jsonpath.ElementSuffix(f.Path))
			if suffix == "" {
				row[f.Label] = goValue(elem.val)
				continue
			}
			row[f.Label] = elem.lookup(suffix)
		}
		rows = append(rows, row)
	}
	return rows
}

// trimDateSegment drops a leading literal date from an element-relative path.
// Selections made on a time-series sample carry the sampled date as their
// first segment, which has no counterpart inside an individual element.
func trimDateSegment(suffix string) string {
	if suffix == "" {
		return suffix
	}
	parts := strings.Split(suffix, jsonpath.Sep)
	if jsonpath.IsDateKey(parts[0]) {
		return strings.Join(parts[1:], jsonpath.Sep)
	}
	return suffix
}

// arrayDocRows handles a document that is itself the array of records: one
// row per element, every field path resolved inside the element.
func arrayDocRows(doc gjson.Result, fields []Field) []Row {
	elems := doc.Array()
	rows := make([]Row, 0, len(elems))
	for i, elem := range elems {
		row := Row{IndexKey: i}
		for _, f := range fields {
			if v, ok := jsonpath.Resolve(elem, f.Path); ok {
				row[f.Label] = goValue(v)
			} else {
				row[f.Label] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func objectRows(doc gjson.Result, fields []Field) []Row {
	var rows []Row
	for i, f := range fields {
		v, ok := jsonpath.Resolve(doc, f.Path)
		if !ok {
			continue
		}
		rows = append(rows, Row{
			IndexKey: i,
			"Field":  f.Label,
			"Value":  goValue(v),
		})
	}
	return rows
}

// goValue converts a scalar result to its native Go form. Numbers become
// json.Number so the source text's precision is preserved; objects and
// arrays stay gjson results to keep their key order.
func goValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		return v.Str
	case gjson.Number:
		return json.Number(v.Raw)
	default:
		if !v.Exists() {
			return nil
		}
		return v
	}
}
