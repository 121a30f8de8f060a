package jsonpath

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Resolve walks doc along a path produced by Flatten and returns the value it
// addresses. It never fails loudly: any unset segment, non-indexable
// intermediate value, or empty path yields ok == false so that stale field
// selections degrade to placeholders instead of breaking a render.
//
// A numeric segment is tried as a literal object key first, then as an array
// index, then as the positional Nth key of a date-keyed object. The last case
// lets one path syntax address real arrays and time-series objects alike.
func Resolve(doc gjson.Result, path string) (gjson.Result, bool) {
	if !doc.IsObject() && !doc.IsArray() {
		return gjson.Result{}, false
	}
	segs := Split(path)
	if len(segs) == 0 {
		return gjson.Result{}, false
	}

	cur := doc
	for _, seg := range segs {
		if !cur.IsObject() && !cur.IsArray() {
			return gjson.Result{}, false
		}
		if cur.IsObject() {
			if v, ok := Member(cur, seg); ok {
				cur = v
				continue
			}
		}
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 {
			return gjson.Result{}, false
		}
		if cur.IsArray() {
			elems := cur.Array()
			if idx >= len(elems) {
				return gjson.Result{}, false
			}
			cur = elems[idx]
			continue
		}
		keys := objectKeys(cur)
		if len(keys) == 0 || !IsDateKey(keys[0]) || idx >= len(keys) {
			return gjson.Result{}, false
		}
		cur, _ = Member(cur, keys[idx])
	}
	return cur, true
}

// ResolveJSON parses raw JSON and resolves path against it.
func ResolveJSON(data []byte, path string) (gjson.Result, bool) {
	return Resolve(gjson.ParseBytes(data), path)
}
