// Package jsonpath flattens arbitrary JSON documents into addressable field
// paths and resolves those paths back against later documents of the same
// shape. Documents are handled as gjson values so that object key order is
// preserved, which the date-keyed time-series handling depends on.
package jsonpath

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Sep joins path segments. It is reserved syntax: keys containing it are not
// escaped, matching the stored paths produced by earlier versions.
const Sep = "~>"

// sampleMarker suffixes the parent segment of an array or time-series
// traversal. It always points at the first element when an index is built,
// and means "every element" when a stored path is extracted later.
const sampleMarker = "[0]"

// Default keys used when a scalar or container sits at the document root.
const (
	DefaultScalarKey    = "value"
	DefaultContainerKey = "data"
)

var (
	indexRe   = regexp.MustCompile(`\[(\d+)\]`)
	dateKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// Join appends key to prefix with the separator, or returns key alone at the
// document root.
func Join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Sep + key
}

// SampleJoin builds the path of one column of an array (or time-series)
// rooted at prefix, e.g. "quotes[0]~>price".
func SampleJoin(prefix, key string) string {
	return prefix + sampleMarker + Sep + key
}

// Split normalizes bracketed indexes into ordinary segments and splits the
// path. Empty segments are dropped.
func Split(path string) []string {
	normalized := indexRe.ReplaceAllString(path, Sep+"$1")
	parts := strings.Split(normalized, Sep)
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// HasSample reports whether the path traverses an array or time-series.
func HasSample(path string) bool {
	return strings.Contains(path, sampleMarker)
}

// ArrayRoot returns the path of the array a sampled path traverses, "" when
// the array is the document root.
func ArrayRoot(path string) string {
	root, _, _ := strings.Cut(path, sampleMarker)
	return strings.TrimSuffix(root, Sep)
}

// ElementSuffix returns the element-relative remainder of a sampled path.
// Paths without the sample marker are returned unchanged; a path addressing
// the array itself yields "".
func ElementSuffix(path string) string {
	before, after, found := strings.Cut(path, sampleMarker+Sep)
	if !found {
		if strings.Contains(before, sampleMarker) {
			return ""
		}
		return path
	}
	return after
}

// IsDateKey reports whether the key starts with a YYYY-MM-DD date.
func IsDateKey(key string) bool {
	return dateKeyRe.MatchString(key)
}

// IsTimeSeries reports whether v is an object with at least two keys, all of
// them leading with a calendar date. Such objects are treated as ordered
// array substitutes throughout the package.
func IsTimeSeries(v gjson.Result) bool {
	if !v.IsObject() {
		return false
	}
	n := 0
	allDates := true
	v.ForEach(func(k, _ gjson.Result) bool {
		n++
		if !IsDateKey(k.String()) {
			allDates = false
			return false
		}
		return true
	})
	return allDates && n >= 2
}

// Member looks up a literal key in an object, comparing exact key text rather
// than interpreting any path syntax.
func Member(obj gjson.Result, key string) (gjson.Result, bool) {
	var out gjson.Result
	var found bool
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out, found = v, true
			return false
		}
		return true
	})
	return out, found
}

func firstMember(obj gjson.Result) (key, value gjson.Result, ok bool) {
	obj.ForEach(func(k, v gjson.Result) bool {
		key, value, ok = k, v, true
		return false
	})
	return key, value, ok
}

func objectKeys(obj gjson.Result) []string {
	var keys []string
	obj.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}
