package jsonpath

import "github.com/tidwall/gjson"

// Inferred type tags for flattened entries.
const (
	TypeString     = "string"
	TypeNumber     = "number"
	TypeBoolean    = "boolean"
	TypeNull       = "null"
	TypeObject     = "object"
	TypeArray      = "array"
	TypeTimeSeries = "timeseries"
)

// Entry is one addressable field of a sample document. The value is taken
// from the representative element (the first one encountered) and is meant
// for display while the user picks fields, never for persistence.
type Entry struct {
	Path  string
	Value gjson.Result
	Type  string
}

// Flatten walks a document and returns every addressable field in encounter
// order. Plain objects are inlined; arrays of objects and date-keyed
// time-series objects additionally emit one sampled column entry per key of
// their first element, so a whole column can be selected from one path.
func Flatten(doc gjson.Result) []Entry {
	var out []Entry
	flattenInto(&out, "", doc)
	return out
}

// FlattenJSON parses raw JSON and flattens it.
func FlattenJSON(data []byte) []Entry {
	return Flatten(gjson.ParseBytes(data))
}

func flattenInto(out *[]Entry, prefix string, v gjson.Result) {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		*out = append(*out, Entry{Path: orKey(prefix, DefaultScalarKey), Value: v, Type: TypeNull})

	case v.IsArray():
		*out = append(*out, Entry{Path: orKey(prefix, DefaultContainerKey), Value: v, Type: TypeArray})
		elems := v.Array()
		if len(elems) > 0 && elems[0].IsObject() {
			elems[0].ForEach(func(k, val gjson.Result) bool {
				*out = append(*out, Entry{Path: SampleJoin(prefix, k.String()), Value: val, Type: TypeOf(val)})
				return true
			})
		}

	case v.IsObject():
		if IsTimeSeries(v) {
			*out = append(*out, Entry{Path: orKey(prefix, DefaultContainerKey), Value: v, Type: TypeTimeSeries})
			firstKey, firstVal, ok := firstMember(v)
			if ok && firstVal.IsObject() {
				*out = append(*out, Entry{Path: SampleJoin(prefix, "date"), Value: firstKey, Type: TypeString})
				firstVal.ForEach(func(k, val gjson.Result) bool {
					*out = append(*out, Entry{Path: SampleJoin(prefix, k.String()), Value: val, Type: TypeOf(val)})
					return true
				})
			}
			return
		}
		v.ForEach(func(k, val gjson.Result) bool {
			flattenInto(out, Join(prefix, k.String()), val)
			return true
		})

	default:
		*out = append(*out, Entry{Path: orKey(prefix, DefaultScalarKey), Value: v, Type: TypeOf(v)})
	}
}

// TypeOf maps a JSON value onto the closed set of inferred type tags.
func TypeOf(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return TypeNull
	case gjson.True, gjson.False:
		return TypeBoolean
	case gjson.Number:
		return TypeNumber
	case gjson.String:
		return TypeString
	default:
		if v.IsArray() {
			return TypeArray
		}
		return TypeObject
	}
}

func orKey(prefix, fallback string) string {
	if prefix == "" {
		return fallback
	}
	return prefix
}
