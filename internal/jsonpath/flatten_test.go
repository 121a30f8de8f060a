package jsonpath

import (
	"testing"

	"github.com/tidwall/gjson"
)

func index(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Path] = e
	}
	return m
}

func TestFlattenInlinesNestedObjects(t *testing.T) {
	doc := gjson.Parse(`{"a":{"b":1,"c":"x"},"d":true,"e":null}`)
	m := index(Flatten(doc))

	if _, ok := m["a"]; ok {
		t.Fatalf("expected no intermediate entry for plain object")
	}
	if e := m["a~>b"]; e.Type != TypeNumber || e.Value.Raw != "1" {
		t.Fatalf("a~>b: got type=%q raw=%q", e.Type, e.Value.Raw)
	}
	if e := m["a~>c"]; e.Type != TypeString || e.Value.Str != "x" {
		t.Fatalf("a~>c: got type=%q", e.Type)
	}
	if e := m["d"]; e.Type != TypeBoolean {
		t.Fatalf("d: got type=%q", e.Type)
	}
	if e := m["e"]; e.Type != TypeNull {
		t.Fatalf("e: got type=%q", e.Type)
	}
}

func TestFlattenArrayOfObjectsEmitsSampleColumns(t *testing.T) {
	doc := gjson.Parse(`{"quotes":[{"sym":"AAPL","price":187.2},{"sym":"MSFT","price":410.1}]}`)
	m := index(Flatten(doc))

	if e := m["quotes"]; e.Type != TypeArray {
		t.Fatalf("quotes: got type=%q", e.Type)
	}
	if e := m["quotes[0]~>sym"]; e.Type != TypeString || e.Value.Str != "AAPL" {
		t.Fatalf("quotes[0]~>sym: got type=%q value=%q", e.Type, e.Value.Str)
	}
	if e := m["quotes[0]~>price"]; e.Type != TypeNumber || e.Value.Raw != "187.2" {
		t.Fatalf("quotes[0]~>price: got type=%q raw=%q", e.Type, e.Value.Raw)
	}
}

func TestFlattenArrayOfScalars(t *testing.T) {
	m := index(Flatten(gjson.Parse(`{"tags":["a","b"],"empty":[]}`)))
	if len(m) != 2 {
		t.Fatalf("expected only array-level entries, got %d", len(m))
	}
	if m["tags"].Type != TypeArray || m["empty"].Type != TypeArray {
		t.Fatalf("expected array entries")
	}
}

func TestFlattenRootArray(t *testing.T) {
	m := index(Flatten(gjson.Parse(`[{"v":1},{"v":2}]`)))
	if e := m["data"]; e.Type != TypeArray {
		t.Fatalf("data: got type=%q", e.Type)
	}
	if e := m["[0]~>v"]; e.Type != TypeNumber {
		t.Fatalf("[0]~>v: got type=%q", e.Type)
	}
}

func TestFlattenTimeSeries(t *testing.T) {
	doc := gjson.Parse(`{"2024-01-01":{"open":1.5},"2024-01-02":{"open":2.5}}`)
	m := index(Flatten(doc))

	if e := m["data"]; e.Type != TypeTimeSeries {
		t.Fatalf("data: got type=%q", e.Type)
	}
	if e := m["[0]~>date"]; e.Value.Str != "2024-01-01" {
		t.Fatalf("[0]~>date: got %q", e.Value.Str)
	}
	if e := m["[0]~>open"]; e.Type != TypeNumber || e.Value.Raw != "1.5" {
		t.Fatalf("[0]~>open: got type=%q raw=%q", e.Type, e.Value.Raw)
	}
}

func TestFlattenNestedTimeSeries(t *testing.T) {
	doc := gjson.Parse(`{"Time Series (Daily)":{"2024-01-02":{"close":"101"},"2024-01-01":{"close":"100"}}}`)
	m := index(Flatten(doc))

	if e := m["Time Series (Daily)"]; e.Type != TypeTimeSeries {
		t.Fatalf("series entry: got type=%q", e.Type)
	}
	// Sampling follows encounter order, not chronology.
	if e := m["Time Series (Daily)[0]~>date"]; e.Value.Str != "2024-01-02" {
		t.Fatalf("sampled date: got %q", e.Value.Str)
	}
	if e := m["Time Series (Daily)[0]~>close"]; e.Value.Str != "101" {
		t.Fatalf("sampled close: got %q", e.Value.Str)
	}
}

func TestFlattenSingleDateKeyIsPlainObject(t *testing.T) {
	m := index(Flatten(gjson.Parse(`{"2024-01-01":{"open":1}}`)))
	if e := m["2024-01-01~>open"]; e.Type != TypeNumber {
		t.Fatalf("expected plain recursion for one-key object, got %+v", m)
	}
}

func TestFlattenScalarRoot(t *testing.T) {
	m := index(Flatten(gjson.Parse(`42`)))
	if e := m["value"]; e.Type != TypeNumber || e.Value.Raw != "42" {
		t.Fatalf("value: got type=%q raw=%q", e.Type, e.Value.Raw)
	}
}

func TestFlattenRoundTripsThroughResolve(t *testing.T) {
	doc := gjson.Parse(`{
		"meta": {"symbol": "BTC", "ok": true},
		"rates": {"USD": "67000.12", "EUR": "61500.55"},
		"nested": {"deep": {"n": null}}
	}`)
	for _, e := range Flatten(doc) {
		got, ok := Resolve(doc, e.Path)
		if !ok {
			t.Fatalf("path %q did not resolve", e.Path)
		}
		if got.Raw != e.Value.Raw {
			t.Fatalf("path %q: resolved %q, flattened %q", e.Path, got.Raw, e.Value.Raw)
		}
	}
}

func TestFlattenShapeIsStable(t *testing.T) {
	a := Flatten(gjson.Parse(`{"x":{"y":1},"z":[{"k":2}]}`))
	b := Flatten(gjson.Parse(`{"x":{"y":9},"z":[{"k":7}]}`))
	if len(a) != len(b) {
		t.Fatalf("entry counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Type != b[i].Type {
			t.Fatalf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
