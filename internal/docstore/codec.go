package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Encode converts a typed record into document fields. Fields declared as
// time.Time or *time.Time become time.Time values so every backend can
// compare them natively; every other string is kept verbatim. The "id" key
// is dropped; ids live on Document.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(data, "id")
	for _, name := range timeFields(reflect.TypeOf(v)) {
		if s, ok := data[name].(string); ok {
			if ts, ok := ParseTime(s); ok {
				data[name] = ts
			}
		}
	}
	return Normalize(data), nil
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	timeFieldsMap sync.Map // reflect.Type -> []string
)

// timeFields lists the json names of the top-level time fields of a struct
// type, including those promoted from embedded structs.
func timeFields(t reflect.Type) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := timeFieldsMap.Load(t); ok {
		return cached.([]string)
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !f.Anonymous {
			continue
		}
		tag := f.Tag.Get("json")
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && name == "" && ft.Kind() == reflect.Struct {
			names = append(names, timeFields(ft)...)
			continue
		}
		if ft == timeType {
			if name == "" {
				name = f.Name
			}
			names = append(names, name)
		}
	}
	timeFieldsMap.Store(t, names)
	return names
}

// Decode fills v from a document. v must be a pointer to a struct with json tags.
func Decode(doc Document, v any) error {
	data := make(map[string]any, len(doc.Data)+1)
	for k, val := range doc.Data {
		data[k] = val
	}
	data["id"] = doc.ID
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// Normalize rewrites values in place into the canonical set understood by
// the backends: times are UTC, integers become float64, nested maps and
// slices are walked. Strings are never reinterpreted.
func Normalize(data map[string]any) map[string]any {
	for k, v := range data {
		data[k] = NormalizeValue(v)
	}
	return data
}

// NormalizeValue is Normalize for a single value.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC()
	case map[string]any:
		return Normalize(t)
	case []any:
		for i := range t {
			t[i] = NormalizeValue(t[i])
		}
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

// ParseTime reads an RFC 3339 timestamp as stored by JSON backends.
func ParseTime(s string) (time.Time, bool) {
	// cheap shape check before parsing: 2006-01-02T15:04:05
	if len(s) < 20 || s[4] != '-' || s[7] != '-' || s[10] != 'T' {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Compare orders two normalized values. ok is false when the values are not
// of comparable kinds. A string compared with a time is read as a
// timestamp, since JSON backends hand stored times back as text.
func Compare(a, b any) (c int, ok bool) {
	a, b = NormalizeValue(a), NormalizeValue(b)
	a, b = timeOperand(a, b), timeOperand(b, a)
	switch x := a.(type) {
	case float64:
		y, isNum := b.(float64)
		if !isNum {
			return 0, false
		}
		return cmp3(x < y, x > y), true
	case string:
		y, isStr := b.(string)
		if !isStr {
			return 0, false
		}
		return cmp3(x < y, x > y), true
	case time.Time:
		y, isTime := b.(time.Time)
		if !isTime {
			return 0, false
		}
		return cmp3(x.Before(y), x.After(y)), true
	case bool:
		y, isBool := b.(bool)
		if !isBool {
			return 0, false
		}
		return cmp3(!x && y, x && !y), true
	}
	return 0, false
}

// timeOperand parses v when the other operand is a time.
func timeOperand(v, other any) any {
	s, isStr := v.(string)
	if _, isTime := other.(time.Time); !isStr || !isTime {
		return v
	}
	if ts, ok := ParseTime(s); ok {
		return ts
	}
	return v
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// Equal reports deep equality of two normalized values.
func Equal(a, b any) bool {
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(NormalizeValue(a), NormalizeValue(b))
}

// Match evaluates one filter against a document's fields. A missing field
// never matches.
func Match(data map[string]any, f Filter) bool {
	v, present := data[f.Field]
	if !present || v == nil {
		return false
	}
	switch f.Op {
	case OpEq:
		return Equal(v, f.Value)
	case OpNe:
		return !Equal(v, f.Value)
	case OpLt, OpLte, OpGt, OpGte:
		c, ok := Compare(v, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case OpLt:
			return c < 0
		case OpLte:
			return c <= 0
		case OpGt:
			return c > 0
		default:
			return c >= 0
		}
	case OpIn:
		list, _ := f.Value.([]any)
		for _, item := range list {
			if Equal(v, item) {
				return true
			}
		}
		return false
	case OpArrayContains:
		list, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range list {
			if Equal(item, f.Value) {
				return true
			}
		}
		return false
	}
	return false
}
