package pages

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/deptportal/internal/app/models"
)

var templateFuncs = template.FuncMap{
	"cell":      cellValue,
	"formValue": formValue,
	"score":     score,
	"hasScore":  func(v *float64) bool { return v != nil },
	"date":      formatDate,
	"join":      strings.Join,
	"lower":     strings.ToLower,
	"title":     titleCase,
	"priority":  func(p models.Priority) string { return string(p) },
	"add":       func(a, b int) int { return a + b },
	"fields":    formFields,
}

// formField is a field paired with its current input state.
type formField struct {
	field
	Value   string
	Checked bool
}

func formFields(fields []field, values map[string]any) []formField {
	out := make([]formField, 0, len(fields))
	for _, f := range fields {
		out = append(out, formField{field: f, Value: formValue(values, f), Checked: isChecked(values, f.Name)})
	}
	return out
}

// cellValue formats a stored field for a table cell.
func cellValue(values map[string]any, name string) string {
	switch v := values[name].(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case time.Time:
		return v.Format("02 Jan 2006 15:04")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// formValue formats a stored field for an input's value attribute.
func formValue(values map[string]any, f field) string {
	v, ok := values[f.Name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case time.Time:
		if f.Kind == kindDate {
			return t.UTC().Format(dateLayout)
		}
		return t.UTC().Format(dateTimeLayout)
	case string:
		return t
	}
	return cellValue(values, f.Name)
}

func isChecked(values map[string]any, name string) bool {
	b, _ := values[name].(bool)
	return b
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("02 Jan 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("02 Jan 2006")
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
