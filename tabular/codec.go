// Package tabular converts reduced NetBox objects to and from flat CSV rows.
//
// Nested mappings are flattened exactly one level deep into "outer.inner"
// columns. Sequences, and anything nested deeper, travel as JSON text in a
// single cell.
package tabular

import (
	"sort"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/cimnine/netbox-sync/netbox/models"
)

// Separator joins the outer and inner key of a flattened column.
const Separator = "."

// Record is one flattened object: column name to scalar value.
type Record map[string]models.Value

// Flatten turns obj into a single-level record.
func Flatten(obj models.Object) Record {
	rec := make(Record, len(obj))

	for key, value := range obj {
		switch value.Kind() {
		case models.KindMapping:
			nested, _ := value.AsMapping()
			for inner, iv := range nested {
				rec[key+Separator+inner] = scalar(iv)
			}
		case models.KindSequence:
			rec[key] = scalar(value)
		case models.KindNull, models.KindBool, models.KindNumber, models.KindString:
			rec[key] = value
		}
	}

	return rec
}

// Unflatten reverses Flatten. Dotted columns become nested mappings, strings
// that look like JSON arrays or objects are parsed when they can be, and
// empty strings are dropped.
func Unflatten(rec Record) models.Object {
	obj := make(models.Object, len(rec))

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	// Sorted so "site" is seen before "site.name"; the dotted path wins.
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := restore(rec[key])
		if !ok {
			continue
		}

		parts := strings.Split(key, Separator)
		cur := obj
		for _, part := range parts[:len(parts)-1] {
			child, isMapping := cur[part].AsMapping()
			if !isMapping || child == nil {
				child = models.Object{}
				cur[part] = models.Mapping(child)
			}
			cur = child
		}
		cur[parts[len(parts)-1]] = value
	}

	return obj
}

// IsFlat reports whether obj has no mapping or sequence values.
func IsFlat(obj models.Object) bool {
	for _, v := range obj {
		if !v.Primitive() {
			return false
		}
	}
	return true
}

func scalar(v models.Value) models.Value {
	if v.Primitive() {
		return v
	}
	return models.String(v.Text())
}

func restore(v models.Value) (models.Value, bool) {
	s, ok := v.AsString()
	if !ok {
		return v, true
	}
	if s == "" {
		return models.Value{}, false
	}

	if s[0] == '[' || s[0] == '{' {
		if parsed, err := oj.ParseString(s); err == nil {
			return models.FromAny(parsed), true
		}
	}
	return v, true
}
