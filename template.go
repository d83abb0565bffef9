package fixture

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// DefaultTagName is the struct tag used to name fields of struct templates
const DefaultTagName = "toml"

var supportedTagNames = map[string]bool{
	"toml":         true,
	"json":         true,
	"yaml":         true,
	"mapstructure": true,
}

// FromStruct converts a struct (or pointer to struct) into a strict record.
// Field names come from the tag (default "toml"); "-" skips a field and a
// missing tag uses the Go field name. Nested structs become nested strict
// records, nil struct pointers are skipped, and every other field is
// normalised with ValueOf, so fields of type any or Value may hold Lazy
// functions and Deferred attributes.
func FromStruct(v any, tagName string) (*Record, error) {
	if tagName == "" {
		tagName = DefaultTagName
	}
	if !supportedTagNames[tagName] {
		return nil, fmt.Errorf("unsupported tag name %q", tagName)
	}

	rv := reflect.ValueOf(v)

	// Handle pointer or direct struct value
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("FromStruct requires a non-nil struct pointer or value")
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("FromStruct requires a struct or struct pointer, got %T", v)
	}

	var errs []error
	rec := structFields(rv, tagName, "", &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to convert %d field(s): %w", len(errs), errors.Join(errs...))
	}
	return rec, nil
}

// structFields walks the exported fields of a struct value recursively
func structFields(v reflect.Value, tagName, fieldPath string, errs *[]error) *Record {
	t := v.Type()
	rec := &Record{
		fields: make(map[string]Value, v.NumField()),
		strict: true,
	}

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(tagName)
		if tag == "-" {
			continue
		}

		key := field.Name
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				key = parts[0]
			}
		}

		if _, dup := rec.fields[key]; dup {
			*errs = append(*errs, fmt.Errorf("field %s%s: duplicate name %q", fieldPath, field.Name, key))
			continue
		}

		// Nested structs, except Values and scalar-like structs such as time.Time
		isStruct := fieldValue.Kind() == reflect.Struct
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct
		if (isStruct || isPtrToStruct) && !isValueType(field.Type) {
			nested := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					continue
				}
				nested = fieldValue.Elem()
			}
			rec.fields[key] = Nested{record: structFields(nested, tagName, fieldPath+field.Name+".", errs)}
			continue
		}

		rec.fields[key] = ValueOf(fieldValue.Interface())
	}

	return rec
}

var (
	valueInterface         = reflect.TypeOf((*Value)(nil)).Elem()
	textMarshalerInterface = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	recordPtrType          = reflect.TypeOf((*Record)(nil))
)

// isValueType reports struct types kept whole instead of becoming nested records
func isValueType(t reflect.Type) bool {
	if t == recordPtrType || t.Implements(valueInterface) || t.Implements(textMarshalerInterface) {
		return true
	}
	if t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(textMarshalerInterface) {
		return true
	}
	return false
}
