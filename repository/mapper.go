package repository

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"recordbase/datastore"
)

// modelToFields flattens a model struct into record fields. Field
// names come from json tags, falling back to the lowercased Go name;
// fields tagged "-" are skipped. The identifier travels under "id" and
// is peeled off again by the collection.
func modelToFields(v any) (datastore.Fields, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("repository: expected struct, got %s", rv.Kind())
	}

	rt := rv.Type()
	out := make(datastore.Fields, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		out[name] = rv.Field(i).Interface()
	}
	return out, nil
}

// recordToModel builds a model value from a stored record: the record
// id lands in the field tagged "id", every other field is set from the
// decoded document.
func recordToModel[T Model](rec *datastore.Record) (*T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	rt := rv.Type()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("repository: model must be a struct, got %s", rt.Kind())
	}

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name, ok := fieldName(f)
		if !ok {
			continue
		}

		fv := rv.Field(i)
		if !fv.CanSet() {
			continue
		}

		if name == "id" {
			setValue(fv, rec.ID)
			continue
		}
		if val, exists := rec.Fields[name]; exists {
			setValue(fv, val)
		}
	}

	return &out, nil
}

func fieldName(f reflect.StructField) (string, bool) {
	if tag := f.Tag.Get("json"); tag != "" {
		name := strings.TrimSpace(strings.Split(tag, ",")[0])
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return strings.ToLower(f.Name), true
}

// setValue assigns a decoded JSON value to a struct field, converting
// the shapes encoding/json produces (float64 numbers, RFC 3339 time
// strings) back to the field's type.
func setValue(dst reflect.Value, v any) {
	if v == nil {
		return
	}

	if dst.Type() == reflect.TypeOf(time.Time{}) {
		switch x := v.(type) {
		case time.Time:
			dst.Set(reflect.ValueOf(x))
		case string:
			if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
				dst.Set(reflect.ValueOf(t))
			}
		}
		return
	}

	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return
	}

	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch x := v.(type) {
		case int:
			dst.SetInt(int64(x))
		case int64:
			dst.SetInt(x)
		case float64:
			dst.SetInt(int64(x))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch x := v.(type) {
		case int:
			if x >= 0 {
				dst.SetUint(uint64(x))
			}
		case float64:
			if x >= 0 {
				dst.SetUint(uint64(x))
			}
		}
	case reflect.Float32, reflect.Float64:
		switch x := v.(type) {
		case int:
			dst.SetFloat(float64(x))
		case float64:
			dst.SetFloat(x)
		}
	case reflect.String:
		if x, ok := v.(string); ok {
			dst.SetString(x)
		}
	case reflect.Bool:
		if x, ok := v.(bool); ok {
			dst.SetBool(x)
		}
	default:
		if src.Type().ConvertibleTo(dst.Type()) {
			dst.Set(src.Convert(dst.Type()))
		}
	}
}
