package binder

import (
	"encoding"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Path returns a binder that fills struct fields tagged `path:"name"` using
// extractor. Supported field kinds are strings, integers and any type that
// implements encoding.TextUnmarshaler (uuid.UUID for example).
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ErrInvalidTarget
		}
		rv = rv.Elem()
		rt := rv.Type()

		for i := range rt.NumField() {
			sf := rt.Field(i)
			name := sf.Tag.Get("path")
			if name == "" || name == "-" || !sf.IsExported() {
				continue
			}
			raw := extractor(r, name)
			if raw == "" {
				return &Error{Sentinel: ErrFailedToParsePath, Detail: fmt.Sprintf("missing %q", name)}
			}
			if err := setField(rv.Field(i), raw); err != nil {
				return &Error{Sentinel: ErrFailedToParsePath, Detail: fmt.Sprintf("invalid %q: %v", name, err)}
			}
		}
		return nil
	}
}

func setField(field reflect.Value, raw string) error {
	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
