// internal/rules/coercion.go
package rules

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

/*
 * Literal coercion for declared rules.
 *
 * Converts the textual value of a `when:` declaration into a value of the
 * sibling field's declared type so that it compares under typed equality.
 *
 * Resolution order:
 *   1. *T implements encoding.TextUnmarshaler: delegate (named enums)
 *   2. "nil" for nillable kinds: zero value
 *   3. Kind-based parsing: string verbatim, bool via ParseBool, integers and
 *      floats via strconv with the type's bit size (range-checked)
 *
 * Numeric literals are trimmed; whitespace-only numeric literals fail.
 * Anything else (structs, slices, maps) cannot be written as a literal and
 * returns ErrCoercionFailed.
 */

// CoerceLiteral converts literal into a value of type t.
func CoerceLiteral(literal string, t reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(t)
	if u, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(literal)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q as %s: %v", types.ErrCoercionFailed, literal, t, err)
		}
		return ptr.Elem(), nil
	}

	if schema.Nillable(t) {
		if strings.TrimSpace(literal) == "nil" {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: %q as %s", types.ErrCoercionFailed, literal, t)
	}

	v := ptr.Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(literal)
		return v, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(literal))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q as %s", types.ErrCoercionFailed, literal, t)
		}
		v.SetBool(b)
		return v, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(numeric(literal), 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q as %s", types.ErrCoercionFailed, literal, t)
		}
		v.SetInt(n)
		return v, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(numeric(literal), 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q as %s", types.ErrCoercionFailed, literal, t)
		}
		v.SetUint(n)
		return v, nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(numeric(literal), t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q as %s", types.ErrCoercionFailed, literal, t)
		}
		v.SetFloat(f)
		return v, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s has no literal form", types.ErrCoercionFailed, t)
	}
}

// numeric trims whitespace around a numeric literal.
func numeric(literal string) string {
	return strings.TrimSpace(literal)
}
