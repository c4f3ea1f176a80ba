/*
 * Copyright (C) 2026 Simone Pezzano
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package fragsjs

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Wrapper is implemented by any value boxing a host value.
type Wrapper interface {
	Unwrap() any
}

// UnwrapFunc is registered by an engine package for the wrapper types it defines. It reports whether v is one of
// them and, if so, returns the boxed host value.
type UnwrapFunc func(v any) (unwrapped any, wrapped bool, err error)

var wrappers = NewSafeMap[string, UnwrapFunc]()

// RegisterWrapper registers the unwrap logic for values whose type is declared in pkgPath.
func RegisterWrapper(pkgPath string, fn UnwrapFunc) {
	wrappers.Store(pkgPath, fn)
}

// packagePath returns the import path of the package declaring the type of v, looking through pointers.
func packagePath(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}

// unwrapValue never lets a panic raised by an engine escape.
func unwrapValue(v any) (res any, wrapped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, wrapped, err = nil, true, fmt.Errorf("panic while unwrapping: %v", r)
		}
	}()
	if w, ok := v.(Wrapper); ok {
		return w.Unwrap(), true, nil
	}
	fn, ok := wrappers.Load(packagePath(v))
	if !ok {
		return v, false, nil
	}
	return fn(v)
}

// Decode converts a value produced by a script engine into a plain host value.
//   - nil stays nil.
//   - Values whose package has no registered wrapper, or that are not wrappers, are returned as they are.
//   - Wrapped values are unwrapped.
//
// When unwrapping fails the original value is returned together with a *DecodeError, leaving the caller to decide
// whether the boxed value is still usable.
func Decode(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	res, wrapped, err := unwrapValue(value)
	if err != nil {
		return value, &DecodeError{Type: fmt.Sprintf("%T", value), Cause: err}
	}
	if !wrapped {
		return value, nil
	}
	return res, nil
}

// DecodeInto decodes value and maps the result onto target, which must be a pointer.
func DecodeInto(value any, target any) error {
	res, err := Decode(value)
	if err != nil {
		return err
	}
	return mapstructure.Decode(res, target)
}
