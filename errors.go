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
	"errors"
	"fmt"
)

var (
	ErrNoEngine         = errors.New("no script engine is registered")
	ErrEngineNotFound   = errors.New("script engine not found")
	ErrLanguageExists   = errors.New("script language already registered")
	ErrLanguageNotFound = errors.New("script language not found")
	ErrUnwrap           = errors.New("could not unwrap script value")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrNoLoader         = errors.New("script engine has no script loader")
)

// DecodeError is returned by Decode when a wrapped script value could not be unwrapped. It matches both ErrUnwrap
// and the underlying cause with errors.Is.
type DecodeError struct {
	Type  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrUnwrap.Error(), e.Type, e.Cause)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrUnwrap, e.Cause}
}
