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

import "strings"

// Flavor identifies the JavaScript implementation backing a script engine.
type Flavor string

const (
	FlavorUnknown Flavor = ""
	FlavorGoja    Flavor = "goja"
	FlavorOtto    Flavor = "otto"
)

// substrings looked for in an engine display name
const (
	gojaNameMarker = "Goja"
	ottoNameMarker = "Otto"
)

// DetectFlavor classifies an engine by its display name.
func DetectFlavor(engineName string) Flavor {
	switch {
	case strings.Contains(engineName, gojaNameMarker):
		return FlavorGoja
	case strings.Contains(engineName, ottoNameMarker):
		return FlavorOtto
	}
	return FlavorUnknown
}

func (f Flavor) String() string {
	if f == FlavorUnknown {
		return "unknown"
	}
	return string(f)
}
