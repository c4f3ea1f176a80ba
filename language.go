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
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// ScriptLanguage is the contract a script language plugin fulfills towards the host.
type ScriptLanguage interface {
	// Name is the unique, lowercase name of the language.
	Name() string
	// Extensions returns the file extensions, without the dot, handled by the language.
	Extensions() []string
	// EngineName returns the display name of the engine the language would use, or an empty string if no engine
	// is available.
	EngineName() string
	// ScriptEngine returns a new engine, ready to use.
	ScriptEngine(ctx context.Context) (ScriptEngine, error)
	// Decode converts a value returned by the engine into a host value.
	Decode(value any) (any, error)
}

var languages = NewSafeMap[string, ScriptLanguage]()

// Register makes a script language discoverable.
func Register(lang ScriptLanguage) error {
	name := strings.ToLower(lang.Name())
	if !languages.StoreIfAbsent(name, lang) {
		return fmt.Errorf("%w: %s", ErrLanguageExists, name)
	}
	return nil
}

// MustRegister is like Register but panics on error. Meant for init functions.
func MustRegister(lang ScriptLanguage) {
	if err := Register(lang); err != nil {
		panic(err)
	}
}

// Unregister removes a script language.
func Unregister(name string) {
	languages.Delete(strings.ToLower(name))
}

// Lookup returns the language registered under name.
func Lookup(name string) (ScriptLanguage, error) {
	lang, ok := languages.Load(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotFound, name)
	}
	return lang, nil
}

// Languages returns the registered languages sorted by name.
func Languages() []ScriptLanguage {
	langs := lo.Values(languages.Iter())
	slices.SortFunc(langs, func(a, b ScriptLanguage) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return langs
}

// ForFile returns the language handling the given file, matching its base name against each language's extensions.
func ForFile(path string) (ScriptLanguage, error) {
	base := strings.ToLower(filepath.Base(path))
	for _, lang := range Languages() {
		if len(lang.Extensions()) == 0 {
			continue
		}
		g, err := glob.Compile("*.{" + strings.Join(lang.Extensions(), ",") + "}")
		if err != nil {
			return nil, err
		}
		if g.Match(base) {
			return lang, nil
		}
	}
	return nil, fmt.Errorf("%w: no language handles %s", ErrLanguageNotFound, path)
}
