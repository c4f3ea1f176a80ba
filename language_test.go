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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLanguage struct {
	name       string
	extensions []string
}

func (s stubLanguage) Name() string {
	return s.name
}

func (s stubLanguage) Extensions() []string {
	return s.extensions
}

func (s stubLanguage) EngineName() string {
	return ""
}

func (s stubLanguage) ScriptEngine(context.Context) (ScriptEngine, error) {
	return nil, ErrNoEngine
}

func (s stubLanguage) Decode(value any) (any, error) {
	return value, nil
}

func registerStub(t *testing.T, lang stubLanguage) {
	t.Helper()
	require.NoError(t, Register(lang))
	t.Cleanup(func() {
		Unregister(lang.name)
	})
}

func TestLanguageRegistry(t *testing.T) {
	t.Run("javascript registers itself", func(t *testing.T) {
		lang, err := Lookup("JavaScript")
		require.NoError(t, err)
		assert.IsType(t, &JavaScriptLanguage{}, lang)
	})

	t.Run("names are unique", func(t *testing.T) {
		err := Register(stubLanguage{name: "javascript"})
		assert.ErrorIs(t, err, ErrLanguageExists)
		assert.Panics(t, func() {
			MustRegister(stubLanguage{name: "javascript"})
		})
	})

	t.Run("unknown language", func(t *testing.T) {
		_, err := Lookup("cobol")
		assert.ErrorIs(t, err, ErrLanguageNotFound)
	})

	t.Run("languages are listed by name", func(t *testing.T) {
		registerStub(t, stubLanguage{name: "python", extensions: []string{"py"}})
		registerStub(t, stubLanguage{name: "lua", extensions: []string{"lua"}})
		names := make([]string, 0)
		for _, lang := range Languages() {
			names = append(names, lang.Name())
		}
		assert.Equal(t, []string{"javascript", "lua", "python"}, names)
	})
}

func TestForFile(t *testing.T) {
	registerStub(t, stubLanguage{name: "python", extensions: []string{"py"}})
	registerStub(t, stubLanguage{name: "nothing"})

	tests := []struct {
		path     string
		expected string
	}{
		{"main.js", "javascript"},
		{"scripts/Module.MJS", "javascript"},
		{"/abs/path/lib.cjs", "javascript"},
		{"tool.py", "python"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, err := ForFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lang.Name())
		})
	}

	t.Run("no language for the file", func(t *testing.T) {
		_, err := ForFile("notes.txt")
		assert.ErrorIs(t, err, ErrLanguageNotFound)
		_, err = ForFile("main.js.bak")
		assert.ErrorIs(t, err, ErrLanguageNotFound)
	})
}
