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

package scriptengines

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/theirish81/fragsjs"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLanguage(t *testing.T, engine string, options ...fragsjs.LanguageOption) *fragsjs.JavaScriptLanguage {
	t.Helper()
	cfg := fragsjs.DefaultConfig()
	cfg.Engine = engine
	cfg.BasePath = scriptsDir(t)
	lang, err := fragsjs.NewJavaScriptLanguage(append([]fragsjs.LanguageOption{
		fragsjs.WithLogger(quietLogger()),
		fragsjs.WithConfig(cfg),
	}, options...)...)
	require.NoError(t, err)
	return lang
}

// scriptsDir writes a couple of scripts to a temporary directory.
func scriptsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.js"), []byte(`var loaded = "from-lib";`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte(`load("lib.js"); loaded + "-main";`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.js"), []byte(`var = ;`), 0o644))
	return dir
}

func eval(t *testing.T, lang *fragsjs.JavaScriptLanguage, code string) any {
	t.Helper()
	res, err := lang.Eval(context.Background(), code)
	require.NoError(t, err)
	return res
}
