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
	"io"
	"log/slog"
	"testing"
)

// fakeEngine records what the language does to it.
type fakeEngine struct {
	name    string
	evalErr error
	evals   []string
	vars    map[string]any
}

func newFakeEngine(name string) *fakeEngine {
	return &fakeEngine{name: name, vars: make(map[string]any)}
}

func (f *fakeEngine) Name() string {
	return f.name
}

func (f *fakeEngine) Set(name string, value any) error {
	f.vars[name] = value
	return nil
}

func (f *fakeEngine) Eval(_ context.Context, code string) (any, error) {
	f.evals = append(f.evals, code)
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return code, nil
}

func (f *fakeEngine) EvalFile(ctx context.Context, path string) (any, error) {
	return f.Eval(ctx, path)
}

func registerFake(t *testing.T, id string, priority int, engine *fakeEngine) {
	t.Helper()
	RegisterEngine(RegisteredEngine{
		ID:          id,
		DisplayName: engine.name,
		Priority:    priority,
		Factory: func(EngineOptions) (ScriptEngine, error) {
			return engine, nil
		},
	})
	t.Cleanup(func() {
		UnregisterEngine(id)
	})
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
