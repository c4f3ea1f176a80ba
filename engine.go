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
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ScriptEngine is a live JavaScript VM. Values returned by Eval and EvalFile are engine-native and are meant to be
// passed through ScriptLanguage.Decode before being handed to host code. A ScriptEngine is not safe for concurrent
// use.
type ScriptEngine interface {
	// Name returns the display name of the engine, e.g. "Goja JavaScript Engine".
	Name() string
	// Set binds a host value to a global name.
	Set(name string, value any) error
	// Eval runs code in the global scope. Cancelling ctx interrupts the script.
	Eval(ctx context.Context, code string) (any, error)
	// EvalFile loads a script through the engine's ScriptLoader and runs it.
	EvalFile(ctx context.Context, path string) (any, error)
}

// EngineOptions are handed to an EngineFactory when a new engine is built.
type EngineOptions struct {
	Loader  ScriptLoader
	Logger  *slog.Logger
	Timeout time.Duration
	FS      fs.FS
}

// EngineFactory builds a ScriptEngine.
type EngineFactory func(opts EngineOptions) (ScriptEngine, error)

// RegisteredEngine describes an engine implementation available in the process.
type RegisteredEngine struct {
	// ID is the short, lowercase identifier used in configuration (e.g. "goja").
	ID          string
	DisplayName string
	// Priority decides which engine is used when none is configured. Higher wins.
	Priority int
	Factory  EngineFactory
}

var engines = NewSafeMap[string, RegisteredEngine]()

// RegisterEngine makes an engine implementation available. Registering the same ID twice replaces the previous
// registration.
func RegisterEngine(engine RegisteredEngine) {
	engine.ID = strings.ToLower(engine.ID)
	engines.Store(engine.ID, engine)
}

// UnregisterEngine removes an engine implementation.
func UnregisterEngine(id string) {
	engines.Delete(strings.ToLower(id))
}

// Engines returns the registered engines, highest priority first.
func Engines() []RegisteredEngine {
	regs := lo.Values(engines.Iter())
	slices.SortFunc(regs, func(a, b RegisteredEngine) int {
		if a.Priority != b.Priority {
			return cmp.Compare(b.Priority, a.Priority)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return regs
}

// ResolveEngine returns the registration for the given ID or, when the ID is empty, the highest priority engine.
func ResolveEngine(id string) (RegisteredEngine, error) {
	if id == "" {
		regs := Engines()
		if len(regs) == 0 {
			return RegisteredEngine{}, ErrNoEngine
		}
		return regs[0], nil
	}
	reg, ok := engines.Load(strings.ToLower(id))
	if !ok {
		return RegisteredEngine{}, fmt.Errorf("%w: %s", ErrEngineNotFound, id)
	}
	return reg, nil
}

// NewEngine builds a new engine instance. See ResolveEngine for how id is interpreted.
func NewEngine(id string, opts EngineOptions) (ScriptEngine, error) {
	reg, err := ResolveEngine(id)
	if err != nil {
		return nil, err
	}
	return reg.Factory(opts)
}
