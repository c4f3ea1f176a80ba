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
	"log/slog"
	"reflect"
	"time"

	"github.com/dop251/goja"
	"github.com/theirish81/fragsjs"
)

const (
	GojaID          = "goja"
	GojaDisplayName = "Goja JavaScript Engine"
	gojaPriority    = 20
)

var gojaPkgPath = reflect.TypeOf((*goja.Runtime)(nil)).Elem().PkgPath()

func init() {
	fragsjs.RegisterEngine(fragsjs.RegisteredEngine{
		ID:          GojaID,
		DisplayName: GojaDisplayName,
		Priority:    gojaPriority,
		Factory: func(opts fragsjs.EngineOptions) (fragsjs.ScriptEngine, error) {
			return NewGojaEngine(opts), nil
		},
	})
	fragsjs.RegisterWrapper(gojaPkgPath, unwrapGoja)
}

// unwrapGoja exports goja values. Objects wrapping a host value export to that value.
func unwrapGoja(v any) (any, bool, error) {
	val, ok := v.(goja.Value)
	if !ok {
		return v, false, nil
	}
	return val.Export(), true, nil
}

// GojaEngine is a ScriptEngine backed by goja. It provides a native load() function.
type GojaEngine struct {
	vm      *goja.Runtime
	loader  fragsjs.ScriptLoader
	timeout time.Duration
	logger  *slog.Logger
	ctx     context.Context
}

// NewGojaEngine creates a new GojaEngine.
func NewGojaEngine(opts fragsjs.EngineOptions) *GojaEngine {
	e := &GojaEngine{
		vm:      goja.New(),
		loader:  opts.Loader,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		ctx:     context.Background(),
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.loader != nil {
		_ = e.vm.Set("load", e.load)
	}
	return e
}

func (e *GojaEngine) Name() string {
	return GojaDisplayName
}

// Runtime returns the underlying goja runtime.
func (e *GojaEngine) Runtime() *goja.Runtime {
	return e.vm
}

func (e *GojaEngine) Set(name string, value any) error {
	return e.vm.Set(name, value)
}

func (e *GojaEngine) Eval(ctx context.Context, code string) (any, error) {
	return e.run(ctx, "", code)
}

func (e *GojaEngine) EvalFile(ctx context.Context, path string) (any, error) {
	if e.loader == nil {
		return nil, fragsjs.ErrNoLoader
	}
	src, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, path, string(src))
}

func (e *GojaEngine) run(ctx context.Context, name string, code string) (any, error) {
	innerCtx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	previous := e.ctx
	e.ctx = innerCtx
	defer func() {
		e.ctx = previous
	}()
	e.vm.ClearInterrupt()
	interrupted := make(chan struct{})
	stop := context.AfterFunc(innerCtx, func() {
		defer close(interrupted)
		e.vm.Interrupt(innerCtx.Err())
	})
	defer func() {
		// an interrupt already on its way must land before the next run clears it
		if !stop() {
			<-interrupted
		}
	}()
	res, err := e.vm.RunScript(name, code)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// load evaluates a script, fetched through the loader, in the global scope.
func (e *GojaEngine) load(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	src, err := e.loader.Load(e.ctx, name)
	if err != nil {
		panic(e.vm.NewGoError(err))
	}
	e.logger.Debug("loading script", "engine", GojaDisplayName, "path", name)
	res, err := e.vm.RunScript(name, string(src))
	if err != nil {
		if ex, ok := err.(*goja.Exception); ok {
			panic(ex.Value())
		}
		panic(e.vm.NewGoError(err))
	}
	return res
}
