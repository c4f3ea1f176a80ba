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
	"errors"
	"log/slog"
	"reflect"
	"time"

	"github.com/robertkrimen/otto"
	"github.com/theirish81/fragsjs"
)

const (
	OttoID          = "otto"
	OttoDisplayName = "Otto JavaScript Engine"
	ottoPriority    = 10
	// ottoHostObject is the global under which the loader primitive is exposed to the load() shim.
	ottoHostObject = "__fragsjs"
)

var ottoPkgPath = reflect.TypeOf(otto.Value{}).PkgPath()

// errHalt is raised inside the VM to stop a script whose context is done.
var errHalt = errors.New("script interrupted")

func init() {
	fragsjs.RegisterEngine(fragsjs.RegisteredEngine{
		ID:          OttoID,
		DisplayName: OttoDisplayName,
		Priority:    ottoPriority,
		Factory: func(opts fragsjs.EngineOptions) (fragsjs.ScriptEngine, error) {
			return NewOttoEngine(opts)
		},
	})
	fragsjs.RegisterWrapper(ottoPkgPath, unwrapOtto)
}

func unwrapOtto(v any) (any, bool, error) {
	switch t := v.(type) {
	case otto.Value:
		res, err := t.Export()
		return res, true, err
	case *otto.Value:
		if t == nil {
			return nil, true, nil
		}
		res, err := t.Export()
		return res, true, err
	case *otto.Object:
		if t == nil {
			return nil, true, nil
		}
		res, err := t.Value().Export()
		return res, true, err
	}
	return v, false, nil
}

// OttoEngine is a ScriptEngine backed by otto. Otto has no load() of its own: the loader is exposed as a host
// primitive for the shim installed by the language.
type OttoEngine struct {
	vm      *otto.Otto
	loader  fragsjs.ScriptLoader
	timeout time.Duration
	logger  *slog.Logger
	ctx     context.Context
}

// NewOttoEngine creates a new OttoEngine.
func NewOttoEngine(opts fragsjs.EngineOptions) (*OttoEngine, error) {
	e := &OttoEngine{
		vm:      otto.New(),
		loader:  opts.Loader,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		ctx:     context.Background(),
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.loader != nil {
		host, err := e.vm.Object(`({})`)
		if err != nil {
			return nil, err
		}
		if err := host.Set(e.loader.Primitive(), e.readScript); err != nil {
			return nil, err
		}
		if err := e.vm.Set(ottoHostObject, host); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *OttoEngine) Name() string {
	return OttoDisplayName
}

// VM returns the underlying otto VM.
func (e *OttoEngine) VM() *otto.Otto {
	return e.vm
}

func (e *OttoEngine) Set(name string, value any) error {
	return e.vm.Set(name, value)
}

func (e *OttoEngine) Eval(ctx context.Context, code string) (any, error) {
	return e.run(ctx, code)
}

func (e *OttoEngine) EvalFile(ctx context.Context, path string) (any, error) {
	if e.loader == nil {
		return nil, fragsjs.ErrNoLoader
	}
	src, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	script, err := e.vm.Compile(path, string(src))
	if err != nil {
		return nil, err
	}
	return e.run(ctx, script)
}

// run accepts whatever otto.Run accepts: a string or a compiled *otto.Script.
func (e *OttoEngine) run(ctx context.Context, src any) (res any, err error) {
	innerCtx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	previous := e.ctx
	e.ctx = innerCtx
	defer func() {
		e.ctx = previous
	}()
	defer func() {
		if r := recover(); r != nil {
			if r == errHalt {
				res, err = nil, errors.Join(errHalt, context.Cause(innerCtx))
				return
			}
			panic(r)
		}
	}()
	interrupt := make(chan func(), 1)
	e.vm.Interrupt = interrupt
	stop := context.AfterFunc(innerCtx, func() {
		select {
		case interrupt <- func() { panic(errHalt) }:
		default:
		}
	})
	defer stop()
	v, err := e.vm.Run(src)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// readScript is the loader primitive called by the load() shim.
func (e *OttoEngine) readScript(call otto.FunctionCall) otto.Value {
	name := call.Argument(0).String()
	src, err := e.loader.Load(e.ctx, name)
	if err != nil {
		panic(call.Otto.MakeCustomError("LoadError", err.Error()))
	}
	e.logger.Debug("loading script", "engine", OttoDisplayName, "path", name)
	v, err := call.Otto.ToValue(string(src))
	if err != nil {
		panic(call.Otto.MakeCustomError("LoadError", err.Error()))
	}
	return v
}
