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
	_ "embed"
	"fmt"

	"github.com/theirish81/fragsjs/log"
)

//go:embed compat.js
var compatScript string

// loadShimTemplate defines load() on engines lacking it. The placeholder is the loader primitive. The indirect eval
// runs the loaded source in the global scope.
const loadShimTemplate = `function load(path) {
  var source = __fragsjs.%s(String(path));
  return (0, eval)(source);
}`

func loadShim(primitive string) string {
	return fmt.Sprintf(loadShimTemplate, primitive)
}

// installShim patches the engine according to its flavor. Failures are logged and the engine is left as it is.
func (l *JavaScriptLanguage) installShim(ctx context.Context, engine ScriptEngine) {
	flavor := DetectFlavor(engine.Name())
	event := log.NewEvent(log.ShimEventType, log.ShimComponent).
		WithLanguage(LanguageName).
		WithEngine(engine.Name()).
		WithFlavor(flavor.String())
	var err error
	switch flavor {
	case FlavorGoja:
		err = l.installCompat(ctx, engine)
	case FlavorOtto:
		event = event.WithArg("primitive", l.loader.Primitive())
		_, err = engine.Eval(ctx, loadShim(l.loader.Primitive()))
	default:
		l.events.Debug(event.WithMessage("no compatibility shim for engine"))
		return
	}
	if err != nil {
		l.events.Warn(event.WithMessage("could not install compatibility shim").WithErr(err))
		return
	}
	l.events.Debug(event.WithMessage("compatibility shim installed"))
}

// installCompat exposes the host packages and defines importPackage/importClass over them.
func (l *JavaScriptLanguage) installCompat(ctx context.Context, engine ScriptEngine) error {
	if err := engine.Set("Packages", clonePackages(l.packages)); err != nil {
		return err
	}
	logger := l.events.Logger()
	if err := engine.Set("print", func(args ...any) {
		logger.Info(fmt.Sprint(args...), "language", LanguageName)
	}); err != nil {
		return err
	}
	_, err := engine.Eval(ctx, compatScript)
	return err
}

// clonePackages copies the nested package maps so that scripts writing to Packages only change their own engine.
func clonePackages(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if m, ok := v.(map[string]any); ok {
			v = clonePackages(m)
		}
		dst[k] = v
	}
	return dst
}
