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
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/theirish81/fragsjs/log"
)

// LanguageName is the name the JavaScript language is registered under.
const LanguageName = "javascript"

func init() {
	lang, err := NewJavaScriptLanguage()
	if err != nil {
		panic(err)
	}
	MustRegister(lang)
}

// JavaScriptLanguage adapts whichever JavaScript engine is registered to the ScriptLanguage contract.
type JavaScriptLanguage struct {
	config   Config
	events   *log.StreamerLogger
	packages map[string]any
	fsys     fs.FS
	loader   ScriptLoader
}

// LanguageOptions are options for the JavaScript language.
type LanguageOptions struct {
	config       Config
	logger       *slog.Logger
	eventChannel chan log.Event
	channelLevel log.ChannelLevel
	packages     map[string]any
	fsys         fs.FS
	loader       ScriptLoader
}

// LanguageOption is an option for the JavaScript language.
type LanguageOption func(*LanguageOptions)

// WithConfig sets the configuration.
func WithConfig(cfg Config) LanguageOption {
	return func(o *LanguageOptions) {
		o.config = cfg.Clone()
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LanguageOption {
	return func(o *LanguageOptions) {
		o.logger = logger
	}
}

// WithEventChannel mirrors the language events on a channel.
func WithEventChannel(ch chan log.Event, level log.ChannelLevel) LanguageOption {
	return func(o *LanguageOptions) {
		o.eventChannel = ch
		o.channelLevel = level
	}
}

// WithPackage exposes host members to scripts as Packages.<name>, to be pulled in with importPackage or importClass.
func WithPackage(name string, members map[string]any) LanguageOption {
	return func(o *LanguageOptions) {
		o.packages[name] = clonePackages(members)
	}
}

// WithFS makes load() read scripts from fsys, unless the base path is a URL.
func WithFS(fsys fs.FS) LanguageOption {
	return func(o *LanguageOptions) {
		o.fsys = fsys
	}
}

// WithScriptLoader overrides the loader otherwise picked from the configuration.
func WithScriptLoader(loader ScriptLoader) LanguageOption {
	return func(o *LanguageOptions) {
		o.loader = loader
	}
}

// NewJavaScriptLanguage creates a new JavaScript language.
func NewJavaScriptLanguage(options ...LanguageOption) (*JavaScriptLanguage, error) {
	opts := LanguageOptions{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
		packages:     make(map[string]any),
		channelLevel: log.InfoChannelLevel,
	}
	for _, opt := range options {
		opt(&opts)
	}
	if err := opts.config.Validate(); err != nil {
		return nil, err
	}
	loader := opts.loader
	if loader == nil {
		var err error
		if loader, err = NewScriptLoader(opts.config, opts.fsys); err != nil {
			return nil, err
		}
	}
	return &JavaScriptLanguage{
		config:   opts.config,
		events:   log.NewStreamerLogger(opts.logger, opts.eventChannel, opts.channelLevel),
		packages: opts.packages,
		fsys:     opts.fsys,
		loader:   loader,
	}, nil
}

func (l *JavaScriptLanguage) Name() string {
	return LanguageName
}

func (l *JavaScriptLanguage) Extensions() []string {
	return slices.Clone(l.config.Extensions)
}

// Config returns a copy of the configuration.
func (l *JavaScriptLanguage) Config() Config {
	return l.config.Clone()
}

func (l *JavaScriptLanguage) EngineName() string {
	reg, err := ResolveEngine(l.config.Engine)
	if err != nil {
		return ""
	}
	return reg.DisplayName
}

// Flavor returns the flavor of the engine the language would use.
func (l *JavaScriptLanguage) Flavor() Flavor {
	return DetectFlavor(l.EngineName())
}

// IsGoja returns true if the language is backed by goja.
func (l *JavaScriptLanguage) IsGoja() bool {
	return l.Flavor() == FlavorGoja
}

// IsOtto returns true if the language is backed by otto.
func (l *JavaScriptLanguage) IsOtto() bool {
	return l.Flavor() == FlavorOtto
}

// ScriptEngine builds a new engine and installs the compatibility shim matching its flavor. A shim that fails to
// install does not prevent the engine from being returned.
func (l *JavaScriptLanguage) ScriptEngine(ctx context.Context) (ScriptEngine, error) {
	engine, err := NewEngine(l.config.Engine, EngineOptions{
		Loader:  l.loader,
		Logger:  l.events.Logger(),
		Timeout: l.config.Timeout,
		FS:      l.fsys,
	})
	if err != nil {
		l.events.Err(log.NewEvent(log.ErrorEventType, log.EngineComponent).
			WithLanguage(LanguageName).
			WithMessage("could not create script engine").
			WithErr(err))
		return nil, err
	}
	l.events.Debug(log.NewEvent(log.GenericEventType, log.LanguageComponent).
		WithLanguage(LanguageName).
		WithEngine(engine.Name()).
		WithMessage("script engine created"))
	l.installShim(ctx, engine)
	return engine, nil
}

// Decode unwraps engine values, see the package level Decode. Unwrap failures are also logged.
func (l *JavaScriptLanguage) Decode(value any) (any, error) {
	res, err := Decode(value)
	if err != nil {
		l.events.Warn(log.NewEvent(log.DecodeEventType, log.DecodeComponent).
			WithLanguage(LanguageName).
			WithMessage("could not unwrap script value").
			WithErr(err))
	}
	return res, err
}

// Eval runs code on a fresh engine and returns the decoded result.
func (l *JavaScriptLanguage) Eval(ctx context.Context, code string) (any, error) {
	engine, err := l.ScriptEngine(ctx)
	if err != nil {
		return nil, err
	}
	res, err := engine.Eval(ctx, code)
	if err != nil {
		return nil, err
	}
	return l.Decode(res)
}

// EvalFile loads a script through the configured loader, runs it on a fresh engine and returns the decoded result.
func (l *JavaScriptLanguage) EvalFile(ctx context.Context, path string) (any, error) {
	engine, err := l.ScriptEngine(ctx)
	if err != nil {
		return nil, err
	}
	l.events.Debug(log.NewEvent(log.LoadEventType, log.LoaderComponent).
		WithLanguage(LanguageName).
		WithEngine(engine.Name()).
		WithPath(path).
		WithMessage("evaluating script"))
	res, err := engine.EvalFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return l.Decode(res)
}
