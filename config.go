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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout       = 1 * time.Minute
	defaultRetryAttempts = 3
)

// Config configures the JavaScript script language.
type Config struct {
	// Engine is the ID of the engine to use. When empty, the highest priority registered engine is picked.
	Engine string `json:"engine,omitempty" yaml:"engine,omitempty" mapstructure:"engine" validate:"omitempty,lowercase,alphanum"`
	// BasePath is where load() resolves relative script paths. It can be a directory or an http(s) URL.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty" mapstructure:"basePath"`
	// Timeout bounds a single evaluation. Zero disables the limit.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	// Extensions are the file extensions, without the dot, handled by the language.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" mapstructure:"extensions" validate:"dive,required,excludesall=./"`
	// RetryAttempts is used by the HTTP script loader.
	RetryAttempts uint `json:"retryAttempts,omitempty" yaml:"retryAttempts,omitempty" mapstructure:"retryAttempts" validate:"lte=10"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		Timeout:       defaultTimeout,
		Extensions:    []string{"js", "mjs", "cjs"},
		RetryAttempts: defaultRetryAttempts,
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := Config{}
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen copying a Config onto itself
		panic(err)
	}
	return out
}

// LoadConfig reads a YAML configuration file. Fields missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}
