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
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/go-resty/resty/v2"
)

// names of the host functions a script loader is exposed as, under the __fragsjs global
const (
	primitiveReadFile = "readFile"
	primitiveReadFS   = "readFS"
	primitiveFetch    = "fetch"
)

// ScriptLoader retrieves script sources for load() and EvalFile.
type ScriptLoader interface {
	Load(ctx context.Context, name string) ([]byte, error)
	// Primitive is the name the loader is bound to inside the engine.
	Primitive() string
}

// FileScriptLoader loads scripts from the file system.
type FileScriptLoader struct {
	basePath string
}

// NewFileScriptLoader creates a new FileScriptLoader. Relative names are resolved against basePath.
func NewFileScriptLoader(basePath string) *FileScriptLoader {
	return &FileScriptLoader{basePath: basePath}
}

func (l *FileScriptLoader) Load(_ context.Context, name string) ([]byte, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(l.basePath, name)
	}
	return os.ReadFile(name)
}

func (l *FileScriptLoader) Primitive() string {
	return primitiveReadFile
}

// FSScriptLoader loads scripts from an fs.FS, such as an embed.FS.
type FSScriptLoader struct {
	fsys fs.FS
}

// NewFSScriptLoader creates a new FSScriptLoader.
func NewFSScriptLoader(fsys fs.FS) *FSScriptLoader {
	return &FSScriptLoader{fsys: fsys}
}

func (l *FSScriptLoader) Load(_ context.Context, name string) ([]byte, error) {
	return fs.ReadFile(l.fsys, path.Clean(strings.TrimPrefix(name, "/")))
}

func (l *FSScriptLoader) Primitive() string {
	return primitiveReadFS
}

// HTTPScriptLoader fetches scripts over HTTP, retrying failed attempts.
type HTTPScriptLoader struct {
	client   *resty.Client
	baseURL  *url.URL
	attempts uint
	delay    time.Duration
}

// NewHTTPScriptLoader creates a new HTTPScriptLoader. Relative names are resolved against baseURL.
func NewHTTPScriptLoader(baseURL string, attempts uint) (*HTTPScriptLoader, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	// without the trailing slash the last path segment would be replaced when resolving
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if attempts == 0 {
		attempts = 1
	}
	return &HTTPScriptLoader{
		client:   resty.New().SetHeader("Accept", "application/javascript, text/javascript, */*"),
		baseURL:  u,
		attempts: attempts,
		delay:    time.Second,
	}, nil
}

func (l *HTTPScriptLoader) Load(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, err
	}
	target := l.baseURL.ResolveReference(ref).String()
	var data []byte
	err = retry.New(retry.Attempts(l.attempts), retry.Delay(l.delay), retry.Context(ctx)).Do(func() error {
		res, err := l.client.R().SetContext(ctx).Get(target)
		if err != nil {
			return err
		}
		if res.IsError() {
			err := fmt.Errorf("GET %s: %s", target, res.Status())
			// only server errors can go away on their own
			if res.StatusCode() < http.StatusInternalServerError {
				return retry.Unrecoverable(err)
			}
			return err
		}
		data = res.Body()
		return nil
	})
	return data, err
}

func (l *HTTPScriptLoader) Primitive() string {
	return primitiveFetch
}

func isHTTPBase(basePath string) bool {
	return strings.HasPrefix(basePath, "http://") || strings.HasPrefix(basePath, "https://")
}

// NewScriptLoader picks a loader for the configuration: an HTTP loader when BasePath is a URL, an fs.FS loader when
// fsys is provided, the file system otherwise.
func NewScriptLoader(cfg Config, fsys fs.FS) (ScriptLoader, error) {
	switch {
	case isHTTPBase(cfg.BasePath):
		return NewHTTPScriptLoader(cfg.BasePath, cfg.RetryAttempts)
	case fsys != nil:
		return NewFSScriptLoader(fsys), nil
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "."
	}
	return NewFileScriptLoader(basePath), nil
}
