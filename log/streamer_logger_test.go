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

package log

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreamerLogger_Debug(t *testing.T) {
	t.Run("debug channel level forwards debug events", func(t *testing.T) {
		ch := make(chan Event, 1)
		streamerLogger := NewStreamerLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)), ch, DebugChannelLevel)
		streamerLogger.Debug(NewEvent(GenericEventType, EngineComponent).WithMessage("test debug"))
		select {
		case receivedEvent := <-ch:
			assert.Equal(t, "test debug", receivedEvent.Message)
		case <-time.After(1 * time.Second):
			t.Error("Timed out waiting for event")
		}
	})
	t.Run("info channel level drops debug events", func(t *testing.T) {
		ch := make(chan Event, 1)
		streamerLogger := NewStreamerLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)), ch, InfoChannelLevel)
		streamerLogger.Debug(NewEvent(GenericEventType, EngineComponent).WithMessage("test debug"))
		select {
		case <-ch:
			t.Error("Received unexpected event on channel for debug message with info level")
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestStreamerLogger_Warn(t *testing.T) {
	buf := bytes.Buffer{}
	ch := make(chan Event, 1)
	streamerLogger := NewStreamerLogger(slog.New(slog.NewJSONHandler(&buf, nil)), ch, InfoChannelLevel)

	streamerLogger.Warn(NewEvent(ShimEventType, ShimComponent).
		WithMessage("could not install shim").
		WithEngine("Otto JavaScript Engine").
		WithErr(errors.New("boom")))

	receivedEvent := <-ch
	assert.Equal(t, "warn", receivedEvent.Level)
	assert.Contains(t, buf.String(), `"engine":"Otto JavaScript Engine"`)
	assert.Contains(t, buf.String(), `"component":"shim"`)
}

func TestStreamerLogger_FullChannel(t *testing.T) {
	ch := make(chan Event, 1)
	streamerLogger := NewStreamerLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)), ch, InfoChannelLevel)

	streamerLogger.Warn(NewEvent(GenericEventType, LoaderComponent).WithMessage("first"))
	streamerLogger.Warn(NewEvent(GenericEventType, LoaderComponent).WithMessage("second"))

	receivedEvent := <-ch
	assert.Equal(t, "first", receivedEvent.Message)
	select {
	case <-ch:
		t.Error("Received unexpected second event on channel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStreamerLogger_NoChannel(t *testing.T) {
	buf := bytes.Buffer{}
	streamerLogger := NewStreamerLogger(slog.New(slog.NewJSONHandler(&buf, nil)), nil, InfoChannelLevel)

	streamerLogger.Err(NewEvent(ErrorEventType, DecodeComponent).WithMessage("logged only"))
	assert.Contains(t, buf.String(), `"msg":"logged only"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestEvent_ToArray(t *testing.T) {
	event := NewEvent(DecodeEventType, DecodeComponent).
		WithMessage("unwrap failed").
		WithFlavor("goja").
		WithArg("type", "*goja.Object")
	arr := event.ToArray()
	assert.Equal(t, []any{
		"component", DecodeComponent,
		"type", DecodeEventType,
		"flavor", "goja",
		"type", "*goja.Object",
	}, arr)
}

func TestEvent_WithArgDoesNotAlias(t *testing.T) {
	base := NewEvent(GenericEventType, LanguageComponent).WithArg("a", 1)
	derived := base.WithArg("b", 2)
	assert.Len(t, base.Args, 1)
	assert.Len(t, derived.Args, 2)
}
