package inventory

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/steam-inventory-client/pkg/steamid"
)

// Level classifies an advisory log event.
type Level string

const (
	// LevelDebug reports request progress.
	LevelDebug Level = "debug"

	// LevelError reports a failed attempt.
	LevelError Level = "error"

	// LevelStack carries the raw transport error of a failed attempt.
	LevelStack Level = "stack"
)

// Event is an advisory notification about fetch progress.
type Event struct {
	Level   Level
	Message string
	SteamID steamid.ID
	FetchID string
}

// Observer receives events. Observers must not block; they never influence the fetch.
type Observer func(Event)

type observers struct {
	mu   sync.RWMutex
	list []Observer
}

func (o *observers) add(fn Observer) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.list = append(o.list, fn)
	o.mu.Unlock()
}

func (o *observers) snapshot() []Observer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]Observer(nil), o.list...)
}

// OnLog registers an observer for advisory events.
func (a *API) OnLog(fn Observer) {
	a.observers.add(fn)
}

// emit mirrors the event to the fetch logger and fans it out to observers.
func (a *API) emit(logger zerolog.Logger, ev Event) {
	var logEvent *zerolog.Event
	switch ev.Level {
	case LevelError:
		logEvent = logger.Warn()
	default:
		logEvent = logger.Debug()
	}
	logEvent.Str("event", string(ev.Level)).Msg(ev.Message)

	for _, fn := range a.observers.snapshot() {
		a.notify(logger, fn, ev)
	}
}

func (a *API) notify(logger zerolog.Logger, fn Observer, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Log observer panicked")
		}
	}()
	fn(ev)
}
