package core

import "time"

// Clock abstracts wall-clock access so tests can pin operation timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface. A nil function
// falls back to time.Now. Returned times are normalized to UTC.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}

type rulesEngineProvider interface {
	RulesEngine() *RulesEngine
}

type nowFuncProvider interface {
	NowFunc() func() time.Time
}

type nowFuncSetter interface {
	SetNowFunc(func() time.Time)
}

// extractRulesEngine returns the engine wired into the store when the backend
// exposes one, so the service and the store always evaluate the same rules.
func extractRulesEngine(store PersistentStore) *RulesEngine {
	if provider, ok := store.(rulesEngineProvider); ok {
		return provider.RulesEngine()
	}
	return nil
}

// selectNowFunc resolves the clock shared by the service and its store. An
// explicit clock wins and is pushed into the store so persisted timestamps and
// event timestamps come from the same source; otherwise the store's own clock
// is adopted.
func selectNowFunc(store PersistentStore, clock Clock) func() time.Time {
	if clock != nil {
		fn := func() time.Time { return clock.Now().UTC() }
		if setter, ok := store.(nowFuncSetter); ok {
			setter.SetNowFunc(fn)
		}
		return fn
	}
	if provider, ok := store.(nowFuncProvider); ok {
		if fn := provider.NowFunc(); fn != nil {
			return func() time.Time { return fn().UTC() }
		}
	}
	return func() time.Time { return time.Now().UTC() }
}
