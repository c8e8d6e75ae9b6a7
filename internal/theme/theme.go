// Package theme holds the light/dark preference and its storage lifecycle.
package theme

import "fmt"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// Key is the storage key the preference is persisted under.
	Key = "theme"

	Default = Dark
)

// Parse returns the stored theme, falling back to Default for anything that
// is not exactly "light" or "dark".
func Parse(value string) Theme {
	switch Theme(value) {
	case Light, Dark:
		return Theme(value)
	default:
		return Default
	}
}

func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Store is a durable key/value store local to one client.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Preference is initialized once from its store and writes back on change.
type Preference struct {
	store   Store
	current Theme
}

func Load(store Store) *Preference {
	p := &Preference{store: store, current: Default}
	if value, ok := store.Get(Key); ok {
		p.current = Parse(value)
	}
	return p
}

func (p *Preference) Current() Theme {
	return p.current
}

func (p *Preference) Set(t Theme) error {
	if t != Light && t != Dark {
		return fmt.Errorf("unknown theme %q", t)
	}
	p.current = t
	return p.store.Set(Key, string(t))
}

func (p *Preference) Toggle() (Theme, error) {
	next := p.current.Toggle()
	if err := p.Set(next); err != nil {
		return p.current, err
	}
	return next, nil
}

// MapStore is an in-memory Store.
type MapStore map[string]string

func (m MapStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStore) Set(key, value string) error {
	m[key] = value
	return nil
}
