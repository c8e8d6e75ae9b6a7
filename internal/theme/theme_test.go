package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
	}{
		{"light", Light},
		{"dark", Dark},
		{"", Dark},
		{"Light", Dark},
		{"solarized", Dark},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestLoadDefaultsToDark(t *testing.T) {
	p := Load(MapStore{})
	assert.Equal(t, Dark, p.Current())

	p = Load(MapStore{Key: "neon"})
	assert.Equal(t, Dark, p.Current())
}

func TestToggleIsIdempotentUnderDoubleApplication(t *testing.T) {
	store := MapStore{Key: "light"}
	p := Load(store)
	require.Equal(t, Light, p.Current())

	next, err := p.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, next)
	assert.Equal(t, "dark", store[Key])

	next, err = p.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, next)
	assert.Equal(t, "light", store[Key])
}

func TestPersistsAcrossReload(t *testing.T) {
	store := MapStore{}
	_, err := Load(store).Toggle()
	require.NoError(t, err)

	reloaded := Load(store)
	assert.Equal(t, Light, reloaded.Current())
	assert.Equal(t, "light", store[Key], "stored value is read back verbatim")
}

func TestSetRejectsUnknownTheme(t *testing.T) {
	store := MapStore{}
	p := Load(store)
	assert.Error(t, p.Set(Theme("blue")))
	_, written := store[Key]
	assert.False(t, written)
}
