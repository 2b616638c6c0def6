package theme

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(NewLightYourCity())

	m, ok := r.Get("light-your-city")
	require.True(t, ok)
	assert.Equal(t, "Light Your City", m.Name())

	_, ok = r.Get("no-such-theme")
	assert.False(t, ok)
	assert.True(t, r.Has("light-your-city"))
	assert.False(t, r.Has("no-such-theme"))
}

func TestRegistryReRegisterOverwrites(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	first := NewLightYourCity()
	second := NewLightYourCity()
	second.cfg.WinTarget = 80

	r.Register(first)
	r.Register(second)

	m, ok := r.Get("light-your-city")
	require.True(t, ok)
	assert.Equal(t, 80.0, m.Config().WinTarget)
	assert.Len(t, r.List(), 1)
}

func TestRegistryListIsSorted(t *testing.T) {
	r := NewDefaultRegistry(zerolog.Nop())
	assert.Equal(t, []string{"light-your-city", "rocket-race"}, r.List())
}

func TestRegistryClear(t *testing.T) {
	r := NewDefaultRegistry(zerolog.Nop())
	r.Clear()
	assert.Empty(t, r.List())
	assert.False(t, r.Has("rocket-race"))
}
