package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/document"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/drag"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

func TestEditingBlocksDrag(t *testing.T) {
	w := New(types.Project{}, registry.NewDefaultManager(), nil)
	defer w.Close()

	page := w.Store.ActivePageID()
	_, err := w.Store.AddComponent(page, "hero-simple")
	require.NoError(t, err)
	require.NoError(t, w.Overrides.SetEditing(true))

	assert.ErrorIs(t, w.Drag.Start(drag.PaletteSource("cta-banner")), drag.ErrEditing)

	require.NoError(t, w.Overrides.SetEditing(false))
	require.NoError(t, w.Drag.Start(drag.PaletteSource("cta-banner")))
	outcome, err := w.Drag.Drop(drag.SurfaceTarget(page))
	require.NoError(t, err)
	assert.Equal(t, drag.OutcomeAppended, outcome)
}

func TestLoadResetsTransientState(t *testing.T) {
	w := New(types.Project{}, registry.NewDefaultManager(), nil)
	defer w.Close()

	_, err := w.Store.AddComponent(w.Store.ActivePageID(), "hero-simple")
	require.NoError(t, err)
	require.NoError(t, w.Drag.Start(drag.PaletteSource("cta-banner")))

	p := w.Load(types.Project{Pages: []types.Page{{
		ID:   "p1",
		Name: "Home",
		Slug: "home",
		Components: []types.ComponentInstance{
			{ID: "c1", BlockID: "hero-simple", TextOverrides: map[string]types.TextOverride{}},
		},
	}}})

	assert.Equal(t, "p1", p.EntryPageID)
	assert.Equal(t, "p1", w.Store.ActivePageID())
	_, dragging := w.Drag.Dragging()
	assert.False(t, dragging)
	assert.False(t, w.Overrides.Editing())
	assert.Equal(t, p, w.Snapshot())
}

func TestObserveBlock(t *testing.T) {
	w := New(types.Project{}, registry.NewDefaultManager(), nil)
	defer w.Close()

	p, err := w.Store.AddComponent(w.Store.ActivePageID(), "hero-simple")
	require.NoError(t, err)
	comp := p.Pages[0].Components[0].ID

	n, err := w.ObserveBlock(comp)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	o, ok := w.Store.TextOverride(comp, "h1[0]")
	require.True(t, ok)
	assert.False(t, o.Edited())

	_, err = w.ObserveBlock("missing")
	assert.ErrorIs(t, err, document.ErrComponentNotFound)
}
