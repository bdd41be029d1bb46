package overrides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/document"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

func setup(t *testing.T) (*document.Store, *Tracker, string) {
	t.Helper()
	m := registry.NewManager()
	require.NoError(t, m.Register(&types.Block{ID: "hero", Category: types.CategoryBlock}))

	store := document.NewStore(types.Project{}, m, nil)
	p, err := store.AddComponent(store.ActivePageID(), "hero")
	require.NoError(t, err)

	tracker := NewTracker(store, nil)
	t.Cleanup(tracker.Close)
	return store, tracker, p.Pages[0].Components[0].ID
}

func TestRegisterBaselineFirstObservation(t *testing.T) {
	store, tracker, comp := setup(t)

	o, err := tracker.RegisterBaseline(comp, "h1[0]", "Welcome")
	require.NoError(t, err)
	assert.Equal(t, types.TextOverride{Original: "Welcome", Value: "Welcome"}, o)

	stored, ok := store.TextOverride(comp, "h1[0]")
	require.True(t, ok)
	assert.Equal(t, o, stored)
}

func TestUserEditSurvivesRebaseline(t *testing.T) {
	store, tracker, comp := setup(t)

	_, err := tracker.RegisterBaseline(comp, "h1[0]", "Welcome")
	require.NoError(t, err)
	_, err = tracker.SetValue(comp, "h1[0]", "Hello there")
	require.NoError(t, err)
	_, err = tracker.RegisterBaseline(comp, "h1[0]", "Welcome")
	require.NoError(t, err)

	o, _ := store.TextOverride(comp, "h1[0]")
	assert.Equal(t, "Hello there", o.Value)
	assert.Equal(t, "Welcome", o.Original)
}

func TestDriftRebaselinesUneditedOverride(t *testing.T) {
	store, tracker, comp := setup(t)

	_, _ = tracker.RegisterBaseline(comp, "h1[0]", "Welcome")
	o, err := tracker.RegisterBaseline(comp, "h1[0]", "Welcome aboard")
	require.NoError(t, err)

	assert.Equal(t, types.TextOverride{Original: "Welcome aboard", Value: "Welcome aboard"}, o)
	stored, _ := store.TextOverride(comp, "h1[0]")
	assert.Equal(t, o, stored)
}

func TestDriftKeepsEditedOverride(t *testing.T) {
	store, tracker, comp := setup(t)

	_, _ = tracker.RegisterBaseline(comp, "h1[0]", "Welcome")
	_, _ = tracker.SetValue(comp, "h1[0]", "Mine")
	_, err := tracker.RegisterBaseline(comp, "h1[0]", "Welcome aboard")
	require.NoError(t, err)

	stored, _ := store.TextOverride(comp, "h1[0]")
	assert.Equal(t, types.TextOverride{Original: "Welcome", Value: "Mine"}, stored)
}

func TestSetValueSameValueIsNoop(t *testing.T) {
	store, tracker, comp := setup(t)
	_, _ = tracker.RegisterBaseline(comp, "h1[0]", "Welcome")

	changes := 0
	unsubscribe := store.Subscribe(func(types.Project) { changes++ })
	defer unsubscribe()

	_, err := tracker.SetValue(comp, "h1[0]", "Welcome")
	require.NoError(t, err)
	assert.Equal(t, 0, changes)

	_, err = tracker.SetValue(comp, "h1[0]", "Other")
	require.NoError(t, err)
	assert.Equal(t, 1, changes)
}

func TestSetValueBeforeBaseline(t *testing.T) {
	store, tracker, comp := setup(t)

	_, err := tracker.SetValue(comp, "p[0]", "Typed first")
	require.NoError(t, err)
	_, err = tracker.RegisterBaseline(comp, "p[0]", "Default")
	require.NoError(t, err)

	stored, _ := store.TextOverride(comp, "p[0]")
	assert.Equal(t, types.TextOverride{Original: "Default", Value: "Typed first"}, stored)
}

func TestUnknownComponent(t *testing.T) {
	_, tracker, _ := setup(t)

	_, err := tracker.RegisterBaseline("missing", "h1[0]", "x")
	assert.ErrorIs(t, err, document.ErrComponentNotFound)

	_, err = tracker.SetValue("missing", "h1[0]", "x")
	assert.ErrorIs(t, err, document.ErrComponentNotFound)
}

func TestEditingForcedOffWhenPageEmpties(t *testing.T) {
	store, tracker, comp := setup(t)

	require.NoError(t, tracker.SetEditing(true))
	assert.True(t, tracker.Editing())

	store.DeleteComponent(store.ActivePageID(), comp)
	assert.False(t, tracker.Editing())

	assert.ErrorIs(t, tracker.SetEditing(true), ErrNothingToEdit)
	assert.False(t, tracker.Editing())
	assert.NoError(t, tracker.SetEditing(false))
}

func TestEditingForcedOffWhenSwitchingToEmptyPage(t *testing.T) {
	store, tracker, _ := setup(t)
	require.NoError(t, tracker.SetEditing(true))

	_, err := store.AddPage("Blank")
	require.NoError(t, err)

	assert.False(t, tracker.Editing())
}

func TestTextNodes(t *testing.T) {
	markup := `<section>
		<h1>Build <em>faster</em></h1>
		<p>First   line</p>
		<div><p>Second</p><img src="x.png"></div>
		<a href="#">Go</a>
	</section>`

	nodes, err := TextNodes(markup)
	require.NoError(t, err)

	assert.Equal(t, []TextNode{
		{Key: "h1[0]", Text: "Build"},
		{Key: "em[0]", Text: "faster"},
		{Key: "p[0]", Text: "First line"},
		{Key: "p[1]", Text: "Second"},
		{Key: "a[0]", Text: "Go"},
	}, nodes)
}

func TestObserveMarkup(t *testing.T) {
	store, tracker, comp := setup(t)

	n, err := tracker.ObserveMarkup(comp, `<h1>Hi</h1><p>There</p>`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	o, ok := store.TextOverride(comp, "p[0]")
	require.True(t, ok)
	assert.Equal(t, "There", o.Original)
}
