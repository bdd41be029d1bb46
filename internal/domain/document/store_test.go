package document

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

func newCatalog(t *testing.T) *registry.Manager {
	t.Helper()
	m := registry.NewManager()
	require.NoError(t, m.Register(&types.Block{ID: "hero", Category: types.CategoryBlock}))
	require.NoError(t, m.Register(&types.Block{ID: "cta", Category: types.CategoryBlock}))
	require.NoError(t, m.Register(&types.Block{ID: "button", Category: types.CategoryElement}))
	return m
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(types.Project{}, newCatalog(t), nil)
}

func blockIDs(pg types.Page) []string {
	out := make([]string, len(pg.Components))
	for i, c := range pg.Components {
		out[i] = c.BlockID
	}
	return out
}

func assertDistinctSlugs(t *testing.T, p types.Project) {
	t.Helper()
	seen := make(map[string]bool, len(p.Pages))
	for _, pg := range p.Pages {
		assert.False(t, seen[pg.Slug], "duplicate slug %q", pg.Slug)
		seen[pg.Slug] = true
	}
}

func TestNewStoreFallsBackToLanding(t *testing.T) {
	s := newStore(t)

	p := s.Project()
	require.Len(t, p.Pages, 1)
	assert.Equal(t, "landing", p.Pages[0].Slug)
	assert.Equal(t, p.Pages[0].ID, s.ActivePageID())
	assert.Equal(t, p.Pages[0].ID, p.EntryPageID)
}

func TestAddPage(t *testing.T) {
	s := newStore(t)

	p, err := s.AddPage("  About Us ")
	require.NoError(t, err)
	require.Len(t, p.Pages, 2)
	assert.Equal(t, "About Us", p.Pages[1].Name)
	assert.Equal(t, "about-us", p.Pages[1].Slug)
	assert.Equal(t, p.Pages[1].ID, s.ActivePageID())

	p, err = s.AddPage("about us")
	require.NoError(t, err)
	assert.Equal(t, "about-us-2", p.Pages[2].Slug)
}

func TestAddPageBlankIsNoop(t *testing.T) {
	s := newStore(t)
	before := s.Project()

	p, err := s.AddPage("  ")

	assert.ErrorIs(t, err, ErrBlankName)
	assert.Len(t, p.Pages, 1)
	assert.Empty(t, cmp.Diff(before, s.Project()))
}

func TestRenamePage(t *testing.T) {
	s := newStore(t)
	p, _ := s.AddPage("About")
	about := p.Pages[1].ID
	_, _ = s.AddPage("Contact")

	p, err := s.RenamePage(about, "Contact")
	require.NoError(t, err)
	assert.Equal(t, "contact-2", p.Pages[1].Slug)

	// Own slug does not count as a collision
	p, err = s.RenamePage(about, "contact 2")
	require.NoError(t, err)
	assert.Equal(t, "contact-2", p.Pages[1].Slug)
	assertDistinctSlugs(t, p)
}

func TestRenamePageNoops(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()
	before := s.Project()

	p, err := s.RenamePage(pageID, "   ")
	assert.ErrorIs(t, err, ErrBlankName)
	assert.Empty(t, cmp.Diff(before, p))

	p, err = s.RenamePage(pageID, "Landing")
	assert.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, p))

	p, err = s.RenamePage("missing", "Other")
	assert.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, p))
}

func TestDeleteLastPageRejected(t *testing.T) {
	s := newStore(t)
	before := s.Project()

	p, err := s.DeletePage(s.ActivePageID())

	assert.ErrorIs(t, err, ErrLastPage)
	assert.Empty(t, cmp.Diff(before, p))
}

func TestDeleteActivePageSelectsFirst(t *testing.T) {
	s := newStore(t)
	first := s.ActivePageID()
	p, _ := s.AddPage("Second")
	second := p.Pages[1].ID
	require.Equal(t, second, s.ActivePageID())

	p, err := s.DeletePage(second)
	require.NoError(t, err)
	assert.Len(t, p.Pages, 1)
	assert.Equal(t, first, s.ActivePageID())
}

func TestDeleteEntryPageMovesEntry(t *testing.T) {
	s := newStore(t)
	first := s.ActivePageID()
	p, _ := s.AddPage("Second")
	second := p.Pages[1].ID

	p, err := s.DeletePage(first)
	require.NoError(t, err)
	assert.Equal(t, second, p.EntryPageID)
	assert.Equal(t, second, s.ActivePageID())
}

func TestPageCountNeverDropsBelowOne(t *testing.T) {
	s := newStore(t)
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 500; step++ {
		var p types.Project
		if rng.Intn(2) == 0 {
			p, _ = s.AddPage("Page")
		} else {
			pages := s.Project().Pages
			p, _ = s.DeletePage(pages[rng.Intn(len(pages))].ID)
		}
		require.GreaterOrEqual(t, len(p.Pages), 1, "step %d", step)
		assertDistinctSlugs(t, p)
		_, ok := s.ActivePage()
		require.True(t, ok)
	}
}

func TestSelectPage(t *testing.T) {
	s := newStore(t)
	first := s.ActivePageID()
	_, _ = s.AddPage("Second")

	s.SelectPage(first)
	assert.Equal(t, first, s.ActivePageID())

	s.SelectPage("missing")
	assert.Equal(t, first, s.ActivePageID())
}

func TestAddComponent(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()

	p, err := s.AddComponent(pageID, "hero")
	require.NoError(t, err)
	p, err = s.AddComponent(pageID, "cta")
	require.NoError(t, err)

	assert.Equal(t, []string{"hero", "cta"}, blockIDs(p.Pages[0]))
	assert.NotEmpty(t, p.Pages[0].Components[0].ID)
	assert.NotNil(t, p.Pages[0].Components[0].TextOverrides)
	assert.Empty(t, p.Pages[0].Components[0].TextOverrides)
}

func TestAddComponentRejectsNonInsertable(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()

	for _, blockID := range []string{"button", "unknown"} {
		p, err := s.AddComponent(pageID, blockID)
		assert.ErrorIs(t, err, ErrNotInsertable)
		assert.Empty(t, p.Pages[0].Components)
	}
}

func TestAddComponentUnknownPageFallsBackToFirst(t *testing.T) {
	s := newStore(t)
	_, _ = s.AddPage("Second")

	p, err := s.AddComponent("gone", "hero")
	require.NoError(t, err)
	assert.Len(t, p.Pages[0].Components, 1)
	assert.Empty(t, p.Pages[1].Components)
}

func TestInsertComponentAt(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()
	_, _ = s.AddComponent(pageID, "hero")
	_, _ = s.AddComponent(pageID, "hero")

	p, err := s.InsertComponentAt(pageID, "cta", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "cta", "hero"}, blockIDs(p.Pages[0]))

	p, err = s.InsertComponentAt(pageID, "cta", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"cta", "hero", "cta", "hero"}, blockIDs(p.Pages[0]))

	p, err = s.InsertComponentAt(pageID, "cta", 99)
	require.NoError(t, err)
	assert.Equal(t, "cta", p.Pages[0].Components[4].BlockID)

	_, err = s.InsertComponentAt(pageID, "button", 0)
	assert.ErrorIs(t, err, ErrNotInsertable)
}

func TestDeleteComponent(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()
	p, _ := s.AddComponent(pageID, "hero")
	p, _ = s.AddComponent(pageID, "cta")
	heroID := p.Pages[0].Components[0].ID

	p = s.DeleteComponent(pageID, heroID)
	assert.Equal(t, []string{"cta"}, blockIDs(p.Pages[0]))

	before := p
	p = s.DeleteComponent(pageID, "missing")
	assert.Empty(t, cmp.Diff(before, p))
}

func TestReorderComponent(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"adjacent", 1, 2, []string{"a", "c", "b", "d"}},
		{"out of range", 0, 9, []string{"a", "b", "c", "d"}},
		{"negative", -1, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := registry.NewManager()
			for _, b := range []string{"a", "b", "c", "d"} {
				require.NoError(t, m.Register(&types.Block{ID: b, Category: types.CategoryBlock}))
			}
			s := NewStore(types.Project{}, m, nil)
			pageID := s.ActivePageID()
			for _, b := range []string{"a", "b", "c", "d"} {
				_, err := s.AddComponent(pageID, b)
				require.NoError(t, err)
			}

			p := s.ReorderComponent(pageID, tt.from, tt.to)
			assert.Equal(t, tt.want, blockIDs(p.Pages[0]))
		})
	}
}

func TestReorderSameIndexIsNoop(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()
	_, _ = s.AddComponent(pageID, "hero")
	before, _ := s.AddComponent(pageID, "cta")

	after := s.ReorderComponent(pageID, 1, 1)

	assert.Same(t, &before.Pages[0], &after.Pages[0])
	assert.Empty(t, cmp.Diff(before, after))
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := newStore(t)
	pageID := s.ActivePageID()
	_, _ = s.AddComponent(pageID, "hero")
	p, _ := s.AddComponent(pageID, "cta")
	heroID := p.Pages[0].Components[0].ID
	_, err := s.PutTextOverride(heroID, "h1[0]", types.TextOverride{Original: "Hi", Value: "Hi"})
	require.NoError(t, err)

	snapshot := s.Project()
	frozen := cmp.Diff(types.Project{}, snapshot)

	_, _ = s.AddPage("Second")
	_, _ = s.RenamePage(pageID, "Renamed")
	_, _ = s.InsertComponentAt(pageID, "hero", 0)
	s.ReorderComponent(pageID, 0, 2)
	s.DeleteComponent(pageID, heroID)
	_, _ = s.PutTextOverride(p.Pages[0].Components[1].ID, "h1[0]", types.TextOverride{Original: "A", Value: "B"})

	assert.Equal(t, frozen, cmp.Diff(types.Project{}, snapshot))
	assert.Equal(t, "Landing", snapshot.Pages[0].Name)
	assert.Equal(t, []string{"hero", "cta"}, blockIDs(snapshot.Pages[0]))
	assert.Equal(t, "Hi", snapshot.Pages[0].Components[0].TextOverrides["h1[0]"].Value)
}

func TestTextOverrides(t *testing.T) {
	s := newStore(t)
	p, _ := s.AddComponent(s.ActivePageID(), "hero")
	compID := p.Pages[0].Components[0].ID

	_, ok := s.TextOverride(compID, "h1[0]")
	assert.False(t, ok)

	_, err := s.PutTextOverride(compID, "h1[0]", types.TextOverride{Original: "Hi", Value: "Hello"})
	require.NoError(t, err)

	o, ok := s.TextOverride(compID, "h1[0]")
	require.True(t, ok)
	assert.Equal(t, types.TextOverride{Original: "Hi", Value: "Hello"}, o)

	_, err = s.PutTextOverride("missing", "h1[0]", o)
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestFindComponent(t *testing.T) {
	s := newStore(t)
	p, _ := s.AddPage("Second")
	second := p.Pages[1].ID
	_, _ = s.AddComponent(second, "hero")
	p, _ = s.AddComponent(second, "cta")

	pageID, index, ok := s.FindComponent(p.Pages[1].Components[1].ID)
	require.True(t, ok)
	assert.Equal(t, second, pageID)
	assert.Equal(t, 1, index)

	_, _, ok = s.FindComponent("missing")
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	s := newStore(t)
	var seen []int
	unsubscribe := s.Subscribe(func(p types.Project) {
		seen = append(seen, len(p.Pages))
	})

	_, _ = s.AddPage("Two")
	_, _ = s.AddPage(" ")
	_, _ = s.AddPage("Three")
	unsubscribe()
	_, _ = s.AddPage("Four")

	assert.Equal(t, []int{2, 3}, seen)
}

func TestReplace(t *testing.T) {
	s := newStore(t)
	_, _ = s.AddPage("Old")

	p := s.Replace(types.Project{
		Pages: []types.Page{
			{ID: "a", Name: "A", Slug: "a"},
			{ID: "b", Name: "B", Slug: "b"},
		},
		EntryPageID: "b",
	})

	assert.Len(t, p.Pages, 2)
	assert.Equal(t, "b", s.ActivePageID())

	p = s.Replace(types.Project{})
	require.Len(t, p.Pages, 1)
	assert.Equal(t, p.Pages[0].ID, s.ActivePageID())
}

func TestReplaceRestoresIdentityInvariants(t *testing.T) {
	in := types.Project{
		Pages: []types.Page{
			{ID: "a", Name: "Home", Slug: "home", Components: []types.ComponentInstance{{ID: "c1", BlockID: "hero"}}},
			{ID: "a", Name: "Home", Slug: "home", Components: []types.ComponentInstance{{ID: "c1", BlockID: "cta"}}},
			{ID: "", Name: "About Us", Slug: ""},
		},
	}

	s := NewStore(in, newCatalog(t), nil)
	p := s.Project()

	require.Len(t, p.Pages, 3)
	assertDistinctSlugs(t, p)
	assert.Equal(t, []string{"home", "home-2", "about-us"}, []string{p.Pages[0].Slug, p.Pages[1].Slug, p.Pages[2].Slug})

	assert.Equal(t, "a", p.Pages[0].ID)
	assert.NotEqual(t, "a", p.Pages[1].ID)
	assert.NotEmpty(t, p.Pages[2].ID)

	assert.Equal(t, "c1", p.Pages[0].Components[0].ID)
	assert.NotEqual(t, "c1", p.Pages[1].Components[0].ID)
	pageID, index, ok := s.FindComponent(p.Pages[1].Components[0].ID)
	require.True(t, ok)
	assert.Equal(t, p.Pages[1].ID, pageID)
	assert.Equal(t, 0, index)

	// The caller's project is left untouched
	assert.Equal(t, "home", in.Pages[1].Slug)
	assert.Equal(t, "c1", in.Pages[1].Components[0].ID)

	p = s.Replace(types.Project{Pages: []types.Page{{ID: "x", Slug: "home"}, {ID: "y", Slug: "home"}}})
	assertDistinctSlugs(t, p)
}
