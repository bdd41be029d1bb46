package document

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/rehydrate"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/id"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/slug"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// Listener is called with the new snapshot after every change.
type Listener func(types.Project)

// Store owns one project and the active page selection
type Store struct {
	mu        sync.RWMutex
	project   types.Project // Protected by mu
	activeID  string        // Protected by mu
	blocks    registry.Lookup
	logger    *zap.Logger
	listeners map[int]Listener // Protected by mu
	nextSub   int              // Protected by mu
}

// NewStore creates a store holding project. A project without pages is
// replaced by the single-page fallback; duplicate slugs and ids are repaired.
func NewStore(project types.Project, blocks registry.Lookup, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		blocks:    blocks,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
	s.project, s.activeID = normalize(project)
	return s
}

// Project returns the current snapshot
func (s *Store) Project() types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

// ActivePageID returns the active page, falling back to the first page when
// the selection no longer exists.
func (s *Store) ActivePageID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

// ActivePage returns the active page
func (s *Store) ActivePage() (types.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Page(s.activeLocked())
}

// Subscribe registers fn for change notifications and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.listeners[key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, key)
		s.mu.Unlock()
	}
}

// Replace swaps in a whole project (load). The entry page becomes active.
func (s *Store) Replace(project types.Project) types.Project {
	s.mu.Lock()
	s.project, s.activeID = normalize(project)
	s.logger.Debug("Project replaced", zap.Int("pages", len(s.project.Pages)))
	return s.commitLocked()
}

// AddPage appends a page with a slug unique in the project and selects it
func (s *Store) AddPage(name string) (types.Project, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	if name == "" {
		p := s.project
		s.mu.Unlock()
		return p, ErrBlankName
	}

	page := types.Page{
		ID:         id.NewPageID().String(),
		Name:       name,
		Slug:       slug.Unique(slug.Slugify(name), s.project.Slugs("")),
		Components: []types.ComponentInstance{},
	}

	pages := make([]types.Page, len(s.project.Pages), len(s.project.Pages)+1)
	copy(pages, s.project.Pages)
	s.project.Pages = append(pages, page)
	s.activeID = page.ID

	s.logger.Debug("Page added", zap.String("page_id", page.ID), zap.String("slug", page.Slug))
	return s.commitLocked(), nil
}

// RenamePage renames a page and regenerates its slug against the other pages.
// An unchanged name or an unknown page is a no-op.
func (s *Store) RenamePage(pageID, name string) (types.Project, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	i := s.project.PageIndex(pageID)
	if name == "" {
		p := s.project
		s.mu.Unlock()
		return p, ErrBlankName
	}
	if i < 0 || s.project.Pages[i].Name == name {
		p := s.project
		s.mu.Unlock()
		return p, nil
	}

	pages := clonePages(s.project.Pages)
	pages[i].Name = name
	pages[i].Slug = slug.Unique(slug.Slugify(name), s.project.Slugs(pageID))
	s.project.Pages = pages

	return s.commitLocked(), nil
}

// DeletePage removes a page. The last remaining page cannot be removed.
func (s *Store) DeletePage(pageID string) (types.Project, error) {
	s.mu.Lock()
	i := s.project.PageIndex(pageID)
	if i < 0 {
		p := s.project
		s.mu.Unlock()
		return p, nil
	}
	if len(s.project.Pages) == 1 {
		p := s.project
		s.mu.Unlock()
		return p, ErrLastPage
	}

	pages := make([]types.Page, 0, len(s.project.Pages)-1)
	pages = append(pages, s.project.Pages[:i]...)
	pages = append(pages, s.project.Pages[i+1:]...)
	s.project.Pages = pages

	if s.project.EntryPageID == pageID {
		s.project.EntryPageID = pages[0].ID
	}
	if s.activeID == pageID {
		s.activeID = pages[0].ID
	}

	s.logger.Debug("Page deleted", zap.String("page_id", pageID))
	return s.commitLocked(), nil
}

// SelectPage makes pageID active. Unknown ids leave the selection unchanged.
func (s *Store) SelectPage(pageID string) types.Project {
	s.mu.Lock()
	if s.project.PageIndex(pageID) < 0 || s.activeID == pageID {
		p := s.project
		s.mu.Unlock()
		return p
	}
	s.activeID = pageID
	return s.commitLocked()
}

// AddComponent appends a new instance of blockID to the page
func (s *Store) AddComponent(pageID, blockID string) (types.Project, error) {
	return s.InsertComponentAt(pageID, blockID, -1)
}

// InsertComponentAt places a new instance of blockID before index.
// A negative or past-the-end index appends.
func (s *Store) InsertComponentAt(pageID, blockID string, index int) (types.Project, error) {
	s.mu.Lock()
	if !s.insertable(blockID) {
		p := s.project
		s.mu.Unlock()
		return p, ErrNotInsertable
	}

	i := s.pageIndexOrFirst(pageID)
	pages := clonePages(s.project.Pages)
	comps := pages[i].Components

	if index < 0 || index > len(comps) {
		index = len(comps)
	}

	instance := types.ComponentInstance{
		ID:            id.NewComponentID().String(),
		BlockID:       blockID,
		TextOverrides: map[string]types.TextOverride{},
	}

	next := make([]types.ComponentInstance, 0, len(comps)+1)
	next = append(next, comps[:index]...)
	next = append(next, instance)
	next = append(next, comps[index:]...)
	pages[i].Components = next
	s.project.Pages = pages

	s.logger.Debug("Component inserted",
		zap.String("page_id", pages[i].ID),
		zap.String("block_id", blockID),
		zap.Int("index", index))
	return s.commitLocked(), nil
}

// DeleteComponent removes a component from the page. Unknown ids are a no-op.
func (s *Store) DeleteComponent(pageID, componentID string) types.Project {
	s.mu.Lock()
	i := s.pageIndexOrFirst(pageID)
	c := s.project.Pages[i].ComponentIndex(componentID)
	if c < 0 {
		p := s.project
		s.mu.Unlock()
		return p
	}

	pages := clonePages(s.project.Pages)
	comps := pages[i].Components
	next := make([]types.ComponentInstance, 0, len(comps)-1)
	next = append(next, comps[:c]...)
	next = append(next, comps[c+1:]...)
	pages[i].Components = next
	s.project.Pages = pages

	return s.commitLocked()
}

// ReorderComponent moves the component at from to position to, shifting the
// ones in between. Equal or out-of-range indices are a no-op.
func (s *Store) ReorderComponent(pageID string, from, to int) types.Project {
	s.mu.Lock()
	i := s.pageIndexOrFirst(pageID)
	comps := s.project.Pages[i].Components
	if from == to || from < 0 || to < 0 || from >= len(comps) || to >= len(comps) {
		p := s.project
		s.mu.Unlock()
		return p
	}

	next := make([]types.ComponentInstance, len(comps))
	copy(next, comps)
	moved := next[from]
	if from < to {
		copy(next[from:to], next[from+1:to+1])
	} else {
		copy(next[to+1:from+1], next[to:from])
	}
	next[to] = moved

	pages := clonePages(s.project.Pages)
	pages[i].Components = next
	s.project.Pages = pages

	return s.commitLocked()
}

// FindComponent locates a component on any page
func (s *Store) FindComponent(componentID string) (pageID string, index int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pg := range s.project.Pages {
		if c := pg.ComponentIndex(componentID); c >= 0 {
			return pg.ID, c, true
		}
	}
	return "", -1, false
}

// TextOverride returns the override stored for one node of a component
func (s *Store) TextOverride(componentID, nodeKey string) (types.TextOverride, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pg := range s.project.Pages {
		if c := pg.ComponentIndex(componentID); c >= 0 {
			o, ok := pg.Components[c].TextOverrides[nodeKey]
			return o, ok
		}
	}
	return types.TextOverride{}, false
}

// PutTextOverride stores the override for one node of a component
func (s *Store) PutTextOverride(componentID, nodeKey string, o types.TextOverride) (types.Project, error) {
	s.mu.Lock()
	for i, pg := range s.project.Pages {
		c := pg.ComponentIndex(componentID)
		if c < 0 {
			continue
		}

		overrides := make(map[string]types.TextOverride, len(pg.Components[c].TextOverrides)+1)
		for k, v := range pg.Components[c].TextOverrides {
			overrides[k] = v
		}
		overrides[nodeKey] = o

		comps := make([]types.ComponentInstance, len(pg.Components))
		copy(comps, pg.Components)
		comps[c].TextOverrides = overrides

		pages := clonePages(s.project.Pages)
		pages[i].Components = comps
		s.project.Pages = pages

		return s.commitLocked(), nil
	}
	p := s.project
	s.mu.Unlock()
	return p, ErrComponentNotFound
}

// commitLocked releases mu and notifies listeners with the new snapshot.
func (s *Store) commitLocked() types.Project {
	p := s.project
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return p
}

func (s *Store) activeLocked() string {
	if s.project.PageIndex(s.activeID) >= 0 {
		return s.activeID
	}
	if len(s.project.Pages) > 0 {
		return s.project.Pages[0].ID
	}
	return ""
}

func (s *Store) pageIndexOrFirst(pageID string) int {
	if i := s.project.PageIndex(pageID); i >= 0 {
		return i
	}
	return 0
}

func (s *Store) insertable(blockID string) bool {
	if s.blocks == nil {
		return false
	}
	b, ok := s.blocks.ByID(blockID)
	return ok && registry.IsInsertable(b)
}

// clonePages copies the page slice so that edits to one page header or its
// component slice header never reach an earlier snapshot.
func clonePages(pages []types.Page) []types.Page {
	out := make([]types.Page, len(pages))
	copy(out, pages)
	return out
}

// normalize enforces the identity invariants on a project handed in from
// outside: unique non-empty page ids, unique slugs, unique component ids.
// The caller's slices are never written.
func normalize(project types.Project) (types.Project, string) {
	if len(project.Pages) == 0 {
		project = rehydrate.Fallback()
	}

	pages := clonePages(project.Pages)
	slugs := make(map[string]struct{}, len(pages))
	pageIDs := make(map[string]struct{}, len(pages))
	componentIDs := make(map[string]struct{})
	for i := range pages {
		pg := &pages[i]
		if _, dup := pageIDs[pg.ID]; pg.ID == "" || dup {
			pg.ID = id.NewPageID().String()
		}
		pageIDs[pg.ID] = struct{}{}

		base := pg.Slug
		if strings.TrimSpace(base) == "" {
			base = pg.Name
		}
		pg.Slug = slug.Unique(slug.Slugify(base), slugs)
		slugs[pg.Slug] = struct{}{}

		copied := false
		for j := range pg.Components {
			cid := pg.Components[j].ID
			if _, dup := componentIDs[cid]; cid == "" || dup {
				if !copied {
					pg.Components = append([]types.ComponentInstance(nil), pg.Components...)
					copied = true
				}
				pg.Components[j].ID = id.NewComponentID().String()
			}
			componentIDs[pg.Components[j].ID] = struct{}{}
		}
	}
	project.Pages = pages

	entry, _ := project.EntryPage()
	project.EntryPageID = entry.ID
	return project, entry.ID
}
