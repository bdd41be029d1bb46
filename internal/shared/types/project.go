package types

// Project is the full multi-page document being edited.
// Invariant: len(Pages) >= 1 for every project produced by the rehydrator or the document store.
type Project struct {
	Pages       []Page `json:"pages"`
	EntryPageID string `json:"entryPageId"`
}

// Page is one route's ordered list of component instances.
// The first page of a project is the site root regardless of its slug.
type Page struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	Components []ComponentInstance `json:"components"`
}

// ComponentInstance is one placed occurrence of a catalog block plus its local text overrides.
type ComponentInstance struct {
	ID            string                  `json:"id"`
	BlockID       string                  `json:"blockId"`
	TextOverrides map[string]TextOverride `json:"textOverrides"`
}

// TextOverride replaces a block's default text for a single node of one instance.
// Original is the first observed baseline; Value is what the user sees.
type TextOverride struct {
	Original string `json:"original"`
	Value    string `json:"value"`
}

// Edited reports whether the user has diverged from the baseline.
func (o TextOverride) Edited() bool {
	return o.Value != o.Original
}

// PageIndex returns the index of the page with the given id, or -1.
func (p Project) PageIndex(pageID string) int {
	for i := range p.Pages {
		if p.Pages[i].ID == pageID {
			return i
		}
	}
	return -1
}

// Page looks up a page by id.
func (p Project) Page(pageID string) (Page, bool) {
	if i := p.PageIndex(pageID); i >= 0 {
		return p.Pages[i], true
	}
	return Page{}, false
}

// EntryPage returns the page named by EntryPageID, falling back to the first page.
func (p Project) EntryPage() (Page, bool) {
	if pg, ok := p.Page(p.EntryPageID); ok {
		return pg, true
	}
	if len(p.Pages) > 0 {
		return p.Pages[0], true
	}
	return Page{}, false
}

// Slugs returns the set of slugs in use, skipping the page with id except (if any).
func (p Project) Slugs(except string) map[string]struct{} {
	out := make(map[string]struct{}, len(p.Pages))
	for _, pg := range p.Pages {
		if pg.ID == except {
			continue
		}
		out[pg.Slug] = struct{}{}
	}
	return out
}

// ComponentIndex returns the index of a component within the page, or -1.
func (pg Page) ComponentIndex(componentID string) int {
	for i := range pg.Components {
		if pg.Components[i].ID == componentID {
			return i
		}
	}
	return -1
}
