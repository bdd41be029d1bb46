// Package rehydrate normalizes persisted documents into the canonical Project shape.
//
// Accepted inputs:
//   - Current schema: {pages: [{id, name, slug, components: [{id, blockId, textOverrides}]}], entryPageId, savedAt}
//   - Legacy single page: {components: [...], code: "...", savedAt} without a pages field
//   - Anything else: degrades to a single empty "Landing" page
//
// Rehydration never fails. Components whose block id the registry no longer
// recognizes are dropped, and every output has at least one page. Nothing else
// in the core branches on raw persisted shapes.
package rehydrate

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/id"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/slug"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// LandingName is the name given to the first page when none is stored,
// and to the page synthesized from a legacy document.
const LandingName = "Landing"

// legacyBlockKeys are the component fields older snapshots used for the block reference.
var legacyBlockKeys = []string{"blockId", "componentId", "type"}

// Rehydrate decodes raw JSON and normalizes it. Decode errors yield the fallback project.
func Rehydrate(raw []byte, blocks registry.Lookup) types.Project {
	var doc interface{}
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		doc = nil
	}
	return FromValue(doc, blocks)
}

// FromValue normalizes an already-decoded document (maps, slices and scalars as produced by a JSON decoder).
func FromValue(doc interface{}, blocks registry.Lookup) types.Project {
	obj, _ := doc.(map[string]interface{})

	rawPages, _ := obj["pages"].([]interface{})
	if len(rawPages) == 0 {
		// Legacy: one flat component list, possibly alongside a single code string
		rawPages = []interface{}{map[string]interface{}{
			"name":       LandingName,
			"components": obj["components"],
		}}
	}

	project := types.Project{Pages: make([]types.Page, 0, len(rawPages))}
	assigned := make(map[string]struct{}, len(rawPages))
	seenIDs := make(map[string]struct{}, len(rawPages))
	seenComponents := make(map[string]struct{})

	for i, rp := range rawPages {
		page := resolvePage(i, rp, assigned, seenIDs, seenComponents, blocks)
		assigned[page.Slug] = struct{}{}
		seenIDs[page.ID] = struct{}{}
		project.Pages = append(project.Pages, page)
	}

	entry := stringField(obj, "entryPageId")
	if project.PageIndex(entry) >= 0 {
		project.EntryPageID = entry
	} else {
		project.EntryPageID = project.Pages[0].ID
	}
	return project
}

// Fallback returns the single-page project used when nothing usable was stored.
func Fallback() types.Project {
	return FromValue(nil, nil)
}

func resolvePage(index int, raw interface{}, assigned, seenIDs, seenComponents map[string]struct{}, blocks registry.Lookup) types.Page {
	obj, _ := raw.(map[string]interface{})

	name := strings.TrimSpace(stringField(obj, "name"))
	if name == "" {
		if index == 0 {
			name = LandingName
		} else {
			name = fmt.Sprintf("Page %d", index+1)
		}
	}

	base := strings.TrimSpace(stringField(obj, "slug"))
	if base == "" {
		base = name
	}

	pageID := stringField(obj, "id")
	if _, dup := seenIDs[pageID]; pageID == "" || dup {
		pageID = id.NewPageID().String()
	}

	page := types.Page{
		ID:         pageID,
		Name:       name,
		Slug:       slug.Unique(slug.Slugify(base), assigned),
		Components: []types.ComponentInstance{},
	}

	rawComponents, _ := obj["components"].([]interface{})
	for _, rc := range rawComponents {
		if c, ok := resolveComponent(rc, seenComponents, blocks); ok {
			seenComponents[c.ID] = struct{}{}
			page.Components = append(page.Components, c)
		}
	}
	return page
}

// resolveComponent gives a component a fresh id when its stored one is blank or already
// taken anywhere in the project, so lookups by component id stay unambiguous.
func resolveComponent(raw interface{}, seen map[string]struct{}, blocks registry.Lookup) (types.ComponentInstance, bool) {
	var (
		obj     map[string]interface{}
		blockID string
	)
	switch v := raw.(type) {
	case string:
		blockID = v
	case map[string]interface{}:
		obj = v
		for _, key := range legacyBlockKeys {
			if blockID = stringField(obj, key); blockID != "" {
				break
			}
		}
	default:
		return types.ComponentInstance{}, false
	}

	if blockID == "" || blocks == nil {
		return types.ComponentInstance{}, false
	}
	if _, ok := blocks.ByID(blockID); !ok {
		return types.ComponentInstance{}, false
	}

	componentID := stringField(obj, "id")
	if _, dup := seen[componentID]; componentID == "" || dup {
		componentID = id.NewComponentID().String()
	}

	return types.ComponentInstance{
		ID:            componentID,
		BlockID:       blockID,
		TextOverrides: resolveOverrides(obj["textOverrides"]),
	}, true
}

func resolveOverrides(raw interface{}) map[string]types.TextOverride {
	out := map[string]types.TextOverride{}
	entries, _ := raw.(map[string]interface{})
	for key, v := range entries {
		if key == "" {
			continue
		}
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		value, hasValue := entry["value"].(string)
		original, hasOriginal := entry["original"].(string)
		switch {
		case hasValue && hasOriginal:
		case hasValue:
			original = value
		case hasOriginal:
			value = original
		default:
			continue
		}
		out[key] = types.TextOverride{Original: original, Value: value}
	}
	return out
}

func stringField(obj map[string]interface{}, key string) string {
	if obj == nil {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}
