package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// Lookup resolves a block id to its catalog entry.
// It is the only view of the registry the document core needs.
type Lookup interface {
	ByID(id string) (*types.Block, bool)
}

// IsInsertable reports whether a catalog entry may be placed on a page.
// Only entries of the "block" category qualify.
func IsInsertable(b *types.Block) bool {
	return b != nil && b.Category == types.CategoryBlock
}

// Manager holds the block catalog in memory
type Manager struct {
	blocks sync.Map
	size   int64 // Atomic counter for catalog size
}

// NewManager creates an empty block registry
func NewManager() *Manager {
	return &Manager{}
}

// Register adds or replaces a catalog entry
func (m *Manager) Register(b *types.Block) error {
	if b == nil {
		return fmt.Errorf("block is nil")
	}
	if b.ID == "" {
		return fmt.Errorf("block ID is required")
	}
	if b.Category == "" {
		return fmt.Errorf("block %s has no category", b.ID)
	}

	entry := clone(b)
	if _, existed := m.blocks.Swap(entry.ID, entry); !existed {
		atomic.AddInt64(&m.size, 1)
	}
	return nil
}

// ByID implements Lookup. The returned entry is a copy; editing it does not
// change the catalog.
func (m *Manager) ByID(id string) (*types.Block, bool) {
	v, ok := m.blocks.Load(id)
	if !ok {
		return nil, false
	}
	return clone(v.(*types.Block)), true
}

// Insertable resolves id and applies the capability predicate
func (m *Manager) Insertable(id string) bool {
	b, ok := m.ByID(id)
	return ok && IsInsertable(b)
}

// List lists copies of catalog entries sorted by id, optionally filtered by category
func (m *Manager) List(category *types.Category) []*types.Block {
	var blocks []*types.Block
	m.blocks.Range(func(_, value interface{}) bool {
		b := value.(*types.Block)
		if category == nil || b.Category == *category {
			blocks = append(blocks, clone(b))
		}
		return true
	})
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].ID < blocks[j].ID })
	return blocks
}

// ListMetadata lists metadata for catalog entries
func (m *Manager) ListMetadata(category *types.Category) []types.BlockMetadata {
	blocks := m.List(category)
	metadata := make([]types.BlockMetadata, len(blocks))
	for i, b := range blocks {
		metadata[i] = b.ToMetadata()
	}
	return metadata
}

// Delete removes a catalog entry. Projects still referencing it lose the
// component on their next rehydration.
func (m *Manager) Delete(id string) bool {
	if _, existed := m.blocks.LoadAndDelete(id); existed {
		atomic.AddInt64(&m.size, -1)
		return true
	}
	return false
}

// Len returns the number of registered entries
func (m *Manager) Len() int {
	return int(atomic.LoadInt64(&m.size))
}

// Stats returns registry statistics
func (m *Manager) Stats() types.RegistryStats {
	var total int
	categories := make(map[types.Category]int)

	m.blocks.Range(func(_, value interface{}) bool {
		b := value.(*types.Block)
		total++
		categories[b.Category]++
		return true
	})

	return types.RegistryStats{
		TotalBlocks: total,
		Categories:  categories,
	}
}

func clone(b *types.Block) *types.Block {
	c := *b
	if b.Tags != nil {
		c.Tags = append([]string(nil), b.Tags...)
	}
	return &c
}
