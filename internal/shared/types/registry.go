package types

// Category classifies a catalog entry. The core only ever branches on category,
// never on the identity of a concrete block.
type Category string

const (
	// CategoryBlock marks full-width content blocks that may be placed on a page.
	CategoryBlock Category = "block"
	// CategoryElement marks small building pieces used inside blocks (buttons, badges).
	CategoryElement Category = "element"
	// CategoryLayout marks grid/layout helpers.
	CategoryLayout Category = "layout"
	// CategoryChrome marks page chrome such as navigation bars.
	CategoryChrome Category = "chrome"
)

// Block is a Block Registry entry.
type Block struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description,omitempty" yaml:"description" toml:"description"`
	Category    Category `json:"category" yaml:"category" toml:"category"`
	// Component is the exported symbol name used when generating page source.
	Component string   `json:"component" yaml:"component" toml:"component"`
	Tags      []string `json:"tags,omitempty" yaml:"tags" toml:"tags"`
	// Markup is the block's default HTML; its text nodes seed text-override baselines.
	Markup string `json:"markup,omitempty" yaml:"markup" toml:"markup"`
}

// BlockMetadata contains summary information about a block
type BlockMetadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags"`
}

// ToMetadata extracts metadata from a block
func (b *Block) ToMetadata() BlockMetadata {
	return BlockMetadata{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Tags:        b.Tags,
	}
}

// RegistryStats contains registry statistics
type RegistryStats struct {
	TotalBlocks int              `json:"total_blocks"`
	Categories  map[Category]int `json:"categories"`
}
