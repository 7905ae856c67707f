package sections

import "strings"

// Section is a named, positioned, independently toggleable content unit within
// a page template. Instances flow through the compiler and the preview channel
// as value snapshots; mutation always replaces whole nodes.
type Section struct {
	ID          string         `json:"id"`
	SectionType string         `json:"sectionType"`
	Slot        string         `json:"slot,omitempty"`
	Settings    map[string]any `json:"settings"`
	Enabled     bool           `json:"enabled"`
	Position    int            `json:"position"`
	Blocks      []Block        `json:"blocks"`
}

// Block is one editable content element inside a section. Container-type
// blocks carry their children in Blocks, forming an unbounded-depth tree.
type Block struct {
	ID        string         `json:"id"`
	BlockType string         `json:"type"`
	Settings  map[string]any `json:"settings"`
	Position  int            `json:"position"`
	Blocks    []Block        `json:"blocks,omitempty"`
}

// GlobalSections holds the three chrome slots rendered around the page body.
// Each slot is nil when the template defines no section of that type.
type GlobalSections struct {
	AnnouncementBar *Section `json:"announcementBar"`
	Header          *Section `json:"header"`
	Footer          *Section `json:"footer"`
}

// Section type discriminators for the global chrome slots.
const (
	TypeAnnouncementBar = "announcement-bar"
	TypeHeader          = "header"
	TypeFooter          = "footer"
)

// BlockTypeContainer marks blocks whose settings nest a child block list.
const BlockTypeContainer = "container"

// TemporaryIDPrefix marks section ids the editor created but has not persisted
// yet. Lazy block fetches skip these.
const TemporaryIDPrefix = "temp-"

var globalTypes = map[string]struct{}{
	TypeAnnouncementBar: {},
	TypeHeader:          {},
	TypeFooter:          {},
}

var blockBearingTypes = map[string]struct{}{
	TypeHeader:          {},
	TypeFooter:          {},
	"hero":              {},
	"featured-products": {},
	"cart":              {},
	"collection":        {},
}

// IsGlobalType reports whether the section type belongs to the global chrome
// set excluded from ordinary page flow.
func IsGlobalType(sectionType string) bool {
	_, ok := globalTypes[sectionType]
	return ok
}

// IsBlockBearingType reports whether sections of this type are expected to
// carry a block list.
func IsBlockBearingType(sectionType string) bool {
	_, ok := blockBearingTypes[sectionType]
	return ok
}

// IsTemporaryID reports whether the id denotes an unsaved editor-side section.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TemporaryIDPrefix)
}

// IsContainer reports whether the block nests a child block list.
func (b Block) IsContainer() bool {
	return b.BlockType == BlockTypeContainer
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := *s
	out.Settings = CloneSettings(s.Settings)
	out.Blocks = CloneBlocks(s.Blocks)
	return &out
}

// Clone returns a deep copy of the block and its descendants.
func (b Block) Clone() Block {
	out := b
	out.Settings = CloneSettings(b.Settings)
	out.Blocks = CloneBlocks(b.Blocks)
	return out
}

// CloneSlice deep-copies a section list.
func CloneSlice(src []*Section) []*Section {
	if src == nil {
		return nil
	}
	out := make([]*Section, len(src))
	for i, section := range src {
		out[i] = section.Clone()
	}
	return out
}

// CloneBlocks deep-copies a block list.
func CloneBlocks(src []Block) []Block {
	if src == nil {
		return nil
	}
	out := make([]Block, len(src))
	for i, block := range src {
		out[i] = block.Clone()
	}
	return out
}

// CloneSettings deep-copies a settings map, recursing into nested maps and
// slices so callers can mutate the copy freely.
func CloneSettings(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneSettings(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
