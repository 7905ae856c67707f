package preview

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-storefront/sections"
)

// Wire message kinds. These are the protocol identifiers the editor frame
// sends; they double as the command message types.
const (
	MessageSectionUpdate         = "SECTION_UPDATE"
	MessageSectionAdd            = "SECTION_ADD"
	MessageSectionDelete         = "SECTION_DELETE"
	MessageSectionsReorder       = "SECTIONS_REORDER"
	MessageBlockUpdate           = "BLOCK_UPDATE"
	MessageBlockAdd              = "BLOCK_ADD"
	MessageBlockDelete           = "BLOCK_DELETE"
	MessageBlockReorder          = "BLOCK_REORDER"
	MessageThemeSettingsUpdate   = "THEME_SETTINGS_UPDATE"
	MessageSelectorMode          = "SELECTOR_MODE"
	MessageGetScrollPosition     = "GET_SCROLL_POSITION"
	MessageRestoreScrollPosition = "RESTORE_SCROLL_POSITION"
	MessageScrollToSection       = "SCROLL_TO_SECTION"
)

// Outbound message kinds the channel emits back to the editor.
const (
	MessagePreviewReady        = "PREVIEW_READY"
	MessageSectionSelected     = "SECTION_SELECTED"
	MessageBlockSelected       = "BLOCK_SELECTED"
	MessageScrollPosition      = "SCROLL_POSITION"
	MessageSectionBlocksLoaded = "SECTION_BLOCKS_LOADED"
)

// ErrUnknownMessage marks a wire frame whose kind is not part of the
// protocol. Channels treat these as forward-compatible no-ops.
var ErrUnknownMessage = errors.New("preview: unknown message kind")

// SectionUpdateMessage merges settings into a section and optionally replaces
// its enabled flag or block list. Identity and type never change.
type SectionUpdateMessage struct {
	SectionID string           `json:"sectionId"`
	Settings  map[string]any   `json:"settings,omitempty"`
	Enabled   *bool            `json:"enabled,omitempty"`
	Blocks    []sections.Block `json:"blocks,omitempty"`
}

// Type implements command.Message.
func (SectionUpdateMessage) Type() string { return MessageSectionUpdate }

// Validate satisfies command.Message.
func (m SectionUpdateMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SectionID, validation.Required),
	)
}

// SectionAddMessage inserts a new section into the list.
type SectionAddMessage struct {
	Section sections.Section `json:"section"`
}

func (SectionAddMessage) Type() string { return MessageSectionAdd }

func (m SectionAddMessage) Validate() error {
	if m.Section.ID == "" {
		return fmt.Errorf("preview: section id required")
	}
	if m.Section.SectionType == "" {
		return fmt.Errorf("preview: section type required")
	}
	return nil
}

// SectionDeleteMessage removes a section. Absent ids are a no-op.
type SectionDeleteMessage struct {
	SectionID string `json:"sectionId"`
}

func (SectionDeleteMessage) Type() string { return MessageSectionDelete }

func (m SectionDeleteMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SectionID, validation.Required),
	)
}

// SectionsReorderMessage replaces the whole section list with the provided
// order. This is a full replace, not a diff.
type SectionsReorderMessage struct {
	Sections []sections.Section `json:"sections"`
}

func (SectionsReorderMessage) Type() string { return MessageSectionsReorder }

func (m SectionsReorderMessage) Validate() error {
	for i, section := range m.Sections {
		if section.ID == "" {
			return fmt.Errorf("preview: section %d missing id", i)
		}
	}
	return nil
}

// BlockUpdateMessage replaces one block node wherever it sits in the
// section's block tree.
type BlockUpdateMessage struct {
	SectionID string         `json:"sectionId"`
	Block     sections.Block `json:"block"`
}

func (BlockUpdateMessage) Type() string { return MessageBlockUpdate }

func (m BlockUpdateMessage) Validate() error {
	if m.SectionID == "" {
		return fmt.Errorf("preview: section id required")
	}
	if m.Block.ID == "" {
		return fmt.Errorf("preview: block id required")
	}
	return nil
}

// BlockAddMessage appends a block to a section's top-level block list.
type BlockAddMessage struct {
	SectionID string         `json:"sectionId"`
	Block     sections.Block `json:"block"`
}

func (BlockAddMessage) Type() string { return MessageBlockAdd }

func (m BlockAddMessage) Validate() error {
	if m.SectionID == "" {
		return fmt.Errorf("preview: section id required")
	}
	if m.Block.ID == "" {
		return fmt.Errorf("preview: block id required")
	}
	return nil
}

// BlockDeleteMessage removes a block by id from a section's block tree.
type BlockDeleteMessage struct {
	SectionID string `json:"sectionId"`
	BlockID   string `json:"blockId"`
}

func (BlockDeleteMessage) Type() string { return MessageBlockDelete }

func (m BlockDeleteMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SectionID, validation.Required),
		validation.Field(&m.BlockID, validation.Required),
	)
}

// BlockReorderMessage rebuilds a section's top-level block list in the given
// id order, renumbering positions sequentially.
type BlockReorderMessage struct {
	SectionID string   `json:"sectionId"`
	BlockIDs  []string `json:"blockIds"`
}

func (BlockReorderMessage) Type() string { return MessageBlockReorder }

func (m BlockReorderMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SectionID, validation.Required),
	)
}

// ThemeSettingsUpdateMessage replaces the theme settings wholesale and
// triggers stylesheet regeneration.
type ThemeSettingsUpdateMessage struct {
	Settings map[string]any `json:"settings"`
}

func (ThemeSettingsUpdateMessage) Type() string { return MessageThemeSettingsUpdate }

func (ThemeSettingsUpdateMessage) Validate() error { return nil }

// SelectorModeMessage toggles click-to-select interactivity.
type SelectorModeMessage struct {
	Enabled bool `json:"enabled"`
}

func (SelectorModeMessage) Type() string { return MessageSelectorMode }

func (SelectorModeMessage) Validate() error { return nil }

// GetScrollPositionMessage asks the channel to report its current scroll
// offset back to the editor.
type GetScrollPositionMessage struct{}

func (GetScrollPositionMessage) Type() string { return MessageGetScrollPosition }

func (GetScrollPositionMessage) Validate() error { return nil }

// RestoreScrollPositionMessage sets the viewport scroll offset.
type RestoreScrollPositionMessage struct {
	ScrollY float64 `json:"scrollY"`
}

func (RestoreScrollPositionMessage) Type() string { return MessageRestoreScrollPosition }

func (RestoreScrollPositionMessage) Validate() error { return nil }

// ScrollToSectionMessage scrolls the viewport to a section and applies a
// transient highlight.
type ScrollToSectionMessage struct {
	SectionID string `json:"sectionId"`
}

func (ScrollToSectionMessage) Type() string { return MessageScrollToSection }

func (m ScrollToSectionMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SectionID, validation.Required),
	)
}

type envelope struct {
	Type string `json:"type"`
}

// DecodeMessage parses one wire frame into its typed message. Unknown kinds
// return ErrUnknownMessage so callers can ignore them without failing the
// session.
func DecodeMessage(data []byte) (command.Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("preview: decode envelope: %w", err)
	}

	decode := func(msg command.Message) (command.Message, error) {
		if err := json.Unmarshal(data, msg); err != nil {
			return nil, fmt.Errorf("preview: decode %s: %w", env.Type, err)
		}
		return msg, nil
	}

	switch env.Type {
	case MessageSectionUpdate:
		return decode(&SectionUpdateMessage{})
	case MessageSectionAdd:
		return decode(&SectionAddMessage{})
	case MessageSectionDelete:
		return decode(&SectionDeleteMessage{})
	case MessageSectionsReorder:
		return decode(&SectionsReorderMessage{})
	case MessageBlockUpdate:
		return decode(&BlockUpdateMessage{})
	case MessageBlockAdd:
		return decode(&BlockAddMessage{})
	case MessageBlockDelete:
		return decode(&BlockDeleteMessage{})
	case MessageBlockReorder:
		return decode(&BlockReorderMessage{})
	case MessageThemeSettingsUpdate:
		return decode(&ThemeSettingsUpdateMessage{})
	case MessageSelectorMode:
		return decode(&SelectorModeMessage{})
	case MessageGetScrollPosition:
		return decode(&GetScrollPositionMessage{})
	case MessageRestoreScrollPosition:
		return decode(&RestoreScrollPositionMessage{})
	case MessageScrollToSection:
		return decode(&ScrollToSectionMessage{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
}
