package preview

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

var (
	// ErrChannelClosed is returned when a message arrives after Close.
	ErrChannelClosed = errors.New("preview: channel closed")

	// ErrNotStarted is returned for messages sent before Start announced the
	// ready snapshot.
	ErrNotStarted = errors.New("preview: channel not started")
)

// Config seeds a preview channel with its initial compiled state.
type Config struct {
	Sections      []*sections.Section
	ThemeSettings map[string]any

	// CSSPrefix namespaces the generated custom properties, e.g. "--theme-".
	CSSPrefix string

	// TokenVariables is the design-token base layer; settings-derived
	// variables overlay it in the generated stylesheet.
	TokenVariables map[string]string

	// ScrollDebounce spaces out scroll reports triggered by user scrolling.
	ScrollDebounce time.Duration

	// HighlightDuration bounds the transient highlight applied when the
	// editor scrolls the preview to a section.
	HighlightDuration time.Duration
}

// Option configures a Channel.
type Option func(*Channel)

// WithEmitter wires the outbound message sink.
func WithEmitter(emitter interfaces.PreviewEmitter) Option {
	return func(c *Channel) { c.emitter = emitter }
}

// WithBlockFetcher wires the lazy block loader.
func WithBlockFetcher(fetcher interfaces.BlockFetcher) Option {
	return func(c *Channel) { c.fetcher = fetcher }
}

// WithStyleSink wires the stylesheet receiver.
func WithStyleSink(sink interfaces.StyleSink) Option {
	return func(c *Channel) { c.styles = sink }
}

// WithLogger sets the channel logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

// Channel holds one preview session's live section tree and theme settings,
// kept in sync with the editor through the typed message protocol. Each
// message is applied run-to-completion under the channel lock, so a patch
// never observes another patch half-applied. All mutations replace whole
// nodes; stored sections and blocks are never edited in place.
type Channel struct {
	mu       sync.Mutex
	sections []*sections.Section
	settings map[string]any

	selectorMode  bool
	scrollY       float64
	highlightedID string
	highlightedAt time.Time

	// fetched tracks the one lazy block-fetch allowed per section id.
	fetched map[string]bool

	started bool
	closed  bool

	cssPrefix         string
	tokenVars         map[string]string
	scrollDebounce    time.Duration
	highlightDuration time.Duration

	scrollTimer *time.Timer

	emitter interfaces.PreviewEmitter
	fetcher interfaces.BlockFetcher
	styles  interfaces.StyleSink
	logger  interfaces.Logger
	now     func() time.Time
}

// NewChannel builds a channel over an initial compiled snapshot.
func NewChannel(cfg Config, opts ...Option) *Channel {
	c := &Channel{
		sections:          sections.CloneSlice(cfg.Sections),
		settings:          sections.CloneSettings(cfg.ThemeSettings),
		fetched:           make(map[string]bool),
		cssPrefix:         cfg.CSSPrefix,
		tokenVars:         cfg.TokenVariables,
		scrollDebounce:    cfg.ScrollDebounce,
		highlightDuration: cfg.HighlightDuration,
		logger:            logging.NoOp(),
		now:               time.Now,
	}
	if c.cssPrefix == "" {
		c.cssPrefix = "--theme-"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start announces readiness to the editor with a snapshot of the current
// sections, publishes the initial stylesheet, and kicks off lazy block
// fetches for block-bearing sections that arrived without blocks. Messages
// applied before Start are rejected; the editor waits for the ready signal
// before sending patches.
func (c *Channel) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	snapshot := sections.CloneSlice(c.sections)
	css := c.styleSheetLocked()
	pending := c.pendingFetchesLocked()
	c.mu.Unlock()

	if c.styles != nil {
		c.styles.ApplyStyleSheet(css)
	}
	if c.emitter != nil {
		c.emitter.PreviewReady(snapshot)
	}
	for _, sectionID := range pending {
		c.fetchBlocks(ctx, sectionID)
	}
	return nil
}

// Close stops the channel. Late fetch results and further messages are
// dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.scrollTimer != nil {
		c.scrollTimer.Stop()
		c.scrollTimer = nil
	}
}

// ApplyRaw decodes one wire frame and applies it. Unknown message kinds are
// logged and ignored so newer editors can talk to older previews.
func (c *Channel) ApplyRaw(ctx context.Context, data []byte) error {
	msg, err := DecodeMessage(data)
	if err != nil {
		if errors.Is(err, ErrUnknownMessage) {
			c.logger.Debug("ignoring unknown preview message", "error", err)
			return nil
		}
		return err
	}
	return c.Apply(ctx, msg)
}

// Apply validates and dispatches one message. A patch referencing a stale
// section or block id is a logged no-op; the channel never fails a session
// over out-of-order delivery.
func (c *Channel) Apply(ctx context.Context, msg command.Message) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}

	switch m := msg.(type) {
	case *SectionUpdateMessage:
		c.applySectionUpdate(*m)
	case SectionUpdateMessage:
		c.applySectionUpdate(m)
	case *SectionAddMessage:
		c.applySectionAdd(ctx, *m)
	case SectionAddMessage:
		c.applySectionAdd(ctx, m)
	case *SectionDeleteMessage:
		c.applySectionDelete(*m)
	case SectionDeleteMessage:
		c.applySectionDelete(m)
	case *SectionsReorderMessage:
		c.applySectionsReorder(*m)
	case SectionsReorderMessage:
		c.applySectionsReorder(m)
	case *BlockUpdateMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockUpdate, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.ReplaceBlock(blocks, m.Block.Clone())
		})
	case BlockUpdateMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockUpdate, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.ReplaceBlock(blocks, m.Block.Clone())
		})
	case *BlockAddMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockAdd, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.AppendBlock(blocks, m.Block.Clone()), true
		})
	case BlockAddMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockAdd, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.AppendBlock(blocks, m.Block.Clone()), true
		})
	case *BlockDeleteMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockDelete, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.RemoveBlock(blocks, m.BlockID)
		})
	case BlockDeleteMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockDelete, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.RemoveBlock(blocks, m.BlockID)
		})
	case *BlockReorderMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockReorder, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.ReorderBlocks(blocks, m.BlockIDs), true
		})
	case BlockReorderMessage:
		c.applyBlockPatch(m.SectionID, MessageBlockReorder, func(blocks []sections.Block) ([]sections.Block, bool) {
			return templates.ReorderBlocks(blocks, m.BlockIDs), true
		})
	case *ThemeSettingsUpdateMessage:
		c.applyThemeSettings(*m)
	case ThemeSettingsUpdateMessage:
		c.applyThemeSettings(m)
	case *SelectorModeMessage:
		c.selectorMode = m.Enabled
	case SelectorModeMessage:
		c.selectorMode = m.Enabled
	case *GetScrollPositionMessage, GetScrollPositionMessage:
		scrollY := c.scrollY
		c.mu.Unlock()
		if c.emitter != nil {
			c.emitter.ScrollPosition(scrollY)
		}
		return nil
	case *RestoreScrollPositionMessage:
		c.scrollY = m.ScrollY
	case RestoreScrollPositionMessage:
		c.scrollY = m.ScrollY
	case *ScrollToSectionMessage:
		c.applyScrollToSection(*m)
	case ScrollToSectionMessage:
		c.applyScrollToSection(m)
	default:
		c.logger.Debug("ignoring unhandled preview message", "type", msg.Type())
	}
	c.mu.Unlock()
	return nil
}

func (c *Channel) applySectionUpdate(m SectionUpdateMessage) {
	idx := c.indexOfLocked(m.SectionID)
	if idx < 0 {
		c.logger.Debug("section update for unknown id", "section_id", m.SectionID)
		return
	}

	next := c.sections[idx].Clone()
	if m.Settings != nil {
		if next.Settings == nil {
			next.Settings = map[string]any{}
		}
		for key, value := range sections.CloneSettings(m.Settings) {
			next.Settings[key] = value
		}
	}
	if m.Enabled != nil {
		next.Enabled = *m.Enabled
	}
	if m.Blocks != nil {
		next.Blocks = sections.CloneBlocks(m.Blocks)
	}
	c.sections[idx] = next
}

func (c *Channel) applySectionAdd(ctx context.Context, m SectionAddMessage) {
	section := m.Section.Clone()
	c.sections = append(c.sections, section)
	sort.SliceStable(c.sections, func(i, j int) bool {
		return c.sections[i].Position < c.sections[j].Position
	})

	if c.needsFetchLocked(section) {
		c.fetched[section.ID] = true
		go c.fetchBlocksAsync(ctx, section.ID)
	}
}

func (c *Channel) applySectionDelete(m SectionDeleteMessage) {
	idx := c.indexOfLocked(m.SectionID)
	if idx < 0 {
		return
	}
	c.sections = append(c.sections[:idx], c.sections[idx+1:]...)
	delete(c.fetched, m.SectionID)
}

func (c *Channel) applySectionsReorder(m SectionsReorderMessage) {
	next := make([]*sections.Section, 0, len(m.Sections))
	for i := range m.Sections {
		next = append(next, m.Sections[i].Clone())
	}
	c.sections = next
}

func (c *Channel) applyBlockPatch(sectionID, kind string, patch func([]sections.Block) ([]sections.Block, bool)) {
	idx := c.indexOfLocked(sectionID)
	if idx < 0 {
		c.logger.Debug("block patch for unknown section", "kind", kind, "section_id", sectionID)
		return
	}

	blocks, ok := patch(sections.CloneBlocks(c.sections[idx].Blocks))
	if !ok {
		c.logger.Debug("block patch target not found", "kind", kind, "section_id", sectionID)
		return
	}

	next := c.sections[idx].Clone()
	next.Blocks = blocks
	c.sections[idx] = next
}

func (c *Channel) applyThemeSettings(m ThemeSettingsUpdateMessage) {
	c.settings = sections.CloneSettings(m.Settings)
	css := c.styleSheetLocked()
	if c.styles != nil {
		c.styles.ApplyStyleSheet(css)
	}
}

func (c *Channel) applyScrollToSection(m ScrollToSectionMessage) {
	if c.indexOfLocked(m.SectionID) < 0 {
		c.logger.Debug("scroll target unknown", "section_id", m.SectionID)
		return
	}
	c.highlightedID = m.SectionID
	c.highlightedAt = c.now()
}

// RecordScroll reports a genuine user scroll. The resulting position message
// is debounced so a scroll gesture produces one report, and programmatic
// restores never call this path, which keeps the editor's scroll tracking
// free of feedback loops.
func (c *Channel) RecordScroll(scrollY float64) {
	c.mu.Lock()
	if c.closed || !c.started {
		c.mu.Unlock()
		return
	}
	c.scrollY = scrollY
	if c.scrollDebounce <= 0 {
		c.mu.Unlock()
		if c.emitter != nil {
			c.emitter.ScrollPosition(scrollY)
		}
		return
	}
	if c.scrollTimer != nil {
		c.scrollTimer.Stop()
	}
	c.scrollTimer = time.AfterFunc(c.scrollDebounce, func() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		current := c.scrollY
		c.mu.Unlock()
		if c.emitter != nil {
			c.emitter.ScrollPosition(current)
		}
	})
	c.mu.Unlock()
}

// SelectSection surfaces a section click from the preview surface. Selection
// only fires in selector mode.
func (c *Channel) SelectSection(sectionID string) {
	c.mu.Lock()
	if c.closed || !c.selectorMode {
		c.mu.Unlock()
		return
	}
	idx := c.indexOfLocked(sectionID)
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	sectionType := c.sections[idx].SectionType
	c.mu.Unlock()

	if c.emitter != nil {
		c.emitter.SectionSelected(sectionID, sectionType)
	}
}

// SelectBlock surfaces a block click from the preview surface.
func (c *Channel) SelectBlock(sectionID, blockID string) {
	c.mu.Lock()
	if c.closed || !c.selectorMode {
		c.mu.Unlock()
		return
	}
	idx := c.indexOfLocked(sectionID)
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	block := templates.FindBlock(c.sections[idx].Blocks, blockID)
	if block == nil {
		c.mu.Unlock()
		return
	}
	blockType := block.BlockType
	c.mu.Unlock()

	if c.emitter != nil {
		c.emitter.BlockSelected(sectionID, blockID, blockType)
	}
}

// Sections returns a deep copy of the current section list.
func (c *Channel) Sections() []*sections.Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sections.CloneSlice(c.sections)
}

// GlobalSections derives the global chrome from the live list by type match.
// It is recomputed on every call so ordinary section patches targeting
// globals stay consistent with the rest of the pipeline.
func (c *Channel) GlobalSections() *sections.GlobalSections {
	c.mu.Lock()
	defer c.mu.Unlock()

	globals := &sections.GlobalSections{}
	for _, section := range c.sections {
		switch section.SectionType {
		case sections.TypeAnnouncementBar:
			if globals.AnnouncementBar == nil {
				globals.AnnouncementBar = section.Clone()
			}
		case sections.TypeHeader:
			if globals.Header == nil {
				globals.Header = section.Clone()
			}
		case sections.TypeFooter:
			if globals.Footer == nil {
				globals.Footer = section.Clone()
			}
		}
	}
	return globals
}

// ThemeSettings returns a deep copy of the current theme settings.
func (c *Channel) ThemeSettings() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sections.CloneSettings(c.settings)
}

// StyleSheet returns the current generated stylesheet.
func (c *Channel) StyleSheet() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.styleSheetLocked()
}

// SelectorMode reports whether click-to-select is active.
func (c *Channel) SelectorMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectorMode
}

// ScrollY returns the current viewport offset.
func (c *Channel) ScrollY() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollY
}

// HighlightedSection reports the transiently highlighted section, if the
// highlight window is still open.
func (c *Channel) HighlightedSection() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.highlightedID == "" {
		return "", false
	}
	if c.highlightDuration > 0 && c.now().Sub(c.highlightedAt) > c.highlightDuration {
		return "", false
	}
	return c.highlightedID, true
}

func (c *Channel) styleSheetLocked() string {
	vars := themes.MergeVariables(c.tokenVars, themes.SettingsToCSSVariables(c.settings, c.cssPrefix))
	return themes.StyleSheet(vars)
}

func (c *Channel) indexOfLocked(sectionID string) int {
	for i, section := range c.sections {
		if section.ID == sectionID {
			return i
		}
	}
	return -1
}

// needsFetchLocked reports whether a section qualifies for the one lazy
// block-fetch: block-bearing type, empty blocks, persisted (non-temporary)
// id, and not fetched before.
func (c *Channel) needsFetchLocked(section *sections.Section) bool {
	if c.fetcher == nil {
		return false
	}
	if !sections.IsBlockBearingType(section.SectionType) {
		return false
	}
	if len(section.Blocks) > 0 {
		return false
	}
	if sections.IsTemporaryID(section.ID) {
		return false
	}
	return !c.fetched[section.ID]
}

// pendingFetchesLocked marks and returns every section in the snapshot that
// needs its block list fetched.
func (c *Channel) pendingFetchesLocked() []string {
	var pending []string
	for _, section := range c.sections {
		if c.needsFetchLocked(section) {
			c.fetched[section.ID] = true
			pending = append(pending, section.ID)
		}
	}
	return pending
}

func (c *Channel) fetchBlocks(ctx context.Context, sectionID string) {
	go c.fetchBlocksAsync(ctx, sectionID)
}

// fetchBlocksAsync loads a section's persisted blocks and applies them as a
// whole-node replacement. Results arriving after Close, or after the section
// was deleted, are dropped.
func (c *Channel) fetchBlocksAsync(ctx context.Context, sectionID string) {
	blocks, err := c.fetcher.FetchBlocks(ctx, sectionID)
	if err != nil {
		c.logger.Warn("block fetch failed", "section_id", sectionID, "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	idx := c.indexOfLocked(sectionID)
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	next := c.sections[idx].Clone()
	next.Blocks = sections.CloneBlocks(blocks)
	c.sections[idx] = next
	c.mu.Unlock()

	if c.emitter != nil {
		c.emitter.SectionBlocksLoaded(sectionID, sections.CloneBlocks(blocks))
	}
}
