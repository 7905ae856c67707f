package interfaces

import (
	"context"

	"github.com/goliatone/go-storefront/sections"
)

// PreviewEmitter carries status and echo messages from a preview channel back
// to the editor frame that drives it. Implementations must be safe for use from
// the channel's apply goroutine.
type PreviewEmitter interface {
	PreviewReady(sections []*sections.Section)
	SectionSelected(sectionID, sectionType string)
	BlockSelected(sectionID, blockID, blockType string)
	ScrollPosition(scrollY float64)
	SectionBlocksLoaded(sectionID string, blocks []sections.Block)
}

// BlockFetcher loads the persisted block list for a section whose blocks were
// not shipped with the initial snapshot.
type BlockFetcher interface {
	FetchBlocks(ctx context.Context, sectionID string) ([]sections.Block, error)
}

// StyleSink receives regenerated stylesheets when theme settings change. The
// conversion from settings to CSS custom properties is pure; applying the
// result to a rendering surface happens behind this boundary.
type StyleSink interface {
	ApplyStyleSheet(css string)
}
