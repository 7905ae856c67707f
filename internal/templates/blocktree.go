package templates

import "github.com/goliatone/go-storefront/sections"

// Block tree operations. Every mutation returns a fresh slice with whole block
// nodes replaced, never edited in place, so concurrent readers holding an older
// snapshot stay consistent.

// FindBlock locates a block by id at any nesting depth. Returns nil when the
// id is absent.
func FindBlock(blocks []sections.Block, id string) *sections.Block {
	for i := range blocks {
		if blocks[i].ID == id {
			found := blocks[i].Clone()
			return &found
		}
		if len(blocks[i].Blocks) > 0 {
			if found := FindBlock(blocks[i].Blocks, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// ReplaceBlock swaps the block matching replacement.ID with the replacement
// node, recursing into container children. Siblings and ancestor settings are
// carried over untouched. The second return reports whether a match was found.
func ReplaceBlock(blocks []sections.Block, replacement sections.Block) ([]sections.Block, bool) {
	out := make([]sections.Block, len(blocks))
	replaced := false
	for i, block := range blocks {
		if block.ID == replacement.ID {
			out[i] = replacement.Clone()
			replaced = true
			continue
		}
		if len(block.Blocks) > 0 {
			children, ok := ReplaceBlock(block.Blocks, replacement)
			if ok {
				next := block.Clone()
				next.Blocks = children
				out[i] = next
				replaced = true
				continue
			}
		}
		out[i] = block.Clone()
	}
	return out, replaced
}

// RemoveBlock drops the block matching id from the tree. The second return
// reports whether anything was removed.
func RemoveBlock(blocks []sections.Block, id string) ([]sections.Block, bool) {
	out := make([]sections.Block, 0, len(blocks))
	removed := false
	for _, block := range blocks {
		if block.ID == id {
			removed = true
			continue
		}
		if len(block.Blocks) > 0 && !removed {
			children, ok := RemoveBlock(block.Blocks, id)
			if ok {
				next := block.Clone()
				next.Blocks = children
				out = append(out, next)
				removed = true
				continue
			}
		}
		out = append(out, block.Clone())
	}
	return out, removed
}

// AppendBlock adds a block to the end of the top-level list, assigning the
// next sequential position.
func AppendBlock(blocks []sections.Block, block sections.Block) []sections.Block {
	out := sections.CloneBlocks(blocks)
	next := block.Clone()
	next.Position = len(out)
	return append(out, next)
}

// ReorderBlocks rebuilds the top-level list in the order given by ids,
// renumbering positions sequentially from zero. Blocks whose id is not present
// in the list are dropped; this mirrors the editor protocol's historical
// behaviour and callers relying on it should treat the id list as exhaustive.
func ReorderBlocks(blocks []sections.Block, ids []string) []sections.Block {
	byID := make(map[string]sections.Block, len(blocks))
	for _, block := range blocks {
		byID[block.ID] = block
	}

	out := make([]sections.Block, 0, len(ids))
	for _, id := range ids {
		block, ok := byID[id]
		if !ok {
			continue
		}
		next := block.Clone()
		next.Position = len(out)
		out = append(out, next)
	}
	return out
}
