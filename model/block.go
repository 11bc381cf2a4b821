package model

import "fmt"

// BlockType identifies the structural role of a parsed block.
// The set is closed: adding a new heading level is a compile-time change.
type BlockType int

const (
	BlockTitle BlockType = iota
	BlockSubtitle1
	BlockSubtitle2
	BlockBody
)

// String returns the wire name of the block type as emitted by the parser.
func (t BlockType) String() string {
	switch t {
	case BlockTitle:
		return "title"
	case BlockSubtitle1:
		return "subtitle_1"
	case BlockSubtitle2:
		return "subtitle_2"
	case BlockBody:
		return "body"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseBlockType converts a parser wire name into a BlockType.
func ParseBlockType(s string) (BlockType, error) {
	switch s {
	case "title":
		return BlockTitle, nil
	case "subtitle_1":
		return BlockSubtitle1, nil
	case "subtitle_2":
		return BlockSubtitle2, nil
	case "body":
		return BlockBody, nil
	default:
		return 0, &ParseStructureError{Reason: fmt.Sprintf("unknown block type %q", s)}
	}
}

// IsHeading reports whether the block opens a new section.
func (t BlockType) IsHeading() bool {
	return t == BlockTitle || t == BlockSubtitle1 || t == BlockSubtitle2
}

// Level returns the section level a heading block produces.
// Title is level 1, deeper subtitle levels clamp to 3.
func (t BlockType) Level() int {
	switch t {
	case BlockTitle:
		return 1
	case BlockSubtitle1:
		return 2
	case BlockSubtitle2:
		return 3
	default:
		return 0
	}
}

// Block is one typed structural unit from the upstream document parser.
type Block struct {
	Type   BlockType   `json:"type"`
	Text   string      `json:"text"`
	PageNo int         `json:"page_no"`
	BBox   BoundingBox `json:"bbox"`
}
