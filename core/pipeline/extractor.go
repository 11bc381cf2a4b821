package pipeline

import (
	"fmt"

	"github.com/klapom/AEGIS-Rag-sub009/model"
)

// ExtractSections converts an ordered block stream into an ordered section
// list. Heading blocks open a new section; body blocks accumulate into the
// current one. A document starting with a body block gets a synthesized
// section with an empty heading at level 1.
//
// The function is pure and all-or-nothing: an unknown block type fails the
// whole document with a ParseStructureError, no partial section list is
// returned.
func ExtractSections(blocks []model.Block) ([]*model.Section, error) {
	var sections []*model.Section
	var current *model.Section

	for i, block := range blocks {
		switch block.Type {
		case model.BlockTitle, model.BlockSubtitle1, model.BlockSubtitle2:
			if current != nil {
				sections = append(sections, current)
			}
			current = &model.Section{
				Heading: block.Text,
				Level:   block.Type.Level(),
				PageNo:  block.PageNo,
				BBox:    block.BBox,
			}
		case model.BlockBody:
			if current == nil {
				current = &model.Section{
					Heading: "",
					Level:   1,
					PageNo:  block.PageNo,
					BBox:    block.BBox,
				}
			}
			current.Text += block.Text + "\n"
			current.TokenCount = EstimateTokens(current.Text)
		default:
			return nil, &model.ParseStructureError{
				BlockIndex: i,
				Reason:     fmt.Sprintf("unknown block type %d", int(block.Type)),
			}
		}
	}

	if current != nil {
		sections = append(sections, current)
	}

	return sections, nil
}
