package markdown

import (
	"fmt"
	"strings"

	"github.com/caetanosauer/notion-exporter/internal/logger"
	"github.com/caetanosauer/notion-exporter/internal/models"
)

// ConvertBlocks renders an ordered list of sibling blocks as one markdown
// document body. Fragments are joined by a blank line and empty fragments
// are dropped. A table block consumes all table row blocks that follow it,
// and numbered list numbering restarts whenever the run is interrupted.
func (c *Converter) ConvertBlocks(blocks []models.Block) string {
	logger.Debug("Converting blocks to markdown", map[string]interface{}{
		"blocks_count": len(blocks),
	})

	var fragments []string
	counters := ListCounters{}

	i := 0
	for i < len(blocks) {
		block := blocks[i]

		if block.Type == models.BlockTable {
			// Collect the row blocks that belong to this table
			j := i + 1
			for j < len(blocks) && blocks[j].Type == models.BlockTableRow {
				j++
			}

			md := c.convertTable(block, blocks[i+1:j])
			if md != "" {
				fragments = append(fragments, md)
			}

			i = j
			counters = ListCounters{}
			continue
		}

		if block.Type != models.BlockNumberedListItem {
			delete(counters, numberedKey)
		}

		md, _ := c.ConvertBlock(block, counters)
		if md != "" {
			fragments = append(fragments, md)
		}
		i++
	}

	return strings.Join(fragments, "\n\n")
}

// convertTable renders a table block together with its row blocks. Rows are
// padded to the widest row. Without a column header the first line is a
// synthesized "Column N" header and every row is data.
func (c *Converter) convertTable(block models.Block, rows []models.Block) string {
	if len(rows) == 0 {
		return ""
	}

	var hasColumnHeader bool
	if block.Table != nil {
		hasColumnHeader = block.Table.HasColumnHeader
	}

	allRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		allRows = append(allRows, c.convertTableRow(row))
	}

	colCount := 0
	for _, row := range allRows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	for i, row := range allRows {
		for len(row) < colCount {
			row = append(row, "")
		}
		allRows[i] = row
	}

	var lines []string
	var dataRows [][]string

	if hasColumnHeader {
		lines = append(lines, "| "+strings.Join(allRows[0], " | ")+" |")
		dataRows = allRows[1:]
	} else {
		header := make([]string, colCount)
		for i := range header {
			header[i] = fmt.Sprintf("Column %d", i+1)
		}
		lines = append(lines, "| "+strings.Join(header, " | ")+" |")
		dataRows = allRows
	}

	separator := make([]string, colCount)
	for i := range separator {
		separator[i] = "---"
	}
	lines = append(lines, "|"+strings.Join(separator, "|")+"|")

	for _, row := range dataRows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}

	return strings.Join(lines, "\n")
}

// convertTableRow renders one table row as a list of cell strings
func (c *Converter) convertTableRow(block models.Block) []string {
	if block.TableRow == nil {
		return nil
	}

	cells := make([]string, 0, len(block.TableRow.Cells))
	for _, cell := range block.TableRow.Cells {
		cells = append(cells, c.ConvertRichText(cell))
	}
	return cells
}
