package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
)

// Word is a run of text placed on a page line. Y is the baseline in PDF
// coordinates (origin bottom left).
type Word struct {
	X        float64
	Y        float64
	W        float64
	FontSize float64
	S        string
}

// Line is a row of words sharing a baseline
type Line []Word

// DefaultCellGap is the horizontal distance, in points, that separates two cells
const DefaultCellGap = 12.0

// splitCells groups the words of a line into cell fragments wherever the
// horizontal gap between consecutive words is at least gap
func splitCells(line Line, gap float64) []model.TextFragment {
	if len(line) == 0 {
		return nil
	}
	words := make(Line, len(line))
	copy(words, line)
	sort.SliceStable(words, func(i, j int) bool { return words[i].X < words[j].X })

	var cells []model.TextFragment
	var cur strings.Builder
	start, end := words[0].X, words[0].X
	y, height := words[0].Y, 0.0
	flush := func() {
		if height <= 0 {
			height = 1
		}
		cells = append(cells, model.TextFragment{
			Text:     strings.TrimSpace(cur.String()),
			BBox:     model.NewBBox(start, y, end-start, height),
			FontSize: height,
		})
		cur.Reset()
	}

	for i, w := range words {
		if i > 0 {
			space := w.X - end
			switch {
			case space >= gap:
				flush()
				start, y, height = w.X, w.Y, 0
			case space > w.FontSize*0.15:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(w.S)
		if e := w.X + w.W; e > end {
			end = e
		}
		if w.Y < y {
			y = w.Y
		}
		if w.FontSize > height {
			height = w.FontSize
		}
	}
	flush()
	return cells
}

// newDetector returns a geometric detector for regions that already passed
// the line-run test, so no confidence floor is applied
func newDetector() (tables.Detector, error) {
	d := tables.NewGeometricDetector()
	cfg := tables.DefaultConfig()
	cfg.MinRows = 1
	cfg.MinCols = 2
	cfg.MinConfidence = 0
	cfg.UseLines = false
	cfg.DetectMergedCells = false
	if err := d.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configuring table detector: %w", err)
	}
	return d, nil
}

// DetectTables finds runs of at least two consecutive lines that split into the
// same number (two or more) of cells, and lets the geometric detector lay each
// run out as a grid. The first row of every table is its header.
func DetectTables(lines []Line, gap float64) ([]Table, error) {
	if gap <= 0 {
		gap = DefaultCellGap
	}
	detector, err := newDetector()
	if err != nil {
		return nil, err
	}

	var found []Table
	var run []model.TextFragment
	var runLines, runWidth int
	flush := func() error {
		defer func() { run, runLines, runWidth = nil, 0, 0 }()
		if runLines < 2 {
			return nil
		}
		detected, err := detector.Detect(&model.Page{RawText: run})
		if err != nil {
			return fmt.Errorf("detecting tables: %w", err)
		}
		for _, t := range detected {
			if grid := compact(t); len(grid) >= 2 && grid.Width() >= 2 {
				found = append(found, grid)
			}
		}
		return nil
	}

	for _, line := range lines {
		cells := splitCells(line, gap)
		if len(cells) < 2 || (runLines > 0 && len(cells) != runWidth) {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		if len(cells) < 2 {
			continue
		}
		run = append(run, cells...)
		runWidth = len(cells)
		runLines++
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return found, nil
}

// compact turns a detected grid into a Table. The detector places a boundary
// at every fragment edge, which leaves blank spacer rows and columns; blank
// rows are dropped and adjacent columns that never hold text in the same row
// are merged.
func compact(t *model.Table) Table {
	var rows [][]string
	for _, r := range t.Rows {
		row := make([]string, len(r))
		blank := true
		for i, c := range r {
			row[i] = NormalizeText(strings.TrimSpace(c.Text))
			if row[i] != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	var cols [][]string
	for c := range rows[0] {
		col := make([]string, len(rows))
		for r := range rows {
			col[r] = rows[r][c]
		}
		if n := len(cols); n > 0 && disjoint(cols[n-1], col) {
			for r, v := range col {
				if v != "" {
					cols[n-1][r] = v
				}
			}
			continue
		}
		cols = append(cols, col)
	}

	grid := make(Table, len(rows))
	for r := range rows {
		grid[r] = make([]string, len(cols))
		for c := range cols {
			grid[r][c] = cols[c][r]
		}
	}
	return grid
}

func disjoint(a, b []string) bool {
	for i := range a {
		if a[i] != "" && b[i] != "" {
			return false
		}
	}
	return true
}
