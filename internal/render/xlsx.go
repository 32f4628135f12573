package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"filematch/internal/index"
	"filematch/internal/match"
)

// XLSXOptions configures the spreadsheet renderer.
type XLSXOptions struct {
	Labels Labels
	// Thumbnails embeds a preview of the first image file in each group.
	Thumbnails bool
}

const xlsxSheet = "Matches"

// XLSX writes the report as a styled workbook: one row per file, group
// number and count on the first row of each group, and optionally an
// embedded thumbnail when the group's content is an image. A thumbnail that
// cannot be generated leaves the preview cell blank; it never fails the
// export.
func XLSX(path string, rep match.Report, opts XLSXOptions) error {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to set sheet name: %w", err)
	}

	if err := writeXLSXHeader(f, rep.Mode, opts.Labels); err != nil {
		return err
	}

	row := 2
	for i, g := range rep.Groups {
		var err error
		row, err = writeXLSXGroup(f, rep.Mode, row, i+1, g, opts)
		if err != nil {
			return err
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeXLSXHeader(f *excelize.File, mode match.Mode, labels Labels) error {
	var headers []string
	if mode == match.CrossTree {
		headers = []string{
			"Group", "Preview", "Digest",
			fmt.Sprintf("Path A (%s)", filepath.Base(labels.RootA)),
			fmt.Sprintf("Path B (%s)", filepath.Base(labels.RootB)),
			"Size", "Count",
		}
	} else {
		headers = []string{"Group", "Preview", "Digest", "Path", "Size (bytes)", "Count"}
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to compute header cell: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 8}, {"B", 22}, {"C", 36}, {"D", 60}, {"E", 16}, {"F", 10},
	}
	if mode == match.CrossTree {
		widths = []struct {
			col   string
			width float64
		}{
			{"A", 8}, {"B", 22}, {"C", 36}, {"D", 60}, {"E", 60}, {"F", 14}, {"G", 10},
		}
	}
	for _, w := range widths[:len(headers)] {
		if err := f.SetColWidth(xlsxSheet, w.col, w.col, w.width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func writeXLSXGroup(f *excelize.File, mode match.Mode, row, groupNum int, g match.Group, opts XLSXOptions) (int, error) {
	startRow := row

	set := func(col, r int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, r)
		if err != nil {
			return fmt.Errorf("failed to compute cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
		return nil
	}

	if err := set(1, startRow, groupNum); err != nil {
		return 0, err
	}
	if err := set(3, startRow, g.Digest.Hex()); err != nil {
		return 0, err
	}

	// Size and count columns sit after the path column(s).
	sizeCol, countCol := 5, 6
	size := interface{}(g.Size)
	if mode == match.CrossTree {
		sizeCol, countCol = 6, 7
		size = FormatSize(g.Size)
	}
	if !g.SizeKnown {
		size = "unknown"
	}
	if err := set(sizeCol, startRow, size); err != nil {
		return 0, err
	}
	if err := set(countCol, startRow, g.Count()); err != nil {
		return 0, err
	}

	if mode == match.CrossTree {
		n := len(g.SideA)
		if len(g.SideB) > n {
			n = len(g.SideB)
		}
		for i := 0; i < n; i++ {
			if i < len(g.SideA) {
				if err := set(4, row, relTo(opts.Labels.RootA, g.SideA[i].Path)); err != nil {
					return 0, err
				}
			}
			if i < len(g.SideB) {
				if err := set(5, row, relTo(opts.Labels.RootB, g.SideB[i].Path)); err != nil {
					return 0, err
				}
			}
			row++
		}
	} else {
		for _, rec := range g.SideA {
			if err := set(4, row, relTo(opts.Labels.RootA, rec.Path)); err != nil {
				return 0, err
			}
			row++
		}
	}

	if opts.Thumbnails {
		embedThumbnail(f, startRow, g)
	}

	return row, nil
}

// embedThumbnail puts a preview of the group's first image file into the
// preview column. Best effort: any failure leaves the cell blank.
func embedThumbnail(f *excelize.File, row int, g match.Group) {
	var img string
	for _, rec := range append(append([]index.FileRecord(nil), g.SideA...), g.SideB...) {
		if IsImage(rec.Path) {
			img = rec.Path
			break
		}
	}
	if img == "" {
		return
	}

	data, err := Thumbnail(img)
	if err != nil {
		return
	}

	cell, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return
	}
	if err := f.AddPictureFromBytes(xlsxSheet, cell, &excelize.Picture{
		Extension: ".png",
		File:      data,
	}); err != nil {
		return
	}
	_ = f.SetRowHeight(xlsxSheet, row, 115)
}
