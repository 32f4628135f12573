package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"filematch/internal/match"
)

// Console writes a human-readable listing of the report. When colored is
// false every group header is plain text, so output stays clean when piped.
func Console(w io.Writer, rep match.Report, labels Labels, colored bool) error {
	if rep.Empty() {
		return emptyMessage(w, rep.Mode)
	}

	header := fmt.Sprintf
	if colored {
		header = color.New(color.FgCyan, color.Bold).Sprintf
	}

	for i, g := range rep.Groups {
		size := "size unknown"
		if g.SizeKnown {
			size = FormatSize(g.Size)
		}
		if _, err := fmt.Fprintln(w, header("group %d  %s  %s  %d files", i+1, g.Digest.Hex(), size, g.Count())); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, rec := range g.SideA {
			fmt.Fprintf(tw, "  A\t%s\t%s\n", relTo(labels.RootA, rec.Path), sizeBytes(rec))
		}
		for _, rec := range g.SideB {
			fmt.Fprintf(tw, "  B\t%s\t%s\n", relTo(labels.RootB, rec.Path), sizeBytes(rec))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d groups, %d files\n", len(rep.Groups), rep.TotalFiles())
	return err
}

func emptyMessage(w io.Writer, mode match.Mode) error {
	msg := "no matching files found"
	if mode == match.Duplicates {
		msg = "no duplicate files found"
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}
