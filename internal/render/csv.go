package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"filematch/internal/match"
)

// CSV writes one row per file: group number, digest, side, path relative to
// its root, and exact size in bytes (or "unknown").
func CSV(w io.Writer, rep match.Report, labels Labels) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"group", "digest", "side", "path", "size_bytes"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, g := range rep.Groups {
		group := fmt.Sprintf("%d", i+1)
		for _, rec := range g.SideA {
			if err := cw.Write([]string{group, g.Digest.Hex(), "A", relTo(labels.RootA, rec.Path), sizeBytes(rec)}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		for _, rec := range g.SideB {
			if err := cw.Write([]string{group, g.Digest.Hex(), "B", relTo(labels.RootB, rec.Path), sizeBytes(rec)}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
