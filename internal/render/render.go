// Package render formats a match report for people and files. Renderers are
// consumers of the report model: they compute relative paths against the
// scanned roots, format sizes, and persist output, and nothing in the core
// packages depends on them.
package render

import (
	"fmt"
	"path/filepath"

	"filematch/internal/index"
)

// Labels carries the scanned root directories, so renderers can show paths
// relative to the tree they came from. RootB is empty in duplicate mode.
type Labels struct {
	RootA string
	RootB string
}

// relTo returns path relative to root, or the path unchanged when it cannot
// be made relative.
func relTo(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// FormatSize renders a byte count in human units.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// sizeBytes renders a record's exact size, or "unknown" when the size lookup
// failed at scan time.
func sizeBytes(rec index.FileRecord) string {
	if !rec.SizeKnown {
		return "unknown"
	}
	return fmt.Sprintf("%d", rec.Size)
}
