package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filematch/internal/index"
	"filematch/internal/match"
)

type jsonFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	SizeKnown bool   `json:"size_known"`
}

type jsonGroup struct {
	Digest    string     `json:"digest"`
	SizeBytes int64      `json:"size_bytes"`
	SizeKnown bool       `json:"size_known"`
	Count     int        `json:"count"`
	SideA     []jsonFile `json:"side_a"`
	SideB     []jsonFile `json:"side_b,omitempty"`
}

type jsonReport struct {
	Mode   string      `json:"mode"`
	RootA  string      `json:"root_a"`
	RootB  string      `json:"root_b,omitempty"`
	Groups []jsonGroup `json:"groups"`
}

func toJSONReport(rep match.Report, labels Labels) jsonReport {
	out := jsonReport{
		Mode:   string(rep.Mode),
		RootA:  labels.RootA,
		RootB:  labels.RootB,
		Groups: make([]jsonGroup, 0, len(rep.Groups)),
	}
	for _, g := range rep.Groups {
		out.Groups = append(out.Groups, jsonGroup{
			Digest:    g.Digest.Hex(),
			SizeBytes: g.Size,
			SizeKnown: g.SizeKnown,
			Count:     g.Count(),
			SideA:     toJSONFiles(g.SideA, labels.RootA),
			SideB:     toJSONFiles(g.SideB, labels.RootB),
		})
	}
	return out
}

func toJSONFiles(recs []index.FileRecord, root string) []jsonFile {
	if len(recs) == 0 {
		return nil
	}
	out := make([]jsonFile, 0, len(recs))
	for _, rec := range recs {
		out = append(out, jsonFile{
			Path:      relTo(root, rec.Path),
			SizeBytes: rec.Size,
			SizeKnown: rec.SizeKnown,
		})
	}
	return out
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, rep match.Report, labels Labels) error {
	content, err := json.MarshalIndent(toJSONReport(rep, labels), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// JSONFile writes the report as indented JSON to path, creating the output
// directory when needed.
func JSONFile(path string, rep match.Report, labels Labels) error {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := JSON(f, rep, labels); err != nil {
		return err
	}
	return f.Close()
}
