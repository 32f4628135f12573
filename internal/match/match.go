// Package match groups indexed files by content digest: duplicate sets
// within one tree, or content matches across two trees. Both operations work
// on already-built indexes and cannot fail.
package match

import (
	"filematch/internal/fingerprint"
	"filematch/internal/index"
)

// Mode says which operation produced a report.
type Mode string

const (
	// Duplicates groups files within a single tree; SideB is unused.
	Duplicates Mode = "duplicates"
	// CrossTree pairs files between two trees; both sides are populated.
	CrossTree Mode = "cross-tree"
)

// Group is one set of content-equal files. Size and SizeKnown are taken from
// the first SideA record, which represents the group.
type Group struct {
	Digest    fingerprint.Digest
	Size      int64
	SizeKnown bool
	SideA     []index.FileRecord
	SideB     []index.FileRecord
}

// Count returns the total number of files in the group.
func (g Group) Count() int {
	return len(g.SideA) + len(g.SideB)
}

// Report is the ordered grouping result handed to renderers. Groups are
// sorted by digest, so a report is reproducible across runs no matter how
// the underlying maps iterate.
type Report struct {
	Mode   Mode
	Groups []Group
}

// Empty reports whether no group was found. That is an informational
// condition, not an error.
func (r Report) Empty() bool {
	return len(r.Groups) == 0
}

// TotalFiles returns the number of file entries across all groups.
func (r Report) TotalFiles() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Count()
	}
	return n
}

// FindDuplicates selects every digest carried by more than one file. A
// digest with a single file is not a duplicate and never appears.
func FindDuplicates(ix *index.Index) Report {
	report := Report{Mode: Duplicates, Groups: make([]Group, 0)}

	for _, d := range ix.Digests() {
		recs, ok := ix.Records(d)
		if !ok || len(recs) < 2 {
			continue
		}
		report.Groups = append(report.Groups, newGroup(d, recs, nil))
	}
	return report
}

// MatchAcross pairs the two indexes on their shared digests. A digest
// present on only one side is dropped: this is an intersection, not a union.
func MatchAcross(a, b *index.Index) Report {
	report := Report{Mode: CrossTree, Groups: make([]Group, 0)}

	for _, d := range a.Digests() {
		recsA, ok := a.Records(d)
		if !ok {
			continue
		}
		recsB, ok := b.Records(d)
		if !ok {
			continue
		}
		report.Groups = append(report.Groups, newGroup(d, recsA, recsB))
	}
	return report
}

// newGroup copies the record slices so a report never aliases index
// internals. Records keep their scan-discovery order; there is no secondary
// sort within a side.
func newGroup(d fingerprint.Digest, sideA, sideB []index.FileRecord) Group {
	g := Group{
		Digest: d,
		SideA:  append([]index.FileRecord(nil), sideA...),
		SideB:  append([]index.FileRecord(nil), sideB...),
	}
	if len(g.SideA) > 0 {
		g.Size = g.SideA[0].Size
		g.SizeKnown = g.SideA[0].SizeKnown
	}
	return g
}
