// Package index holds the in-memory mapping from content digest to the files
// carrying that content. An Index is populated by a single writer during a
// scan and is read-only afterwards.
package index

import (
	"sort"

	"filematch/internal/fingerprint"
)

// FileRecord describes one scanned file. Size is only meaningful when
// SizeKnown is true; a metadata lookup can fail even when the content itself
// was readable.
type FileRecord struct {
	Path      string
	Size      int64
	SizeKnown bool
}

// Index maps a digest to the files with that content, in the order they were
// discovered during traversal.
type Index struct {
	records map[fingerprint.Digest][]FileRecord
}

func New() *Index {
	return &Index{records: make(map[fingerprint.Digest][]FileRecord)}
}

// Add appends rec to the digest's record list, preserving insertion order.
func (ix *Index) Add(d fingerprint.Digest, rec FileRecord) {
	ix.records[d] = append(ix.records[d], rec)
}

// Records returns the files recorded under d in discovery order. The second
// return value reports whether the digest is present at all, so an absent
// digest is never confused with an empty list.
func (ix *Index) Records(d fingerprint.Digest) ([]FileRecord, bool) {
	recs, ok := ix.records[d]
	return recs, ok
}

// Digests returns every digest in the index sorted bytewise, so iteration is
// deterministic regardless of map order.
func (ix *Index) Digests() []fingerprint.Digest {
	out := make([]fingerprint.Digest, 0, len(ix.records))
	for d := range ix.records {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Compare(out[j]) < 0
	})
	return out
}

// Len returns the number of distinct digests.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Files returns the total number of records across all digests.
func (ix *Index) Files() int {
	n := 0
	for _, recs := range ix.records {
		n += len(recs)
	}
	return n
}
