// Package scan turns a directory tree into a digest index. Fingerprinting
// runs on a bounded worker pool; the index itself is always built by a single
// goroutine, in traversal order, so repeated scans of an unchanged tree
// produce identical indexes regardless of worker scheduling.
package scan

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"filematch/internal/fingerprint"
	"filematch/internal/index"
	"filematch/internal/progress"
	"filematch/internal/walker"
)

// FileReadError records one file that could not be read during a scan. It is
// collected, not propagated: a single unreadable file never aborts a scan.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// Options configures a scan.
type Options struct {
	// Exclude holds glob patterns for files and directories to skip.
	Exclude []string
	// Workers bounds concurrent fingerprinting; values below 1 mean 1.
	Workers int
	// Reporter receives progress events; nil means no reporting.
	Reporter progress.Reporter
}

// Result is the outcome of a completed scan. Index only ever contains files
// whose content was actually read; everything that failed is in Skipped.
type Result struct {
	Index *index.Index
	// Enumerated counts the regular files found by the walk.
	Enumerated int
	// Skipped lists files excluded because they could not be read.
	Skipped []*FileReadError
	// WalkErrors lists non-fatal traversal errors (unreadable directories).
	WalkErrors []error
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o Options) reporter() progress.Reporter {
	if o.Reporter == nil {
		return progress.Nop{}
	}
	return o.Reporter
}

// Scan fingerprints every regular file under root and returns the resulting
// index. It fails only for an invalid root or a cancelled context.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	walked, err := walker.Walk(root, opts.Exclude)
	if err != nil {
		return nil, err
	}

	rep := opts.reporter()
	rep.Start(len(walked.Files))
	defer rep.Finish()

	result := &Result{
		Index:      index.New(),
		Enumerated: len(walked.Files),
		WalkErrors: walked.Errors,
	}

	if err := fingerprintInto(ctx, walked.Files, opts.workers(), rep, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ScanCandidates is Scan restricted to files that can still have a duplicate
// within the tree. Files alone in their size bucket, and files alone in
// their head-probe bucket, are provably unique and are dropped without ever
// being fully read. The resulting index yields the same duplicate groups as
// a full scan, it just omits the singletons a full index would carry.
func ScanCandidates(ctx context.Context, root string, opts Options) (*Result, error) {
	walked, err := walker.Walk(root, opts.Exclude)
	if err != nil {
		return nil, err
	}

	rep := opts.reporter()
	rep.Start(len(walked.Files))
	defer rep.Finish()

	result := &Result{
		Index:      index.New(),
		Enumerated: len(walked.Files),
		WalkErrors: walked.Errors,
	}

	candidates, err := prefilter(ctx, walked.Files, opts.workers(), rep, result)
	if err != nil {
		return nil, err
	}

	if err := fingerprintInto(ctx, candidates, opts.workers(), rep, result); err != nil {
		return nil, err
	}
	return result, nil
}

type outcome struct {
	digest fingerprint.Digest
	err    error
}

// fingerprintInto hashes files on the worker pool and appends them to
// result.Index in enumeration order. Worker completion order never leaks
// into the index: each worker writes only its own slot.
func fingerprintInto(ctx context.Context, files []walker.FileInfo, workers int, rep progress.Reporter, result *Result) error {
	if len(files) == 0 {
		return ctx.Err()
	}

	slots := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range files {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			d, err := fingerprint.File(files[i].Path)
			slots[i] = outcome{digest: d, err: err}
			rep.FileDone(files[i].Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, f := range files {
		if slots[i].err != nil {
			result.Skipped = append(result.Skipped, &FileReadError{Path: f.Path, Err: slots[i].err})
			continue
		}
		result.Index.Add(slots[i].digest, index.FileRecord{
			Path:      f.Path,
			Size:      f.Size,
			SizeKnown: f.SizeKnown,
		})
	}
	return nil
}

// probeKey buckets files that could still be content-equal. Size is part of
// the key only when every file has a known size; an unknown size must not
// separate a file from its true duplicate.
type probeKey struct {
	size int64
	sum  uint64
}

// prefilter returns the files that share both a size bucket and a head-probe
// bucket with at least one other file. Probe read failures surface as
// skipped files, the same as a fingerprint failure would.
func prefilter(ctx context.Context, files []walker.FileInfo, workers int, rep progress.Reporter, result *Result) ([]walker.FileInfo, error) {
	sizeKnown := true
	for _, f := range files {
		if !f.SizeKnown {
			sizeKnown = false
			break
		}
	}

	// Stage 1: size buckets. Only valid when every size is known.
	probeSet := files
	if sizeKnown {
		bySize := make(map[int64][]int)
		for i, f := range files {
			bySize[f.Size] = append(bySize[f.Size], i)
		}
		keep := make(map[int]bool)
		for _, idxs := range bySize {
			if len(idxs) > 1 {
				for _, i := range idxs {
					keep[i] = true
				}
			}
		}
		survivors := make([]walker.FileInfo, 0, len(files))
		for i, f := range files {
			if keep[i] {
				survivors = append(survivors, f)
			} else {
				rep.FileDone(f.Path)
			}
		}
		probeSet = survivors
	}

	// Stage 2: head-probe buckets over the survivors.
	type probeOutcome struct {
		key probeKey
		err error
	}
	slots := make([]probeOutcome, len(probeSet))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range probeSet {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			sum, err := fingerprint.HeadProbe(probeSet[i].Path)
			key := probeKey{sum: sum}
			if sizeKnown {
				key.size = probeSet[i].Size
			}
			slots[i] = probeOutcome{key: key, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byProbe := make(map[probeKey][]int)
	for i := range probeSet {
		if slots[i].err != nil {
			continue
		}
		byProbe[slots[i].key] = append(byProbe[slots[i].key], i)
	}

	keep := make(map[int]bool)
	for _, idxs := range byProbe {
		if len(idxs) > 1 {
			for _, i := range idxs {
				keep[i] = true
			}
		}
	}

	candidates := make([]walker.FileInfo, 0, len(probeSet))
	for i, f := range probeSet {
		switch {
		case slots[i].err != nil:
			result.Skipped = append(result.Skipped, &FileReadError{Path: f.Path, Err: slots[i].err})
			rep.FileDone(f.Path)
		case keep[i]:
			candidates = append(candidates, f)
		default:
			rep.FileDone(f.Path)
		}
	}
	return candidates, nil
}
