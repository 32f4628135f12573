// Package fingerprint computes content digests for files. Two files have the
// same digest exactly when they have the same bytes; names, paths and
// filesystem metadata never influence the result.
package fingerprint

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const chunkSize = 4096 // streaming read size

// probeSize is how much of a file the head probe reads.
const probeSize = 64 * 1024

// Digest is a 128-bit content fingerprint. It is a grouping key, not an
// integrity check; MD5 collisions are treated as content equality.
type Digest [md5.Size]byte

// Hex returns the lowercase hex form of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

// Compare orders digests bytewise, which matches lexicographic order on the
// hex form.
func (d Digest) Compare(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

// File computes the digest of the file at path, reading in fixed-size chunks
// so memory stays bounded for large files. The file handle is released on
// every return path. Any read failure means the caller must exclude the file;
// a partial digest is never returned.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, chunkSize)

	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Digest{}, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// HeadProbe returns the xxHash64 of the first 64KB of the file. It is a cheap
// candidate filter for duplicate detection: files whose probes differ cannot
// have equal content, so they never need a full digest. A probe match proves
// nothing on its own.
func HeadProbe(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, io.LimitReader(f, probeSize)); err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	return h.Sum64(), nil
}
