package fingerprint

import (
	"crypto/md5"
	"os"
	"path/filepath"
	"testing"
)

func TestFile_SmallFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	content := []byte("Hello, World!")
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	d, err := File(testFile)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	expected := Digest(md5.Sum(content))
	if d != expected {
		t.Errorf("Digest mismatch: expected %s, got %s", expected.Hex(), d.Hex())
	}
}

func TestFile_LargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "large.bin")

	// Large enough to need many chunked reads.
	size := 1024 * 1024
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 256)
	}

	if err := os.WriteFile(testFile, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	d, err := File(testFile)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	expected := Digest(md5.Sum(data))
	if d != expected {
		t.Errorf("Digest mismatch: expected %s, got %s", expected.Hex(), d.Hex())
	}
}

func TestFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "empty.txt")

	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	d, err := File(testFile)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	expected := Digest(md5.Sum(nil))
	if d != expected {
		t.Errorf("Empty file digest mismatch: expected %s, got %s", expected.Hex(), d.Hex())
	}
}

func TestFile_NonExistent(t *testing.T) {
	_, err := File("/nonexistent/file.txt")
	if err == nil {
		t.Error("File should return error for nonexistent file")
	}
}

func TestFile_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	if err := os.WriteFile(testFile, []byte("same bytes"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	first, err := File(testFile)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	second, err := File(testFile)
	if err != nil {
		t.Fatalf("File failed on second call: %v", err)
	}

	if first != second {
		t.Errorf("Fingerprinting the same file twice should match: %s vs %s", first.Hex(), second.Hex())
	}
}

func TestFile_ContentIndependentOfName(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("identical bytes")

	fileA := filepath.Join(tmpDir, "img1.png")
	fileB := filepath.Join(tmpDir, "nested", "picture.png")

	if err := os.MkdirAll(filepath.Dir(fileB), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(fileA, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(fileB, content, 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	digestA, err := File(fileA)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	digestB, err := File(fileB)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	if digestA != digestB {
		t.Errorf("Same content should yield same digest regardless of name/path: %s vs %s", digestA.Hex(), digestB.Hex())
	}
}

func TestDigest_Hex(t *testing.T) {
	d := Digest(md5.Sum([]byte("x")))

	if len(d.Hex()) != 32 {
		t.Errorf("Expected 32 hex characters, got %d", len(d.Hex()))
	}
	if d.Hex() != d.String() {
		t.Error("String should match Hex")
	}
}

func TestDigest_CompareMatchesHexOrder(t *testing.T) {
	a := Digest(md5.Sum([]byte("a")))
	b := Digest(md5.Sum([]byte("b")))

	byteOrder := a.Compare(b)
	hexLess := a.Hex() < b.Hex()

	if (byteOrder < 0) != hexLess {
		t.Error("Bytewise order should match lexicographic order on hex form")
	}
	if a.Compare(a) != 0 {
		t.Error("A digest should compare equal to itself")
	}
}

func TestHeadProbe_EqualContent(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("probe me")

	fileA := filepath.Join(tmpDir, "a.bin")
	fileB := filepath.Join(tmpDir, "b.bin")
	if err := os.WriteFile(fileA, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(fileB, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	probeA, err := HeadProbe(fileA)
	if err != nil {
		t.Fatalf("HeadProbe failed: %v", err)
	}
	probeB, err := HeadProbe(fileB)
	if err != nil {
		t.Fatalf("HeadProbe failed: %v", err)
	}

	if probeA != probeB {
		t.Errorf("Equal content must yield equal probes: %d vs %d", probeA, probeB)
	}
}

func TestHeadProbe_DifferentContent(t *testing.T) {
	tmpDir := t.TempDir()

	fileA := filepath.Join(tmpDir, "a.bin")
	fileB := filepath.Join(tmpDir, "b.bin")
	if err := os.WriteFile(fileA, []byte("content one"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(fileB, []byte("content two"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	probeA, err := HeadProbe(fileA)
	if err != nil {
		t.Fatalf("HeadProbe failed: %v", err)
	}
	probeB, err := HeadProbe(fileB)
	if err != nil {
		t.Fatalf("HeadProbe failed: %v", err)
	}

	if probeA == probeB {
		t.Error("Different head bytes should yield different probes")
	}
}

func TestHeadProbe_NonExistent(t *testing.T) {
	_, err := HeadProbe("/nonexistent/file.txt")
	if err == nil {
		t.Error("HeadProbe should return error for nonexistent file")
	}
}
