package render

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"filematch/internal/fingerprint"
	"filematch/internal/index"
	"filematch/internal/match"
)

func digestOf(content string) fingerprint.Digest {
	return fingerprint.Digest(md5.Sum([]byte(content)))
}

func sampleDuplicates() match.Report {
	return match.Report{
		Mode: match.Duplicates,
		Groups: []match.Group{
			{
				Digest:    digestOf("X"),
				Size:      10,
				SizeKnown: true,
				SideA: []index.FileRecord{
					{Path: "/tree/a/one.png", Size: 10, SizeKnown: true},
					{Path: "/tree/b/two.png", Size: 10, SizeKnown: true},
				},
			},
		},
	}
}

func sampleCrossTree() match.Report {
	return match.Report{
		Mode: match.CrossTree,
		Groups: []match.Group{
			{
				Digest:    digestOf("X"),
				Size:      100,
				SizeKnown: true,
				SideA: []index.FileRecord{
					{Path: "/treeA/img1.png", Size: 100, SizeKnown: true},
				},
				SideB: []index.FileRecord{
					{Path: "/treeB/sub/picture.png", Size: 100, SizeKnown: true},
				},
			},
		},
	}
}

func TestConsole_Duplicates(t *testing.T) {
	var buf bytes.Buffer
	err := Console(&buf, sampleDuplicates(), Labels{RootA: "/tree"}, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, digestOf("X").Hex())
	assert.Contains(t, out, filepath.Join("a", "one.png"))
	assert.Contains(t, out, filepath.Join("b", "two.png"))
	assert.Contains(t, out, "1 groups, 2 files")
}

func TestConsole_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	err := Console(&buf, match.Report{Mode: match.Duplicates}, Labels{}, false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no duplicate files found")

	buf.Reset()
	err = Console(&buf, match.Report{Mode: match.CrossTree}, Labels{}, false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no matching files found")
}

func TestCSV_RowsAndRelativePaths(t *testing.T) {
	var buf bytes.Buffer
	err := CSV(&buf, sampleCrossTree(), Labels{RootA: "/treeA", RootB: "/treeB"})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"group", "digest", "side", "path", "size_bytes"}, rows[0])
	assert.Equal(t, []string{"1", digestOf("X").Hex(), "A", "img1.png", "100"}, rows[1])
	assert.Equal(t, []string{"1", digestOf("X").Hex(), "B", filepath.Join("sub", "picture.png"), "100"}, rows[2])
}

func TestCSV_UnknownSize(t *testing.T) {
	rep := sampleDuplicates()
	rep.Groups[0].SideA[0].SizeKnown = false

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, rep, Labels{RootA: "/tree"}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "unknown", rows[1][4])
}

func TestJSON_Structure(t *testing.T) {
	var buf bytes.Buffer
	err := JSON(&buf, sampleCrossTree(), Labels{RootA: "/treeA", RootB: "/treeB"})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "cross-tree", decoded["mode"])
	groups, ok := decoded["groups"].([]interface{})
	require.True(t, ok)
	require.Len(t, groups, 1)

	group := groups[0].(map[string]interface{})
	assert.Equal(t, digestOf("X").Hex(), group["digest"])
	assert.Equal(t, float64(2), group["count"])
}

func TestJSONFile_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "nested", "out", "report.json")

	require.NoError(t, JSONFile(outPath, sampleDuplicates(), Labels{RootA: "/tree"}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), digestOf("X").Hex())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.00 KB", FormatSize(1024))
	assert.Equal(t, "1.50 MB", FormatSize(3*1024*1024/2))
	assert.Equal(t, "2.00 GB", FormatSize(2*1024*1024*1024))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("/a/photo.PNG"))
	assert.True(t, IsImage("pic.jpeg"))
	assert.True(t, IsImage("scan.webp"))
	assert.False(t, IsImage("notes.txt"))
	assert.False(t, IsImage("archive.png.gz"))
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestThumbnail_ScalesDown(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "big.png")
	writeTestPNG(t, src, 600, 300)

	data, err := Thumbnail(src)
	require.NoError(t, err)

	thumb, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := thumb.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 150)
	assert.LessOrEqual(t, bounds.Dy(), 150)
	assert.Equal(t, 150, bounds.Dx(), "landscape image should fill the width")
}

func TestThumbnail_NeverUpscales(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "small.png")
	writeTestPNG(t, src, 40, 20)

	data, err := Thumbnail(src)
	require.NoError(t, err)

	thumb, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, thumb.Bounds().Dx())
	assert.Equal(t, 20, thumb.Bounds().Dy())
}

func TestThumbnail_NotAnImage(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "fake.png")
	require.NoError(t, os.WriteFile(src, []byte("not a png"), 0644))

	_, err := Thumbnail(src)
	assert.Error(t, err)
}

func TestXLSX_WritesWorkbook(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "report.xlsx")

	err := XLSX(outPath, sampleCrossTree(), XLSXOptions{
		Labels: Labels{RootA: "/treeA", RootB: "/treeB"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	digest, err := f.GetCellValue(xlsxSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, digestOf("X").Hex(), digest)

	pathA, err := f.GetCellValue(xlsxSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "img1.png", pathA)

	count, err := f.GetCellValue(xlsxSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}

func TestXLSX_DuplicatesWithThumbnail(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "photo.png")
	writeTestPNG(t, imgPath, 200, 200)

	rep := match.Report{
		Mode: match.Duplicates,
		Groups: []match.Group{
			{
				Digest:    digestOf("img"),
				Size:      100,
				SizeKnown: true,
				SideA: []index.FileRecord{
					{Path: imgPath, Size: 100, SizeKnown: true},
					{Path: filepath.Join(tmpDir, "copy.png"), Size: 100, SizeKnown: true},
				},
			},
		},
	}

	outPath := filepath.Join(tmpDir, "dupes.xlsx")
	err := XLSX(outPath, rep, XLSXOptions{
		Labels:     Labels{RootA: tmpDir},
		Thumbnails: true,
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	pics, err := f.GetPictures(xlsxSheet, "B2")
	require.NoError(t, err)
	assert.NotEmpty(t, pics)
}
