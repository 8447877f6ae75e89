package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// compression suffixes understood by ReadFile.
const (
	extGzip = ".gz"
	extZstd = ".zst"
)

// BaseExt returns the file's extension ignoring a compression suffix:
// "week1.csv.gz" yields ".csv".
func BaseExt(path string) string {
	return strings.ToLower(filepath.Ext(TrimCompression(filepath.Base(path))))
}

// TrimCompression strips a .gz or .zst suffix.
func TrimCompression(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == extGzip || ext == extZstd {
		return name[:len(name)-len(ext)]
	}
	return name
}

// IsJournal reports whether name is a JSON or CSV file, optionally
// compressed.
func IsJournal(name string) bool {
	ext := BaseExt(name)
	return ext == ".json" || ext == ".csv"
}

// ReadFile returns the decompressed contents of path.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case extGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	case extZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
