package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/crease/pkg/core"
)

// FileStatus is the current state of one source file and what the previous
// load saw.
type FileStatus struct {
	Table    string
	Path     string
	Hash     string
	Size     int64
	Previous *core.SourceFile
}

// Changed reports whether the file content differs from the previous load.
// A file never seen before is not considered changed.
func (f FileStatus) Changed() bool {
	return f.Previous != nil && f.Previous.ContentHash != f.Hash
}

// Inspect hashes each local file in files (table -> path) and looks up the
// previous hash in store. Remote paths are skipped. store may be nil.
func Inspect(files map[string]string, store core.LoadStore) ([]FileStatus, error) {
	tables := make([]string, 0, len(files))
	for table := range files {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var statuses []FileStatus
	for _, table := range tables {
		path := files[table]
		if strings.Contains(path, "://") {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		hash, size, err := HashFile(path)
		if err != nil {
			return nil, err
		}
		st := FileStatus{Table: table, Path: path, Hash: hash, Size: size}

		if store != nil {
			prev, err := store.GetSourceFile(path)
			if err != nil {
				return nil, fmt.Errorf("lookup %s: %w", path, err)
			}
			st.Previous = prev
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// HashFile returns the hex sha256 of a file and its size.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
