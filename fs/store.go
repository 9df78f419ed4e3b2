// Package fs provides file-based storage for the JSON datasets and
// discovery of extraction inputs.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/fidata"
)

// Ensure DatasetStore implements fidata.DatasetStore at compile time.
var _ fidata.DatasetStore = (*DatasetStore)(nil)

// DatasetStore reads and writes the datasets as JSON files in one directory.
// Each file is written to a temporary file first and renamed into place, so
// readers never observe a partially written dataset.
type DatasetStore struct {
	dir string
}

// NewDatasetStore creates a store rooted at dir.
func NewDatasetStore(dir string) *DatasetStore {
	return &DatasetStore{dir: dir}
}

// Path returns the file a dataset kind is stored in.
func (s *DatasetStore) Path(kind fidata.DatasetKind) string {
	return filepath.Join(s.dir, kind.Filename())
}

func (s *DatasetStore) Load(ctx context.Context) (*fidata.Dataset, error) {
	d := &fidata.Dataset{}
	for _, kind := range fidata.DatasetKinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.ReadRaw(kind)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		if err := Decode(d, kind, data); err != nil {
			return nil, fmt.Errorf("%s: %w", kind.Filename(), err)
		}
	}
	return d, nil
}

// ReadRaw returns the bytes of a dataset file.
func (s *DatasetStore) ReadRaw(kind fidata.DatasetKind) ([]byte, error) {
	return os.ReadFile(s.Path(kind))
}

func (s *DatasetStore) Save(ctx context.Context, d *fidata.Dataset, kinds ...fidata.DatasetKind) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := Encode(d, kind)
		if err != nil {
			return err
		}
		if err := writeAtomic(s.Path(kind), data); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Encode serializes one dataset of d as a 2-space indented JSON array.
// Nil collections encode as empty arrays.
func Encode(d *fidata.Dataset, kind fidata.DatasetKind) ([]byte, error) {
	var v any
	switch kind {
	case fidata.DatasetFeatures:
		v = nonNil(d.Features)
	case fidata.DatasetIssues:
		v = nonNil(d.Issues)
	case fidata.DatasetReleases:
		v = nonNil(d.Releases)
	case fidata.DatasetDefects:
		v = nonNil(d.Defects)
	default:
		return nil, fidata.Errorf(fidata.EINVALID, "unknown dataset %q", kind)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses data into the collection of d selected by kind.
func Decode(d *fidata.Dataset, kind fidata.DatasetKind, data []byte) error {
	switch kind {
	case fidata.DatasetFeatures:
		return json.Unmarshal(data, &d.Features)
	case fidata.DatasetIssues:
		return json.Unmarshal(data, &d.Issues)
	case fidata.DatasetReleases:
		return json.Unmarshal(data, &d.Releases)
	case fidata.DatasetDefects:
		return json.Unmarshal(data, &d.Defects)
	}
	return fidata.Errorf(fidata.EINVALID, "unknown dataset %q", kind)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
