package fs

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/fidata"
)

// inputExts lists the accepted input extensions, preferred first.
var inputExts = []string{".pdf", ".txt"}

// FindInputs returns the input documents of a kind in dir, sorted by name.
// Matching names look like "fastiron-08090-featuresupportmatrix.pdf" or
// "fastiron-10020b_cd3-releasenotes-1.0.txt". When a PDF and a text dump
// share a stem only the PDF is returned.
func FindInputs(dir string, kind fidata.DocumentKind) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "fastiron-*-"+string(kind)+"*"))
	if err != nil {
		return nil, err
	}

	byStem := make(map[string]string)
	for _, m := range matches {
		ext := strings.ToLower(filepath.Ext(m))
		rank := slices.Index(inputExts, ext)
		if rank < 0 {
			continue
		}
		stem := strings.TrimSuffix(m, filepath.Ext(m))
		if prev, ok := byStem[stem]; ok {
			if slices.Index(inputExts, strings.ToLower(filepath.Ext(prev))) <= rank {
				continue
			}
		}
		byStem[stem] = m
	}

	paths := make([]string, 0, len(byStem))
	for _, p := range byStem {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths, nil
}

// IsText reports whether path is a pre-extracted text dump.
func IsText(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
