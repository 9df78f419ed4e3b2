package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/fidata"
	"github.com/google/uuid"
)

// Import records one load of a dataset into the index.
type Import struct {
	ID          string             `json:"id"`
	Kind        fidata.DatasetKind `json:"kind"`
	ContentHash string             `json:"content_hash"`
	Records     int                `json:"records"`
	ImportedAt  time.Time          `json:"imported_at"`
	// Skipped is set when the content matched the previous import.
	Skipped bool `json:"skipped"`
}

// Indexer loads datasets into the index.
type Indexer struct {
	db *DB
}

// NewIndexer creates a new Indexer.
func NewIndexer(db *DB) *Indexer {
	return &Indexer{db: db}
}

// indexedKinds are the datasets held in the index. Defects are derived from
// issues on lookup.
var indexedKinds = []fidata.DatasetKind{fidata.DatasetFeatures, fidata.DatasetIssues, fidata.DatasetReleases}

// Import replaces the indexed records of every dataset whose content changed
// since its last import. Unchanged datasets are skipped.
func (ix *Indexer) Import(ctx context.Context, d *fidata.Dataset) ([]*Import, error) {
	var imports []*Import
	for _, kind := range indexedKinds {
		imp, err := ix.importKind(ctx, d, kind)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", kind, err)
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

func (ix *Indexer) importKind(ctx context.Context, d *fidata.Dataset, kind fidata.DatasetKind) (*Import, error) {
	var content any
	var records int
	switch kind {
	case fidata.DatasetFeatures:
		content, records = d.Features, len(d.Features)
	case fidata.DatasetIssues:
		content, records = d.Issues, len(d.Issues)
	case fidata.DatasetReleases:
		content, records = d.Releases, len(d.Releases)
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	imp := &Import{
		ID:          uuid.New().String(),
		Kind:        kind,
		ContentHash: hashContent(raw),
		Records:     records,
		ImportedAt:  time.Now().UTC(),
	}

	last, err := ix.lastImport(ctx, kind)
	if err != nil {
		return nil, err
	}
	if last != nil && last.ContentHash == imp.ContentHash {
		last.Skipped = true
		return last, nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM search_content WHERE kind = ?", searchKind(kind)); err != nil {
		return nil, err
	}

	switch kind {
	case fidata.DatasetFeatures:
		err = insertFeatures(ctx, tx, d.Features)
	case fidata.DatasetIssues:
		err = insertIssues(ctx, tx, d.Issues)
	case fidata.DatasetReleases:
		err = insertReleases(ctx, tx, d.Releases)
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, kind, content_hash, records, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, imp.ID, string(imp.Kind), imp.ContentHash, imp.Records, imp.ImportedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	return imp, tx.Commit()
}

func (ix *Indexer) lastImport(ctx context.Context, kind fidata.DatasetKind) (*Import, error) {
	imps, err := ix.FindImports(ctx, &kind, 1)
	if err != nil || len(imps) == 0 {
		return nil, err
	}
	return imps[0], nil
}

// FindImports returns imports newest first, optionally of one kind.
func (ix *Indexer) FindImports(ctx context.Context, kind *fidata.DatasetKind, limit int) ([]*Import, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, kind, content_hash, records, imported_at FROM imports WHERE 1=1")
	if kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*kind))
	}
	query.WriteString(" ORDER BY imported_at DESC, rowid DESC")
	appendPagination(&query, &args, limit, 0)

	rows, err := ix.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []*Import
	for rows.Next() {
		var imp Import
		var kind, importedAt string
		if err := rows.Scan(&imp.ID, &kind, &imp.ContentHash, &imp.Records, &importedAt); err != nil {
			return nil, err
		}
		imp.Kind = fidata.DatasetKind(kind)
		if imp.ImportedAt, err = parseRFC3339(importedAt, "imported_at"); err != nil {
			return nil, err
		}
		imports = append(imports, &imp)
	}
	return imports, rows.Err()
}

func searchKind(kind fidata.DatasetKind) fidata.SearchKind {
	switch kind {
	case fidata.DatasetFeatures:
		return fidata.SearchFeature
	case fidata.DatasetIssues:
		return fidata.SearchIssue
	}
	return fidata.SearchRelease
}

func insertSearch(ctx context.Context, tx *sql.Tx, kind fidata.SearchKind, ref, title, version, body string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO search_content (kind, ref, title, version, body)
		VALUES (?, ?, ?, ?, ?)
	`, string(kind), ref, title, version, body)
	return err
}

func insertFeatures(ctx context.Context, tx *sql.Tx, features []*fidata.Feature) error {
	// feature_platforms rows go with them through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM features"); err != nil {
		return err
	}
	for _, f := range features {
		platforms, err := encodeJSON(f.Platforms)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO features (name, category, version, platforms) VALUES (?, ?, ?, ?)
		`, f.Name, f.Category, f.Version, platforms)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for p, v := range f.Platforms {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO feature_platforms (feature_id, platform, introduced) VALUES (?, ?, ?)
			`, id, p, v); err != nil {
				return err
			}
		}
		body := f.Category + " " + strings.Join(f.SupportedPlatforms(), " ")
		if err := insertSearch(ctx, tx, fidata.SearchFeature, f.Name, f.Name, f.Version, body); err != nil {
			return err
		}
	}
	return nil
}

func insertIssues(ctx context.Context, tx *sql.Tx, issues []*fidata.Issue) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM issues"); err != nil {
		return err
	}
	for _, i := range issues {
		foundIn := i.FoundIn
		if foundIn == nil {
			foundIn = []string{}
		}
		found, err := encodeJSON(foundIn)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO issues (issue_id, symptom, condition, workaround, recovery, probability, found_in, technology, status, fixed_in, reported_version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, i.ID, i.Symptom, i.Condition, i.Workaround, i.Recovery, i.Probability, found, i.Technology,
			string(i.Status), i.FixedIn, i.ReportedVersion); err != nil {
			return err
		}
		title := strings.TrimSpace(i.ID + " " + i.Technology)
		body := strings.Join([]string{i.Symptom, i.Condition, i.Workaround, i.Recovery}, " ")
		if err := insertSearch(ctx, tx, fidata.SearchIssue, i.ID, title, i.ReportedVersion, body); err != nil {
			return err
		}
	}
	return nil
}

func insertReleases(ctx context.Context, tx *sql.Tx, releases []*fidata.Release) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM releases"); err != nil {
		return err
	}
	for _, r := range releases {
		data, err := encodeJSON(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO releases (version, data) VALUES (?, ?)", r.Version, data); err != nil {
			return err
		}
		for _, n := range r.Notes() {
			ref := r.Version + "/" + string(n.Category)
			if err := insertSearch(ctx, tx, fidata.SearchRelease, ref, string(n.Category), r.Version, n.Description); err != nil {
				return err
			}
		}
	}
	return nil
}
