package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	"legacyvault/pkg/platform/sentinel"
	txcontext "legacyvault/pkg/platform/tx"
)

// Schema creates the wills and will_contents tables.
//
//go:embed schema.sql
var Schema string

// PostgresStore implements both the record and the content store on one
// database. When the context carries a transaction (see TxRunner) every
// statement joins it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) conn(ctx context.Context) txcontext.Querier {
	return txcontext.Conn(ctx, s.db)
}

const recordColumns = `id, owner_id, version, status, jurisdiction, language, will_type,
	preferences, data, validation, suggestions, execution_instructions, disclaimer,
	created_at, updated_at`

// Save upserts the record. is_valid, completeness_score and missing_fields
// duplicate parts of the validation document so they can be queried.
func (s *PostgresStore) Save(ctx context.Context, rec models.WillRecord) error {
	prefs, err := json.Marshal(rec.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("marshal will data: %w", err)
	}
	validation, err := json.Marshal(rec.Validation)
	if err != nil {
		return fmt.Errorf("marshal validation: %w", err)
	}
	suggestions, err := json.Marshal(rec.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	instructions, err := json.Marshal(rec.ExecutionInstructions)
	if err != nil {
		return fmt.Errorf("marshal execution instructions: %w", err)
	}
	missing := rec.Validation.MissingRequiredFields
	if missing == nil {
		missing = []string{}
	}

	query := `
		INSERT INTO wills (` + recordColumns + `, is_valid, completeness_score, missing_fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			version = EXCLUDED.version,
			status = EXCLUDED.status,
			language = EXCLUDED.language,
			will_type = EXCLUDED.will_type,
			preferences = EXCLUDED.preferences,
			data = EXCLUDED.data,
			validation = EXCLUDED.validation,
			suggestions = EXCLUDED.suggestions,
			execution_instructions = EXCLUDED.execution_instructions,
			disclaimer = EXCLUDED.disclaimer,
			updated_at = EXCLUDED.updated_at,
			is_valid = EXCLUDED.is_valid,
			completeness_score = EXCLUDED.completeness_score,
			missing_fields = EXCLUDED.missing_fields
	`
	_, err = s.conn(ctx).ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(rec.OwnerID),
		rec.Version,
		string(rec.Status),
		rec.Jurisdiction.String(),
		rec.Language,
		string(rec.WillType.StorageType()),
		prefs,
		data,
		validation,
		suggestions,
		instructions,
		rec.Disclaimer,
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.Validation.IsValid,
		rec.Validation.CompletenessScore,
		pq.Array(missing),
	)
	if err != nil {
		return fmt.Errorf("upsert will: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, willID id.WillID) (models.WillRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM wills WHERE id = $1`
	rec, err := scanRecord(s.conn(ctx).QueryRowContext(ctx, query, uuid.UUID(willID)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.WillRecord{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.WillRecord{}, fmt.Errorf("find will: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner id.UserID) ([]models.WillRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM wills WHERE owner_id = $1 ORDER BY id`
	rows, err := s.conn(ctx).QueryContext(ctx, query, uuid.UUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list wills: %w", err)
	}
	defer rows.Close()

	var out []models.WillRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan will: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wills: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MarkDeleting(ctx context.Context, willID id.WillID) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE wills SET status = $2 WHERE id = $1`,
		uuid.UUID(willID), string(models.StatusDeleting))
	if err != nil {
		return fmt.Errorf("mark will deleting: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, willID id.WillID) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM wills WHERE id = $1`, uuid.UUID(willID))
	if err != nil {
		return fmt.Errorf("delete will: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.WillRecord, error) {
	var (
		rec          models.WillRecord
		willID       uuid.UUID
		owner        uuid.UUID
		status       string
		jurisdiction string
		storage      string
		prefs        []byte
		data         []byte
		validation   []byte
		suggestions  []byte
		instructions []byte
	)
	if err := row.Scan(
		&willID, &owner, &rec.Version, &status, &jurisdiction, &rec.Language, &storage,
		&prefs, &data, &validation, &suggestions, &instructions, &rec.Disclaimer,
		&rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return models.WillRecord{}, err
	}
	willType, err := models.WillTypeFromStorage(models.StorageType(storage))
	if err != nil {
		return models.WillRecord{}, err
	}
	rec.ID = id.WillID(willID)
	rec.OwnerID = id.UserID(owner)
	rec.Status = models.WillStatus(status)
	rec.Jurisdiction = id.JurisdictionCode(jurisdiction)
	rec.WillType = willType
	for _, doc := range []struct {
		raw  []byte
		into any
	}{
		{prefs, &rec.Preferences},
		{data, &rec.Data},
		{validation, &rec.Validation},
		{suggestions, &rec.Suggestions},
		{instructions, &rec.ExecutionInstructions},
	} {
		if err := json.Unmarshal(doc.raw, doc.into); err != nil {
			return models.WillRecord{}, fmt.Errorf("decode will column: %w", err)
		}
	}
	return rec, nil
}

// PostgresContents exposes the content half of the store under the
// ContentStore method names.
func (s *PostgresStore) Contents() *PostgresContents {
	return &PostgresContents{s: s}
}

type PostgresContents struct {
	s *PostgresStore
}

func (c *PostgresContents) Put(ctx context.Context, content models.StoredContent) error {
	meta, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	query := `
		INSERT INTO will_contents (will_id, version, text, html, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (will_id, version) DO UPDATE SET
			text = EXCLUDED.text,
			html = EXCLUDED.html,
			metadata = EXCLUDED.metadata
	`
	_, err = c.s.conn(ctx).ExecContext(ctx, query,
		uuid.UUID(content.WillID), content.Version, content.Content.Text, content.Content.HTML, meta)
	if err != nil {
		return fmt.Errorf("upsert will content: %w", err)
	}
	return nil
}

func (c *PostgresContents) Get(ctx context.Context, willID id.WillID, version int) (models.StoredContent, error) {
	var (
		out  = models.StoredContent{WillID: willID, Version: version}
		meta []byte
	)
	err := c.s.conn(ctx).QueryRowContext(ctx,
		`SELECT text, html, metadata FROM will_contents WHERE will_id = $1 AND version = $2`,
		uuid.UUID(willID), version,
	).Scan(&out.Content.Text, &out.Content.HTML, &meta)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredContent{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.StoredContent{}, fmt.Errorf("find will content: %w", err)
	}
	if err := json.Unmarshal(meta, &out.Metadata); err != nil {
		return models.StoredContent{}, fmt.Errorf("decode will metadata: %w", err)
	}
	return out, nil
}

func (c *PostgresContents) Versions(ctx context.Context, willID id.WillID) ([]int, error) {
	rows, err := c.s.conn(ctx).QueryContext(ctx,
		`SELECT version FROM will_contents WHERE will_id = $1 ORDER BY version`, uuid.UUID(willID))
	if err != nil {
		return nil, fmt.Errorf("list will versions: %w", err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan will version: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate will versions: %w", err)
	}
	return out, nil
}

func (c *PostgresContents) DeleteVersion(ctx context.Context, willID id.WillID, version int) error {
	_, err := c.s.conn(ctx).ExecContext(ctx,
		`DELETE FROM will_contents WHERE will_id = $1 AND version = $2`, uuid.UUID(willID), version)
	if err != nil {
		return fmt.Errorf("delete will content: %w", err)
	}
	return nil
}

func (c *PostgresContents) DeleteAll(ctx context.Context, willID id.WillID) error {
	_, err := c.s.conn(ctx).ExecContext(ctx, `DELETE FROM will_contents WHERE will_id = $1`, uuid.UUID(willID))
	if err != nil {
		return fmt.Errorf("delete will contents: %w", err)
	}
	return nil
}
