package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avolkovs/secretlink/internal/common"
	"github.com/avolkovs/secretlink/internal/dbx"
	"github.com/avolkovs/secretlink/internal/server/models"
)

const secretColumns = `id, encrypted_content, content_iv, is_one_time, is_viewed, expires_at, password, creator_id, created_at`

// PostgresRepository implements secret storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, secret *models.Secret) error {
	query := `
		INSERT INTO secrets (` + secretColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		secret.ID, secret.EncryptedContent, secret.ContentIV,
		secret.IsOneTime, secret.IsViewed, secret.ExpiresAt,
		secret.Password, secret.CreatorID, secret.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Secret, error) {
	query := `SELECT ` + secretColumns + ` FROM secrets WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDForOwner(ctx context.Context, id string, ownerID string) (*models.Secret, error) {
	query := `SELECT ` + secretColumns + ` FROM secrets WHERE id = $1 AND creator_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) ListActiveForOwner(ctx context.Context, ownerID string, now time.Time) ([]*models.Secret, error) {
	query := `
		SELECT ` + secretColumns + ` FROM secrets
		WHERE creator_id = $1 AND expires_at > $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to select secrets: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		var item models.Secret
		if err := rows.Scan(
			&item.ID, &item.EncryptedContent, &item.ContentIV,
			&item.IsOneTime, &item.IsViewed, &item.ExpiresAt,
			&item.Password, &item.CreatorID, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes only the fields present in the patch. The encrypted content
// and its IV always travel together, which the service layer guarantees.
func (r *PostgresRepository) Update(ctx context.Context, id string, ownerID string, patch models.SecretPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.EncryptedContent != nil {
		add("encrypted_content", *patch.EncryptedContent)
		add("content_iv", *patch.ContentIV)
	}
	if patch.IsOneTime != nil {
		add("is_one_time", *patch.IsOneTime)
	}
	if patch.ExpiresAt != nil {
		add("expires_at", *patch.ExpiresAt)
	}
	if patch.SetPassword {
		add("password", patch.Password)
	}
	if len(sets) == 0 {
		// nothing to write; still confirm the record is owned
		_, err := r.GetByIDForOwner(ctx, id, ownerID)
		return err
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`UPDATE secrets SET %s WHERE id = $%d AND creator_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkViewed(ctx context.Context, id string) (*models.Secret, error) {
	query := `
		UPDATE secrets SET is_viewed = TRUE
		WHERE id = $1
		RETURNING ` + secretColumns + `
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID string) error {
	var (
		res sql.Result
		err error
	)
	if ownerID == "" {
		res, err = r.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, id)
	} else {
		res, err = r.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1 AND creator_id = $2`, id, ownerID)
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Secret, error) {
	var item models.Secret
	err := row.Scan(
		&item.ID, &item.EncryptedContent, &item.ContentIV,
		&item.IsOneTime, &item.IsViewed, &item.ExpiresAt,
		&item.Password, &item.CreatorID, &item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}
