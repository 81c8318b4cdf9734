package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type templateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *templateRepository {
	return &templateRepository{db: db}
}

const templateColumns = `id, account_id, name, channel, subject, body, created_at, updated_at`

func (r *templateRepository) Create(ctx context.Context, tpl *domain.MessageTemplate) error {
	accountDBID, err := stringIDToInt(accountPrefix, tpl.AccountID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO message_templates (account_id, name, channel, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var dbID int
	err = r.db.QueryRowContext(
		ctx,
		query,
		accountDBID,
		tpl.Name,
		string(tpl.Channel),
		tpl.Subject,
		tpl.Body,
		time.Now(),
	).Scan(&dbID, &tpl.CreatedAt)
	if err != nil {
		return err
	}

	tpl.ID = intToStringID(templatePrefix, dbID)
	tpl.UpdatedAt = nil
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.MessageTemplate, error) {
	dbID, err := stringIDToInt(templatePrefix, id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE id = $1`

	tpl, err := scanTemplate(r.db.QueryRowContext(ctx, query, dbID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func (r *templateRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.MessageTemplate, error) {
	accountDBID, err := stringIDToInt(accountPrefix, accountID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE account_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, accountDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.MessageTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	return templates, rows.Err()
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.MessageTemplate) error {
	dbID, err := stringIDToInt(templatePrefix, tpl.ID)
	if err != nil {
		return err
	}

	query := `
		UPDATE message_templates
		SET name = $2, channel = $3, subject = $4, body = $5, updated_at = $6
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	var updatedAt sql.NullTime
	err = r.db.QueryRowContext(
		ctx,
		query,
		dbID,
		tpl.Name,
		string(tpl.Channel),
		tpl.Subject,
		tpl.Body,
		time.Now(),
	).Scan(&tpl.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrTemplateNotFound
		}
		return err
	}

	tpl.UpdatedAt = updatedAtPtr(updatedAt)
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	dbID, err := stringIDToInt(templatePrefix, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM message_templates WHERE id = $1", dbID)
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrTemplateNotFound)
}

func scanTemplate(row rowScanner) (*domain.MessageTemplate, error) {
	tpl := &domain.MessageTemplate{}
	var dbID, accountDBID int
	var channel string
	var updatedAt sql.NullTime
	err := row.Scan(
		&dbID,
		&accountDBID,
		&tpl.Name,
		&channel,
		&tpl.Subject,
		&tpl.Body,
		&tpl.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	tpl.ID = intToStringID(templatePrefix, dbID)
	tpl.AccountID = intToStringID(accountPrefix, accountDBID)
	tpl.Channel = domain.Channel(channel)
	tpl.UpdatedAt = updatedAtPtr(updatedAt)
	return tpl, nil
}
