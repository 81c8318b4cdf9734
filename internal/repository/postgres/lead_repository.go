package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *leadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `id, account_id, pipeline_id, stage_id, first_name, last_name, email, phone, source, value, created_at, updated_at`

type leadRefs struct {
	account  int
	pipeline sql.NullInt64
	stage    sql.NullInt64
}

func resolveLeadRefs(lead *domain.Lead) (leadRefs, error) {
	var refs leadRefs
	var err error
	if refs.account, err = stringIDToInt(accountPrefix, lead.AccountID); err != nil {
		return refs, err
	}
	if refs.pipeline, err = optionalID(pipelinePrefix, lead.PipelineID); err != nil {
		return refs, err
	}
	if refs.stage, err = optionalID(stagePrefix, lead.StageID); err != nil {
		return refs, err
	}
	return refs, nil
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	refs, err := resolveLeadRefs(lead)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (account_id, pipeline_id, stage_id, first_name, last_name, email, phone, source, value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	var dbID int
	err = r.db.QueryRowContext(
		ctx,
		query,
		refs.account,
		refs.pipeline,
		refs.stage,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Value,
		time.Now(),
	).Scan(&dbID, &lead.CreatedAt)
	if err != nil {
		return err
	}

	lead.ID = intToStringID(leadPrefix, dbID)
	lead.UpdatedAt = nil
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	dbID, err := stringIDToInt(leadPrefix, id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, dbID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *leadRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Lead, error) {
	accountDBID, err := stringIDToInt(accountPrefix, accountID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE account_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	dbID, err := stringIDToInt(leadPrefix, lead.ID)
	if err != nil {
		return err
	}
	refs, err := resolveLeadRefs(lead)
	if err != nil {
		return err
	}

	query := `
		UPDATE leads
		SET pipeline_id = $2, stage_id = $3, first_name = $4, last_name = $5,
		    email = $6, phone = $7, source = $8, value = $9, updated_at = $10
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	var updatedAt sql.NullTime
	err = r.db.QueryRowContext(
		ctx,
		query,
		dbID,
		refs.pipeline,
		refs.stage,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Value,
		time.Now(),
	).Scan(&lead.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrLeadNotFound
		}
		return err
	}

	lead.UpdatedAt = updatedAtPtr(updatedAt)
	return nil
}

func (r *leadRepository) UpdateStage(ctx context.Context, leadID, pipelineID, stageID string) error {
	dbID, err := stringIDToInt(leadPrefix, leadID)
	if err != nil {
		return err
	}
	pipelineDBID, err := optionalID(pipelinePrefix, pipelineID)
	if err != nil {
		return err
	}
	stageDBID, err := optionalID(stagePrefix, stageID)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE leads
		SET pipeline_id = $2, stage_id = $3, updated_at = $4
		WHERE id = $1
	`, dbID, pipelineDBID, stageDBID, time.Now())
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrLeadNotFound)
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	dbID, err := stringIDToInt(leadPrefix, id)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM leads WHERE id = $1", dbID)
	if err != nil {
		return err
	}
	return checkAffected(result, repository.ErrLeadNotFound)
}

func (r *leadRepository) CountByStage(ctx context.Context, pipelineID string) (map[string]int, error) {
	pipelineDBID, err := stringIDToInt(pipelinePrefix, pipelineID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT stage_id, COUNT(*)
		FROM leads
		WHERE pipeline_id = $1 AND stage_id IS NOT NULL
		GROUP BY stage_id
	`, pipelineDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var stageDBID, count int
		if err := rows.Scan(&stageDBID, &count); err != nil {
			return nil, err
		}
		counts[intToStringID(stagePrefix, stageDBID)] = count
	}

	return counts, rows.Err()
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	lead := &domain.Lead{}
	var dbID, accountDBID int
	var pipelineDBID, stageDBID sql.NullInt64
	var updatedAt sql.NullTime
	err := row.Scan(
		&dbID,
		&accountDBID,
		&pipelineDBID,
		&stageDBID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&lead.Phone,
		&lead.Source,
		&lead.Value,
		&lead.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.ID = intToStringID(leadPrefix, dbID)
	lead.AccountID = intToStringID(accountPrefix, accountDBID)
	lead.PipelineID = optionalIDToString(pipelinePrefix, pipelineDBID)
	lead.StageID = optionalIDToString(stagePrefix, stageDBID)
	lead.UpdatedAt = updatedAtPtr(updatedAt)
	return lead, nil
}
