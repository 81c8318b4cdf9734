package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

type actionRepository struct {
	db *sql.DB
}

func NewActionRepository(db *sql.DB) *actionRepository {
	return &actionRepository{db: db}
}

func (r *actionRepository) List(ctx context.Context) ([]*domain.AutomationAction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, channel
		FROM automation_actions
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*domain.AutomationAction
	for rows.Next() {
		action := &domain.AutomationAction{}
		if err := rows.Scan(&action.ID, &action.Name, &action.Description, &action.Channel); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	return actions, rows.Err()
}

func (r *actionRepository) GetByID(ctx context.Context, id string) (*domain.AutomationAction, error) {
	action := &domain.AutomationAction{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, channel
		FROM automation_actions
		WHERE id = $1
	`, id).Scan(&action.ID, &action.Name, &action.Description, &action.Channel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}
