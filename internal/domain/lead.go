package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Lead struct {
	ID         string
	AccountID  string
	PipelineID string
	StageID    string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Source     string
	Value      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func (l *Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// LeadFilter - фильтры списка лидов; пустые поля не применяются
type LeadFilter struct {
	Query       string
	Fuzzy       bool
	PipelineID  string
	StageID     string
	Source      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
}
