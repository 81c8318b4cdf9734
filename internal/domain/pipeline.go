package domain

import "time"

type Pipeline struct {
	ID        string
	AccountID string
	Name      string
	Stages    []Stage
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Stage - этап воронки. Actions хранит ссылки на действия автоматизации
// в порядке выполнения: "send-email" или "send-email_<uuid>".
type Stage struct {
	ID         string
	PipelineID string
	Name       string
	Color      string
	Position   int
	Actions    []string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// AutomationAction - шаблон действия из библиотеки
type AutomationAction struct {
	ID          string
	Name        string
	Description string
	Channel     string
}

// StageSummary - этап с количеством лидов для доски
type StageSummary struct {
	Stage     Stage
	LeadCount int
}

type Board struct {
	Pipeline *Pipeline
	Stages   []StageSummary
}

const DefaultStageColor = "#64748b"
