package domain

import "time"

type EventType string

const (
	EventLeadCreated             EventType = "lead.created"
	EventLeadStageChanged        EventType = "lead.stage_changed"
	EventPipelineStagesReordered EventType = "pipeline.stages_reordered"
	EventStageActionsChanged     EventType = "stage.actions_changed"
)

type Event struct {
	Type       EventType
	AccountID  string
	EntityID   string
	Payload    map[string]any
	OccurredAt time.Time
}
