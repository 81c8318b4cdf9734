package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/events"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const colorWriteTimeout = 5 * time.Second

type pipelineService struct {
	pipelineRepo repository.PipelineRepository
	stageRepo    repository.StageRepository
	actionRepo   repository.ActionRepository
	leadRepo     repository.LeadRepository
	editor       *pipeline.Editor
	publisher    events.Publisher
	colors       *Debouncer
	logger       *zap.Logger
}

// NewPipelineService создает новый экземпляр PipelineService
func NewPipelineService(
	pipelineRepo repository.PipelineRepository,
	stageRepo repository.StageRepository,
	actionRepo repository.ActionRepository,
	leadRepo repository.LeadRepository,
	editor *pipeline.Editor,
	publisher events.Publisher,
	colorDebounce time.Duration,
	logger *zap.Logger,
) PipelineService {
	return &pipelineService{
		pipelineRepo: pipelineRepo,
		stageRepo:    stageRepo,
		actionRepo:   actionRepo,
		leadRepo:     leadRepo,
		editor:       editor,
		publisher:    publisher,
		colors:       NewDebouncer(colorDebounce),
		logger:       logger,
	}
}

// CreatePipeline создает воронку и этапы в переданном порядке
func (s *pipelineService) CreatePipeline(ctx context.Context, accountID, name string, stageNames []string) (*domain.Pipeline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("pipeline name is required")
	}

	p := &domain.Pipeline{AccountID: accountID, Name: name}
	if err := s.pipelineRepo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrPipelineExists
		}
		return nil, mapRepoError(err)
	}

	p.Stages = make([]domain.Stage, 0, len(stageNames))
	for _, stageName := range stageNames {
		stage := &domain.Stage{
			PipelineID: p.ID,
			Name:       strings.TrimSpace(stageName),
			Color:      domain.DefaultStageColor,
			Actions:    []string{},
		}
		if err := s.stageRepo.Create(ctx, stage); err != nil {
			return nil, mapRepoError(err)
		}
		p.Stages = append(p.Stages, *stage)
	}

	s.logger.Info("pipeline created",
		zap.String("pipeline_id", p.ID),
		zap.String("account_id", accountID),
		zap.Int("stages", len(p.Stages)),
	)
	return p, nil
}

func (s *pipelineService) GetPipeline(ctx context.Context, id string) (*domain.Pipeline, error) {
	p, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	stages, err := s.stageRepo.ListByPipeline(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	p.Stages = stages
	return p, nil
}

func (s *pipelineService) ListPipelines(ctx context.Context, accountID string) ([]*domain.Pipeline, error) {
	pipelines, err := s.pipelineRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if pipelines == nil {
		pipelines = []*domain.Pipeline{}
	}
	return pipelines, nil
}

func (s *pipelineService) RenamePipeline(ctx context.Context, id, name string) (*domain.Pipeline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("pipeline name is required")
	}

	if err := s.pipelineRepo.Rename(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrPipelineExists
		}
		return nil, mapRepoError(err)
	}
	return s.GetPipeline(ctx, id)
}

func (s *pipelineService) DeletePipeline(ctx context.Context, id string) error {
	return mapRepoError(s.pipelineRepo.Delete(ctx, id))
}

func (s *pipelineService) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	var (
		p      *domain.Pipeline
		stages []domain.Stage
		counts map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.pipelineRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		stages, err = s.stageRepo.ListByPipeline(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.leadRepo.CountByStage(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapRepoError(err)
	}

	p.Stages = stages
	board := &domain.Board{
		Pipeline: p,
		Stages:   make([]domain.StageSummary, 0, len(stages)),
	}
	for _, stage := range stages {
		board.Stages = append(board.Stages, domain.StageSummary{
			Stage:     stage,
			LeadCount: counts[stage.ID],
		})
	}
	return board, nil
}

func (s *pipelineService) GetStage(ctx context.Context, id string) (*domain.Stage, error) {
	stage, err := s.stageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return stage, nil
}

// CreateStage добавляет этап в конец воронки
func (s *pipelineService) CreateStage(ctx context.Context, pipelineID, name, color string) (*domain.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("stage name is required")
	}
	if color == "" {
		color = domain.DefaultStageColor
	}
	if !colorRe.MatchString(color) {
		return nil, domain.NewValidationError("color must be #rrggbb")
	}

	if _, err := s.pipelineRepo.GetByID(ctx, pipelineID); err != nil {
		return nil, mapRepoError(err)
	}

	stage := &domain.Stage{
		PipelineID: pipelineID,
		Name:       name,
		Color:      strings.ToLower(color),
		Actions:    []string{},
	}
	if err := s.stageRepo.Create(ctx, stage); err != nil {
		return nil, mapRepoError(err)
	}
	return stage, nil
}

func (s *pipelineService) RenameStage(ctx context.Context, id, name string) (*domain.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("stage name is required")
	}
	if err := s.stageRepo.Rename(ctx, id, name); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetStage(ctx, id)
}

// DeleteStage удаляет этап, лиды на нем остаются без этапа
func (s *pipelineService) DeleteStage(ctx context.Context, id string) error {
	return mapRepoError(s.stageRepo.Delete(ctx, id))
}

func (s *pipelineService) UpdateStageColor(ctx context.Context, id, color string) error {
	if !colorRe.MatchString(color) {
		return domain.NewValidationError("color must be #rrggbb")
	}
	if _, err := s.stageRepo.GetByID(ctx, id); err != nil {
		return mapRepoError(err)
	}

	color = strings.ToLower(color)
	s.colors.Do(id, func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), colorWriteTimeout)
		defer cancel()

		if err := s.stageRepo.UpdateColor(writeCtx, id, color); err != nil {
			s.logger.Error("failed to save stage color",
				zap.String("stage_id", id),
				zap.String("color", color),
				zap.Error(err),
			)
			return
		}
		s.logger.Debug("stage color saved", zap.String("stage_id", id), zap.String("color", color))
	})
	return nil
}

func (s *pipelineService) InsertAction(ctx context.Context, stageID, actionID string, index int) (*ActionInsert, error) {
	if err := s.checkAction(ctx, actionID); err != nil {
		return nil, err
	}

	stage, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	p, res, err := s.edit(ctx, stage.PipelineID, func(stages []pipeline.Stage) (pipeline.Result, error) {
		return s.editor.InsertAction(stages, actionID, pipeline.Position{StageID: stageID, Index: index})
	})
	if err != nil {
		return nil, err
	}
	return &ActionInsert{Pipeline: p, Ref: res.InsertedRef}, nil
}

func (s *pipelineService) RemoveAction(ctx context.Context, stageID string, index int) (*domain.Pipeline, error) {
	stage, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	p, _, err := s.edit(ctx, stage.PipelineID, func(stages []pipeline.Stage) (pipeline.Result, error) {
		return s.editor.RemoveAction(stages, pipeline.Position{StageID: stageID, Index: index})
	})
	return p, err
}

func (s *pipelineService) MoveAction(ctx context.Context, pipelineID string, source, target pipeline.Position) (*domain.Pipeline, error) {
	p, _, err := s.edit(ctx, pipelineID, func(stages []pipeline.Stage) (pipeline.Result, error) {
		return s.editor.MoveAction(stages, source, target)
	})
	return p, err
}

func (s *pipelineService) MoveStage(ctx context.Context, pipelineID string, from, to int) (*domain.Pipeline, error) {
	p, _, err := s.edit(ctx, pipelineID, func(stages []pipeline.Stage) (pipeline.Result, error) {
		return s.editor.MoveStage(stages, from, to)
	})
	return p, err
}

func (s *pipelineService) Drop(ctx context.Context, pipelineID string, state pipeline.DragState) (*ActionInsert, error) {
	if state.DragSource == pipeline.SourceLibrary {
		if err := s.checkAction(ctx, state.DraggedItemID); err != nil {
			return nil, err
		}
	}

	p, res, err := s.edit(ctx, pipelineID, func(stages []pipeline.Stage) (pipeline.Result, error) {
		return s.editor.Drop(stages, state)
	})
	if err != nil {
		return nil, err
	}
	return &ActionInsert{Pipeline: p, Ref: res.InsertedRef}, nil
}

func (s *pipelineService) Close() {
	s.colors.Stop()
}

func (s *pipelineService) checkAction(ctx context.Context, actionID string) error {
	if actionID == "" {
		return mapRepoError(pipeline.ErrEmptyActionID)
	}
	if _, err := s.actionRepo.GetByID(ctx, actionID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// edit применяет операцию редактора к доске воронки и сохраняет
// затронутые этапы одной транзакцией
func (s *pipelineService) edit(
	ctx context.Context,
	pipelineID string,
	op func([]pipeline.Stage) (pipeline.Result, error),
) (*domain.Pipeline, pipeline.Result, error) {
	p, err := s.GetPipeline(ctx, pipelineID)
	if err != nil {
		return nil, pipeline.Result{}, err
	}

	res, err := op(toEditorStages(p.Stages))
	if err != nil {
		return nil, pipeline.Result{}, mapRepoError(err)
	}
	if len(res.Changed) == 0 {
		return p, res, nil
	}

	changed, reordered := applyResult(p, res)
	if err := s.stageRepo.SaveLayout(ctx, changed); err != nil {
		return nil, pipeline.Result{}, mapRepoError(err)
	}

	if reordered {
		ids := make([]string, 0, len(p.Stages))
		for _, stage := range p.Stages {
			ids = append(ids, stage.ID)
		}
		publish(ctx, s.publisher, s.logger, domain.Event{
			Type:      domain.EventPipelineStagesReordered,
			AccountID: p.AccountID,
			EntityID:  p.ID,
			Payload:   map[string]any{"stage_ids": ids},
		})
		return p, res, nil
	}

	for _, stage := range changed {
		publish(ctx, s.publisher, s.logger, domain.Event{
			Type:      domain.EventStageActionsChanged,
			AccountID: p.AccountID,
			EntityID:  stage.ID,
			Payload: map[string]any{
				"pipeline_id": p.ID,
				"actions":     stage.Actions,
			},
		})
	}
	return p, res, nil
}

func toEditorStages(stages []domain.Stage) []pipeline.Stage {
	out := make([]pipeline.Stage, 0, len(stages))
	for _, stage := range stages {
		out = append(out, pipeline.Stage{ID: stage.ID, Position: stage.Position, Actions: stage.Actions})
	}
	return out
}

// applyResult переносит порядок, позиции и действия из результата
// редактора в воронку. Возвращает измененные этапы и признак перестановки.
func applyResult(p *domain.Pipeline, res pipeline.Result) ([]domain.Stage, bool) {
	byID := make(map[string]domain.Stage, len(p.Stages))
	for _, stage := range p.Stages {
		byID[stage.ID] = stage
	}

	reordered := false
	ordered := make([]domain.Stage, 0, len(res.Stages))
	for _, edited := range res.Stages {
		stage := byID[edited.ID]
		if stage.Position != edited.Position {
			reordered = true
		}
		stage.Position = edited.Position
		stage.Actions = edited.Actions
		ordered = append(ordered, stage)
	}
	p.Stages = ordered

	changedIDs := make(map[string]bool, len(res.Changed))
	for _, id := range res.Changed {
		changedIDs[id] = true
	}
	changed := make([]domain.Stage, 0, len(res.Changed))
	for _, stage := range ordered {
		if changedIDs[stage.ID] {
			changed = append(changed, stage)
		}
	}
	return changed, reordered
}
