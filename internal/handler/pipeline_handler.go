package handler

import (
	"net/http"

	"github.com/bagdasarian/leadpipe/internal/pipeline"
)

func (h *Handler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	pipelines, err := h.pipelineService.ListPipelines(r.Context(), accountID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]PipelineResponse, 0, len(pipelines))
	for _, p := range pipelines {
		resp = append(resp, domainPipelineToHTTP(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")
	if err := h.authorizeAccount(r, accountID); err != nil {
		h.handleError(w, r, err)
		return
	}

	var req CreatePipelineRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	p, err := h.pipelineService.CreatePipeline(r.Context(), accountID, req.Name, req.Stages)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, domainPipelineToHTTP(p))
}

func (h *Handler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPipelineToHTTP(p))
}

func (h *Handler) UpdatePipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req RenameRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	p, err = h.pipelineService.RenamePipeline(r.Context(), p.ID, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPipelineToHTTP(p))
}

func (h *Handler) DeletePipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.pipelineService.DeletePipeline(r.Context(), p.ID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	board, err := h.pipelineService.GetBoard(r.Context(), p.ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainBoardToHTTP(board))
}

func (h *Handler) CreateStage(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req CreateStageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	stage, err := h.pipelineService.CreateStage(r.Context(), p.ID, req.Name, req.Color)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, domainStageToHTTP(*stage))
}

func (h *Handler) MoveStage(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req MoveStageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	p, err = h.pipelineService.MoveStage(r.Context(), p.ID, *req.From, *req.To)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPipelineToHTTP(p))
}

func (h *Handler) MoveAction(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req MoveActionRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	p, err = h.pipelineService.MoveAction(r.Context(), p.ID,
		httpPositionToDomain(req.Source),
		httpPositionToDomain(req.Target),
	)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPipelineToHTTP(p))
}

// Drop применяет состояние перетаскивания, присланное клиентом
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPipeline(r, r.PathValue("pipelineID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req DropRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	state := pipeline.DragState{
		DraggedItemID: req.DraggedItemID,
		DragSource:    pipeline.DragSource(req.DragSource),
		DropTarget:    httpPositionToDomain(req.DropTarget),
	}
	if req.Origin != nil {
		origin := httpPositionToDomain(*req.Origin)
		state.Origin = &origin
	}

	res, err := h.pipelineService.Drop(r.Context(), p.ID, state)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionInsertResponse{
		Ref:      res.Ref,
		Pipeline: domainPipelineToHTTP(res.Pipeline),
	})
}
