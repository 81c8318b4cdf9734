package handler

import (
	"net/http"
	"strconv"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
)

func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	stage, err := h.loadStage(r, r.PathValue("stageID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req RenameRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	stage, err = h.pipelineService.RenameStage(r.Context(), stage.ID, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainStageToHTTP(*stage))
}

func (h *Handler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	stage, err := h.loadStage(r, r.PathValue("stageID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.pipelineService.DeleteStage(r.Context(), stage.ID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStageColor отвечает 202: запись происходит после паузы во вводе
func (h *Handler) UpdateStageColor(w http.ResponseWriter, r *http.Request) {
	stage, err := h.loadStage(r, r.PathValue("stageID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req ColorRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.pipelineService.UpdateStageColor(r.Context(), stage.ID, req.Color); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) InsertAction(w http.ResponseWriter, r *http.Request) {
	stage, err := h.loadStage(r, r.PathValue("stageID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req InsertActionRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	index := pipeline.AppendIndex
	if req.Index != nil {
		index = *req.Index
	}

	res, err := h.pipelineService.InsertAction(r.Context(), stage.ID, req.ActionID, index)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ActionInsertResponse{
		Ref:      res.Ref,
		Pipeline: domainPipelineToHTTP(res.Pipeline),
	})
}

func (h *Handler) RemoveAction(w http.ResponseWriter, r *http.Request) {
	stage, err := h.loadStage(r, r.PathValue("stageID"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.handleError(w, r, domain.NewBadRequestError("index must be an integer"))
		return
	}

	p, err := h.pipelineService.RemoveAction(r.Context(), stage.ID, index)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPipelineToHTTP(p))
}
