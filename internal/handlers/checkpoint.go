package handlers

import (
	"net/http"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// listCheckpoints returns checkpoints filtered by work order and type
func (r *Router) listCheckpoints(w http.ResponseWriter, req *http.Request) {
	checkpoints, err := r.checkpoints.List(services.CheckpointListOptions{
		WorkOrderID: queryUint(req, "work_order_id"),
		Type:        req.URL.Query().Get("type"),
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"checkpoints": checkpoints})
}

// createCheckpoint creates a checkpoint on a work order
func (r *Router) createCheckpoint(w http.ResponseWriter, req *http.Request) {
	var input services.CreateCheckpointInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkpoint, err := r.checkpoints.Create(input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "checkpoint created successfully",
		"checkpoint": checkpoint,
	})
}

// createCheckpointTemplate bulk-creates a reusable checkpoint sequence
func (r *Router) createCheckpointTemplate(w http.ResponseWriter, req *http.Request) {
	var input struct {
		ServiceType string                  `json:"service_type"`
		Checkpoints []services.TemplateItem `json:"checkpoints"`
	}
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkpoints, err := r.checkpoints.CreateTemplate(input.ServiceType, input.Checkpoints)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "checkpoint template created successfully",
		"checkpoints": checkpoints,
	})
}

// getCheckpoint returns a single checkpoint
func (r *Router) getCheckpoint(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid checkpoint id")
		return
	}

	checkpoint, err := r.checkpoints.GetByID(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"checkpoint": checkpoint})
}

// updateCheckpoint applies a partial update to a checkpoint
func (r *Router) updateCheckpoint(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid checkpoint id")
		return
	}

	if old, err := r.checkpoints.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	var input services.UpdateCheckpointInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkpoint, err := r.checkpoints.Update(id, input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "checkpoint updated successfully",
		"checkpoint": checkpoint,
	})
}

// deleteCheckpoint removes a checkpoint
func (r *Router) deleteCheckpoint(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid checkpoint id")
		return
	}

	if old, err := r.checkpoints.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	if err := r.checkpoints.Delete(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "checkpoint deleted successfully",
	})
}

// completeCheckpoint marks a checkpoint as completed
func (r *Router) completeCheckpoint(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid checkpoint id")
		return
	}

	if old, err := r.checkpoints.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	checkpoint, err := r.checkpoints.Complete(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "checkpoint completed successfully",
		"checkpoint": checkpoint,
	})
}
