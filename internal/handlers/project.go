package handlers

import (
	"net/http"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// listProjects returns one page of projects
func (r *Router) listProjects(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	page, limit := services.ParsePageLimit(q.Get("page"), q.Get("limit"))

	projects, pagination, err := r.projects.List(services.ProjectListOptions{
		Page:   page,
		Limit:  limit,
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects":   projects,
		"pagination": pagination,
	})
}

// createProject creates a project
func (r *Router) createProject(w http.ResponseWriter, req *http.Request) {
	var input services.CreateProjectInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := r.projects.Create(input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "project created successfully",
		"project": project,
	})
}

// getProject returns a single project
func (r *Router) getProject(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := r.projects.GetByID(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"project": project})
}

// updateProject applies a partial update to a project
func (r *Router) updateProject(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if old, err := r.projects.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	var input services.UpdateProjectInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := r.projects.Update(id, input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "project updated successfully",
		"project": project,
	})
}

// deleteProject removes a project without work orders
func (r *Router) deleteProject(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if old, err := r.projects.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	if err := r.projects.Delete(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "project deleted successfully",
	})
}

// projectStats returns aggregate statistics over the project's work orders
func (r *Router) projectStats(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	stats, err := r.projects.Stats(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
