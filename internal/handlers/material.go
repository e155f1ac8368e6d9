package handlers

import (
	"net/http"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// listMaterials returns one page of materials
func (r *Router) listMaterials(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	page, limit := services.ParsePageLimit(q.Get("page"), q.Get("limit"))

	materials, pagination, err := r.materials.List(services.MaterialListOptions{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"materials":  materials,
		"pagination": pagination,
	})
}

// createMaterial creates a material
func (r *Router) createMaterial(w http.ResponseWriter, req *http.Request) {
	var input services.CreateMaterialInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	material, err := r.materials.Create(input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "material created successfully",
		"material": material,
	})
}

// getMaterial returns a single material with its usages
func (r *Router) getMaterial(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	material, err := r.materials.GetByID(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"material": material})
}

// updateMaterial applies a partial update to a material
func (r *Router) updateMaterial(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	if old, err := r.materials.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	var input services.UpdateMaterialInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	material, err := r.materials.Update(id, input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "material updated successfully",
		"material": material,
	})
}

// deleteMaterial removes an unused material
func (r *Router) deleteMaterial(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	if old, err := r.materials.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	if err := r.materials.Delete(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "material deleted successfully",
	})
}

// updateMaterialStock adjusts the stock level of a material
func (r *Router) updateMaterialStock(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	if old, err := r.materials.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	var input struct {
		Quantity  int    `json:"quantity"`
		Operation string `json:"operation"`
	}
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	material, err := r.materials.UpdateStock(id, input.Quantity, input.Operation)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "stock updated successfully",
		"material": material,
	})
}
