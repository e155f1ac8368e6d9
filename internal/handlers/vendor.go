package handlers

import (
	"net/http"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// listVendors returns one page of vendors
func (r *Router) listVendors(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	page, limit := services.ParsePageLimit(q.Get("page"), q.Get("limit"))

	vendors, pagination, err := r.vendors.List(services.VendorListOptions{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"vendors":    vendors,
		"pagination": pagination,
	})
}

// createVendor creates a vendor
func (r *Router) createVendor(w http.ResponseWriter, req *http.Request) {
	var input services.CreateVendorInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vendor, err := r.vendors.Create(input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "vendor created successfully",
		"vendor":  vendor,
	})
}

// getVendor returns a single vendor
func (r *Router) getVendor(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	vendor, err := r.vendors.GetByID(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"vendor": vendor})
}

// updateVendor applies a partial update to a vendor
func (r *Router) updateVendor(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	if old, err := r.vendors.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	var input services.UpdateVendorInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vendor, err := r.vendors.Update(id, input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "vendor updated successfully",
		"vendor":  vendor,
	})
}

// deleteVendor removes a vendor
func (r *Router) deleteVendor(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	if old, err := r.vendors.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	if err := r.vendors.Delete(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "vendor deleted successfully",
	})
}
