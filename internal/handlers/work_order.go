package handlers

import (
	"net/http"
	"strconv"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// queryUint parses an optional numeric query parameter, zero when absent
func queryUint(req *http.Request, key string) uint {
	v, err := strconv.ParseUint(req.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// listWorkOrders returns one page of work orders
func (r *Router) listWorkOrders(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	page, limit := services.ParsePageLimit(q.Get("page"), q.Get("limit"))

	workOrders, pagination, err := r.workOrders.List(services.WorkOrderListOptions{
		Page:          page,
		Limit:         limit,
		Status:        q.Get("status"),
		ProjectID:     queryUint(req, "project_id"),
		ResponsibleID: queryUint(req, "responsible_id"),
		Search:        q.Get("search"),
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"work_orders": workOrders,
		"pagination":  pagination,
	})
}

// createWorkOrder creates a work order with optional material usages
func (r *Router) createWorkOrder(w http.ResponseWriter, req *http.Request) {
	var input services.CreateWorkOrderInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workOrder, err := r.workOrders.Create(input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "work order created successfully",
		"work_order": workOrder,
	})
}

// getWorkOrder returns a single work order with related records expanded
func (r *Router) getWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	workOrder, err := r.workOrders.GetByID(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"work_order": workOrder})
}

// updateWorkOrder applies a partial update to a work order
func (r *Router) updateWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	if old, err := r.workOrders.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	var input services.UpdateWorkOrderInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workOrder, err := r.workOrders.Update(id, input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "work order updated successfully",
		"work_order": workOrder,
	})
}

// deleteWorkOrder removes a work order and its child records
func (r *Router) deleteWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	if old, err := r.workOrders.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	if err := r.workOrders.Delete(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "work order deleted successfully",
	})
}

// workOrderStats returns checkpoint, material and attachment aggregates
func (r *Router) workOrderStats(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	stats, err := r.workOrders.Stats(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
