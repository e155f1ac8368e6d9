package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/brunocorregedoria/reforma2/internal/services/report"
)

// workOrderReport streams a PDF summary sheet for one work order
func (r *Router) workOrderReport(w http.ResponseWriter, req *http.Request) {
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

	pdfBytes, err := report.WorkOrderPDF(workOrder)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate PDF: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"work_order_%d.pdf\"", id))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}

// workOrderQRCode returns a PNG QR label linking to the work order's page
func (r *Router) workOrderQRCode(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	if _, err := r.workOrders.GetByID(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	png, err := report.WorkOrderQRPNG(r.cfg.FrontendURL, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate QR code: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}
