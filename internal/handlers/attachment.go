package handlers

import (
	"net/http"
	"strconv"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// uploadAttachment stores one multipart file against a work order
func (r *Router) uploadAttachment(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, services.MaxUploadSize+1024)
	if err := req.ParseMultipartForm(services.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "file exceeds the 10MB size limit")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file was sent")
		return
	}
	defer file.Close()

	workOrderID, err := strconv.ParseUint(req.FormValue("work_order_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "work_order_id is required")
		return
	}

	user, _ := middleware.UserFromContext(req.Context())

	attachment, err := r.attachments.Upload(services.UploadInput{
		WorkOrderID: uint(workOrderID),
		Type:        models.AttachmentType(req.FormValue("type")),
		UserID:      user.ID,
		File:        file,
		Header:      header,
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "file uploaded successfully",
		"attachment": attachment,
	})
}

// listAttachments returns attachments filtered by work order and type
func (r *Router) listAttachments(w http.ResponseWriter, req *http.Request) {
	attachments, err := r.attachments.List(services.AttachmentListOptions{
		WorkOrderID: queryUint(req, "work_order_id"),
		Type:        req.URL.Query().Get("type"),
	})
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"attachments": attachments})
}

// getAttachment returns a single attachment record
func (r *Router) getAttachment(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	attachment, err := r.attachments.GetByID(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"attachment": attachment})
}

// downloadAttachment streams the stored file back under its original name
func (r *Router) downloadAttachment(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	attachment, name, err := r.attachments.Download(id)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, req, attachment.FilePath)
}

// deleteAttachment removes the attachment row and its file on disk
func (r *Router) deleteAttachment(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	if old, err := r.attachments.GetByID(id); err == nil {
		middleware.StashOldValue(req, old)
	}

	if err := r.attachments.Delete(id); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "attachment deleted successfully",
	})
}
