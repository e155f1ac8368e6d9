package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/brunocorregedoria/reforma2/internal/config"
	"github.com/brunocorregedoria/reforma2/internal/database"
	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/services"
	"github.com/brunocorregedoria/reforma2/internal/websocket"
	"github.com/brunocorregedoria/reforma2/web"
)

// Version reported by the health endpoint
const Version = "1.0.0"

// Router wraps the mux router, configuration and service layer
type Router struct {
	*mux.Router
	db  *database.DB
	cfg *config.Config
	hub *websocket.Hub

	auth        *services.AuthService
	projects    *services.ProjectService
	workOrders  *services.WorkOrderService
	checkpoints *services.CheckpointService
	materials   *services.MaterialService
	vendors     *services.VendorService
	attachments *services.AttachmentService
}

// NewRouter creates the HTTP router with all routes wired
func NewRouter(db *database.DB, cfg *config.Config, hub *websocket.Hub) *Router {
	r := &Router{
		Router:      mux.NewRouter(),
		db:          db,
		cfg:         cfg,
		hub:         hub,
		auth:        services.NewAuthService(db.DB, cfg.JWTSecret),
		projects:    services.NewProjectService(db.DB),
		workOrders:  services.NewWorkOrderService(db.DB),
		checkpoints: services.NewCheckpointService(db.DB),
		materials:   services.NewMaterialService(db.DB),
		vendors:     services.NewVendorService(db.DB),
		attachments: services.NewAttachmentService(db.DB, cfg.UploadDir),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	admin := models.RoleAdmin
	manager := models.RoleManager
	technician := models.RoleTechnician

	// Auth routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.Handle("/profile", r.protected(r.getProfile)).Methods("GET")
	auth.Handle("/profile", r.protected(r.updateProfile)).Methods("PUT")
	auth.Handle("/password", r.protected(r.changePassword)).Methods("PUT")

	// Project routes
	projects := r.PathPrefix("/api/projects").Subrouter()
	projects.Use(middleware.AuditLog(db.DB, "Project", hub))
	projects.Handle("", r.protected(r.listProjects)).Methods("GET")
	projects.Handle("", r.protected(r.createProject, admin, manager)).Methods("POST")
	projects.Handle("/{id:[0-9]+}", r.protected(r.getProject)).Methods("GET")
	projects.Handle("/{id:[0-9]+}", r.protected(r.updateProject, admin, manager)).Methods("PUT")
	projects.Handle("/{id:[0-9]+}", r.protected(r.deleteProject, admin)).Methods("DELETE")
	projects.Handle("/{id:[0-9]+}/stats", r.protected(r.projectStats)).Methods("GET")

	// Work order routes
	workOrders := r.PathPrefix("/api/work_orders").Subrouter()
	workOrders.Use(middleware.AuditLog(db.DB, "WorkOrder", hub))
	workOrders.Handle("", r.protected(r.listWorkOrders)).Methods("GET")
	workOrders.Handle("", r.protected(r.createWorkOrder, admin, manager, technician)).Methods("POST")
	workOrders.Handle("/{id:[0-9]+}", r.protected(r.getWorkOrder)).Methods("GET")
	workOrders.Handle("/{id:[0-9]+}", r.protected(r.updateWorkOrder, admin, manager, technician)).Methods("PUT")
	workOrders.Handle("/{id:[0-9]+}", r.protected(r.deleteWorkOrder, admin, manager)).Methods("DELETE")
	workOrders.Handle("/{id:[0-9]+}/stats", r.protected(r.workOrderStats)).Methods("GET")
	workOrders.Handle("/{id:[0-9]+}/report", r.protected(r.workOrderReport)).Methods("GET")
	workOrders.Handle("/{id:[0-9]+}/qrcode", r.protected(r.workOrderQRCode)).Methods("GET")

	// Checkpoint routes
	checkpoints := r.PathPrefix("/api/checkpoints").Subrouter()
	checkpoints.Use(middleware.AuditLog(db.DB, "Checkpoint", hub))
	checkpoints.Handle("", r.protected(r.listCheckpoints)).Methods("GET")
	checkpoints.Handle("", r.protected(r.createCheckpoint, admin, manager, technician)).Methods("POST")
	checkpoints.Handle("/templates", r.protected(r.createCheckpointTemplate, admin, manager)).Methods("POST")
	checkpoints.Handle("/{id:[0-9]+}", r.protected(r.getCheckpoint)).Methods("GET")
	checkpoints.Handle("/{id:[0-9]+}", r.protected(r.updateCheckpoint, admin, manager, technician)).Methods("PUT")
	checkpoints.Handle("/{id:[0-9]+}", r.protected(r.deleteCheckpoint, admin, manager)).Methods("DELETE")
	checkpoints.Handle("/{id:[0-9]+}/complete", r.protected(r.completeCheckpoint, admin, manager, technician)).Methods("PATCH")

	// Material routes
	materials := r.PathPrefix("/api/materials").Subrouter()
	materials.Use(middleware.AuditLog(db.DB, "Material", hub))
	materials.Handle("", r.protected(r.listMaterials, admin, manager, technician)).Methods("GET")
	materials.Handle("", r.protected(r.createMaterial, admin, manager, technician)).Methods("POST")
	materials.Handle("/{id:[0-9]+}", r.protected(r.getMaterial, admin, manager, technician)).Methods("GET")
	materials.Handle("/{id:[0-9]+}", r.protected(r.updateMaterial, admin, manager, technician)).Methods("PUT")
	materials.Handle("/{id:[0-9]+}", r.protected(r.deleteMaterial, admin, manager)).Methods("DELETE")
	materials.Handle("/{id:[0-9]+}/stock", r.protected(r.updateMaterialStock, admin, manager, technician)).Methods("PATCH")

	// Vendor routes
	vendors := r.PathPrefix("/api/vendors").Subrouter()
	vendors.Use(middleware.AuditLog(db.DB, "Vendor", hub))
	vendors.Handle("", r.protected(r.listVendors, admin, manager)).Methods("GET")
	vendors.Handle("", r.protected(r.createVendor, admin, manager)).Methods("POST")
	vendors.Handle("/{id:[0-9]+}", r.protected(r.getVendor, admin, manager)).Methods("GET")
	vendors.Handle("/{id:[0-9]+}", r.protected(r.updateVendor, admin, manager)).Methods("PUT")
	vendors.Handle("/{id:[0-9]+}", r.protected(r.deleteVendor, admin)).Methods("DELETE")

	// Attachment routes
	attachments := r.PathPrefix("/api/attachments").Subrouter()
	attachments.Use(middleware.AuditLog(db.DB, "Attachment", hub))
	attachments.Handle("/upload", r.protected(r.uploadAttachment, admin, manager, technician)).Methods("POST")
	attachments.Handle("", r.protected(r.listAttachments)).Methods("GET")
	attachments.Handle("/{id:[0-9]+}", r.protected(r.getAttachment)).Methods("GET")
	attachments.Handle("/{id:[0-9]+}/download", r.protected(r.downloadAttachment)).Methods("GET")
	attachments.Handle("/{id:[0-9]+}", r.protected(r.deleteAttachment, admin, manager, technician)).Methods("DELETE")

	// Live activity feed
	r.HandleFunc("/api/activity/ws", r.activityFeed).Methods("GET")

	// Uploaded files
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Static frontend - embedded build, overridable with FRONTEND_DIR
	if staticFS, err := web.GetFileSystem(); err != nil {
		log.Printf("Frontend assets unavailable: %v", err)
	} else {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
	}

	return r
}

// protected chains authentication and an optional role guard around a handler
func (r *Router) protected(h http.HandlerFunc, roles ...models.Role) http.Handler {
	var handler http.Handler = h
	handler = middleware.RequireRoles(roles...)(handler)
	handler = middleware.Authenticate(r.db.DB, r.cfg.JWTSecret)(handler)
	return handler
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps a service error to its HTTP status. Unexpected
// errors surface as a generic 500 with the detail kept server-side outside
// development.
func (r *Router) respondServiceError(w http.ResponseWriter, err error) {
	status := services.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError && !r.cfg.IsDevelopment() {
		log.Printf("Internal error: %v", err)
		message = "internal server error"
	}
	respondError(w, status, message)
}

// pathID parses the numeric id route variable
func pathID(req *http.Request) (uint, error) {
	raw := mux.Vars(req)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// decodeJSON parses the request body into dst
func decodeJSON(req *http.Request, dst interface{}) error {
	return json.NewDecoder(req.Body).Decode(dst)
}
