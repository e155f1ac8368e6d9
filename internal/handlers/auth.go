package handlers

import (
	"net/http"

	"github.com/brunocorregedoria/reforma2/internal/middleware"
	"github.com/brunocorregedoria/reforma2/internal/services"
)

// register creates a new user and returns it with a signed token
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var input services.RegisterInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := r.auth.Register(input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
		"token":   token,
	})
}

// login authenticates a user and returns a signed token
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := r.auth.Login(input.Email, input.Password)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"user":    user,
		"token":   token,
	})
}

// getProfile returns the authenticated user
func (r *Router) getProfile(w http.ResponseWriter, req *http.Request) {
	user, _ := middleware.UserFromContext(req.Context())

	profile, err := r.auth.GetProfile(user.ID)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}

// updateProfile updates the authenticated user's name and email
func (r *Router) updateProfile(w http.ResponseWriter, req *http.Request) {
	user, _ := middleware.UserFromContext(req.Context())

	var input services.UpdateProfileInput
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := r.auth.UpdateProfile(user.ID, input)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "profile updated successfully",
		"user":    profile,
	})
}

// changePassword replaces the authenticated user's password
func (r *Router) changePassword(w http.ResponseWriter, req *http.Request) {
	user, _ := middleware.UserFromContext(req.Context())

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(req, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := r.auth.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		r.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password updated successfully",
	})
}
