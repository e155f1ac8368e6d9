package handlers

import (
	"net/http"

	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/utils"
	"github.com/brunocorregedoria/reforma2/internal/websocket"
)

// activityFeed upgrades the connection and subscribes the client to audit
// events. Browsers cannot set an Authorization header on a websocket
// handshake, so the token travels in the query string.
func (r *Router) activityFeed(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "access token required")
		return
	}

	userID, err := utils.ValidateToken(token, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusForbidden, "invalid token")
		return
	}
	var user models.User
	if err := r.db.DB.First(&user, userID).Error; err != nil {
		respondError(w, http.StatusForbidden, "invalid token")
		return
	}

	websocket.ServeWs(r.hub, w, req)
}
