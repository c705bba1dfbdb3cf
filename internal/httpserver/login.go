package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"staffcore/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// loginHandler exchanges a credential pair for a bearer token. Failed
// logins get a bare 401 with no body.
func loginHandler(codec *auth.Codec, creds *auth.Credentials, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		role, ok := creds.Verify(req.Username, req.Password)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token, err := codec.Issue(role)
		if err != nil {
			logger.Error("issue token", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		logger.Info("login", "username", req.Username, "role", role)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{Token: token})
	})
}
