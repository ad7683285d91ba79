package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"studyhall/internal/sessions/service"
	httputil "studyhall/pkg/http"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

const basePath = "/api/v1/sessions"

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(basePath, h.Issue)
	router.POST(basePath+"/validate", h.Validate)
	router.POST(basePath+"/refresh", h.Refresh)
	router.POST(basePath+"/revoke", h.Revoke)
	router.DELETE(basePath+"/user/:user_id", h.RevokeAll)
}

type revokeAllResponse struct {
	UserID  string `json:"user_id"`
	Revoked int64  `json:"revoked"`
}

func (h *SessionHandler) Issue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.IssueTokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Issue", err)
		return
	}

	issued, err := h.service.Issue(r.Context(), &req, clientInfo(r))
	if err != nil {
		h.writeError(w, "Issue", err)
		return
	}

	if err := httputil.WriteCreated(w, issued); err != nil {
		h.log.Error("failed to write created response", "handler", "Issue", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.TokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	info, err := h.service.Validate(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, "Validate", err)
		return
	}
	h.writeSuccess(w, "Validate", info)
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.TokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Refresh", err)
		return
	}

	token, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}
	h.writeSuccess(w, "Refresh", token)
}

func (h *SessionHandler) Revoke(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.TokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Revoke", err)
		return
	}

	if err := h.service.Revoke(r.Context(), req.RefreshToken); err != nil {
		h.writeError(w, "Revoke", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SessionHandler) RevokeAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("user_id")
	n, err := h.service.RevokeAll(r.Context(), userID)
	if err != nil {
		h.writeError(w, "RevokeAll", err)
		return
	}
	h.writeSuccess(w, "RevokeAll", revokeAllResponse{UserID: userID, Revoked: n})
}

// clientInfo takes the first X-Forwarded-For hop when present.
func clientInfo(r *http.Request) model.ClientInfo {
	ip := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}
	return model.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}

func (h *SessionHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
