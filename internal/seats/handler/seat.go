package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"studyhall/internal/seats/service"
	httputil "studyhall/pkg/http"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

const basePath = "/api/v1/seats"

type SeatHandler struct {
	service service.SeatService
	log     *logger.Logger
}

func NewSeatHandler(service service.SeatService, log *logger.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log,
	}
}

func (h *SeatHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(basePath, h.GetAll)
	router.POST(basePath, h.Create)
	router.GET(basePath+"/summary", h.Summary)
	router.GET(basePath+"/types", h.Types)
	router.GET(basePath+"/id/:id", httputil.WithObjectID("id", h.GetByID))
	router.PUT(basePath+"/id/:id", httputil.WithObjectID("id", h.Update))
	router.DELETE(basePath+"/id/:id", httputil.WithObjectID("id", h.Delete))
	router.GET(basePath+"/id/:id/availability", httputil.WithObjectID("id", httputil.WithDateRange(h.Availability)))
	router.PUT(basePath+"/id/:id/status", httputil.WithObjectID("id", h.UpdateStatus))
}

func (h *SeatHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var seat model.Seat
	if err := httputil.DecodeJSON(r, &seat); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &seat); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, seat); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SeatHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seat, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", seat)
}

func (h *SeatHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	filter := model.SeatFilter{
		Status: query.Get("status"),
		Type:   query.Get("type"),
	}

	seats, totalCount, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, seats, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SeatHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SeatUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	seat, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", seat)
}

func (h *SeatHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.SeatStatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	seat, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	h.writeSuccess(w, "UpdateStatus", seat)
}

func (h *SeatHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SeatHandler) Types(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, "Types", h.service.Types())
}

func (h *SeatHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}
	h.writeSuccess(w, "Summary", summary)
}

func (h *SeatHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dr := httputil.RangeFromContext(r.Context())

	availability, err := h.service.Availability(r.Context(), ps.ByName("id"), dr.From, dr.To)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	h.writeSuccess(w, "Availability", availability)
}

func (h *SeatHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeatHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
