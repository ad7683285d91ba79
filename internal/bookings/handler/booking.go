package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"studyhall/internal/bookings/service"
	apperrors "studyhall/pkg/errors"
	httputil "studyhall/pkg/http"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

const basePath = "/api/v1/bookings"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(basePath, httputil.WithDateRange(h.GetAll))
	router.POST(basePath, h.Create)
	router.GET(basePath+"/summary", httputil.WithDateRange(h.Summary))
	router.GET(basePath+"/id/:id", httputil.WithObjectID("id", h.GetByID))
	router.PUT(basePath+"/id/:id", httputil.WithObjectID("id", h.Update))
	router.DELETE(basePath+"/id/:id", httputil.WithObjectID("id", h.Delete))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", booking)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	dr := httputil.RangeFromContext(r.Context())
	filter := model.BookingFilter{
		SeatID:    query.Get("seat_id"),
		StudentID: query.Get("student_id"),
		Status:    query.Get("status"),
		From:      dr.From,
		To:        dr.To,
	}
	if filter.SeatID != "" {
		if _, err := primitive.ObjectIDFromHex(filter.SeatID); err != nil {
			h.writeError(w, "GetAll", apperrors.InvalidInput("invalid seat_id parameter: "+filter.SeatID))
			return
		}
	}

	bookings, totalCount, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dr := httputil.RangeFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), dr.From, dr.To)
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}
	h.writeSuccess(w, "Summary", summary)
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
