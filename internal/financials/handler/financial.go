package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"studyhall/internal/financials/service"
	httputil "studyhall/pkg/http"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

const basePath = "/api/v1/financial-records"

type FinancialHandler struct {
	service service.FinancialService
	log     *logger.Logger
}

func NewFinancialHandler(service service.FinancialService, log *logger.Logger) *FinancialHandler {
	return &FinancialHandler{
		service: service,
		log:     log,
	}
}

func (h *FinancialHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(basePath, httputil.WithDateRange(h.GetAll))
	router.POST(basePath, h.Create)
	router.GET(basePath+"/summary", httputil.WithDateRange(h.Summary))
	router.GET(basePath+"/id/:id", httputil.WithObjectID("id", h.GetByID))
	router.PUT(basePath+"/id/:id", httputil.WithObjectID("id", h.Update))
	router.DELETE(basePath+"/id/:id", httputil.WithObjectID("id", h.Delete))
}

func filterFrom(r *http.Request) model.LedgerFilter {
	dr := httputil.RangeFromContext(r.Context())
	return model.LedgerFilter{
		Type: r.URL.Query().Get("type"),
		From: dr.From,
		To:   dr.To,
	}
}

func (h *FinancialHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var record model.FinancialRecord
	if err := httputil.DecodeJSON(r, &record); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &record); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, record); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *FinancialHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	record, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", record)
}

func (h *FinancialHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	records, totalCount, err := h.service.GetAll(r.Context(), filterFrom(r), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, records, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *FinancialHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.FinancialRecordUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	record, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", record)
}

func (h *FinancialHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *FinancialHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.Summary(r.Context(), filterFrom(r), r.URL.Query().Get("bucket"))
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}
	h.writeSuccess(w, "Summary", summary)
}

func (h *FinancialHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *FinancialHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
