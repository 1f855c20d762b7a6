package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jan-ice17/supermarket-inventory/internal/adapter/metrics"
	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
	"github.com/jan-ice17/supermarket-inventory/internal/core/service"
	"github.com/jan-ice17/supermarket-inventory/internal/port"
)

const (
	transportHTTP = "http"

	requestIDHeader      = "X-Request-ID"
	idempotencyKeyHeader = "Idempotency-Key"
)

type HTTPHandler struct {
	inventory   *service.InventoryService
	idempotency port.IdempotencyRepository
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

type AddItemHTTPRequest struct {
	ID             *uint32 `json:"id"`
	Name           string  `json:"name"`
	Quantity       *uint32 `json:"quantity"`
	Price          float64 `json:"price"`
	ExpirationDate uint64  `json:"expiration_date"`
}

type UpdateQuantityHTTPRequest struct {
	Quantity *uint32 `json:"quantity"`
}

type HTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LogsHTTPResponse struct {
	Logs []string `json:"logs"`
}

// NewHTTPHandler builds the REST surface. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewHTTPHandler(inventory *service.InventoryService, idempotency port.IdempotencyRepository, m *metrics.Metrics, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{
		inventory:   inventory,
		idempotency: idempotency,
		metrics:     m,
		logger:      logger,
	}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.Use(requestID)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/items", h.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", h.GetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}/quantity", h.UpdateItemQuantity).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", h.RemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/logs", h.GetLogs).Methods(http.MethodGet)
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, HTTPResponse{Message: "invalid request body"})
		return
	}
	if req.ID == nil || req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, HTTPResponse{Message: "missing required fields"})
		return
	}
	if !h.claim(w, r) {
		return
	}

	h.inventory.AddItem(domain.InventoryItem{
		ID:             *req.ID,
		Name:           req.Name,
		Quantity:       *req.Quantity,
		Price:          req.Price,
		ExpirationDate: req.ExpirationDate,
	})
	h.observe("add_item")

	writeJSON(w, http.StatusOK, HTTPResponse{Success: true, Message: "item added"})
}

func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, found := h.inventory.GetItem(id)
	h.observe("get_item")
	if !found {
		writeJSON(w, http.StatusNotFound, HTTPResponse{Message: "item not found"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// UpdateItemQuantity answers 200 even when the item does not exist; the
// store ignores unknown ids.
func (h *HTTPHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, HTTPResponse{Message: "invalid request body"})
		return
	}
	if req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, HTTPResponse{Message: "missing required fields"})
		return
	}
	if !h.claim(w, r) {
		return
	}

	h.inventory.UpdateItemQuantity(id, *req.Quantity)
	h.observe("update_item_quantity")

	writeJSON(w, http.StatusOK, HTTPResponse{Success: true, Message: "quantity updated"})
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if !h.claim(w, r) {
		return
	}

	h.inventory.RemoveItem(id)
	h.observe("remove_item")

	writeJSON(w, http.StatusOK, HTTPResponse{Success: true, Message: "item removed"})
}

func (h *HTTPHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	logs := h.inventory.GetLogs()
	h.observe("get_logs")

	writeJSON(w, http.StatusOK, LogsHTTPResponse{Logs: logs})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// claim writes the error response itself and reports whether the request
// may proceed.
func (h *HTTPHandler) claim(w http.ResponseWriter, r *http.Request) bool {
	err := claimRequest(r.Context(), h.idempotency, r.Header.Get(idempotencyKeyHeader))
	if err == nil {
		return true
	}

	if errors.Is(err, ErrDuplicateRequest) {
		if h.metrics != nil {
			h.metrics.IdempotentRejection()
		}
		writeJSON(w, http.StatusConflict, HTTPResponse{Message: "duplicate request"})
		return false
	}

	h.logger.Error("idempotency check failed", "request_id", w.Header().Get(requestIDHeader), "error", err)
	writeJSON(w, http.StatusInternalServerError, HTTPResponse{Message: "internal error"})
	return false
}

func (h *HTTPHandler) observe(operation string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveOperation(operation, transportHTTP)
	h.metrics.SetSizes(h.inventory.Stats())
}

func itemID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, HTTPResponse{Message: "invalid item id"})
		return 0, false
	}
	return uint32(id), true
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
