package handler

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/metadata"

	"github.com/jan-ice17/supermarket-inventory/internal/adapter/handler/inventoryrpc"
	"github.com/jan-ice17/supermarket-inventory/internal/adapter/metrics"
	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
	"github.com/jan-ice17/supermarket-inventory/internal/core/service"
	"github.com/jan-ice17/supermarket-inventory/internal/port"
)

const (
	transportGRPC = "grpc"

	idempotencyKeyMetadata = "idempotency-key"
)

type GRPCHandler struct {
	inventoryrpc.UnimplementedInventoryServiceServer
	inventory   *service.InventoryService
	idempotency port.IdempotencyRepository
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewGRPCHandler(inventory *service.InventoryService, idempotency port.IdempotencyRepository, m *metrics.Metrics, logger *slog.Logger) *GRPCHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GRPCHandler{
		inventory:   inventory,
		idempotency: idempotency,
		metrics:     m,
		logger:      logger,
	}
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *inventoryrpc.AddItemRequest) (*inventoryrpc.MutationResponse, error) {
	item := req.GetItem()
	if item == nil {
		return &inventoryrpc.MutationResponse{Success: false, Message: "missing required fields"}, nil
	}
	if resp := h.claim(ctx); resp != nil {
		return resp, nil
	}

	h.inventory.AddItem(domain.InventoryItem{
		ID:             item.Id,
		Name:           item.Name,
		Quantity:       item.Quantity,
		Price:          item.Price,
		ExpirationDate: item.ExpirationDate,
	})
	h.observe("add_item")

	return &inventoryrpc.MutationResponse{Success: true, Message: "item added"}, nil
}

func (h *GRPCHandler) GetItem(ctx context.Context, req *inventoryrpc.GetItemRequest) (*inventoryrpc.GetItemResponse, error) {
	item, found := h.inventory.GetItem(req.GetId())
	h.observe("get_item")
	if !found {
		return &inventoryrpc.GetItemResponse{Found: false}, nil
	}

	return &inventoryrpc.GetItemResponse{
		Found: true,
		Item: &inventoryrpc.Item{
			Id:             item.ID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			Price:          item.Price,
			ExpirationDate: item.ExpirationDate,
		},
	}, nil
}

func (h *GRPCHandler) UpdateItemQuantity(ctx context.Context, req *inventoryrpc.UpdateItemQuantityRequest) (*inventoryrpc.MutationResponse, error) {
	if resp := h.claim(ctx); resp != nil {
		return resp, nil
	}

	h.inventory.UpdateItemQuantity(req.GetId(), req.GetQuantity())
	h.observe("update_item_quantity")

	return &inventoryrpc.MutationResponse{Success: true, Message: "quantity updated"}, nil
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *inventoryrpc.RemoveItemRequest) (*inventoryrpc.MutationResponse, error) {
	if resp := h.claim(ctx); resp != nil {
		return resp, nil
	}

	h.inventory.RemoveItem(req.GetId())
	h.observe("remove_item")

	return &inventoryrpc.MutationResponse{Success: true, Message: "item removed"}, nil
}

func (h *GRPCHandler) GetLogs(ctx context.Context, req *inventoryrpc.GetLogsRequest) (*inventoryrpc.GetLogsResponse, error) {
	logs := h.inventory.GetLogs()
	h.observe("get_logs")

	return &inventoryrpc.GetLogsResponse{Logs: logs}, nil
}

// claim returns a failure response when the call must not proceed.
func (h *GRPCHandler) claim(ctx context.Context) *inventoryrpc.MutationResponse {
	var key string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(idempotencyKeyMetadata); len(values) > 0 {
			key = values[0]
		}
	}

	err := claimRequest(ctx, h.idempotency, key)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrDuplicateRequest) {
		if h.metrics != nil {
			h.metrics.IdempotentRejection()
		}
		return &inventoryrpc.MutationResponse{Success: false, Message: "duplicate request"}
	}

	h.logger.Error("idempotency check failed", "error", err)
	return &inventoryrpc.MutationResponse{Success: false, Message: "internal error"}
}

func (h *GRPCHandler) observe(operation string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveOperation(operation, transportGRPC)
	h.metrics.SetSizes(h.inventory.Stats())
}
