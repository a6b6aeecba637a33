package handler

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/auth"
	"github.com/fekuna/partstock-inventory-service/internal/inventory"
	"github.com/fekuna/partstock-inventory-service/internal/inventory/dto"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(router fiber.Router) {
	router.Get("/parts/low-stock", h.ListLowStock)
	router.Get("/parts/:id/stock-status", h.GetStockStatus)
	router.Get("/parts/:id/lots", h.ListLots)

	router.Post("/inbound", h.RecordInbound)
	router.Get("/inbound", h.ListInbound)

	router.Post("/outbound", h.CreateOutbound)
	router.Get("/outbound", h.ListOutbound)
	router.Patch("/outbound/:id/approve", h.ApproveOutbound)
	router.Patch("/outbound/:id/reject", h.RejectOutbound)
	router.Patch("/outbound/:id/cancel", h.CancelOutbound)
	router.Patch("/outbound/:id/issue", h.IssueOutbound)
	router.Get("/outbound/:id/allocations", h.ListAllocations)
}

type recordInboundRequest struct {
	PartID              string          `json:"part_id"`
	SupplierID          string          `json:"supplier_id"`
	Quantity            int64           `json:"quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	Currency            string          `json:"currency"`
	ReferenceNumber     string          `json:"reference_number"`
	Location            string          `json:"location"`
	LotNumber           string          `json:"lot_number"`
	ReceivedAt          *time.Time      `json:"received_at"`
	ExpiryDate          *time.Time      `json:"expiry_date"`
	RecordPrice         bool            `json:"record_price"`
	PriceType           string          `json:"price_type"`
	PriceEffectiveUntil *time.Time      `json:"price_effective_until"`
}

func (h *InventoryHandler) RecordInbound(c *fiber.Ctx) error {
	var req recordInboundRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	receivedAt := time.Now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	lot, err := h.uc.RecordInbound(userCtx(c), &dto.RecordInboundInput{
		PartID:              req.PartID,
		SupplierID:          req.SupplierID,
		Quantity:            req.Quantity,
		UnitCost:            req.UnitCost,
		Currency:            req.Currency,
		ReferenceNumber:     req.ReferenceNumber,
		Location:            req.Location,
		LotNumber:           req.LotNumber,
		ReceivedAt:          receivedAt,
		ExpiryDate:          req.ExpiryDate,
		RecordPrice:         req.RecordPrice,
		PriceType:           req.PriceType,
		PriceEffectiveUntil: req.PriceEffectiveUntil,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(lot)
}

func (h *InventoryHandler) ListInbound(c *fiber.Ctx) error {
	f := &dto.InboundFilters{
		PartID:          c.Query("part_id"),
		SupplierID:      c.Query("supplier_id"),
		ReferenceNumber: c.Query("reference_number"),
		Page:            c.QueryInt("page", 1),
		PageSize:        c.QueryInt("page_size", 50),
	}

	items, total, err := h.uc.ListInboundEvents(userCtx(c), f)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

type createOutboundRequest struct {
	PartID      string     `json:"part_id"`
	Quantity    int64      `json:"quantity"`
	RequestedAt *time.Time `json:"requested_at"`
}

func (h *InventoryHandler) CreateOutbound(c *fiber.Ctx) error {
	var req createOutboundRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	input := &dto.CreateOutboundInput{
		PartID:   req.PartID,
		Quantity: req.Quantity,
	}
	if req.RequestedAt != nil {
		input.RequestedAt = *req.RequestedAt
	}

	event, err := h.uc.CreateOutboundRequest(userCtx(c), input)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *InventoryHandler) ListOutbound(c *fiber.Ctx) error {
	f := &dto.OutboundFilters{
		PartID:    c.Query("part_id"),
		Requester: c.Query("requester"),
		Status:    c.Query("status"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 50),
	}

	items, total, err := h.uc.ListOutboundEvents(userCtx(c), f)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

func (h *InventoryHandler) ApproveOutbound(c *fiber.Ctx) error {
	event, err := h.uc.ApproveOutbound(userCtx(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(event)
}

func (h *InventoryHandler) RejectOutbound(c *fiber.Ctx) error {
	event, err := h.uc.RejectOutbound(userCtx(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(event)
}

func (h *InventoryHandler) CancelOutbound(c *fiber.Ctx) error {
	event, err := h.uc.CancelOutbound(userCtx(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(event)
}

func (h *InventoryHandler) IssueOutbound(c *fiber.Ctx) error {
	allocations, err := h.uc.IssueOutbound(userCtx(c), c.Params("id"), time.Now())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"allocations": allocations})
}

func (h *InventoryHandler) ListAllocations(c *fiber.Ctx) error {
	allocations, err := h.uc.ListAllocations(userCtx(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"allocations": allocations})
}

func (h *InventoryHandler) GetStockStatus(c *fiber.Ctx) error {
	info, err := h.uc.GetStockStatus(userCtx(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(info)
}

type lotView struct {
	model.InventoryLot
	TotalValue decimal.Decimal `json:"total_value"`
}

func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.uc.ListLotsForPart(userCtx(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}

	views := make([]lotView, len(lots))
	for i := range lots {
		views[i] = lotView{InventoryLot: lots[i], TotalValue: lots[i].TotalValue()}
	}
	return c.JSON(fiber.Map{"lots": views})
}

func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	items, total, err := h.uc.ListLowStock(userCtx(c), c.QueryInt("page", 1), c.QueryInt("page_size", 50))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

func (h *InventoryHandler) mapError(c *fiber.Ctx, err error) error {
	var dup *model.DuplicateEventError
	if errors.As(err, &dup) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":            "duplicate event",
			"reference_number": dup.ReferenceNumber,
		})
	}

	var insufficient *model.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "insufficient stock",
			"part_id":   insufficient.PartID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
			"shortfall": insufficient.Shortfall(),
		})
	}

	switch {
	case errors.Is(err, model.ErrUnknownPart),
		errors.Is(err, model.ErrUnknownSupplier),
		errors.Is(err, model.ErrUnknownEvent):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInvalidUnitCost),
		errors.Is(err, model.ErrMissingReference),
		errors.Is(err, model.ErrPriceWindowConflict):
		return badRequest(c, err.Error())
	case errors.Is(err, model.ErrInvalidPart),
		errors.Is(err, model.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.Error("inventory handler error", zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// userCtx carries the authenticated user id (stamped upstream into the
// X-User-ID header) onto the request context for audit stamping.
func userCtx(c *fiber.Ctx) context.Context {
	return auth.WithUserID(c.UserContext(), c.Get("X-User-ID"))
}
