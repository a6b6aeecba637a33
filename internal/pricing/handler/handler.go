package handler

import (
	"errors"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/internal/pricing"
	"github.com/fekuna/partstock-inventory-service/internal/pricing/dto"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PricingHandler struct {
	uc     pricing.UseCase
	logger logger.ZapLogger
}

func NewPricingHandler(uc pricing.UseCase, log logger.ZapLogger) *PricingHandler {
	return &PricingHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PricingHandler) Register(router fiber.Router) {
	router.Post("/prices", h.SetCurrentPrice)
	router.Get("/prices/current", h.GetCurrentPrice)
	router.Get("/prices/history", h.ListHistory)
}

type setPriceRequest struct {
	PartID         string          `json:"part_id"`
	SupplierID     string          `json:"supplier_id"`
	PriceType      string          `json:"price_type"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Currency       string          `json:"currency"`
	EffectiveFrom  *time.Time      `json:"effective_from"`
	EffectiveUntil *time.Time      `json:"effective_until"`
}

func (h *PricingHandler) SetCurrentPrice(c *fiber.Ctx) error {
	var req setPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	effectiveFrom := time.Now()
	if req.EffectiveFrom != nil {
		effectiveFrom = *req.EffectiveFrom
	}

	rec, err := h.uc.SetCurrentPrice(c.UserContext(), &dto.SetPriceInput{
		PartID:         req.PartID,
		SupplierID:     req.SupplierID,
		PriceType:      req.PriceType,
		UnitPrice:      req.UnitPrice,
		Currency:       req.Currency,
		EffectiveFrom:  effectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *PricingHandler) GetCurrentPrice(c *fiber.Ctx) error {
	rec, err := h.uc.GetCurrentPrice(
		c.UserContext(),
		c.Query("part_id"),
		c.Query("supplier_id"),
		c.Query("price_type"),
	)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(rec)
}

func (h *PricingHandler) ListHistory(c *fiber.Ctx) error {
	f := &dto.PriceFilters{
		PartID:     c.Query("part_id"),
		SupplierID: c.Query("supplier_id"),
		PriceType:  c.Query("price_type"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 50),
	}

	items, total, err := h.uc.ListHistory(c.UserContext(), f)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

func (h *PricingHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrUnknownPart),
		errors.Is(err, model.ErrUnknownSupplier),
		errors.Is(err, model.ErrNoCurrentPrice):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrPriceWindowConflict),
		errors.Is(err, model.ErrInvalidUnitCost):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.Error("pricing handler error", zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
