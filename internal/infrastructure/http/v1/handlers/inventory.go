package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"farmstock/internal/core/types"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/http/v1/dto"
)

// InventoryService is the part of *inventory.Service the handlers use.
type InventoryService interface {
	RecordMovement(ctx context.Context, req inventory.MovementRequest) (inventory.StockMovement, error)
	StockIn(ctx context.Context, req inventory.StockInRequest) (inventory.StockInResult, error)
	GetOnHand(ctx context.Context, key inventory.StockKey) (types.Quantity, error)
	ListOnHand(ctx context.Context, q inventory.OnHandQuery) (inventory.Page[inventory.OnHandRow], error)
	ListMovements(ctx context.Context, q inventory.MovementQuery) (inventory.Page[inventory.StockMovement], error)
}

// InventoryHandler handles HTTP requests for the stock ledger.
type InventoryHandler struct {
	*BaseHandler
	service InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service InventoryService) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// RecordMovement handles POST /inventory/movements
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	m, err := h.service.RecordMovement(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromMovement(m))
}

// StockIn handles POST /inventory/stock-in
func (h *InventoryHandler) StockIn(c *gin.Context) {
	var req dto.StockInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.StockIn(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromStockInResult(res))
}

// GetOnHand handles GET /inventory/on-hand?lotId&warehouseId&locationId
func (h *InventoryHandler) GetOnHand(c *gin.Context) {
	lotID, err := dto.ParseID("lotId", c.Query("lotId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	warehouseID, err := dto.ParseID("warehouseId", c.Query("warehouseId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	locationID, err := dto.ParseOptionalID("locationId", optionalQuery(c, "locationId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	key := inventory.StockKey{SupplyLotID: lotID, WarehouseID: warehouseID, LocationID: locationID}
	qty, err := h.service.GetOnHand(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.OnHandResponse{
		SupplyLotID: lotID.String(),
		WarehouseID: warehouseID.String(),
		OnHand:      qty.String(),
	}
	if locationID != nil {
		s := locationID.String()
		resp.LocationID = &s
	}
	h.OK(c, resp)
}

// ListOnHand handles GET /inventory/warehouses/:warehouseId/on-hand
func (h *InventoryHandler) ListOnHand(c *gin.Context) {
	warehouseID, err := dto.ParseID("warehouseId", c.Param("warehouseId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	locationID, err := dto.ParseOptionalID("locationId", optionalQuery(c, "locationId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	lotID, err := dto.ParseOptionalID("lotId", optionalQuery(c, "lotId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	page, err := h.service.ListOnHand(c.Request.Context(), inventory.OnHandQuery{
		WarehouseID: warehouseID,
		LocationID:  locationID,
		SupplyLotID: lotID,
		Search:      c.Query("q"),
		PageRequest: h.PageRequest(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPage(page, dto.FromOnHandRow))
}

// ListMovements handles GET /inventory/warehouses/:warehouseId/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	warehouseID, err := dto.ParseID("warehouseId", c.Param("warehouseId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	q := inventory.MovementQuery{
		WarehouseID: warehouseID,
		PageRequest: h.PageRequest(c),
	}

	if raw := c.Query("type"); raw != "" {
		t, err := inventory.ParseMovementType(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		q.Type = &t
	}
	if q.From, err = dto.ParseDate("from", optionalQuery(c, "from")); err != nil {
		h.Error(c, err)
		return
	}
	if q.To, err = dto.ParseDate("to", optionalQuery(c, "to")); err != nil {
		h.Error(c, err)
		return
	}

	page, err := h.service.ListMovements(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPage(page, dto.FromMovement))
}

func optionalQuery(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}

var _ InventoryService = (*inventory.Service)(nil)

