package inventory

import (
	"context"
	"fmt"
	"strings"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/core/numerator"
	"farmstock/internal/domain/catalog"
	"farmstock/pkg/logger"
)

// BatchCodePrefix prefixes generated batch codes (LOT-2026-00001).
const BatchCodePrefix = "LOT"

// StockIn receives a new lot: it creates the SupplyLot and its opening IN
// movement in one transaction. Restricted items need ConfirmRestricted on
// every call.
func (s *Service) StockIn(ctx context.Context, req StockInRequest) (StockInResult, error) {
	var result StockInResult

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.authorizeWarehouse(ctx, req.WarehouseID, req.LocationID); err != nil {
			return err
		}

		if _, err := s.catalog.GetSupplier(ctx, req.SupplierID); err != nil {
			return fmt.Errorf("get supplier: %w", err)
		}
		item, err := s.catalog.GetSupplyItem(ctx, req.SupplyItemID)
		if err != nil {
			return fmt.Errorf("get supply item: %w", err)
		}

		if item.Restricted && !req.ConfirmRestricted {
			return apperror.NewRestrictedConfirmationRequired(item.ID.String())
		}

		// The sign is never taken from the caller.
		qty := req.Quantity.Abs()
		if !qty.IsPositive() {
			return apperror.NewValidation("quantity must be a positive number").
				WithDetail("field", "quantity")
		}

		batchCode := strings.TrimSpace(req.BatchCode)
		if batchCode == "" {
			batchCode, err = s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(BatchCodePrefix), s.now())
			if err != nil {
				return fmt.Errorf("generate batch code: %w", err)
			}
		}

		lot, err := s.lots.CreateLot(ctx, catalog.SupplyLot{
			ID:           id.New(),
			SupplyItemID: item.ID,
			SupplierID:   req.SupplierID,
			BatchCode:    batchCode,
			ExpiryDate:   req.ExpiryDate,
			Status:       catalog.LotStatusInStock,
		})
		if err != nil {
			return fmt.Errorf("create lot: %w", err)
		}

		movement, err := s.appendValidated(ctx, MovementRequest{
			SupplyLotID: lot.ID,
			WarehouseID: req.WarehouseID,
			LocationID:  req.LocationID,
			Type:        MovementIn,
			Quantity:    qty,
			Note:        req.Note,
		})
		if err != nil {
			return err
		}

		result = StockInResult{Lot: lot, Movement: movement}
		return nil
	})
	if err != nil {
		return StockInResult{}, err
	}

	logger.Info(ctx, "stock-in completed",
		"supply_lot_id", result.Lot.ID,
		"batch_code", result.Lot.BatchCode,
		"warehouse_id", result.Movement.WarehouseID,
		"quantity", result.Movement.Quantity.String(),
	)
	return result, nil
}
