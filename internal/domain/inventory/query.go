package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/domain/catalog"
)

// ListOnHand lists every lot with a strictly positive balance at the
// warehouse. Balances are computed in full and paginated in memory.
func (s *Service) ListOnHand(ctx context.Context, q OnHandQuery) (Page[OnHandRow], error) {
	if err := s.authorizeWarehouse(ctx, q.WarehouseID, q.LocationID); err != nil {
		return Page[OnHandRow]{}, err
	}

	balances, err := s.reconciler.PositiveBalances(ctx, q.WarehouseID, q.LocationID, q.SupplyLotID)
	if err != nil {
		return Page[OnHandRow]{}, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	items := make(map[id.ID]catalog.SupplyItem)
	rows := make([]OnHandRow, 0, len(balances))

	for _, b := range balances {
		lot, err := s.catalog.GetSupplyLot(ctx, b.SupplyLotID)
		if err != nil {
			return Page[OnHandRow]{}, fmt.Errorf("get supply lot: %w", err)
		}
		item, ok := items[lot.SupplyItemID]
		if !ok {
			item, err = s.catalog.GetSupplyItem(ctx, lot.SupplyItemID)
			if err != nil {
				return Page[OnHandRow]{}, fmt.Errorf("get supply item: %w", err)
			}
			items[item.ID] = item
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(lot.BatchCode), search) &&
			!strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}

		rows = append(rows, OnHandRow{
			SupplyLotID:  lot.ID,
			BatchCode:    lot.BatchCode,
			SupplyItemID: item.ID,
			ItemName:     item.Name,
			Unit:         item.Unit,
			LotStatus:    lot.Status,
			ExpiryDate:   lot.ExpiryDate,
			WarehouseID:  q.WarehouseID,
			LocationID:   q.LocationID,
			OnHand:       b.OnHand,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ItemName != rows[j].ItemName {
			return rows[i].ItemName < rows[j].ItemName
		}
		return rows[i].BatchCode < rows[j].BatchCode
	})

	return Paginate(rows, q.PageRequest), nil
}

// ListMovements returns the warehouse's ledger entries, newest first.
func (s *Service) ListMovements(ctx context.Context, q MovementQuery) (Page[StockMovement], error) {
	if err := s.authorizeWarehouse(ctx, q.WarehouseID, nil); err != nil {
		return Page[StockMovement]{}, err
	}

	if q.Type != nil && !q.Type.IsValid() {
		return Page[StockMovement]{}, apperror.NewValidation(fmt.Sprintf("unknown movement type %q", *q.Type)).
			WithDetail("field", "type")
	}

	from, to := DayRange(q.From, q.To)
	if from != nil && to != nil && from.After(*to) {
		return Page[StockMovement]{}, apperror.NewValidation("from must not be after to").
			WithDetail("field", "from")
	}

	page := q.PageRequest.Normalize()
	movements, total, err := s.ledger.List(ctx, MovementFilter{
		WarehouseID: q.WarehouseID,
		Type:        q.Type,
		CreatedFrom: from,
		CreatedTo:   to,
		Limit:       page.Size,
		Offset:      page.Offset(),
	})
	if err != nil {
		return Page[StockMovement]{}, fmt.Errorf("list movements: %w", err)
	}

	return NewPage(movements, page, total), nil
}

// DayRange widens calendar days to [from 00:00:00, to 23:59:59.999999999]
// in each value's own location.
func DayRange(from, to *time.Time) (*time.Time, *time.Time) {
	var start, end *time.Time
	if from != nil {
		v := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		start = &v
	}
	if to != nil {
		v := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), to.Location())
		end = &v
	}
	return start, end
}
