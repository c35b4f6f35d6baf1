package inventory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/core/numerator"
	"farmstock/internal/domain/catalog"
)

// memStore is an in-memory implementation of every inventory port.
// Transactions are serialized and roll back by restoring a snapshot.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	farms      map[id.ID]catalog.Farm
	warehouses map[id.ID]catalog.Warehouse
	locations  map[id.ID]catalog.StockLocation
	items      map[id.ID]catalog.SupplyItem
	suppliers  map[id.ID]catalog.Supplier
	lots       map[id.ID]catalog.SupplyLot
	seasons    map[id.ID]catalog.Season
	tasks      map[id.ID]catalog.Task
	movements  []StockMovement

	clock     time.Time
	sequences map[string]int64

	// failAppend makes the next Append calls fail.
	failAppend error
	lockCalls  int
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		farms:      make(map[id.ID]catalog.Farm),
		warehouses: make(map[id.ID]catalog.Warehouse),
		locations:  make(map[id.ID]catalog.StockLocation),
		items:      make(map[id.ID]catalog.SupplyItem),
		suppliers:  make(map[id.ID]catalog.Supplier),
		lots:       make(map[id.ID]catalog.SupplyLot),
		seasons:    make(map[id.ID]catalog.Season),
		tasks:      make(map[id.ID]catalog.Task),
		clock:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		sequences:  make(map[string]int64),
	}
}

// --- tx.Manager ---

func (s *memStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	lots := maps.Clone(s.lots)
	movements := slices.Clone(s.movements)
	sequences := maps.Clone(s.sequences)
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		s.mu.Lock()
		s.lots = lots
		s.movements = movements
		s.sequences = sequences
		s.mu.Unlock()
		return err
	}
	return nil
}

// --- StockLocker ---

func (s *memStore) LockStockKey(ctx context.Context, _, _ id.ID) error {
	if ctx.Value(memTxKey{}) == nil {
		return errors.New("stock key lock requires a transaction")
	}
	s.mu.Lock()
	s.lockCalls++
	s.mu.Unlock()
	return nil
}

// --- LedgerRepository ---

func (s *memStore) Append(_ context.Context, m NewMovement) (StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAppend != nil {
		return StockMovement{}, s.failAppend
	}
	if !m.Quantity.IsPositive() {
		return StockMovement{}, errors.New("quantity check violated")
	}

	s.clock = s.clock.Add(time.Minute)
	stored := StockMovement{
		ID:          id.New(),
		SupplyLotID: m.SupplyLotID,
		WarehouseID: m.WarehouseID,
		LocationID:  m.LocationID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		SeasonID:    m.SeasonID,
		TaskID:      m.TaskID,
		Note:        m.Note,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   s.clock,
	}
	s.movements = append(s.movements, stored)
	return stored, nil
}

func (s *memStore) Totals(_ context.Context, key StockKey) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t Totals
	for _, m := range s.movements {
		if m.SupplyLotID != key.SupplyLotID || m.WarehouseID != key.WarehouseID {
			continue
		}
		if key.LocationID != nil && (m.LocationID == nil || *m.LocationID != *key.LocationID) {
			continue
		}
		t = t.Add(m)
	}
	return t, nil
}

func (s *memStore) LotTotals(_ context.Context, lotID id.ID) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t Totals
	for _, m := range s.movements {
		if m.SupplyLotID == lotID {
			t = t.Add(m)
		}
	}
	return t, nil
}

func (s *memStore) ListLotIDs(_ context.Context, warehouseID id.ID, locationID *id.ID) ([]id.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[id.ID]bool)
	var out []id.ID
	for _, m := range s.movements {
		if m.WarehouseID != warehouseID || seen[m.SupplyLotID] {
			continue
		}
		if locationID != nil && (m.LocationID == nil || *m.LocationID != *locationID) {
			continue
		}
		seen[m.SupplyLotID] = true
		out = append(out, m.SupplyLotID)
	}
	return out, nil
}

func (s *memStore) List(_ context.Context, f MovementFilter) ([]StockMovement, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []StockMovement
	for _, m := range s.movements {
		if m.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.CreatedFrom != nil && m.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && m.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, m)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return slices.Clone(matched[start:end]), total, nil
}

// --- LotStore ---

func (s *memStore) CreateLot(_ context.Context, lot catalog.SupplyLot) (catalog.SupplyLot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot.CreatedAt = s.clock
	s.lots[lot.ID] = lot
	return lot, nil
}

func (s *memStore) UpdateLotStatus(_ context.Context, lotID id.ID, status catalog.LotStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot, ok := s.lots[lotID]
	if !ok {
		return apperror.NewNotFound("supply lot", lotID)
	}
	lot.Status = status
	s.lots[lotID] = lot
	return nil
}

func (s *memStore) ListLotsByStatus(_ context.Context, statuses ...catalog.LotStatus) ([]catalog.SupplyLot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []catalog.SupplyLot
	for _, lot := range s.lots {
		if slices.Contains(statuses, lot.Status) {
			out = append(out, lot)
		}
	}
	return out, nil
}

// --- Catalog ---

func memGet[T any](s *memStore, m map[id.ID]T, entity string, key id.ID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := m[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(entity, key)
	}
	return v, nil
}

func (s *memStore) GetWarehouse(_ context.Context, v id.ID) (catalog.Warehouse, error) {
	return memGet(s, s.warehouses, "warehouse", v)
}

func (s *memStore) GetStockLocation(_ context.Context, v id.ID) (catalog.StockLocation, error) {
	return memGet(s, s.locations, "stock location", v)
}

func (s *memStore) GetSupplyLot(_ context.Context, v id.ID) (catalog.SupplyLot, error) {
	return memGet(s, s.lots, "supply lot", v)
}

func (s *memStore) GetSupplier(_ context.Context, v id.ID) (catalog.Supplier, error) {
	return memGet(s, s.suppliers, "supplier", v)
}

func (s *memStore) GetSupplyItem(_ context.Context, v id.ID) (catalog.SupplyItem, error) {
	return memGet(s, s.items, "supply item", v)
}

func (s *memStore) GetSeason(_ context.Context, v id.ID) (catalog.Season, error) {
	return memGet(s, s.seasons, "season", v)
}

func (s *memStore) GetTask(_ context.Context, v id.ID) (catalog.Task, error) {
	return memGet(s, s.tasks, "task", v)
}

// GetFarmOwner satisfies security.FarmOwners.
func (s *memStore) GetFarmOwner(_ context.Context, farmID id.ID) (id.ID, error) {
	farm, err := memGet(s, s.farms, "farm", farmID)
	if err != nil {
		return id.ID{}, err
	}
	return farm.OwnerID, nil
}

// --- numerator.Generator ---

func (s *memStore) GetNextNumber(_ context.Context, cfg numerator.Config, period time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s_%d", cfg.Prefix, period.Year())
	s.sequences[key]++
	return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, period.Year(), cfg.PadWidth, s.sequences[key]), nil
}

// --- helpers ---

func (s *memStore) lotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lots)
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *memStore) snapshotMovements() []StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.movements)
}
