// Package main seeds a development database with one demo farm and prints
// an access token for its owner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"farmstock/internal/app"
	appctx "farmstock/internal/core/context"
	"farmstock/internal/core/id"
	"farmstock/internal/core/types"
	"farmstock/internal/domain/auth"
	"farmstock/internal/domain/catalog"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/config"
	"farmstock/internal/infrastructure/storage/postgres/catalog_repo"
	"farmstock/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	ownerFlag := flag.String("owner", "", "owner user id (generated when empty)")
	flag.Parse()

	if err := run(*configPath, *ownerFlag); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

// demo holds the ids of the seeded records.
type demo struct {
	Farm      catalog.Farm
	Warehouse catalog.Warehouse
	Location  catalog.StockLocation
	Season    catalog.Season
	Task      catalog.Task
	Lots      []catalog.SupplyLot
}

func run(configPath, ownerRaw string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.App.IsProduction() {
		return fmt.Errorf("refusing to seed a production database")
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ownerID := id.New()
	if ownerRaw != "" {
		if ownerID, err = id.Parse(ownerRaw); err != nil {
			return fmt.Errorf("invalid -owner: %w", err)
		}
	}

	inv := app.NewInventory(cfg, db)
	writer := catalog_repo.NewWriter(db.TxManager)

	var d demo
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: ownerID.String()})
	err = db.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		d, err = seedCatalog(ctx, writer, ownerID)
		if err != nil {
			return err
		}
		return seedStock(ctx, inv.Service, writer, &d)
	})
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})
	token, expiresAt, err := jwtService.GenerateAccessToken(auth.TokenSubject{
		UserID:  ownerID,
		Email:   "owner@farmstock.local",
		FarmIDs: []id.ID{d.Farm.ID},
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "seeding completed",
		"farm_id", d.Farm.ID,
		"warehouse_id", d.Warehouse.ID,
		"season_id", d.Season.ID,
		"task_id", d.Task.ID,
		"lots", len(d.Lots),
	)
	fmt.Printf("owner_id=%s\nwarehouse_id=%s\nseason_id=%s\ntask_id=%s\n", ownerID, d.Warehouse.ID, d.Season.ID, d.Task.ID)
	for _, lot := range d.Lots {
		fmt.Printf("lot %s id=%s\n", lot.BatchCode, lot.ID)
	}
	fmt.Printf("token (expires %s):\n%s\n", expiresAt.Format(time.RFC3339), token)
	return nil
}

func seedCatalog(ctx context.Context, w *catalog_repo.Writer, ownerID id.ID) (demo, error) {
	var (
		d   demo
		err error
	)

	if d.Farm, err = w.CreateFarm(ctx, catalog.Farm{ID: id.New(), Name: "Demo Farm", OwnerID: ownerID}); err != nil {
		return d, err
	}
	if d.Warehouse, err = w.CreateWarehouse(ctx, catalog.Warehouse{
		ID: id.New(), FarmID: d.Farm.ID, Name: "Main Barn", Type: "GENERAL",
	}); err != nil {
		return d, err
	}
	zone, shelf := "A", "3"
	if d.Location, err = w.CreateStockLocation(ctx, catalog.StockLocation{
		ID: id.New(), WarehouseID: d.Warehouse.ID, Zone: &zone, Shelf: &shelf,
	}); err != nil {
		return d, err
	}
	if d.Season, err = w.CreateSeason(ctx, catalog.Season{
		ID: id.New(), FarmID: d.Farm.ID, Name: fmt.Sprintf("%d Main", time.Now().Year()),
	}); err != nil {
		return d, err
	}
	if d.Task, err = w.CreateTask(ctx, catalog.Task{
		ID: id.New(), SeasonID: d.Season.ID, Title: "Spring fertilizing",
	}); err != nil {
		return d, err
	}
	return d, nil
}

func seedStock(ctx context.Context, svc *inventory.Service, w *catalog_repo.Writer, d *demo) error {
	supplier, err := w.CreateSupplier(ctx, catalog.Supplier{ID: id.New(), Name: "Valley Agro Supply"})
	if err != nil {
		return err
	}

	items := []struct {
		item catalog.SupplyItem
		qty  string
	}{
		{catalog.SupplyItem{ID: id.New(), Name: "Urea 46%", Unit: "kg"}, "500"},
		{catalog.SupplyItem{ID: id.New(), Name: "Corn seed", Unit: "bag"}, "40"},
		{catalog.SupplyItem{ID: id.New(), Name: "Glyphosate", Unit: "l", Restricted: true}, "60.5"},
	}

	expiry := time.Now().UTC().AddDate(1, 0, 0).Truncate(24 * time.Hour)
	for _, it := range items {
		item, err := w.CreateSupplyItem(ctx, it.item)
		if err != nil {
			return err
		}
		res, err := svc.StockIn(ctx, inventory.StockInRequest{
			WarehouseID:       d.Warehouse.ID,
			LocationID:        &d.Location.ID,
			SupplierID:        supplier.ID,
			SupplyItemID:      item.ID,
			ExpiryDate:        &expiry,
			Quantity:          types.MustQuantity(it.qty),
			ConfirmRestricted: item.Restricted,
			Note:              "seed",
		})
		if err != nil {
			return fmt.Errorf("stock in %s: %w", item.Name, err)
		}
		d.Lots = append(d.Lots, res.Lot)
	}
	return nil
}
