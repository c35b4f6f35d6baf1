// Package security provides authorization and access control.
package security

import (
	"context"
	"fmt"

	"farmstock/internal/core/apperror"
	appctx "farmstock/internal/core/context"
	"farmstock/internal/core/id"
)

// FarmOwners resolves the owning user of a farm.
type FarmOwners interface {
	GetFarmOwner(ctx context.Context, farmID id.ID) (id.ID, error)
}

// FarmGuard authorizes the acting user against a farm.
//
// Access is granted when the user is an admin, holds a farm grant in the
// access token, or owns the farm.
type FarmGuard struct {
	owners FarmOwners
}

// NewFarmGuard creates a new farm guard.
func NewFarmGuard(owners FarmOwners) *FarmGuard {
	return &FarmGuard{owners: owners}
}

// CurrentUser returns the authenticated user id from the request context.
func (g *FarmGuard) CurrentUser(ctx context.Context) (id.ID, error) {
	user := appctx.GetUser(ctx)
	if user == nil || user.UserID == "" {
		return id.ID{}, apperror.NewUnauthorized("authentication required")
	}
	userID, err := id.Parse(user.UserID)
	if err != nil {
		return id.ID{}, apperror.NewUnauthorized("invalid user identity").WithCause(err)
	}
	return userID, nil
}

// AssertCanAccessFarm returns Forbidden unless the acting user may operate on the farm.
func (g *FarmGuard) AssertCanAccessFarm(ctx context.Context, farmID id.ID) error {
	userID, err := g.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if appctx.HasFarmGrant(ctx, farmID.String()) {
		return nil
	}

	ownerID, err := g.owners.GetFarmOwner(ctx, farmID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewForbidden("farm is not accessible").WithDetail("farm_id", farmID)
		}
		return fmt.Errorf("resolve farm owner: %w", err)
	}
	if ownerID != userID {
		return apperror.NewForbidden("farm is not accessible").WithDetail("farm_id", farmID)
	}
	return nil
}
