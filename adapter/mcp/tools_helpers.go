package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

var errNoDatabase = errors.New("requires database connection")

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalDay(value string) (sharedDomain.Day, error) {
	if value == "" {
		return sharedDomain.Day{}, nil
	}
	return sharedDomain.ParseDay(value)
}

// resolveDay returns the parsed day or the owner's current local day.
func resolveDay(ctx context.Context, app *cli.App, value string) (sharedDomain.Day, error) {
	if app.OwnerDays == nil {
		return sharedDomain.Day{}, errNoDatabase
	}
	return app.ResolveDay(ctx, value)
}

func requireOwner(app *cli.App) error {
	if app == nil {
		return errors.New("app not initialized")
	}
	if app.OwnerID == "" {
		return cli.ErrNoOwner
	}
	return nil
}
