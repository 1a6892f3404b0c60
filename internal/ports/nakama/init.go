package nakama

import (
	"context"
	"database/sql"

	"placevalue/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, the match handler and auth hooks for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	// Load once up front so RPCs and matches share the same config.
	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	if err := RegisterRPCs(initializer, config.GetGameConfig()); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNamePlaceValue, NewMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("PlaceValue Go module loaded.")
	return nil
}
