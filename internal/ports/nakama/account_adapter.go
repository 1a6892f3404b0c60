package nakama

import (
	"context"

	"placevalue/internal/ports"
)

// accountUpdater is the slice of runtime.NakamaModule the adapter needs.
type accountUpdater interface {
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk accountUpdater
}

func NewNakamaAccountAdapter(nk accountUpdater) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile leaves timezone, location, language and avatar untouched.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID string, profile ports.Profile) error {
	return a.nk.AccountUpdateId(ctx, userID, profile.Username, profile.Metadata, profile.DisplayName, "", "", "", "")
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
