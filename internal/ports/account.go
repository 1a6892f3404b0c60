package ports

import "context"

// Profile holds the account fields onboarding sets for a new learner.
type Profile struct {
	Username    string
	DisplayName string
	// Metadata is merged into the account metadata when non-nil.
	Metadata map[string]interface{}
}

// AccountPort defines the interface for updating account profiles.
type AccountPort interface {
	// UpdateProfile applies profile to the account identified by userID.
	// Returns an error if the update fails, e.g. when the username is taken.
	UpdateProfile(ctx context.Context, userID string, profile Profile) error
}
