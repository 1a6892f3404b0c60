package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"placevalue/internal/ports"
)

// nameAttempts bounds retries when a generated username is already taken.
const nameAttempts = 3

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// DisplayName is the name that was applied, empty if every attempt failed.
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new learners.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service.
// accounts must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		rng:      rng,
	}
}

// OnboardNewUser gives a newly created account a friendly name like "HappyPanda1234".
// A failed profile update is reported in Result and never fails the login.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}
	if userID == "" {
		return Result{}, fmt.Errorf("user id is required")
	}

	result := Result{}
	for i := 0; i < nameAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		displayName := s.generateFriendlyName()
		err := s.accounts.UpdateProfile(ctx, userID, ports.Profile{
			Username:    displayName,
			DisplayName: displayName,
			Metadata:    map[string]interface{}{"onboarded_by": "placevalue"},
		})
		if err == nil {
			result.DisplayName = displayName
			result.ProfileUpdateErr = nil
			return result, nil
		}
		result.ProfileUpdateErr = err
	}
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Curious", "Bright"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Owl"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
