package schemes

import (
	"context"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/users"
)

// AnnotatedScheme is a catalog entry with per-user eligibility attached.
type AnnotatedScheme struct {
	Scheme
	IsEligible bool `json:"isEligible"`
}

// ServiceConfig describes the dependencies of the schemes service.
type ServiceConfig struct {
	Users  *users.Service
	Logger *zap.Logger
}

// Service annotates the static catalog against user profiles.
type Service struct {
	users  *users.Service
	logger *zap.Logger
}

// NewService constructs the schemes service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: cfg.Users, logger: logger}
}

// List returns the catalog annotated with eligibility for the user. A
// missing profile annotates everything as not eligible rather than failing.
func (s *Service) List(ctx context.Context, userID string) ([]AnnotatedScheme, error) {
	var profile *users.User
	if s.users != nil {
		loaded, err := s.users.Get(ctx, userID)
		if err == nil {
			profile = &loaded
		} else {
			s.logger.Warn("scheme eligibility without profile",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	annotated := make([]AnnotatedScheme, 0, len(Catalog))
	for _, scheme := range Catalog {
		annotated = append(annotated, AnnotatedScheme{
			Scheme:     scheme,
			IsEligible: Eligible(scheme, profile),
		})
	}
	return annotated, nil
}

// Eligible evaluates the scheme's gates against the profile.
func Eligible(scheme Scheme, profile *users.User) bool {
	if profile == nil || !profile.OnboardingComplete {
		return false
	}
	if scheme.FarmersOnly && profile.UserType != users.UserTypeFarmer {
		return false
	}
	if scheme.TelanganaOnly && profile.State != "Telangana" {
		return false
	}
	return true
}
