package finance

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureClaims = "insurance-claims"

// ClaimStatus tracks an insurance claim through review.
type ClaimStatus string

const (
	ClaimSubmitted   ClaimStatus = "submitted"
	ClaimUnderReview ClaimStatus = "under-review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimRejected    ClaimStatus = "rejected"
)

// InsuranceClaim is one crop insurance claim.
type InsuranceClaim struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Crop      string      `json:"crop"`
	AreaAcres float64     `json:"area"`
	Reason    string      `json:"reason"`
	Status    ClaimStatus `json:"status"`
	Amount    float64     `json:"amount"`
	Date      time.Time   `json:"date"`
}

const (
	opServiceNew  = "finance.service.new"
	opSubmitClaim = "finance.submit_claim"
)

var (
	errMissingStore = errors.New("store is required")
	errMissingCrop  = errors.New("crop must not be empty")
	errBadArea      = errors.New("area must be positive")
)

// ServiceConfig describes the dependencies of the finance service.
type ServiceConfig struct {
	Store      *store.Store
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns insurance claims. The loan and BNPL calculators are pure
// functions over the user profile and need no state.
type Service struct {
	claims *store.Collection[InsuranceClaim]
	logger *zap.Logger
}

// NewService constructs the finance service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	claims, err := store.NewCollection(store.CollectionConfig[InsuranceClaim]{
		Store:      cfg.Store,
		Feature:    featureClaims,
		Clock:      cfg.Clock,
		IDProvider: cfg.IDProvider,
		Logger:     logger,
		Stamp: func(entity *InsuranceClaim, id string, now time.Time) {
			entity.ID = id
			entity.Date = now
			entity.Status = ClaimSubmitted
		},
		ID: func(entity InsuranceClaim) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}
	return &Service{claims: claims, logger: logger}, nil
}

// ClaimRequest is one claim submission.
type ClaimRequest struct {
	Type      string  `json:"type"`
	Crop      string  `json:"crop"`
	AreaAcres float64 `json:"area"`
	Reason    string  `json:"reason"`
	Amount    float64 `json:"amount"`
}

// SubmitClaim validates and stores a new claim in submitted state.
func (s *Service) SubmitClaim(ctx context.Context, userID string, request ClaimRequest) (InsuranceClaim, error) {
	if request.Crop == "" {
		return InsuranceClaim{}, svcerr.New(opSubmitClaim, "missing_crop", errMissingCrop)
	}
	if request.AreaAcres <= 0 {
		return InsuranceClaim{}, svcerr.New(opSubmitClaim, "invalid_area", errBadArea)
	}
	claimType := request.Type
	if claimType == "" {
		claimType = "crop-loss"
	}
	return s.claims.Add(ctx, userID, InsuranceClaim{
		Type:      claimType,
		Crop:      request.Crop,
		AreaAcres: request.AreaAcres,
		Reason:    request.Reason,
		Amount:    request.Amount,
	})
}

// Claims returns the user's claims newest first.
func (s *Service) Claims(ctx context.Context, userID string) ([]InsuranceClaim, error) {
	return s.claims.List(ctx, userID)
}
