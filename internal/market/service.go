package market

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ServiceConfig describes the dependencies of the market service.
type ServiceConfig struct {
	Client *Client
	Clock  func() time.Time
	Logger *zap.Logger
}

// Service fronts the price client with fallback behavior. Price boards are
// not persisted; each request serves fresh or fallback data.
type Service struct {
	client *Client
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the market service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: cfg.Client, clock: clock, logger: logger}
}

// Prices returns the board for the state, falling back to the local table
// when the API is unconfigured, unreachable, or returns no rows.
func (s *Service) Prices(ctx context.Context, state string) Board {
	if state == "" {
		state = "Telangana"
	}
	if s.client != nil && s.client.Configured() {
		board, err := s.client.FetchByState(ctx, state)
		if err == nil && len(board.Prices) > 0 {
			return board
		}
		if err != nil {
			s.logger.Warn("market fetch failed, using fallback",
				zap.String("state", state),
				zap.Error(err))
		}
	}
	return MockBoard(state, s.clock().UTC())
}
