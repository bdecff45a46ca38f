// Package marketplace implements the produce marketplace: shared listings
// plus orders between buyers and farmers.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/notify"
	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const (
	featureListings = "produce-listings"
	featureOrders   = "produce-orders"

	// Listings and orders are portal-wide collections; ownership lives in
	// the row payloads (farmer_id, buyer_id), not in the storage scope.
	marketScope = "marketplace"
)

var (
	errMissingStore    = errors.New("store is required")
	errMissingProduce  = errors.New("produce name is required")
	errInvalidQuantity = errors.New("quantity must be positive")
	errListingInactive = errors.New("listing is not active")
	errNotSeller       = errors.New("only the listing farmer may update order status")
	errBadTransition   = errors.New("illegal order status transition")

	noOpLogger = zap.NewNop()
)

const (
	opServiceNew  = "marketplace.service.new"
	opCreate      = "marketplace.create_listing"
	opPlaceOrder  = "marketplace.place_order"
	opOrderStatus = "marketplace.update_order_status"
)

// ServiceConfig describes the dependencies of the marketplace service.
type ServiceConfig struct {
	Store      *store.Store
	Notifier   *notify.Service
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns listings and orders.
type Service struct {
	listings *store.Collection[Listing]
	orders   *store.Collection[Order]
	notifier *notify.Service
	logger   *zap.Logger
}

// NewService constructs the marketplace service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	listings, err := store.NewCollection(store.CollectionConfig[Listing]{
		Store:       cfg.Store,
		Feature:     featureListings,
		SharedOwner: marketScope,
		Clock:       cfg.Clock,
		IDProvider:  cfg.IDProvider,
		Logger:      logger,
		Stamp: func(entity *Listing, id string, now time.Time) {
			entity.ID = id
			entity.CreatedAt = now
			entity.IsActive = true
			entity.Views = 0
			entity.Rating = 0
			entity.TotalRatings = 0
		},
		ID: func(entity Listing) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}

	orders, err := store.NewCollection(store.CollectionConfig[Order]{
		Store:       cfg.Store,
		Feature:     featureOrders,
		SharedOwner: marketScope,
		Clock:       cfg.Clock,
		IDProvider:  cfg.IDProvider,
		Logger:      logger,
		Stamp: func(entity *Order, id string, now time.Time) {
			entity.ID = id
			entity.OrderDate = now
			entity.Status = OrderPending
		},
		ID: func(entity Order) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		listings: listings,
		orders:   orders,
		notifier: cfg.Notifier,
		logger:   logger,
	}, nil
}

// ListListings returns marketplace listings, newest first. With activeOnly
// set, deactivated and expired listings are filtered out.
func (s *Service) ListListings(ctx context.Context, activeOnly bool) ([]Listing, error) {
	listings, err := s.listings.List(ctx, marketScope)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return listings, nil
	}
	active := make([]Listing, 0, len(listings))
	for _, listing := range listings {
		if listing.IsActive {
			active = append(active, listing)
		}
	}
	return active, nil
}

// ListingsByFarmer returns the given farmer's own listings.
func (s *Service) ListingsByFarmer(ctx context.Context, farmerID string) ([]Listing, error) {
	listings, err := s.listings.List(ctx, marketScope)
	if err != nil {
		return nil, err
	}
	own := make([]Listing, 0)
	for _, listing := range listings {
		if listing.FarmerID == farmerID {
			own = append(own, listing)
		}
	}
	return own, nil
}

// CreateListing publishes a new offer.
func (s *Service) CreateListing(ctx context.Context, listing Listing) (Listing, error) {
	if strings.TrimSpace(listing.ProduceName) == "" {
		return Listing{}, svcerr.New(opCreate, "missing_produce_name", errMissingProduce)
	}
	if listing.Quantity <= 0 {
		return Listing{}, svcerr.New(opCreate, "invalid_quantity", errInvalidQuantity)
	}
	if listing.Quality == "" {
		listing.Quality = QualityStandard
	}
	if listing.Images == nil {
		listing.Images = []string{}
	}
	return s.listings.Add(ctx, marketScope, listing)
}

// UpdateListing applies a partial edit to the farmer's own listing.
func (s *Service) UpdateListing(ctx context.Context, farmerID, listingID string, patch Listing) (Listing, error) {
	return s.listings.Update(ctx, marketScope, listingID, func(listing *Listing) error {
		if listing.FarmerID != farmerID {
			return errNotSeller
		}
		if strings.TrimSpace(patch.ProduceName) != "" {
			listing.ProduceName = strings.TrimSpace(patch.ProduceName)
		}
		if patch.Description != "" {
			listing.Description = patch.Description
		}
		if patch.Category != "" {
			listing.Category = patch.Category
		}
		if patch.Quantity > 0 {
			listing.Quantity = patch.Quantity
		}
		if patch.Unit != "" {
			listing.Unit = patch.Unit
		}
		if patch.PricePerKg > 0 {
			listing.PricePerKg = patch.PricePerKg
		}
		if patch.Quality != "" {
			listing.Quality = patch.Quality
		}
		if patch.Images != nil {
			listing.Images = patch.Images
		}
		if patch.HarvestDate != "" {
			listing.HarvestDate = patch.HarvestDate
		}
		if patch.AvailableUntil != "" {
			listing.AvailableUntil = patch.AvailableUntil
		}
		return nil
	})
}

// RecordView bumps a listing's view counter.
func (s *Service) RecordView(ctx context.Context, listingID string) (Listing, error) {
	return s.listings.Update(ctx, marketScope, listingID, func(listing *Listing) error {
		listing.Views++
		return nil
	})
}

// Deactivate takes a listing off the market without deleting its history.
func (s *Service) Deactivate(ctx context.Context, farmerID, listingID string) (Listing, error) {
	return s.listings.Update(ctx, marketScope, listingID, func(listing *Listing) error {
		if listing.FarmerID != farmerID {
			return errNotSeller
		}
		listing.IsActive = false
		return nil
	})
}

// PlaceOrder creates a pending order against an active listing, computes the
// total from the listing price, and notifies the farmer.
func (s *Service) PlaceOrder(ctx context.Context, order Order) (Order, error) {
	if order.Quantity <= 0 {
		return Order{}, svcerr.New(opPlaceOrder, "invalid_quantity", errInvalidQuantity)
	}
	listing, err := s.listings.Get(ctx, marketScope, order.ListingID)
	if err != nil {
		return Order{}, err
	}
	if !listing.IsActive {
		return Order{}, svcerr.New(opPlaceOrder, "listing_inactive", errListingInactive)
	}

	order.FarmerID = listing.FarmerID
	order.TotalAmount = order.Quantity * listing.PricePerKg
	if order.DeliveryType == DeliveryDelivery && listing.DeliveryOptions.Delivery {
		order.TotalAmount += listing.DeliveryOptions.DeliveryCharge
	}

	placed, err := s.orders.Add(ctx, marketScope, order)
	if err != nil {
		return Order{}, err
	}

	if s.notifier != nil {
		_, err := s.notifier.Publish(ctx, listing.FarmerID, notify.Notification{
			Type:     notify.TypeOrder,
			Title:    "New Order",
			Message:  fmt.Sprintf("%s ordered %.1f %s of %s.", placed.BuyerName, placed.Quantity, listing.Unit, listing.ProduceName),
			Priority: notify.PriorityHigh,
			Icon:     "🛒",
		})
		if err != nil {
			s.logger.Warn("order notification failed",
				zap.String("order_id", placed.ID),
				zap.Error(err))
		}
	}
	return placed, nil
}

// OrdersForUser returns orders where the user is buyer or seller, newest first.
func (s *Service) OrdersForUser(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.List(ctx, marketScope)
	if err != nil {
		return nil, err
	}
	own := make([]Order, 0)
	for _, order := range orders {
		if order.BuyerID == userID || order.FarmerID == userID {
			own = append(own, order)
		}
	}
	return own, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Only the listing
// farmer may update, and only along legal transitions; a buyer may cancel
// their own pending order.
func (s *Service) UpdateOrderStatus(ctx context.Context, userID, orderID string, next OrderStatus) (Order, error) {
	return s.orders.Update(ctx, marketScope, orderID, func(order *Order) error {
		buyerCancel := userID == order.BuyerID && next == OrderCancelled && order.Status == OrderPending
		if userID != order.FarmerID && !buyerCancel {
			return errNotSeller
		}
		if !CanTransition(order.Status, next) {
			return fmt.Errorf("%w: %s -> %s", errBadTransition, order.Status, next)
		}
		order.Status = next
		return nil
	})
}
