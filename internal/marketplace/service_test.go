package marketplace

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rythu-saathi/backend/internal/notify"
	"github.com/rythu-saathi/backend/internal/store"
)

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

func newTestService(t *testing.T) (*Service, *notify.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:saathi_marketplace_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	recordStore, err := store.New(store.Config{Database: db})
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}

	notifier, err := notify.NewService(notify.ServiceConfig{
		Store:      recordStore,
		IDProvider: &sequenceIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct notify service: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Store:      recordStore,
		Notifier:   notifier,
		Clock:      func() time.Time { return time.Unix(1700000600, 0).UTC() },
		IDProvider: &sequenceIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct marketplace service: %v", err)
	}
	return service, notifier
}

func mustCreateListing(t *testing.T, service *Service, farmerID string, listing Listing) Listing {
	t.Helper()
	listing.FarmerID = farmerID
	created, err := service.CreateListing(context.Background(), listing)
	if err != nil {
		t.Fatalf("unexpected create listing error: %v", err)
	}
	return created
}

func TestCreateListingAppliesDefaults(t *testing.T) {
	service, _ := newTestService(t)

	listing := mustCreateListing(t, service, "farmer-1", Listing{
		ProduceName: "Tomato",
		Quantity:    50,
		Unit:        "kg",
		PricePerKg:  30,
	})
	if listing.ID == "" {
		t.Fatalf("expected stamped listing id")
	}
	if !listing.IsActive {
		t.Fatalf("expected new listing active")
	}
	if listing.Quality != QualityStandard {
		t.Fatalf("expected standard quality default, got %s", listing.Quality)
	}
	if listing.Views != 0 || listing.Rating != 0 || listing.TotalRatings != 0 {
		t.Fatalf("expected zeroed counters, got %#v", listing)
	}
	if listing.Images == nil {
		t.Fatalf("expected empty image slice rather than nil")
	}
}

func TestCreateListingValidatesInput(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.CreateListing(ctx, Listing{Quantity: 10}); err == nil {
		t.Fatalf("expected error for missing produce name")
	}
	if _, err := service.CreateListing(ctx, Listing{ProduceName: "Tomato"}); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestListListingsFiltersInactive(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	active := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50})
	retired := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Onion", Quantity: 20})
	if _, err := service.Deactivate(ctx, "farmer-1", retired.ID); err != nil {
		t.Fatalf("unexpected deactivate error: %v", err)
	}

	listings, err := service.ListListings(ctx, true)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != active.ID {
		t.Fatalf("expected only the active listing, got %#v", listings)
	}

	all, err := service.ListListings(ctx, false)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both listings without the filter, got %d", len(all))
	}
}

func TestListingsByFarmerReturnsOwnOffers(t *testing.T) {
	service, _ := newTestService(t)

	mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50})
	mustCreateListing(t, service, "farmer-2", Listing{ProduceName: "Onion", Quantity: 20})

	listings, err := service.ListingsByFarmer(context.Background(), "farmer-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(listings) != 1 || listings[0].ProduceName != "Tomato" {
		t.Fatalf("expected only farmer-1 listings, got %#v", listings)
	}
}

func TestDeactivateRejectsOtherFarmers(t *testing.T) {
	service, _ := newTestService(t)

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50})
	if _, err := service.Deactivate(context.Background(), "farmer-2", listing.ID); err == nil {
		t.Fatalf("expected error for foreign deactivation")
	}
}

func TestUpdateListingAppliesPartialPatch(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{
		ProduceName: "Tomato",
		Quantity:    50,
		Unit:        "kg",
		PricePerKg:  30,
	})

	updated, err := service.UpdateListing(ctx, "farmer-1", listing.ID, Listing{
		PricePerKg:  35,
		Description: "Fresh harvest",
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.PricePerKg != 35 {
		t.Fatalf("expected updated price 35, got %v", updated.PricePerKg)
	}
	if updated.Description != "Fresh harvest" {
		t.Fatalf("unexpected description %q", updated.Description)
	}
	if updated.ProduceName != "Tomato" || updated.Quantity != 50 {
		t.Fatalf("expected untouched fields preserved, got %#v", updated)
	}
}

func TestUpdateListingRejectsOtherFarmers(t *testing.T) {
	service, _ := newTestService(t)

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50})
	if _, err := service.UpdateListing(context.Background(), "farmer-2", listing.ID, Listing{PricePerKg: 1}); err == nil {
		t.Fatalf("expected error for foreign update")
	}
}

func TestRecordViewIncrementsCounter(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50})
	viewed, err := service.RecordView(ctx, listing.ID)
	if err != nil {
		t.Fatalf("unexpected view error: %v", err)
	}
	if viewed.Views != 1 {
		t.Fatalf("expected 1 view, got %d", viewed.Views)
	}
}

func TestPlaceOrderComputesTotalAndNotifiesFarmer(t *testing.T) {
	service, notifier := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{
		ProduceName: "Tomato",
		Quantity:    50,
		Unit:        "kg",
		PricePerKg:  30,
		DeliveryOptions: DeliveryOptions{
			Delivery:       true,
			DeliveryCharge: 40,
		},
	})

	order, err := service.PlaceOrder(ctx, Order{
		ListingID:    listing.ID,
		BuyerID:      "buyer-1",
		BuyerName:    "Lakshmi",
		Quantity:     10,
		DeliveryType: DeliveryDelivery,
	})
	if err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}
	if order.Status != OrderPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.FarmerID != "farmer-1" {
		t.Fatalf("expected farmer id denormalized, got %s", order.FarmerID)
	}
	if order.TotalAmount != 10*30+40 {
		t.Fatalf("expected delivery charge included, got %.2f", order.TotalAmount)
	}

	notifications, err := notifier.List(ctx, "farmer-1")
	if err != nil {
		t.Fatalf("unexpected notification list error: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected order notification for the farmer, got %d", len(notifications))
	}
	if notifications[0].Type != notify.TypeOrder || notifications[0].Priority != notify.PriorityHigh {
		t.Fatalf("unexpected notification %#v", notifications[0])
	}
}

func TestPlaceOrderPickupSkipsDeliveryCharge(t *testing.T) {
	service, _ := newTestService(t)

	listing := mustCreateListing(t, service, "farmer-1", Listing{
		ProduceName: "Tomato",
		Quantity:    50,
		PricePerKg:  30,
		DeliveryOptions: DeliveryOptions{
			SelfPickup:     true,
			Delivery:       true,
			DeliveryCharge: 40,
		},
	})

	order, err := service.PlaceOrder(context.Background(), Order{
		ListingID:    listing.ID,
		BuyerID:      "buyer-1",
		Quantity:     5,
		DeliveryType: DeliveryPickup,
	})
	if err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}
	if order.TotalAmount != 5*30 {
		t.Fatalf("expected pickup total without delivery charge, got %.2f", order.TotalAmount)
	}
}

func TestPlaceOrderRejectsInactiveListing(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50})
	if _, err := service.Deactivate(ctx, "farmer-1", listing.ID); err != nil {
		t.Fatalf("unexpected deactivate error: %v", err)
	}

	if _, err := service.PlaceOrder(ctx, Order{ListingID: listing.ID, BuyerID: "buyer-1", Quantity: 5}); err == nil {
		t.Fatalf("expected error for inactive listing")
	}
}

func TestOrdersForUserShowsBuyerAndSellerViews(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50, PricePerKg: 30})
	if _, err := service.PlaceOrder(ctx, Order{ListingID: listing.ID, BuyerID: "buyer-1", Quantity: 5}); err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}

	for _, userID := range []string{"buyer-1", "farmer-1"} {
		orders, err := service.OrdersForUser(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected orders error for %s: %v", userID, err)
		}
		if len(orders) != 1 {
			t.Fatalf("expected 1 order for %s, got %d", userID, len(orders))
		}
	}

	orders, err := service.OrdersForUser(ctx, "stranger")
	if err != nil {
		t.Fatalf("unexpected orders error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders for strangers, got %d", len(orders))
	}
}

func TestUpdateOrderStatusFollowsLifecycle(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50, PricePerKg: 30})
	order, err := service.PlaceOrder(ctx, Order{ListingID: listing.ID, BuyerID: "buyer-1", Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}

	for _, next := range []OrderStatus{OrderConfirmed, OrderShipped, OrderDelivered} {
		updated, err := service.UpdateOrderStatus(ctx, "farmer-1", order.ID, next)
		if err != nil {
			t.Fatalf("unexpected transition error to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("expected status %s, got %s", next, updated.Status)
		}
	}

	if _, err := service.UpdateOrderStatus(ctx, "farmer-1", order.ID, OrderCancelled); err == nil {
		t.Fatalf("expected error cancelling a delivered order")
	}
}

func TestUpdateOrderStatusRejectsSkippedStates(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50, PricePerKg: 30})
	order, err := service.PlaceOrder(ctx, Order{ListingID: listing.ID, BuyerID: "buyer-1", Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}

	if _, err := service.UpdateOrderStatus(ctx, "farmer-1", order.ID, OrderDelivered); err == nil {
		t.Fatalf("expected error for pending to delivered")
	}
}

func TestBuyerMayCancelOwnPendingOrder(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50, PricePerKg: 30})
	order, err := service.PlaceOrder(ctx, Order{ListingID: listing.ID, BuyerID: "buyer-1", Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}

	cancelled, err := service.UpdateOrderStatus(ctx, "buyer-1", order.ID, OrderCancelled)
	if err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	if cancelled.Status != OrderCancelled {
		t.Fatalf("expected cancelled order, got %s", cancelled.Status)
	}
}

func TestBuyerMayNotDriveOtherTransitions(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	listing := mustCreateListing(t, service, "farmer-1", Listing{ProduceName: "Tomato", Quantity: 50, PricePerKg: 30})
	order, err := service.PlaceOrder(ctx, Order{ListingID: listing.ID, BuyerID: "buyer-1", Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected order error: %v", err)
	}

	if _, err := service.UpdateOrderStatus(ctx, "buyer-1", order.ID, OrderConfirmed); err == nil {
		t.Fatalf("expected error for buyer confirming an order")
	}
	if _, err := service.UpdateOrderStatus(ctx, "stranger", order.ID, OrderCancelled); err == nil {
		t.Fatalf("expected error for strangers")
	}
}
