package marketplace

import "time"

// Quality grades a produce listing.
type Quality string

const (
	QualityPremium  Quality = "premium"
	QualityStandard Quality = "standard"
	QualityEconomy  Quality = "economy"
)

// DeliveryOptions describes how a listing can be fulfilled.
type DeliveryOptions struct {
	SelfPickup       bool    `json:"selfPickup"`
	Delivery         bool    `json:"delivery"`
	DeliveryRadiusKm int     `json:"deliveryRadius"`
	DeliveryCharge   float64 `json:"deliveryCharge"`
}

// Listing is one produce offer in the shared marketplace.
type Listing struct {
	ID              string          `json:"id"`
	FarmerID        string          `json:"farmerId"`
	FarmerName      string          `json:"farmerName"`
	FarmerPhone     string          `json:"farmerPhone"`
	FarmerLocation  string          `json:"farmerLocation"`
	ProduceName     string          `json:"produceName"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Quantity        float64         `json:"quantity"`
	Unit            string          `json:"unit"`
	PricePerKg      float64         `json:"pricePerKg"`
	Quality         Quality         `json:"quality"`
	Images          []string        `json:"images"`
	HarvestDate     string          `json:"harvestDate"`
	AvailableUntil  string          `json:"availableUntil"`
	DeliveryOptions DeliveryOptions `json:"deliveryOptions"`
	IsActive        bool            `json:"isActive"`
	Views           int             `json:"views"`
	Rating          float64         `json:"rating"`
	TotalRatings    int             `json:"totalRatings"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// legalTransitions constrains status updates to the forward path plus
// cancellation before delivery.
var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered, OrderCancelled},
}

// CanTransition reports whether moving from to next is allowed.
func CanTransition(from, next OrderStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeliveryType selects pickup or delivery fulfilment.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// Order is one purchase against a listing. FarmerID is denormalized from the
// listing so sellers can list their incoming orders without a join.
type Order struct {
	ID              string       `json:"id"`
	ListingID       string       `json:"listingId"`
	FarmerID        string       `json:"farmerId"`
	BuyerID         string       `json:"buyerId"`
	BuyerName       string       `json:"buyerName"`
	BuyerPhone      string       `json:"buyerPhone"`
	Quantity        float64      `json:"quantity"`
	TotalAmount     float64      `json:"totalAmount"`
	DeliveryType    DeliveryType `json:"deliveryType"`
	DeliveryAddress string       `json:"deliveryAddress,omitempty"`
	Status          OrderStatus  `json:"status"`
	OrderDate       time.Time    `json:"orderDate"`
	Notes           string       `json:"notes,omitempty"`
}
