package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rythu-saathi/backend/internal/finance"
	"github.com/rythu-saathi/backend/internal/marketplace"
)

func (h *httpHandler) handleListingList(c *gin.Context) {
	if c.Query("mine") == "true" {
		listings, err := h.deps.Marketplace.ListingsByFarmer(c.Request.Context(), c.GetString(userIDContextKey))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"listings": listings})
		return
	}
	listings, err := h.deps.Marketplace.ListListings(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *httpHandler) handleListingCreate(c *gin.Context) {
	var listing marketplace.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	listing.FarmerID = c.GetString(userIDContextKey)
	stored, err := h.deps.Marketplace.CreateListing(c.Request.Context(), listing)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *httpHandler) handleListingUpdate(c *gin.Context) {
	var patch marketplace.Listing
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	listing, err := h.deps.Marketplace.UpdateListing(c.Request.Context(),
		c.GetString(userIDContextKey), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *httpHandler) handleListingView(c *gin.Context) {
	listing, err := h.deps.Marketplace.RecordView(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *httpHandler) handleListingDeactivate(c *gin.Context) {
	listing, err := h.deps.Marketplace.Deactivate(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *httpHandler) handleOrderList(c *gin.Context) {
	orders, err := h.deps.Marketplace.OrdersForUser(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *httpHandler) handleOrderPlace(c *gin.Context) {
	var order marketplace.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	order.BuyerID = c.GetString(userIDContextKey)
	placed, err := h.deps.Marketplace.PlaceOrder(c.Request.Context(), order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placed)
}

type orderStatusPayload struct {
	Status string `json:"status"`
}

func (h *httpHandler) handleOrderStatus(c *gin.Context) {
	var request orderStatusPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	order, err := h.deps.Marketplace.UpdateOrderStatus(c.Request.Context(),
		c.GetString(userIDContextKey), c.Param("id"), marketplace.OrderStatus(request.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type loanAssessPayload struct {
	Amount       float64 `json:"amount"`
	TenureMonths int     `json:"tenureMonths"`
	Purpose      string  `json:"purpose"`
}

func (h *httpHandler) handleLoanAssess(c *gin.Context) {
	var request loanAssessPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	profile, err := h.deps.Users.Get(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	assessment := finance.AssessLoan(profile, finance.LoanRequest{
		Amount:       request.Amount,
		TenureMonths: request.TenureMonths,
		Purpose:      finance.Purpose(request.Purpose),
	})
	c.JSON(http.StatusOK, assessment)
}

func (h *httpHandler) handleBNPLOptions(c *gin.Context) {
	profile, err := h.deps.Users.Get(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": finance.BNPLOptions(profile)})
}

func (h *httpHandler) handleClaimsList(c *gin.Context) {
	claims, err := h.deps.Finance.Claims(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

func (h *httpHandler) handleClaimSubmit(c *gin.Context) {
	var request finance.ClaimRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	claim, err := h.deps.Finance.SubmitClaim(c.Request.Context(), c.GetString(userIDContextKey), request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}
