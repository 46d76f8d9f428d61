package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	trackingapp "github.com/optierp/backend/internal/application/tracking"
)

// TrackingHandler handles order tracking API endpoints, including the
// unauthenticated public token lookup
type TrackingHandler struct {
	BaseHandler
	trackingService *trackingapp.Service
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(trackingService *trackingapp.Service) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// Create opens a tracking record for a placed order
func (h *TrackingHandler) Create(c *gin.Context) {
	var req trackingapp.CreateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.trackingService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// GetByID returns a tracking record with its full history
func (h *TrackingHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tracking ID")
		return
	}

	record, err := h.trackingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByOrderID returns the tracking record attached to an order
func (h *TrackingHandler) GetByOrderID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	record, err := h.trackingService.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// UpdateStatus appends a status transition to a tracking record
func (h *TrackingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tracking ID")
		return
	}

	var req trackingapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.trackingService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListByCustomer returns a customer's tracking records, newest first
func (h *TrackingHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var pagination struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if pagination.Page == 0 {
		pagination.Page = 1
	}
	if pagination.PageSize == 0 {
		pagination.PageSize = 20
	}

	records, err := h.trackingService.ListByCustomer(c.Request.Context(), customerID, pagination.Page, pagination.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// PublicLookup resolves a tracking token on the unauthenticated endpoint.
// Malformed and unknown tokens get the same generic 404 so the token space
// cannot be enumerated.
func (h *TrackingHandler) PublicLookup(c *gin.Context) {
	token := c.Param("token")

	record, err := h.trackingService.FindByToken(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if record == nil {
		h.NotFound(c, "Tracking record not found")
		return
	}

	h.Success(c, record)
}
