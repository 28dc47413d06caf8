package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/service"
)

// Идентичность вызывающего приходит от внешнего слоя авторизации.
const (
	headerUserID        = "X-User-ID"
	headerBusinessActor = "X-Business-Actor"
)

type createBookingRequest struct {
	ActivityID        string         `json:"activity_id" binding:"required"`
	SlotStart         time.Time      `json:"slot_start" binding:"required"`
	ParticipantsCount int            `json:"participants_count" binding:"required"`
	SelectionData     map[string]any `json:"selection_data"`
}

type quoteBookingRequest struct {
	ActivityID        string         `json:"activity_id" binding:"required"`
	ParticipantsCount int            `json:"participants_count" binding:"required"`
	SelectionData     map[string]any `json:"selection_data"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type bookingResponse struct {
	ID                string          `json:"id"`
	ActivityID        string          `json:"activity_id"`
	BusinessID        string          `json:"business_id"`
	SlotStart         string          `json:"slot_start"`
	ParticipantsCount int             `json:"participants_count"`
	Status            string          `json:"status"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
	ActivitySnapshot  json.RawMessage `json:"activity_snapshot,omitempty"`
	BusinessSnapshot  json.RawMessage `json:"business_snapshot,omitempty"`
	SelectionSnapshot json.RawMessage `json:"selection_snapshot,omitempty"`
	PriceSnapshot     json.RawMessage `json:"price_snapshot,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

func mapBooking(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:                b.ID.String(),
		ActivityID:        b.ActivityID.String(),
		BusinessID:        b.BusinessID.String(),
		SlotStart:         b.SlotStart.Format(time.RFC3339),
		ParticipantsCount: b.ParticipantsCount,
		Status:            string(b.Status),
		CancelReason:      b.CancelReason,
		ActivitySnapshot:  json.RawMessage(b.ActivitySnapshot),
		BusinessSnapshot:  json.RawMessage(b.BusinessSnapshot),
		SelectionSnapshot: json.RawMessage(b.SelectionSnapshot),
		PriceSnapshot:     json.RawMessage(b.PriceSnapshot),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
	}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader(headerUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + headerUserID})
		return uuid.Nil, false
	}
	return id, true
}

// CreateBooking — POST /api/v1/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_id must be a uuid"})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		UserID:            userID,
		ActivityID:        activityID,
		SlotStart:         req.SlotStart,
		ParticipantsCount: req.ParticipantsCount,
		SelectionData:     req.SelectionData,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapBooking(booking))
}

// QuoteBooking — POST /api/v1/bookings/quote
// Превью цены: считает то же, что зафиксируется при создании.
func (h *Handler) QuoteBooking(c *gin.Context) {
	var req quoteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_id must be a uuid"})
		return
	}

	quote, err := h.bookings.QuoteBooking(c.Request.Context(), activityID, req.ParticipantsCount, req.SelectionData)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// CancelBooking — POST /api/v1/bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id must be a uuid"})
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), service.CancelBookingInput{
		BookingID:   bookingID,
		ActorUserID: userID,
		ByBusiness:  c.GetHeader(headerBusinessActor) == "true",
		Reason:      req.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBooking(booking))
}

// ListBookings — GET /api/v1/bookings?page=&page_size=
func (h *Handler) ListBookings(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.bookings.ListBookings(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]bookingResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, mapBooking(&result.Items[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"page":      result.Page,
		"page_size": result.PageSize,
		"total":     result.Total,
		"has_next":  result.HasNext,
	})
}
