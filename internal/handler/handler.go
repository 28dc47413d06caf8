package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookvia/booking-platform/internal/service"
)

// Handler — тонкий HTTP-слой поверх сервисов ядра. Здесь только
// разбор запроса, вызов сервиса и маппинг типизированных ошибок
// в статусы; доменной логики нет.
type Handler struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService

	// Референсная таймзона процесса: query-параметр date разбирается
	// в ней же, иначе календарный день съедет в зонах западнее UTC.
	loc *time.Location

	log *zap.Logger
}

func New(
	availability *service.AvailabilityService,
	bookings *service.BookingService,
	loc *time.Location,
	log *zap.Logger,
) *Handler {
	return &Handler{
		availability: availability,
		bookings:     bookings,
		loc:          loc,
		log:          log,
	}
}

// RegisterRoutes вешает маршруты ядра на роутер.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/v1")

	api.GET("/activities/:id/availability", h.GetAvailability)

	api.POST("/bookings", h.CreateBooking)
	api.POST("/bookings/quote", h.QuoteBooking)
	api.POST("/bookings/:id/cancel", h.CancelBooking)
	api.GET("/bookings", h.ListBookings)
}

// respondError переводит типизированные ошибки сервисов в HTTP-ответ.
// Ни одна ошибка не глотается: всё, что не распознано, уходит 500-кой
// с логом.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		pre      *service.PreconditionError
		conflict *service.CapacityConflictError
	)

	switch {
	case errors.Is(err, service.ErrActivityNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "capacity_conflict",
			"remaining_seats": conflict.RemainingSeats,
		})

	case errors.Is(err, service.ErrBookingAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "already_cancelled"})

	case errors.Is(err, service.ErrBookingCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "booking_completed"})

	case errors.Is(err, service.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_booking_owner"})

	case errors.As(err, &pre):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "precondition_failed",
			"code":    pre.Code,
			"message": pre.Message,
		})

	default:
		h.log.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
