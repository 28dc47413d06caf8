package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type slotResponse struct {
	SlotID            string `json:"slot_id"`
	SlotStart         string `json:"slot_start"`
	Available         bool   `json:"available"`
	RemainingCapacity int    `json:"remaining_capacity"`
	Capacity          int    `json:"capacity"`
}

// GetAvailability — GET /api/v1/activities/:id/availability?date=YYYY-MM-DD&party_size=N
func (h *Handler) GetAvailability(c *gin.Context) {
	activityID := c.Param("id")

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	partySize := 0
	if raw := c.Query("party_size"); raw != "" {
		partySize, err = strconv.Atoi(raw)
		if err != nil || partySize < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "party_size must be a positive integer"})
			return
		}
	}

	slots, err := h.availability.GetAvailability(c.Request.Context(), activityID, date, partySize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, slotResponse{
			SlotID:            s.SlotID,
			SlotStart:         s.SlotStart.Format(time.RFC3339),
			Available:         s.Available,
			RemainingCapacity: s.RemainingCapacity,
			Capacity:          s.Capacity,
		})
	}

	c.JSON(http.StatusOK, gin.H{"slots": resp})
}
