package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"backend-queuebot/internal/models"
)

// DisplayQueueData - ringkasan antrian satu staff untuk layar display.
type DisplayQueueData struct {
	StaffID       int64  `json:"staff_id"`
	StaffName     string `json:"staff_name"`
	Role          string `json:"role"`
	CurrentNumber *int   `json:"current_number"` // nomor posisi entry in-progress
	TotalWaiting  int    `json:"total_waiting"`
	TotalServed   int    `json:"total_served"`
}

type DisplayEngine interface {
	ActiveForStaff(ctx context.Context, staffID int64) ([]models.NumberedEntry, error)
	Today() string
}

type DayCounter interface {
	CountByStatus(ctx context.Context, staffID int64, date string) (map[string]int, error)
}

type DisplayHandler struct {
	engine DisplayEngine
	staff  StaffStore
	counts DayCounter
}

func NewDisplayHandler(engine DisplayEngine, staff StaffStore, counts DayCounter) *DisplayHandler {
	return &DisplayHandler{engine: engine, staff: staff, counts: counts}
}

// GetQueueDisplay - public endpoint untuk layar display antrian.
func (h *DisplayHandler) GetQueueDisplay(c *fiber.Ctx) error {
	ctx := c.Context()

	staff, err := h.staff.ListAll(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Gagal mengambil data display antrian",
		})
	}

	today := h.engine.Today()
	displays := make([]DisplayQueueData, 0, len(staff))

	for _, s := range staff {
		display := DisplayQueueData{
			StaffID:   s.ID,
			StaffName: s.Name,
			Role:      s.Role,
		}

		counts, err := h.counts.CountByStatus(ctx, s.ID, today)
		if err != nil {
			continue
		}
		display.TotalWaiting = counts[models.StatusWaiting]
		display.TotalServed = counts[models.StatusServed]

		entries, err := h.engine.ActiveForStaff(ctx, s.ID)
		if err != nil {
			continue
		}
		for i := range entries {
			if entries[i].Status == models.StatusInProgress {
				n := entries[i].QueueNumber
				display.CurrentNumber = &n
				break
			}
		}

		displays = append(displays, display)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    displays,
		"date":    today,
	})
}
