package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"backend-queuebot/internal/models"
)

type StaffStore interface {
	ListAll(ctx context.Context) ([]models.Staff, error)
	Resolve(ctx context.Context, staffID int64) (*models.Staff, error)
	Create(ctx context.Context, name, role string) (*models.Staff, error)
}

type StaffHandler struct {
	staff StaffStore
}

func NewStaffHandler(staff StaffStore) *StaffHandler {
	return &StaffHandler{staff: staff}
}

func (h *StaffHandler) GetAllStaff(c *fiber.Ctx) error {
	staff, err := h.staff.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Gagal mengambil data staff",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    staff,
	})
}

func (h *StaffHandler) GetStaffByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID staff tidak valid",
		})
	}

	staff, err := h.staff.Resolve(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Gagal mengambil data staff",
		})
	}
	if staff == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff tidak ditemukan",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    staff,
	})
}

func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req models.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nama dan role wajib diisi",
		})
	}

	staff, err := h.staff.Create(c.Context(), req.Name, req.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Gagal membuat staff",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    staff,
	})
}
