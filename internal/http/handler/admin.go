package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"backend-queuebot/internal/config"
	"backend-queuebot/internal/queue"
)

type AdminLoginRequest struct {
	Passcode string `json:"passcode" validate:"required"`
}

type UpdateQueueStatusRequest struct {
	Status string `json:"status"` // in-progress, served
}

// AdminHandler serves the dashboard API: login dengan passcode admin,
// lalu lihat dan majukan antrian per staff lewat token JWT.
type AdminHandler struct {
	engine       QueueEngine
	passcodeHash []byte
}

func NewAdminHandler(engine QueueEngine, passcodeHash []byte) *AdminHandler {
	return &AdminHandler{engine: engine, passcodeHash: passcodeHash}
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Passcode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Passcode wajib diisi",
		})
	}

	if bcrypt.CompareHashAndPassword(h.passcodeHash, []byte(req.Passcode)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Passcode salah",
		})
	}

	token, err := config.GenerateAdminToken()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

// GetStaffQueue returns today's active entries for one staff member with
// their positional queue numbers.
func (h *AdminHandler) GetStaffQueue(c *fiber.Ctx) error {
	staffID, err := strconv.ParseInt(c.Params("staffId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID staff tidak valid",
		})
	}

	entries, err := h.engine.ActiveForStaff(c.Context(), staffID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Gagal mengambil antrian",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}

// UpdateQueueStatus moves an entry to in-progress or served.
func (h *AdminHandler) UpdateQueueStatus(c *fiber.Ctx) error {
	queueID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID antrian tidak valid",
		})
	}

	var req UpdateQueueStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := h.engine.UpdateStatus(c.Context(), queueID, req.Status)
	if errors.Is(err, queue.ErrInvalidTransition) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Transisi status tidak diizinkan",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Gagal mengupdate status antrian",
		})
	}
	if updated == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Antrian tidak ditemukan",
		})
	}

	BroadcastStaffQueue(c.Context(), h.engine, updated.StaffID)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}
