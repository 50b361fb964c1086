package handler

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"backend-queuebot/internal/line"
	"backend-queuebot/internal/models"
)

// Messenger is the slice of the LINE client the webhook needs.
type Messenger interface {
	PushText(ctx context.Context, userID, text string) error
	ReplyFlex(ctx context.Context, replyToken, altText string, contents interface{}) error
}

// QueueEngine mirrors the queue service operations the webhook routes to.
type QueueEngine interface {
	Book(ctx context.Context, userID string, staffID int64) (*models.BookingResult, error)
	Cancel(ctx context.Context, userID string) (*models.QueueEntry, error)
	Status(ctx context.Context, userID string) (*models.QueueStatus, error)
	ActiveForStaff(ctx context.Context, staffID int64) ([]models.NumberedEntry, error)
	UpdateStatus(ctx context.Context, queueID int64, newStatus string) (*models.NumberedEntry, error)
}

// StaffDirectory lists and looks up staff for the carousels.
type StaffDirectory interface {
	ListAll(ctx context.Context) ([]models.Staff, error)
	FindByName(ctx context.Context, name string) (*models.Staff, error)
}

// AdminSessions gates the chat admin commands. A session is granted after
// a correct passcode and expires on its own.
type AdminSessions interface {
	Grant(ctx context.Context, userID string) error
	Active(ctx context.Context, userID string) (bool, error)
}

// SeenFunc reports whether a webhook event id was already processed.
type SeenFunc func(ctx context.Context, eventID string) (bool, error)

type WebhookHandler struct {
	engine        QueueEngine
	staff         StaffDirectory
	bot           Messenger
	sessions      AdminSessions
	seen          SeenFunc
	channelSecret string
	passcodeHash  []byte
}

func NewWebhookHandler(
	engine QueueEngine,
	staff StaffDirectory,
	bot Messenger,
	sessions AdminSessions,
	seen SeenFunc,
	channelSecret string,
	passcodeHash []byte,
) *WebhookHandler {
	return &WebhookHandler{
		engine:        engine,
		staff:         staff,
		bot:           bot,
		sessions:      sessions,
		seen:          seen,
		channelSecret: channelSecret,
		passcodeHash:  passcodeHash,
	}
}

// Handle menerima batch event dari LINE. Selalu balas 200 kalau signature
// valid; LINE akan redeliver kalau dapat status lain.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()

	if !line.ValidSignature(h.channelSecret, body, c.Get("X-Line-Signature")) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	var payload line.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid webhook payload",
		})
	}

	ctx := c.Context()
	for i := range payload.Events {
		event := &payload.Events[i]

		if event.Type != "message" || event.Message.Type != "text" {
			continue
		}

		if h.seen != nil {
			dup, err := h.seen(ctx, event.WebhookEventID)
			if err != nil {
				// Redis down: lebih baik proses (mungkin dobel)
				// daripada drop event.
				log.Printf("[webhook] dedup check failed: %v", err)
			} else if dup {
				log.Printf("[webhook] skipping redelivered event %s", event.WebhookEventID)
				continue
			}
		}

		if err := h.route(ctx, event); err != nil {
			log.Printf("[webhook] %q from %s: %v", event.Message.Text, event.Source.UserID, err)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
