package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"backend-queuebot/internal/line"
	"backend-queuebot/internal/models"
	"backend-queuebot/internal/queue"
)

// Text command triggers. The rich menu sends the first four; the admin
// flow drives the rest through flex message buttons.
const (
	cmdJoinQueue    = "Join a Queue"
	cmdCancelQueue  = "Cancel My Queue"
	cmdViewQueue    = "View My Queue"
	cmdAdminAccess  = "Admin Access"
	prefixBook      = "book "
	prefixPasscode  = "&&"
	prefixManage    = "Manage Queue for "
	prefixSetActive = "admin in-progress "
	prefixSetServed = "admin served "
)

func (h *WebhookHandler) route(ctx context.Context, event *line.WebhookEvent) error {
	text := event.Message.Text
	userID := event.Source.UserID
	replyToken := event.ReplyToken

	switch {
	case text == cmdJoinQueue:
		return h.sendStaffList(ctx, replyToken)
	case strings.HasPrefix(text, prefixBook):
		return h.book(ctx, userID, replyToken, strings.TrimPrefix(text, prefixBook))
	case text == cmdCancelQueue:
		return h.cancel(ctx, userID, replyToken)
	case text == cmdViewQueue:
		return h.status(ctx, userID, replyToken)
	case text == cmdAdminAccess:
		return h.bot.PushText(ctx, userID, "🔒 Please enter the admin passcode starting with &&:")
	case strings.HasPrefix(text, prefixPasscode):
		return h.adminLogin(ctx, userID, replyToken, strings.TrimPrefix(text, prefixPasscode))
	case strings.HasPrefix(text, prefixManage):
		return h.manageQueue(ctx, userID, replyToken, strings.TrimPrefix(text, prefixManage))
	case strings.HasPrefix(text, prefixSetActive):
		return h.adminUpdate(ctx, userID, replyToken,
			strings.TrimPrefix(text, prefixSetActive), models.StatusInProgress)
	case strings.HasPrefix(text, prefixSetServed):
		return h.adminUpdate(ctx, userID, replyToken,
			strings.TrimPrefix(text, prefixSetServed), models.StatusServed)
	}

	// Pesan lain bukan command — diamkan saja.
	return nil
}

func (h *WebhookHandler) sendStaffList(ctx context.Context, replyToken string) error {
	staff, err := h.staff.ListAll(ctx)
	if err != nil {
		return err
	}
	return h.bot.ReplyFlex(ctx, replyToken, "Staff list",
		line.StaffCarousel(staff, "Book", prefixBook))
}

func (h *WebhookHandler) book(ctx context.Context, userID, replyToken, staffName string) error {
	staff, err := h.staff.FindByName(ctx, staffName)
	if err != nil {
		return err
	}
	if staff == nil {
		return h.bot.PushText(ctx, userID, "Sorry, the staff member you selected doesn't exist.")
	}

	result, err := h.engine.Book(ctx, userID, staff.ID)
	switch {
	case errors.Is(err, queue.ErrDuplicateBooking):
		return h.bot.PushText(ctx, userID, "You already have a booking for today.")
	case errors.Is(err, queue.ErrStaffNotFound):
		return h.bot.PushText(ctx, userID, "Sorry, the staff member you selected doesn't exist.")
	case err != nil:
		h.bot.PushText(ctx, userID, "There was an error processing your queue request.")
		return err
	}

	h.broadcastQueue(ctx, staff.ID)
	return h.bot.ReplyFlex(ctx, replyToken, "Booking confirmed", line.BookingConfirmed(result))
}

func (h *WebhookHandler) cancel(ctx context.Context, userID, replyToken string) error {
	cancelled, err := h.engine.Cancel(ctx, userID)
	if err != nil {
		h.bot.PushText(ctx, userID, "Something went wrong while cancelling your queue.")
		return err
	}
	if cancelled == nil {
		return h.bot.PushText(ctx, userID, "You don't have any active bookings to cancel.")
	}

	h.broadcastQueue(ctx, cancelled.StaffID)
	return h.bot.ReplyFlex(ctx, replyToken, "Queue cancelled", line.QueueCancelled())
}

func (h *WebhookHandler) status(ctx context.Context, userID, replyToken string) error {
	status, err := h.engine.Status(ctx, userID)
	if err != nil {
		h.bot.PushText(ctx, userID, "Something went wrong while fetching your queue status.")
		return err
	}
	if status == nil {
		return h.bot.PushText(ctx, userID, "You don't have any active queues right now.")
	}

	return h.bot.ReplyFlex(ctx, replyToken, "Your queue status", line.QueueStatusBubble(status))
}

func (h *WebhookHandler) adminLogin(ctx context.Context, userID, replyToken, passcode string) error {
	if bcrypt.CompareHashAndPassword(h.passcodeHash, []byte(passcode)) != nil {
		return h.bot.PushText(ctx, userID, "❌ Invalid passcode. Try again.")
	}

	if err := h.sessions.Grant(ctx, userID); err != nil {
		return err
	}

	staff, err := h.staff.ListAll(ctx)
	if err != nil {
		return err
	}

	h.bot.PushText(ctx, userID, "✅ Welcome Admin! Please choose a staff to manage.")
	return h.bot.ReplyFlex(ctx, replyToken, "Choose a staff to manage",
		line.StaffCarousel(staff, "Manage Queue", prefixManage))
}

func (h *WebhookHandler) manageQueue(ctx context.Context, userID, replyToken, staffName string) error {
	if ok, err := h.requireAdmin(ctx, userID); err != nil || !ok {
		return err
	}

	staff, err := h.staff.FindByName(ctx, staffName)
	if err != nil {
		return err
	}
	if staff == nil {
		return h.bot.PushText(ctx, userID, "❌ Staff not found.")
	}

	return h.sendActiveQueue(ctx, userID, replyToken, staff.ID)
}

func (h *WebhookHandler) adminUpdate(ctx context.Context, userID, replyToken, rawID, newStatus string) error {
	if ok, err := h.requireAdmin(ctx, userID); err != nil || !ok {
		return err
	}

	queueID, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return h.bot.PushText(ctx, userID, "❌ Failed to update queue status.")
	}

	updated, err := h.engine.UpdateStatus(ctx, queueID, newStatus)
	switch {
	case errors.Is(err, queue.ErrInvalidTransition):
		return h.bot.PushText(ctx, userID, "⚠️ That entry can't be moved to \""+newStatus+"\".")
	case err != nil:
		h.bot.PushText(ctx, userID, "⚠️ Error updating queue.")
		return err
	case updated == nil:
		return h.bot.PushText(ctx, userID, "❌ Failed to update queue status.")
	}

	if newStatus == models.StatusInProgress {
		h.bot.PushText(ctx, userID, `🔄 Queue marked as "In Progress".`)
	} else {
		h.bot.PushText(ctx, userID, `✅ Queue marked as "Served".`)
	}

	h.broadcastQueue(ctx, updated.StaffID)
	return h.sendActiveQueue(ctx, userID, replyToken, updated.StaffID)
}

func (h *WebhookHandler) sendActiveQueue(ctx context.Context, userID, replyToken string, staffID int64) error {
	entries, err := h.engine.ActiveForStaff(ctx, staffID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return h.bot.PushText(ctx, userID, "📭 No active queues remaining.")
	}

	return h.bot.ReplyFlex(ctx, replyToken, "Active queue", line.ActiveQueueCarousel(entries))
}

func (h *WebhookHandler) requireAdmin(ctx context.Context, userID string) (bool, error) {
	active, err := h.sessions.Active(ctx, userID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, h.bot.PushText(ctx, userID, "🔒 Admin access required. Send \"Admin Access\" first.")
	}
	return true, nil
}
