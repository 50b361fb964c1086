package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"backend-queuebot/internal/realtime"
)

// BroadcastStaffQueue pushes the staff member's freshly numbered active
// queue to connected displays. Best effort: kalau hub penuh, update
// berikutnya toh bakal bawa state terbaru.
func BroadcastStaffQueue(ctx context.Context, engine QueueEngine, staffID int64) {
	entries, err := engine.ActiveForStaff(ctx, staffID)
	if err != nil {
		log.Printf("[realtime] active queue for staff %d: %v", staffID, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":      "queue_update",
		"staff_id":  staffID,
		"data":      entries,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[realtime] marshal queue update: %v", err)
		return
	}

	select {
	case realtime.Queue.Broadcast <- realtime.StaffUpdate{StaffID: staffID, Payload: payload}:
	default:
		log.Printf("[realtime] broadcast buffer full, dropping update for staff %d", staffID)
	}
}

func (h *WebhookHandler) broadcastQueue(ctx context.Context, staffID int64) {
	BroadcastStaffQueue(ctx, h.engine, staffID)
}
