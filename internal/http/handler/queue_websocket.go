package handler

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"backend-queuebot/internal/realtime"
)

// UpgradeWebSocket hanya meloloskan request upgrade websocket.
func UpgradeWebSocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// QueueWebSocket streams a staff member's active queue to display
// clients. Snapshot awal dikirim langsung; update berikutnya datang dari
// hub broadcast setiap kali antrian berubah.
func QueueWebSocket(engine QueueEngine) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		staffID, err := strconv.ParseInt(c.Params("staffId"), 10, 64)
		if err != nil {
			c.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid staff id"}`))
			c.Close()
			return
		}

		sub := &realtime.Subscriber{StaffID: staffID, Conn: c}
		realtime.Queue.Register <- sub
		defer func() { realtime.Queue.Unregister <- sub }()

		log.Printf("[ws] display connected for staff %d from %s", staffID, c.RemoteAddr())

		if snapshot := initialSnapshot(engine, staffID); snapshot != nil {
			c.WriteMessage(websocket.TextMessage, snapshot)
		}

		// Read loop: client display tidak mengirim apa-apa, loop ini
		// cuma mendeteksi close.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				log.Printf("[ws] display for staff %d closed: %v", staffID, err)
				return
			}
		}
	}
}

func initialSnapshot(engine QueueEngine, staffID int64) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := engine.ActiveForStaff(ctx, staffID)
	if err != nil {
		log.Printf("[ws] initial snapshot for staff %d: %v", staffID, err)
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":      "queue_update",
		"staff_id":  staffID,
		"data":      entries,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil
	}
	return payload
}
