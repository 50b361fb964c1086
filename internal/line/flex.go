package line

import (
	"fmt"

	"backend-queuebot/internal/models"
)

// Flex message builders. Bentuk bubble mengikuti layout rich menu bot:
// carousel of kilo bubbles with a message-action button in the footer.

type flexMap = map[string]interface{}

// StaffCarousel lists staff as bubbles whose button sends back
// textPrefix + staff name (e.g. "book Alice").
func StaffCarousel(staff []models.Staff, buttonLabel, textPrefix string) flexMap {
	bubbles := make([]flexMap, 0, len(staff))
	for _, s := range staff {
		bubbles = append(bubbles, flexMap{
			"type": "bubble",
			"size": "kilo",
			"body": flexMap{
				"type":   "box",
				"layout": "vertical",
				"contents": []flexMap{
					textRow(s.Name, "lg", "", true),
					textRow(s.Role, "sm", "#888888", false),
				},
			},
			"footer": flexMap{
				"type":    "box",
				"layout":  "vertical",
				"spacing": "sm",
				"contents": []flexMap{
					{
						"type":   "button",
						"style":  "primary",
						"height": "sm",
						"action": flexMap{
							"type":  "message",
							"label": buttonLabel,
							"text":  textPrefix + s.Name,
						},
					},
				},
			},
		})
	}

	return flexMap{"type": "carousel", "contents": bubbles}
}

func BookingConfirmed(result *models.BookingResult) flexMap {
	return singleBubble([]flexMap{
		textRow("🎉 Booking Confirmed!", "lg", "#1DB446", true),
		textRow("Staff: "+result.StaffName, "", "", false),
		textRow(fmt.Sprintf("Your Queue No: %d", result.QueueNumber), "", "", true),
	})
}

func QueueCancelled() flexMap {
	return singleBubble([]flexMap{
		textRow("🚫 Queue Cancelled", "lg", "#FF3B30", true),
		textRow("Your queue has been cancelled successfully.", "", "", false),
	})
}

func QueueStatusBubble(status *models.QueueStatus) flexMap {
	serving := "There is currently no one in the meeting room with staff"
	if status.CurrentQueueNumber != nil {
		serving = fmt.Sprintf("Currently Serving: #%d", *status.CurrentQueueNumber)
	}

	return singleBubble([]flexMap{
		textRow("📋 Your Queue Status", "lg", "#0066FF", true),
		textRow("Staff: "+status.StaffName, "", "", false),
		textRow(fmt.Sprintf("Your Queue No: %d", status.YourPosition), "sm", "", false),
		textRow(fmt.Sprintf("People Ahead of You in Queue: %d", status.PeopleAhead), "sm", "", false),
		textRow(serving, "sm", "", false),
	})
}

// ActiveQueueCarousel renders a staff member's remaining queue for the
// admin. Only the head of the queue gets action buttons; the rest are
// display-only.
func ActiveQueueCarousel(entries []models.NumberedEntry) flexMap {
	bubbles := make([]flexMap, 0, len(entries))
	for i, e := range entries {
		bubble := flexMap{
			"type": "bubble",
			"size": "kilo",
			"body": flexMap{
				"type":   "box",
				"layout": "vertical",
				"contents": []flexMap{
					textRow(fmt.Sprintf("#%d", e.QueueNumber), "xl", "#1DB446", true),
					textRow("User ID: "+e.UserID, "sm", "", false),
					textRow("Status: "+e.Status, "sm", "#888888", false),
				},
			},
		}

		if i == 0 {
			bubble["footer"] = flexMap{
				"type":    "box",
				"layout":  "horizontal",
				"spacing": "sm",
				"contents": []flexMap{
					{
						"type":   "button",
						"style":  "primary",
						"height": "sm",
						"action": flexMap{
							"type":  "message",
							"label": "In Progress",
							"text":  fmt.Sprintf("admin in-progress %d", e.ID),
						},
					},
					{
						"type":   "button",
						"style":  "secondary",
						"height": "sm",
						"action": flexMap{
							"type":  "message",
							"label": "Served",
							"text":  fmt.Sprintf("admin served %d", e.ID),
						},
					},
				},
			}
		}

		bubbles = append(bubbles, bubble)
	}

	return flexMap{"type": "carousel", "contents": bubbles}
}

func singleBubble(contents []flexMap) flexMap {
	return flexMap{
		"type": "carousel",
		"contents": []flexMap{
			{
				"type": "bubble",
				"body": flexMap{
					"type":     "box",
					"layout":   "vertical",
					"contents": contents,
				},
			},
		},
	}
}

func textRow(text, size, color string, bold bool) flexMap {
	row := flexMap{
		"type":   "text",
		"text":   text,
		"margin": "md",
		"wrap":   true,
	}
	if size != "" {
		row["size"] = size
	}
	if color != "" {
		row["color"] = color
	}
	if bold {
		row["weight"] = "bold"
	}
	return row
}
