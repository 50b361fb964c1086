package models

import (
	"time"
)

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in-progress"
	StatusServed     = "served"
	StatusCancelled  = "cancelled"
)

// ActiveStatuses: entry yang masih menunggu atau sedang dilayani.
// served dan cancelled adalah status terminal.
var ActiveStatuses = []string{StatusWaiting, StatusInProgress}

type QueueEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	StaffID   int64     `json:"staff_id"`
	Status    string    `json:"status"` // waiting, in-progress, served, cancelled
	Date      string    `json:"date"`   // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *QueueEntry) IsActive() bool {
	return q.Status == StatusWaiting || q.Status == StatusInProgress
}

// transitionMap: dari status -> status tujuan yang diizinkan.
// waiting -> in-progress -> served, plus cancel dari kedua status aktif.
var transitionMap = map[string][]string{
	StatusWaiting:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusServed, StatusCancelled},
}

// ValidTransition reports whether moving from one status to another is
// allowed. Terminal statuses have no outgoing transitions.
func ValidTransition(from, to string) bool {
	for _, allowed := range transitionMap[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

/*
|--------------------------------------------------------------------------
| RESPONSE DTO
|--------------------------------------------------------------------------
| Hasil operasi engine yang dirender layer LINE / admin API.
*/

// BookingResult is returned by a successful booking. QueueNumber is the
// ticket number: the running count of bookings for the staff member that
// day, cancelled and served entries included. It is assigned once and
// never recomputed.
type BookingResult struct {
	QueueNumber int    `json:"queue_number"`
	StaffName   string `json:"staff_name"`
}

// QueueStatus describes the caller's place in the queue. YourPosition is
// the positional index in the full creation-ordered day list (terminal
// entries counted); PeopleAhead counts only active entries before the
// caller. CurrentQueueNumber is the positional index of the entry being
// served, nil when no one is in progress.
type QueueStatus struct {
	YourPosition       int    `json:"your_position"`
	PeopleAhead        int    `json:"people_ahead"`
	CurrentQueueNumber *int   `json:"current_queue_number"`
	StaffName          string `json:"staff_name"`
}

// NumberedEntry pairs a queue entry with its positional index in the full
// day list. The index is computed before terminal entries are filtered
// out, so it reflects position in history.
type NumberedEntry struct {
	QueueEntry
	QueueNumber int `json:"queue_number"`
}
