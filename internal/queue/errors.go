package queue

import "errors"

// Hard errors surfaced to the caller as user-facing rejections. "No active
// entry" situations are not errors: those operations return a nil result
// and the caller renders a "nothing to do" message.
var (
	ErrStaffNotFound     = errors.New("staff not found")
	ErrDuplicateBooking  = errors.New("you already have a booking for today")
	ErrInvalidTransition = errors.New("invalid status transition")
)
