package models

import "testing"

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusWaiting, StatusInProgress, true},
		{StatusWaiting, StatusCancelled, true},
		{StatusInProgress, StatusServed, true},
		{StatusInProgress, StatusCancelled, true},

		{StatusWaiting, StatusServed, false}, // tidak boleh lompat
		{StatusInProgress, StatusWaiting, false},
		{StatusServed, StatusInProgress, false},
		{StatusServed, StatusWaiting, false},
		{StatusCancelled, StatusWaiting, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusServed, StatusCancelled, false},
		{"unknown", StatusWaiting, false},
	}

	for _, c := range cases {
		if got := ValidTransition(c.from, c.to); got != c.want {
			t.Errorf("ValidTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsActive(t *testing.T) {
	for _, status := range []string{StatusWaiting, StatusInProgress} {
		e := QueueEntry{Status: status}
		if !e.IsActive() {
			t.Errorf("IsActive() = false for %q, want true", status)
		}
	}
	for _, status := range []string{StatusServed, StatusCancelled} {
		e := QueueEntry{Status: status}
		if e.IsActive() {
			t.Errorf("IsActive() = true for %q, want false", status)
		}
	}
}
