package queue

import (
	"context"
	"errors"
	"time"

	"backend-queuebot/internal/models"
)

// Store is the persistence contract the engine needs. Ordering within a
// (staffID, date) bucket is defined by created_at ascending, id as tie
// breaker; ListDay must return entries in that order. InsertIfNoActive,
// CancelActive and UpdateStatus must each be a single atomic conditional
// write so concurrent duplicates cannot double-apply.
type Store interface {
	// InsertIfNoActive persists the entry unless the user already has a
	// waiting or in-progress entry for the same date. Returns false
	// without inserting when such an entry exists.
	InsertIfNoActive(ctx context.Context, entry *models.QueueEntry) (bool, error)

	// FindActive returns the user's waiting/in-progress entry for the
	// date, or nil when there is none.
	FindActive(ctx context.Context, userID, date string) (*models.QueueEntry, error)

	// ListDay returns ALL of the staff member's entries for the date,
	// any status, in creation order.
	ListDay(ctx context.Context, staffID int64, date string) ([]models.QueueEntry, error)

	// CountDay counts ALL of the staff member's entries for the date,
	// terminal statuses included.
	CountDay(ctx context.Context, staffID int64, date string) (int, error)

	// CancelActive atomically cancels the user's active entry for the
	// date and returns it, or nil when there was nothing to cancel.
	CancelActive(ctx context.Context, userID, date string, now time.Time) (*models.QueueEntry, error)

	// FindByID returns the entry, or nil when absent.
	FindByID(ctx context.Context, id int64) (*models.QueueEntry, error)

	// UpdateStatus sets the status only if the entry still has status
	// from. Returns false when no row matched.
	UpdateStatus(ctx context.Context, id int64, from, to string, now time.Time) (bool, error)
}

// StaffDirectory resolves staff identifiers. Read-only collaborator.
type StaffDirectory interface {
	Resolve(ctx context.Context, staffID int64) (*models.Staff, error)
}

// Service owns queue-entry creation, day-scoped ticket numbering,
// position computation and status transitions.
type Service struct {
	store Store
	staff StaffDirectory
	loc   *time.Location
	now   func() time.Time
}

func New(store Store, staff StaffDirectory, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store: store,
		staff: staff,
		loc:   loc,
		now:   time.Now,
	}
}

// Today is the current queue day, from local wall-clock time.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// Book creates a waiting entry for the user with the given staff member.
// The returned queue number is the day's running booking count for that
// staff (ticket number), not the caller's live position.
func (s *Service) Book(ctx context.Context, userID string, staffID int64) (*models.BookingResult, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	staff, err := s.staff.Resolve(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}

	today := s.Today()

	// Nomor tiket = jumlah booking hari ini + 1, termasuk yang sudah
	// cancelled/served.
	count, err := s.store.CountDay(ctx, staffID, today)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	entry := &models.QueueEntry{
		UserID:    userID,
		StaffID:   staffID,
		Status:    models.StatusWaiting,
		Date:      today,
		CreatedAt: now,
		UpdatedAt: now,
	}

	inserted, err := s.store.InsertIfNoActive(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrDuplicateBooking
	}

	return &models.BookingResult{
		QueueNumber: count + 1,
		StaffName:   staff.Name,
	}, nil
}

// Cancel cancels the user's active entry for today and returns it.
// Returns nil, nil when there is nothing to cancel; that is a legitimate
// negative result, not an error.
func (s *Service) Cancel(ctx context.Context, userID string) (*models.QueueEntry, error) {
	return s.store.CancelActive(ctx, userID, s.Today(), s.now().In(s.loc))
}

// Status reports the caller's place in today's queue, or nil when the
// caller has no active entry.
func (s *Service) Status(ctx context.Context, userID string) (*models.QueueStatus, error) {
	today := s.Today()

	entry, err := s.store.FindActive(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	day, err := s.store.ListDay(ctx, entry.StaffID, today)
	if err != nil {
		return nil, err
	}

	status := &models.QueueStatus{}
	for i := range day {
		if day[i].ID == entry.ID {
			status.YourPosition = i + 1
			break
		}
		// peopleAhead hanya menghitung entry aktif; yourPosition
		// menghitung semuanya. Dua skema penomoran yang sengaja beda.
		if day[i].IsActive() {
			status.PeopleAhead++
		}
	}
	for i := range day {
		if day[i].Status == models.StatusInProgress {
			n := i + 1
			status.CurrentQueueNumber = &n
			break
		}
	}

	staff, err := s.staff.Resolve(ctx, entry.StaffID)
	if err != nil {
		return nil, err
	}
	if staff != nil {
		status.StaffName = staff.Name
	}

	return status, nil
}

// ActiveForStaff returns today's still-active entries for the staff
// member. Queue numbers are positional indexes in the FULL day list,
// assigned before terminal entries are filtered out, so they reflect
// position in history rather than rank among the remaining entries.
func (s *Service) ActiveForStaff(ctx context.Context, staffID int64) ([]models.NumberedEntry, error) {
	day, err := s.store.ListDay(ctx, staffID, s.Today())
	if err != nil {
		return nil, err
	}

	active := make([]models.NumberedEntry, 0, len(day))
	for i := range day {
		if !day[i].IsActive() {
			continue
		}
		active = append(active, models.NumberedEntry{
			QueueEntry:  day[i],
			QueueNumber: i + 1,
		})
	}
	return active, nil
}

// UpdateStatus moves an entry to in-progress or served. The transition
// must be a legal forward step (waiting -> in-progress -> served);
// cancellation goes through Cancel instead. Returns nil, nil when the
// entry does not exist or was concurrently moved out from under us.
func (s *Service) UpdateStatus(ctx context.Context, queueID int64, newStatus string) (*models.NumberedEntry, error) {
	if newStatus != models.StatusInProgress && newStatus != models.StatusServed {
		return nil, ErrInvalidTransition
	}

	entry, err := s.store.FindByID(ctx, queueID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	if !models.ValidTransition(entry.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	// Conditional update keyed on the status we observed; a concurrent
	// transition makes this a no-op instead of a double apply.
	ok, err := s.store.UpdateStatus(ctx, queueID, entry.Status, newStatus, s.now().In(s.loc))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	// Re-number against the full day list so the caller gets the entry
	// with its fresh positional index, even if it just turned terminal.
	day, err := s.store.ListDay(ctx, entry.StaffID, entry.Date)
	if err != nil {
		return nil, err
	}
	for i := range day {
		if day[i].ID == queueID {
			return &models.NumberedEntry{QueueEntry: day[i], QueueNumber: i + 1}, nil
		}
	}

	entry.Status = newStatus
	return &models.NumberedEntry{QueueEntry: *entry}, nil
}
