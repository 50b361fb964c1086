package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"backend-queuebot/internal/line"
	"backend-queuebot/internal/models"
	"backend-queuebot/internal/queue"
)

const testChannelSecret = "test-channel-secret"

/*
|--------------------------------------------------------------------------
| Stubs
|--------------------------------------------------------------------------
*/

type stubEngine struct {
	bookFn   func(ctx context.Context, userID string, staffID int64) (*models.BookingResult, error)
	cancelFn func(ctx context.Context, userID string) (*models.QueueEntry, error)
	statusFn func(ctx context.Context, userID string) (*models.QueueStatus, error)
	activeFn func(ctx context.Context, staffID int64) ([]models.NumberedEntry, error)
	updateFn func(ctx context.Context, queueID int64, newStatus string) (*models.NumberedEntry, error)
}

func (s *stubEngine) Book(ctx context.Context, userID string, staffID int64) (*models.BookingResult, error) {
	if s.bookFn == nil {
		return &models.BookingResult{QueueNumber: 1, StaffName: "Alice"}, nil
	}
	return s.bookFn(ctx, userID, staffID)
}

func (s *stubEngine) Cancel(ctx context.Context, userID string) (*models.QueueEntry, error) {
	if s.cancelFn == nil {
		return nil, nil
	}
	return s.cancelFn(ctx, userID)
}

func (s *stubEngine) Status(ctx context.Context, userID string) (*models.QueueStatus, error) {
	if s.statusFn == nil {
		return nil, nil
	}
	return s.statusFn(ctx, userID)
}

func (s *stubEngine) ActiveForStaff(ctx context.Context, staffID int64) ([]models.NumberedEntry, error) {
	if s.activeFn == nil {
		return nil, nil
	}
	return s.activeFn(ctx, staffID)
}

func (s *stubEngine) UpdateStatus(ctx context.Context, queueID int64, newStatus string) (*models.NumberedEntry, error) {
	if s.updateFn == nil {
		return nil, nil
	}
	return s.updateFn(ctx, queueID, newStatus)
}

type stubStaffDir struct {
	staff []models.Staff
}

func (s *stubStaffDir) ListAll(context.Context) ([]models.Staff, error) {
	return s.staff, nil
}

func (s *stubStaffDir) FindByName(_ context.Context, name string) (*models.Staff, error) {
	for i := range s.staff {
		if s.staff[i].Name == name {
			return &s.staff[i], nil
		}
	}
	return nil, nil
}

type fakeBot struct {
	pushed []string // text messages sent
	flex   []string // altTexts of flex replies
}

func (b *fakeBot) PushText(_ context.Context, _, text string) error {
	b.pushed = append(b.pushed, text)
	return nil
}

func (b *fakeBot) ReplyFlex(_ context.Context, _, altText string, _ interface{}) error {
	b.flex = append(b.flex, altText)
	return nil
}

type fakeSessions struct {
	granted map[string]bool
}

func (s *fakeSessions) Grant(_ context.Context, userID string) error {
	if s.granted == nil {
		s.granted = make(map[string]bool)
	}
	s.granted[userID] = true
	return nil
}

func (s *fakeSessions) Active(_ context.Context, userID string) (bool, error) {
	return s.granted[userID], nil
}

/*
|--------------------------------------------------------------------------
| Helpers
|--------------------------------------------------------------------------
*/

type fixture struct {
	app      *fiber.App
	engine   *stubEngine
	bot      *fakeBot
	sessions *fakeSessions
}

func newFixture(t *testing.T, seen SeenFunc) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		engine:   &stubEngine{},
		bot:      &fakeBot{},
		sessions: &fakeSessions{},
	}
	staff := &stubStaffDir{staff: []models.Staff{
		{ID: 1, Name: "Alice", Role: "Receptionist"},
		{ID: 2, Name: "Bob", Role: "Dentist"},
	}}

	h := NewWebhookHandler(f.engine, staff, f.bot, f.sessions, seen, testChannelSecret, hash)

	f.app = fiber.New()
	f.app.Post("/webhook", h.Handle)
	return f
}

func textEvent(userID, text string) line.WebhookEvent {
	return line.WebhookEvent{
		Type:           "message",
		WebhookEventID: "evt-" + text,
		ReplyToken:     "reply-token",
		Source:         line.EventSource{Type: "user", UserID: userID},
		Message:        line.EventMessage{Type: "text", Text: text},
	}
}

func (f *fixture) post(t *testing.T, signatureOK bool, events ...line.WebhookEvent) *http.Response {
	t.Helper()

	body, err := json.Marshal(line.WebhookPayload{Events: events})
	if err != nil {
		t.Fatal(err)
	}

	secret := testChannelSecret
	if !signatureOK {
		secret = "wrong-secret"
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)

	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func containsText(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

/*
|--------------------------------------------------------------------------
| Tests
|--------------------------------------------------------------------------
*/

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.post(t, false, textEvent("U1", "Join a Queue"))
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if len(f.bot.flex)+len(f.bot.pushed) != 0 {
		t.Error("bot was called despite invalid signature")
	}
}

func TestWebhookSkipsRedeliveredEvents(t *testing.T) {
	seen := func(context.Context, string) (bool, error) { return true, nil }
	f := newFixture(t, seen)

	resp := f.post(t, true, textEvent("U1", "Join a Queue"))
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(f.bot.flex)+len(f.bot.pushed) != 0 {
		t.Error("redelivered event was processed")
	}
}

func TestJoinQueueSendsStaffCarousel(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, true, textEvent("U1", "Join a Queue"))

	if len(f.bot.flex) != 1 || f.bot.flex[0] != "Staff list" {
		t.Errorf("flex replies = %v, want [Staff list]", f.bot.flex)
	}
}

func TestBookConfirms(t *testing.T) {
	f := newFixture(t, nil)

	var gotStaffID int64
	f.engine.bookFn = func(_ context.Context, _ string, staffID int64) (*models.BookingResult, error) {
		gotStaffID = staffID
		return &models.BookingResult{QueueNumber: 3, StaffName: "Alice"}, nil
	}

	f.post(t, true, textEvent("U1", "book Alice"))

	if gotStaffID != 1 {
		t.Errorf("booked staff id = %d, want 1", gotStaffID)
	}
	if len(f.bot.flex) != 1 || f.bot.flex[0] != "Booking confirmed" {
		t.Errorf("flex replies = %v, want [Booking confirmed]", f.bot.flex)
	}
}

func TestBookUnknownStaffName(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, true, textEvent("U1", "book Nobody"))

	if !containsText(f.bot.pushed, "doesn't exist") {
		t.Errorf("pushed = %v, want staff-not-found message", f.bot.pushed)
	}
}

func TestBookDuplicateMessage(t *testing.T) {
	f := newFixture(t, nil)

	f.engine.bookFn = func(context.Context, string, int64) (*models.BookingResult, error) {
		return nil, queue.ErrDuplicateBooking
	}

	f.post(t, true, textEvent("U1", "book Alice"))

	if !containsText(f.bot.pushed, "already have a booking") {
		t.Errorf("pushed = %v, want duplicate-booking message", f.bot.pushed)
	}
}

func TestCancelWithNothingToCancel(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, true, textEvent("U1", "Cancel My Queue"))

	if !containsText(f.bot.pushed, "don't have any active bookings") {
		t.Errorf("pushed = %v, want nothing-to-cancel message", f.bot.pushed)
	}
}

func TestCancelConfirms(t *testing.T) {
	f := newFixture(t, nil)

	f.engine.cancelFn = func(_ context.Context, userID string) (*models.QueueEntry, error) {
		return &models.QueueEntry{ID: 7, UserID: userID, StaffID: 1, Status: models.StatusCancelled}, nil
	}

	f.post(t, true, textEvent("U1", "Cancel My Queue"))

	if len(f.bot.flex) != 1 || f.bot.flex[0] != "Queue cancelled" {
		t.Errorf("flex replies = %v, want [Queue cancelled]", f.bot.flex)
	}
}

func TestViewQueueWithoutBooking(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, true, textEvent("U1", "View My Queue"))

	if !containsText(f.bot.pushed, "don't have any active queues") {
		t.Errorf("pushed = %v, want no-active-queue message", f.bot.pushed)
	}
}

func TestAdminCommandsRequireSession(t *testing.T) {
	f := newFixture(t, nil)

	f.post(t, true, textEvent("U1", "Manage Queue for Alice"))

	if !containsText(f.bot.pushed, "Admin access required") {
		t.Errorf("pushed = %v, want admin-required message", f.bot.pushed)
	}
}

func TestAdminPasscodeFlow(t *testing.T) {
	f := newFixture(t, nil)

	// Salah dulu.
	f.post(t, true, textEvent("U1", "&&wrong"))
	if !containsText(f.bot.pushed, "Invalid passcode") {
		t.Errorf("pushed = %v, want invalid-passcode message", f.bot.pushed)
	}
	if f.sessions.granted["U1"] {
		t.Error("session granted for wrong passcode")
	}

	// Lalu benar.
	f.post(t, true, textEvent("U1", "&&Admin123"))
	if !f.sessions.granted["U1"] {
		t.Error("session not granted for correct passcode")
	}
	if !containsText(f.bot.pushed, "Welcome Admin") {
		t.Errorf("pushed = %v, want welcome message", f.bot.pushed)
	}
	if f.bot.flex[len(f.bot.flex)-1] != "Choose a staff to manage" {
		t.Errorf("flex replies = %v, want manage carousel last", f.bot.flex)
	}
}

func TestManageQueueShowsActiveEntries(t *testing.T) {
	f := newFixture(t, nil)
	f.sessions.Grant(context.Background(), "U1")

	f.engine.activeFn = func(_ context.Context, staffID int64) ([]models.NumberedEntry, error) {
		return []models.NumberedEntry{
			{QueueEntry: models.QueueEntry{ID: 5, UserID: "U9", StaffID: staffID, Status: models.StatusWaiting}, QueueNumber: 2},
		}, nil
	}

	f.post(t, true, textEvent("U1", "Manage Queue for Alice"))

	if len(f.bot.flex) != 1 || f.bot.flex[0] != "Active queue" {
		t.Errorf("flex replies = %v, want [Active queue]", f.bot.flex)
	}
}

func TestAdminUpdateSendsConfirmationAndRefresh(t *testing.T) {
	f := newFixture(t, nil)
	f.sessions.Grant(context.Background(), "U1")

	f.engine.updateFn = func(_ context.Context, queueID int64, newStatus string) (*models.NumberedEntry, error) {
		return &models.NumberedEntry{
			QueueEntry:  models.QueueEntry{ID: queueID, UserID: "U9", StaffID: 1, Status: newStatus},
			QueueNumber: 2,
		}, nil
	}
	f.engine.activeFn = func(context.Context, int64) ([]models.NumberedEntry, error) {
		return nil, nil
	}

	f.post(t, true, textEvent("U1", "admin in-progress 5"))

	if !containsText(f.bot.pushed, "In Progress") {
		t.Errorf("pushed = %v, want in-progress confirmation", f.bot.pushed)
	}
	// Antrian aktif kosong setelah update -> pesan teks, bukan flex.
	if !containsText(f.bot.pushed, "No active queues remaining") {
		t.Errorf("pushed = %v, want empty-queue message", f.bot.pushed)
	}
}

func TestAdminUpdateInvalidTransition(t *testing.T) {
	f := newFixture(t, nil)
	f.sessions.Grant(context.Background(), "U1")

	f.engine.updateFn = func(context.Context, int64, string) (*models.NumberedEntry, error) {
		return nil, queue.ErrInvalidTransition
	}

	f.post(t, true, textEvent("U1", "admin served 5"))

	if !containsText(f.bot.pushed, "can't be moved") {
		t.Errorf("pushed = %v, want invalid-transition message", f.bot.pushed)
	}
}

func TestUnknownTextIsIgnored(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.post(t, true, textEvent("U1", "hello there"))

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(f.bot.flex)+len(f.bot.pushed) != 0 {
		t.Errorf("bot called for unknown text: pushed=%v flex=%v", f.bot.pushed, f.bot.flex)
	}
}
