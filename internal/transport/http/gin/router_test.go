package httpgin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/email"
	"github.com/courtdesk/courtdesk/internal/notify"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
	"github.com/courtdesk/courtdesk/internal/service"
	"github.com/courtdesk/courtdesk/internal/service/auth"
	"github.com/courtdesk/courtdesk/internal/service/booking"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "super-secret"
	userEmail     = "player@example.com"
	userPassword  = "user-password"
)

func newTestServer(t *testing.T) (*gin.Engine, *service.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := jsonstore.Open(filepath.Join(t.TempDir(), "db.json"), jsonstore.Defaults{
		CourtCount:    4,
		OpeningTime:   "09:00",
		ClosingTime:   "21:00",
		SlotMinutes:   60,
		HourlyRate:    20,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(userPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	err = store.Update(context.Background(), func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		doc.Users = append(doc.Users, domain.User{
			ID:        uuid.New().String(),
			FirstName: "Pat",
			LastName:  "Lee",
			Email:     userEmail,
			Phone:     "555-0101",
			Password:  string(hash),
			Role:      domain.RoleUser,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.New(email.NewNoopSender(), logger)

	svcs := service.NewServices(store, notifier, service.Config{
		Booking: booking.Config{},
		Auth:    auth.Config{TokenSecret: []byte("test-secret")},
	})

	return NewRouter(svcs, logger), svcs
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func decodeBooking(t *testing.T, w *httptest.ResponseRecorder) domain.Booking {
	t.Helper()
	var b domain.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	return b
}

func TestHealthz(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/schedule?date=2026-09-01", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", w.Code)
	}

	w = do(t, r, http.MethodGet, "/schedule?date=2026-09-01", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", w.Code)
	}
}

func TestAdminGateRejectsUserRole(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, userEmail, userPassword)

	w := do(t, r, http.MethodGet, "/admin/dashboard?date=2026-09-01", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    adminEmail,
		Password: "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGetProfile(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, userEmail, userPassword)

	w := do(t, r, http.MethodGet, "/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var u UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != userEmail {
		t.Fatalf("email = %q, want %q", u.Email, userEmail)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatal("profile response leaks password field")
	}
}

func TestCreateBookingAsAdminAndConflict(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	req := CreateBookingRequest{
		CourtID:       1,
		Date:          "2026-09-01",
		StartSlot:     "10:00 - 11:00",
		EndSlot:       "11:00 - 12:00",
		CustomerName:  "Walk In",
		CustomerPhone: "555-0199",
	}

	w := do(t, r, http.MethodPost, "/bookings", token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", w.Code, w.Body.String())
	}
	b := decodeBooking(t, w)
	if b.Status != domain.StatusBooked {
		t.Fatalf("status = %q, want %q", b.Status, domain.StatusBooked)
	}
	if b.TimeSlot != "10:00 - 11:00 & 11:00 - 12:00" {
		t.Fatalf("timeSlot = %q", b.TimeSlot)
	}

	w = do(t, r, http.MethodPost, "/bookings", token, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("overlap: status = %d, want 409", w.Code)
	}
}

func TestCreateBookingByTimes(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{
		CourtID:      2,
		Date:         "2026-09-01",
		StartTime:    "14:00",
		EndTime:      "16:00",
		CustomerName: "Walk In",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	b := decodeBooking(t, w)
	if b.TimeSlot != "14:00 - 15:00 & 15:00 - 16:00" {
		t.Fatalf("timeSlot = %q", b.TimeSlot)
	}
}

func TestCreateBookingRequiresSlots(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{
		CourtID:      1,
		Date:         "2026-09-01",
		CustomerName: "Walk In",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUserBookingUsesAccountIdentity(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, userEmail, userPassword)

	w := do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{
		CourtID:   1,
		Date:      "2026-09-02",
		StartSlot: "09:00 - 10:00",
		EndSlot:   "09:00 - 10:00",
		// Spoofed fields must be ignored for non-admin callers.
		CustomerName:  "Somebody Else",
		CustomerPhone: "000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	b := decodeBooking(t, w)
	if b.CustomerName != "Pat Lee" {
		t.Fatalf("customerName = %q, want account name", b.CustomerName)
	}
	if b.CustomerPhone != "555-0101" {
		t.Fatalf("customerPhone = %q, want account phone", b.CustomerPhone)
	}
	if b.UserEmail != userEmail {
		t.Fatalf("userEmail = %q, want %q", b.UserEmail, userEmail)
	}
}

func TestCancellationFlow(t *testing.T) {
	r, _ := newTestServer(t)
	userToken := login(t, r, userEmail, userPassword)
	adminToken := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/bookings", userToken, CreateBookingRequest{
		CourtID:   3,
		Date:      "2026-09-03",
		StartSlot: "12:00 - 13:00",
		EndSlot:   "12:00 - 13:00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", w.Code, w.Body.String())
	}
	b := decodeBooking(t, w)

	w = do(t, r, http.MethodPost, "/bookings/"+b.ID+"/cancellation-request", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("request cancellation: status = %d body %s", w.Code, w.Body.String())
	}
	if got := decodeBooking(t, w).Status; got != domain.StatusCancellationRequested {
		t.Fatalf("status = %q, want %q", got, domain.StatusCancellationRequested)
	}

	approve := true
	w = do(t, r, http.MethodPost, "/admin/cancellations/"+b.ID+"/decision", adminToken,
		CancellationDecisionRequest{Approve: &approve})
	if w.Code != http.StatusOK {
		t.Fatalf("decide: status = %d body %s", w.Code, w.Body.String())
	}
	if got := decodeBooking(t, w).Status; got != domain.StatusCancelled {
		t.Fatalf("status = %q, want %q", got, domain.StatusCancelled)
	}

	// Deciding again must conflict: nothing is pending anymore.
	w = do(t, r, http.MethodPost, "/admin/cancellations/"+b.ID+"/decision", adminToken,
		CancellationDecisionRequest{Approve: &approve})
	if w.Code != http.StatusConflict {
		t.Fatalf("re-decide: status = %d, want 409", w.Code)
	}
}

func TestArriveAndComplete(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{
		CourtID:      1,
		Date:         "2026-09-04",
		StartSlot:    "17:00 - 18:00",
		EndSlot:      "19:00 - 20:00",
		CustomerName: "Walk In",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", w.Code, w.Body.String())
	}
	b := decodeBooking(t, w)

	// Completing before arrival is an illegal transition.
	w = do(t, r, http.MethodPost, "/admin/bookings/"+b.ID+"/complete", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("early complete: status = %d, want 409", w.Code)
	}

	w = do(t, r, http.MethodPost, "/admin/bookings/"+b.ID+"/arrive", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("arrive: status = %d body %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/admin/bookings/"+b.ID+"/complete", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d body %s", w.Code, w.Body.String())
	}
	var resp CompleteBookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Amount != 60 {
		t.Fatalf("amount = %v, want 60 (3 slots at rate 20)", resp.Amount)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/admin/bookings/nope/status", token,
		UpdateStatusRequest{Status: "teleported"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestScheduleETag(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, userEmail, userPassword)

	w := do(t, r, http.MethodGet, "/schedule?date=2026-09-01", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	tag := w.Header().Get("ETag")
	if tag == "" {
		t.Fatal("missing ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/schedule?date=2026-09-01", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("If-None-Match", tag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", w2.Code)
	}
}

func TestScheduleRejectsBadDate(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, userEmail, userPassword)

	w := do(t, r, http.MethodGet, "/schedule?date=not-a-date", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMyBookingsScopedToCaller(t *testing.T) {
	r, _ := newTestServer(t)
	userToken := login(t, r, userEmail, userPassword)
	adminToken := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/bookings", userToken, CreateBookingRequest{
		CourtID:   1,
		Date:      "2026-09-05",
		StartSlot: "09:00 - 10:00",
		EndSlot:   "09:00 - 10:00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("user create: status = %d", w.Code)
	}
	w = do(t, r, http.MethodPost, "/bookings", adminToken, CreateBookingRequest{
		CourtID:      2,
		Date:         "2026-09-05",
		StartSlot:    "09:00 - 10:00",
		EndSlot:      "09:00 - 10:00",
		CustomerName: "Walk In",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("admin create: status = %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/my-bookings", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var mine []domain.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &mine); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("got %d bookings, want 1", len(mine))
	}
	if mine[0].UserEmail != userEmail {
		t.Fatalf("userEmail = %q", mine[0].UserEmail)
	}
}

func TestSettingsRoundTripOverHTTP(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodGet, "/admin/settings", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	var got struct {
		Courts    []domain.Court `json:"courts"`
		TimeSlots []string       `json:"timeSlots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Courts) != 4 {
		t.Fatalf("courts = %d, want 4", len(got.Courts))
	}
	if len(got.TimeSlots) != 12 {
		t.Fatalf("timeSlots = %d, want 12", len(got.TimeSlots))
	}

	w = do(t, r, http.MethodPost, "/admin/settings/slots/generate", token, GenerateSlotsRequest{
		OpeningTime: "08:00",
		ClosingTime: "22:00",
		SlotMinutes: 120,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("generate: status = %d body %s", w.Code, w.Body.String())
	}
	var gen struct {
		TimeSlots []string `json:"timeSlots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &gen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(gen.TimeSlots) != 7 {
		t.Fatalf("generated %d slots, want 7", len(gen.TimeSlots))
	}
}

func TestDashboard(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, adminEmail, adminPassword)

	w := do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{
		CourtID:      1,
		Date:         "2026-09-06",
		StartSlot:    "10:00 - 11:00",
		EndSlot:      "10:00 - 11:00",
		CustomerName: "Walk In",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/admin/dashboard?date=2026-09-06", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var d struct {
		TotalBookings int `json:"totalBookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.TotalBookings != 1 {
		t.Fatalf("totalBookings = %d, want 1", d.TotalBookings)
	}
}
