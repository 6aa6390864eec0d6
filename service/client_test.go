package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"absolute-cinema-cli/model"
)

type staticTokens string

func (s staticTokens) Token() (string, bool) {
	return string(s), s != ""
}

func TestGetJSON_Non2xxReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 1

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected APIError with status 500, got %v", err)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 3
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/retry", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if ok, _ := out["ok"].(bool); !ok {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestGetJSON_DoesNotRetryOnClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.maxAttempts = 3
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/bad", &out); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestCreateBooking_IsNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("seat lock busy"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	_, err := client.CreateBooking(context.Background(), []string{"5"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "seat lock busy") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestCreateBooking_SendsRepeatedSeatIdsInOrder(t *testing.T) {
	var gotQuery, gotMethod, gotPath string
	var gotBody int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotBody = r.ContentLength
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "status": "PENDING", "totalPrice": 30}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/", server.Client())
	booking, err := client.CreateBooking(context.Background(), []string{"5", "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/bookings" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotQuery != "selectedSeatIds=5&selectedSeatIds=7" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotBody > 0 {
		t.Fatalf("expected empty body, got %d bytes", gotBody)
	}
	if booking.Id != "42" || booking.Status != model.BookingPending {
		t.Fatalf("unexpected booking: %+v", booking)
	}
}

func TestCreateBooking_RejectsEmptySelection(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	if _, err := client.CreateBooking(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestDo_AuthorizationHeader(t *testing.T) {
	var headers []http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Clone())
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	withToken := NewClient(server.URL, server.Client(), WithTokenSource(staticTokens("abc")))
	if _, err := withToken.GetCinemas(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	without := NewClient(server.URL, server.Client(), WithTokenSource(staticTokens("")))
	if _, err := without.GetCinemas(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(headers) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(headers))
	}
	if got := headers[0].Get("Authorization"); got != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if got := headers[1].Get("Authorization"); got != "" {
		t.Fatalf("expected no authorization header, got %q", got)
	}
	if headers[0].Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	if got := headers[0].Get("Accept"); got != "application/json" {
		t.Fatalf("unexpected accept header %q", got)
	}
}

func TestGetSeats_DecodesNumericIds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seats/9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id": 11, "status": "AVAILABLE"}, {"id": "12", "status": "BOOKED"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	seats, err := client.GetSeats(context.Background(), "9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seats) != 2 || seats[0].Id != "11" || seats[1].Id != "12" {
		t.Fatalf("unexpected seats: %+v", seats)
	}
	if seats[1].Status != model.SeatBooked {
		t.Fatalf("unexpected status %q", seats[1].Status)
	}
}

func TestPay_SendsQueryAndReturnsText(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Payment successful\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	msg, err := client.Pay(context.Background(), "3", model.PaymentDigitalWallet, 37.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Payment successful" {
		t.Fatalf("unexpected confirmation %q", msg)
	}
	if gotQuery != "amount=37.5&paymentId=3&paymentMethod=DIGITAL_WALLET" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestPay_RejectsUnknownMethod(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	if _, err := client.Pay(context.Background(), "3", "CASH", 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestDownloadTicket_WritesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bookings/8/e-ticket" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	var buf bytes.Buffer
	if err := client.DownloadTicket(context.Background(), "8", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", buf.String())
	}
}

func TestLogin_UnauthorizedIsFriendly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.Login(context.Background(), "a@b.c", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	err := &APIError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}
	if !IsNotFound(err) {
		t.Fatal("expected not found")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("plain error is not a not found")
	}
}

func TestRetryDelay_IsCapped(t *testing.T) {
	client := NewClient("http://example.test", nil)
	client.retryBase = 100 * time.Millisecond
	client.retryCap = 300 * time.Millisecond

	if got := client.retryDelay(1); got != 100*time.Millisecond {
		t.Fatalf("attempt 1: got %v", got)
	}
	if got := client.retryDelay(2); got != 200*time.Millisecond {
		t.Fatalf("attempt 2: got %v", got)
	}
	if got := client.retryDelay(5); got != 300*time.Millisecond {
		t.Fatalf("attempt 5: got %v", got)
	}
}

func TestRegister_PostsFormAndDecodesOTP(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/register" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"otp":"123456","expiryTime":"2026-05-01T20:05:00"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	token, err := client.Register(context.Background(), model.Registration{
		Email:       "jane@example.com",
		Password:    "Popcorn#2025",
		FullName:    "Jane Tan",
		Username:    "janet",
		PhoneNumber: "+60123456789",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if token.Id != 9 || token.ExpiryTime.Minute() != 5 {
		t.Fatalf("unexpected token: %+v", token)
	}
	if got["username"] != "janet" || got["phoneNumber"] != "+60123456789" {
		t.Fatalf("unexpected body: %v", got)
	}
	if _, ok := got["profilePictureUrl"]; ok {
		t.Fatalf("empty picture url should be omitted: %v", got)
	}
}

func TestRegister_ConflictSurfacesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("Registration failed: Email already exists."))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.Register(context.Background(), model.Registration{Email: "jane@example.com"})
	if err == nil || err.Error() != "Registration failed: Email already exists." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerify_Outcomes(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "success", status: http.StatusOK, body: "OTP verified successfully."},
		{name: "wrong code with 200", status: http.StatusOK, body: "Invalid or expired OTP.", wantErr: ErrInvalidOTP},
		{name: "bad request", status: http.StatusBadRequest, body: "OTP verification failed: User not found", wantErr: ErrInvalidOTP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/verify" || r.URL.Query().Get("otp") != "123456" {
					t.Fatalf("unexpected request: %s", r.URL.String())
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, server.Client())
			err := client.Verify(context.Background(), "jane@example.com", "123456")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPasswordReset_Flow(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		q := r.URL.Query()
		switch r.URL.Path {
		case "/auth/otp-password-reset-token":
			_, _ = w.Write([]byte("654321"))
		case "/auth/verify-password-reset-otp":
			if q.Get("otp") != "654321" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("reset-token"))
		case "/auth/reset-password":
			if q.Get("token") != "reset-token" || q.Get("newPassword") != "Popcorn#2026" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("Reset password failed: Invalid token"))
				return
			}
			_, _ = w.Write([]byte("Password reset successfully."))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	ctx := context.Background()
	if err := client.RequestPasswordReset(ctx, "jane@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if _, err := client.VerifyPasswordResetOTP(ctx, "jane@example.com", "000000"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	token, err := client.VerifyPasswordResetOTP(ctx, "jane@example.com", "654321")
	if err != nil || token != "reset-token" {
		t.Fatalf("unexpected token %q, err %v", token, err)
	}
	message, err := client.ResetPassword(ctx, model.PasswordReset{Email: "jane@example.com", Token: token, NewPassword: "Popcorn#2026"})
	if err != nil || message != "Password reset successfully." {
		t.Fatalf("unexpected result %q, err %v", message, err)
	}
	_, err = client.ResetPassword(ctx, model.PasswordReset{Email: "jane@example.com", Token: "stale", NewPassword: "Popcorn#2026"})
	if err == nil || err.Error() != "Reset password failed: Invalid token" {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 5 {
		t.Fatalf("expected 5 calls, got %v", calls)
	}
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.RequestPasswordReset(context.Background(), "ghost@example.com")
	if err == nil || !strings.Contains(err.Error(), "no account") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateUser_PutsProfileWithId(t *testing.T) {
	var got model.ProfileUpdate
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/update" || r.URL.Query().Get("id") != "7" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.String())
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"fullName":"Jane T","email":"jane@example.com","username":"janet"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	update := model.ProfileUpdateFrom(model.User{Id: 7, FullName: "Jane Tan", Email: "jane@example.com", Username: "janet", ProfilePictureURL: "https://img.example.com/j.png"})
	update.FullName = "Jane T"
	user, err := client.UpdateUser(context.Background(), 7, update)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if user.FullName != "Jane T" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if got.ProfilePictureURL != "https://img.example.com/j.png" || got.Email != "jane@example.com" {
		t.Fatalf("current values must be sent back: %+v", got)
	}
}

func TestGetMovieDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.EscapedPath() {
		case "/movies/review/byId/3":
			_, _ = w.Write([]byte(`{"Title":"Dune","Year":"2021","imdbRating":"8.0","Ratings":[{"Source":"Rotten Tomatoes","Value":"83%"}],"Response":"True"}`))
		case "/movies/review/byTitle/No%20Such%20Film":
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	details, err := client.GetMovieDetails(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if details.Title != "Dune" || details.IMDbRating != "8.0" || len(details.Ratings) != 1 {
		t.Fatalf("unexpected details: %+v", details)
	}
	_, err = client.GetMovieDetailsByTitle(context.Background(), "No Such Film")
	if err == nil || err.Error() != "Movie not found!" {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = client.GetMovieDetails(context.Background(), 99)
	if err == nil || !strings.Contains(err.Error(), "no details") {
		t.Fatalf("unexpected error: %v", err)
	}
}
