package validate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"absolute-cinema-cli/model"
)

func TestMovie(t *testing.T) {
	v := New()

	valid := model.Movie{Title: "Dune", Director: "Villeneuve", Genre: "Sci-Fi", Duration: 155, Price: 18}
	if err := v.Movie(&valid); err != nil {
		t.Fatalf("expected valid movie, got %v", err)
	}

	invalid := model.Movie{Title: "", Director: "X", Genre: "Drama", Duration: 0, Price: -1}
	err := v.Movie(&invalid)
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"Title", "Duration", "Price"} {
		if !fields[want] {
			t.Fatalf("expected %s to be rejected, got %v", want, errs)
		}
	}
}

func TestShowtime_RequiresScreeningTime(t *testing.T) {
	v := New()

	missing := model.LazyShowtime{MovieTitle: "Dune", CinemaName: "Mid Valley", Hall: 2}
	err := v.Showtime(&missing)
	if err == nil || !strings.Contains(err.Error(), "ScreeningTime is required") {
		t.Fatalf("expected screening time error, got %v", err)
	}

	ok := missing
	ok.ScreeningTime = model.Timestamp{Time: time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)}
	if err := v.Showtime(&ok); err != nil {
		t.Fatalf("expected valid showtime, got %v", err)
	}

	ok.Hall = 0
	if err := v.Showtime(&ok); err == nil {
		t.Fatal("expected hall error")
	}
}

func TestCard(t *testing.T) {
	v := New()

	card := model.CardDetails{Number: "4111 1111 1111 1111", Holder: "Jane Doe", Expiry: "09/28", CVV: "123"}
	if err := v.Card(&card); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}

	card.Expiry = "13/28"
	if err := v.Card(&card); err == nil || !strings.Contains(err.Error(), "MM/YY") {
		t.Fatalf("expected expiry error, got %v", err)
	}

	card = model.CardDetails{}
	var errs ValidationErrors
	if !errors.As(v.Card(&card), &errs) || len(errs) != 4 {
		t.Fatalf("expected 4 errors for empty card, got %v", errs)
	}
}

func TestWallet(t *testing.T) {
	v := New()
	if err := v.Wallet(&model.WalletDetails{Provider: model.WalletGrab}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Wallet(&model.WalletDetails{}); err == nil {
		t.Fatal("expected missing provider error")
	}
	if err := v.Wallet(&model.WalletDetails{Provider: "PAYPAL"}); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

func TestCredentials(t *testing.T) {
	v := New()
	if err := v.Credentials(&model.Credentials{Email: "not-an-email", Password: "x"}); err == nil {
		t.Fatal("expected email error")
	}
	if err := v.Credentials(&model.Credentials{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegistration(t *testing.T) {
	v := New()

	valid := model.Registration{
		Email:       "jane@example.com",
		Password:    "Popcorn#2025",
		FullName:    "Jane Tan",
		Username:    "janet",
		PhoneNumber: "+60123456789",
	}
	if err := v.Registration(&valid); err != nil {
		t.Fatalf("expected valid registration, got %v", err)
	}

	invalid := valid
	invalid.Password = "popcorn"
	invalid.PhoneNumber = "12-34"
	err := v.Registration(&invalid)
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(errs) != 2 || errs[0].Field != "Password" || errs[1].Field != "PhoneNumber" {
		t.Fatalf("expected password and phone errors, got %v", errs)
	}
	if !strings.Contains(errs[0].Message, "symbol") {
		t.Fatalf("expected password rule in message, got %q", errs[0].Message)
	}
}

func TestStrongPassword(t *testing.T) {
	v := New()
	cases := map[string]bool{
		"Popcorn#2025": true,
		"Ab1!efgh":     true,
		"Ab1!efg":      false,
		"popcorn#2025": false,
		"POPCORN#2025": false,
		"Popcorn#Time": false,
		"Popcorn2025x": false,
	}
	for password, want := range cases {
		reset := model.PasswordReset{Email: "jane@example.com", Token: "tok", NewPassword: password}
		if got := v.PasswordReset(&reset) == nil; got != want {
			t.Fatalf("%q: expected valid=%v", password, want)
		}
	}
}

func TestOTP(t *testing.T) {
	v := New()

	if err := v.OTP(&model.OTPCheck{Email: "jane@example.com", OTP: "123456"}); err != nil {
		t.Fatalf("expected valid otp, got %v", err)
	}
	for _, otp := range []string{"12345", "1234567", "12a456"} {
		if err := v.OTP(&model.OTPCheck{Email: "jane@example.com", OTP: otp}); err == nil {
			t.Fatalf("expected %q to be rejected", otp)
		}
	}
}

func TestProfileUpdate_OptionalPassword(t *testing.T) {
	v := New()

	update := model.ProfileUpdate{FullName: "Jane Tan", Username: "janet", Email: "jane@example.com"}
	if err := v.ProfileUpdate(&update); err != nil {
		t.Fatalf("expected valid update, got %v", err)
	}
	update.Password = "short"
	if err := v.ProfileUpdate(&update); err == nil {
		t.Fatal("expected weak password to be rejected")
	}
}
