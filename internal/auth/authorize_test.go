// ABOUTME: Tests for the authorization gate and guest password hashing
package auth

import (
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"1", true},
		{"42", true},
		{"0", false},
		{"-5", false},
		{"guest_123", true},
		{"GUEST", true},
		{"guest_-9", true},
		{"my-guest-session", true},
		{"alice", false},
		{"", false},
		{"3.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			if got := Authorize(tt.handle); got != tt.want {
				t.Errorf("Authorize(%q) = %v, want %v", tt.handle, got, tt.want)
			}
		})
	}
}

func TestAuthorize_IntegerSign(t *testing.T) {
	for n := -50; n <= 50; n++ {
		want := n > 0
		if got := Authorize(strconv.Itoa(n)); got != want {
			t.Errorf("Authorize(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestPasswordHasher(t *testing.T) {
	hash, err := NewPasswordHasher(bcrypt.MinCost)(GuestPlaceholderPassword)
	if err != nil {
		t.Fatalf("hasher error = %v", err)
	}
	if hash == GuestPlaceholderPassword {
		t.Fatal("hash should not equal plaintext")
	}
	if !CheckPassword(hash, GuestPlaceholderPassword) {
		t.Error("CheckPassword() should accept the original plaintext")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() should reject a different plaintext")
	}
}

func TestNewPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	hash, err := NewPasswordHasher(99)("pw")
	if err != nil {
		t.Fatalf("hasher error = %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}
