package auth

import (
	"errors"
	"strings"
	"testing"
)

// =========================================================================
// HASH TESTS
// =========================================================================

func TestHashProducesPHCFormat(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("hash %q should be PHC-formatted argon2id", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("hash has %d $-separated parts, want 6", len(parts))
	}
}

func TestHashIsSalted(t *testing.T) {
	ps := NewPasswordServiceForTest()

	// Same password twice must yield different strings — that's the salt.
	h1, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

// =========================================================================
// VERIFY TESTS
// =========================================================================

func TestVerifyRoundTrip(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with the right password error = %v", err)
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("right")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	err = ps.Verify(hash, "wrong")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() with a wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerifyUsesStoredParameters(t *testing.T) {
	// A hash produced under one cost profile must verify under another
	// service instance: the parameters live in the stored string.
	weak := NewPasswordServiceForTest()
	hash, err := weak.Hash("portable")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	strong, err := NewPasswordService(3, 65536, 4)
	if err != nil {
		t.Fatalf("NewPasswordService() error = %v", err)
	}
	if err := strong.Verify(hash, "portable"); err != nil {
		t.Errorf("Verify() across cost profiles error = %v", err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	ps := NewPasswordServiceForTest()

	cases := []string{
		"",
		"plaintext-not-a-hash",
		"$bcrypt$whatever",
		"$argon2id$v=19$m=8,t=1,p=1$notbase64!!$also-not",
	}
	for _, stored := range cases {
		err := ps.Verify(stored, "anything")
		if err == nil {
			t.Errorf("Verify(%q) should fail", stored)
		}
		if errors.Is(err, ErrPasswordMismatch) {
			t.Errorf("Verify(%q) should report a malformed hash, not a mismatch", stored)
		}
	}
}

func TestNewPasswordServiceRejectsZeroParameters(t *testing.T) {
	if _, err := NewPasswordService(0, 65536, 4); err == nil {
		t.Error("NewPasswordService(time=0) should fail")
	}
	if _, err := NewPasswordService(3, 0, 4); err == nil {
		t.Error("NewPasswordService(mem=0) should fail")
	}
	if _, err := NewPasswordService(3, 65536, 0); err == nil {
		t.Error("NewPasswordService(par=0) should fail")
	}
}
