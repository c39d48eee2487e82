package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
	"github.com/inkpress/inkpress/internal/user"
)

func testCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{
		Issuer: "inkpress-test",
		Secret: "test-secret-key",
		Now:    now,
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec(Config{Issuer: "x"}); err == nil {
		t.Fatal("expected missing secret to be rejected")
	}
}

func TestMintValidateRoundTrip(t *testing.T) {
	codec := testCodec(t, nil)
	minted, err := codec.Mint(user.User{ID: 1, Email: "alice@x.com"}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	subject, err := codec.Validate(minted)
	if err != nil {
		t.Fatalf("validate freshly minted token: %v", err)
	}
	if subject != 1 {
		t.Fatalf("subject = %d, want 1", subject)
	}
}

func TestValidateExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	codec := testCodec(t, func() time.Time { return clock })

	minted, err := codec.Mint(user.User{ID: 7}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	t.Run("valid within window", func(t *testing.T) {
		clock = issued.Add(59 * time.Minute)
		if _, err := codec.Validate(minted); err != nil {
			t.Fatalf("expected token valid before expiry, got %v", err)
		}
	})

	t.Run("valid at exact expiry instant", func(t *testing.T) {
		clock = issued.Add(time.Hour)
		if _, err := codec.Validate(minted); err != nil {
			t.Fatalf("expected token valid at the expiry instant, got %v", err)
		}
	})

	t.Run("expired past window", func(t *testing.T) {
		clock = issued.Add(time.Hour + time.Second)
		_, err := codec.Validate(minted)
		if apperrors.CodeOf(err) != apperrors.CodeTokenExpired {
			t.Fatalf("expected TOKEN_EXPIRED, got %v", err)
		}
	})
}

func TestValidateTamperedToken(t *testing.T) {
	codec := testCodec(t, nil)
	minted, err := codec.Mint(user.User{ID: 3}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Flip one byte in the signature segment. Skip the final character: its
	// low bits are base64 padding, which decoders discard, so flipping them
	// would not change the decoded signature.
	tampered := []byte(minted)
	last := len(tampered) - 2
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = codec.Validate(string(tampered))
	if apperrors.CodeOf(err) != apperrors.CodeTokenInvalidSignature {
		t.Fatalf("expected TOKEN_INVALID_SIGNATURE, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	codec := testCodec(t, nil)
	minted, err := codec.Mint(user.User{ID: 3}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other, err := NewCodec(Config{Issuer: "inkpress-test", Secret: "different-secret"})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	_, err = other.Validate(minted)
	if apperrors.CodeOf(err) != apperrors.CodeTokenInvalidSignature {
		t.Fatalf("expected TOKEN_INVALID_SIGNATURE, got %v", err)
	}
}

func TestValidateMalformedToken(t *testing.T) {
	codec := testCodec(t, nil)
	for _, input := range []string{"", "garbage", "a.b", strings.Repeat("x", 300)} {
		_, err := codec.Validate(input)
		if apperrors.CodeOf(err) != apperrors.CodeTokenMalformed {
			t.Fatalf("Validate(%q): expected TOKEN_MALFORMED, got %v", input, err)
		}
	}
}

func TestValidateErrorsMatchByCode(t *testing.T) {
	codec := testCodec(t, nil)
	_, err := codec.Validate("garbage")
	if !errors.Is(err, apperrors.New(apperrors.CodeTokenMalformed, "")) {
		t.Fatalf("expected errors.Is match on code, got %v", err)
	}
}

func TestSubjectBestEffort(t *testing.T) {
	codec := testCodec(t, nil)
	minted, err := codec.Mint(user.User{ID: 42}, -time.Hour) // already expired
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	subject, ok := codec.Subject(minted)
	if !ok || subject != 42 {
		t.Fatalf("Subject = (%d, %v), want (42, true)", subject, ok)
	}

	if _, ok := codec.Subject("not-a-token"); ok {
		t.Fatal("expected Subject to fail on garbage input")
	}
}
