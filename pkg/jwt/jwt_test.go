package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	token, expireAt, err := GenerateToken("secret", 42, "pm", "pm@vgov.vn", 24)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if until := time.Until(expireAt); until < 23*time.Hour || until > 24*time.Hour {
		t.Fatalf("expiry out of range: %v", until)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "pm" || claims.Email != "pm@vgov.vn" {
		t.Fatalf("claims wrong: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("token must carry a unique ID")
	}
	if claims.Issuer != "vgov" {
		t.Fatalf("want issuer vgov, got %q", claims.Issuer)
	}
}

func TestTokensAreIndividuallyIdentifiable(t *testing.T) {
	first, _, err := GenerateToken("secret", 1, "dev", "a@vgov.vn", 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, _, err := GenerateToken("secret", 1, "dev", "a@vgov.vn", 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	firstClaims, err := ParseToken("secret", first)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	secondClaims, err := ParseToken("secret", second)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if firstClaims.ID == secondClaims.ID {
		t.Fatal("two tokens for the same user must carry distinct IDs")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret", 1, "dev", "a@vgov.vn", 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("parse must fail with the wrong secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "not.a.token"); err == nil {
		t.Fatal("parse must fail on malformed input")
	}
}
