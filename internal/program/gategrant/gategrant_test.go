package gategrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	apperrors "github.com/Ah-Riz/mythra-program/internal/errors"
)

func testConfig(t *testing.T) (Config, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	cfg := Config{
		Issuer:   "mythra",
		Audience: "gate",
		Key:      pub,
		Now:      func() time.Time { return time.Unix(1_000, 0) },
	}
	return cfg, priv
}

func TestValidateRoundTrip(t *testing.T) {
	t.Parallel()
	cfg, priv := testConfig(t)

	grant, err := Issue(priv, cfg, "event-1", "operator-1", "grant-1", time.Hour)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	claims, err := Validate(grant, Expectation{Event: "event-1", Operator: "operator-1"}, cfg)
	if err != nil {
		t.Fatalf("validate grant: %v", err)
	}
	if claims.Event != "event-1" || claims.Operator != "operator-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.JWTID != "grant-1" {
		t.Fatalf("jwt id = %q, want grant-1", claims.JWTID)
	}
}

func TestValidateRejectsMismatch(t *testing.T) {
	t.Parallel()
	cfg, priv := testConfig(t)

	grant, err := Issue(priv, cfg, "event-1", "operator-1", "grant-1", time.Hour)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	tests := []struct {
		name     string
		expected Expectation
	}{
		{"wrong event", Expectation{Event: "event-2", Operator: "operator-1"}},
		{"wrong operator", Expectation{Event: "event-1", Operator: "operator-2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(grant, tc.expected, cfg)
			if !apperrors.Is(err, apperrors.CodeGateGrantMismatch) {
				t.Fatalf("got %v, want %s", err, apperrors.CodeGateGrantMismatch)
			}
		})
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	t.Parallel()
	cfg, priv := testConfig(t)

	grant, err := Issue(priv, cfg, "event-1", "operator-1", "grant-1", time.Minute)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	cfg.Now = func() time.Time { return time.Unix(1_000+61, 0) }
	_, err = Validate(grant, Expectation{Event: "event-1", Operator: "operator-1"}, cfg)
	if !apperrors.Is(err, apperrors.CodeGateGrantExpired) {
		t.Fatalf("got %v, want %s", err, apperrors.CodeGateGrantExpired)
	}
}

func TestValidateRejectsWrongSigner(t *testing.T) {
	t.Parallel()
	cfg, _ := testConfig(t)
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	grant, err := Issue(otherPriv, cfg, "event-1", "operator-1", "grant-1", time.Hour)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	_, err = Validate(grant, Expectation{Event: "event-1", Operator: "operator-1"}, cfg)
	if !apperrors.Is(err, apperrors.CodeGateGrantInvalid) {
		t.Fatalf("got %v, want %s", err, apperrors.CodeGateGrantInvalid)
	}
}

func TestValidateRejectsEmptyGrant(t *testing.T) {
	t.Parallel()
	cfg, _ := testConfig(t)

	_, err := Validate("", Expectation{Event: "event-1", Operator: "operator-1"}, cfg)
	if !apperrors.Is(err, apperrors.CodeGateGrantInvalid) {
		t.Fatalf("got %v, want %s", err, apperrors.CodeGateGrantInvalid)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	t.Setenv("MYTHRA_GATE_GRANT_ISSUER", "mythra")
	t.Setenv("MYTHRA_GATE_GRANT_AUDIENCE", "gate")
	t.Setenv("MYTHRA_GATE_GRANT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(pub))

	cfg, err := LoadConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Issuer != "mythra" || cfg.Audience != "gate" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Key) != ed25519.PublicKeySize {
		t.Fatalf("key size = %d, want %d", len(cfg.Key), ed25519.PublicKeySize)
	}
}

func TestLoadConfigFromEnvMissingIssuer(t *testing.T) {
	t.Setenv("MYTHRA_GATE_GRANT_ISSUER", "")
	t.Setenv("MYTHRA_GATE_GRANT_AUDIENCE", "gate")
	t.Setenv("MYTHRA_GATE_GRANT_PUBLIC_KEY", "AAAA")

	if _, err := LoadConfigFromEnv(nil); err == nil {
		t.Fatal("expected error for missing issuer")
	}
}
