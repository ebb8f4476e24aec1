package credentials

import (
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestGetAPIKeyKeyringPreferred(t *testing.T) {
	keyring.MockInit()
	if err := keyring.Set(keyringService, "coinbase", "keyring-secret"); err != nil {
		t.Fatalf("seed keyring: %v", err)
	}
	t.Setenv("COINBASE", "env-secret")

	key, err := GetAPIKey("coinbase")
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "keyring-secret" {
		t.Errorf("keyring value should win over environment, got %q", key)
	}
}

func TestGetAPIKeyEnvFallback(t *testing.T) {
	keyring.MockInit()
	t.Setenv("KRAKEN", "env-secret")

	key, err := GetAPIKey("kraken")
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "env-secret" {
		t.Errorf("unexpected key from environment: %q", key)
	}
}

func TestGetAPIKeyMissingEverywhere(t *testing.T) {
	keyring.MockInit()
	t.Setenv("KRAKEN", "")

	_, err := GetAPIKey("kraken")
	var cerr *CredentialError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CredentialError, got %v", err)
	}
	if !strings.Contains(cerr.Error(), "kraken") {
		t.Errorf("error should name the service: %v", cerr)
	}
	if cerr.Service != "kraken" {
		t.Errorf("unexpected service on error: %q", cerr.Service)
	}
}

func TestGetAPIKeyEmptyKeyringValueFallsBack(t *testing.T) {
	keyring.MockInit()
	if err := keyring.Set(keyringService, "kraken", ""); err != nil {
		t.Fatalf("seed keyring: %v", err)
	}
	t.Setenv("KRAKEN", "env-secret")

	key, err := GetAPIKey("kraken")
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "env-secret" {
		t.Errorf("empty keyring entry should fall back to environment, got %q", key)
	}
}

func TestGetAPIKeyEmptyServicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty service name")
		}
	}()
	GetAPIKey("")
}
