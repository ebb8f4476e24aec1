package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"arbbot/logger"
)

// keyringService is the fixed namespace under which the bot's API keys
// live in the OS keyring.
const keyringService = "arbbot"

// CredentialError reports that no API key could be found for a service
// in either the OS keyring or the environment. It is the only
// recoverable failure of the resolver; the caller decides whether to
// abort or skip the exchange.
type CredentialError struct {
	Service string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("API key for %q not found in keyring or environment", e.Service)
}

// GetAPIKey resolves the API key for the named service. The OS keyring
// is consulted first under the "arbbot" namespace; when it holds
// nothing, the environment variable named by the upper-cased service
// name is used. The first non-empty value wins. The resolved key is
// returned to the caller and is never logged or written to disk.
//
// An empty service name is a caller defect and panics. A keyring
// backend failure other than "not found" also panics: a broken platform
// store must not be mistaken for a missing key.
func GetAPIKey(service string) (string, error) {
	if service == "" {
		panic("credentials: service name must be non-empty")
	}

	log := logger.GetLogger().WithComponent("credentials")

	key, err := keyring.Get(keyringService, service)
	switch {
	case err == nil:
	case errors.Is(err, keyring.ErrNotFound), errors.Is(err, keyring.ErrUnsupportedPlatform):
		key = ""
	default:
		panic(fmt.Sprintf("credentials: keyring lookup for %q failed: %v", service, err))
	}

	if key != "" {
		logger.IncrementKeyringHit()
		log.WithFields(logger.Fields{"service": service, "source": "keyring"}).Debug("resolved API key")
		return key, nil
	}

	envVar := strings.ToUpper(service)
	if key = os.Getenv(envVar); key != "" {
		logger.IncrementEnvFallback()
		log.WithFields(logger.Fields{"service": service, "source": "env", "variable": envVar}).Debug("resolved API key")
		return key, nil
	}

	logger.IncrementCredentialMiss()
	return "", &CredentialError{Service: service}
}
