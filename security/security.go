// The security package resolves the secret parameters of the app:
// the storage network token and the deployer's private key.
//
// A secret is taken from the environment first.
// If it's missing there and the vault is enabled with VAULT_ENABLED,
// then the secret is fetched from the vault.
package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	"github.com/blocklords/soulbound/security/vault"
)

// Security handles the secret sources.
type Security struct {
	config     *configuration.Config
	logger     *log.Logger
	vault      *vault.Vault // nil if vault is disabled
	secretName string
}

// New security with the given configuration.
// If the vault is enabled, it logs in to the vault.
func New(ctx context.Context, config *configuration.Config, parent *log.Logger) (*Security, error) {
	config.SetDefaults(vault.VaultConfigurations)

	s := &Security{
		config:     config,
		logger:     parent.Child("security"),
		secretName: config.GetString("VAULT_SECRET_NAME"),
	}

	if !config.GetBool("VAULT_ENABLED") {
		s.logger.Info("Vault is disabled, secrets are read from the environment only")
		return s, nil
	}

	v, err := vault.New(ctx, config, s.logger)
	if err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}
	s.vault = v

	return s, nil
}

// Resolve returns the secret parameter.
//
// The empty string is returned without an error if the secret is set nowhere.
// The caller decides whether the missing secret is an error.
func (s *Security) Resolve(ctx context.Context, name string) (string, error) {
	if s.config.Exist(name) {
		return s.config.GetString(name), nil
	}
	if s.vault == nil {
		return "", nil
	}

	value, err := s.vault.GetString(ctx, s.secretName, name)
	if errors.Is(err, vault.ErrKeyNotFound) {
		s.logger.Warn("secret not found in the vault", "name", name, "secret", s.secretName)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("vault.GetString(%s): %w", name, err)
	}

	return value, nil
}
