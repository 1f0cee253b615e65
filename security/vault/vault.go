// Package vault is the gateway between hashicorp vault and the soulbound commands.
// The secrets are kept in the key-value (version 2) engine.
package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	hashicorp "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
)

// ErrKeyNotFound is returned when the secret or its key doesn't exist in the vault.
var ErrKeyNotFound = errors.New("key not found in the vault")

// Vault is the wrapper around hashicorp vault client along with
// the key-value path where the secrets are stored.
type Vault struct {
	logger  *log.Logger
	client  *hashicorp.Client
	path    string // Key-Value engine mount path
	timeout time.Duration

	// connection parameters
	approleRoleId    string
	approleSecretId  string
	approleMountPath string
}

// VaultConfigurations are setting the default configuration parameters.
//
// The values are the default values if it wasn't provided by the user
// Set the default value to nil, if the parameter is required from the user
var VaultConfigurations = configuration.DefaultConfig{
	Title: "Vault",
	Parameters: map[string]interface{}{
		"VAULT_ENABLED":            false,
		"VAULT_HOST":               "localhost",
		"VAULT_PORT":               8200,
		"VAULT_HTTPS":              false,
		"VAULT_APPROLE_MOUNT_PATH": "approle",
		"VAULT_PATH":               "secret",
		"VAULT_SECRET_NAME":        "soulbound",
		"VAULT_TIMEOUT":            10,
		"VAULT_APPROLE_ROLE_ID":    nil,
		"VAULT_APPROLE_SECRET_ID":  nil,
	},
}

// Address of the vault server
func Address(config *configuration.Config) string {
	host := config.GetString("VAULT_HOST")
	port := config.GetString("VAULT_PORT")

	if config.GetBool("VAULT_HTTPS") {
		return fmt.Sprintf("https://%s:%s", host, port)
	}
	return fmt.Sprintf("http://%s:%s", host, port)
}

// New vault that's connected to the remote Hashicorp Vault.
// It logs in with the AppRole credentials.
//
// If you run the Vault in the dev mode, then path should be "secret".
func New(ctx context.Context, config *configuration.Config, parent *log.Logger) (*Vault, error) {
	if config == nil {
		return nil, errors.New("missing configuration")
	}
	// AppRole RoleID to log in to Vault
	if !config.Exist("VAULT_APPROLE_ROLE_ID") {
		return nil, fmt.Errorf("missing 'VAULT_APPROLE_ROLE_ID' environment variable")
	}
	// AppRole SecretID to log in to Vault
	if !config.Exist("VAULT_APPROLE_SECRET_ID") {
		return nil, fmt.Errorf("missing 'VAULT_APPROLE_SECRET_ID' environment variable")
	}
	if !config.Exist("VAULT_APPROLE_MOUNT_PATH") {
		return nil, fmt.Errorf("missing 'VAULT_APPROLE_MOUNT_PATH' environment variable")
	}

	hashicorpConfig := hashicorp.DefaultConfig()
	hashicorpConfig.Address = Address(config)

	client, err := hashicorp.NewClient(hashicorpConfig)
	if err != nil {
		return nil, fmt.Errorf("hashicorp.NewClient: %w", err)
	}

	vault := Vault{
		client:           client,
		logger:           parent.Child("vault", "address", hashicorpConfig.Address),
		path:             config.GetString("VAULT_PATH"),
		timeout:          time.Duration(config.GetUint64("VAULT_TIMEOUT")) * time.Second,
		approleMountPath: config.GetString("VAULT_APPROLE_MOUNT_PATH"),
		approleRoleId:    config.GetString("VAULT_APPROLE_ROLE_ID"),
		approleSecretId:  config.GetString("VAULT_APPROLE_SECRET_ID"),
	}

	loginCtx, cancel := vault.withTimeout(ctx)
	defer cancel()
	if err := vault.login(loginCtx); err != nil {
		return nil, fmt.Errorf("vault login error: %w", err)
	}

	return &vault, nil
}

func (v *Vault) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.timeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, v.timeout)
}

// A combination of a RoleID and a SecretID is required to log into Vault
// with AppRole authentication method.
//
// The client keeps the token for the later requests.
//
// ref: https://developer.hashicorp.com/vault/docs/auth/approle
func (v *Vault) login(ctx context.Context) error {
	v.logger.Info("Vault login: begin")

	approleSecretId := &approle.SecretID{
		FromString: v.approleSecretId,
	}

	appRoleAuth, err := approle.NewAppRoleAuth(
		v.approleRoleId,
		approleSecretId,
		approle.WithMountPath(v.approleMountPath),
	)
	if err != nil {
		return fmt.Errorf("unable to initialize approle authentication method: %w", err)
	}

	authInfo, err := v.client.Auth().Login(ctx, appRoleAuth)
	if err != nil {
		return fmt.Errorf("unable to login using approle auth method: %w", err)
	}
	if authInfo == nil {
		return fmt.Errorf("no approle info was returned after login")
	}

	v.logger.Info("Vault login: success!")

	return nil
}

// GetString returns the string value of the key in the secret.
//
// If the secret or the key doesn't exist, then returns ErrKeyNotFound.
func (v *Vault) GetString(ctx context.Context, secretName string, key string) (string, error) {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	secret, err := v.client.KVv2(v.path).Get(ctx, secretName)
	if errors.Is(err, hashicorp.ErrSecretNotFound) {
		return "", fmt.Errorf("secret %s: %w", secretName, ErrKeyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("vault.client.KVv2(%s).Get(%s): %w", v.path, secretName, err)
	}

	raw, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("secret %s key %s: %w", secretName, key, ErrKeyNotFound)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("secret %s key %s is %T, not a string", secretName, key, raw)
	}

	return value, nil
}
