// Package pinning publishes the certificate metadata to the content-addressed
// storage network and returns the uri addressed by the content identifier.
//
// The Gateway doesn't keep the pinned data. The storage client is created
// per request with the access token from the Config.
package pinning

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	"github.com/ipfs/go-cid"
)

// JsonType is the media type of the pinned metadata file
const JsonType = "application/json"

var (
	// ErrMissingToken is returned when the storage network access token is not set.
	ErrMissingToken = errors.New("WEB3STORAGE_TOKEN missing: set it in the environment or in the vault")
	// ErrInvalidJSON is returned when the metadata is not a json.
	ErrInvalidJSON = errors.New("invalid json")
)

// PinningConfigurations are the default parameters of the pinning gateway.
// The token is required by the pin requests only.
var PinningConfigurations = configuration.DefaultConfig{
	Title: "Pinning",
	Parameters: map[string]interface{}{
		"WEB3STORAGE_TOKEN":    nil,
		"WEB3STORAGE_ENDPOINT": "https://api.web3.storage",
		"PIN_FILE_NAME":        "metadata.json",
	},
}

// Config of the gateway, created once at the startup.
type Config struct {
	Token    string // access token of the storage network
	Endpoint string // api url of the storage network
	FileName string // the name of the pinned file
}

// SecretResolver returns the secret parameter from the environment or the vault.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// NewConfig creates the gateway configuration.
// The missing token is not an error here, the pin requests will fail instead.
func NewConfig(ctx context.Context, config *configuration.Config, secrets SecretResolver) (Config, error) {
	config.SetDefaults(PinningConfigurations)

	token, err := secrets.Resolve(ctx, "WEB3STORAGE_TOKEN")
	if err != nil {
		return Config{}, fmt.Errorf("secrets.Resolve: %w", err)
	}

	return Config{
		Token:    token,
		Endpoint: config.GetString("WEB3STORAGE_ENDPOINT"),
		FileName: config.GetString("PIN_FILE_NAME"),
	}, nil
}

// File is the named content submitted to the storage network.
type File struct {
	Name    string
	Type    string // media type
	Content []byte
}

// Result of the pinning
type Result struct {
	Cid cid.Cid
	URI string
}

// Storage is the content-addressed storage network.
// Put submits the files as one directory and returns its content identifier.
type Storage interface {
	Put(ctx context.Context, files []File) (cid.Cid, error)
}

// ClientFactory returns the storage client configured with the access token.
type ClientFactory func(config Config) (Storage, error)

// Gateway pins the metadata
type Gateway struct {
	config    Config
	newClient ClientFactory
	logger    *log.Logger
}

// New gateway. The factory is called on every Pin.
func New(config Config, factory ClientFactory, parent *log.Logger) *Gateway {
	return &Gateway{
		config:    config,
		newClient: factory,
		logger:    parent.Child("pinning", "endpoint", config.Endpoint),
	}
}

// URI of the file in the directory with the given content identifier.
func URI(dir cid.Cid, name string) string {
	return fmt.Sprintf("ipfs://%s/%s", dir.String(), name)
}

// Pin the json body as the metadata file.
// The content identifier in the uri is the one returned by the storage network.
//
// The client is created before the body is read, so the missing token
// is reported for any body.
func (g *Gateway) Pin(ctx context.Context, body []byte) (*Result, error) {
	client, err := g.newClient(g.config)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	content, err := Serialize(body)
	if err != nil {
		return nil, err
	}

	file := File{
		Name:    g.config.FileName,
		Type:    JsonType,
		Content: content,
	}

	dir, err := client.Put(ctx, []File{file})
	if err != nil {
		return nil, fmt.Errorf("storage put: %w", err)
	}

	result := &Result{
		Cid: dir,
		URI: URI(dir, file.Name),
	}
	g.logger.Info("pinned", "cid", dir.String(), "size", len(content))

	return result, nil
}
