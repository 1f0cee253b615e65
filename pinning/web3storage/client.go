// Package web3storage is the client of the web3.storage upload api.
//
// The files are uploaded as multipart form. The storage network wraps
// them into a directory, and returns the directory's content identifier.
package web3storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/blocklords/soulbound/pinning"
	"github.com/ipfs/go-cid"
)

// ClientName is sent in X-Client header
const ClientName = "soulbound"

// APIError is the error replied by the storage network.
type APIError struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("web3.storage replied %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Name == "" {
		return fmt.Sprintf("web3.storage replied %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("web3.storage replied %d %s: %s", e.StatusCode, e.Name, e.Message)
}

type uploadReply struct {
	Cid string `json:"cid"`
}

// Client uploads the files with the access token.
type Client struct {
	token    string
	endpoint *url.URL
	http     *http.Client
}

// New client of the storage network.
// If httpClient is nil, then http.DefaultClient is used.
func New(token string, endpoint string, httpClient *http.Client) (*Client, error) {
	if token == "" {
		return nil, pinning.ErrMissingToken
	}

	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' endpoint: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid '%s' endpoint protocol. Expected either 'http' or 'https'. But given '%s'", endpoint, u.Scheme)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		token:    token,
		endpoint: u,
		http:     httpClient,
	}, nil
}

// NewFromConfig is the pinning.ClientFactory.
func NewFromConfig(config pinning.Config) (pinning.Storage, error) {
	return New(config.Token, config.Endpoint, nil)
}

func (c *Client) uploadUrl() string {
	return strings.TrimSuffix(c.endpoint.String(), "/") + "/upload"
}

// encode the files as multipart/form-data, each file in its own "file" part
func encode(files []pinning.File) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, file.Name))
		header.Set("Content-Type", file.Type)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("writer.CreatePart(%s): %w", file.Name, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("part.Write(%s): %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("writer.Close: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// Put uploads the files and returns the content identifier assigned by the storage network.
func (c *Client) Put(ctx context.Context, files []pinning.File) (cid.Cid, error) {
	if len(files) == 0 {
		return cid.Undef, fmt.Errorf("no files to upload")
	}

	body, contentType, err := encode(files)
	if err != nil {
		return cid.Undef, fmt.Errorf("encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadUrl(), body)
	if err != nil {
		return cid.Undef, fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client", ClientName)

	resp, err := c.http.Do(req)
	if err != nil {
		return cid.Undef, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return cid.Undef, fmt.Errorf("read upload reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return cid.Undef, apiErr
	}

	var reply uploadReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return cid.Undef, fmt.Errorf("decode upload reply: %w", err)
	}

	dir, err := cid.Decode(reply.Cid)
	if err != nil {
		return cid.Undef, fmt.Errorf("invalid cid '%s' in the upload reply: %w", reply.Cid, err)
	}

	return dir, nil
}
