package security

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	"github.com/stretchr/testify/suite"
)

// Define the suite, and absorb the built-in basic suite
// functionality from testify - including a T() method which
// returns the current testing context
type TestSecuritySuite struct {
	suite.Suite
	logger *log.Logger
	server *httptest.Server
	logins int
}

// vault stub with approle login and a key-value v2 secret
func (suite *TestSecuritySuite) SetupTest() {
	logger, err := log.New("test_suite", false)
	suite.Require().NoError(err)
	suite.logger = logger
	suite.logins = 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/approle/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil || body["role_id"] != "role" || body["secret_id"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":["invalid role or secret id"]}`))
			return
		}
		suite.logins++
		_, _ = w.Write([]byte(`{"auth":{"client_token":"test-token","accessor":"accessor","policies":["default"],"lease_duration":3600,"renewable":true}}`))
	})
	mux.HandleFunc("/v1/secret/data/soulbound", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"data":{"WEB3STORAGE_TOKEN":"token-from-vault"},"metadata":{"created_time":"2023-05-01T10:00:00Z","custom_metadata":null,"deletion_time":"","destroyed":false,"version":1}}}`))
	})
	suite.server = httptest.NewServer(mux)

	address, err := url.Parse(suite.server.URL)
	suite.Require().NoError(err)

	suite.T().Setenv("VAULT_HOST", address.Hostname())
	suite.T().Setenv("VAULT_PORT", address.Port())
	suite.T().Setenv("VAULT_APPROLE_ROLE_ID", "role")
	suite.T().Setenv("VAULT_APPROLE_SECRET_ID", "secret")
}

func (suite *TestSecuritySuite) TearDownTest() {
	suite.server.Close()
}

func (suite *TestSecuritySuite) newSecurity(enabled string) *Security {
	suite.T().Setenv("VAULT_ENABLED", enabled)

	config, err := configuration.New(suite.logger, nil)
	suite.Require().NoError(err)

	s, err := New(context.Background(), config, suite.logger)
	suite.Require().NoError(err)
	return s
}

func (suite *TestSecuritySuite) TestVaultDisabled() {
	s := suite.newSecurity("false")
	suite.Require().Equal(0, suite.logins)

	value, err := s.Resolve(context.Background(), "SOULBOUND_TEST_NOT_SET")
	suite.Require().NoError(err)
	suite.Empty(value)
}

func (suite *TestSecuritySuite) TestEnvironmentFirst() {
	suite.T().Setenv("WEB3STORAGE_TOKEN", "token-from-env")
	s := suite.newSecurity("true")

	value, err := s.Resolve(context.Background(), "WEB3STORAGE_TOKEN")
	suite.Require().NoError(err)
	suite.Equal("token-from-env", value)
}

func (suite *TestSecuritySuite) TestVault() {
	suite.T().Setenv("WEB3STORAGE_TOKEN", "")
	suite.T().Setenv("PRIVATE_KEY", "")
	s := suite.newSecurity("true")
	suite.Require().Equal(1, suite.logins)

	value, err := s.Resolve(context.Background(), "WEB3STORAGE_TOKEN")
	suite.Require().NoError(err)
	suite.Equal("token-from-vault", value)

	// the key is not in the secret
	value, err = s.Resolve(context.Background(), "PRIVATE_KEY")
	suite.Require().NoError(err)
	suite.Empty(value)
}

func (suite *TestSecuritySuite) TestInvalidLogin() {
	suite.T().Setenv("VAULT_ENABLED", "true")
	suite.T().Setenv("VAULT_APPROLE_SECRET_ID", "wrong")

	config, err := configuration.New(suite.logger, nil)
	suite.Require().NoError(err)

	_, err = New(context.Background(), config, suite.logger)
	suite.Require().Error(err)
}

func TestSecurity(t *testing.T) {
	suite.Run(t, new(TestSecuritySuite))
}
