package pinning

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"testing"

	"github.com/blocklords/soulbound/log"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/suite"
)

var uriPattern = regexp.MustCompile(`^ipfs://[^/]+/metadata\.json$`)

// fakeStorage assigns the raw sha2-256 content identifier to the submitted bytes
type fakeStorage struct {
	mu    sync.Mutex
	files [][]File
	err   error
}

func (s *fakeStorage) Put(_ context.Context, files []File) (cid.Cid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return cid.Undef, s.err
	}
	s.files = append(s.files, files)

	prefix := cid.Prefix{Version: 1, Codec: cid.Raw, MhType: 0x12, MhLength: -1}
	return prefix.Sum(files[0].Content)
}

func (s *fakeStorage) factory(config Config) (Storage, error) {
	if config.Token == "" {
		return nil, ErrMissingToken
	}
	return s, nil
}

// Define the suite, and absorb the built-in basic suite
// functionality from testify - including a T() method which
// returns the current testing context
type TestGatewaySuite struct {
	suite.Suite
	logger  *log.Logger
	storage *fakeStorage
	gateway *Gateway
}

func (suite *TestGatewaySuite) SetupTest() {
	logger, err := log.New("test_suite", false)
	suite.Require().NoError(err)
	suite.logger = logger

	suite.storage = &fakeStorage{}
	config := Config{Token: "secret-token", Endpoint: "http://localhost", FileName: "metadata.json"}
	suite.gateway = New(config, suite.storage.factory, logger)
}

func (suite *TestGatewaySuite) TestPin() {
	result, err := suite.gateway.Pin(context.Background(), []byte(`{"name":"cert-1"}`))
	suite.Require().NoError(err)
	suite.Regexp(uriPattern, result.URI)

	suite.Require().Len(suite.storage.files, 1)
	suite.Require().Len(suite.storage.files[0], 1)
	file := suite.storage.files[0][0]
	suite.Equal("metadata.json", file.Name)
	suite.Equal("application/json", file.Type)
	suite.Equal(`{"name":"cert-1"}`, string(file.Content))

	// the uri uses the identifier returned by the storage
	expected, err := cid.Prefix{Version: 1, Codec: cid.Raw, MhType: 0x12, MhLength: -1}.Sum(file.Content)
	suite.Require().NoError(err)
	suite.Equal(expected, result.Cid)
	suite.Equal("ipfs://"+expected.String()+"/metadata.json", result.URI)
}

func (suite *TestGatewaySuite) TestSerializedBody() {
	body := []byte("{\n  \"name\": \"cert 1\",\n  \"attributes\": [ {\"trait_type\": \"grade\", \"value\": 1.50} ],\n  \"a\": \"<b>\"\n}")
	_, err := suite.gateway.Pin(context.Background(), body)
	suite.Require().NoError(err)

	// spaces removed, the order of keys is kept, the number is in the shortest form
	expected := `{"name":"cert 1","attributes":[{"trait_type":"grade","value":1.5}],"a":"<b>"}`
	suite.Equal(expected, string(suite.storage.files[0][0].Content))
}

func (suite *TestGatewaySuite) TestNonCanonicalBody() {
	body := []byte(`{"v":1.50,"e":1e2,"s":"\u0041","a":1,"a":2}`)
	_, err := suite.gateway.Pin(context.Background(), body)
	suite.Require().NoError(err)

	suite.Equal(`{"v":1.5,"e":100,"s":"A","a":2}`, string(suite.storage.files[0][0].Content))
}

func (suite *TestGatewaySuite) TestAnyJsonValue() {
	for _, body := range []string{`[1,2,3]`, `"certificate"`, `42`, `null`, `true`} {
		result, err := suite.gateway.Pin(context.Background(), []byte(body))
		suite.Require().NoError(err, body)
		suite.Regexp(uriPattern, result.URI)
	}
}

func (suite *TestGatewaySuite) TestInvalidJson() {
	for _, body := range []string{``, `{`, `{"name":}`, `{"a":1} {"b":2}`} {
		_, err := suite.gateway.Pin(context.Background(), []byte(body))
		suite.Require().ErrorIs(err, ErrInvalidJSON, body)
	}
	suite.Empty(suite.storage.files)
}

func (suite *TestGatewaySuite) TestMissingToken() {
	gateway := New(Config{FileName: "metadata.json"}, suite.storage.factory, suite.logger)

	for _, body := range []string{`{"name":"cert-1"}`, `{`, ``} {
		_, err := gateway.Pin(context.Background(), []byte(body))
		suite.Require().ErrorIs(err, ErrMissingToken, body)
	}
	suite.Empty(suite.storage.files)
}

func (suite *TestGatewaySuite) TestStorageError() {
	suite.storage.err = errors.New("quota exceeded")

	_, err := suite.gateway.Pin(context.Background(), []byte(`{"name":"cert-1"}`))
	suite.Require().ErrorContains(err, "quota exceeded")
}

func (suite *TestGatewaySuite) TestConcurrentPins() {
	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := suite.gateway.Pin(context.Background(), []byte(`{"id":`+strconv.Itoa(i)+`}`))
			if err == nil {
				results[i] = result
			}
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		suite.Require().NotNil(result, i)
		suite.Regexp(uriPattern, result.URI)
	}
	suite.Len(suite.storage.files, len(results))
}

func (suite *TestGatewaySuite) TestURI() {
	dir, err := cid.Decode("bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi")
	suite.Require().NoError(err)
	suite.Equal("ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi/metadata.json", URI(dir, "metadata.json"))
}

func TestGateway(t *testing.T) {
	suite.Run(t, new(TestGatewaySuite))
}
