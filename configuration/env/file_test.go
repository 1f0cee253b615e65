package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

// Define the suite, and absorb the built-in basic suite
// functionality from testify - including a T() method which
// returns the current testing context
type TestEnvSuite struct {
	suite.Suite
	envPath string
}

func (suite *TestEnvSuite) SetupTest() {
	suite.envPath = filepath.Join(suite.T().TempDir(), ".test.env")

	err := os.WriteFile(suite.envPath, []byte("SOULBOUND_TEST_ENV_VALUE=from_file\n"), 0644)
	suite.Require().NoError(err, "failed to write the data into: "+suite.envPath)
}

func (suite *TestEnvSuite) TestLoad() {
	suite.T().Setenv("SOULBOUND_TEST_ENV_VALUE", "")
	suite.Require().NoError(os.Unsetenv("SOULBOUND_TEST_ENV_VALUE"))

	err := LoadAnyEnv([]string{suite.envPath})
	suite.Require().NoError(err)
	suite.Equal("from_file", os.Getenv("SOULBOUND_TEST_ENV_VALUE"))
}

func (suite *TestEnvSuite) TestEnvironmentWins() {
	suite.T().Setenv("SOULBOUND_TEST_ENV_VALUE", "from_env")

	err := LoadAnyEnv([]string{suite.envPath})
	suite.Require().NoError(err)
	suite.Equal("from_env", os.Getenv("SOULBOUND_TEST_ENV_VALUE"))
}

func (suite *TestEnvSuite) TestMissingFile() {
	err := LoadAnyEnv([]string{filepath.Join(suite.T().TempDir(), "not_exist.env")})
	suite.Require().Error(err)
}

func (suite *TestEnvSuite) TestNothingToLoad() {
	suite.Require().NoError(LoadAnyEnv(nil))
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestEnv(t *testing.T) {
	suite.Run(t, new(TestEnvSuite))
}
