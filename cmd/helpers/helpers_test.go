package helpers

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlagsFromEnv(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	logLevel := fs.String("log-level", "info", "")
	timeout := fs.Duration("wait-timeout", time.Minute, "")
	dialect := fs.String("dialect", "redshift", "")
	require.NoError(t, fs.Parse([]string{"--dialect", "postgres"}))

	os.Setenv("DWHTEST_LOG_LEVEL", "debug")
	os.Setenv("DWHTEST_WAIT_TIMEOUT", "90s")
	os.Setenv("DWHTEST_DIALECT", "redshift")
	defer func() {
		os.Unsetenv("DWHTEST_LOG_LEVEL")
		os.Unsetenv("DWHTEST_WAIT_TIMEOUT")
		os.Unsetenv("DWHTEST_DIALECT")
	}()

	require.NoError(t, SetFlagsFromEnv(fs, "DWHTEST"))
	assert.Equal(t, "debug", *logLevel)
	assert.Equal(t, 90*time.Second, *timeout)
	// flags set on the command line win
	assert.Equal(t, "postgres", *dialect)

	os.Setenv("DWHTEST_WAIT_TIMEOUT", "soon")
	assert.EqualError(t, SetFlagsFromEnv(fs, "DWHTEST"), `invalid value "soon" for DWHTEST_WAIT_TIMEOUT: time: invalid duration "soon"`)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "DWH_METRICS_LISTEN", EnvKey("DWH", "metrics-listen"))
}

func TestSetupLogger(t *testing.T) {
	logger, err := SetupLogger("warn", nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = SetupLogger("loud", nil)
	assert.EqualError(t, err, "invalid log level: loud")
}

func TestLoadDotEnv(t *testing.T) {
	dir, err := ioutil.TempDir("", "dwh-dotenv")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, ".env")
	require.NoError(t, ioutil.WriteFile(path, []byte("DWHTEST_DOTENV=from-file\n"), 0600))
	defer os.Unsetenv("DWHTEST_DOTENV")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("DWHTEST_DOTENV"))
}
