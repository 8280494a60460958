package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtasker/internal/cli"
	"subtasker/internal/config"
	"subtasker/internal/exitcode"
	"subtasker/internal/service"
	"subtasker/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeSuggester.
func testFactory(s *testutil.FakeSuggester) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Suggester, error) {
		return s, nil
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.KeyAPIKey, config.KeyPort, config.KeyTimeout, config.KeyLogFormat, config.KeyDebug} {
		t.Setenv(k, "")
	}
}

func TestRunner_ServesUntilCancelled(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.KeyPort, "0")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_API_KEY=k\n"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := testutil.NewFakeSuggester()
	runner := cli.NewRunner(testFactory(fake))
	addrCh := make(chan string, 1)
	runner.Ready = func(addr string) { addrCh <- addr }

	var errOut bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- runner.Run(ctx, dir, &errOut) }()

	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitcode.Success, code)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, errOut.String(), "Server running on http://localhost:0")
	assert.NotContains(t, errOut.String(), "Make sure")
}

func TestRunner_WarnsWhenKeyMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.KeyPort, "0")

	ctx, cancel := context.WithCancel(context.Background())
	runner := cli.NewRunner(testFactory(testutil.NewFakeSuggester()))
	runner.Ready = func(string) { cancel() }

	var errOut bytes.Buffer
	code := runner.Run(ctx, t.TempDir(), &errOut)

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, errOut.String(), "GEMINI_API_KEY")
}

func TestRunner_ConfigError(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.KeyTimeout, "soon")

	var errOut bytes.Buffer
	code := cli.NewRunner(testFactory(testutil.NewFakeSuggester())).Run(context.Background(), t.TempDir(), &errOut)

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Contains(t, errOut.String(), "error:")
}

func TestRunner_InvalidLogFormat(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.KeyLogFormat, "xml")

	var errOut bytes.Buffer
	code := cli.NewRunner(testFactory(testutil.NewFakeSuggester())).Run(context.Background(), t.TempDir(), &errOut)

	assert.Equal(t, exitcode.ConfigError, code)
}

func TestRunner_FactoryError(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.KeyPort, "0")

	factory := func(ctx context.Context, cfg *config.Config) (service.Suggester, error) {
		return nil, errors.New("no backend")
	}

	var errOut bytes.Buffer
	code := cli.NewRunner(factory).Run(context.Background(), t.TempDir(), &errOut)

	assert.Equal(t, exitcode.ServerError, code)
	assert.Contains(t, errOut.String(), "no backend")
}
