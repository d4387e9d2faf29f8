package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvStore_Get(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("TEST_SECRET", "hunter2")
		v, err := EnvStore{}.Get("TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "hunter2", v)
	})

	t.Run("from mounted file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(path, []byte("hunter2\n"), 0o600))
		t.Setenv("TEST_SECRET_FILE", path)

		v, err := EnvStore{}.Get("TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "hunter2", v, "file contents should be trimmed")
	})

	t.Run("file takes precedence over env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))
		t.Setenv("TEST_SECRET_FILE", path)
		t.Setenv("TEST_SECRET", "from-env")

		v, err := EnvStore{}.Get("TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "from-file", v)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := EnvStore{}.Get("NO_SUCH_SECRET")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NO_SUCH_SECRET")
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Setenv("TEST_SECRET_FILE", filepath.Join(t.TempDir(), "missing"))
		_, err := EnvStore{}.Get("TEST_SECRET")
		require.Error(t, err)
	})
}
