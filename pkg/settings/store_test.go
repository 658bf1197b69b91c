package settings

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gopurge/pkg/secretbox"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, ext := range []string{"json", "yaml"} {
		t.Run(ext, func(t *testing.T) {
			fs := NewFileStore(filepath.Join(t.TempDir(), "settings."+ext))

			s := Default()
			s.UseIAMRole = AmbientOn
			s.Region = "eu-west-1"
			s.DistributionID = "E1A2B3C4D5E6F"
			s.InvalidationPaths = []string{"/blog/*", "/images/*"}

			require.NoError(t, fs.Save(s))

			got, err := fs.Load()
			require.NoError(t, err)
			assert.Equal(t, s, got)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	fs := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, fs.Save(Default()))

	info, err := os.Stat(fs.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nested", "deeper", "settings.json"))
	require.NoError(t, fs.Save(Default()))

	_, err := fs.Load()
	assert.NoError(t, err)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings file")
}

func TestFileStoreWeaklyTypedBlob(t *testing.T) {
	// Legacy blobs store the toggle as a bare number and the path list as a
	// single string.
	path := filepath.Join(t.TempDir(), "settings.json")
	blob := `{
  "use_iam_role": 1,
  "aws_region": "us-east-1",
  "invalidation_paths": "/*"
}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, AmbientOn, got.UseIAMRole)
	assert.True(t, got.AmbientMode())
	assert.Equal(t, []string{"/*"}, got.InvalidationPaths)
}

func TestFileStoreLegacyMigration(t *testing.T) {
	box := secretbox.New("test-salt")
	path := filepath.Join(t.TempDir(), "settings.json")
	blob := `{
  "use_iam_role": "0",
  "aws_access_key": "AKIALEGACYKEY0001",
  "aws_secret_key": "legacy-secret",
  "aws_region": "us-east-1",
  "invalidation_paths": ["/*"]
}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	fs := NewFileStore(path, WithLegacyMigration(box))

	got, err := fs.Load()
	require.NoError(t, err)

	assert.Empty(t, got.LegacyAccessKey)
	assert.Empty(t, got.LegacySecretKey)
	assert.True(t, got.CredentialsStored)

	access, err := box.Decrypt(got.AccessKeyEnc)
	require.NoError(t, err)
	assert.Equal(t, "AKIALEGACYKEY0001", access)

	// The migration is persisted: the plaintext is gone from disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "AKIALEGACYKEY0001")
	assert.NotContains(t, string(data), "legacy-secret")
	assert.NotContains(t, string(data), `"aws_access_key"`)

	// A second load finds nothing left to migrate.
	again, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFileStoreLoadWithoutMigrationKeepsPlaintextFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	blob := `{"aws_access_key": "AKIALEGACYKEY0001", "aws_secret_key": "legacy-secret"}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "AKIALEGACYKEY0001", got.LegacyAccessKey)
	assert.Empty(t, got.AccessKeyEnc)
}
