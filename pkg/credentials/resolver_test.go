package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gopurge/pkg/secretbox"
	"github.com/3leaps/gopurge/pkg/settings"
)

func mapLookup(m map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestResolveValuePrecedence(t *testing.T) {
	box := secretbox.New("test-salt")
	stored, err := box.Encrypt("from-store")
	require.NoError(t, err)

	tests := []struct {
		name       string
		overrides  map[string]string
		env        map[string]string
		ciphertext string
		want       string
		wantOK     bool
	}{
		{
			name:       "override beats env and store",
			overrides:  map[string]string{OverrideAccessKey: "from-override"},
			env:        map[string]string{EnvAccessKey: "from-env"},
			ciphertext: stored,
			want:       "from-override",
			wantOK:     true,
		},
		{
			name:       "env beats store",
			env:        map[string]string{EnvAccessKey: "from-env"},
			ciphertext: stored,
			want:       "from-env",
			wantOK:     true,
		},
		{
			name:       "store is the last tier",
			ciphertext: stored,
			want:       "from-store",
			wantOK:     true,
		},
		{
			name:       "empty override falls through to env",
			overrides:  map[string]string{OverrideAccessKey: ""},
			env:        map[string]string{EnvAccessKey: "from-env"},
			ciphertext: stored,
			want:       "from-env",
			wantOK:     true,
		},
		{
			name:       "empty env falls through to store",
			env:        map[string]string{EnvAccessKey: ""},
			ciphertext: stored,
			want:       "from-store",
			wantOK:     true,
		},
		{
			name:   "all tiers empty resolves absent",
			wantOK: false,
		},
		{
			name:       "undecryptable ciphertext resolves absent",
			ciphertext: "not-a-payload",
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(box,
				WithOverrides(mapLookup(tt.overrides)),
				WithEnv(mapLookup(tt.env)),
			)
			got, ok := r.ResolveValue(OverrideAccessKey, EnvAccessKey, tt.ciphertext)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCredentials(t *testing.T) {
	box := secretbox.New("test-salt")
	accessEnc, err := box.Encrypt("AKIASTOREDKEY0001")
	require.NoError(t, err)
	secretEnc, err := box.Encrypt("stored-secret")
	require.NoError(t, err)

	t.Run("both stored values resolve", func(t *testing.T) {
		r := NewResolver(box, WithEnv(mapLookup(nil)))
		s := &settings.Settings{AccessKeyEnc: accessEnc, SecretKeyEnc: secretEnc}

		got, ok := r.ResolveCredentials(s)
		require.True(t, ok)
		assert.Equal(t, "AKIASTOREDKEY0001", got.AccessKeyID)
		assert.Equal(t, "stored-secret", got.SecretAccessKey)
	})

	t.Run("partial pair resolves absent", func(t *testing.T) {
		r := NewResolver(box, WithEnv(mapLookup(nil)))
		s := &settings.Settings{AccessKeyEnc: accessEnc}

		got, ok := r.ResolveCredentials(s)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("tiers mix per component", func(t *testing.T) {
		r := NewResolver(box, WithEnv(mapLookup(map[string]string{
			EnvAccessKey: "AKIAENVKEY00000002",
		})))
		s := &settings.Settings{AccessKeyEnc: accessEnc, SecretKeyEnc: secretEnc}

		got, ok := r.ResolveCredentials(s)
		require.True(t, ok)
		assert.Equal(t, "AKIAENVKEY00000002", got.AccessKeyID)
		assert.Equal(t, "stored-secret", got.SecretAccessKey)
	})

	t.Run("undecryptable secret drops the whole pair", func(t *testing.T) {
		r := NewResolver(box, WithEnv(mapLookup(nil)))
		s := &settings.Settings{AccessKeyEnc: accessEnc, SecretKeyEnc: "garbage"}

		_, ok := r.ResolveCredentials(s)
		assert.False(t, ok)
	})
}

func TestIsAmbientMode(t *testing.T) {
	r := NewResolver(secretbox.New("test-salt"))

	assert.True(t, r.IsAmbientMode(&settings.Settings{UseIAMRole: settings.AmbientOn}))
	assert.False(t, r.IsAmbientMode(&settings.Settings{UseIAMRole: "0"}))
	assert.False(t, r.IsAmbientMode(&settings.Settings{}))
}
