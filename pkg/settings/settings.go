// Package settings holds the persisted configuration for the invalidation
// core: the ambient-credential toggle, encrypted API credentials, region,
// distribution ID, and the default invalidation path list.
//
// Field names match the legacy storage schema exactly so existing settings
// blobs keep working when migrated to this implementation.
package settings

import (
	"github.com/go-viper/mapstructure/v2"
)

// Persisted field names. These are wire/storage names; do not rename.
const (
	FieldUseIAMRole        = "use_iam_role"
	FieldAccessKeyEnc      = "aws_access_key_enc"
	FieldSecretKeyEnc      = "aws_secret_key_enc"
	FieldCredentialsStored = "credentials_stored"
	FieldRegion            = "aws_region"
	FieldDistributionID    = "distribution_id"
	FieldInvalidationPaths = "invalidation_paths"

	// Legacy plaintext credential fields, present only in blobs written
	// before encryption-at-rest. Read once during migration, never written.
	FieldLegacyAccessKey = "aws_access_key"
	FieldLegacySecretKey = "aws_secret_key"
)

// AmbientOn is the canonical "on" value for the ambient-credential toggle.
// Any other value, including absence, means off.
const AmbientOn = "1"

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// Settings is the persisted configuration. Instances are value snapshots:
// validation and migration return updated copies, and persistence is a
// separate collaborator (Store). Nothing here holds shared mutable state.
type Settings struct {
	UseIAMRole        string   `json:"use_iam_role" yaml:"use_iam_role" mapstructure:"use_iam_role"`
	AccessKeyEnc      string   `json:"aws_access_key_enc,omitempty" yaml:"aws_access_key_enc,omitempty" mapstructure:"aws_access_key_enc"`
	SecretKeyEnc      string   `json:"aws_secret_key_enc,omitempty" yaml:"aws_secret_key_enc,omitempty" mapstructure:"aws_secret_key_enc"`
	CredentialsStored bool     `json:"credentials_stored" yaml:"credentials_stored" mapstructure:"credentials_stored"`
	Region            string   `json:"aws_region" yaml:"aws_region" mapstructure:"aws_region"`
	DistributionID    string   `json:"distribution_id,omitempty" yaml:"distribution_id,omitempty" mapstructure:"distribution_id"`
	InvalidationPaths []string `json:"invalidation_paths" yaml:"invalidation_paths" mapstructure:"invalidation_paths"`

	// Legacy plaintext fields. Cleared by MigrateLegacy.
	LegacyAccessKey string `json:"aws_access_key,omitempty" yaml:"aws_access_key,omitempty" mapstructure:"aws_access_key"`
	LegacySecretKey string `json:"aws_secret_key,omitempty" yaml:"aws_secret_key,omitempty" mapstructure:"aws_secret_key"`
}

// Default returns the configuration used before an administrator has saved
// anything.
func Default() *Settings {
	return &Settings{
		UseIAMRole:        "0",
		Region:            DefaultRegion,
		InvalidationPaths: []string{"/*"},
	}
}

// Clone returns a deep copy. Validation mutates the copy, never the input.
func (s *Settings) Clone() *Settings {
	out := *s
	if s.InvalidationPaths != nil {
		out.InvalidationPaths = append([]string(nil), s.InvalidationPaths...)
	}
	return &out
}

// AmbientMode reports whether the ambient-credential toggle is set to its
// canonical "on" value.
func (s *Settings) AmbientMode() bool {
	return s.UseIAMRole == AmbientOn
}

// EffectiveRegion returns the configured region, or the default when the
// stored value is empty.
func (s *Settings) EffectiveRegion() string {
	if s.Region == "" {
		return DefaultRegion
	}
	return s.Region
}

// FromMap decodes a raw settings blob into a typed Settings. Decoding is
// weakly typed because legacy stores kept booleans as "1"/"" strings and
// path lists as single strings.
func FromMap(raw map[string]any) (*Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return &s, nil
}
