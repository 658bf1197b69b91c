package settings

import "github.com/3leaps/gopurge/pkg/secretbox"

// MigrateLegacy encrypts any plaintext credential fields left over from a
// pre-encryption settings blob, writes them into the ciphertext fields, and
// clears the plaintext. Reports whether anything changed; callers that own
// persistence should save immediately when it did.
//
// A plaintext field never survives migration: even if encryption fails the
// plaintext is dropped rather than kept around.
func MigrateLegacy(s *Settings, box *secretbox.Box) bool {
	migrated := false

	if s.LegacyAccessKey != "" {
		if ct, err := box.Encrypt(s.LegacyAccessKey); err == nil {
			s.AccessKeyEnc = ct
		}
		s.LegacyAccessKey = ""
		migrated = true
	}

	if s.LegacySecretKey != "" {
		if ct, err := box.Encrypt(s.LegacySecretKey); err == nil {
			s.SecretKeyEnc = ct
		}
		s.LegacySecretKey = ""
		migrated = true
	}

	if migrated {
		s.CredentialsStored = s.AccessKeyEnc != "" && s.SecretKeyEnc != ""
	}

	return migrated
}
