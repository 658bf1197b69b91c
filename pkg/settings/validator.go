package settings

import (
	"regexp"
	"strings"

	"github.com/3leaps/gopurge/pkg/secretbox"
	"github.com/3leaps/gopurge/pkg/validation"
)

var (
	regionPattern       = regexp.MustCompile(`^[a-z]{2,3}-[a-z]+-\d+$`)
	distributionPattern = regexp.MustCompile(`^[A-Z0-9]{13,14}$`)
)

// Input is one admin submission. Pointer fields distinguish "absent" (nil,
// keep the stored value) from "present but empty". UseIAMRole follows
// checkbox semantics: a submission never carries an explicit off value, so
// absence of the checkbox means off, and the field is a plain bool.
type Input struct {
	UseIAMRole     bool
	AccessKey      *string
	SecretKey      *string
	Region         *string
	DistributionID *string

	// Paths is the raw newline-separated default path list, as submitted
	// from a textarea.
	Paths *string
}

// Validator validates and merges admin submissions into stored settings.
type Validator struct {
	box *secretbox.Box
}

// NewValidator creates a validator that encrypts submitted credentials with
// the given box.
func NewValidator(box *secretbox.Box) *Validator {
	return &Validator{box: box}
}

// Validate applies one submission on top of the current settings and
// returns the updated copy plus any field-level errors. It never fails
// outright: fields are processed independently, and a field that fails
// validation keeps its previously stored value. The caller decides whether
// to persist the result and how to surface the errors.
//
// secureChannel reports whether the submission arrived with transport
// confidentiality (HTTPS or equivalent). Raw credentials submitted over an
// insecure channel are refused outright and never touch the stored state.
func (v *Validator) Validate(current *Settings, in Input, secureChannel bool) (*Settings, []*validation.Error) {
	next := current.Clone()
	var errs []*validation.Error

	// Checkbox: absence means explicitly off, not "unchanged".
	if in.UseIAMRole {
		next.UseIAMRole = AmbientOn
	} else {
		next.UseIAMRole = "0"
	}

	errs = append(errs, v.applyCredentials(next, in, secureChannel)...)

	// Invariant: both ciphertext fields populated, or neither. A
	// half-configured pair is worse than none, so clear both sides.
	if (next.AccessKeyEnc == "") != (next.SecretKeyEnc == "") {
		next.AccessKeyEnc = ""
		next.SecretKeyEnc = ""
	}
	next.CredentialsStored = next.AccessKeyEnc != "" && next.SecretKeyEnc != ""

	if in.Region != nil {
		region := strings.ToLower(strings.TrimSpace(*in.Region))
		if region == "" || regionPattern.MatchString(region) {
			next.Region = region
		} else {
			errs = append(errs, validation.FieldErrorf(validation.CodeInvalidRegion, FieldRegion,
				"%q is not a valid region", region))
		}
	}

	if in.DistributionID != nil {
		id := strings.ToUpper(strings.TrimSpace(*in.DistributionID))
		if id == "" || distributionPattern.MatchString(id) {
			next.DistributionID = id
		} else {
			errs = append(errs, validation.FieldErrorf(validation.CodeInvalidDistributionID, FieldDistributionID,
				"%q is not a valid distribution ID", id))
		}
	}

	if in.Paths != nil {
		if err := applyPaths(next, *in.Paths); err != nil {
			errs = append(errs, err)
		}
	}

	return next, errs
}

// applyCredentials handles the raw credential fields. Blank means "keep the
// existing ciphertext", not "clear". Plaintext is never written anywhere.
func (v *Validator) applyCredentials(next *Settings, in Input, secureChannel bool) []*validation.Error {
	rawAccess := deref(in.AccessKey)
	rawSecret := deref(in.SecretKey)

	if rawAccess == "" && rawSecret == "" {
		return nil
	}

	if !secureChannel {
		// The gate fires on the raw values, before trimming: even a
		// whitespace-only field proves material crossed an insecure
		// channel. Existing ciphertext stays untouched.
		return []*validation.Error{validation.Errorf(validation.CodeHTTPSRequired,
			"credentials may only be submitted over a secure connection")}
	}

	if access := strings.TrimSpace(rawAccess); access != "" {
		if ct, err := v.box.Encrypt(access); err == nil {
			next.AccessKeyEnc = ct
		}
	}
	if secret := strings.TrimSpace(rawSecret); secret != "" {
		if ct, err := v.box.Encrypt(secret); err == nil {
			next.SecretKeyEnc = ct
		}
	}
	return nil
}

// applyPaths validates the default path list as a whole. Unlike request
// path sanitization, which auto-corrects a missing leading slash, a
// configured default list is rejected wholesale on the first bad line so
// the administrator sees exactly what to fix.
func applyPaths(next *Settings, raw string) *validation.Error {
	var paths []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}

	if len(paths) == 0 {
		return validation.FieldErrorf(validation.CodeEmptyPaths, FieldInvalidationPaths,
			"at least one invalidation path is required")
	}

	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return validation.FieldErrorf(validation.CodeInvalidPath, FieldInvalidationPaths,
				"path %q must start with /", p)
		}
	}

	next.InvalidationPaths = paths
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
