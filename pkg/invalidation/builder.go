// Package invalidation assembles ready-to-submit cache invalidation
// requests: resolved auth mode, target distribution, sanitized paths, and a
// unique caller reference. It performs no network I/O; submission belongs
// to the transport layer.
package invalidation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/3leaps/gopurge/pkg/credentials"
	"github.com/3leaps/gopurge/pkg/settings"
	"github.com/3leaps/gopurge/pkg/validation"
)

// AuthMode selects how the transport authenticates a request.
type AuthMode string

const (
	// AuthAmbient uses the infrastructure-assigned identity (the SDK
	// default chain). No explicit secret material is attached.
	AuthAmbient AuthMode = "ambient"

	// AuthExplicit attaches resolved static credentials.
	AuthExplicit AuthMode = "explicit"
)

// callerRefPrefix is the fixed prefix on every generated caller reference.
const callerRefPrefix = "gopurge"

// Request is an immutable, ready-to-submit invalidation request.
type Request struct {
	DistributionID string
	Paths          []string

	// CallerReference is the uniqueness marker the remote API uses for
	// idempotency bookkeeping. Unique across near-simultaneous calls;
	// advisory, not cryptographically guaranteed.
	CallerReference string

	AuthMode AuthMode

	// Credentials is set only for AuthExplicit.
	Credentials *credentials.Resolved
}

// Builder builds invalidation requests from raw trigger-supplied paths.
type Builder struct {
	resolver *credentials.Resolver
	notifier Notifier
}

// NewBuilder creates a builder. A nil notifier disables lifecycle signals.
func NewBuilder(resolver *credentials.Resolver, notifier Notifier) *Builder {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Builder{resolver: resolver, notifier: notifier}
}

// Build assembles a request for the given distribution from raw candidate
// paths, using the supplied settings snapshot for auth resolution.
//
// An empty distribution ID fails before path validation runs. Path
// sanitization failures are propagated verbatim. Missing explicit
// credentials are not an error: the request falls back to ambient mode and
// the transport's default credential chain covers the gap.
//
// On success the "request built" signal is emitted before returning; the
// caller reports submission failures via ReportFailure.
func (b *Builder) Build(s *settings.Settings, distributionID string, rawPaths []any) (*Request, *validation.Error) {
	if distributionID == "" {
		return nil, validation.Errorf(validation.CodeMissingDistribution, "no distribution ID configured")
	}

	paths, verr := validation.SanitizePaths(rawPaths)
	if verr != nil {
		return nil, verr
	}

	req := &Request{
		DistributionID:  distributionID,
		Paths:           paths,
		CallerReference: newCallerReference(),
		AuthMode:        AuthAmbient,
	}

	if !b.resolver.IsAmbientMode(s) {
		if creds, ok := b.resolver.ResolveCredentials(s); ok {
			req.AuthMode = AuthExplicit
			req.Credentials = creds
		}
	}

	b.notifier.RequestBuilt(req)
	return req, nil
}

// ReportFailure emits the "request failed" signal for a submission error
// reported by the transport's caller.
func (b *Builder) ReportFailure(req *Request, err error) {
	b.notifier.RequestFailed(req, err)
}

// newCallerReference generates a caller reference unique enough for
// idempotency tracking: fixed prefix, unix timestamp, short random suffix.
func newCallerReference() string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%d-%s", callerRefPrefix, time.Now().Unix(), suffix)
}
