package cloudfront

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gopurge/pkg/transport"
)

func TestWrapErrorTypedErrors(t *testing.T) {
	c := New("us-east-1")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such distribution", &types.NoSuchDistribution{}, transport.ErrDistributionNotFound},
		{"too many invalidations", &types.TooManyInvalidationsInProgress{}, transport.ErrTooManyInvalidations},
		{"access denied", &types.AccessDenied{}, transport.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.wrapError("Submit", "E1A2B3C4D5E6F", tt.err)
			assert.ErrorIs(t, got, tt.want)

			var te *transport.Error
			require.True(t, errors.As(got, &te))
			assert.Equal(t, "Submit", te.Op)
			assert.Equal(t, "E1A2B3C4D5E6F", te.DistributionID)
		})
	}
}

func TestWrapErrorAPICodes(t *testing.T) {
	c := New("us-east-1")

	tests := []struct {
		code string
		want error
	}{
		{"NoSuchDistribution", transport.ErrDistributionNotFound},
		{"NotFound", transport.ErrDistributionNotFound},
		{"AccessDenied", transport.ErrAccessDenied},
		{"Forbidden", transport.ErrAccessDenied},
		{"InvalidAccessKeyId", transport.ErrInvalidCredentials},
		{"SignatureDoesNotMatch", transport.ErrInvalidCredentials},
		{"TooManyInvalidationsInProgress", transport.ErrTooManyInvalidations},
		{"Throttling", transport.ErrTooManyInvalidations},
		{"ServiceUnavailable", transport.ErrServiceUnavailable},
		{"InternalError", transport.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code, Message: "nope"}
			got := c.wrapError("Submit", "E1A2B3C4D5E6F", apiErr)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestWrapErrorUnknownAPICodeKeepsCause(t *testing.T) {
	c := New("us-east-1")
	apiErr := &smithy.GenericAPIError{Code: "SomethingNovel", Message: "nope"}

	got := c.wrapError("Submit", "E1A2B3C4D5E6F", apiErr)

	var sa smithy.APIError
	assert.True(t, errors.As(got, &sa))
	assert.NotErrorIs(t, got, transport.ErrServiceUnavailable)
}

func TestWrapErrorMessageFallback(t *testing.T) {
	c := New("us-east-1")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found text", fmt.Errorf("operation failed: NoSuchDistribution: gone"), transport.ErrDistributionNotFound},
		{"denied text", fmt.Errorf("https response error StatusCode: 403"), transport.ErrAccessDenied},
		{"bad signature text", fmt.Errorf("SignatureDoesNotMatch for request"), transport.ErrInvalidCredentials},
		{"throttled text", fmt.Errorf("got 429 from upstream"), transport.ErrTooManyInvalidations},
		{"unavailable text", fmt.Errorf("upstream said 503"), transport.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.wrapError("Submit", "", tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
