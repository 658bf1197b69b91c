// Package cloudfront implements transport.Submitter against the CloudFront
// CreateInvalidation API.
package cloudfront

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/smithy-go"

	"github.com/3leaps/gopurge/pkg/invalidation"
	"github.com/3leaps/gopurge/pkg/transport"
)

// Client submits invalidation requests to CloudFront.
type Client struct {
	region string
}

// Ensure Client implements the interface.
var _ transport.Submitter = (*Client)(nil)

// New creates a CloudFront transport for the given region.
func New(region string) *Client {
	return &Client{region: region}
}

// Submit sends the request via CreateInvalidation and returns the remote
// invalidation ID. The request body carries the path list with an explicit
// count equal to its length, as the API requires.
//
// Requests in ambient mode use the SDK default credential chain
// (environment, shared config, instance role). Explicit mode pins the
// resolved static credentials.
func (c *Client) Submit(ctx context.Context, req *invalidation.Request) (string, error) {
	awsCfg, err := c.loadAWSConfig(ctx, req)
	if err != nil {
		return "", c.wrapError("Submit", req.DistributionID, err)
	}

	client := cloudfront.NewFromConfig(awsCfg)

	out, err := client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(req.DistributionID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(req.CallerReference),
			Paths: &types.Paths{
				Items:    req.Paths,
				Quantity: aws.Int32(int32(len(req.Paths))),
			},
		},
	})
	if err != nil {
		return "", c.wrapError("Submit", req.DistributionID, err)
	}

	var id string
	if out.Invalidation != nil {
		id = aws.ToString(out.Invalidation.Id)
	}
	return id, nil
}

// loadAWSConfig builds the AWS configuration for one submission.
func (c *Client) loadAWSConfig(ctx context.Context, req *invalidation.Request) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if c.region != "" {
		opts = append(opts, config.WithRegion(c.region))
	}

	if req.AuthMode == invalidation.AuthExplicit && req.Credentials != nil {
		static := awscreds.NewStaticCredentialsProvider(
			req.Credentials.AccessKeyID,
			req.Credentials.SecretAccessKey,
			"", // session token (empty for long-term credentials)
		)
		opts = append(opts, config.WithCredentialsProvider(static))
	}

	return config.LoadDefaultConfig(ctx, opts...)
}

// wrapError converts CloudFront errors to transport errors with appropriate
// sentinel errors.
func (c *Client) wrapError(op, distributionID string, err error) error {
	wrapped := &transport.Error{
		Op:             op,
		DistributionID: distributionID,
		Err:            err,
	}

	var noSuchDistribution *types.NoSuchDistribution
	var tooMany *types.TooManyInvalidationsInProgress
	var denied *types.AccessDenied

	switch {
	case errors.As(err, &noSuchDistribution):
		wrapped.Err = transport.ErrDistributionNotFound
		return wrapped
	case errors.As(err, &tooMany):
		wrapped.Err = transport.ErrTooManyInvalidations
		return wrapped
	case errors.As(err, &denied):
		wrapped.Err = transport.ErrAccessDenied
		return wrapped
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchDistribution", "NotFound":
			wrapped.Err = transport.ErrDistributionNotFound
		case "AccessDenied", "Forbidden":
			wrapped.Err = transport.ErrAccessDenied
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "UnrecognizedClientException":
			wrapped.Err = transport.ErrInvalidCredentials
		case "TooManyInvalidationsInProgress", "Throttling":
			wrapped.Err = transport.ErrTooManyInvalidations
		case "ServiceUnavailable", "InternalError":
			wrapped.Err = transport.ErrServiceUnavailable
		}
		return wrapped
	}

	// Fallback: check error message for common cases
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchDistribution") || strings.Contains(msg, "404"):
		wrapped.Err = transport.ErrDistributionNotFound
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "403"):
		wrapped.Err = transport.ErrAccessDenied
	case strings.Contains(msg, "InvalidAccessKeyId") || strings.Contains(msg, "SignatureDoesNotMatch"):
		wrapped.Err = transport.ErrInvalidCredentials
	case strings.Contains(msg, "TooManyInvalidationsInProgress") || strings.Contains(msg, "429"):
		wrapped.Err = transport.ErrTooManyInvalidations
	case strings.Contains(msg, "ServiceUnavailable") || strings.Contains(msg, "503"):
		wrapped.Err = transport.ErrServiceUnavailable
	}

	return wrapped
}
