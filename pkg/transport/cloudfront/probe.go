package cloudfront

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// ambientProbeTimeout bounds the IMDS round trip. Off EC2 the endpoint is
// unreachable and the probe should fail fast rather than hang a diagnostic.
const ambientProbeTimeout = 2 * time.Second

// AmbientAvailable reports whether an instance identity is reachable via
// the EC2 metadata service, i.e. whether ambient (role-based) credentials
// can plausibly work here. Advisory only: a reachable IMDS does not
// guarantee the attached role has invalidation permissions.
func AmbientAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, ambientProbeTimeout)
	defer cancel()

	client := imds.New(imds.Options{})
	_, err := client.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	return err == nil
}
