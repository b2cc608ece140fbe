package site

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

// Ref identifies the redirect service target: one bucket named after the
// full hostname plus an optional DNS alias under the apex domain.
type Ref struct {
	Subdomain string
	Domain    string
	Region    string
}

// Hostname returns the fully qualified host the service answers on.
func (r Ref) Hostname() string {
	return r.Subdomain + "." + r.Domain
}

// Bucket returns the bucket name. S3 website hosting requires the bucket to
// be named exactly like the hostname it serves.
func (r Ref) Bucket() string {
	return r.Hostname()
}

func (r Ref) String() string {
	return r.Hostname()
}

// S3API is the slice of the S3 control plane the checks use.
type S3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	GetBucketWebsite(ctx context.Context, in *s3.GetBucketWebsiteInput, opts ...func(*s3.Options)) (*s3.GetBucketWebsiteOutput, error)
	PutBucketWebsite(ctx context.Context, in *s3.PutBucketWebsiteInput, opts ...func(*s3.Options)) (*s3.PutBucketWebsiteOutput, error)
	GetPublicAccessBlock(ctx context.Context, in *s3.GetPublicAccessBlockInput, opts ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error)
	PutPublicAccessBlock(ctx context.Context, in *s3.PutPublicAccessBlockInput, opts ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error)
	GetBucketPolicy(ctx context.Context, in *s3.GetBucketPolicyInput, opts ...func(*s3.Options)) (*s3.GetBucketPolicyOutput, error)
	PutBucketPolicy(ctx context.Context, in *s3.PutBucketPolicyInput, opts ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
}

// DNSAPI is the slice of the Route 53 control plane the checks use.
type DNSAPI interface {
	ListHostedZonesByName(ctx context.Context, in *route53.ListHostedZonesByNameInput, opts ...func(*route53.Options)) (*route53.ListHostedZonesByNameOutput, error)
	ListResourceRecordSets(ctx context.Context, in *route53.ListResourceRecordSetsInput, opts ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, in *route53.ChangeResourceRecordSetsInput, opts ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

// Client bundles the provider clients for one run. It is constructed once
// and passed to the checks; there is no process-wide session.
type Client struct {
	S3     S3API
	DNS    DNSAPI
	Region string
}

// NewClient loads AWS configuration, validates the credential with a
// GetCallerIdentity pre-flight, and returns the bound clients. A rejected
// credential surfaces as an AuthError before any check runs.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	stsClient := sts.NewFromConfig(cfg)
	if _, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{}); err != nil {
		return nil, shiperrors.NewAuthError("aws", err)
	}

	return &Client{
		S3:     s3.NewFromConfig(cfg),
		DNS:    route53.NewFromConfig(cfg),
		Region: cfg.Region,
	}, nil
}

// errorCode extracts the provider error code, or "".
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// isCode reports whether the error carries one of the given codes.
func isCode(err error, codes ...string) bool {
	got := errorCode(err)
	for _, code := range codes {
		if got == code {
			return true
		}
	}
	return false
}

// classify maps provider errors onto the run's error taxonomy.
func classify(err error) error {
	if isCode(err, "AccessDenied", "InvalidAccessKeyId", "ExpiredToken", "SignatureDoesNotMatch") {
		return shiperrors.NewAuthError("aws", err)
	}
	return fmt.Errorf("aws: %w", err)
}
