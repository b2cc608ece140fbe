package site

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/shipshapehq/shipshape/internal/config"
	"github.com/shipshapehq/shipshape/internal/engine"
	"github.com/shipshapehq/shipshape/internal/model"
)

// Checks returns the ordered provisioning checks for one redirect service.
// The bucket is a prerequisite: website, access and policy configuration are
// sub-resources that cannot exist without it. The DNS alias is advisory
// because the apex domain's hosted zone may be managed elsewhere.
func Checks(client *Client, ref Ref, policy config.SitePolicy) []engine.Check {
	target := policy.Target
	if target == "" {
		target = ref.Domain
	}

	return []engine.Check{
		&bucketCheck{s3: client.S3, ref: ref},
		&websiteCheck{s3: client.S3, ref: ref, target: target, protocol: policy.Protocol},
		&publicAccessCheck{s3: client.S3, ref: ref},
		&policyCheck{s3: client.S3, ref: ref},
		&dnsAliasCheck{dns: client.DNS, ref: ref},
	}
}

// bucketCheck ensures the website bucket exists, creating it on divergence.
type bucketCheck struct {
	s3  S3API
	ref Ref
}

func (c *bucketCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "bucket",
		Summary: "redirect bucket exists",
		Prereq:  true,
	}
}

func (c *bucketCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.ref.Bucket())})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) || isCode(err, "NotFound", "NoSuchBucket") {
			return &model.Evaluation{
				State:   model.StateDivergent,
				Message: fmt.Sprintf("bucket %s does not exist", c.ref.Bucket()),
			}, nil
		}
		return nil, classify(err)
	}

	return &model.Evaluation{
		State:   model.StateSatisfied,
		Message: fmt.Sprintf("bucket %s exists", c.ref.Bucket()),
	}, nil
}

func (c *bucketCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(c.ref.Bucket())}
	// us-east-1 is the API default and rejects an explicit constraint.
	if c.ref.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.ref.Region),
		}
	}

	_, err := c.s3.CreateBucket(ctx, input)
	if err != nil {
		switch {
		case isCode(err, "BucketAlreadyOwnedByYou"):
			// The bucket appeared between evaluate and apply; nothing was
			// created by this run.
			return engine.ErrAlreadySatisfied
		case isCode(err, "BucketAlreadyExists"):
			return fmt.Errorf("bucket name %q is already taken globally", c.ref.Bucket())
		}
		return classify(err)
	}
	return nil
}

// websiteCheck governs the bucket's website configuration: redirect every
// request to the target host.
type websiteCheck struct {
	s3       S3API
	ref      Ref
	target   string
	protocol string
}

func (c *websiteCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "website",
		Summary: "redirect-all website configuration",
	}
}

func (c *websiteCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	out, err := c.s3.GetBucketWebsite(ctx, &s3.GetBucketWebsiteInput{Bucket: aws.String(c.ref.Bucket())})
	if err != nil {
		if isCode(err, "NoSuchWebsiteConfiguration") {
			return &model.Evaluation{
				State:   model.StateDivergent,
				Message: "website hosting not configured",
			}, nil
		}
		return nil, classify(err)
	}

	redirect := out.RedirectAllRequestsTo
	if redirect != nil &&
		aws.ToString(redirect.HostName) == c.target &&
		string(redirect.Protocol) == c.protocol {
		return &model.Evaluation{
			State:   model.StateSatisfied,
			Message: fmt.Sprintf("redirects all requests to %s://%s", c.protocol, c.target),
		}, nil
	}

	return &model.Evaluation{
		State:   model.StateDivergent,
		Message: fmt.Sprintf("website configuration does not redirect to %s://%s", c.protocol, c.target),
	}, nil
}

func (c *websiteCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	_, err := c.s3.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(c.ref.Bucket()),
		WebsiteConfiguration: &s3types.WebsiteConfiguration{
			RedirectAllRequestsTo: &s3types.RedirectAllRequestsTo{
				HostName: aws.String(c.target),
				Protocol: s3types.Protocol(c.protocol),
			},
		},
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// publicAccessCheck clears the public-access block so the website bucket
// can carry a public-read policy.
type publicAccessCheck struct {
	s3  S3API
	ref Ref
}

func (c *publicAccessCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "public-access",
		Summary: "public access block cleared",
	}
}

func (c *publicAccessCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	out, err := c.s3.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(c.ref.Bucket())})
	if err != nil {
		if isCode(err, "NoSuchPublicAccessBlockConfiguration") {
			return &model.Evaluation{
				State:   model.StateDivergent,
				Message: "public access block not configured explicitly",
			}, nil
		}
		return nil, classify(err)
	}

	cfg := out.PublicAccessBlockConfiguration
	if cfg != nil &&
		!aws.ToBool(cfg.BlockPublicAcls) &&
		!aws.ToBool(cfg.BlockPublicPolicy) &&
		!aws.ToBool(cfg.IgnorePublicAcls) &&
		!aws.ToBool(cfg.RestrictPublicBuckets) {
		return &model.Evaluation{
			State:   model.StateSatisfied,
			Message: "public access block cleared",
		}, nil
	}

	return &model.Evaluation{
		State:   model.StateDivergent,
		Message: "public access block still restricts the bucket",
	}, nil
}

func (c *publicAccessCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	_, err := c.s3.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(c.ref.Bucket()),
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(false),
			BlockPublicPolicy:     aws.Bool(false),
			IgnorePublicAcls:      aws.Bool(false),
			RestrictPublicBuckets: aws.Bool(false),
		},
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// policyCheck governs the bucket policy: public read on objects, nothing
// else.
type policyCheck struct {
	s3  S3API
	ref Ref
}

func (c *policyCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "bucket-policy",
		Summary: "public-read bucket policy",
	}
}

func (c *policyCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	desired := publicReadPolicy(c.ref.Bucket())

	out, err := c.s3.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(c.ref.Bucket())})
	if err != nil {
		if isCode(err, "NoSuchBucketPolicy") {
			return &model.Evaluation{
				State:   model.StateDivergent,
				Message: "no bucket policy attached",
			}, nil
		}
		return nil, classify(err)
	}

	if policyEquivalent(aws.ToString(out.Policy), desired) {
		return &model.Evaluation{
			State:   model.StateSatisfied,
			Message: "bucket policy grants public read",
		}, nil
	}

	return &model.Evaluation{
		State:   model.StateDivergent,
		Message: "bucket policy diverges from public-read policy",
	}, nil
}

func (c *policyCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	policyJSON, err := marshalPolicy(publicReadPolicy(c.ref.Bucket()))
	if err != nil {
		return err
	}

	_, err = c.s3.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(c.ref.Bucket()),
		Policy: aws.String(policyJSON),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// aliasInternal is passed from the DNS evaluation to its apply phase so the
// zone is looked up exactly once per run.
type aliasInternal struct {
	zoneID   string
	endpoint websiteEndpoint
}

// dnsAliasCheck points the hostname at the bucket's website endpoint. The
// apex zone may live in another account or registrar, so its absence is
// advisory: the redirect bucket is the primary deliverable and the run
// still succeeds with manual instructions.
type dnsAliasCheck struct {
	dns DNSAPI
	ref Ref
}

func (c *dnsAliasCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:       "dns-alias",
		Summary:  "DNS alias to the website endpoint",
		Advisory: true,
	}
}

func (c *dnsAliasCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	endpoint, err := endpointForRegion(c.ref.Region)
	if err != nil {
		return nil, err
	}

	zones, err := c.dns.ListHostedZonesByName(ctx, &route53.ListHostedZonesByNameInput{
		DNSName: aws.String(c.ref.Domain),
	})
	if err != nil {
		return nil, classify(err)
	}

	var zoneID string
	for _, zone := range zones.HostedZones {
		if strings.EqualFold(strings.TrimSuffix(aws.ToString(zone.Name), "."), c.ref.Domain) {
			zoneID = strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/")
			break
		}
	}
	if zoneID == "" {
		return &model.Evaluation{
			State:   model.StateAbsent,
			Message: fmt.Sprintf("no hosted zone found for %s", c.ref.Domain),
			Guidance: fmt.Sprintf("create an A/ALIAS record for %s pointing at %s with your DNS provider",
				c.ref.Hostname(), endpoint.Hostname),
		}, nil
	}

	records, err := c.dns.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(zoneID),
		StartRecordName: aws.String(c.ref.Hostname()),
		StartRecordType: r53types.RRTypeA,
		MaxItems:        aws.Int32(1),
	})
	if err != nil {
		return nil, classify(err)
	}

	internal := aliasInternal{zoneID: zoneID, endpoint: endpoint}
	for _, record := range records.ResourceRecordSets {
		if !strings.EqualFold(strings.TrimSuffix(aws.ToString(record.Name), "."), c.ref.Hostname()) {
			continue
		}
		if record.Type != r53types.RRTypeA || record.AliasTarget == nil {
			continue
		}
		alias := record.AliasTarget
		if strings.EqualFold(strings.TrimSuffix(aws.ToString(alias.DNSName), "."), endpoint.Hostname) &&
			aws.ToString(alias.HostedZoneId) == endpoint.HostedZoneID {
			return &model.Evaluation{
				State:    model.StateSatisfied,
				Message:  fmt.Sprintf("%s aliases %s", c.ref.Hostname(), endpoint.Hostname),
				Internal: internal,
			}, nil
		}
	}

	return &model.Evaluation{
		State:    model.StateDivergent,
		Message:  fmt.Sprintf("%s does not alias %s", c.ref.Hostname(), endpoint.Hostname),
		Internal: internal,
	}, nil
}

func (c *dnsAliasCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	internal, ok := eval.Internal.(aliasInternal)
	if !ok {
		return fmt.Errorf("missing zone lookup data for %s", c.ref.Hostname())
	}

	_, err := c.dns.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(internal.zoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Comment: aws.String("managed by shipshape"),
			Changes: []r53types.Change{
				{
					Action: r53types.ChangeActionUpsert,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name: aws.String(c.ref.Hostname()),
						Type: r53types.RRTypeA,
						AliasTarget: &r53types.AliasTarget{
							DNSName:              aws.String(internal.endpoint.Hostname),
							HostedZoneId:         aws.String(internal.endpoint.HostedZoneID),
							EvaluateTargetHealth: false,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return classify(err)
	}
	return nil
}
