package site

import (
	"fmt"
)

// websiteEndpoint holds the region-specific S3 website hosting endpoint and
// the fixed hosted zone ID Route 53 aliases must reference.
type websiteEndpoint struct {
	Hostname     string
	HostedZoneID string
}

// Older regions use the dashed s3-website-<region> form, newer ones the
// dotted s3-website.<region> form. The zone IDs are fixed per region and
// published by the provider.
var websiteEndpoints = map[string]websiteEndpoint{
	"af-south-1":     {"s3-website.af-south-1.amazonaws.com", "Z83WF9RJE8B12"},
	"ap-east-1":      {"s3-website.ap-east-1.amazonaws.com", "ZNB98KWMFR0R6"},
	"ap-northeast-1": {"s3-website-ap-northeast-1.amazonaws.com", "Z2M4EHUR26P7ZW"},
	"ap-northeast-2": {"s3-website.ap-northeast-2.amazonaws.com", "Z3W03O7B5YMIYP"},
	"ap-northeast-3": {"s3-website.ap-northeast-3.amazonaws.com", "Z2YQB5RD63NC85"},
	"ap-south-1":     {"s3-website.ap-south-1.amazonaws.com", "Z11RGJOFQNVJUP"},
	"ap-southeast-1": {"s3-website-ap-southeast-1.amazonaws.com", "Z3O0J2DXBE1FTB"},
	"ap-southeast-2": {"s3-website-ap-southeast-2.amazonaws.com", "Z1WCIGYICN2BYD"},
	"ap-southeast-3": {"s3-website.ap-southeast-3.amazonaws.com", "Z01846753K324LI26A3VV"},
	"ca-central-1":   {"s3-website.ca-central-1.amazonaws.com", "Z1QDHH18159H29"},
	"eu-central-1":   {"s3-website.eu-central-1.amazonaws.com", "Z21DNDUVLTQW6Q"},
	"eu-north-1":     {"s3-website.eu-north-1.amazonaws.com", "Z3BAZG2TWCNX0D"},
	"eu-south-1":     {"s3-website.eu-south-1.amazonaws.com", "Z30OZKI7KPW7MI"},
	"eu-west-1":      {"s3-website-eu-west-1.amazonaws.com", "Z1BKCTXD74EZPE"},
	"eu-west-2":      {"s3-website.eu-west-2.amazonaws.com", "Z3GKZC51ZF0DB4"},
	"eu-west-3":      {"s3-website.eu-west-3.amazonaws.com", "Z3R1K369G5AVDG"},
	"me-south-1":     {"s3-website.me-south-1.amazonaws.com", "Z1MPMWCPA7YB77"},
	"sa-east-1":      {"s3-website-sa-east-1.amazonaws.com", "Z7KQH4QJS55SO"},
	"us-east-1":      {"s3-website-us-east-1.amazonaws.com", "Z3AQBSTGFYJSTF"},
	"us-east-2":      {"s3-website.us-east-2.amazonaws.com", "Z2O1EMRO9K5GLX"},
	"us-west-1":      {"s3-website-us-west-1.amazonaws.com", "Z2F56UZL2M1ACD"},
	"us-west-2":      {"s3-website-us-west-2.amazonaws.com", "Z3BJ6K6RIION7M"},
}

// endpointForRegion resolves the website endpoint for a region. Unknown
// regions are an explicit error instead of a broken alias.
func endpointForRegion(region string) (websiteEndpoint, error) {
	endpoint, ok := websiteEndpoints[region]
	if !ok {
		return websiteEndpoint{}, fmt.Errorf("no S3 website endpoint known for region %q", region)
	}
	return endpoint, nil
}

// ValidateRegion reports whether the region has a published website
// endpoint. The CLI calls this before constructing any provider client, so
// a mistyped or unsupported region fails fast instead of after the bucket
// writes have already run.
func ValidateRegion(region string) error {
	_, err := endpointForRegion(region)
	return err
}
