package site

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// bucketPolicyDocument is the typed desired-state record for the bucket
// policy. It is serialized through the structured encoder rather than
// templated as a string, so the payload shape is validated before
// transmission.
type bucketPolicyDocument struct {
	Version   string                  `json:"Version"`
	Statement []bucketPolicyStatement `json:"Statement"`
}

type bucketPolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

// publicReadPolicy is the full desired policy for a website bucket: anyone
// may read objects, nothing else is granted.
func publicReadPolicy(bucket string) bucketPolicyDocument {
	return bucketPolicyDocument{
		Version: "2012-10-17",
		Statement: []bucketPolicyStatement{
			{
				Sid:       "PublicReadGetObject",
				Effect:    "Allow",
				Principal: "*",
				Action:    "s3:GetObject",
				Resource:  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
}

func marshalPolicy(doc bucketPolicyDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal bucket policy: %w", err)
	}
	return string(data), nil
}

// policyEquivalent compares the live policy JSON against the desired
// document structurally. Any policy that does not decode into the desired
// shape counts as divergent and is replaced in full.
func policyEquivalent(current string, desired bucketPolicyDocument) bool {
	var got bucketPolicyDocument
	if err := json.Unmarshal([]byte(current), &got); err != nil {
		return false
	}
	return reflect.DeepEqual(got, desired)
}
