package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves region and credentials for the AWS sinks.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil && creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// encodeNotification returns the JSON body and string attributes shared by the queue sinks.
func encodeNotification(n Notification) (string, map[string]string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return "", nil, fmt.Errorf("marshal notification: %w", err)
	}
	attrs := map[string]string{"variant": n.Variant}
	if n.StatusCode != 0 {
		attrs["status_code"] = strconv.Itoa(n.StatusCode)
	}
	if n.RequestID != "" {
		attrs["request_id"] = n.RequestID
	}
	return string(payload), attrs, nil
}
