package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// awsClient signs requests with the AWS SDK v2 presign client.
type awsClient struct {
	api       *s3.Client
	presigner *s3.PresignClient
}

func newAWSClient(cfg Config) (*awsClient, error) {
	timeout := cfg.timeout()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		// Buildable so AWS_CA_BUNDLE can add its root CAs to the transport.
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().
			WithTimeout(timeout).
			WithTransportOptions(func(tr *http.Transport) {
				applyTransportTimeouts(tr, timeout)
			})),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config for region %s: %w", cfg.Region, err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(withScheme(cfg.Endpoint, cfg.UseSSL))
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &awsClient{
		api:       api,
		presigner: s3.NewPresignClient(api),
	}, nil
}

func (c *awsClient) PresignGetObject(ctx context.Context, ref ObjectRef, expiry time.Duration) (string, error) {
	if err := validateRequest(ref, expiry); err != nil {
		return "", err
	}

	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", annotate(err)
	}

	return req.URL, nil
}

func (c *awsClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucketName)})
	if err == nil {
		return true, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return false, nil
		}
	}
	return false, annotate(err)
}

// annotate prefixes SDK errors with the failing service operation.
func annotate(err error) error {
	var opErr *smithy.OperationError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%s %s: %w", opErr.Service(), opErr.Operation(), err)
	}
	return err
}

// withScheme adds a scheme to bare host:port endpoints; the SDK requires a full URL.
func withScheme(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
