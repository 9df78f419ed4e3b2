// Package s3 publishes datasets to an S3-compatible bucket for static
// hosting.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fwojciec/fidata"
)

// Ensure Publisher implements fidata.Publisher at compile time.
var _ fidata.Publisher = (*Publisher)(nil)

// Publisher uploads dataset files under a key prefix of a bucket.
type Publisher struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewPublisher creates a Publisher from the default AWS configuration. If
// endpoint is non-empty, path-style addressing is enabled (for MinIO and
// similar).
func NewPublisher(ctx context.Context, bucket, prefix, region, endpoint string) (*Publisher, error) {
	if bucket == "" {
		return nil, fidata.Errorf(fidata.EINVALID, "bucket required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewPublisherWithClient(s3.NewFromConfig(cfg, s3opts...), bucket, prefix), nil
}

// NewPublisherWithClient creates a Publisher using an existing client.
func NewPublisherWithClient(client *s3.Client, bucket, prefix string) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key a file is published under.
func (p *Publisher) Key(name string) string {
	return path.Join(p.prefix, name)
}

// Publish uploads data as the object named name under the prefix.
func (p *Publisher) Publish(ctx context.Context, name string, data []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.Key(name)),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType(name)),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", name, err)
	}
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}
