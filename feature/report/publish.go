package report

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"license-auditor/core/reconcile"
	"license-auditor/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher uploads remediation artifacts to object storage.
type Publisher struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewPublisher creates a publisher writing to bucket under prefix.
func NewPublisher(client storage.Client, bucket, prefix string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// ObjectName returns the key an artifact of the given run is stored under.
func (p *Publisher) ObjectName(runID string) string {
	return path.Join(p.prefix, runID, FileName)
}

// Publish encodes the violations and uploads them as <prefix>/<runID>/missing-permissions.csv.
// The bucket is created when it does not exist yet. It returns the s3 location.
func (p *Publisher) Publish(ctx context.Context, runID string, violations []reconcile.Violation) (string, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
		p.logger.Info("Created artifact bucket", zap.String("bucket", p.bucket))
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, violations); err != nil {
		return "", err
	}

	objectName := p.ObjectName(runID)
	_, err = p.client.PutObject(ctx, p.bucket, objectName, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.bucket, objectName)
	p.logger.Info("Published remediation artifact", zap.String("location", location))
	return location, nil
}
