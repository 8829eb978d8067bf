// Package publish uploads run artifacts to MinIO object storage so reports
// outlive the machine that produced them.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"policy-analytics/internal/config"
)

// Publisher wraps the MinIO client with artifact-upload specifics.
type Publisher struct {
	client *minio.Client
	bucket string
}

var contentTypes = map[string]string{
	".csv":  "text/csv",
	".sql":  "text/plain",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".json": "application/json",
}

// NewPublisher connects to MinIO and ensures the artifact bucket exists.
func NewPublisher(cfg config.MinioConfig) (*Publisher, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		slog.Warn("Invalid MinIO secure flag, defaulting to false", "value", cfg.MinioSecure)
		isSecure = false
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := &Publisher{client: client, bucket: cfg.ArtifactBucket}
	exists, err := client.BucketExists(ctx, p.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check artifact bucket: %w", err)
	}
	if !exists {
		err := client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: cfg.MinioLocation})
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact bucket %s: %w", p.bucket, err)
		}
		slog.Info("Created artifact bucket", "bucket", p.bucket)
	}
	return p, nil
}

// UploadRunArtifacts uploads every regular file under dir (recursively) beneath
// the run's object prefix. Returns the number of objects uploaded.
func (p *Publisher) UploadRunArtifacts(ctx context.Context, runID uuid.UUID, dir string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		objectName := fmt.Sprintf("runs/%s/%s", runID, filepath.ToSlash(rel))

		contentType := contentTypes[strings.ToLower(filepath.Ext(path))]
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		info, err := p.client.FPutObject(ctx, p.bucket, objectName, path,
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", objectName, err)
		}
		slog.Debug("Uploaded artifact", "object", objectName, "size", info.Size)
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("failed to upload run artifacts from %s: %w", dir, err)
	}
	slog.Info("Run artifacts uploaded", "run_id", runID, "bucket", p.bucket, "objects", uploaded)
	return uploaded, nil
}
