package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/mapsketch/mapsketch/internal/server/config"
)

const snapshotURLValidity = 15 * time.Minute

// SnapshotService exports documents to S3-compatible object storage and
// issues time-limited download URLs for them.
type SnapshotService struct {
	config *sc.Config
}

func NewSnapshotService(cfg *sc.Config) *SnapshotService {
	return &SnapshotService{config: cfg}
}

// GetSnapshotKey builds a unique object key for one export of a document.
func GetSnapshotKey(owner, name string) string {
	return fmt.Sprintf("snapshots/%s/%s/%v.geojson", owner, name, uuid.New())
}

func (s *SnapshotService) getClient() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Export uploads the payload as a snapshot object and returns its key plus a
// presigned GET URL valid for snapshotURLValidity.
func (s *SnapshotService) Export(ctx context.Context, owner, name string, payload []byte) (string, string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetSnapshotKey(owner, name)
	contentType := "application/geo+json"

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	if err != nil {
		return "", "", err
	}

	req, err := s3.NewPresignClient(client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(snapshotURLValidity))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}
