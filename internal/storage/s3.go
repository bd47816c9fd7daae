// Package storage hands out presigned object-storage URLs for material
// attachments. Clients upload directly to the bucket and store the
// resulting location in the attachment's oss_url field.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Bucket    string
}

type Presigner struct {
	cfg Config
}

func NewPresigner(cfg Config) *Presigner {
	return &Presigner{cfg: cfg}
}

// ObjectKey buckets uploads by date so the store stays browsable.
func ObjectKey() string {
	now := time.Now()
	return fmt.Sprintf("attachments/%d/%02d/%02d/%v", now.Year(), now.Month(), now.Day(), uuid.New())
}

func (p *Presigner) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(p.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.AccessKey,
			p.cfg.SecretKey,
			"",
		)))

	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.Endpoint)
		}
	})

	return s3.NewPresignClient(client), nil
}

// UploadURL returns a fresh object key and a time-limited URL the client
// can PUT the file to.
func (p *Presigner) UploadURL(ctx context.Context) (string, string, error) {
	presignClient, err := p.presignClient(ctx)

	if err != nil {
		return "", "", err
	}

	key := ObjectKey()

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &p.cfg.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))

	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// DownloadURL returns a time-limited GET URL for an existing object.
func (p *Presigner) DownloadURL(ctx context.Context, key string) (string, error) {
	presignClient, err := p.presignClient(ctx)

	if err != nil {
		return "", err
	}

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &p.cfg.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))

	if err != nil {
		return "", err
	}

	return req.URL, nil
}
