package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3PutAPI uploads objects
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PresignAPI presigns downloads
type S3PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ExportArchive describes an uploaded export
type ExportArchive struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Rows      int       `json:"rows"`
}

// ExportService stores CSV exports in S3 and hands out presigned download links
type ExportService struct {
	Admin   *AdminService
	Client  S3PutAPI
	Presign S3PresignAPI
	Bucket  string
	TTL     time.Duration
	Now     func() time.Time
}

// NewS3Client loads the default AWS config and builds an S3 client
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewExportService wires an ExportService to a real S3 client
func NewExportService(admin *AdminService, client *s3.Client, bucket string, ttl time.Duration) *ExportService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ExportService{
		Admin:   admin,
		Client:  client,
		Presign: s3.NewPresignClient(client),
		Bucket:  bucket,
		TTL:     ttl,
		Now:     time.Now,
	}
}

// Archive renders the party's CSV export, uploads it and returns a presigned GET URL
func (s *ExportService) Archive(ctx context.Context, partyID string) (*ExportArchive, error) {
	var buf bytes.Buffer
	rows, err := s.Admin.ExportCSV(ctx, partyID, &buf)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	key := fmt.Sprintf("exports/%s/%s-%s", partyID, now.Format("20060102150405"), ExportFileName(partyID))

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(buf.Bytes()),
		ContentType:        aws.String("text/csv; charset=utf-8"),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, ExportFileName(partyID))),
	})
	if err != nil {
		return nil, ioFailure("upload export", err)
	}

	presigned, err := s.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.TTL))
	if err != nil {
		return nil, ioFailure("presign export", err)
	}

	exports.WithLabelValues("s3").Inc()
	log.Info().Str("partyId", partyID).Str("key", key).Int("rows", rows).Msg("export archived")

	return &ExportArchive{
		Key:       key,
		URL:       presigned.URL,
		ExpiresAt: now.Add(s.TTL),
		Rows:      rows,
	}, nil
}
