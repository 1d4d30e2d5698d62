package database

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/sirupsen/logrus"
)

// SupabaseClient representa el storage de Supabase accedido por su API S3
type SupabaseClient struct {
	s3Client *s3.Client
	logger   *logrus.Logger
	bucket   string
}

// NewSupabaseClient crea una nueva instancia del cliente de Supabase
func NewSupabaseClient(ctx context.Context, cfg *config.SupabaseConfig, logger *logrus.Logger) (*SupabaseClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		o.UsePathStyle = true // Supabase no soporta virtual-hosted style
	})

	return &SupabaseClient{
		s3Client: s3Client,
		logger:   logger,
		bucket:   cfg.InvoiceBucket,
	}, nil
}

// HealthCheck verifica que el bucket de facturas sea accesible
func (s *SupabaseClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("error checking Supabase storage connection: %w", err)
	}
	return nil
}

// Upload sube el archivo a la ruta indicada, sobrescribiendo el objeto existente
func (s *SupabaseClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("error uploading %s to Supabase storage: %w", path, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"file":   path,
		"size":   len(data),
	}).Info("File uploaded to Supabase storage successfully")

	return nil
}

// EnsureBucket crea el bucket de facturas si no existe. El bucket es privado.
func (s *SupabaseClient) EnsureBucket(ctx context.Context) error {
	if err := s.HealthCheck(ctx); err == nil {
		return nil
	}

	_, err := s.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("error creating bucket %s: %w", s.bucket, err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Supabase storage bucket created")
	return nil
}
