package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore keeps the bytes of uploaded media files.
type ObjectStore interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ObjectStore stores media in an S3-compatible bucket.
type S3ObjectStore struct {
	client    s3API
	bucket    string
	publicURL string
}

var objectStore ObjectStore

// InitObjectStorage configures the media bucket from S3_* variables. Media
// uploads are unavailable when S3_BUCKET is unset.
func InitObjectStorage() {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		log.Println("WARNING: S3_BUCKET not set. Media uploads will not be available.")
		return
	}

	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("S3_ACCESS_KEY"),
			os.Getenv("S3_SECRET_KEY"),
			"",
		)))
	if err != nil {
		log.Printf("Failed to load S3 configuration: %v", err)
		return
	}

	endpoint := strings.TrimRight(os.Getenv("S3_ENDPOINT"), "/")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/")
	if publicURL == "" {
		if endpoint != "" {
			publicURL = endpoint + "/" + bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	objectStore = NewS3ObjectStore(client, bucket, publicURL)
	log.Printf("Object storage initialized with bucket %s", bucket)
}

func NewS3ObjectStore(client s3API, bucket, publicURL string) *S3ObjectStore {
	return &S3ObjectStore{client: client, bucket: bucket, publicURL: publicURL}
}

// GetObjectStore returns the configured store, nil when storage is disabled.
func GetObjectStore() ObjectStore {
	return objectStore
}

// SetObjectStore replaces the configured store.
func SetObjectStore(store ObjectStore) {
	objectStore = store
}

func (s *S3ObjectStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// StorageKey builds media/<folder>/<yyyy>/<m>/<d>/<uuid><ext> for an upload.
func StorageKey(folder, filename string, now time.Time) string {
	folder = strings.Trim(path.Clean("/"+strings.TrimSpace(folder)), "/")
	if folder == "" {
		folder = "general"
	}
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("media/%s/%d/%d/%d/%v%s", folder, now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}
