package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"paper-search/config"
)

// S3API ist der Teil des S3-Clients, den die Backups benötigen.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client erstellt einen S3-Client für einen S3-kompatiblen Speicher.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.BackupS3URL,
				SigningRegion:     cfg.BackupS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.BackupS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.BackupS3Key, cfg.BackupS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// BackupStore legt Katalog-Snapshots unter einem Präfix im Bucket ab.
type BackupStore struct {
	Client S3API
	Bucket string
	Prefix string
	Logger *zap.Logger
}

// Upload lädt einen Snapshot hoch und gibt seinen Schlüssel zurück.
func (b *BackupStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	key := b.Prefix + name
	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", b.Bucket, key, err)
	}
	return key, nil
}

// Rotate löscht alle Snapshots außer den keep neuesten und gibt die
// gelöschten Schlüssel zurück. Einzelne Löschfehler werden nur geloggt.
func (b *BackupStore) Rotate(ctx context.Context, keep int) ([]string, error) {
	var objects []types.Object
	pages := s3.NewListObjectsV2Paginator(b.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.Bucket),
		Prefix: aws.String(b.Prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		objects = append(objects, page.Contents...)
	}

	var deleted []string
	for _, key := range backupsToDelete(objects, keep) {
		b.Logger.Info("Lösche altes Backup", zap.String("key", key))
		_, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			b.Logger.Error("Fehler beim Löschen", zap.String("key", key), zap.Error(err))
			continue
		}
		deleted = append(deleted, key)
	}
	return deleted, nil
}

// backupsToDelete sortiert nach Änderungsdatum (neueste zuerst) und liefert
// alles jenseits der keep neuesten Objekte.
func backupsToDelete(objects []types.Object, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(objects) <= keep {
		return nil
	}
	sorted := make([]types.Object, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := aws.ToTime(sorted[i].LastModified), aws.ToTime(sorted[j].LastModified)
		if ti.Equal(tj) {
			return strings.Compare(aws.ToString(sorted[i].Key), aws.ToString(sorted[j].Key)) > 0
		}
		return ti.After(tj)
	})

	keys := make([]string, 0, len(sorted)-keep)
	for _, obj := range sorted[keep:] {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys
}
