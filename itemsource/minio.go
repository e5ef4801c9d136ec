package itemsource

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/goliatone/go-report-cache/reportcache"
)

// ObjectConfig holds the connection settings for an object-storage source.
type ObjectConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// ObjectSource enumerates a MinIO/S3 bucket where objects are laid out one
// owner per key prefix ("<owner>/<name>"). It implements
// reportcache.ItemSource.
type ObjectSource struct {
	client *minio.Client
	bucket string
}

var _ reportcache.ItemSource = (*ObjectSource)(nil)

// NewObjectSource builds a minio client from cfg and wraps it.
func NewObjectSource(cfg ObjectConfig) (*ObjectSource, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("itemsource: connect object storage: %w", err)
	}
	return NewObjectSourceWithClient(client, cfg.Bucket), nil
}

// NewObjectSourceWithClient wraps an existing minio client. The caller owns
// the client lifecycle.
func NewObjectSourceWithClient(client *minio.Client, bucket string) *ObjectSource {
	return &ObjectSource{client: client, bucket: bucket}
}

// ListItems enumerates the objects under the owner's prefix.
func (s *ObjectSource) ListItems(ctx context.Context, ownerID string) ([]reportcache.ItemRef, error) {
	var refs []reportcache.ItemRef

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    ownerPrefix(ownerID),
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("itemsource: list objects for owner %q: %w", ownerID, object.Err)
		}
		refs = append(refs, objectRef(ownerID, object))
	}
	return refs, nil
}

// ItemDetail stats one object for its size and content type.
func (s *ObjectSource) ItemDetail(ctx context.Context, ref reportcache.ItemRef) (reportcache.ItemDetail, error) {
	info, err := s.client.StatObject(ctx, s.bucket, ref.StoragePath, minio.StatObjectOptions{})
	if err != nil {
		return reportcache.ItemDetail{}, fmt.Errorf("itemsource: stat object %q: %w", ref.StoragePath, err)
	}
	return reportcache.ItemDetail{
		SizeBytes:   info.Size,
		ContentType: info.ContentType,
	}, nil
}

// ownerPrefix maps an owner to its key prefix. A '/' in the owner would cross
// prefix boundaries and a bare '_' would let two owners collide, so both are
// hex-escaped as "_xx"; distinct owners always get distinct prefixes.
func ownerPrefix(ownerID string) string {
	var b strings.Builder
	b.Grow(len(ownerID) + 1)
	for i := 0; i < len(ownerID); i++ {
		switch c := ownerID[i]; c {
		case '/', '_':
			b.WriteByte('_')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String() + "/"
}

const hexDigits = "0123456789abcdef"

func objectRef(ownerID string, object minio.ObjectInfo) reportcache.ItemRef {
	return reportcache.ItemRef{
		ID:          object.Key,
		OwnerID:     ownerID,
		Name:        path.Base(object.Key),
		StoragePath: object.Key,
		UploadedAt:  object.LastModified,
	}
}
