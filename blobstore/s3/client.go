package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/tensorann/blobstore"
)

// Client is the subset of the S3 API the store uses. *s3.Client satisfies it.
type Client interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ Client = (*s3.Client)(nil)

// Options configures New.
type Options struct {
	// Prefix is prepended to every key.
	Prefix string

	// Region overrides the region from the shared AWS configuration.
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for LocalStack.
	Endpoint string

	// UsePathStyle forces path-style addressing.
	UsePathStyle bool

	// CommitTable, if set, names the DynamoDB table used to publish CURRENT.
	CommitTable string

	// Upload tunes the uploader.
	Upload UploadConfig
}

// New loads the default AWS configuration and returns a store for bucket.
// With CommitTable set the result is a *DDBCommitStore, otherwise a *Store.
func New(ctx context.Context, bucket string, optFns ...func(o *Options)) (blobstore.BlobStore, error) {
	opts := Options{Upload: DefaultUploadConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}

	var cfgFns []func(*config.LoadOptions) error
	if opts.Region != "" {
		cfgFns = append(cfgFns, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, cfgFns...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	store := NewStore(client, bucket, opts.Prefix, func(c *UploadConfig) { *c = opts.Upload })
	if opts.CommitTable == "" {
		return store, nil
	}

	baseURI := "s3://" + bucket + "/" + opts.Prefix
	return NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), opts.CommitTable, baseURI), nil
}
