package objstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rotisserie/eris"
)

// S3 stores objects in a bucket, optionally under a base key prefix.
type S3 struct {
	client *s3.Client
	bucket string
	base   string
}

// NewS3 creates an S3 backend from a root of the form s3://bucket or
// s3://bucket/prefix. Credentials are taken from the explicit config struct,
// falling back to the default provider chain when empty.
func NewS3(ctx context.Context, root string, creds Credentials) (*S3, error) {
	trimmed := strings.TrimPrefix(root, "s3://")
	bucket, base, _ := strings.Cut(trimmed, "/")
	if bucket == "" {
		return nil, eris.Errorf("objstore: invalid s3 root %q", root)
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if creds.Region != "" {
		opts = append(opts, awsconfig.WithRegion(creds.Region))
	}
	if creds.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "objstore: load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(creds.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: bucket, base: strings.Trim(base, "/")}, nil
}

func (s *S3) fullKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.base == "" {
		return key
	}
	if key == "" {
		return s.base
	}
	return s.base + "/" + key
}

func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(key)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return eris.Wrapf(err, "objstore: s3 put %s", key)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(key)),
	})
	if err != nil {
		return nil, eris.Wrapf(err, "objstore: s3 get %s", key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "objstore: s3 read %s", key)
	}
	return data, nil
}

func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.fullKey(prefix)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(full),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, eris.Wrapf(err, "objstore: s3 list %s", prefix)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if s.base != "" {
				key = strings.TrimPrefix(strings.TrimPrefix(key, s.base), "/")
			}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *S3) RemoveAll(ctx context.Context, prefix string) error {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}

	// DeleteObjects accepts at most 1000 keys per call.
	for len(keys) > 0 {
		batch := keys
		if len(batch) > 1000 {
			batch = batch[:1000]
		}
		keys = keys[len(batch):]

		ids := make([]types.ObjectIdentifier, len(batch))
		for i, key := range batch {
			ids[i] = types.ObjectIdentifier{Key: aws.String(s.fullKey(key))}
		}
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return eris.Wrapf(err, "objstore: s3 delete under %s", prefix)
		}
	}
	return nil
}
