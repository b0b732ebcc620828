// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package s3fixture manages buckets through the S3 API, so scenarios can
// prepare and clean up state without going through the console.
package s3fixture

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var (
	mon = monkit.Package()

	// Error is the s3 fixture error class.
	Error = errs.Class("s3 fixture")
)

// Config configures the S3 endpoint. The fixture is disabled when Endpoint
// is empty.
type Config struct {
	Endpoint string `help:"host:port of the S3 gateway used for out-of-band cleanup, disabled when empty" default:""`
	Secure   bool   `help:"use https for the S3 gateway" default:"true"`
	Region   string `help:"region sent to the S3 gateway" default:"us-east-1"`
}

// Enabled reports whether an endpoint is configured.
func (config Config) Enabled() bool { return config.Endpoint != "" }

// Buckets creates, deletes and inspects buckets.
type Buckets struct {
	log    *zap.Logger
	config Config
	client *minio.Client
}

// New creates a bucket fixture for the endpoint.
func New(log *zap.Logger, config Config, accessKey, secretKey string) (*Buckets, error) {
	if !config.Enabled() {
		return nil, Error.New("no endpoint configured")
	}
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       config.Secure,
		Region:       config.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &Buckets{log: log, config: config, client: client}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (buckets *Buckets) EnsureBucket(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	exists, err := buckets.BucketExists(ctx, name)
	if err != nil || exists {
		return err
	}
	err = buckets.client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: buckets.config.Region})
	if err != nil {
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return Error.Wrap(err)
	}
	buckets.log.Debug("created bucket", zap.String("bucket", name))
	return nil
}

// DeleteBucket removes the bucket together with its objects. Deleting a
// missing bucket is not an error.
func (buckets *Buckets) DeleteBucket(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	exists, err := buckets.BucketExists(ctx, name)
	if err != nil || !exists {
		return err
	}

	objects := buckets.client.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true})
	var group errs.Group
	for removeErr := range buckets.client.RemoveObjects(ctx, name, objects, minio.RemoveObjectsOptions{}) {
		group.Add(Error.New("remove %q: %v", removeErr.ObjectName, removeErr.Err))
	}
	if err := group.Err(); err != nil {
		return err
	}

	if err := buckets.client.RemoveBucket(ctx, name); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchBucket" {
			return nil
		}
		return Error.Wrap(err)
	}
	buckets.log.Debug("deleted bucket", zap.String("bucket", name))
	return nil
}

// BucketExists reports whether the bucket exists.
func (buckets *Buckets) BucketExists(ctx context.Context, name string) (_ bool, err error) {
	defer mon.Task()(&ctx)(&err)

	exists, err := buckets.client.BucketExists(ctx, name)
	if err != nil {
		return false, Error.Wrap(err)
	}
	return exists, nil
}

// Sweep deletes every bucket whose name starts with prefix and returns the
// deleted names. An empty prefix is refused.
func (buckets *Buckets) Sweep(ctx context.Context, prefix string) (deleted []string, err error) {
	defer mon.Task()(&ctx)(&err)

	if prefix == "" {
		return nil, Error.New("refusing to sweep without a prefix")
	}

	all, err := buckets.client.ListBuckets(ctx)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	var group errs.Group
	for _, bucket := range all {
		if !strings.HasPrefix(bucket.Name, prefix) {
			continue
		}
		if err := buckets.DeleteBucket(ctx, bucket.Name); err != nil {
			group.Add(err)
			continue
		}
		deleted = append(deleted, bucket.Name)
	}
	return deleted, group.Err()
}
