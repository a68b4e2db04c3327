package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	PublicBaseURL   string
}

type S3 struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

var _ Store = (*S3)(nil)

func NewS3(ctx context.Context, conf S3Config) (*S3, error) {
	if conf.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(conf.Region),
	}
	if conf.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = conf.PathStyle
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})

	publicBase := strings.TrimSuffix(conf.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.amazonaws.com", conf.Bucket)
	}

	return &S3{
		client:     client,
		bucket:     conf.Bucket,
		publicBase: publicBase,
	}, nil
}

func (s *S3) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Wrap(err, "failed to invoke PutObject")
	}
	return nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && (ae.ErrorCode() == "NoSuchKey" || ae.ErrorCode() == "NotFound") {
			return nil
		}
		return errors.Wrap(err, "failed to invoke DeleteObject")
	}
	return nil
}

func (s *S3) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to invoke ListObjectsV2")
		}
		for _, o := range page.Contents {
			objects = append(objects, Object{
				Key:          aws.ToString(o.Key),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}
	return objects, nil
}

func (s *S3) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimPrefix(key, "/")
}
