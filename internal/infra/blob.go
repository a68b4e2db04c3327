package infra

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/blobstore"
)

func BlobStore(conf *appconfig.Config) (blobstore.Store, error) {
	if conf.BlobDriver == appconfig.BlobDriverMemory {
		log.Warn().
			Str("evt.name", "infra.blob.memory").
			Msg("infra: blob: using in-memory blob store; uploaded assets do not survive a restart")
		return blobstore.NewMemory(conf.S3PublicBaseURL), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s3, err := blobstore.NewS3(ctx, blobstore.S3Config{
		Region:          conf.S3Region,
		Bucket:          conf.S3Bucket,
		Endpoint:        conf.S3Endpoint,
		AccessKeyID:     conf.AWSAccessKey,
		SecretAccessKey: conf.AWSSecretKey,
		PathStyle:       conf.S3PathStyle,
		PublicBaseURL:   conf.S3PublicBaseURL,
	})
	if err != nil {
		log.Error().Err(err).Msg("infra: blob: failed to create s3 client")
		return nil, err
	}

	return s3, nil
}
