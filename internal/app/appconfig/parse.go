package appconfig

import (
	"fmt"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appcontext"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/projectpath"
)

const EnvPrefix = "dddorok"

func Parse(ctx appcontext.Ctx) (*Config, error) {
	err := godotenv.Load(filepath.Join(projectpath.Root, ".env"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	var config ConfigSpec
	err = envconfig.Process(EnvPrefix, &config)
	if err != nil {
		_ = envconfig.Usage(EnvPrefix, &config)
		return nil, fmt.Errorf("failed to parse configuration: %w. More info on how to configure this backend is located at internal/app/appconfig/spec.go", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Config{
		ConfigSpec: config,
		AppContext: ctx,
	}, nil
}

func (c *ConfigSpec) validate() error {
	switch c.DatabaseDriver {
	case DatabaseDriverPostgres, DatabaseDriverSQLite:
	default:
		return fmt.Errorf("invalid DDDOROK_DATABASE_DRIVER %q: expect one of postgres, sqlite", c.DatabaseDriver)
	}

	switch c.BlobDriver {
	case BlobDriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("DDDOROK_S3_BUCKET is required when DDDOROK_BLOB_DRIVER is s3")
		}
	case BlobDriverMemory:
	default:
		return fmt.Errorf("invalid DDDOROK_BLOB_DRIVER %q: expect one of s3, memory", c.BlobDriver)
	}

	if _, _, err := c.ReclaimerClock(); err != nil {
		return err
	}

	return nil
}

// ReclaimerClock resolves ReclaimerRunAt and ReclaimerTimezone into an offset
// from local midnight and the location it applies to.
func (c *ConfigSpec) ReclaimerClock() (time.Duration, *time.Location, error) {
	loc, err := time.LoadLocation(c.ReclaimerTimezone)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid DDDOROK_RECLAIMER_TIMEZONE %q: %w", c.ReclaimerTimezone, err)
	}
	t, err := time.Parse("15:04", c.ReclaimerRunAt)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid DDDOROK_RECLAIMER_RUN_AT %q: expect HH:MM: %w", c.ReclaimerRunAt, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, loc, nil
}
