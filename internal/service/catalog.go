package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/cache"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
	"github.com/highgarden7/dddorok-admin-backend/internal/util"
)

const catalogCacheKeyAll = "*"

// Catalog is the read-mostly master catalog of measurement item codes.
type Catalog struct {
	MeasurementItemCodeRepo *repo.MeasurementItemCode

	codesCache *cache.Keyed[[]*model.MeasurementItemCode]
}

func NewCatalog(conf *appconfig.Config, measurementItemCodeRepo *repo.MeasurementItemCode) *Catalog {
	return &Catalog{
		MeasurementItemCodeRepo: measurementItemCodeRepo,
		codesCache:              cache.NewKeyed[[]*model.MeasurementItemCode]("catalog#codes", conf.CatalogCacheTTL),
	}
}

// Cache: catalog#codes|{category}, CatalogCacheTTL
func (s *Catalog) GetCodes(ctx context.Context, category string) ([]*model.MeasurementItemCode, error) {
	key := category
	if key == "" {
		key = catalogCacheKeyAll
	}
	return s.codesCache.GetSet(key, func() ([]*model.MeasurementItemCode, error) {
		return s.MeasurementItemCodeRepo.GetCodes(ctx, category)
	})
}

// Resolve looks codes up in the catalog through db, which may be a transaction.
// Resolved rows are returned keyed by code; missing lists the codes that are
// unknown, in request order and without repeats.
func (s *Catalog) Resolve(ctx context.Context, db bun.IDB, codes []string) (map[string]*model.MeasurementItemCode, []string, error) {
	codes = util.DedupeStable(codes)

	found, err := s.MeasurementItemCodeRepo.WithTx(db).FindByCodes(ctx, codes)
	if err != nil {
		return nil, nil, err
	}

	resolved := lo.KeyBy(found, func(c *model.MeasurementItemCode) string { return c.Code })
	missing := lo.Filter(codes, func(code string, _ int) bool {
		_, ok := resolved[code]
		return !ok
	})

	return resolved, missing, nil
}

// SeedCodes upserts catalog rows by code and drops the read cache.
func (s *Catalog) SeedCodes(ctx context.Context, entries []*types.CatalogSeedEntry) (int64, error) {
	// a later entry for the same code wins
	byCode := lo.KeyBy(entries, func(e *types.CatalogSeedEntry) string { return e.Code })
	order := util.DedupeStable(lo.Map(entries, func(e *types.CatalogSeedEntry, _ int) string { return e.Code }))

	codes := make([]*model.MeasurementItemCode, 0, len(order))
	for _, code := range order {
		e := byCode[code]
		codes = append(codes, &model.MeasurementItemCode{
			ID:       uuid.NewString(),
			Category: e.Category,
			Section:  e.Section,
			Label:    e.Label,
			Code:     e.Code,
		})
	}

	n, err := s.MeasurementItemCodeRepo.UpsertCodes(ctx, codes)
	if err != nil {
		return 0, err
	}
	s.codesCache.Flush()

	log.Info().
		Str("evt.name", "catalog.seeded").
		Int("entries", len(codes)).
		Int64("rows", n).
		Msg("master catalog seeded")

	return n, nil
}
