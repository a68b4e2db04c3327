package service

import (
	"context"
	"fmt"
	"path"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
	"golang.org/x/text/encoding/charmap"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/blobstore"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/observability"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
)

const (
	SvgContentType = "image/svg+xml"
	SvgKeyPrefix   = "public/chart-svg/"

	// pendingSvgKey marks a resource row whose blob has not been stored yet.
	pendingSvgKey = "pending"
)

// SvgKey is the blob key of the SVG asset of a resource.
func SvgKey(resourceID string) string {
	return fmt.Sprintf("%s%s.svg", SvgKeyPrefix, resourceID)
}

type ChartType struct {
	DB                       *bun.DB
	Config                   *appconfig.Config
	ChartTypeRepo            *repo.ChartType
	ResourceRepo             *repo.Resource
	TemplateChartTypeMapRepo *repo.TemplateChartTypeMap
	CatalogService           *Catalog
	Blob                     blobstore.Store
}

func NewChartType(
	db *bun.DB,
	conf *appconfig.Config,
	chartTypeRepo *repo.ChartType,
	resourceRepo *repo.Resource,
	templateChartTypeMapRepo *repo.TemplateChartTypeMap,
	catalogService *Catalog,
	blob blobstore.Store,
) *ChartType {
	return &ChartType{
		DB:                       db,
		Config:                   conf,
		ChartTypeRepo:            chartTypeRepo,
		ResourceRepo:             resourceRepo,
		TemplateChartTypeMapRepo: templateChartTypeMapRepo,
		CatalogService:           catalogService,
		Blob:                     blob,
	}
}

// buildCodeMaps expands requested code maps into one row per svg path. Entries
// whose code is not in resolved are dropped.
func buildCodeMaps(chartTypeID string, reqs []*types.MeasurementCodeMapRequest, resolved map[string]*model.MeasurementItemCode) []*model.ChartTypeCodeMap {
	maps := []*model.ChartTypeCodeMap{}
	for _, req := range reqs {
		if _, ok := resolved[req.MeasurementCode]; !ok {
			continue
		}
		for _, pathID := range req.SvgPathIDs {
			maps = append(maps, &model.ChartTypeCodeMap{
				ID:              uuid.NewString(),
				ChartTypeID:     chartTypeID,
				MeasurementCode: req.MeasurementCode,
				PathID:          pathID,
			})
		}
	}
	return lo.UniqBy(maps, func(m *model.ChartTypeCodeMap) string {
		return m.MeasurementCode + "\x00" + m.PathID
	})
}

func requestedCodes(reqs []*types.MeasurementCodeMapRequest) []string {
	return lo.Map(reqs, func(r *types.MeasurementCodeMapRequest, _ int) string { return r.MeasurementCode })
}

// CreateChartType persists a chart type and its code maps. Unknown measurement
// codes are skipped rather than rejected.
func (s *ChartType) CreateChartType(ctx context.Context, req *types.ChartTypeRequest) (*types.ChartTypeDetail, error) {
	var chartTypeID string
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		chartTypes := s.ChartTypeRepo.WithTx(tx)

		exists, err := chartTypes.ExistsByCategory(ctx, req.CategoryLarge, req.CategoryMedium, req.Section, req.DetailType)
		if err != nil {
			return err
		}
		if exists {
			return dderr.NewDuplicate(model.ConstraintChartTypeCategory,
				"a chart type for %s / %s / %s / %s already exists", req.CategoryLarge, req.CategoryMedium, req.Section, req.DetailType)
		}

		exists, err = s.ResourceRepo.WithTx(tx).ExistsByID(ctx, req.SvgFileID)
		if err != nil {
			return err
		}
		if !exists {
			return dderr.ErrInvalidReference.Msg("svg resource %s does not exist", req.SvgFileID)
		}

		resolved, missing, err := s.CatalogService.Resolve(ctx, tx, requestedCodes(req.MeasurementCodeMaps))
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			log.Debug().
				Str("evt.name", "chart_type.codes.dropped").
				Strs("codes", missing).
				Msg("dropping unknown measurement codes from chart type")
		}

		chartType := &model.ChartType{}
		if err := copier.Copy(chartType, req); err != nil {
			return errors.Wrap(err, "failed to map chart type request")
		}
		now := time.Now().UTC()
		chartType.ID = uuid.NewString()
		chartType.CreatedAt = now
		chartType.UpdatedAt = now

		if err := chartTypes.CreateChartType(ctx, chartType); err != nil {
			return err
		}
		if err := chartTypes.InsertCodeMaps(ctx, buildCodeMaps(chartType.ID, req.MeasurementCodeMaps, resolved)); err != nil {
			return err
		}

		chartTypeID = chartType.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "chart_type.created").
		Str("chart_type_id", chartTypeID).
		Str("resource_id", req.SvgFileID).
		Msg("chart type created")

	return s.GetChartTypeByID(ctx, chartTypeID)
}

// UpdateMeasurementCodeMaps replaces every code map of a chart type. Unlike
// creation, any unknown code rejects the whole request.
func (s *ChartType) UpdateMeasurementCodeMaps(ctx context.Context, id string, req *types.MeasurementCodeMapsRequest) (*types.ChartTypeDetail, error) {
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		chartTypes := s.ChartTypeRepo.WithTx(tx)

		exists, err := chartTypes.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return dderr.ErrNotFound.Msg("chart type %s not found", id)
		}

		resolved, missing, err := s.CatalogService.Resolve(ctx, tx, requestedCodes(req.MeasurementCodeMaps))
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return dderr.NewMissingCodes(missing)
		}

		if err := chartTypes.DeleteCodeMapsByChartTypeID(ctx, id); err != nil {
			return err
		}
		if err := chartTypes.InsertCodeMaps(ctx, buildCodeMaps(id, req.MeasurementCodeMaps, resolved)); err != nil {
			return err
		}
		return chartTypes.TouchChartType(ctx, &model.ChartType{ID: id, UpdatedAt: time.Now().UTC()})
	})
	if err != nil {
		return nil, err
	}

	return s.GetChartTypeByID(ctx, id)
}

func (s *ChartType) DeleteChartType(ctx context.Context, id string) error {
	return s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		chartTypes := s.ChartTypeRepo.WithTx(tx)

		exists, err := chartTypes.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return dderr.ErrNotFound.Msg("chart type %s not found", id)
		}

		linked, err := s.TemplateChartTypeMapRepo.WithTx(tx).CountByChartTypeID(ctx, id)
		if err != nil {
			return err
		}
		if linked > 0 {
			return dderr.ErrReferentialConflict.Msg("chart type is used by %d template(s) and cannot be deleted", linked)
		}

		if _, err := chartTypes.DeleteChartType(ctx, id); err != nil {
			return err
		}

		// the svg resource is left for the reclaimer
		log.Info().
			Str("evt.name", "chart_type.deleted").
			Str("chart_type_id", id).
			Msg("chart type deleted")
		return nil
	})
}

func (s *ChartType) GetChartTypes(ctx context.Context) ([]*types.ChartTypeSummary, error) {
	chartTypes, err := s.ChartTypeRepo.GetChartTypes(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(chartTypes, func(c *model.ChartType, _ int) *types.ChartTypeSummary {
		return types.NewChartTypeSummary(c)
	}), nil
}

func (s *ChartType) GetChartTypeByID(ctx context.Context, id string) (*types.ChartTypeDetail, error) {
	chartType, err := s.ChartTypeRepo.GetChartTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chartType.CodeMaps == nil {
		chartType.CodeMaps = []*model.ChartTypeCodeMap{}
	}

	templates, err := s.TemplateChartTypeMapRepo.GetTemplateRefsByChartTypeID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &types.ChartTypeDetail{
		ChartType: chartType,
		Templates: templates,
	}
	if chartType.SvgFile != nil {
		detail.SvgFileURL = s.Blob.PublicURL(chartType.SvgFile.RscURL)
	}
	return detail, nil
}

func (s *ChartType) validateUpload(upload *types.SvgUpload) error {
	if upload == nil || len(upload.Body) == 0 {
		return dderr.ErrValidation.Msg("svg file is required")
	}
	if upload.ContentType != SvgContentType {
		return dderr.ErrValidation.Msg("content type must be %s, got %q", SvgContentType, upload.ContentType)
	}
	if s.Config.SvgMaxBytes > 0 && len(upload.Body) > s.Config.SvgMaxBytes {
		return dderr.ErrPayloadTooLarge.Msg("svg file exceeds %d bytes", s.Config.SvgMaxBytes)
	}
	return nil
}

// UploadSvg records a Resource and stores the SVG bytes under its key. The row
// insert and the key update share a transaction; the blob write happens in
// between and is not part of it.
func (s *ChartType) UploadSvg(ctx context.Context, upload *types.SvgUpload) (*types.SvgUploadResponse, error) {
	if err := s.validateUpload(upload); err != nil {
		observability.SvgUploadOutcome.WithLabelValues("rejected").Inc()
		return nil, err
	}

	var (
		resource = &model.Resource{
			ID:     uuid.NewString(),
			Name:   restoreFilename(upload.Filename),
			Length: int64(len(upload.Body)),
			RscURL: pendingSvgKey,
			Domain: model.ResourceDomainChartType,
		}
		key    = SvgKey(resource.ID)
		stored bool
	)

	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		resources := s.ResourceRepo.WithTx(tx)

		now := time.Now().UTC()
		resource.CreatedAt = now
		resource.UpdatedAt = now
		if err := resources.CreateResource(ctx, resource); err != nil {
			return err
		}

		if err := s.Blob.Put(ctx, key, upload.Body, SvgContentType); err != nil {
			observability.SvgUploadOutcome.WithLabelValues("blob_failed").Inc()
			log.Error().
				Err(err).
				Str("evt.name", "upload.blob.failed").
				Str("resource_id", resource.ID).
				Str("key", key).
				Msg("failed to store svg blob")
			return errors.Wrap(err, "failed to store svg blob")
		}
		stored = true

		resource.RscURL = key
		resource.UpdatedAt = time.Now().UTC()
		return resources.UpdateResourceKey(ctx, resource)
	})
	if err != nil {
		if stored {
			observability.SvgUploadOutcome.WithLabelValues("commit_failed").Inc()
			s.compensateBlob(ctx, key)
		}
		return nil, err
	}

	observability.SvgUploadOutcome.WithLabelValues("ok").Inc()
	observability.SvgUploadBytes.Observe(float64(resource.Length))
	log.Info().
		Str("evt.name", "upload.stored").
		Str("resource_id", resource.ID).
		Str("key", key).
		Int64("length", resource.Length).
		Msg("svg uploaded")

	return &types.SvgUploadResponse{
		ResourceID: resource.ID,
		URL:        s.Blob.PublicURL(key),
	}, nil
}

// compensateBlob removes a blob whose row never committed. A failure here
// leaves the blob to the stray blob sweep of the reclaimer.
func (s *ChartType) compensateBlob(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.Blob.Delete(ctx, key); err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "upload.compensate.failed").
			Str("key", key).
			Msg("failed to remove blob of rolled back upload")
		return
	}
	log.Info().
		Str("evt.name", "upload.compensate.deleted").
		Str("key", key).
		Msg("removed blob of rolled back upload")
}

// restoreFilename undoes the latin1 decoding multipart parsers apply to UTF-8
// filenames. Names that do not round-trip to valid UTF-8 are kept as sent.
func restoreFilename(name string) string {
	if name == "" {
		return "upload.svg"
	}
	name = path.Base(name)
	raw, err := charmap.ISO8859_1.NewEncoder().String(name)
	if err != nil || raw == name || !utf8.ValidString(raw) {
		return name
	}
	return raw
}
