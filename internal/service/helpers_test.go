package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/blobstore"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/testentry"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

var errInjected = errors.New("injected blob store failure")

type env struct {
	ctx context.Context

	DB     *bun.DB
	Config *appconfig.Config
	Memory *blobstore.Memory

	ResourceRepo             *repo.Resource
	ChartTypeRepo            *repo.ChartType
	TemplateChartTypeMapRepo *repo.TemplateChartTypeMap

	Catalog    *service.Catalog
	Rules      *service.MeasurementRule
	ChartTypes *service.ChartType
	Templates  *service.Template
	Reclaimer  *service.ResourceReclaimer
}

var catalogSeed = []*types.CatalogSeedEntry{
	{Category: "TOP", Section: "BODY", Label: "Body length", Code: "BODY_LENGTH"},
	{Category: "TOP", Section: "BODY", Label: "Chest width", Code: "CHEST_WIDTH"},
	{Category: "TOP", Section: "SLEEVE", Label: "Sleeve length", Code: "SLEEVE_LENGTH"},
	{Category: "BOTTOM", Section: "BODY", Label: "Waist width", Code: "WAIST_WIDTH"},
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{ctx: context.Background()}
	testentry.Populate(t,
		&e.DB, &e.Config, &e.Memory,
		&e.ResourceRepo, &e.ChartTypeRepo, &e.TemplateChartTypeMapRepo,
		&e.Catalog, &e.Rules, &e.ChartTypes, &e.Templates, &e.Reclaimer,
	)

	_, err := e.Catalog.SeedCodes(e.ctx, catalogSeed)
	require.NoError(t, err)
	return e
}

func (e *env) count(t *testing.T, m any) int {
	t.Helper()
	n, err := e.DB.NewSelect().Model(m).Count(e.ctx)
	require.NoError(t, err)
	return n
}

func (e *env) createRule(t *testing.T, name, small string, codes ...string) *model.MeasurementRule {
	t.Helper()
	rule, err := e.Rules.CreateRule(e.ctx, &types.MeasurementRuleRequest{
		CategoryLarge:  "TOP",
		CategoryMedium: "SWEATER",
		CategorySmall:  small,
		RuleName:       name,
		ItemCodes:      codes,
	})
	require.NoError(t, err)
	return rule
}

func (e *env) uploadSvg(t *testing.T) *types.SvgUploadResponse {
	t.Helper()
	res, err := e.ChartTypes.UploadSvg(e.ctx, &types.SvgUpload{
		Filename:    "front.svg",
		ContentType: service.SvgContentType,
		Body:        []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path id="p1"/></svg>`),
	})
	require.NoError(t, err)
	return res
}

func (e *env) createChartType(t *testing.T, detailType string) *types.ChartTypeDetail {
	t.Helper()
	upload := e.uploadSvg(t)
	chartType, err := e.ChartTypes.CreateChartType(e.ctx, &types.ChartTypeRequest{
		Name:           "front body " + detailType,
		CategoryLarge:  "TOP",
		CategoryMedium: "SWEATER",
		Section:        "BODY",
		DetailType:     detailType,
		SvgFileID:      upload.ResourceID,
		MeasurementCodeMaps: []*types.MeasurementCodeMapRequest{
			{MeasurementCode: "BODY_LENGTH", SvgPathIDs: []string{"p1"}},
		},
	})
	require.NoError(t, err)
	return chartType
}

func (e *env) createTemplate(t *testing.T, ruleID string, chartTypes ...*types.TemplateChartTypeRequest) *types.TemplateDetail {
	t.Helper()
	template, err := e.Templates.CreateTemplate(e.ctx, &types.TemplateRequest{
		Name:                "basic raglan",
		NeedleType:          "KNITTING",
		PatternStyle:        "TEXT",
		MeasurementRuleID:   ruleID,
		ConstructionMethods: []string{"TOP_DOWN"},
		ChartTypes:          chartTypes,
	})
	require.NoError(t, err)
	return template
}

// backdate moves the creation time of a resource out of the grace window.
func (e *env) backdate(t *testing.T, resourceID string, age time.Duration) {
	t.Helper()
	_, err := e.DB.NewUpdate().
		Model(&model.Resource{ID: resourceID, CreatedAt: time.Now().UTC().Add(-age)}).
		Column("created_at").
		WherePK().
		Exec(e.ctx)
	require.NoError(t, err)
}

// faultyStore fails Put, or Delete of selected keys, and passes everything else through.
type faultyStore struct {
	blobstore.Store

	mu         sync.Mutex
	failPut    bool
	failDelete map[string]bool
}

func (f *faultyStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.failPut {
		return errInjected
	}
	return f.Store.Put(ctx, key, body, contentType)
}

func (f *faultyStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failDelete[key]
	f.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.Store.Delete(ctx, key)
}
