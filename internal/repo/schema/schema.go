// Package schema creates the relational schema from the bun models, including
// the foreign keys that carry the ownership rules between entity families.
package schema

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
)

type table struct {
	model       any
	foreignKeys []string
	indexes     map[string][]string
}

// tables is in dependency order; DropTables walks it backwards.
var tables = []table{
	{model: (*model.MeasurementItemCode)(nil), indexes: map[string][]string{
		"measurement_item_codes_category_idx": {"category"},
	}},
	{model: (*model.MeasurementRule)(nil)},
	{
		model: (*model.MeasurementRuleItem)(nil),
		foreignKeys: []string{
			`("rule_id") REFERENCES "measurement_rules" ("id") ON DELETE CASCADE`,
		},
		indexes: map[string][]string{
			"measurement_rule_items_rule_id_idx": {"rule_id"},
		},
	},
	{model: (*model.Resource)(nil), indexes: map[string][]string{
		"resources_created_at_idx": {"created_at"},
	}},
	{
		model: (*model.ChartType)(nil),
		foreignKeys: []string{
			`("svg_file_id") REFERENCES "resources" ("id") ON DELETE RESTRICT`,
		},
		indexes: map[string][]string{
			"chart_types_svg_file_id_idx": {"svg_file_id"},
		},
	},
	{
		model: (*model.ChartTypeCodeMap)(nil),
		foreignKeys: []string{
			`("chart_type_id") REFERENCES "chart_types" ("id") ON DELETE CASCADE`,
		},
		indexes: map[string][]string{
			"chart_type_code_maps_chart_type_id_idx": {"chart_type_id"},
		},
	},
	{
		model: (*model.Template)(nil),
		foreignKeys: []string{
			`("measurement_rule_id") REFERENCES "measurement_rules" ("id") ON DELETE RESTRICT`,
		},
		indexes: map[string][]string{
			"templates_measurement_rule_id_idx": {"measurement_rule_id"},
		},
	},
	{
		model: (*model.TemplateMeasurementValue)(nil),
		foreignKeys: []string{
			`("template_id") REFERENCES "templates" ("id") ON DELETE CASCADE`,
		},
		indexes: map[string][]string{
			"template_measurement_values_template_id_idx": {"template_id"},
		},
	},
	{
		// no cascade from either side: mappings are removed explicitly
		model: (*model.TemplateChartTypeMap)(nil),
		foreignKeys: []string{
			`("template_id") REFERENCES "templates" ("id") ON DELETE RESTRICT`,
			`("chart_type_id") REFERENCES "chart_types" ("id") ON DELETE RESTRICT`,
		},
		indexes: map[string][]string{
			"template_chart_type_maps_chart_type_id_idx": {"chart_type_id"},
		},
	},
}

// CreateTables creates every table and index that does not exist yet.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return errors.Wrapf(err, "failed to create table for %T", t.model)
		}
		for name, columns := range t.indexes {
			_, err := db.NewCreateIndex().
				Model(t.model).
				Index(name).
				Column(columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to create index %s", name)
			}
		}
	}

	log.Info().
		Str("evt.name", "schema.created").
		Int("tables", len(tables)).
		Msg("schema is up to date")

	return nil
}

// DropTables drops every table, dependents first.
func DropTables(ctx context.Context, db bun.IDB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(tables[i].model).IfExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "failed to drop table for %T", tables[i].model)
		}
	}
	return nil
}
