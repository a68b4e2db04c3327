package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
)

func TestSqliteConstraintColumns(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{
			msg:  "constraint failed: UNIQUE constraint failed: measurement_rules.rule_name (2067)",
			want: "measurement_rules.rule_name",
		},
		{
			msg:  "constraint failed: UNIQUE constraint failed: measurement_rules.category_small, measurement_rules.sleeve_type, measurement_rules.neck_line_type (2067)",
			want: "measurement_rules.category_small, measurement_rules.sleeve_type, measurement_rules.neck_line_type",
		},
		{
			msg:  "UNIQUE constraint failed: chart_types.category_large, chart_types.category_medium, chart_types.section, chart_types.detail_type",
			want: "chart_types.category_large, chart_types.category_medium, chart_types.section, chart_types.detail_type",
		},
		{
			msg:  "database is locked (5)",
			want: "",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sqliteConstraintColumns(tt.msg), tt.msg)
	}
}

func TestSqliteConstraintColumnsMatchAliases(t *testing.T) {
	name := sqliteConstraintColumns("constraint failed: UNIQUE constraint failed: measurement_rules.category_small, measurement_rules.sleeve_type, measurement_rules.neck_line_type (2067)")
	require.Equal(t, model.ConstraintRuleCombination, ruleConstraintAliases[name])

	name = sqliteConstraintColumns("constraint failed: UNIQUE constraint failed: chart_types.category_large, chart_types.category_medium, chart_types.section, chart_types.detail_type (2067)")
	require.Equal(t, model.ConstraintChartTypeCategory, chartTypeConstraintAliases[name])
}
