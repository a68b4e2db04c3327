package model

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ResourceDomainChartType = "CHART_TYPE"
)

// Resource is the relational record of a blob; RscURL holds the blob key, not a URL.
type Resource struct {
	bun.BaseModel `bun:"resources,alias:r"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Length    int64     `bun:"length,notnull" json:"length"`
	RscURL    string    `bun:"rsc_url,notnull" json:"rsc_url"`
	Domain    string    `bun:"domain,notnull" json:"domain"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}
