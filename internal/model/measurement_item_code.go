package model

import "github.com/uptrace/bun"

// MeasurementItemCode is a row of the master catalog of canonical body-measurement codes.
type MeasurementItemCode struct {
	bun.BaseModel `bun:"measurement_item_codes,alias:mic"`

	ID       string `bun:"id,pk,type:uuid" json:"id"`
	Category string `bun:"category,notnull" json:"category"`
	Section  string `bun:"section,notnull" json:"section"`
	Label    string `bun:"label,notnull" json:"label"`
	Code     string `bun:"code,notnull,unique" json:"code"`
}
