package types

type CatalogSeedEntry struct {
	Category string `json:"category" validate:"required,max=64"`
	Section  string `json:"section" validate:"required,max=64"`
	Label    string `json:"label" validate:"required,max=128"`
	Code     string `json:"code" validate:"required,max=64,measurementcode"`
}
