package models

import "time"

// RawRecord is one parsed CSV row: arbitrary column name → raw string value.
// It only exists while a batch is being processed.
type RawRecord map[string]string

// FieldMap maps the five canonical roles to the actual column name discovered
// in a sample RawRecord, or "" when a role could not be detected. It is built
// from a single sample row and assumed to hold for the whole batch.
type FieldMap struct {
	Geography     string
	Bedrooms      string
	Value         string
	RefDate       string
	StructureType string
}

// RentalRecord is the canonical unit of processed data. String fields keep
// the raw dataset text; consumers parse Value to a number at use time.
type RentalRecord struct {
	Geography     string `json:"geography"`
	Bedrooms      string `json:"bedrooms"`
	Value         string `json:"value"`
	RefDate       string `json:"refDate"`
	DataAgeMonths *int   `json:"dataAgeMonths,omitempty"`
	Year          *int   `json:"year,omitempty"`
	StructureType string `json:"structureType,omitempty"`
	Category      string `json:"category,omitempty"`
}

// DatasetMetadata summarises a processed record set. The refresh scheduler
// diffs two of these to decide whether the upstream dataset changed.
type DatasetMetadata struct {
	RecordCount    int       `json:"recordCount"`
	LatestYear     int       `json:"latestYear"`
	BedroomBuckets []string  `json:"bedroomBuckets"`
	CityCount      int       `json:"cityCount"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// Snapshot is the precomputed dataset document stored on disk or served from
// a known network location.
type Snapshot struct {
	Metadata DatasetMetadata `json:"metadata"`
	Data     []RentalRecord  `json:"data"`
}

// AverageResult is the outcome of a lookup. A nil Value means no usable match
// was found; DataAgeMonths is set only when at least one matched record
// carried a data age.
type AverageResult struct {
	Value         *float64 `json:"value"`
	DataAgeMonths *int     `json:"dataAgeMonths,omitempty"`
}

// HousingCategory is one of the four fixed housing categories users can
// filter by. Static configuration, not derived from the dataset.
type HousingCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HousingCategories lists the four categories in display order.
var HousingCategories = []HousingCategory{
	{Name: "Multi-Plex", Description: "Mixed row and apartment buildings of three units and over"},
	{Name: "Townhouse", Description: "Row houses of three units and over"},
	{Name: "Low-Rise", Description: "Apartment buildings of three to five storeys"},
	{Name: "Highrise", Description: "Apartment buildings of six units and over"},
}
