package services

import (
	"testing"

	"rentcompare/models"
)

func TestIdentifyFieldsStatCanHeaders(t *testing.T) {
	sample := models.RawRecord{
		"REF_DATE":          "2023-01-01",
		"GEO":               "Toronto, Ontario",
		"Type of unit":      "One bedroom units",
		"Type of structure": "Apartment structures of six units and over",
		"VALUE":             "1500",
	}

	fm := IdentifyFields(sample)

	if fm.Geography != "GEO" {
		t.Errorf("Geography: got %q, want GEO", fm.Geography)
	}
	if fm.Bedrooms != "Type of unit" {
		t.Errorf("Bedrooms: got %q, want Type of unit", fm.Bedrooms)
	}
	if fm.Value != "VALUE" {
		t.Errorf("Value: got %q, want VALUE", fm.Value)
	}
	if fm.RefDate != "REF_DATE" {
		t.Errorf("RefDate: got %q, want REF_DATE", fm.RefDate)
	}
	if fm.StructureType != "Type of structure" {
		t.Errorf("StructureType: got %q, want Type of structure", fm.StructureType)
	}
}

func TestIdentifyFieldsAlternateHeaders(t *testing.T) {
	sample := models.RawRecord{
		"City":          "Ottawa",
		"Bedroom Count": "2",
		"Average Rent":  "$1,800",
		"Survey Period": "2023",
	}

	fm := IdentifyFields(sample)

	if fm.Geography != "City" {
		t.Errorf("Geography: got %q, want City", fm.Geography)
	}
	if fm.Bedrooms != "Bedroom Count" {
		t.Errorf("Bedrooms: got %q, want Bedroom Count", fm.Bedrooms)
	}
	if fm.Value != "Average Rent" {
		t.Errorf("Value: got %q, want Average Rent", fm.Value)
	}
	if fm.RefDate != "Survey Period" {
		t.Errorf("RefDate: got %q, want Survey Period", fm.RefDate)
	}
	if fm.StructureType != "" {
		t.Errorf("StructureType: got %q, want empty", fm.StructureType)
	}
}

func TestIdentifyFieldsUnrecognisedHeaders(t *testing.T) {
	sample := models.RawRecord{"a": "1", "b": "2"}

	fm := IdentifyFields(sample)

	if fm.Geography != "" || fm.Bedrooms != "" || fm.Value != "" ||
		fm.RefDate != "" || fm.StructureType != "" {
		t.Errorf("expected all roles empty for unrecognised headers, got %+v", fm)
	}
}
