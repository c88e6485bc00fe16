package services

import "testing"

func TestNormalizeBedrooms(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Bachelor units", "0"},
		{"bachelor", "0"},
		{"studio", "0"},
		{"Studio apartment", "0"},
		{"one bedroom units", "1"},
		{"1 bedroom", "1"},
		{"two bedroom units", "2"},
		{"2", "2"},
		{"2 bedroom", "2"},
		{"three bedroom units", "3+"},
		{"three or more", "3+"},
		{"3+", "3+"},
		{"5 bedroom", "3+"},
		{"4", "3+"},
		{"penthouse", "penthouse"},
		{"", ""},
	}

	for _, tt := range tests {
		got := NormalizeBedrooms(tt.label)
		if got != tt.want {
			t.Errorf("NormalizeBedrooms(%q) = %q; want %q", tt.label, got, tt.want)
		}
	}
}

func TestNormalizeBedroomsAlwaysCanonicalOrOriginal(t *testing.T) {
	canonical := map[string]bool{"0": true, "1": true, "2": true, "3+": true}
	labels := []string{"Bachelor units", "bachelor", "studio", "1 bedroom",
		"one bedroom units", "2", "three or more", "5 bedroom", "loft", "n/a"}

	for _, label := range labels {
		got := NormalizeBedrooms(label)
		if !canonical[got] && got != label {
			t.Errorf("NormalizeBedrooms(%q) = %q; want a canonical bucket or the original", label, got)
		}
	}
}

func TestMapStructureTypeToCategory(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Row and apartment structures of three units and over", "Multi-Plex"},
		{"Row structures of three units and over", "Townhouse"},
		{"Apartment structures of three units and over", "Low-Rise"},
		{"Apartment structures of six units and over", "Highrise"},
		{"Detached house", ""},
		{"apartment structures of six units and over", ""}, // exact match only
		{"", ""},
	}

	for _, tt := range tests {
		got := MapStructureTypeToCategory(tt.label)
		if got != tt.want {
			t.Errorf("MapStructureTypeToCategory(%q) = %q; want %q", tt.label, got, tt.want)
		}
	}
}

func TestIsOntarioLocation(t *testing.T) {
	tests := []struct {
		geography string
		want      bool
	}{
		{"Toronto, Ontario", true},
		{"Ottawa-Gatineau, Ontario part", true},
		{"London, ON", true},
		{"Hamilton ON, Canada", true},
		{"Montreal, Quebec", false},
		{"Vancouver, British Columbia", false},
		{"", false},
	}

	for _, tt := range tests {
		got := IsOntarioLocation(tt.geography)
		if got != tt.want {
			t.Errorf("IsOntarioLocation(%q) = %v; want %v", tt.geography, got, tt.want)
		}
	}
}
