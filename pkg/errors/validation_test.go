package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "STAGE", false},
		{"valid with number", "ROWS 3", false},
		{"valid unicode", "Café Lounge", false},
		{"valid 128 chars", strings.Repeat("a", 128), false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"six digit", "#4e79a7", false},
		{"three digit", "#fff", false},
		{"uppercase", "#F28E2B", false},

		{"missing hash", "4e79a7", true},
		{"wrong length", "#1234", true},
		{"non-hex", "#gggggg", true},
		{"named color", "red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "grand-hall", false},
		{"valid nested", "venues/grand-hall.toml", false},
		{"valid with extension", "hall.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"path traversal", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategorySlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single word", "seats", false},
		{"with counter", "rows_2", false},
		{"balcony slug", "balcony_l_1", false},

		{"empty", "", true},
		{"uppercase", "Seats", true},
		{"leading underscore", "_seats", true},
		{"trailing underscore", "seats_", true},
		{"double underscore", "balcony__l", true},
		{"hyphen", "balcony-l", true},
		{"space", "balcony l", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategorySlug(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCategorySlug(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
