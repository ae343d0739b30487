package util

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "kilobytes", input: "100KB", want: 100 * 1024},
		{name: "megabytes", input: "100MB", want: 100 * 1024 * 1024},
		{name: "gigabytes", input: "1GB", want: 1024 * 1024 * 1024},
		{name: "fractional_gigabytes", input: "4.5GB", want: 4831838208},
		{name: "fractional_megabytes", input: "1.5MB", want: 1572864},
		{name: "lowercase_unit", input: "10mb", want: 10 * 1024 * 1024},
		{name: "mixed_case_unit", input: "10Mb", want: 10 * 1024 * 1024},
		{name: "garbage", input: "invalid", wantErr: true},
		{name: "unsupported_unit", input: "100TB", wantErr: true},
		{name: "missing_unit", input: "100", wantErr: true},
		{name: "missing_number", input: "GB", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-5MB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSize(%q) expected error, got %d", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("ParseSize(%q) error should match ErrInvalidFormat, got: %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSize_CaseInsensitive(t *testing.T) {
	upper, err := ParseSize("10MB")
	if err != nil {
		t.Fatalf("ParseSize(10MB) failed: %v", err)
	}
	lower, err := ParseSize("10mb")
	if err != nil {
		t.Fatalf("ParseSize(10mb) failed: %v", err)
	}
	if upper != lower {
		t.Errorf("case sensitivity mismatch: %d vs %d", upper, lower)
	}
}

func TestParseSize_TruncatesTowardZero(t *testing.T) {
	// 0.0009765625KB is exactly 1 byte; anything below truncates to 0.
	got, err := ParseSize("0.0005KB")
	if err != nil {
		t.Fatalf("ParseSize failed: %v", err)
	}
	if got != 0 {
		t.Errorf("expected truncation toward zero, got %d", got)
	}
}
