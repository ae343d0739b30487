package image

import "testing"

func TestGenerateSingleImage_Basic(t *testing.T) {
	pixels := GenerateSingleImage(128, 128, 42)
	if pixels == nil {
		t.Fatal("Expected non-nil pixel grid")
	}
	if len(pixels) != 128*128 {
		t.Fatalf("Expected %d samples, got %d", 128*128, len(pixels))
	}
	for i, p := range pixels {
		if p > 4095 {
			t.Fatalf("Sample %d = %d exceeds the 12-bit range", i, p)
		}
	}
}

func TestGenerateSingleImage_Deterministic(t *testing.T) {
	a := GenerateSingleImage(256, 256, 7)
	b := GenerateSingleImage(256, 256, 7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Sample %d differs for the same seed: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerateSingleImage_SeedSensitive(t *testing.T) {
	a := GenerateSingleImage(128, 128, 1)
	b := GenerateSingleImage(128, 128, 2)
	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("Different seeds produced identical pixel grids")
	}
}

func TestGenerateSingleImage_Invalid(t *testing.T) {
	if GenerateSingleImage(0, 128, 1) != nil {
		t.Error("Expected nil for zero width")
	}
	if GenerateSingleImage(128, -1, 1) != nil {
		t.Error("Expected nil for negative height")
	}
	maxSize := int(^uint(0) >> 1)
	if GenerateSingleImage(maxSize, 2, 1) != nil {
		t.Error("Expected nil for overflowing dimensions")
	}
}
