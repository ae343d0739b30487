package dicom

import "testing"

func TestSolveDimensions_Square(t *testing.T) {
	geo, clamped, err := SolveDimensions(100*1024*1024, 10)
	if err != nil {
		t.Fatalf("SolveDimensions failed: %v", err)
	}
	if clamped {
		t.Error("100MB should not hit the element length clamp")
	}
	if geo.Width != geo.Height {
		t.Errorf("Expected square geometry, got %dx%d", geo.Width, geo.Height)
	}
}

func TestSolveDimensions_MultipleAlignment(t *testing.T) {
	tests := []struct {
		name      string
		totalSize int64
		numFrames int
	}{
		{"small", 5 * 1024 * 1024, 5},
		{"medium", 100 * 1024 * 1024, 10},
		{"large", 1024 * 1024 * 1024, 50},
		{"single frame", 10 * 1024 * 1024, 1},
		{"many frames", 50 * 1024 * 1024, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo, _, err := SolveDimensions(tt.totalSize, tt.numFrames)
			if err != nil {
				t.Fatalf("SolveDimensions failed: %v", err)
			}
			if geo.Width < 128 {
				t.Errorf("Width %d below minimum 128", geo.Width)
			}
			if geo.Width >= 256 && geo.Width%256 != 0 {
				t.Errorf("Width %d not a multiple of 256", geo.Width)
			}
			if geo.Width < 256 && geo.Width != 128 {
				t.Errorf("Width %d below 256 must be exactly 128", geo.Width)
			}
		})
	}
}

func TestSolveDimensions_BudgetRespected(t *testing.T) {
	totalSize := int64(100 * 1024 * 1024)
	numFrames := 10

	geo, _, err := SolveDimensions(totalSize, numFrames)
	if err != nil {
		t.Fatalf("SolveDimensions failed: %v", err)
	}

	pixelTotal := geo.PixelBytes() * int64(numFrames)
	budget := totalSize - metadataOverheadBytes
	if pixelTotal > budget {
		t.Errorf("Pixel bytes %d exceed budget %d", pixelTotal, budget)
	}
}

func TestSolveDimensions_LargeStudy(t *testing.T) {
	// 120 frames at 4.5GB, the reference workload.
	geo, _, err := SolveDimensions(4831838208, 120)
	if err != nil {
		t.Fatalf("SolveDimensions failed: %v", err)
	}
	if geo.Width < 512 {
		t.Errorf("Expected at least 512px frames for 4.5GB/120, got %d", geo.Width)
	}
}

func TestSolveDimensions_Clamp(t *testing.T) {
	// A single frame from a 100GB budget must clamp to the element limit.
	geo, clamped, err := SolveDimensions(100*1024*1024*1024, 1)
	if err != nil {
		t.Fatalf("SolveDimensions failed: %v", err)
	}
	if !clamped {
		t.Error("Expected clamp for a 100GB single-frame budget")
	}
	if geo.PixelBytes() > maxPixelBytes {
		t.Errorf("Clamped geometry still produces %d pixel bytes, limit %d", geo.PixelBytes(), maxPixelBytes)
	}
}

func TestSolveDimensions_Floor(t *testing.T) {
	// A tiny budget still yields the 128px floor.
	geo, _, err := SolveDimensions(200*1024, 2)
	if err != nil {
		t.Fatalf("SolveDimensions failed: %v", err)
	}
	if geo.Width != 128 || geo.Height != 128 {
		t.Errorf("Expected 128x128 floor, got %dx%d", geo.Width, geo.Height)
	}
}

func TestSolveDimensions_Invalid(t *testing.T) {
	if _, _, err := SolveDimensions(0, 10); err == nil {
		t.Error("Expected error for zero total size")
	}
	if _, _, err := SolveDimensions(10*1024*1024, 0); err == nil {
		t.Error("Expected error for zero frames")
	}
	if _, _, err := SolveDimensions(50*1024, 1); err == nil {
		t.Error("Expected error when budget is below the metadata overhead")
	}
}
