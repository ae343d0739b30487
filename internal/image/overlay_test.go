package image

import "testing"

func TestDrawLabel_ModifiesCenter(t *testing.T) {
	width, height := 256, 256
	pixels := make([]uint16, width*height)
	for i := range pixels {
		pixels[i] = 2000
	}

	DrawLabel(pixels, width, height, "File 1/10")

	bright, dark := 0, 0
	for _, p := range pixels {
		switch p {
		case labelValue:
			bright++
		case 0:
			dark++
		}
	}
	if bright == 0 {
		t.Error("Label text pixels not drawn at full intensity")
	}
	if dark == 0 {
		t.Error("Label outline pixels not darkened")
	}
}

func TestDrawLabel_LeavesCornersUntouched(t *testing.T) {
	width, height := 256, 256
	pixels := make([]uint16, width*height)
	for i := range pixels {
		pixels[i] = 1234
	}

	DrawLabel(pixels, width, height, "File 1/2")

	// The label is centered and spans ~30% of the width, so corners stay.
	corners := []int{0, width - 1, (height - 1) * width, height*width - 1}
	for _, idx := range corners {
		if pixels[idx] != 1234 {
			t.Errorf("Corner pixel %d modified to %d", idx, pixels[idx])
		}
	}
}

func TestDrawLabel_NoOps(t *testing.T) {
	pixels := make([]uint16, 10)
	// Mismatched dimensions and empty text must leave the grid alone.
	DrawLabel(pixels, 100, 100, "File 1/1")
	DrawLabel(pixels, 2, 5, "")
	for i, p := range pixels {
		if p != 0 {
			t.Fatalf("Pixel %d modified to %d", i, p)
		}
	}
}
