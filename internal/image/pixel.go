package image

import "math/rand/v2"

// GenerateSingleImage synthesizes the pixel grid for one MR frame.
//
// Samples are uniform noise in the 12-bit range (0-4095) typical for MRI,
// drawn from a PCG stream keyed on seed so the same seed always yields the
// same grid. Returns nil if the dimensions are invalid or width*height
// would overflow int.
func GenerateSingleImage(width, height int, seed int64) []uint16 {
	if width <= 0 || height <= 0 {
		return nil
	}

	maxSize := int(^uint(0) >> 1)
	if width > maxSize/height {
		return nil
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	size := width * height
	pixels := make([]uint16, size)
	for i := 0; i < size; i++ {
		pixels[i] = uint16(rng.IntN(4096))
	}

	return pixels
}
