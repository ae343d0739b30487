package dicom

import (
	"fmt"
	"math"
)

const (
	// metadataOverheadBytes is the per-run estimate reserved for everything
	// that is not pixel data (file meta groups, clinical attributes, DICOMDIR).
	metadataOverheadBytes = 100 * 1024

	// bytesPerSample matches the 16-bit pixel depth.
	bytesPerSample = 2

	// maxPixelBytes keeps a 10MiB safety margin below the 32-bit element
	// length ceiling, since one pixel-data element must hold a whole frame set.
	maxPixelBytes = int64(1)<<32 - 1 - 10*1024*1024
)

// Geometry is the square pixel matrix shared by every instance in a run.
type Geometry struct {
	Width  int
	Height int
}

// SolveDimensions works a total byte budget backward into per-frame square
// dimensions that resemble a real MR acquisition matrix.
//
// The returned bool reports whether the pixel budget was clamped at the
// element-length ceiling; clamping is a reportable condition, not an error.
// Dimensions round DOWN to a multiple of 256 (or 128 below that) so the
// realized size never exceeds the budget, with an absolute floor of 128.
func SolveDimensions(totalBytes int64, numFrames int) (Geometry, bool, error) {
	if totalBytes <= 0 {
		return Geometry{}, false, fmt.Errorf("total bytes must be > 0, got %d", totalBytes)
	}
	if numFrames <= 0 {
		return Geometry{}, false, fmt.Errorf("number of frames must be > 0, got %d", numFrames)
	}

	availableBytes := totalBytes - metadataOverheadBytes
	if availableBytes <= 0 {
		return Geometry{}, false, fmt.Errorf("total size too small: need more than %d bytes for metadata", metadataOverheadBytes)
	}

	clamped := false
	if availableBytes > maxPixelBytes {
		availableBytes = maxPixelBytes
		clamped = true
	}

	samplesPerFrame := availableBytes / bytesPerSample / int64(numFrames)
	dim := int(math.Sqrt(float64(samplesPerFrame)))

	switch {
	case dim >= 256:
		dim = (dim / 256) * 256
	default:
		dim = 128
	}

	return Geometry{Width: dim, Height: dim}, clamped, nil
}

// PixelBytes is the encoded pixel payload size for one frame.
func (g Geometry) PixelBytes() int64 {
	return int64(g.Width) * int64(g.Height) * bytesPerSample
}
