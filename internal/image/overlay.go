package image

import (
	stdimage "image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelValue is the sample value for label glyphs, the top of the 12-bit
// range so the text stands out against uniform noise.
const labelValue = uint16(4095)

// DrawLabel burns a centered text overlay into a uint16 pixel grid. The
// text is rendered at basicfont size, scaled up to roughly 30% of the frame
// width and drawn at full intensity over a dark circular outline. Pixels
// outside the label area are left untouched.
func DrawLabel(pixels []uint16, width, height int, text string) {
	if len(pixels) != width*height || text == "" {
		return
	}

	// Render text at base size on a small transparent canvas.
	face := basicfont.Face7x13
	baseTextWidth := font.MeasureString(face, text).Ceil()
	baseTextHeight := 13
	if baseTextWidth <= 0 {
		return
	}

	textImg := stdimage.NewRGBA(stdimage.Rect(0, 0, baseTextWidth, baseTextHeight))
	drawer := &font.Drawer{
		Dst:  textImg,
		Src:  stdimage.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.Point26_6{Y: fixed.I(13)},
	}
	drawer.DrawString(text)

	// Scale up so the label spans ~30% of the frame width.
	targetWidth := int(float64(width) * 0.3)
	scaleFactor := float64(targetWidth) / float64(baseTextWidth)
	if scaleFactor < 2.0 {
		scaleFactor = 2.0
	}

	scaledWidth := int(float64(baseTextWidth) * scaleFactor)
	scaledHeight := int(float64(baseTextHeight) * scaleFactor)

	scaledTextImg := stdimage.NewRGBA(stdimage.Rect(0, 0, scaledWidth, scaledHeight))
	draw.BiLinear.Scale(scaledTextImg, scaledTextImg.Bounds(), textImg, textImg.Bounds(), draw.Over, nil)

	// Center the label.
	posX := (width - scaledWidth) / 2
	posY := (height - scaledHeight) / 2

	// Dark circular outline for visibility against bright noise.
	outlineThickness := scaledHeight / 10
	if outlineThickness < 3 {
		outlineThickness = 3
	}

	for dx := -outlineThickness; dx <= outlineThickness; dx++ {
		for dy := -outlineThickness; dy <= outlineThickness; dy++ {
			if dx*dx+dy*dy > outlineThickness*outlineThickness {
				continue
			}
			for sy := 0; sy < scaledHeight; sy++ {
				for sx := 0; sx < scaledWidth; sx++ {
					_, _, _, a := scaledTextImg.At(sx, sy).RGBA()
					if a == 0 {
						continue
					}
					destX := posX + sx + dx
					destY := posY + sy + dy
					if destX >= 0 && destX < width && destY >= 0 && destY < height {
						pixels[destY*width+destX] = 0
					}
				}
			}
		}
	}

	// Main text at full intensity on top.
	for sy := 0; sy < scaledHeight; sy++ {
		for sx := 0; sx < scaledWidth; sx++ {
			_, _, _, a := scaledTextImg.At(sx, sy).RGBA()
			if a == 0 {
				continue
			}
			destX := posX + sx
			destY := posY + sy
			if destX >= 0 && destX < width && destY >= 0 && destY < height {
				pixels[destY*width+destX] = labelValue
			}
		}
	}
}
