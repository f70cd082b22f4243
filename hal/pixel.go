package hal

import "image/color"

// PackRGB565 converts c to the framebuffer's 16-bit encoding. Alpha is
// ignored.
func PackRGB565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// UnpackRGB565 expands p to an opaque color, scaling each channel to the
// full 0..255 range.
func UnpackRGB565(p uint16) color.RGBA {
	return color.RGBA{
		R: uint8(uint32(p>>11&0x1F) * 255 / 31),
		G: uint8(uint32(p>>5&0x3F) * 255 / 63),
		B: uint8(uint32(p&0x1F) * 255 / 31),
		A: 0xff,
	}
}
