// Package video implements the minimal tile-based background renderer (spec
// §4.3): a frame-time accumulator that keeps the Bus's scanline register in
// sync with cycles consumed by the Cpu, plus the periodic decode of the
// 32x32 background tile map into a 256x256 surface blitted through a
// 160x144 viewport. It is grounded on original_source/GPU.py's update/
// render_background loop, generalized from pygame's Surface/PixelArray onto
// an ebiten-backed presentation path (spec §10/§11).
package video

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/hajimehoshi/ebiten/v2"

	"goboy/mask"
	"goboy/mem"
)

// Timing constants (spec §4.3).
const (
	CyclesPerScanline = 456
	ScanlinesPerFrame = 154
	CyclesPerFrame    = CyclesPerScanline * ScanlinesPerFrame // 70224
	lastScanline      = ScanlinesPerFrame - 1
)

// Background geometry constants (spec §4.3).
const (
	TileMapStart  = 0x9800
	TileMapWidth  = 32
	TileMapCells  = TileMapWidth * TileMapWidth // 1024
	TileDataStart = 0x8000
	TileBytes     = 16
	TileSize      = 8

	SurfaceSize    = TileMapWidth * TileSize // 256
	ViewportWidth  = 160
	ViewportHeight = 144
)

// Palette is the four-color monochrome palette (spec §6): near-white,
// light-shade, dark-shade, near-black, in the reference RGBA values.
var Palette = color.Palette{
	color.RGBA{R: 175, G: 200, B: 70, A: 255},
	color.RGBA{R: 130, G: 170, B: 100, A: 255},
	color.RGBA{R: 35, G: 110, B: 95, A: 255},
	color.RGBA{R: 10, G: 40, B: 85, A: 255},
}

// A Video owns the frame-time accumulator and the decoded background
// surface. Unlike the original GPU class's module-level pygame.display
// singleton, a Video is constructed against a specific Bus, enabling
// multi-instance use (spec §9, "globally mutable process state").
type Video struct {
	bus *mem.Bus

	accumulator int

	// FrameSkip renders only every FrameSkip-th completed frame; default 1
	// renders every frame. Grounded on GPU.py's self.FRAME_SKIP (spec §12).
	FrameSkip int

	frameCounter  uint64
	firstRender   bool
	previousTiles [TileMapCells]int

	// surface holds one palette index (0-3) per background pixel.
	surface *image.Paletted
}

// New returns a Video that reads scroll registers and tile data from bus.
func New(bus *mem.Bus) *Video {
	v := &Video{
		bus:         bus,
		FrameSkip:   1,
		firstRender: true,
		surface:     image.NewPaletted(image.Rect(0, 0, SurfaceSize, SurfaceSize), Palette),
	}
	for i := range v.previousTiles {
		v.previousTiles[i] = -1 // no tile has ever matched index 0 yet
	}
	return v
}

// Advance consumes deltaCycles T-states produced by a Cpu step (spec §4.3):
// it updates the scanline register and, once a full frame's worth of cycles
// has accumulated, decodes and (subject to FrameSkip) renders the
// background.
func (v *Video) Advance(deltaCycles int) {
	v.accumulator += deltaCycles

	line := v.accumulator / CyclesPerScanline
	if line > lastScanline {
		line = lastScanline
	}
	v.bus.WriteScanline(byte(line))

	if v.accumulator >= CyclesPerFrame {
		v.accumulator = 0
		if v.FrameSkip <= 0 || v.frameCounter%uint64(v.FrameSkip) == 0 {
			v.renderBackground()
		}
		v.frameCounter++
	}
}

// renderBackground decodes the 32x32 tile map at 0x9800 into the 256x256
// surface, re-decoding only cells whose tile index changed since the last
// frame (spec §4.3). Grounded on GPU.py's render_background, translated
// from pygame's PixelArray into an image.Paletted write.
func (v *Video) renderBackground() {
	for cell := 0; cell < TileMapCells; cell++ {
		tileIndex := int(v.bus.Read(uint16(TileMapStart + cell)))

		if !v.firstRender && v.previousTiles[cell] == tileIndex {
			continue
		}
		v.previousTiles[cell] = tileIndex

		cellX := (cell % TileMapWidth) * TileSize
		cellY := (cell / TileMapWidth) * TileSize
		v.decodeTile(tileIndex, cellX, cellY)
	}
	v.firstRender = false
}

// decodeTile reads the 16-byte tile at tileIndex and writes its 8x8 pixels
// into the surface at (originX, originY).
func (v *Video) decodeTile(tileIndex, originX, originY int) {
	base := uint16(TileDataStart + tileIndex*TileBytes)
	for row := 0; row < TileSize; row++ {
		lowByte := v.bus.Read(base + uint16(row*2))
		highByte := v.bus.Read(base + uint16(row*2+1))
		for pixel := 0; pixel < TileSize; pixel++ {
			colorIndex := tilePixel(lowByte, highByte, pixel)
			v.surface.SetColorIndex(originX+pixel, originY+row, colorIndex)
		}
	}
}

// tilePixel extracts the 2-bit color index for pixel within a tile row: bit
// (7-pixel) of lowByte is the low color bit, bit (7-pixel) of highByte is
// the high color bit (spec §4.3). The mask package is 1-indexed from the
// MSB, so pixel 0 maps to index 1 and so on.
func tilePixel(lowByte, highByte byte, pixel int) uint8 {
	var lo, hi bool
	switch pixel {
	case 0:
		lo, hi = mask.IsSet(lowByte, mask.I1), mask.IsSet(highByte, mask.I1)
	case 1:
		lo, hi = mask.IsSet(lowByte, mask.I2), mask.IsSet(highByte, mask.I2)
	case 2:
		lo, hi = mask.IsSet(lowByte, mask.I3), mask.IsSet(highByte, mask.I3)
	case 3:
		lo, hi = mask.IsSet(lowByte, mask.I4), mask.IsSet(highByte, mask.I4)
	case 4:
		lo, hi = mask.IsSet(lowByte, mask.I5), mask.IsSet(highByte, mask.I5)
	case 5:
		lo, hi = mask.IsSet(lowByte, mask.I6), mask.IsSet(highByte, mask.I6)
	case 6:
		lo, hi = mask.IsSet(lowByte, mask.I7), mask.IsSet(highByte, mask.I7)
	case 7:
		lo, hi = mask.IsSet(lowByte, mask.I8), mask.IsSet(highByte, mask.I8)
	}
	var c uint8
	if lo {
		c |= 1
	}
	if hi {
		c |= 2
	}
	return c
}

// Present blits the 256x256 surface into dst, offsetting vertically by the
// negated current value of the scroll-Y register (0xFF42) and wrapping
// around the surface (spec §4.3, "Presentation"). Horizontal scroll is an
// open refinement, per the spec. The rows are composited with
// golang.org/x/image/draw.Draw into an intermediate RGBA viewport, which is
// then uploaded with dst.WritePixels; dst must therefore already be sized
// ViewportWidth x ViewportHeight.
func (v *Video) Present(dst *ebiten.Image) {
	scrollY := int(v.bus.Read(mem.ScrollY))

	viewport := image.NewRGBA(image.Rect(0, 0, ViewportWidth, ViewportHeight))
	for y := 0; y < ViewportHeight; y++ {
		srcY := (y + scrollY) % SurfaceSize
		srcRect := image.Rect(0, srcY, ViewportWidth, srcY+1)
		dstRect := image.Rect(0, y, ViewportWidth, y+1)
		draw.Draw(viewport, dstRect, v.surface, srcRect.Min, draw.Src)
	}
	dst.WritePixels(viewport.Pix)
}

// Reset clears the accumulator and forces a full re-decode on the next
// completed frame, as if no tile had ever been rendered.
func (v *Video) Reset() {
	v.accumulator = 0
	v.frameCounter = 0
	v.firstRender = true
	for i := range v.previousTiles {
		v.previousTiles[i] = -1
	}
}
