package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

var gifPalette = color.Palette{color.Black, color.RGBA{0x66, 0xcc, 0xff, 0xff}, color.RGBA{0xff, 0xaa, 0x33, 0xff}, color.White}

// captureFrame rasterises the canvas, one dot block per braille dot,
// colored by layer.
func (m *Player) captureFrame() {
	charW, charH := 8, 16
	c := m.canvas
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), gifPalette)
	dotW, dotH := charW/2, charH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			idx := uint8(3)
			switch c.Layers[row][col] {
			case 1:
				idx = 1
			case 2:
				idx = 2
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, idx)
						}
					}
				}
			}
		}
	}
	m.gifFrames = append(m.gifFrames, img)
}

func (m *Player) saveGIF() error {
	if len(m.gifFrames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.gifFrames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/playbackFPS)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
