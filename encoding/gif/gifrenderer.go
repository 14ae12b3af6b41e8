package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/gorgonia/reversi/game"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Game Number: 10000, Move: 100`

	cell = 32 // pixels per square
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// palette indices
const (
	black uint8 = iota
	white
	felt
	grid
)

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
	color.RGBA{0x1b, 0x7a, 0x3a, 0xff},
	color.Gray{96},
}

// Encoder is a structure that encodes a game state according to the reversi.OutputEncoder interface.
// Every call to Encode adds a frame. Flush writes the animation to the Writer.
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewGifEncoder with height and width
func NewGifEncoder(h, w int) *Encoder {
	return &Encoder{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

func lineHeight() int { return int(math.Ceil(fontsize * lineheight * dpi / 72)) }

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	g := ms.State()
	rows, cols := g.BoardSize()
	boardW, boardH := cols*cell, rows*cell
	dy := lineHeight()

	if !enc.initialized {
		// lazy init of the font face and frame size
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		textW := font.MeasureString(enc.Face, dummyLongString).Ceil()
		w := max(boardW, textW) + 2*enc.padW
		h := boardH + 4*dy + 2*enc.padH // 4 extra lines: game name, game number, score, and winner

		w = min(w, enc.maxW)
		h = min(h, enc.maxH)

		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	enc.drawBoard(im, g.Board(), cols)

	y := enc.padH + boardH + dy
	enc.Dst = im
	lines := []string{
		ms.Name(),
		fmt.Sprintf("Game Number: %d, Move: %d", ms.GameNumber(), g.MoveNumber()),
		fmt.Sprintf("Black %v White %v", ms.Score(game.Player(game.Black)), ms.Score(game.Player(game.White))),
	}

	var delay int
	if ended, winner := g.Ended(); ended {
		delay = 300
		lines = append(lines, fmt.Sprintf("Winner: %v", winner))
	}
	for _, s := range lines {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// drawBoard draws the squares and discs with the top left of the board at the padding.
func (enc *Encoder) drawBoard(im *image.Paletted, board []game.Colour, cols int) {
	const r = cell/2 - 3
	for i, c := range board {
		x0 := enc.padW + (i%cols)*cell
		y0 := enc.padH + (i/cols)*cell
		for dy := 0; dy < cell; dy++ {
			for dx := 0; dx < cell; dx++ {
				idx := felt
				if dx == 0 || dy == 0 || dx == cell-1 || dy == cell-1 {
					idx = grid
				}
				if c != game.None {
					ox, oy := dx-cell/2, dy-cell/2
					if ox*ox+oy*oy <= r*r {
						idx = black
						if c == game.White {
							idx = white
						}
					}
				}
				im.SetColorIndex(x0+dx, y0+dy, idx)
			}
		}
	}
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error { return gif.EncodeAll(enc.Writer, enc.out) }

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }
