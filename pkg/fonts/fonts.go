// Package fonts provides parsed font faces for raster rendering.
//
// The Go Mono font ships with golang.org/x/image, so no font files need
// to be embedded or located on disk at runtime.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	monoFont *truetype.Font
	monoErr  error
	monoOnce sync.Once
)

// Mono returns the parsed Go Mono font. The parse result is cached after
// the first call.
func Mono() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
		if monoErr != nil {
			monoErr = fmt.Errorf("parsing Go Mono font: %w", monoErr)
		}
	})
	return monoFont, monoErr
}

// MonoFace returns a font face for Go Mono at the given size in points,
// rendered at 72 DPI with full hinting.
func MonoFace(size float64) (font.Face, error) {
	f, err := Mono()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
