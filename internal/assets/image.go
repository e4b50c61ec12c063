package assets

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// EnvironmentImage is a decoded background ready for upload. Formats the Go decoders cannot read
// (radiance .hdr) travel as raw bytes with their extension; everything else arrives as RGBA.
type EnvironmentImage struct {
	Name string
	RGBA *image.RGBA
	Raw  []byte
	Ext  string
}

// rawFormats are passed through to the backend undecoded.
var rawFormats = map[string]bool{".hdr": true}

// DecodeEnvironment reads path and downscales it to at most maxWidth pixels wide, keeping the
// aspect ratio. maxWidth <= 0 disables the limit.
func DecodeEnvironment(path string, maxWidth int) (*EnvironmentImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetError{Path: path, Op: "read", Err: err}
	}
	ext := strings.ToLower(filepath.Ext(path))
	out := &EnvironmentImage{Name: filepath.Base(path), Ext: ext}
	if rawFormats[ext] {
		out.Raw = data
		return out, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &AssetError{Path: path, Op: "decode", Err: err}
	}
	b := img.Bounds()
	if maxWidth > 0 && b.Dx() > maxWidth {
		h := b.Dy() * maxWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		out.RGBA = transform.Resize(img, maxWidth, h, transform.Linear)
		return out, nil
	}
	out.RGBA = clone.AsRGBA(img)
	return out, nil
}
