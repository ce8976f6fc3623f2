package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

/** @brief Tightly packed RGBA8 pixels, first row on top. */
type TextureData struct {
	Width  int32
	Height int32
	Pixels []byte
}

type TextureLoaderParams struct {
	// FlipY stores the last image row first, as OpenGL expects.
	FlipY bool
	// MaxSize scales larger images down to fit, 0 keeps the size.
	MaxSize int
}

type TextureLoader struct{}

// Load decodes png, jpeg or bmp. params may be nil or *TextureLoaderParams. Data is a *TextureData.
func (tl *TextureLoader) Load(path string, params interface{}) (*Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	options := TextureLoaderParams{}
	if typed, ok := params.(*TextureLoaderParams); ok && typed != nil {
		options = *typed
	}

	texture := ConvertImage(img, options)
	return &Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(len(texture.Pixels)),
		Data:     texture,
	}, nil
}

func (tl *TextureLoader) Unload(*Resource) error {
	return nil
}

// ConvertImage converts any decoded image into packed RGBA8.
func ConvertImage(img image.Image, options TextureLoaderParams) *TextureData {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if options.MaxSize > 0 && (width > options.MaxSize || height > options.MaxSize) {
		scale := float64(options.MaxSize) / float64(max(width, height))
		width = max(1, int(float64(width)*scale))
		height = max(1, int(float64(height)*scale))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	pixels := rgba.Pix
	if options.FlipY {
		stride := rgba.Stride
		flipped := make([]byte, len(pixels))
		for y := 0; y < height; y++ {
			copy(flipped[y*stride:(y+1)*stride], pixels[(height-1-y)*stride:(height-y)*stride])
		}
		pixels = flipped
	}

	return &TextureData{
		Width:  int32(width),
		Height: int32(height),
		Pixels: pixels,
	}
}
