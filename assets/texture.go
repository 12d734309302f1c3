package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	// Register image formats
	_ "image/jpeg"
	_ "image/png"

	"bitbucket.org/kleinnic74/dotto/filesystem"
	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/disintegration/gift"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

var ErrNotAnImage = errors.New("not an image")

var flipV = gift.New(gift.FlipVertical())

// Texture is a decoded image living on the device
type Texture struct {
	ID       gpu.TextureID
	Width    int
	Height   int
	Channels int
}

func (t Texture) Handle() gpu.Handle {
	return gpu.TextureHandle(t.ID)
}

// DecodeImage decodes an image file and flips it vertically so that its
// first row matches texture coordinate v=0.
func DecodeImage(data []byte) (*image.RGBA, int, error) {
	if !filetype.IsImage(data) {
		return nil, 0, ErrNotAnImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	rgba := image.NewRGBA(flipV.Bounds(img.Bounds()))
	flipV.Draw(rgba, img)
	return rgba, channels(img), nil
}

func channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	default:
		return 4
	}
}

// LoadTexture decodes the image at path and uploads it. The returned texture
// is not tracked; that is up to the owner.
func LoadTexture(ctx context.Context, dev gpu.Device, fs filesystem.Assets, path string) (Texture, error) {
	logging.From(ctx).Debug("Loading texture", zap.String("path", path))
	data, err := fs.ReadFile(path)
	if err != nil {
		return Texture{}, err
	}
	rgba, ch, err := DecodeImage(data)
	if err != nil {
		return Texture{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	id, err := dev.CreateTexture(rgba)
	if err != nil {
		return Texture{}, fmt.Errorf("failed to create texture for %s: %w", path, err)
	}
	b := rgba.Bounds()
	return Texture{ID: id, Width: b.Dx(), Height: b.Dy(), Channels: ch}, nil
}
