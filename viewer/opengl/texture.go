package opengl

import (
	"image"

	"bitbucket.org/kleinnic74/dotto/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
)

// CreateTexture uploads an already flipped RGBA image as a 2D texture
func (Device) CreateTexture(img *image.RGBA) (gpu.TextureID, error) {
	bounds := img.Bounds()
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(bounds.Dx()), int32(bounds.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, gpu.DeviceError{Code: code}
	}
	return gpu.TextureID(id), nil
}

func (Device) DeleteTexture(id gpu.TextureID) {
	t := uint32(id)
	gl.DeleteTextures(1, &t)
}

// BindTexture binds the texture to the given texture unit
func (Device) BindTexture(unit uint32, id gpu.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}
