package glrender

import (
	"errors"
	"image"
	"image/png"
	"os"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/ikemen-engine/glvbo/packages/vbo"
)

// ------------------------------------------------------------------
// Texture

// Texture is an RGBA texture owned by the Renderer. It is deleted on the
// render goroutine once unreachable.
type Texture struct {
	width  int32
	height int32
	depth  int32
	filter bool
	handle uint32
	kind   vbo.TextureKind
}

func (r *Renderer) newTexture(kind vbo.TextureKind, width, height, depth int32, filter bool) *Texture {
	var h uint32
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GenTextures(1, &h)
	t := &Texture{width, height, depth, filter, h, kind}
	runtime.SetFinalizer(t, func(t *Texture) {
		r.tasks <- func() {
			gl.DeleteTextures(1, &t.handle)
		}
	})
	return t
}

func (t *Texture) target() uint32 {
	if t.kind == vbo.Texture3D {
		return gl.TEXTURE_3D
	}
	return gl.TEXTURE_2D
}

func (t *Texture) setParams() {
	var interp int32 = gl.NEAREST
	if t.filter {
		interp = gl.LINEAR
	}
	target := t.target()
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, interp)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, interp)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if t.kind == vbo.Texture3D {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, gl.REPEAT)
	}
}

// NewTexture2D uploads width*height RGBA texels.
func (r *Renderer) NewTexture2D(width, height int32, rgba []byte, filter bool) *Texture {
	t := r.newTexture(vbo.Texture2D, width, height, 1, filter)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, texels(rgba))
	t.setParams()
	return t
}

// NewTexture3D uploads width*height*depth RGBA texels.
func (r *Renderer) NewTexture3D(width, height, depth int32, rgba []byte, filter bool) *Texture {
	t := r.newTexture(vbo.Texture3D, width, height, depth, filter)
	gl.BindTexture(gl.TEXTURE_3D, t.handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage3D(gl.TEXTURE_3D, 0, gl.RGBA, width, height, depth, 0, gl.RGBA, gl.UNSIGNED_BYTE, texels(rgba))
	t.setParams()
	return t
}

func texels(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

// Return whether texture has a valid handle
func (t *Texture) IsValid() bool {
	return t != nil && t.width != 0 && t.height != 0 && t.handle != 0
}

// Handle is the opaque form a vbo.Buffer binds.
func (t *Texture) Handle() vbo.Texture {
	if !t.IsValid() {
		return vbo.Texture{}
	}
	return vbo.Texture{Handle: t.handle, Kind: t.kind}
}

func (r *Renderer) BindTexture(unit int, tex vbo.Texture) {
	target := uint32(gl.TEXTURE_2D)
	if tex.Kind == vbo.Texture3D {
		target = gl.TEXTURE_3D
	}
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(target, tex.Handle)
	if unit != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
	}
}

// ------------------------------------------------------------------
// Screenshots

func (r *Renderer) ReadPixels(data []uint8, width, height int) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&data[0]))
}

// Screenshot reads the default framebuffer into an image, top row first.
func (r *Renderer) Screenshot() *image.NRGBA {
	w, h := int(r.width), int(r.height)
	data := make([]uint8, w*h*4)
	r.ReadPixels(data, w, h)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], data[(h-1-y)*stride:(h-y)*stride])
	}
	return img
}

func (r *Renderer) SavePNG(filename string) error {
	if r.width == 0 || r.height == 0 {
		return errors.New("empty framebuffer")
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, r.Screenshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
