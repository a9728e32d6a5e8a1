package glrender

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ikemen-engine/glvbo/packages/vbo"
)

//go:embed shaders/*.glsl
var shaderFS embed.FS

// LoadShader returns an embedded shader. name is the file name without the
// .glsl extension, e.g. "stock.vert".
func LoadShader(name string) (string, error) {
	b, err := shaderFS.ReadFile("shaders/" + name + ".glsl")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DirLoader looks for name.glsl in dir first and falls back to the embedded
// shaders.
func DirLoader(dir string) vbo.ShaderLoader {
	return func(name string) (string, error) {
		b, err := os.ReadFile(filepath.Join(dir, name+".glsl"))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		return LoadShader(name)
	}
}
