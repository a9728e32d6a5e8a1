package vbo

// Channel identifies one per-vertex attribute array. The value doubles as the
// shader attribute location.
type Channel int

const (
	ChannelPosition Channel = iota
	ChannelColor
	ChannelNormal
	ChannelTexCoord
	ChannelBarycentric
	ChannelAttribute0
)

// MaxAttributes is the number of generic attribute slots per vertex.
const MaxAttributes = 4

// NumChannels counts every channel including the generic attribute slots.
const NumChannels = int(ChannelAttribute0) + MaxAttributes

var channelComponents = [NumChannels]int{4, 4, 3, 4, 3, 4, 4, 4, 4}

// Components returns the float count of one vertex in the channel.
func (ch Channel) Components() int {
	return channelComponents[ch]
}

// AttributeName is the shader input bound to the channel's location.
func (ch Channel) AttributeName() string {
	switch ch {
	case ChannelPosition:
		return "vbo_Position"
	case ChannelColor:
		return "vbo_Color"
	case ChannelNormal:
		return "vbo_Normal"
	case ChannelTexCoord:
		return "vbo_TexCoord"
	case ChannelBarycentric:
		return "vbo_Barycentric"
	}
	return "vbo_Attribute" + string(rune('0'+int(ch-ChannelAttribute0)))
}

type Program uint32

type VertexArray uint32

type TextureKind int

const (
	Texture2D TextureKind = iota
	Texture3D
)

// Texture is an opaque handle produced by the host's texture loader.
type Texture struct {
	Handle uint32
	Kind   TextureKind
}

func (t Texture) IsValid() bool {
	return t.Handle != 0
}

type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
	BlendMultiply
	BlendSubtract
)

// Caps is the result of the renderer probe.
type Caps struct {
	Vendor   string
	Renderer string
	Version  string
	// CoreProfile devices reject QUADS and QUAD_STRIP.
	CoreProfile bool
}

// Device is the GPU side of the core. Implementations assume the calling
// goroutine owns a current graphics context.
type Device interface {
	Caps() Caps

	// CompileProgram compiles and links a program whose vertex inputs are
	// bound to the Channel locations. On failure the program is 0 and the
	// error carries the driver's diagnostic text.
	CompileProgram(vertex, fragment string) (Program, error)
	DeleteProgram(p Program)
	CurrentProgram() Program
	UseProgram(p Program)
	// UniformLocation returns -1 for names the program does not use.
	UniformLocation(p Program, name string) int32
	SetUniform(loc int32, v UniformValue)

	NewVertexArray() VertexArray
	DeleteVertexArray(va VertexArray)
	BindVertexArray(va VertexArray)
	Upload(va VertexArray, ch Channel, data []float32)
	EnableAttribute(va VertexArray, ch Channel)
	DisableAttribute(ch Channel)

	// BindTexture binds tex to unit and leaves unit 0 active. A zero handle
	// unbinds the unit.
	BindTexture(unit int, tex Texture)
	SetBlend(mode BlendMode)
	Draw(mode PrimitiveMode, first, count int)
}

// ShaderLoader returns shader source text by name. Stock programs are built
// from "stock.vert" and "stock.frag".
type ShaderLoader func(name string) (string, error)
