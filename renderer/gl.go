package renderer

import (
	"embed"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/pthm-cable/smoothlife/gpu"
)

//go:embed shaders
var shaderFS embed.FS

// texelFloats is the float count of one RGBA32F texel.
const texelFloats = 4

type glTexture struct {
	id, fbo uint32
	w, h    int
}

type program struct {
	id   uint32
	locs map[string]int32
}

func (p *program) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locs[name] = l
	return l
}

// GLDevice runs passes as fullscreen draws into RGBA32F framebuffers. It
// shares the window's context, so it must be used from the main thread
// between raylib frames.
type GLDevice struct {
	textures map[gpu.Texture]*glTexture
	programs map[string]*program
	vao      uint32
	active   bool
}

var passShaders = []string{
	"butterfly", "real_to_complex", "complex_to_real", "multiply",
	"smoother", "circle", "fill", "copy", "preview",
}

// NewGLDevice loads GL entry points and compiles the pass programs. The
// window must already exist.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing gl: %w", err)
	}
	slog.Info("gl device", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	vert, err := shaderSource("fullscreen.vert")
	if err != nil {
		return nil, err
	}
	d := &GLDevice{
		textures: make(map[gpu.Texture]*glTexture),
		programs: make(map[string]*program),
	}
	for _, name := range passShaders {
		frag, err := shaderSource(name + ".frag")
		if err != nil {
			d.Close()
			return nil, err
		}
		id, err := newProgram(vert, frag)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("program %s: %w", name, err)
		}
		d.programs[name] = &program{id: id, locs: make(map[string]int32)}
	}
	gl.GenVertexArrays(1, &d.vao)
	return d, nil
}

// shaderSource reads an embedded shader and expands its include lines.
func shaderSource(name string) (string, error) {
	b, err := shaderFS.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("reading shader %s: %w", name, err)
	}
	var out strings.Builder
	for line := range strings.SplitSeq(string(b), "\n") {
		if inc, ok := strings.CutPrefix(strings.TrimSpace(line), "#include "); ok {
			body, err := shaderFS.ReadFile("shaders/" + strings.Trim(inc, `"`))
			if err != nil {
				return "", fmt.Errorf("shader %s: %w", name, err)
			}
			out.Write(body)
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile error: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link error: %v", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func (d *GLDevice) Create(t gpu.Texture, w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("gl: texture %d: bad size %dx%d", t, w, h)
	}
	if _, ok := d.textures[t]; ok {
		return fmt.Errorf("gl: texture %d already exists", t)
	}
	tex := &glTexture{w: w, h: h}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(w), int32(h), 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	gl.GenFramebuffers(1, &tex.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, tex.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex.id, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &tex.fbo)
		gl.DeleteTextures(1, &tex.id)
		return fmt.Errorf("gl: texture %d: framebuffer incomplete (0x%x)", t, status)
	}
	d.textures[t] = tex
	return nil
}

func (d *GLDevice) get(t gpu.Texture) (*glTexture, error) {
	tex, ok := d.textures[t]
	if !ok {
		return nil, fmt.Errorf("gl: unknown texture %d", t)
	}
	return tex, nil
}

// TextureID returns the GL name behind a logical handle, or 0.
func (d *GLDevice) TextureID(t gpu.Texture) uint32 {
	if tex, ok := d.textures[t]; ok {
		return tex.id
	}
	return 0
}

func (d *GLDevice) Upload(t gpu.Texture, data []float32) error {
	tex, err := d.get(t)
	if err != nil {
		return err
	}
	if len(data) != tex.w*tex.h*texelFloats {
		return fmt.Errorf("gl: upload to texture %d: %d floats, want %d", t, len(data), tex.w*tex.h*texelFloats)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(tex.w), int32(tex.h), gl.RGBA, gl.FLOAT, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func (d *GLDevice) Download(t gpu.Texture, dst []float32) error {
	tex, err := d.get(t)
	if err != nil {
		return err
	}
	if len(dst) != tex.w*tex.h*texelFloats {
		return fmt.Errorf("gl: download from texture %d: %d floats, want %d", t, len(dst), tex.w*tex.h*texelFloats)
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, tex.fbo)
	gl.ReadPixels(0, 0, int32(tex.w), int32(tex.h), gl.RGBA, gl.FLOAT, gl.Ptr(dst))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}

func (d *GLDevice) Destroy(t gpu.Texture) {
	tex, ok := d.textures[t]
	if !ok {
		return
	}
	gl.DeleteFramebuffers(1, &tex.fbo)
	gl.DeleteTextures(1, &tex.id)
	delete(d.textures, t)
}

func (d *GLDevice) Close() error {
	for t := range d.textures {
		d.Destroy(t)
	}
	for _, p := range d.programs {
		gl.DeleteProgram(p.id)
	}
	clear(d.programs)
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	return nil
}

// binding pairs a sampler uniform with the texture it reads.
type binding struct {
	name string
	tex  gpu.Texture
}

func (d *GLDevice) Run(p gpu.Pass) error {
	switch p := p.(type) {
	case gpu.Butterfly:
		vertical := int32(0)
		if p.Vertical {
			vertical = 1
		}
		return d.draw("butterfly", p.Dst, []binding{{"src", p.Src}, {"plan", p.Plan}}, func(pr *program) {
			gl.Uniform1i(pr.loc("vertical"), vertical)
			gl.Uniform1f(pr.loc("direction"), p.Sign)
		})
	case gpu.RealToComplex:
		return d.draw("real_to_complex", p.Dst, []binding{{"src", p.Src}}, nil)
	case gpu.ComplexToReal:
		return d.draw("complex_to_real", p.Dst, []binding{{"src", p.Src}}, func(pr *program) {
			gl.Uniform1f(pr.loc("scale"), p.Scale)
		})
	case gpu.ComplexMultiply:
		return d.draw("multiply", p.Dst, []binding{{"src", p.Src}, {"kern", p.Kernel}}, func(pr *program) {
			gl.Uniform1f(pr.loc("scale"), p.Scale)
		})
	case gpu.Smoother:
		return d.draw("smoother", p.Dst, []binding{
			{"field", p.Field}, {"an", p.N}, {"am", p.M}, {"lookup", p.Lookup},
		}, func(pr *program) {
			gl.Uniform1i(pr.loc("timestep"), int32(p.Timestep))
			gl.Uniform1f(pr.loc("dt"), p.DT)
		})
	case gpu.Circle:
		dst, err := d.get(p.Dst)
		if err != nil {
			return err
		}
		w, h := float64(dst.w), float64(dst.h)
		return d.draw("circle", p.Dst, []binding{{"src", p.Src}}, func(pr *program) {
			gl.Uniform2f(pr.loc("center"), float32(wrap(p.X, w)), float32(wrap(p.Y, h)))
			gl.Uniform1f(pr.loc("radius"), float32(p.Radius))
			gl.Uniform1f(pr.loc("color"), p.Color)
			gl.Uniform2f(pr.loc("size"), float32(w), float32(h))
		})
	case gpu.Fill:
		return d.draw("fill", p.Dst, nil, func(pr *program) {
			gl.Uniform1f(pr.loc("value"), p.Value)
		})
	case gpu.Copy:
		return d.draw("copy", p.Dst, []binding{{"src", p.Src}}, nil)
	case gpu.Preview:
		dst, err := d.get(p.Dst)
		if err != nil {
			return err
		}
		return d.draw("preview", p.Dst, []binding{{"lookup", p.Lookup}}, func(pr *program) {
			gl.Uniform2f(pr.loc("size"), float32(dst.w), float32(dst.h))
		})
	}
	return fmt.Errorf("gl: unsupported pass %T", p)
}

func (d *GLDevice) draw(name string, dst gpu.Texture, inputs []binding, uniforms func(*program)) error {
	pr, ok := d.programs[name]
	if !ok {
		return fmt.Errorf("gl: no program %q", name)
	}
	target, err := d.get(dst)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if in.tex == dst {
			return fmt.Errorf("gl: pass %s reads its destination %d", name, dst)
		}
		if _, err := d.get(in.tex); err != nil {
			return err
		}
	}

	if !d.active {
		gl.Disable(gl.BLEND)
		gl.Disable(gl.DEPTH_TEST)
		gl.Disable(gl.CULL_FACE)
		gl.BindVertexArray(d.vao)
		d.active = true
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.Viewport(0, 0, int32(target.w), int32(target.h))
	gl.UseProgram(pr.id)
	for i, in := range inputs {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, d.textures[in.tex].id)
		gl.Uniform1i(pr.loc(in.name), int32(i))
	}
	if uniforms != nil {
		uniforms(pr)
	}
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	return nil
}

// Restore hands the context back to raylib after a batch of passes.
func (d *GLDevice) Restore(screenW, screenH int32) {
	if !d.active {
		return
	}
	for i := range 4 {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, screenW, screenH)
	gl.UseProgram(0)
	gl.BindVertexArray(0)
	gl.Enable(gl.BLEND)
	d.active = false
}

func wrap(v, n float64) float64 {
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	return v
}
