// Package renderer draws the tray: a ground plane and textured dice.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/camera"
	"github.com/Faultbox/dicetray/internal/engine/model"
	"github.com/Faultbox/dicetray/internal/engine/renderer/shaders"
	"github.com/Faultbox/dicetray/internal/engine/shader"
	"github.com/Faultbox/dicetray/internal/engine/texture"
	"github.com/Faultbox/dicetray/internal/logger"
	"github.com/Faultbox/dicetray/internal/tray"
)

// GroundSize is the half size of the drawn ground plane.
const GroundSize = 20

// Scene colors.
var (
	Background = color.RGBA{R: 0x0f, G: 0x0f, B: 0x1a, A: 0xff}
	groundCol  = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	ambientCol = color.RGBA{R: 0x40, G: 0x40, B: 0x60, A: 0xff}
	fillCol    = color.RGBA{R: 0x66, G: 0x66, B: 0xaa, A: 0xff}
	white      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	TextureSize int
}

type mesh struct {
	vao, vbo, ebo uint32
	count         int32
	ranges        []FaceRange
}

type texKey struct {
	t    dice.Type
	face int
	bg   color.RGBA
}

// Renderer handles all OpenGL rendering. Create it after the GL context.
type Renderer struct {
	config  Config
	program *shader.Program

	ground   *mesh
	lines    *mesh
	meshes   map[dice.Type]*mesh
	textures map[texKey]uint32
}

// New initializes OpenGL and compiles the dice shader.
func New(cfg Config) (*Renderer, error) {
	if cfg.TextureSize <= 0 {
		cfg.TextureSize = texture.DefaultSize
	}
	r := &Renderer{
		config:   cfg,
		meshes:   make(map[dice.Type]*mesh),
		textures: make(map[texKey]uint32),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	bg := rgb(Background, 1)
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.Compile(shaders.DiceVertexShader, shaders.DiceFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("dice shader: %w", err)
	}

	gv, gi := groundQuad(GroundSize * 2)
	r.ground = upload(gv, gi, nil)
	r.lines = newLineMesh()

	return r, nil
}

// Close frees GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, m := range r.meshes {
		m.delete()
	}
	if r.ground != nil {
		r.ground.delete()
	}
	if r.lines != nil {
		r.lines.delete()
	}
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles a framebuffer resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw renders one frame of the tray as seen by cam.
func (r *Renderer) Draw(cam *camera.TrayCamera, instances []*tray.Instance) error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetMat4("uViewProj", cam.ViewProjection())
	p.SetVec3("uCameraPos", cam.Position())
	p.SetVec3("uAmbient", rgb(ambientCol, 0.6))
	p.SetVec3("uKeyDir", mgl32.Vec3{8, 20, 10})
	p.SetVec3("uKeyColor", rgb(white, 1.2))
	p.SetVec3("uFillDir", mgl32.Vec3{-5, 10, -5})
	p.SetVec3("uFillColor", rgb(fillCol, 0.3))
	p.SetVec3("uFogColor", rgb(Background, 1))
	gl.Uniform1f(p.Uniform("uFogNear"), 30)
	gl.Uniform1f(p.Uniform("uFogFar"), 50)
	p.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)

	// Ground
	p.SetInt("uUnlit", 0)
	p.SetInt("uUseTexture", 0)
	p.SetVec3("uColor", rgb(groundCol, 1))
	p.SetMat4("uModel", mgl32.Ident4())
	gl.BindVertexArray(r.ground.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.ground.count, gl.UNSIGNED_INT, 0)

	// Dice
	p.SetInt("uUseTexture", 1)
	for _, inst := range instances {
		m, err := r.meshFor(inst.Model)
		if err != nil {
			return err
		}
		p.SetMat4("uModel", toMat32(inst.Transform()))
		gl.BindVertexArray(m.vao)
		for _, fr := range m.ranges {
			tex, err := r.textureFor(inst, fr.Face)
			if err != nil {
				return err
			}
			gl.BindTexture(gl.TEXTURE_2D, tex)
			gl.DrawElementsWithOffset(gl.TRIANGLES, fr.Count, gl.UNSIGNED_INT, uintptr(fr.First*4))
		}
	}

	gl.BindVertexArray(0)
	return nil
}

// DrawLines draws unlit line segments, [x, y, z] per vertex, over the last
// frame drawn with cam.
func (r *Renderer) DrawLines(cam *camera.TrayCamera, vertices []float32, c color.RGBA) {
	if len(vertices) < 6 {
		return
	}
	p := r.program
	p.Use()
	p.SetMat4("uViewProj", cam.ViewProjection())
	p.SetMat4("uModel", mgl32.Ident4())
	p.SetInt("uUnlit", 1)
	p.SetInt("uUseTexture", 0)
	p.SetVec3("uColor", rgb(c, 1))

	gl.BindVertexArray(r.lines.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lines.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
	p.SetInt("uUnlit", 0)
}

// ReadPixels returns the framebuffer contents as tightly packed RGBA rows,
// bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func (r *Renderer) meshFor(m *model.Model) (*mesh, error) {
	if gm, ok := r.meshes[m.Type]; ok {
		return gm, nil
	}
	vertices, indices, ranges := BuildMesh(m)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%v model has no triangles", m.Type)
	}
	gm := upload(vertices, indices, ranges)
	r.meshes[m.Type] = gm
	logger.Debug("die mesh uploaded",
		zap.Stringer("type", m.Type),
		zap.Int("vertices", len(vertices)),
	)
	return gm, nil
}

func (r *Renderer) textureFor(inst *tray.Instance, face int) (uint32, error) {
	k := texKey{t: inst.Type, face: face, bg: inst.Color}
	if id, ok := r.textures[k]; ok {
		return id, nil
	}
	d, err := dice.Lookup(inst.Type)
	if err != nil {
		return 0, err
	}
	img, err := texture.FaceStyled(inst.Type, face, texture.Style{
		Size:       r.config.TextureSize,
		Background: inst.Color,
		Foreground: d.TextColor,
	})
	if err != nil {
		return 0, err
	}
	id := uploadTexture(img)
	r.textures[k] = id
	return id, nil
}

func upload(vertices []Vertex, indices []uint32, ranges []FaceRange) *mesh {
	m := &mesh{count: int32(len(indices)), ranges: ranges}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

func newLineMesh() *mesh {
	m := &mesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return m
}

func (m *mesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

func uploadTexture(img *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return id
}
