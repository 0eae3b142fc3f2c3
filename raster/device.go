// device.go - Device: the renderer surface consumed by the viewer/scene
// layer (spec §6). Adapted from the teacher's backend-init/draw-call shape
// (video_voodoo.go, voodoo_software.go) generalized from a fixed Voodoo
// register set to the spec's shader-driven pipeline.
package raster

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumenray/raster/raster/buffer"
	"github.com/lumenray/raster/raster/framebuffer"
	"github.com/lumenray/raster/raster/pipeline"
	"github.com/lumenray/raster/raster/shader"
	"github.com/lumenray/raster/raster/texture"
)

type VAOHandle uint32
type Texture2DHandle uint32
type TextureCubeHandle uint32
type ShaderHandle uint32
type FrameBufferHandle uint32

// Device owns every resource created through the external interface and
// the state of the draw currently in progress, if any (spec §6).
type Device struct {
	log *slog.Logger

	nextHandle uint32

	vaos          map[VAOHandle]*pipeline.VertexArray
	textures2D    map[Texture2DHandle]*texture.Texture2D
	texturesCube  map[TextureCubeHandle]*texture.TextureCube
	shaders       map[ShaderHandle]*shader.Program
	framebuffers  map[FrameBufferHandle]*framebuffer.FrameBuffer

	active *activeDraw
}

type activeDraw struct {
	fb       *framebuffer.FrameBuffer
	fbHandle FrameBufferHandle
	viewport pipeline.Viewport
}

// NewDevice creates an empty Device. Pass a nil logger to use
// slog.Default().
func NewDevice(logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	return &Device{
		log:          logger,
		vaos:         make(map[VAOHandle]*pipeline.VertexArray),
		textures2D:   make(map[Texture2DHandle]*texture.Texture2D),
		texturesCube: make(map[TextureCubeHandle]*texture.TextureCube),
		shaders:      make(map[ShaderHandle]*shader.Program),
		framebuffers: make(map[FrameBufferHandle]*framebuffer.FrameBuffer),
	}
}

// SetLogger replaces the device's logger.
func (d *Device) SetLogger(logger *slog.Logger) { d.log = logger }

func (d *Device) allocHandle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

// CreateVertexArrayObject wraps a vertex buffer, its attribute layout, and
// its 32-bit index buffer into a VAO handle (spec §6).
func (d *Device) CreateVertexArrayObject(data []byte, attrs []pipeline.AttributeDesc, indices []int32, vertexCount int) VAOHandle {
	h := VAOHandle(d.allocHandle())
	d.vaos[h] = pipeline.NewVertexArray(data, attrs, indices, vertexCount)
	d.log.Debug("created vertex array", "handle", h, "vertices", vertexCount, "indices", len(indices))
	return h
}

// CreateTexture2D allocates a 2D mip-chained texture (spec §6).
func (d *Device) CreateTexture2D(width, height, mipLevels int, data []byte) (Texture2DHandle, error) {
	tex, err := texture.NewTexture2D(width, height, mipLevels, data)
	if err != nil {
		d.log.Error("CreateTexture2D failed", "error", err, "width", width, "height", height)
		return 0, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	h := Texture2DHandle(d.allocHandle())
	d.textures2D[h] = tex
	d.log.Debug("created texture2D", "handle", h, "width", width, "height", height, "mips", tex.MipLevels())
	return h, nil
}

// CreateTextureCube allocates a six-face cube texture (spec §6).
func (d *Device) CreateTextureCube(size, mipLevels int, faceData [6][]byte) (TextureCubeHandle, error) {
	tex, err := texture.NewTextureCube(size, mipLevels, faceData)
	if err != nil {
		d.log.Error("CreateTextureCube failed", "error", err, "size", size)
		return 0, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	h := TextureCubeHandle(d.allocHandle())
	d.texturesCube[h] = tex
	d.log.Debug("created textureCube", "handle", h, "size", size)
	return h, nil
}

// CreateShaderProgram links a vertex and fragment shader, checking
// varyings-size agreement (spec §6, §7 ShaderLinkMismatch).
func (d *Device) CreateShaderProgram(vs shader.VertexShader, fs shader.FragmentShader) (ShaderHandle, error) {
	prog, err := shader.NewProgram(vs, fs)
	if err != nil {
		d.log.Error("CreateShaderProgram failed", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrShaderLinkMismatch, err)
	}
	h := ShaderHandle(d.allocHandle())
	d.shaders[h] = prog
	d.log.Debug("created shader program", "handle", h)
	return h, nil
}

// CreateFrameBuffer allocates a framebuffer with the given sample count and
// memory layout (spec §6).
func (d *Device) CreateFrameBuffer(width, height, sampleCount int, layout buffer.Layout) (FrameBufferHandle, error) {
	fb, err := framebuffer.New(width, height, sampleCount, layout)
	if err != nil {
		d.log.Error("CreateFrameBuffer failed", "error", err, "width", width, "height", height)
		return 0, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	h := FrameBufferHandle(d.allocHandle())
	d.framebuffers[h] = fb
	d.log.Debug("created framebuffer", "handle", h, "width", width, "height", height, "samples", sampleCount)
	return h, nil
}

// Texture2D returns the texture backing h, or nil if h is unknown. Callers
// build their own shader.Sampler adapters around device-owned textures
// (spec §6: samplers are bound by the caller, not resolved internally).
func (d *Device) Texture2D(h Texture2DHandle) *texture.Texture2D { return d.textures2D[h] }

// TextureCube returns the cube texture backing h, or nil if h is unknown.
func (d *Device) TextureCube(h TextureCubeHandle) *texture.TextureCube { return d.texturesCube[h] }

// BeginDraw clears (per clearMask) the target framebuffer and establishes
// the viewport for subsequent Draw calls (spec §6).
func (d *Device) BeginDraw(fbHandle FrameBufferHandle, viewport pipeline.Viewport, clearMask framebuffer.ClearMask, clearColor texture.RGBA, clearDepth float32) error {
	fb, ok := d.framebuffers[fbHandle]
	if !ok {
		return ErrUnknownHandle
	}
	fb.Clear(clearMask, clearColor, clearDepth)
	d.active = &activeDraw{fb: fb, fbHandle: fbHandle, viewport: viewport}
	return nil
}

// Draw renders one VAO with shader and renderState into the framebuffer
// bound by BeginDraw (spec §6).
func (d *Device) Draw(vaoHandle VAOHandle, shaderHandle ShaderHandle, uniforms shader.Uniforms, samplers shader.Sampler, primType pipeline.PrimitiveType, state pipeline.RenderState) error {
	if d.active == nil {
		return ErrDrawContractViolation
	}
	va, ok := d.vaos[vaoHandle]
	if !ok {
		return ErrUnknownHandle
	}
	prog, ok := d.shaders[shaderHandle]
	if !ok {
		return ErrUnknownHandle
	}
	if err := pipeline.Draw(d.active.fb, d.active.viewport, va, prog, uniforms, samplers, primType, state); err != nil {
		d.log.Error("draw failed", "error", err, "vao", vaoHandle, "shader", shaderHandle)
		if errors.Is(err, pipeline.ErrDrawContractViolation) {
			return fmt.Errorf("%w: %v", ErrDrawContractViolation, err)
		}
		return err
	}
	return nil
}

// EndDraw commits the MSAA resolve, if the bound framebuffer is
// multisampled, and clears the active-draw state (spec §6).
func (d *Device) EndDraw() error {
	if d.active == nil {
		return ErrDrawContractViolation
	}
	d.active.fb.Resolve()
	d.active = nil
	return nil
}

// ReadPixels copies a region of the resolved color attachment out as RGBA8
// (spec §6). Draw returns only after its tiles finish, so there is nothing
// to wait for; the resolved attachment is updated by EndDraw, so a read
// between Draw and EndDraw sees the previous resolve.
func (d *Device) ReadPixels(fbHandle FrameBufferHandle, x, y, w, h int, out []byte) error {
	fb, ok := d.framebuffers[fbHandle]
	if !ok {
		return ErrUnknownHandle
	}
	fb.ReadPixels(x, y, w, h, out)
	return nil
}
