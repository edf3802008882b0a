package pipeline

import (
	"fmt"

	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const geometryVertexShader = `#version 410 core

layout(location = 0) in vec3 a_vertex;
layout(location = 1) in vec4 a_normal;
layout(location = 2) in vec2 a_uv;
layout(location = 3) in vec4 a_tangent;

uniform mat4 modelviewMat;
uniform mat4 projectionMat;
uniform mat3 normalMat;

out vec4 fragPosition;
out vec3 normal;
out vec2 uv;

void main()
{
   normal = normalize(normalMat * a_normal.xyz);
   uv = a_uv;
   fragPosition = modelviewMat * vec4(a_vertex, 1.0);
   gl_Position = projectionMat * fragPosition;
}
`

const geometryFragmentShader = `#version 410 core

uniform sampler2D texture0; // albedo
uniform sampler2D texture1; // normal
uniform sampler2D texture2; // roughness
uniform sampler2D texture3; // metalness

uniform vec3 mtlEmission;
uniform vec3 mtlAlbedo;
uniform float mtlOpacity;
uniform float mtlRoughness;
uniform float mtlMetalness;

in vec4 fragPosition;
in vec3 normal;
in vec2 uv;

layout(location = 0) out vec4 positionOut;
layout(location = 1) out vec4 normalOut;
layout(location = 2) out vec4 albedoOut;
layout(location = 3) out vec4 emissionOut;

void main()
{
   // w = 1 marks covered pixels for the lighting pass.
   positionOut = vec4(fragPosition.xyz, 1.0);
   normalOut = vec4(normalize(normal), mtlRoughness * texture(texture2, uv).r);
   albedoOut = vec4(mtlAlbedo * texture(texture0, uv).rgb, mtlMetalness * texture(texture3, uv).r);
   emissionOut = vec4(mtlEmission, mtlOpacity);
}
`

const lightingFragmentShader = `#version 410 core

uniform sampler2D texture0; // position
uniform sampler2D texture1; // normal, roughness
uniform sampler2D texture2; // albedo, metalness
uniform sampler2D texture3; // emission

uniform vec3 lightColor;
uniform vec3 lightAmbient;
uniform vec3 lightPosition;

in vec2 texCoord;

out vec4 outFragment;

void main()
{
   vec4 position = texture(texture0, texCoord);
   if (position.w == 0.0)
      discard;

   vec4 normalTexel = texture(texture1, texCoord);
   vec4 albedoTexel = texture(texture2, texCoord);
   vec3 emission = texture(texture3, texCoord).rgb;

   vec3 albedo = albedoTexel.rgb;
   float roughness = normalTexel.a;
   float metalness = albedoTexel.a;

   vec3 N = normalize(normalTexel.xyz);
   vec3 V = normalize(-position.xyz);
   vec3 L = normalize(lightPosition - position.xyz);

   vec3 fragColor = emission + lightAmbient * albedo * 0.1;
   if (dot(N, V) > 0.0)
   {
      float nDotL = max(0.0, dot(N, L));
      fragColor += nDotL * lightColor * albedo * (1.0 - metalness);

      vec3 H = normalize(L + V);
      float shininess = mix(128.0, 4.0, roughness);
      vec3 specular = mix(vec3(0.04), albedo, metalness);
      fragColor += pow(max(0.0, dot(N, H)), shininess) * lightColor * specular;
   }

   outFragment = vec4(fragColor, 1.0);
}
`

// GBuffer slots, in attachment and texture unit order.
const (
	GBufferPosition = iota
	GBufferNormal
	GBufferAlbedo
	GBufferEmission
	NrOfGBufferTextures
)

var gbufferFormats = [NrOfGBufferTextures]renderer.TextureFormat{
	GBufferPosition: renderer.FormatRGBA16F,
	GBufferNormal:   renderer.FormatRGBA16F,
	GBufferAlbedo:   renderer.FormatRGBA8,
	GBufferEmission: renderer.FormatRGBA8,
}

// Geometry fills a G-buffer with view-space position, normal, albedo and
// emission of every mesh in the list. Its textures are sized to the viewport
// and rebuilt when the viewport changes.
type Geometry struct {
	Base
	textures [NrOfGBufferTextures]*renderer.Texture
	depth    *renderer.Texture
	fbo      *renderer.Framebuffer
}

func NewGeometry() *Geometry {
	g := &Geometry{depth: renderer.NewTexture(), fbo: renderer.NewFramebuffer()}
	for i := range g.textures {
		g.textures[i] = renderer.NewTexture()
	}
	g.initBase(geometryVertexShader, geometryFragmentShader)
	return g
}

// SetViewport resizes the G-buffer on the next render.
func (g *Geometry) SetViewport(width, height int32) {
	if w, h := g.Viewport(); w != width || h != height {
		g.SetDirty(true)
	}
	g.Base.SetViewport(width, height)
}

func (g *Geometry) Init() error {
	w, h := g.Viewport()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidParams, w, h)
	}
	if err := g.initProgram(g); err != nil {
		return err
	}
	var err error
	for i, tex := range g.textures {
		if err = tex.Create(w, h, gbufferFormats[i]); err != nil {
			break
		}
		if err = g.fbo.AttachTexture(tex); err != nil {
			break
		}
	}
	if err == nil {
		err = g.depth.Create(w, h, renderer.FormatDepth)
	}
	if err == nil {
		err = g.fbo.AttachTexture(g.depth)
	}
	if err == nil {
		err = g.fbo.Validate()
	}
	if err != nil {
		logger.Log.Error("Unable to init G-buffer", zap.Int32("width", w), zap.Int32("height", h), zap.Error(err))
		return multierr.Append(err, g.Free())
	}
	return nil
}

func (g *Geometry) Free() error {
	errs := multierr.Combine(g.fbo.Free(), g.depth.Free())
	for _, tex := range g.textures {
		errs = multierr.Append(errs, tex.Free())
	}
	return multierr.Append(errs, g.freeProgram())
}

// Release frees the pipeline and ends the identity of its render targets.
func (g *Geometry) Release() error {
	errs := multierr.Combine(g.Free(), g.Base.Release())
	g.fbo.Destroy()
	g.depth.Destroy()
	for _, tex := range g.textures {
		tex.Destroy()
	}
	return errs
}

// Texture returns the G-buffer texture for slot, or EmptyTexture.
func (g *Geometry) Texture(slot int) *renderer.Texture {
	if slot < 0 || slot >= NrOfGBufferTextures {
		return renderer.EmptyTexture
	}
	return g.textures[slot]
}

// Render draws the meshes of list into the G-buffer and binds the window
// framebuffer again.
func (g *Geometry) Render(camera, proj mgl32.Mat4, list *scene.List) error {
	if err := g.begin(g, list); err != nil {
		return err
	}
	g.program.SetMat4("projectionMat", proj)
	if err := g.fbo.Render(); err != nil {
		return err
	}
	drv := renderer.CurrentDriver()
	drv.ClearColor(0, 0, 0, 0)
	drv.Clear(renderer.ClearColorBit | renderer.ClearDepthBit)
	drv.SetCullFace(renderer.CullBack)
	err := list.Render(camera, scene.PassMeshes)
	drv.SetCullFace(renderer.CullNone)
	renderer.ResetFramebuffer(g.Viewport())
	return err
}

// Deferred renders in two steps: the meshes go once into a G-buffer, then
// every light shades the whole screen from it in a fullscreen pass, with
// additive blending from the second light on.
type Deferred struct {
	Base
	geometry  *Geometry
	vao       *renderer.VertexArray
	wireframe bool
}

func NewDeferred() *Deferred {
	d := &Deferred{geometry: NewGeometry(), vao: renderer.NewVertexArray()}
	d.initBase(fullscreenVertexShader, lightingFragmentShader)
	return d
}

// SetViewport sets the window size for both passes.
func (d *Deferred) SetViewport(width, height int32) {
	d.Base.SetViewport(width, height)
	d.geometry.SetViewport(width, height)
}

// Geometry returns the pipeline filling the G-buffer.
func (d *Deferred) Geometry() *Geometry {
	return d.geometry
}

func (d *Deferred) IsWireframe() bool {
	return d.wireframe
}

// SetWireframe draws the geometry pass as lines.
func (d *Deferred) SetWireframe(enabled bool) {
	d.wireframe = enabled
}

func (d *Deferred) Init() error {
	if err := d.initProgram(d); err != nil {
		return err
	}
	if err := d.vao.Init(); err != nil {
		logger.Log.Error("Unable to init VAO for deferred lighting", zap.Error(err))
		return multierr.Append(err, d.freeProgram())
	}
	return nil
}

// Free releases the lighting pass only. The G-buffer is rebuilt by its own
// pass and goes away with Release.
func (d *Deferred) Free() error {
	return multierr.Combine(d.vao.Free(), d.freeProgram())
}

func (d *Deferred) Release() error {
	errs := multierr.Combine(d.Free(), d.geometry.Release(), d.Base.Release())
	d.vao.Destroy()
	return errs
}

// Render fills the G-buffer from camera and proj, then shades it once per
// light. A list without lights leaves the window untouched.
func (d *Deferred) Render(camera, proj mgl32.Mat4, list *scene.List) error {
	if list == nil || list == scene.EmptyList {
		logger.Log.Error("Invalid params", zap.String("pipeline", d.Name()))
		return ErrInvalidParams
	}
	drv := renderer.CurrentDriver()
	if d.wireframe {
		drv.SetWireframe(true)
	}
	err := d.geometry.Render(camera, proj, list)
	if d.wireframe {
		drv.SetWireframe(false)
	}
	if err != nil {
		return err
	}

	if err := d.begin(d, list); err != nil {
		return err
	}
	for i, tex := range d.geometry.textures {
		if err := tex.Render(uint32(i)); err != nil {
			return err
		}
	}
	drv.BindVertexArray(d.vao.Handle())
	drv.SetDepthTest(false)

	var errs error
	nrOfLights := list.NrOfLights()
	for l := 0; l < nrOfLights; l++ {
		if l == 1 {
			drv.SetAdditiveBlend(true)
		}
		re := list.RenderableElem(l)
		if err := re.Reference.Render(0, camera.Mul4(re.Matrix)); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		drv.DrawArrays(3)
	}

	if nrOfLights > 1 {
		drv.SetAdditiveBlend(false)
	}
	drv.SetDepthTest(true)
	return errs
}
