package pipeline

import (
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

const defaultVertexShader = `#version 410 core

layout(location = 0) in vec3 a_vertex;
layout(location = 1) in vec4 a_normal;
layout(location = 2) in vec2 a_uv;
layout(location = 3) in vec4 a_tangent;

uniform mat4 modelviewMat;
uniform mat4 projectionMat;
uniform mat3 normalMat;

out vec4 fragPosition;
out vec3 normal;
out mat3 tbn;
out vec2 uv;

void main()
{
   normal = normalize(normalMat * a_normal.xyz);
   vec3 tangent = normalMat * a_tangent.xyz;
   tangent = normalize(tangent - dot(tangent, normal) * normal);
   vec3 bitangent = normalize(cross(normal, tangent));
   tbn = mat3(tangent, bitangent, normal);

   uv = a_uv;

   fragPosition = modelviewMat * vec4(a_vertex, 1.0);
   gl_Position = projectionMat * fragPosition;
}
`

const defaultFragmentShader = `#version 410 core

uniform sampler2D texture0; // albedo
uniform sampler2D texture1; // normal
uniform sampler2D texture2; // roughness
uniform sampler2D texture3; // metalness

uniform vec3 mtlEmission;
uniform vec3 mtlAlbedo;
uniform float mtlOpacity;
uniform float mtlRoughness;
uniform float mtlMetalness;

uniform vec3 lightColor;
uniform vec3 lightAmbient;
uniform vec3 lightPosition;

in vec4 fragPosition;
in vec3 normal;
in mat3 tbn;
in vec2 uv;

out vec4 outFragment;

void main()
{
   vec3 albedo = mtlAlbedo * texture(texture0, uv).rgb;
   vec4 normalTexel = texture(texture1, uv);
   float roughness = mtlRoughness * texture(texture2, uv).r;
   float metalness = mtlMetalness * texture(texture3, uv).r;

   // A white default normal map means "no normal map".
   vec3 N = normalize(normal);
   if (normalTexel.b < 0.99)
      N = normalize(tbn * (normalTexel.xyz * 2.0 - 1.0));

   vec3 V = normalize(-fragPosition.xyz);
   vec3 L = normalize(lightPosition - fragPosition.xyz);

   vec3 fragColor = mtlEmission + lightAmbient * albedo * 0.1;
   if (dot(N, V) > 0.0)
   {
      float nDotL = max(0.0, dot(N, L));
      fragColor += nDotL * lightColor * albedo * (1.0 - metalness);

      vec3 H = normalize(L + V);
      float shininess = mix(128.0, 4.0, roughness);
      float nDotH = max(0.0, dot(N, H));
      vec3 specular = mix(vec3(0.04), albedo, metalness);
      fragColor += pow(nDotH, shininess) * lightColor * specular;
   }

   outFragment = vec4(fragColor, mtlOpacity);
}
`

// Default is the forward renderer: one pass over the meshes per light,
// with additive blending from the second light on.
type Default struct {
	Base
	wireframe bool
}

func NewDefault() *Default {
	d := &Default{}
	d.initBase(defaultVertexShader, defaultFragmentShader)
	return d
}

func (d *Default) Init() error {
	return d.initProgram(d)
}

func (d *Default) Free() error {
	return d.freeProgram()
}

func (d *Default) IsWireframe() bool {
	return d.wireframe
}

func (d *Default) SetWireframe(enabled bool) {
	d.wireframe = enabled
}

// Render draws list as seen from camera. Lights are taken from the front of
// the list; a list without lights draws nothing.
func (d *Default) Render(camera, proj mgl32.Mat4, list *scene.List) error {
	if err := d.begin(d, list); err != nil {
		return err
	}
	d.program.SetMat4("projectionMat", proj)

	drv := renderer.CurrentDriver()
	if d.wireframe {
		drv.SetWireframe(true)
	}

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
		if err := list.Render(camera, scene.PassMeshes); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
	}

	if nrOfLights > 1 {
		drv.SetAdditiveBlend(false)
	}
	if d.wireframe {
		drv.SetWireframe(false)
	}
	return errs
}
