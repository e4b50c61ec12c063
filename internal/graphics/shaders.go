package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Surface shader for the active object. Fragments on the negative side of clipPlane are
// discarded; flatShading replaces the interpolated normal with the face normal. The environment
// panorama is bound as texture1 (the metalness map slot) and used for reflections.
const (
	surfaceVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	surfaceFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
out vec4 finalColor;
uniform vec4 colDiffuse;
uniform sampler2D texture1;
uniform vec3 viewPos;
uniform vec4 clipPlane;
uniform float roughness;
uniform float metalness;
uniform float flatShading;
uniform float hasEnvironment;
uniform float toneMap;
const vec3 lightDir = vec3(-0.37, -0.84, -0.4);
vec2 equirect(vec3 d) {
  return vec2(atan(d.z, d.x) / 6.28318530718 + 0.5, 0.5 - asin(clamp(d.y, -1.0, 1.0)) / 3.14159265359);
}
void main() {
  if (dot(clipPlane.xyz, fragPosition) + clipPlane.w < 0.0) discard;
  vec3 n = normalize(fragNormal);
  if (flatShading > 0.5) {
    n = normalize(cross(dFdx(fragPosition), dFdy(fragPosition)));
  } else if (!gl_FrontFacing) {
    n = -n;
  }
  vec3 v = normalize(viewPos - fragPosition);
  vec3 l = -normalize(lightDir);
  vec3 base = colDiffuse.rgb;
  vec3 f0 = mix(vec3(0.04), base, metalness);
  float diff = max(dot(n, l), 0.0);
  float shininess = mix(256.0, 4.0, roughness);
  float spec = pow(max(dot(n, normalize(l + v)), 0.0), shininess) * (1.0 - 0.8 * roughness);
  vec3 color = base * (0.2 + 0.8 * diff) * (1.0 - metalness) + f0 * spec;
  if (hasEnvironment > 0.5) {
    vec3 env = texture(texture1, equirect(reflect(-v, n))).rgb;
    if (toneMap > 0.5) env = env / (env + vec3(1.0));
    color += env * f0 * (1.0 - roughness) + env * 0.15 * (1.0 - metalness);
  }
  finalColor = vec4(color, colDiffuse.a);
}
`
)

// Equirectangular skybox shader: samples a 2D panorama by view direction. HDR panoramas are
// tone mapped.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D texture0;
uniform vec3 cameraPosition;
uniform float toneMap;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  vec3 c = texture(texture0, vec2(u, v)).rgb;
  if (toneMap > 0.5) c = c / (c + vec3(1.0));
  finalColor = vec4(c, 1.0);
}
`
)

// surfaceShader holds the lit shader and its uniform locations.
type surfaceShader struct {
	shader      rl.Shader
	viewPos     int32
	clipPlane   int32
	roughness   int32
	metalness   int32
	flatShading int32
	hasEnv      int32
	toneMap     int32
}

func loadSurfaceShader() (surfaceShader, bool) {
	sh := rl.LoadShaderFromMemory(surfaceVS, surfaceFS)
	if !rl.IsShaderValid(sh) {
		return surfaceShader{}, false
	}
	return surfaceShader{
		shader:      sh,
		viewPos:     rl.GetShaderLocation(sh, "viewPos"),
		clipPlane:   rl.GetShaderLocation(sh, "clipPlane"),
		roughness:   rl.GetShaderLocation(sh, "roughness"),
		metalness:   rl.GetShaderLocation(sh, "metalness"),
		flatShading: rl.GetShaderLocation(sh, "flatShading"),
		hasEnv:      rl.GetShaderLocation(sh, "hasEnvironment"),
		toneMap:     rl.GetShaderLocation(sh, "toneMap"),
	}, true
}

func setFloat(sh rl.Shader, loc int32, v float32) {
	if loc >= 0 {
		rl.SetShaderValue(sh, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

func setVec(sh rl.Shader, loc int32, v []float32) {
	if loc < 0 {
		return
	}
	typ := rl.ShaderUniformVec3
	if len(v) == 4 {
		typ = rl.ShaderUniformVec4
	}
	rl.SetShaderValue(sh, loc, v, typ)
}

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
