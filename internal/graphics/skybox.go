package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"dome-viewer/internal/logger"
)

// skybox draws the active environment panorama on a large cube centered on the camera.
type skybox struct {
	mesh      rl.Mesh
	mtl       rl.Material
	shader    rl.Shader
	camPosLoc int32
	toneLoc   int32
	size      float32
	ok        bool
}

// loadSkybox sizes the cube to the far plane; its corners stay inside at 0.87 × far.
func loadSkybox(log *logger.Logger, far float32) skybox {
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		log.Errorf("skybox shader failed to compile; environments will not be drawn")
		return skybox{}
	}
	s := skybox{
		mesh:      rl.GenMeshCube(1, 1, 1),
		mtl:       rl.LoadMaterialDefault(),
		shader:    shader,
		camPosLoc: rl.GetShaderLocation(shader, "cameraPosition"),
		toneLoc:   rl.GetShaderLocation(shader, "toneMap"),
		size:      far,
		ok:        true,
	}
	s.mtl.Shader = shader
	return s
}

func (s *skybox) draw(env envTexture, camPos rl.Vector3) {
	if !s.ok || env.tex.ID == 0 {
		return
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	scale := rl.MatrixScale(s.size, s.size, s.size)
	trans := rl.MatrixTranslate(camPos.X, camPos.Y, camPos.Z)
	setVec(s.shader, s.camPosLoc, []float32{camPos.X, camPos.Y, camPos.Z})
	setFloat(s.shader, s.toneLoc, boolf(env.hdr))
	rl.SetMaterialTexture(&s.mtl, rl.MapDiffuse, env.tex)
	rl.DrawMesh(s.mesh, s.mtl, rl.MatrixMultiply(scale, trans))
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

func (s *skybox) unload() {
	if !s.ok {
		return
	}
	rl.UnloadMesh(&s.mesh)
	rl.UnloadShader(s.shader)
	s.ok = false
}
