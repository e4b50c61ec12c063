package graphics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/scene"
	"dome-viewer/internal/viewer"
	"dome-viewer/internal/widgets"
)

const rayLength = 6

var (
	background = rl.NewColor(12, 12, 18, 255)
	rayColor   = rl.NewColor(120, 200, 255, 200)
)

// Draw renders one frame: panel textures first, then the world (mono or stereo), then the 2D
// overlays.
func (b *Backend) Draw(f *viewer.Frame) {
	textures := make([]*panelTexture, len(f.Panels))
	for i, p := range f.Panels {
		textures[i] = b.panelFor(p)
	}
	cam := camera(f)

	if b.vr != nil {
		rl.BeginTextureMode(b.vr.target)
		rl.ClearBackground(background)
		rl.BeginVrStereoMode(b.vr.config)
		rl.BeginMode3D(cam)
		b.drawWorld(f, cam, textures)
		rl.EndMode3D()
		rl.EndVrStereoMode()
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(background)
	if b.vr != nil {
		t := b.vr.target.Texture
		src := rl.NewRectangle(0, 0, float32(t.Width), -float32(t.Height))
		dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
		rl.DrawTexturePro(t, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	} else {
		rl.BeginMode3D(cam)
		b.drawWorld(f, cam, textures)
		rl.EndMode3D()
	}
	b.hud.Draw(f.HUD)
	if b.term != nil {
		b.term.Draw()
	}
	rl.EndDrawing()
}

func camera(f *viewer.Frame) rl.Camera3D {
	pos := f.Pose.Position
	target := pos.Add(f.Pose.Forward())
	up := f.Pose.Up()
	return rl.NewCamera3D(vec3(pos), vec3(target), vec3(up), f.FovY*180/math32.Pi, rl.CameraPerspective)
}

func (b *Backend) drawWorld(f *viewer.Frame, cam rl.Camera3D, textures []*panelTexture) {
	if env, ok := b.envs[f.Environment]; ok {
		b.sky.draw(env, cam.Position)
	}
	b.drawObjects(f, cam)

	rl.DisableBackfaceCulling()
	for i, p := range f.Panels {
		drawPanel(p, textures[i])
	}
	rl.EnableBackfaceCulling()

	if f.Mode == widgets.Immersive {
		// The gaze ray starts at the eye; draw it from just below so it stays visible.
		from := f.Ray.Origin.Sub(f.Pose.Up().Mul(0.1))
		to := f.Ray.Origin.Add(f.Ray.Direction.Mul(rayLength))
		rl.DrawLine3D(vec3(from), vec3(to), rayColor)
	}
}

// drawObjects draws every drawable with the surface shader. Transparent materials are drawn
// after opaque ones with alpha blending.
func (b *Backend) drawObjects(f *viewer.Frame, cam rl.Camera3D) {
	env, hasEnv := b.envs[f.Environment]
	var later []scene.Drawable
	for _, d := range f.Drawables {
		spec, ok := b.materials[d.Material]
		if ok && (spec.Transparent || spec.Opacity < 1) {
			later = append(later, d)
			continue
		}
		b.drawOne(d, f.Clip, cam, env, hasEnv)
	}
	if len(later) == 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAlpha)
	for _, d := range later {
		b.drawOne(d, f.Clip, cam, env, hasEnv)
	}
	rl.EndBlendMode()
}

func (b *Backend) drawOne(d scene.Drawable, clip scene.ClippingPlane, cam rl.Camera3D, env envTexture, hasEnv bool) {
	m, ok := b.meshes[d.Geometry]
	if !ok {
		return
	}
	spec, ok := b.materials[d.Material]
	if !ok {
		return
	}
	sh := b.surface
	if c := spec.Clip; c != nil {
		clip = *c
	}
	setVec(sh.shader, sh.viewPos, []float32{cam.Position.X, cam.Position.Y, cam.Position.Z})
	setVec(sh.shader, sh.clipPlane, []float32{clip.Normal[0], clip.Normal[1], clip.Normal[2], clip.Constant})
	setFloat(sh.shader, sh.roughness, spec.Roughness)
	setFloat(sh.shader, sh.metalness, spec.Metalness)
	setFloat(sh.shader, sh.flatShading, boolf(spec.FlatShading))
	setFloat(sh.shader, sh.hasEnv, boolf(hasEnv))
	setFloat(sh.shader, sh.toneMap, boolf(env.hdr))

	col := spec.Color
	col.A = uint8(math32.Round(255 * math32.Max(0, math32.Min(1, spec.Opacity))))
	b.surfaceMat.GetMap(rl.MapDiffuse).Color = col
	if hasEnv {
		rl.SetMaterialTexture(&b.surfaceMat, rl.MapMetalness, env.tex)
	}

	if spec.DoubleSided {
		rl.DisableBackfaceCulling()
	}
	if spec.Wireframe {
		rl.EnableWireMode()
	}
	rl.DrawMesh(m.mesh, b.surfaceMat, matrix(d.Matrix))
	if spec.Wireframe {
		rl.DisableWireMode()
	}
	if spec.DoubleSided {
		rl.EnableBackfaceCulling()
	}
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// matrix converts column-major mgl32 to raylib's field order.
func matrix(m mgl32.Mat4) rl.Matrix {
	return rl.NewMatrix(
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	)
}
