package graphics

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/assets"
	"dome-viewer/internal/primitives"
	"dome-viewer/internal/scene"
)

// meshEntry is one uploaded mesh. Meshes decoded from a model file share the model, which is
// unloaded when its last mesh is disposed.
type meshEntry struct {
	mesh  rl.Mesh
	model *sharedModel
}

type sharedModel struct {
	model rl.Model
	refs  int
}

func (e *meshEntry) release() {
	if e.model == nil {
		rl.UnloadMesh(&e.mesh)
		return
	}
	e.model.refs--
	if e.model.refs == 0 {
		rl.UnloadModel(e.model.model)
	}
}

type envTexture struct {
	tex rl.Texture2D
	hdr bool
}

// CreateGeometry uploads a generated triangle list.
func (b *Backend) CreateGeometry(g *primitives.Geometry) (scene.Handle, error) {
	n := g.VertexCount()
	if n == 0 {
		return 0, errors.New("graphics: empty geometry")
	}
	mesh := rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(g.TriangleCount()),
		Vertices:      &g.Positions[0],
		Normals:       &g.Normals[0],
	}
	if len(g.TexCoords) > 0 {
		mesh.Texcoords = &g.TexCoords[0]
	}
	rl.UploadMesh(&mesh, false)
	if mesh.VaoID == 0 {
		return 0, errors.New("graphics: mesh upload failed")
	}
	// GPU buffers hold the data now; drop the Go pointers so draws pass no Go memory to C.
	mesh.Vertices, mesh.Normals, mesh.Texcoords = nil, nil, nil
	h := b.alloc()
	b.meshes[h] = &meshEntry{mesh: mesh}
	return h, nil
}

// CreateMaterial records spec. All materials share one surface shader; the spec is applied as
// uniforms at draw time, so the shared clipping plane is read fresh every frame.
func (b *Backend) CreateMaterial(spec scene.MaterialSpec) (scene.Handle, error) {
	h := b.alloc()
	b.materials[h] = spec
	return h, nil
}

// DecodeMesh loads a model file and registers one geometry per mesh, with its bounds and the
// base colour of the material it uses.
func (b *Backend) DecodeMesh(path string) (*scene.DecodedMesh, error) {
	model := rl.LoadModel(path)
	if !rl.IsModelValid(model) || model.MeshCount == 0 {
		return nil, fmt.Errorf("graphics: no meshes in %s", filepath.Base(path))
	}
	shared := &sharedModel{model: model}
	meshes := model.GetMeshes()
	materials := model.GetMaterials()
	var meshMaterial []int32
	if model.MeshMaterial != nil {
		meshMaterial = unsafe.Slice(model.MeshMaterial, model.MeshCount)
	}
	out := &scene.DecodedMesh{Name: filepath.Base(path)}
	for i, m := range meshes {
		tint := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if i < len(meshMaterial) {
			if idx := int(meshMaterial[i]); idx >= 0 && idx < len(materials) {
				tint = materials[idx].GetMap(rl.MapDiffuse).Color
			}
		}
		box := rl.GetMeshBoundingBox(m)
		h := b.alloc()
		shared.refs++
		b.meshes[h] = &meshEntry{mesh: m, model: shared}
		out.Submeshes = append(out.Submeshes, scene.Submesh{
			Geometry:  h,
			BaseColor: tint,
			Min:       mgl32.Vec3{box.Min.X, box.Min.Y, box.Min.Z},
			Max:       mgl32.Vec3{box.Max.X, box.Max.Y, box.Max.Z},
		})
	}
	return out, nil
}

// UploadEnvironment turns a decoded panorama into a texture. HDR files arrive undecoded and go
// through raylib's own loader.
func (b *Backend) UploadEnvironment(img *assets.EnvironmentImage) (scene.Handle, error) {
	var tex rl.Texture2D
	hdr := img.RGBA == nil
	if hdr {
		if len(img.Raw) == 0 {
			return 0, errors.New("graphics: empty image")
		}
		im := rl.LoadImageFromMemory(img.Ext, img.Raw, int32(len(img.Raw)))
		if im == nil || im.Data == nil {
			return 0, fmt.Errorf("graphics: cannot decode %s", img.Ext)
		}
		tex = rl.LoadTextureFromImage(im)
		rl.UnloadImage(im)
	} else {
		bounds := img.RGBA.Bounds()
		w, h := bounds.Dx(), bounds.Dy()
		if w == 0 || h == 0 {
			return 0, errors.New("graphics: empty image")
		}
		blank := rl.GenImageColor(w, h, rl.Blank)
		tex = rl.LoadTextureFromImage(blank)
		rl.UnloadImage(blank)
		rl.UpdateTexture(tex, unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.RGBA.Pix[0])), w*h))
	}
	if !rl.IsTextureValid(tex) {
		return 0, errors.New("graphics: texture upload failed")
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	handle := b.alloc()
	b.envs[handle] = envTexture{tex: tex, hdr: hdr}
	return handle, nil
}
