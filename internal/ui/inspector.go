package ui

import (
	"fmt"

	"github.com/chewxy/math32"

	"dome-viewer/internal/params"
	"dome-viewer/internal/scene"
)

// Status is what the info panels show. Pass it from the viewer; it is a snapshot, never live state.
type Status struct {
	Params      params.Snapshot
	Variant     scene.Variant
	Vertices    int
	Pending     bool
	Environment string
}

// InfoLines returns the text of the info panel id, or nil when id is not an info panel.
func InfoLines(id string, st Status) []string {
	sh, mat, tr := st.Params.Shape, st.Params.Material, st.Params.Transform
	switch id {
	case "shape_info":
		lines := []string{
			fmt.Sprintf("%s  r=%.2f  detail=%d", sh.Kind, sh.Radius, sh.Subdivision),
			fmt.Sprintf("clip %.2f  %s", sh.ClipHeight, onOff(sh.WireframeOnly, "wireframe", "solid")),
		}
		if st.Variant == scene.VariantDome && st.Vertices > 0 {
			lines = append(lines, fmt.Sprintf("%d vertices", st.Vertices))
		}
		return lines
	case "material_info":
		return []string{
			fmt.Sprintf("rough %.2f  metal %.2f", mat.Roughness, mat.Metalness),
			fmt.Sprintf("opacity %.2f  speed %.3f", mat.Opacity, mat.RotationSpeed),
			fmt.Sprintf("color #%02x%02x%02x", mat.BaseColor.R, mat.BaseColor.G, mat.BaseColor.B),
		}
	case "transform_info":
		lines := []string{
			fmt.Sprintf("pos %.1f %.1f %.1f", tr.Position[0], tr.Position[1], tr.Position[2]),
			fmt.Sprintf("turn %.0f°  scale %.1f", tr.Rotation[1]*180/math32.Pi, tr.Scale),
		}
		switch {
		case st.Pending:
			lines = append(lines, "loading...")
		case st.Variant != scene.VariantModel:
			lines = append(lines, "no model loaded")
		}
		return lines
	}
	return nil
}

func onOff(b bool, on, off string) string {
	if b {
		return on
	}
	return off
}
