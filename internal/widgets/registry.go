package widgets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/scene"
)

// Widget is one spatial surface. Widgets are created once and live for the whole process;
// only Visible, the placement fields and Dirty change afterwards.
type Widget struct {
	ID     string
	Kind   Kind
	Group  string
	Label  string
	Width  float32
	Height float32
	Action Action

	Visible     bool
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	// Dirty asks the renderer to redraw the panel's texture.
	Dirty bool

	anchor string
	cell   mgl32.Vec3
}

// HitTestable is derived from visibility so hidden widgets never swallow rays.
func (w *Widget) HitTestable() bool { return w.Visible }

// Intersect returns the distance along r to the widget's face.
func (w *Widget) Intersect(r Ray) (float32, bool) {
	return intersectQuad(r, w.Position, w.Orientation, w.Width, w.Height)
}

// Registry is the fixed widget set plus group visibility.
type Registry struct {
	widgets []*Widget
	byID    map[string]*Widget
	groups  []string
	anchors map[string]anchorTable
}

// NewRegistry builds the registry from the embedded layout.
func NewRegistry() (*Registry, error) {
	l, err := ParseLayout(defaultLayout)
	if err != nil {
		return nil, err
	}
	return FromLayout(l), nil
}

// FromLayout creates every widget in layout order with its group's initial visibility.
// Buttons start visible.
func FromLayout(l *Layout) *Registry {
	r := &Registry{byID: map[string]*Widget{}, anchors: l.Anchors}
	visible := map[string]bool{}
	for _, g := range l.Groups {
		r.groups = append(r.groups, g.Name)
		visible[g.Name] = g.Visible
	}
	for _, d := range l.Widgets {
		w := &Widget{
			ID:          d.ID,
			Kind:        d.Kind,
			Group:       d.Group,
			Label:       d.Label,
			Width:       d.Size[0],
			Height:      d.Size[1],
			Action:      d.Action,
			Visible:     d.Kind == Button || visible[d.Group],
			Orientation: mgl32.QuatIdent(),
			anchor:      d.Anchor,
			cell:        mgl32.Vec3{d.Cell[0], d.Cell[1], 0},
		}
		r.widgets = append(r.widgets, w)
		r.byID[w.ID] = w
	}
	return r
}

// Widgets returns every widget in registration order.
func (r *Registry) Widgets() []*Widget { return r.widgets }

// Groups returns the toggle group names.
func (r *Registry) Groups() []string { return r.groups }

// Get looks a widget up by id.
func (r *Registry) Get(id string) (*Widget, bool) {
	w, ok := r.byID[id]
	return w, ok
}

// Intersect returns the first hit-testable widget, in registration order, that r passes through.
func (r *Registry) Intersect(ray Ray) (*Widget, bool) {
	for _, w := range r.widgets {
		if !w.HitTestable() {
			continue
		}
		if _, ok := w.Intersect(ray); ok {
			return w, true
		}
	}
	return nil, false
}

// ToggleGroupVisibility flips every panel of group in one step. Buttons toggling the group are
// marked dirty so their face can follow.
func (r *Registry) ToggleGroupVisibility(group string) error {
	members := r.members(group)
	if members == nil {
		return fmt.Errorf("widgets: unknown group %q", group)
	}
	for _, w := range members {
		w.Visible = !w.Visible
		w.Dirty = true
	}
	for _, w := range r.widgets {
		if w.Kind == Button && w.Action.Kind == ToggleGroup && w.Action.Group == group {
			w.Dirty = true
		}
	}
	return nil
}

// GroupVisible reports whether any panel of group is visible.
func (r *Registry) GroupVisible(group string) bool {
	for _, w := range r.members(group) {
		if w.Visible {
			return true
		}
	}
	return false
}

func (r *Registry) members(group string) []*Widget {
	var out []*Widget
	for _, w := range r.widgets {
		if w.Kind == Panel && w.Group == group {
			out = append(out, w)
		}
	}
	return out
}

// Reposition places every widget in front of the viewer using the anchor table for
// (mode, variant). It only depends on its arguments, so repeated calls give identical transforms.
func (r *Registry) Reposition(pose Pose, mode Mode, variant scene.Variant) {
	vkey := "dome"
	if variant == scene.VariantModel {
		vkey = "model"
	}
	mkey := mode.String()
	for _, w := range r.widgets {
		a := r.anchors[w.anchor][mkey][vkey]
		w.Position = pose.Apply(mgl32.Vec3(a).Add(w.cell))
		w.Orientation = pose.Orientation
		if w.Kind == Panel {
			w.Dirty = true
		}
	}
}
