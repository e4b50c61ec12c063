package widgets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"dome-viewer/internal/params"
)

//go:embed layout.yaml
var defaultLayout []byte

// Kind distinguishes panels (grouped, toggleable, textured) from toolbar buttons.
type Kind int

const (
	Panel Kind = iota
	Button
)

func (k Kind) String() string {
	if k == Button {
		return "button"
	}
	return "panel"
}

// UnmarshalYAML reads "panel" or "button".
func (k *Kind) UnmarshalYAML(n *yaml.Node) error {
	switch n.Value {
	case "panel":
		*k = Panel
	case "button":
		*k = Button
	default:
		return fmt.Errorf("line %d: unknown widget kind %q", n.Line, n.Value)
	}
	return nil
}

// ActionKind selects what a widget does when it is hit.
type ActionKind int

const (
	None ActionKind = iota
	AdjustShape
	ToggleShapeKind
	ToggleWireframe
	AdjustMaterial
	CycleColor
	AdjustTransform
	ToggleGroup
	RequestLoad
	ResetDome
	NextEnvironment
)

var actionNames = map[string]ActionKind{
	"none":              None,
	"adjust_shape":      AdjustShape,
	"toggle_shape_kind": ToggleShapeKind,
	"toggle_wireframe":  ToggleWireframe,
	"adjust_material":   AdjustMaterial,
	"cycle_color":       CycleColor,
	"adjust_transform":  AdjustTransform,
	"toggle_group":      ToggleGroup,
	"request_load":      RequestLoad,
	"reset_dome":        ResetDome,
	"next_environment":  NextEnvironment,
}

func (a ActionKind) String() string {
	for name, k := range actionNames {
		if k == a {
			return name
		}
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// UnmarshalYAML reads an action name such as "toggle_group"; unknown names are an error.
func (a *ActionKind) UnmarshalYAML(n *yaml.Node) error {
	k, ok := actionNames[n.Value]
	if !ok {
		return fmt.Errorf("line %d: unknown action %q", n.Line, n.Value)
	}
	*a = k
	return nil
}

// Action is the bound behavior of one widget.
type Action struct {
	Kind  ActionKind   `yaml:"kind"`
	Field params.Field `yaml:"field"`
	Step  float32      `yaml:"step"`
	Group string       `yaml:"group"`
}

// anchorTable is keyed by mode name, then variant name.
type anchorTable map[string]map[string][3]float32

type groupDef struct {
	Name    string `yaml:"name"`
	Visible bool   `yaml:"visible"`
}

type widgetDef struct {
	ID     string     `yaml:"id"`
	Kind   Kind       `yaml:"kind"`
	Group  string     `yaml:"group"`
	Anchor string     `yaml:"anchor"`
	Cell   [2]float32 `yaml:"cell"`
	Size   [2]float32 `yaml:"size"`
	Label  string     `yaml:"label"`
	Action Action     `yaml:"action"`
}

// Layout is the parsed widget layout file.
type Layout struct {
	Anchors map[string]anchorTable `yaml:"anchors"`
	Groups  []groupDef             `yaml:"groups"`
	Widgets []widgetDef            `yaml:"widgets"`
}

var (
	modeKeys    = []string{Flat.String(), Immersive.String()}
	variantKeys = []string{"dome", "model"}
)

// ParseLayout decodes and validates a layout document.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("widgets: parse layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layout) validate() error {
	for name, t := range l.Anchors {
		for _, m := range modeKeys {
			for _, v := range variantKeys {
				if _, ok := t[m][v]; !ok {
					return fmt.Errorf("widgets: anchor %q has no %s/%s placement", name, m, v)
				}
			}
		}
	}
	groups := map[string]bool{}
	for _, g := range l.Groups {
		groups[g.Name] = true
	}
	seen := map[string]bool{}
	for i := range l.Widgets {
		w := &l.Widgets[i]
		if w.ID == "" {
			return fmt.Errorf("widgets: widget %d has no id", i)
		}
		if seen[w.ID] {
			return fmt.Errorf("widgets: duplicate widget id %q", w.ID)
		}
		seen[w.ID] = true
		switch w.Kind {
		case Button:
			if w.Group != "" {
				return fmt.Errorf("widgets: button %q cannot belong to group %q", w.ID, w.Group)
			}
		case Panel:
			if !groups[w.Group] {
				return fmt.Errorf("widgets: panel %q has unknown group %q", w.ID, w.Group)
			}
		}
		if w.Anchor == "" {
			w.Anchor = w.Group
		}
		if _, ok := l.Anchors[w.Anchor]; !ok {
			return fmt.Errorf("widgets: widget %q has unknown anchor %q", w.ID, w.Anchor)
		}
		if w.Size[0] <= 0 || w.Size[1] <= 0 {
			return fmt.Errorf("widgets: widget %q needs a positive size", w.ID)
		}
		switch w.Action.Kind {
		case AdjustShape, AdjustMaterial, AdjustTransform:
			if !params.KnownField(w.Action.Field) {
				return fmt.Errorf("widgets: widget %q adjusts unknown field %q", w.ID, w.Action.Field)
			}
		case ToggleGroup:
			if !groups[w.Action.Group] {
				return fmt.Errorf("widgets: widget %q toggles unknown group %q", w.ID, w.Action.Group)
			}
		}
	}
	return nil
}
