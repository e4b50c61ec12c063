package ui

import (
	_ "embed"
	"os"

	"dome-viewer/internal/widgets"
)

//go:embed panels.css
var defaultCSS string

// PixelsPerMeter sets the texture resolution of widget faces.
const PixelsPerMeter = 640

// Engine holds the stylesheet and lays out widget faces. Resolved styles are cached per
// (type, class, id) and dropped when the stylesheet changes.
type Engine struct {
	sheet *Stylesheet
	cache map[styleKey]ComputedStyle
}

type styleKey struct{ typ, class, id string }

// New creates an engine with the built-in stylesheet.
func New() *Engine {
	e := &Engine{}
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		sheet = &Stylesheet{}
	}
	e.SetStylesheet(sheet)
	return e
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly (e.g. from embedded or merged CSS).
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cache = map[styleKey]ComputedStyle{}
}

// Stylesheet returns the current stylesheet.
func (e *Engine) Stylesheet() *Stylesheet { return e.sheet }

// Style resolves the style of n: every matching rule applies in sheet order, last wins.
func (e *Engine) Style(n *Node) ComputedStyle {
	k := styleKey{n.Type, n.Class, n.ID}
	if s, ok := e.cache[k]; ok {
		return s
	}
	s := ResolveProps(e.resolveProps(n))
	e.cache[k] = s
	return s
}

func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	for _, rule := range e.sheet.Rules {
		if matches(rule.Selector, n) {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

func matches(sel string, n *Node) bool {
	switch {
	case sel == "":
		return false
	case sel == "*":
		return true
	case sel[0] == '.':
		return n.Class == sel[1:]
	case sel[0] == '#':
		return n.ID == sel[1:]
	}
	return n.Type == sel
}

// Face is a laid-out widget face: texture size, style and the text to draw.
type Face struct {
	Node   *Node
	Style  ComputedStyle
	Width  int32
	Height int32
}

// Compose builds the face of w. Info panels show lines; other widgets show their label.
// A button with on set (its group is showing) gets class "toolbar_on" instead of "toolbar".
func (e *Engine) Compose(w *widgets.Widget, lines []string, on bool) Face {
	class := w.Group
	if w.Kind == widgets.Button {
		class = "toolbar"
		if on {
			class = "toolbar_on"
		}
	}
	if len(lines) == 0 && w.Label != "" {
		lines = []string{w.Label}
	}
	n := NewNode(w.Kind.String(), class, w.ID, lines...)
	f := Face{
		Node:   n,
		Style:  e.Style(n),
		Width:  int32(w.Width * PixelsPerMeter),
		Height: int32(w.Height * PixelsPerMeter),
	}
	n.Bounds = Rect{Width: float32(f.Width), Height: float32(f.Height)}
	return f
}
