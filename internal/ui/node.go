package ui

// Rect is a pixel rectangle inside a panel texture or the screen.
type Rect struct {
	X, Y, Width, Height float32
}

// Node is a single UI element matched against the stylesheet by type, class and id.
// Type is "panel", "button" or "label"; Class is the widget group ("toolbar" or "toolbar_on" for buttons).
type Node struct {
	Type   string
	Class  string
	ID     string
	Bounds Rect
	Lines  []string
}

// NewNode creates a node with type and optional class, id, and text lines.
func NewNode(typ, class, id string, lines ...string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Lines: lines}
}
