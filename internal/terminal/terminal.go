package terminal

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"dome-viewer/internal/commands"
	"dome-viewer/internal/logger"
)

const (
	barHeight = 40
	// Windowed mode lifts the bar clear of the window's bottom edge.
	windowedLift  = 56
	prompt        = "> "
	fontSize      = 20
	padding       = 8
	visibleLines  = 14
	lineHeight    = fontSize + 4
	maxLineLength = 200
	historySize   = 50
)

var (
	barColor   = rl.NewColor(40, 40, 40, 255)
	ruleColor  = rl.NewColor(80, 80, 80, 255)
	backdrop   = rl.NewColor(24, 24, 24, 240)
	errorColor = rl.NewColor(255, 110, 110, 255)
	warnColor  = rl.NewColor(240, 200, 90, 255)
)

// Completer returns candidate lines for a partially typed one.
type Completer func(line string) []string

// Terminal is the developer console, toggled with the grave key. While open it owns the keyboard
// and the viewer ignores pointer input. Submitted lines go to submit; the log ring is shown above
// the input bar.
type Terminal struct {
	log      *logger.Logger
	submit   func(line string)
	complete Completer
	history  *commands.History

	line   string
	open   bool
	scroll int
	font   rl.Font
}

// New returns a closed console. complete may be nil.
func New(log *logger.Logger, submit func(line string), complete Completer) *Terminal {
	return &Terminal{log: log, submit: submit, complete: complete, history: commands.NewHistory(historySize)}
}

// IsOpen reports whether the console is visible and capturing input.
func (t *Terminal) IsOpen() bool { return t.open }

// SetFont sets the console font. A zero font means raylib's default.
func (t *Terminal) SetFont(font rl.Font) { t.font = font }

// Close hides the console and clears the input line.
func (t *Terminal) Close() {
	t.open = false
	t.line = ""
	t.scroll = 0
	t.history.Reset()
}

// Update handles one frame of keyboard input.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyGrave) {
		open := !t.open
		t.Close()
		t.open = open
		for rl.GetCharPressed() != 0 {
		}
		return
	}
	if !t.open {
		return
	}
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		t.Close()
		return
	case rl.IsKeyPressed(rl.KeyUp):
		if l, ok := t.history.Prev(); ok {
			t.line = l
		}
	case rl.IsKeyPressed(rl.KeyDown):
		if l, ok := t.history.Next(); ok {
			t.line = l
		}
	case rl.IsKeyPressed(rl.KeyTab):
		t.completeLine()
	case rl.IsKeyPressed(rl.KeyPageUp):
		t.scroll += visibleLines / 2
	case rl.IsKeyPressed(rl.KeyPageDown):
		t.scroll = max(0, t.scroll-visibleLines/2)
	}
	t.readText()
	if rl.IsKeyPressed(rl.KeyBackspace) && t.line != "" {
		_, size := utf8.DecodeLastRuneInString(t.line)
		t.line = t.line[:len(t.line)-size]
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.line != "" {
		line := t.line
		t.line = ""
		t.scroll = 0
		t.history.Add(line)
		t.submit(line)
	}
}

// readText appends typed characters, or the clipboard on Ctrl/Cmd+V.
func (t *Terminal) readText() {
	mod := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if mod && rl.IsKeyPressed(rl.KeyV) {
		t.line += strings.ReplaceAll(rl.GetClipboardText(), "\n", " ")
		for rl.GetCharPressed() != 0 {
		}
		return
	}
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		t.line += string(rune(c))
	}
}

// completeLine fills in a unique candidate, or lists the candidates in the log.
func (t *Terminal) completeLine() {
	if t.complete == nil {
		return
	}
	switch c := t.complete(t.line); len(c) {
	case 0:
	case 1:
		t.line = c[0]
	default:
		t.log.Log(strings.Join(c, "  "))
	}
}

// Draw draws the log lines and the input bar when open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	w := int(rl.GetScreenWidth())
	barY := int(rl.GetScreenHeight()) - barHeight
	if !rl.IsWindowFullscreen() {
		barY -= windowedLift
	}
	areaH := visibleLines * lineHeight
	areaY := barY - areaH
	if areaY < 0 {
		areaY, areaH = 0, barY
	}
	if areaH > 0 {
		rl.DrawRectangle(0, int32(areaY), int32(w), int32(areaH), backdrop)
	}

	lines := t.log.Lines()
	end := len(lines) - t.scroll
	if end < visibleLines {
		end = min(len(lines), visibleLines)
		t.scroll = len(lines) - end
	}
	start := max(0, end-visibleLines)
	for i, line := range lines[start:end] {
		line = logger.Truncate(line, maxLineLength)
		t.text(line, padding, areaY+i*lineHeight+padding, lineColor(line))
	}

	rl.DrawRectangle(0, int32(barY), int32(w), barHeight, barColor)
	rl.DrawRectangle(0, int32(barY), int32(w), 1, ruleColor)
	t.text(prompt+t.line+"|", padding, barY+padding, rl.White)
}

func lineColor(line string) rl.Color {
	switch {
	case strings.Contains(line, "] "+logger.Error.String()+" "):
		return errorColor
	case strings.Contains(line, "] "+logger.Warn.String()+" "):
		return warnColor
	}
	return rl.LightGray
}

func (t *Terminal) text(s string, x, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(s, int32(x), int32(y), fontSize, c)
}
