package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"dome-viewer/internal/logger"
	"dome-viewer/internal/scene"
)

// ErrCancelled is returned by a Picker when the user closes the dialog without choosing.
var ErrCancelled = errors.New("assets: selection cancelled")

// Slot names one independent load target. Each slot has at most one current request.
type Slot int

const (
	EnvironmentSlot Slot = iota
	MeshSlot
)

func (s Slot) String() string {
	if s == MeshSlot {
		return "mesh"
	}
	return "environment"
}

// Picker asks the user for a mesh file.
type Picker interface {
	PickMesh() (string, error)
}

// MeshDecoder turns a mesh file into uploaded geometry. It runs on the frame goroutine.
type MeshDecoder interface {
	DecodeMesh(path string) (*scene.DecodedMesh, error)
}

// EnvironmentUploader creates and releases environment textures. It runs on the frame goroutine.
type EnvironmentUploader interface {
	UploadEnvironment(img *EnvironmentImage) (scene.Handle, error)
	Dispose(h scene.Handle)
}

// Options configures a Loader.
type Options struct {
	Environments []string
	// MaxEnvironmentWidth caps decoded environment images; 0 keeps the source size.
	MaxEnvironmentWidth int
	// MeshExtensions lists accepted mesh file extensions, lower case with the dot.
	MeshExtensions []string
}

// Loader runs file picking and decoding on background goroutines and hands results back through
// post, which must run the callback on the frame goroutine. Every request carries a token; a
// completion whose token is no longer current for its slot is dropped.
type Loader struct {
	post     func(func())
	picker   Picker
	decoder  MeshDecoder
	uploader EnvironmentUploader
	log      *logger.Logger
	opts     Options
	onMesh   func(*scene.DecodedMesh, error)

	wg      conc.WaitGroup
	tokens  map[Slot]uuid.UUID
	envIdx  int
	env     scene.Handle
	envName string
}

// NewLoader returns an idle loader.
func NewLoader(post func(func()), picker Picker, decoder MeshDecoder, uploader EnvironmentUploader, log *logger.Logger, opts Options) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		post:     post,
		picker:   picker,
		decoder:  decoder,
		uploader: uploader,
		log:      log,
		opts:     opts,
		tokens:   map[Slot]uuid.UUID{},
		envIdx:   -1,
	}
}

// OnMesh sets the completion callback for mesh requests. It receives (nil, nil) on cancellation.
func (l *Loader) OnMesh(fn func(*scene.DecodedMesh, error)) { l.onMesh = fn }

// Pending reports whether slot has a request in flight.
func (l *Loader) Pending(slot Slot) bool { return l.tokens[slot] != uuid.Nil }

func (l *Loader) begin(slot Slot) uuid.UUID {
	t := uuid.New()
	l.tokens[slot] = t
	return t
}

// current reports whether t is still the live token for slot.
func (l *Loader) current(slot Slot, t uuid.UUID) bool {
	if l.tokens[slot] != t {
		l.log.Debugf("dropping stale %v result %s", slot, t)
		return false
	}
	return true
}

// Cancel forgets the request in flight for slot; its result will be dropped.
func (l *Loader) Cancel(slot Slot) {
	if l.Pending(slot) {
		l.log.Infof("%v load cancelled", slot)
	}
	l.tokens[slot] = uuid.Nil
}

// RequestMesh starts a mesh load. An empty path opens the picker first. A newer request replaces
// an older one.
func (l *Loader) RequestMesh(path string) {
	token := l.begin(MeshSlot)
	exts := l.opts.MeshExtensions
	work := func() {
		p, err := path, error(nil)
		if p == "" {
			p, err = l.picker.PickMesh()
		}
		if err == nil {
			err = checkMesh(p, exts)
		}
		l.post(func() { l.finishMesh(token, p, err) })
	}
	if path == "" {
		// A native dialog cannot be interrupted, so Close does not wait for it.
		go work()
		return
	}
	l.wg.Go(work)
}

// CancelMesh drops the pending mesh request, if any.
func (l *Loader) CancelMesh() { l.Cancel(MeshSlot) }

func checkMesh(path string, exts []string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return &AssetError{Path: path, Op: "open", Err: err}
	}
	if fi.IsDir() {
		return &AssetError{Path: path, Op: "open", Err: errors.New("is a directory")}
	}
	if len(exts) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if e == ext {
			return nil
		}
	}
	return &AssetError{Path: path, Op: "open", Err: fmt.Errorf("unsupported mesh format %q", ext)}
}

func (l *Loader) finishMesh(token uuid.UUID, path string, err error) {
	if !l.current(MeshSlot, token) {
		return
	}
	l.tokens[MeshSlot] = uuid.Nil
	var mesh *scene.DecodedMesh
	switch {
	case errors.Is(err, ErrCancelled):
		l.log.Infof("mesh selection cancelled")
		err = nil
	case err != nil:
		l.log.Errorf("%v", err)
	default:
		mesh, err = l.decoder.DecodeMesh(path)
		if err != nil {
			err = &AssetError{Path: path, Op: "decode", Err: err}
			l.log.Errorf("%v", err)
			mesh = nil
		}
	}
	if l.onMesh != nil {
		l.onMesh(mesh, err)
	}
}

// Environments returns the configured rotation.
func (l *Loader) Environments() []string { return l.opts.Environments }

// SetEnvironments replaces the rotation. The current texture stays until the next load.
func (l *Loader) SetEnvironments(paths []string) {
	l.opts.Environments = paths
	if l.envIdx >= len(paths) {
		l.envIdx = -1
	}
}

// Environment returns the live environment texture and its name; the handle is zero before the
// first load completes.
func (l *Loader) Environment() (scene.Handle, string) { return l.env, l.envName }

// NextEnvironment advances the rotation by one, wrapping at the end.
func (l *Loader) NextEnvironment() {
	n := len(l.opts.Environments)
	if n == 0 {
		l.log.Warnf("no environments configured")
		return
	}
	l.LoadEnvironment((l.envIdx + 1) % n)
}

// LoadEnvironment decodes entry i in the background and swaps it in when uploaded. The previous
// texture is released only after the new one exists.
func (l *Loader) LoadEnvironment(i int) {
	if i < 0 || i >= len(l.opts.Environments) {
		return
	}
	l.envIdx = i
	path := l.opts.Environments[i]
	token := l.begin(EnvironmentSlot)
	maxW := l.opts.MaxEnvironmentWidth
	l.wg.Go(func() {
		img, err := DecodeEnvironment(path, maxW)
		l.post(func() { l.finishEnvironment(token, path, img, err) })
	})
}

func (l *Loader) finishEnvironment(token uuid.UUID, path string, img *EnvironmentImage, err error) {
	if !l.current(EnvironmentSlot, token) {
		return
	}
	l.tokens[EnvironmentSlot] = uuid.Nil
	if err != nil {
		l.log.Errorf("%v", err)
		return
	}
	h, err := l.uploader.UploadEnvironment(img)
	if err != nil {
		l.log.Errorf("%v", &AssetError{Path: path, Op: "upload", Err: err})
		return
	}
	old := l.env
	l.env, l.envName = h, img.Name
	if old != 0 {
		l.uploader.Dispose(old)
	}
	l.log.Infof("environment %s active", img.Name)
}

// Close waits for background decoding and releases the environment texture. An open picker
// dialog is not waited for; its result reaches post after Close and must be dropped there.
// Callbacks already posted are not run; the caller stops draining the mailbox before calling Close.
func (l *Loader) Close() {
	l.tokens = map[Slot]uuid.UUID{}
	l.wg.Wait()
	if l.env != 0 {
		l.uploader.Dispose(l.env)
		l.env = 0
	}
}
