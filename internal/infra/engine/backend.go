// Package engine adapts the external inference plugin ABI and owns the
// pool of loaded models that rank and serve tasks.
package engine

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/granville-run/granville/internal/domain"
)

// maxPathLen and maxPromptLen bound the buffers copied across the plugin
// boundary; inputs longer than this are rejected before the call is made.
const (
	maxPathLen   = 4096
	maxPromptLen = 1 << 20
)

// Handle is an opaque backend model handle. Its zero value never appears
// once LoadModel succeeds — a null handle is translated into
// domain.ErrModelLoadFailed before it escapes the façade.
type Handle uintptr

// Backend is the stable-ABI adapter over the dynamically loaded inference
// plugin. It owns the library handle and the plugin's context for its
// entire lifetime.
type Backend struct {
	lib     uintptr
	name    string
	version string

	initContext  func() uintptr
	loadModel    func(ctx uintptr, path *byte) uintptr
	unloadModel  func(ctx uintptr, handle uintptr)
	generate     func(ctx uintptr, handle uintptr, prompt *byte, maxTokens int32) uintptr
	freeString   func(ctx uintptr, s uintptr)
	driverName   func() *byte
	driverVer    func() *byte
	ctx          uintptr
}

// OpenBackend dlopens the plugin at libPath and binds the fixed entry-point
// table: initialize-context, load-model, unload-model, generate,
// free-string, driver-name, driver-version.
func OpenBackend(libPath string) (*Backend, error) {
	lib, err := purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w: %w", libPath, domain.ErrDriverLoadFailed, err)
	}

	b := &Backend{lib: lib}
	purego.RegisterLibFunc(&b.initContext, lib, "granville_initialize_context")
	purego.RegisterLibFunc(&b.loadModel, lib, "granville_load_model")
	purego.RegisterLibFunc(&b.unloadModel, lib, "granville_unload_model")
	purego.RegisterLibFunc(&b.generate, lib, "granville_generate")
	purego.RegisterLibFunc(&b.freeString, lib, "granville_free_string")
	purego.RegisterLibFunc(&b.driverName, lib, "granville_driver_name")
	purego.RegisterLibFunc(&b.driverVer, lib, "granville_driver_version")

	b.ctx = b.initContext()
	b.name = cString(b.driverName())
	b.version = cString(b.driverVer())
	return b, nil
}

// DriverName returns the plugin-reported driver name.
func (b *Backend) DriverName() string { return b.name }

// DriverVersion returns the plugin-reported driver version.
func (b *Backend) DriverVersion() string { return b.version }

// LoadModel copies path into a null-terminated buffer and asks the plugin
// to load it, returning an opaque Handle valid for the pool entry's
// lifetime.
func (b *Backend) LoadModel(path string) (Handle, error) {
	if len(path) > maxPathLen {
		return 0, domain.ErrPathTooLong
	}
	buf := cBytes(path)
	h := b.loadModel(b.ctx, &buf[0])
	if h == 0 {
		return 0, domain.ErrModelLoadFailed
	}
	return Handle(h), nil
}

// UnloadModel releases a model handle. Safe to call during partial
// teardown; the plugin is expected to no-op on an already-released handle.
func (b *Backend) UnloadModel(h Handle) {
	if h == 0 {
		return
	}
	b.unloadModel(b.ctx, uintptr(h))
}

// Generate runs inference on handle and returns an owned Go string copied
// out of the plugin's borrowed buffer before it is freed.
func (b *Backend) Generate(h Handle, prompt string, maxTokens int) (string, error) {
	if len(prompt) > maxPromptLen {
		return "", domain.ErrPromptTooLong
	}
	buf := cBytes(prompt)
	out := b.generate(b.ctx, uintptr(h), &buf[0], int32(maxTokens))
	if out == 0 {
		return "", domain.ErrInternalError
	}
	defer b.freeString(b.ctx, out)
	return cString((*byte)(unsafe.Pointer(out))), nil
}

// Close closes the plugin library. It tolerates a zero lib, and a repeated
// call is a no-op.
func (b *Backend) Close() {
	if b.lib != 0 {
		purego.Dlclose(b.lib)
		b.lib = 0
	}
}

// cBytes copies s into a null-terminated byte buffer suitable for a *byte
// argument across the plugin boundary.
func cBytes(s string) []byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf
}

// cString reads a null-terminated buffer into a Go string. Used both for
// borrowed plugin output (before free-string is called) and for the small
// fixed driver-name/driver-version strings.
func cString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for {
		b := *(*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	return string(unsafe.Slice(p, n))
}
