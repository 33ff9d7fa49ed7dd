// Package console prepares the hosting console for Unicode output.
//
// On Windows the configurator switches the console code pages to UTF-8 and
// selects a Unicode-capable font, preserving the user's current font size
// unless an override is supplied. Every other platform is assumed to handle
// UTF-8 natively, so mutating operations are no-ops there.
//
// The console is process-wide shared state; the configurator is meant to be
// invoked once from a start-up routine and makes no attempt to serialize
// concurrent callers.
package console

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/belinwu/embabel-common/internal/metrics"
)

const (
	// UTF8CodePage is the Windows code page identifier for UTF-8.
	UTF8CodePage = 65001

	// MaxFaceNameLen is the longest face name the console accepts
	// (LF_FACESIZE minus the NUL terminator).
	MaxFaceNameLen = 31

	// DefaultFallbackHeight is used when the current font height cannot be read.
	DefaultFallbackHeight = 16

	// normalWeight is the FW_NORMAL font weight.
	normalWeight = 400
)

// DefaultFonts is the ordered candidate list tried by SetupOptimalConsole.
var DefaultFonts = []string{"Cascadia Code", "Consolas", "Lucida Console"}

// FontSpec describes a console font configuration.
type FontSpec struct {
	FaceName string
	Width    int
	Height   int
	Weight   int
}

// consoleAPI is the native console surface. The real implementation lives
// in the platform files; tests substitute a fake.
type consoleAPI interface {
	outputCodePage() (uint32, error)
	setInputCodePage(cp uint32) error
	setOutputCodePage(cp uint32) error
	stdoutHandle() (uintptr, error)
	currentFont(handle uintptr) (FontSpec, error)
	applyFont(handle uintptr, spec FontSpec) error
}

// Configurator mutates process-wide console state. A nil native surface
// (non-Windows build, or kernel32 probing failed at start-up) makes every
// mutating operation a permanent no-op for the process lifetime.
type Configurator struct {
	api            consoleAPI
	windows        bool
	fonts          []string
	fallbackHeight int
	heightOverride int
	log            *zap.Logger
}

// Option customizes a Configurator.
type Option func(*Configurator)

// WithFonts replaces the candidate font list tried by SetupOptimalConsole.
func WithFonts(fonts ...string) Option {
	return func(c *Configurator) {
		if len(fonts) > 0 {
			c.fonts = fonts
		}
	}
}

// WithFallbackHeight replaces the height used when the current font size
// cannot be read.
func WithFallbackHeight(height int) Option {
	return func(c *Configurator) {
		if height > 0 {
			c.fallbackHeight = height
		}
	}
}

// WithHeightOverride forces SetupOptimalConsole to apply the given height
// instead of preserving the current one.
func WithHeightOverride(height int) Option {
	return func(c *Configurator) {
		if height > 0 {
			c.heightOverride = height
		}
	}
}

// New creates a configurator backed by the platform console API.
// logger may be nil.
func New(logger *zap.Logger, opts ...Option) *Configurator {
	c := &Configurator{
		api:            newPlatformAPI(),
		windows:        IsWindows(),
		fonts:          DefaultFonts,
		fallbackHeight: DefaultFallbackHeight,
		log:            logger,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsWindows reports whether the process runs on Windows.
func IsWindows() bool { return runtime.GOOS == "windows" }

// supported reports whether the native console surface can be driven.
func (c *Configurator) supported() bool { return c.windows && c.api != nil }

// EnableUTF8 sets both the input and the output code page to UTF-8 and logs
// the resulting active code page. It is a no-op on non-Windows platforms.
func (c *Configurator) EnableUTF8() {
	if !c.supported() {
		return
	}
	if err := c.api.setInputCodePage(UTF8CodePage); err != nil {
		metrics.ConsoleCodePageTotal.WithLabelValues("error").Inc()
		c.log.Warn("failed to set console input code page", zap.Error(err))
		return
	}
	if err := c.api.setOutputCodePage(UTF8CodePage); err != nil {
		metrics.ConsoleCodePageTotal.WithLabelValues("error").Inc()
		c.log.Warn("failed to set console output code page", zap.Error(err))
		return
	}
	metrics.ConsoleCodePageTotal.WithLabelValues("ok").Inc()

	cp, err := c.api.outputCodePage()
	if err != nil {
		c.log.Warn("failed to read active code page", zap.Error(err))
		return
	}
	c.log.Info("console code page configured", zap.Uint32("code_page", cp))
}

// UnicodeSupported reports whether the console can render non-ASCII table
// characters: on Windows, true iff the active output code page is UTF-8;
// on any other platform, unconditionally true.
func (c *Configurator) UnicodeSupported() bool {
	if !c.windows {
		return true
	}
	if c.api == nil {
		return false
	}
	cp, err := c.api.outputCodePage()
	return err == nil && cp == UTF8CodePage
}

// SetFont applies the named font to the current console. A size of zero or
// less preserves the currently configured height. It reports false when the
// platform lacks the capability or any native call fails; it never panics
// and never terminates the process.
func (c *Configurator) SetFont(name string, size int) bool {
	if !c.supported() {
		return false
	}

	handle, err := c.api.stdoutHandle()
	if err != nil {
		c.fontFailed(name, "console handle unavailable", err)
		return false
	}

	current, err := c.api.currentFont(handle)
	if err != nil {
		c.fontFailed(name, "failed to query current console font", err)
		return false
	}

	height := current.Height
	if size > 0 {
		height = size
	}

	spec := newFontSpec(name, height)
	if err := c.api.applyFont(handle, spec); err != nil {
		c.fontFailed(name, "console rejected font", err)
		return false
	}

	metrics.ConsoleFontApplyTotal.WithLabelValues(spec.FaceName, "ok").Inc()
	c.log.Info("console font applied",
		zap.String("font", spec.FaceName),
		zap.Int("height", spec.Height),
	)
	return true
}

// SetupOptimalConsole walks the candidate font list and applies the first
// one the console accepts, keeping the height captured before the first
// attempt. Returns false if no candidate succeeds, and immediately on
// non-Windows platforms without attempting any candidate.
func (c *Configurator) SetupOptimalConsole() bool {
	if !c.supported() {
		return false
	}

	height := c.heightOverride
	if height <= 0 {
		height = c.currentHeight()
	}

	for _, name := range c.fonts {
		if c.SetFont(name, height) {
			return true
		}
	}

	c.log.Warn("no candidate console font could be applied",
		zap.Strings("fonts", c.fonts),
	)
	return false
}

// currentHeight reads the active font height, falling back to the
// configured default when the console cannot be queried.
func (c *Configurator) currentHeight() int {
	handle, err := c.api.stdoutHandle()
	if err != nil {
		return c.fallbackHeight
	}
	current, err := c.api.currentFont(handle)
	if err != nil || current.Height <= 0 {
		return c.fallbackHeight
	}
	return current.Height
}

func (c *Configurator) fontFailed(name, msg string, err error) {
	metrics.ConsoleFontApplyTotal.WithLabelValues(name, "error").Inc()
	c.log.Debug(msg, zap.String("font", name), zap.Error(err))
}

// newFontSpec builds the spec applied to the console: the requested face
// name truncated to the platform limit, default width, normal weight.
func newFontSpec(name string, height int) FontSpec {
	if runes := []rune(name); len(runes) > MaxFaceNameLen {
		name = string(runes[:MaxFaceNameLen])
	}
	return FontSpec{
		FaceName: name,
		Width:    0,
		Height:   height,
		Weight:   normalWeight,
	}
}
