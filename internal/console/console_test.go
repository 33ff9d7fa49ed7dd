package console

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// --- Fake native surface ---

type fakeAPI struct {
	outputCP  uint32
	inputCP   uint32
	cpErr     error
	handleErr error
	queryErr  error
	applyErr  error

	current FontSpec

	nativeCalls  int
	applied      []FontSpec
	applyFailsBy map[string]bool // face name -> reject
}

func (f *fakeAPI) outputCodePage() (uint32, error) {
	f.nativeCalls++
	if f.cpErr != nil {
		return 0, f.cpErr
	}
	return f.outputCP, nil
}

func (f *fakeAPI) setInputCodePage(cp uint32) error {
	f.nativeCalls++
	if f.cpErr != nil {
		return f.cpErr
	}
	f.inputCP = cp
	return nil
}

func (f *fakeAPI) setOutputCodePage(cp uint32) error {
	f.nativeCalls++
	if f.cpErr != nil {
		return f.cpErr
	}
	f.outputCP = cp
	return nil
}

func (f *fakeAPI) stdoutHandle() (uintptr, error) {
	f.nativeCalls++
	if f.handleErr != nil {
		return 0, f.handleErr
	}
	return 1, nil
}

func (f *fakeAPI) currentFont(_ uintptr) (FontSpec, error) {
	f.nativeCalls++
	if f.queryErr != nil {
		return FontSpec{}, f.queryErr
	}
	return f.current, nil
}

func (f *fakeAPI) applyFont(_ uintptr, spec FontSpec) error {
	f.nativeCalls++
	if f.applyErr != nil {
		return f.applyErr
	}
	if f.applyFailsBy[spec.FaceName] {
		return errors.New("font not available")
	}
	f.applied = append(f.applied, spec)
	f.current = spec
	return nil
}

func newTestConfigurator(api consoleAPI, onWindows bool, opts ...Option) *Configurator {
	c := &Configurator{
		api:            api,
		windows:        onWindows,
		fonts:          DefaultFonts,
		fallbackHeight: DefaultFallbackHeight,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Non-Windows behavior ---

func TestSetFont_NonWindows_NoNativeCalls(t *testing.T) {
	api := &fakeAPI{current: FontSpec{FaceName: "Consolas", Height: 14}}
	c := newTestConfigurator(api, false)

	if c.SetFont("Cascadia Code", 12) {
		t.Error("SetFont returned true off Windows")
	}
	if api.nativeCalls != 0 {
		t.Errorf("nativeCalls = %d, want 0", api.nativeCalls)
	}
}

func TestSetupOptimalConsole_NonWindows_NoNativeCalls(t *testing.T) {
	api := &fakeAPI{}
	c := newTestConfigurator(api, false)

	if c.SetupOptimalConsole() {
		t.Error("SetupOptimalConsole returned true off Windows")
	}
	if api.nativeCalls != 0 {
		t.Errorf("nativeCalls = %d, want 0", api.nativeCalls)
	}
}

func TestUnicodeSupported_NonWindows_AlwaysTrue(t *testing.T) {
	// Even a broken native surface must not matter off Windows.
	c := newTestConfigurator(&fakeAPI{cpErr: errors.New("boom")}, false)
	if !c.UnicodeSupported() {
		t.Error("UnicodeSupported() = false off Windows")
	}

	c = newTestConfigurator(nil, false)
	if !c.UnicodeSupported() {
		t.Error("UnicodeSupported() = false with nil surface off Windows")
	}
}

func TestEnableUTF8_NonWindows_NoOp(t *testing.T) {
	api := &fakeAPI{outputCP: 437}
	c := newTestConfigurator(api, false)

	c.EnableUTF8()

	if api.nativeCalls != 0 {
		t.Errorf("nativeCalls = %d, want 0", api.nativeCalls)
	}
	if api.outputCP != 437 {
		t.Errorf("outputCP = %d, want untouched", api.outputCP)
	}
}

// --- Windows behavior ---

func TestEnableUTF8_SetsBothCodePages(t *testing.T) {
	api := &fakeAPI{outputCP: 437}
	c := newTestConfigurator(api, true)

	c.EnableUTF8()

	if api.inputCP != UTF8CodePage {
		t.Errorf("inputCP = %d, want %d", api.inputCP, UTF8CodePage)
	}
	if api.outputCP != UTF8CodePage {
		t.Errorf("outputCP = %d, want %d", api.outputCP, UTF8CodePage)
	}
	if !c.UnicodeSupported() {
		t.Error("UnicodeSupported() = false after EnableUTF8")
	}
}

func TestUnicodeSupported_LegacyCodePage(t *testing.T) {
	c := newTestConfigurator(&fakeAPI{outputCP: 437}, true)
	if c.UnicodeSupported() {
		t.Error("UnicodeSupported() = true with code page 437")
	}
}

func TestUnicodeSupported_NativeSurfaceUnavailable(t *testing.T) {
	c := newTestConfigurator(nil, true)
	if c.UnicodeSupported() {
		t.Error("UnicodeSupported() = true with no native surface")
	}
}

func TestSetFont_SizeOverride(t *testing.T) {
	api := &fakeAPI{current: FontSpec{FaceName: "Terminal", Height: 14, Weight: 400}}
	c := newTestConfigurator(api, true)

	if !c.SetFont("Cascadia Code", 12) {
		t.Fatal("SetFont failed")
	}

	if len(api.applied) != 1 {
		t.Fatalf("applied %d fonts, want 1", len(api.applied))
	}
	got := api.applied[0]
	if got.FaceName != "Cascadia Code" {
		t.Errorf("FaceName = %q", got.FaceName)
	}
	if got.Height != 12 {
		t.Errorf("Height = %d, want 12", got.Height)
	}
	if got.Width != 0 {
		t.Errorf("Width = %d, want 0", got.Width)
	}
	if got.Weight != 400 {
		t.Errorf("Weight = %d, want 400", got.Weight)
	}
}

func TestSetFont_PreservesQueriedHeight(t *testing.T) {
	api := &fakeAPI{current: FontSpec{FaceName: "Terminal", Height: 14}}
	c := newTestConfigurator(api, true)

	if !c.SetFont("Consolas", 0) {
		t.Fatal("SetFont failed")
	}
	if api.applied[0].Height != 14 {
		t.Errorf("Height = %d, want 14 (queried)", api.applied[0].Height)
	}
}

func TestSetFont_TruncatesFaceName(t *testing.T) {
	api := &fakeAPI{current: FontSpec{Height: 14}}
	c := newTestConfigurator(api, true)

	long := strings.Repeat("A", MaxFaceNameLen+9)
	if !c.SetFont(long, 12) {
		t.Fatal("SetFont failed")
	}
	if got := api.applied[0].FaceName; len(got) != MaxFaceNameLen {
		t.Errorf("FaceName length = %d, want %d", len(got), MaxFaceNameLen)
	}
}

func TestSetFont_HandleUnavailable(t *testing.T) {
	api := &fakeAPI{handleErr: errors.New("no console")}
	c := newTestConfigurator(api, true)

	if c.SetFont("Consolas", 12) {
		t.Error("SetFont returned true with no handle")
	}
	if len(api.applied) != 0 {
		t.Errorf("applied %d fonts, want 0", len(api.applied))
	}
}

func TestSetFont_QueryFails(t *testing.T) {
	api := &fakeAPI{queryErr: errors.New("query failed")}
	c := newTestConfigurator(api, true)

	if c.SetFont("Consolas", 12) {
		t.Error("SetFont returned true after a failed font query")
	}
}

func TestSetFont_ApplyFails(t *testing.T) {
	api := &fakeAPI{current: FontSpec{Height: 14}, applyErr: errors.New("rejected")}
	c := newTestConfigurator(api, true)

	if c.SetFont("Consolas", 12) {
		t.Error("SetFont returned true after a failed apply")
	}
}

func TestSetupOptimalConsole_FirstCandidateWins(t *testing.T) {
	api := &fakeAPI{current: FontSpec{FaceName: "Terminal", Height: 18}}
	c := newTestConfigurator(api, true)

	if !c.SetupOptimalConsole() {
		t.Fatal("SetupOptimalConsole failed")
	}
	if len(api.applied) != 1 {
		t.Fatalf("applied %d fonts, want 1", len(api.applied))
	}
	if api.applied[0].FaceName != DefaultFonts[0] {
		t.Errorf("FaceName = %q, want %q", api.applied[0].FaceName, DefaultFonts[0])
	}
	if api.applied[0].Height != 18 {
		t.Errorf("Height = %d, want 18 (captured)", api.applied[0].Height)
	}
}

func TestSetupOptimalConsole_FallsBackToSecondCandidate(t *testing.T) {
	api := &fakeAPI{
		current:      FontSpec{FaceName: "Terminal", Height: 18},
		applyFailsBy: map[string]bool{DefaultFonts[0]: true},
	}
	c := newTestConfigurator(api, true)

	if !c.SetupOptimalConsole() {
		t.Fatal("SetupOptimalConsole failed")
	}
	// Exactly one font actually applied, the second candidate.
	if len(api.applied) != 1 {
		t.Fatalf("applied %d fonts, want 1", len(api.applied))
	}
	if api.applied[0].FaceName != DefaultFonts[1] {
		t.Errorf("FaceName = %q, want %q", api.applied[0].FaceName, DefaultFonts[1])
	}
	// The height captured before the first attempt is reused.
	if api.applied[0].Height != 18 {
		t.Errorf("Height = %d, want 18", api.applied[0].Height)
	}
}

func TestSetupOptimalConsole_AllCandidatesFail(t *testing.T) {
	api := &fakeAPI{
		current:  FontSpec{Height: 14},
		applyErr: errors.New("rejected"),
	}
	c := newTestConfigurator(api, true)

	if c.SetupOptimalConsole() {
		t.Error("SetupOptimalConsole returned true with every candidate failing")
	}
}

func TestSetupOptimalConsole_FallbackHeightWhenUnreadable(t *testing.T) {
	// A reported height of zero means the size could not be read.
	api := &fakeAPI{current: FontSpec{Height: 0}}
	c := newTestConfigurator(api, true)

	if !c.SetupOptimalConsole() {
		t.Fatal("SetupOptimalConsole failed")
	}
	if api.applied[0].Height != DefaultFallbackHeight {
		t.Errorf("Height = %d, want %d (fallback)", api.applied[0].Height, DefaultFallbackHeight)
	}
}

func TestSetupOptimalConsole_HeightOverride(t *testing.T) {
	api := &fakeAPI{current: FontSpec{Height: 18}}
	c := newTestConfigurator(api, true, WithHeightOverride(11))

	if !c.SetupOptimalConsole() {
		t.Fatal("SetupOptimalConsole failed")
	}
	if api.applied[0].Height != 11 {
		t.Errorf("Height = %d, want 11 (override)", api.applied[0].Height)
	}
}

func TestSetupOptimalConsole_CustomFonts(t *testing.T) {
	api := &fakeAPI{current: FontSpec{Height: 14}}
	c := newTestConfigurator(api, true, WithFonts("JetBrains Mono", "Consolas"))

	if !c.SetupOptimalConsole() {
		t.Fatal("SetupOptimalConsole failed")
	}
	if api.applied[0].FaceName != "JetBrains Mono" {
		t.Errorf("FaceName = %q", api.applied[0].FaceName)
	}
}

func TestNew_DefaultsOffWindows(t *testing.T) {
	c := New(nil)

	if c.log == nil {
		t.Error("logger not defaulted")
	}
	if c.fallbackHeight != DefaultFallbackHeight {
		t.Errorf("fallbackHeight = %d", c.fallbackHeight)
	}
	if len(c.fonts) != len(DefaultFonts) {
		t.Errorf("fonts = %v", c.fonts)
	}
	// Whatever the platform, the constructor result is safe to drive.
	_ = c.SetupOptimalConsole()
	_ = c.UnicodeSupported()
	c.EnableUTF8()
}
