//go:build windows

package console

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                    = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleOutputCP      = kernel32.NewProc("GetConsoleOutputCP")
	procSetConsoleCP            = kernel32.NewProc("SetConsoleCP")
	procSetConsoleOutputCP      = kernel32.NewProc("SetConsoleOutputCP")
	procGetCurrentConsoleFontEx = kernel32.NewProc("GetCurrentConsoleFontEx")
	procSetCurrentConsoleFontEx = kernel32.NewProc("SetCurrentConsoleFontEx")
)

// coord mirrors the COORD layout used by the console font calls.
type coord struct {
	x int16
	y int16
}

// consoleFontInfoEx mirrors CONSOLE_FONT_INFOEX.
type consoleFontInfoEx struct {
	size       uint32
	font       uint32
	fontSize   coord
	fontFamily uint32
	fontWeight uint32
	faceName   [MaxFaceNameLen + 1]uint16
}

var (
	platformAPIOnce sync.Once
	platformAPI     consoleAPI
)

// newPlatformAPI probes kernel32 once per process. A native surface that
// fails to load stays unavailable for the process lifetime.
func newPlatformAPI() consoleAPI {
	platformAPIOnce.Do(func() {
		for _, p := range []*syscall.LazyProc{
			procGetConsoleOutputCP,
			procSetConsoleCP,
			procSetConsoleOutputCP,
			procGetCurrentConsoleFontEx,
			procSetCurrentConsoleFontEx,
		} {
			if err := p.Find(); err != nil {
				return
			}
		}
		platformAPI = kernelAPI{}
	})
	return platformAPI
}

// kernelAPI drives the console through kernel32.
type kernelAPI struct{}

func (kernelAPI) outputCodePage() (uint32, error) {
	r1, _, errno := procGetConsoleOutputCP.Call()
	if r1 == 0 {
		return 0, callErr("GetConsoleOutputCP", errno)
	}
	return uint32(r1), nil
}

func (kernelAPI) setInputCodePage(cp uint32) error {
	r1, _, errno := procSetConsoleCP.Call(uintptr(cp))
	if r1 == 0 {
		return callErr("SetConsoleCP", errno)
	}
	return nil
}

func (kernelAPI) setOutputCodePage(cp uint32) error {
	r1, _, errno := procSetConsoleOutputCP.Call(uintptr(cp))
	if r1 == 0 {
		return callErr("SetConsoleOutputCP", errno)
	}
	return nil
}

func (kernelAPI) stdoutHandle() (uintptr, error) {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return 0, fmt.Errorf("GetStdHandle: %w", err)
	}
	if h == windows.InvalidHandle {
		return 0, errors.New("stdout console handle is invalid")
	}
	return uintptr(h), nil
}

func (kernelAPI) currentFont(handle uintptr) (FontSpec, error) {
	var info consoleFontInfoEx
	info.size = uint32(unsafe.Sizeof(info))

	r1, _, errno := procGetCurrentConsoleFontEx.Call(handle, 0, uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		return FontSpec{}, callErr("GetCurrentConsoleFontEx", errno)
	}

	return FontSpec{
		FaceName: windows.UTF16ToString(info.faceName[:]),
		Width:    int(info.fontSize.x),
		Height:   int(info.fontSize.y),
		Weight:   int(info.fontWeight),
	}, nil
}

func (kernelAPI) applyFont(handle uintptr, spec FontSpec) error {
	face, err := windows.UTF16FromString(spec.FaceName)
	if err != nil {
		return fmt.Errorf("encode face name: %w", err)
	}

	var info consoleFontInfoEx
	info.size = uint32(unsafe.Sizeof(info))
	info.fontSize = coord{x: int16(spec.Width), y: int16(spec.Height)}
	info.fontWeight = uint32(spec.Weight)
	// Leave the final slot NUL so the buffer stays terminated.
	copy(info.faceName[:MaxFaceNameLen], face)

	r1, _, errno := procSetCurrentConsoleFontEx.Call(handle, 0, uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		return callErr("SetCurrentConsoleFontEx", errno)
	}
	return nil
}

// callErr normalizes the errno a LazyProc.Call reports on failure.
func callErr(name string, errno error) error {
	if errno != nil && !errors.Is(errno, syscall.Errno(0)) {
		return fmt.Errorf("%s: %w", name, errno)
	}
	return fmt.Errorf("%s failed", name)
}
