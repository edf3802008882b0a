//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	dwmwaUseImmersiveDarkMode = 20
	dwmwaBorderColor          = 34
	dwmwaCaptionColor         = 35
)

func setWindowAttribute(hwnd unsafe.Pointer, attr uintptr, value uint32) {
	procDwmSetWindowAttribute.Call(
		uintptr(hwnd),
		attr,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
}

// applyTitleBar switches the title bar to dark mode and paints caption and
// border with the clear color.
func applyTitleBar(window *glfw.Window, color mgl32.Vec3) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	setWindowAttribute(unsafe.Pointer(hwnd), dwmwaUseImmersiveDarkMode, 1)

	// COLORREF is 0x00BBGGRR.
	ref := uint32(uint8(color[0]*255)) | uint32(uint8(color[1]*255))<<8 | uint32(uint8(color[2]*255))<<16
	setWindowAttribute(unsafe.Pointer(hwnd), dwmwaBorderColor, ref)
	setWindowAttribute(unsafe.Pointer(hwnd), dwmwaCaptionColor, ref)
}
