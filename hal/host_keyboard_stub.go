//go:build !tinygo && !cgo

package hal

// poll is a no-op without the window backend.
func (k *hostKeyboard) poll() {}
