//go:build !windows

package tray

import _ "embed"

// systray wants PNG outside Windows.
//
//go:embed icon.png
var iconData []byte

// GetIcon returns the embedded tray icon data
func GetIcon() []byte {
	return iconData
}
