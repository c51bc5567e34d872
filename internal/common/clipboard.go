package common

import (
	"github.com/atotto/clipboard"
)

// SetClipboardValue copies value to the system clipboard.
func SetClipboardValue(value string) error {
	return clipboard.WriteAll(value)
}

// GetClipboardValue reads the system clipboard.
func GetClipboardValue() (string, error) {
	return clipboard.ReadAll()
}
