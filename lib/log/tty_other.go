//go:build !linux

package log

import "os"

func IsTerminal(f *os.File) bool {
	return false
}
