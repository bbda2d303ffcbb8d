package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"
)

// parseOpenFlags maps config names to open(2) flags. O_DIRECT needs
// aligned buffers and sizes, so pick iosize and object sizes to match.
func parseOpenFlags(flags []string) (int, error) {
	openFlags := 0

	for _, flag := range flags {
		switch strings.ToLower(flag) {
		case "o_sync", "sync":
			openFlags |= os.O_SYNC
		case "o_dsync", "dsync":
			openFlags |= syscall.O_DSYNC
		case "o_direct", "direct":
			openFlags |= syscall.O_DIRECT
		default:
			return 0, fmt.Errorf("unknown open flag '%s'", flag)
		}
	}

	return openFlags, nil
}
