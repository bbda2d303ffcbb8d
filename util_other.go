//go:build !linux

package main

import (
	"fmt"
	"os"
	"strings"
)

func parseOpenFlags(flags []string) (int, error) {
	openFlags := 0

	for _, flag := range flags {
		switch strings.ToLower(flag) {
		case "o_sync", "sync":
			openFlags |= os.O_SYNC
		default:
			return 0, fmt.Errorf("unknown open flag '%s' on this platform", flag)
		}
	}

	return openFlags, nil
}
