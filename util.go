package main

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"unicode"
)

// this adapted from spf13/viper:
// parseSizeInBytes converts strings like 1GB or 12 mb into an unsigned integer number of bytes
func parseSizeInBytes(sizeStr string) (int64, error) {
	sizeStr = strings.TrimSpace(sizeStr)
	lastChar := len(sizeStr) - 1
	multiplier := int64(1)

	if lastChar > 0 {
		if sizeStr[lastChar] == 'b' || sizeStr[lastChar] == 'B' {
			if lastChar > 1 {
				switch unicode.ToLower(rune(sizeStr[lastChar-1])) {
				case 'k':
					multiplier = 1 << 10
					sizeStr = strings.TrimSpace(sizeStr[:lastChar-1])
				case 'm':
					multiplier = 1 << 20
					sizeStr = strings.TrimSpace(sizeStr[:lastChar-1])
				case 'g':
					multiplier = 1 << 30
					sizeStr = strings.TrimSpace(sizeStr[:lastChar-1])
				default:
					multiplier = 1
					sizeStr = strings.TrimSpace(sizeStr[:lastChar])
				}
			}
		}
	}

	size, err := strconv.ParseInt(sizeStr, 10, 64)

	if err != nil {
		return 0, fmt.Errorf("cannot parse '%s' as int64", sizeStr)
	}

	if size < 0 {
		size = 0
	}

	return size * multiplier, nil
}

// formatSize renders a byte count with a binary unit, e.g. "1.5 MB".
func formatSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	f := float64(size)
	i := 0

	for f >= 1024 && i < len(units)-1 {
		f /= 1024
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.1f %s", f, units[i])
}

// parseUint accepts decimal or prefixed (0x, 0b, 0o) unsigned integers.
func parseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 0, 64)

	if err != nil {
		return 0, fmt.Errorf("cannot parse '%s' as unsigned integer", s)
	}

	return v, nil
}

// RunCmd runs a shell command and returns its combined output.
func RunCmd(cmd string) (string, error) {
	out, err := exec.Command("sh", "-c", cmd).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
