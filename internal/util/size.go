// Package util provides shared helpers for DICOM series generation.
package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a size string does not match the
// <number>(KB|MB|GB) pattern.
var ErrInvalidFormat = errors.New("invalid size format")

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(KB|MB|GB)$`)

var sizeMultipliers = map[string]int64{
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// ParseSize parses a size string (e.g., "4.5GB", "100mb") into bytes.
//
// Units are case-insensitive; only KB, MB and GB are recognized.
// The result is truncated toward zero.
func ParseSize(sizeStr string) (int64, error) {
	matches := sizePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(sizeStr)))
	if matches == nil {
		return 0, fmt.Errorf("%w: '%s', use format like '100MB' or '4.5GB'", ErrInvalidFormat, sizeStr)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return int64(value * float64(sizeMultipliers[matches[2]])), nil
}
