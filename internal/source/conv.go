package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var protocolRe = regexp.MustCompile(`^https?://.+$`)

// AddProtocol prefixes url with http(s) when the scheme is missing.
func AddProtocol(url string, defaultHTTPS bool) string {
	if protocolRe.MatchString(url) {
		return url
	}
	if defaultHTTPS {
		return "https://" + url
	}
	return "http://" + url
}

// ToBytes converts a display size like "1.2 GB" to a byte count.
func ToBytes(size string) int64 {
	fields := strings.Fields(size)
	if len(fields) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	unit := "B"
	if len(fields) > 1 {
		unit = fields[len(fields)-1]
	}
	var power int
	switch unit[0] {
	case 'T':
		power = 4
	case 'G':
		power = 3
	case 'M':
		power = 2
	case 'K', 'k':
		power = 1
	}
	mult := float64(1)
	for i := 0; i < power; i++ {
		mult *= 1024
	}
	return int64(mult * f)
}

// ShortenNumber formats large counters compactly for narrow columns.
func ShortenNumber(n int) string {
	if n >= 10000 {
		return fmt.Sprintf("%dK", n/1000)
	}
	return strconv.Itoa(n)
}

// NormalizeSize rewrites index size strings ("3.2 GiB", "512 Bytes")
// into the short form shown in tables.
func NormalizeSize(size string) string {
	size = strings.ReplaceAll(size, "i", "")
	return strings.ReplaceAll(size, "Bytes", "B")
}
