package analyzer

import (
	"fmt"
	"image"
	"regexp"
	"sort"
	"strings"
)

var hexColorRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

// extractBrandColors scans markup and inline styles for hex colors and
// returns the two most frequent distinct non-neutral ones, falling back
// to the defaults.
func extractBrandColors(html string) (primary, secondary string) {
	matches := hexColorRe.FindAllString(html, -1)

	counts := make(map[string]int)
	order := make([]string, 0, len(matches))
	for _, m := range matches {
		hex := normalizeHex(m)
		if isNeutral(hex) {
			continue
		}
		if counts[hex] == 0 {
			order = append(order, hex)
		}
		counts[hex]++
	}

	// Stable ordering: frequency descending, first occurrence breaking ties.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	primary = DefaultPrimaryColor
	secondary = DefaultSecondaryColor
	if len(order) > 0 {
		primary = order[0]
	}
	if len(order) > 1 {
		secondary = order[1]
	}
	return primary, secondary
}

// normalizeHex lowercases a hex color and expands #abc to #aabbcc.
func normalizeHex(hex string) string {
	hex = strings.ToLower(hex)
	if len(hex) == 4 {
		return fmt.Sprintf("#%c%c%c%c%c%c", hex[1], hex[1], hex[2], hex[2], hex[3], hex[3])
	}
	return hex
}

// isNeutral reports whether a color is so close to white or black that
// it tells us nothing about the brand.
func isNeutral(hex string) bool {
	if len(hex) != 7 {
		return true
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return true
	}
	if r > 240 && g > 240 && b > 240 {
		return true
	}
	if r < 16 && g < 16 && b < 16 {
		return true
	}
	return false
}

// dominantColors samples the image on a coarse grid, quantizes each
// pixel to 4 bits per channel, and returns the n most common buckets as
// hex colors. Near-white, near-black, and transparent pixels are
// skipped.
func dominantColors(img image.Image, n int) []string {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil
	}

	step := bounds.Dx() / 64
	if step < 1 {
		step = 1
	}

	counts := make(map[uint32]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, alpha := img.At(x, y).RGBA()
			if alpha < 0x8000 {
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			if r8 > 240 && g8 > 240 && b8 > 240 {
				continue
			}
			if r8 < 16 && g8 < 16 && b8 < 16 {
				continue
			}
			bucket := (r8>>4)<<8 | (g8>>4)<<4 | (b8 >> 4)
			counts[bucket]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	buckets := make([]uint32, 0, len(counts))
	for b := range counts {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if counts[buckets[i]] != counts[buckets[j]] {
			return counts[buckets[i]] > counts[buckets[j]]
		}
		return buckets[i] < buckets[j]
	})

	if n > len(buckets) {
		n = len(buckets)
	}
	colors := make([]string, 0, n)
	for _, b := range buckets[:n] {
		// Re-center each 4-bit channel in its bucket.
		r := (b>>8&0xf)<<4 | 0x8
		g := (b>>4&0xf)<<4 | 0x8
		bl := (b&0xf)<<4 | 0x8
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x", r, g, bl))
	}
	return colors
}
