package spritepane

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	densityMarker = "@"
	baseName      = "spritePane"
)

// Classify splits paths into resolution sets keyed by density factor,
// preserving the input order within each set. Only the file name is
// considered: a name without "@" is factor 1 and a name containing "@2x" is
// factor 2. Any other name is returned as ignored.
func Classify(paths []string) (sets map[int][]string, ignored []string) {
	sets = make(map[int][]string)
	for _, path := range paths {
		file := filepath.Base(path)
		switch {
		case !strings.Contains(file, densityMarker):
			sets[1] = append(sets[1], path)
		case strings.Contains(file, densityMarker+"2x"):
			sets[2] = append(sets[2], path)
		default:
			ignored = append(ignored, path)
		}
	}
	return
}

// Factors returns the factors present in sets in ascending order
func Factors(sets map[int][]string) []int {
	factors := make([]int, 0, len(sets))
	for f := range sets {
		factors = append(factors, f)
	}
	sort.Ints(factors)
	return factors
}

// BaseName returns the manifest key for the image at path; the file name
// with its extension and any "@<n>x" density suffix removed.
func BaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.LastIndex(name, densityMarker); i >= 0 && isDensity(name[i+1:]) {
		name = name[:i]
	}
	return name
}

func isDensity(s string) bool {
	if len(s) < 2 || s[len(s)-1] != 'x' {
		return false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	return err == nil && n > 0
}

// OutputNames returns the raster and manifest file names for a factor
func OutputNames(factor int) (string, string) {
	if factor == 1 {
		return baseName + ".png", baseName + ".json"
	}
	suffix := fmt.Sprintf("%s%dx", densityMarker, factor)
	return baseName + suffix + ".png", baseName + suffix + ".json"
}
