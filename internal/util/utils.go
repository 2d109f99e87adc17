package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chewxy/math32"
)

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float32) float32 {
	return math32.Max(min, math32.Min(max, value))
}

// Map remaps a value from one range to another
func Map(value, inMin, inMax, outMin, outMax float32) float32 {
	if inMax == inMin {
		return outMin
	}
	t := Clamp((value-inMin)/(inMax-inMin), 0, 1)
	return outMin + t*(outMax-outMin)
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListFilesWithExt lists all files with the specified extension in a directory
func ListFilesWithExt(dir, ext string) ([]string, error) {
	var files []string

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	return files, nil
}

// GetFileNameWithoutExt returns the filename without extension
func GetFileNameWithoutExt(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TimeTrack reports how long a function took through logf.
// Usage: defer TimeTrack(time.Now(), "LoadTextures", log.Debugf)
func TimeTrack(start time.Time, name string, logf func(format string, v ...interface{})) {
	elapsed := time.Since(start)
	if logf == nil {
		fmt.Printf("%s took %s\n", name, elapsed)
		return
	}
	logf("%s took %s", name, elapsed)
}

// CalculateMedian calculates the median value of a slice
func CalculateMedian(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[middle-1] + sorted[middle]) / 2
	}
	return sorted[middle]
}

// FPSCounter averages frames over a fixed reporting window
type FPSCounter struct {
	Window time.Duration
	frames int
	since  time.Time
}

// NewFPSCounter creates a counter reporting every window
func NewFPSCounter(window time.Duration, now time.Time) *FPSCounter {
	return &FPSCounter{Window: window, since: now}
}

// Tick records a frame. Once the window has elapsed it returns the average
// frame rate and resets.
func (c *FPSCounter) Tick(now time.Time) (float64, bool) {
	c.frames++
	elapsed := now.Sub(c.since)
	if elapsed < c.Window {
		return 0, false
	}
	fps := float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.since = now
	return fps, true
}
