package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClampLerpMap(t *testing.T) {
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Errorf("Clamp(1.5) = %v, want 1", got)
	}
	if got := Clamp(-0.5, 0, 1); got != 0 {
		t.Errorf("Clamp(-0.5) = %v, want 0", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp = %v, want 3", got)
	}
	if got := Map(5, 0, 10, 0, 1); got != 0.5 {
		t.Errorf("Map = %v, want 0.5", got)
	}
	if got := Map(3, 1, 1, 7, 9); got != 7 {
		t.Errorf("Map with empty input range = %v, want 7", got)
	}
}

func TestCalculateMedian(t *testing.T) {
	tests := []struct {
		data []float64
		want float64
	}{
		{nil, 0},
		{[]float64{3}, 3},
		{[]float64{5, 1, 3}, 3},
		{[]float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		if got := CalculateMedian(tt.data); got != tt.want {
			t.Errorf("CalculateMedian(%v) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestListFilesWithExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.PNG", "c.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFilesWithExt(dir, "png")
	if err != nil {
		t.Fatalf("ListFilesWithExt: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %v, want 2 png files", files)
	}
	if GetFileNameWithoutExt(files[0]) != "a" {
		t.Errorf("first file = %s, want a.PNG", files[0])
	}
	if !FileExists(files[0]) || FileExists(dir) || !DirExists(dir) {
		t.Errorf("FileExists/DirExists disagree with the filesystem")
	}
}

func TestFPSCounter(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFPSCounter(2*time.Second, start)

	for i := 1; i < 10; i++ {
		if _, ok := c.Tick(start.Add(time.Duration(i) * 100 * time.Millisecond)); ok {
			t.Fatalf("reported before the window elapsed at frame %d", i)
		}
	}
	fps, ok := c.Tick(start.Add(2 * time.Second))
	if !ok {
		t.Fatal("expected a report after the window")
	}
	if fps != 5 {
		t.Errorf("fps = %v, want 5", fps)
	}
}
