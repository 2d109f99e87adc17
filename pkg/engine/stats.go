package engine

import (
	"fmt"
	"io"
	"time"

	"netherbox/internal/util"

	"github.com/olekukonko/tablewriter"
)

// BandStats describes the work done by one worker
type BandStats struct {
	Band     Band
	Rays     RayStats
	Duration time.Duration
}

// FrameStats describes one rendered frame
type FrameStats struct {
	Width    int
	Height   int
	Bands    []BandStats
	Rays     RayStats
	Duration time.Duration
}

// RaysPerSecond returns the throughput of the frame
func (f FrameStats) RaysPerSecond() float64 {
	if f.Duration <= 0 {
		return 0
	}
	return float64(f.Rays.Total()) / f.Duration.Seconds()
}

// MedianBandTime is the median wall time of the bands. A large gap to the
// slowest band means the row split is unbalanced for this view.
func (f FrameStats) MedianBandTime() time.Duration {
	if len(f.Bands) == 0 {
		return 0
	}
	times := make([]float64, len(f.Bands))
	for i, b := range f.Bands {
		times[i] = float64(b.Duration)
	}
	return time.Duration(util.CalculateMedian(times))
}

// WriteTable renders the per-band statistics as a text table
func (f FrameStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Band", "Rows", "Primary", "Shadow", "Occluded", "Reflect", "Refract", "% of frame", "Render time"})

	for i, b := range f.Bands {
		share := 0.0
		if f.Height > 0 {
			share = 100 * float64(b.Band.Rows()) / float64(f.Height)
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d-%d", b.Band.Start, b.Band.End-1),
			fmt.Sprintf("%d", b.Rays.Primary),
			fmt.Sprintf("%d", b.Rays.Shadow),
			fmt.Sprintf("%d", b.Rays.Occluded),
			fmt.Sprintf("%d", b.Rays.Reflection),
			fmt.Sprintf("%d", b.Rays.Refraction),
			fmt.Sprintf("%02.1f %%", share),
			b.Duration.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "MEDIAN", f.MedianBandTime().String(), "TOTAL", f.Duration.String()})
	table.Render()
}
