package progress

import (
	"fmt"
	"net/url"
	"strings"
)

// ChartOptions describes the horizontal progress bar image.
type ChartOptions struct {
	BaseURL string
	Width   int
	Height  int
	Colors  []string
}

// DefaultChartOptions matches the bar the mobile app showed above the list.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		BaseURL: "https://image-charts.com/chart",
		Width:   600,
		Height:  20,
		Colors:  []string{"ff0080", "8000ff"},
	}
}

// ChartURL builds an image-charts stacked horizontal bar URL for percentage p.
// p is clamped to [0, 100].
func ChartURL(opts ChartOptions, p float64) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	q := url.Values{}
	q.Set("cht", "bhs")
	q.Set("chs", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	q.Set("chd", "t:"+Format(p))
	if len(opts.Colors) > 0 {
		q.Set("chco", strings.Join(opts.Colors, ","))
	}
	q.Set("chds", "0,100")
	q.Set("chf", "bg,s,FFFFFF00")

	return opts.BaseURL + "?" + q.Encode()
}
