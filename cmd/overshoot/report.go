package main

import (
	"fmt"
	"io"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/services"

	"github.com/fatih/color"
)

// renderer writes the terminal report of a run.
type renderer struct {
	w     io.Writer
	name  *color.Color
	label *color.Color
	dim   *color.Color
	ok    *color.Color
}

func newRenderer(w io.Writer, plain bool) *renderer {
	r := &renderer{
		w:     w,
		name:  color.New(color.FgRed, color.Bold),
		label: color.New(color.FgYellow),
		dim:   color.New(color.FgHiBlack),
		ok:    color.New(color.FgGreen),
	}
	if plain {
		for _, c := range []*color.Color{r.name, r.label, r.dim, r.ok} {
			c.DisableColor()
		}
	}
	return r
}

// flags prints one "<name> overshooting [<label>]" line per flagged site.
func (r *renderer) flags(flags []domain.Flag) {
	for _, f := range flags {
		fmt.Fprintf(r.w, "%s overshooting [%s] %s\n",
			r.name.Sprint(f.SiteName),
			r.label.Sprint(f.Label),
			r.dim.Sprintf("avg=%.0fm max=%.0fm", f.SectorAverageDistance, f.MaxDistanceMeters),
		)
	}
}

func (r *renderer) sites(sites []*domain.Site, buckets domain.BucketTable) {
	for _, s := range sites {
		bucket := "-"
		if s.PercentileBucketIndex != nil {
			if b, ok := buckets.Lookup(*s.PercentileBucketIndex); ok {
				bucket = b.Label
			}
		}
		avg := "-"
		if s.SectorAverageDistance != nil {
			avg = fmt.Sprintf("%.0fm", *s.SectorAverageDistance)
		}

		fmt.Fprintf(r.w, "%s az=%d sector=[%.1f, %.1f] neighbors=%d avg=%s bucket=%s\n",
			s.Name, s.Azimuth, s.SectorStart, s.SectorEnd, len(s.Neighbors), avg, bucket)
		for _, n := range s.Neighbors {
			fmt.Fprintf(r.w, "  %s\n", r.dim.Sprintf("%s %.0fm", n.SiteName, n.DistanceMeters))
		}
	}
}

func (r *renderer) summary(report *services.Report) {
	c := r.ok
	if len(report.Flags) > 0 {
		c = r.label
	}
	fmt.Fprintf(r.w, "%s\n", c.Sprintf(
		"sites=%d with_neighbors=%d with_bucket=%d overshooting=%d",
		report.Sites, report.SitesWithNeighbors, report.SitesWithBucket, len(report.Flags),
	))
}
