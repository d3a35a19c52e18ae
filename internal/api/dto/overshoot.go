package dto

type FlagResponse struct {
	Name                  string  `json:"name"`
	BucketIndex           int     `json:"bucket_index"`
	Label                 string  `json:"label"`
	MaxDistanceMeters     float64 `json:"max_distance_meters"`
	SectorAverageDistance float64 `json:"sector_average_distance"`
}

type OvershootConfigResponse struct {
	SectorHalfWidth     float64 `json:"sector_half_width"`
	MaxNeighbors        int     `json:"max_neighbors"`
	PercentileThreshold float64 `json:"percentile_threshold"`
}

type OvershootReportResponse struct {
	Config             OvershootConfigResponse `json:"config"`
	Sites              int                     `json:"sites"`
	SitesWithNeighbors int                     `json:"sites_with_neighbors"`
	SitesWithBucket    int                     `json:"sites_with_bucket"`
	Flags              []FlagResponse          `json:"flags"`
	Details            []SiteResponse          `json:"details,omitempty"`
}
