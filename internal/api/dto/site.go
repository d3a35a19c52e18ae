package dto

type NeighborResponse struct {
	Name           string  `json:"name"`
	DistanceMeters float64 `json:"distance_meters"`
}

type SiteResponse struct {
	Name                  string             `json:"name"`
	Latitude              float64            `json:"latitude"`
	Longitude             float64            `json:"longitude"`
	Azimuth               int                `json:"azimuth"`
	Region                string             `json:"region"`
	SectorStart           *float64           `json:"sector_start,omitempty"`
	SectorEnd             *float64           `json:"sector_end,omitempty"`
	Neighbors             []NeighborResponse `json:"neighbors,omitempty"`
	SectorAverageDistance *float64           `json:"sector_average_distance,omitempty"`
	PercentileBucketIndex *int               `json:"percentile_bucket_index,omitempty"`
}

type ListSitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}
