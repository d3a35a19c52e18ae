package services

import "overshoot-detection-service/internal/domain"

// DetectOvershooting flags every site whose sector average distance exceeds
// the farthest distance of its percentile timing bucket.
//
// Sites without neighbors or without a percentile bucket are skipped
// silently. Flags follow the order of sites.
func DetectOvershooting(sites []*domain.Site, buckets domain.BucketTable) []domain.Flag {
	flags := make([]domain.Flag, 0)
	for _, s := range sites {
		if s.SectorAverageDistance == nil || s.PercentileBucketIndex == nil {
			continue
		}

		idx := *s.PercentileBucketIndex
		bucket, ok := buckets.Lookup(idx)
		if !ok {
			continue
		}

		avg := *s.SectorAverageDistance
		if avg > bucket.MaxDistanceMeters {
			flags = append(flags, domain.Flag{
				SiteName:              s.Name,
				BucketIndex:           idx,
				Label:                 bucket.Label,
				MaxDistanceMeters:     bucket.MaxDistanceMeters,
				SectorAverageDistance: avg,
			})
		}
	}

	return flags
}
