package ports

import (
	"context"
	"overshoot-detection-service/internal/domain"
)

// Port: a boundary for retrieving site reference records.
type SiteRepository interface {
	// Retrieve every site to analyze. Derived fields are left unset.
	ListSites(ctx context.Context) ([]*domain.Site, error)
}
