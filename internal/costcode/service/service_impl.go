package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/wgesler/rentall-billing/internal/costcode/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

// Service loads and caches per-office cost-code catalogs. Catalogs are
// immutable once built, so the cache is safe for concurrent readers.
type Service struct {
	log  *zap.Logger
	repo domain.Repository

	mu       sync.RWMutex
	catalogs map[snowflake.ID]*domain.Catalog
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("costcode.service"),
		repo:     p.Repo,
		catalogs: make(map[snowflake.ID]*domain.Catalog),
	}
}

func (s *Service) CatalogForOffice(ctx context.Context, officeID snowflake.ID) (*domain.Catalog, error) {
	s.mu.RLock()
	catalog, ok := s.catalogs[officeID]
	s.mu.RUnlock()
	if ok {
		return catalog, nil
	}

	codes, err := s.repo.ListByOffice(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("load cost codes for office %s: %w", officeID, err)
	}

	catalog = domain.NewCatalog(codes)

	s.mu.Lock()
	s.catalogs[officeID] = catalog
	s.mu.Unlock()

	s.log.Info("cost code catalog loaded",
		zap.String("office_id", officeID.String()),
		zap.Int("codes", catalog.Len()),
	)
	return catalog, nil
}
