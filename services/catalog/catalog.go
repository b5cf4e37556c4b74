package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
)

const (
	activeListCacheKey = "catalog:active"
	activeListCacheTTL = 5 * time.Minute
)

// DefaultCatalogService is the production implementation with a Redis
// read-through cache on the active listing.
type DefaultCatalogService struct {
	Repo   catalogRepo.CatalogRepository
	Cache  *redis.Client
	Logger *zap.Logger
}

func NewDefaultCatalogService(repo catalogRepo.CatalogRepository, cache *redis.Client, logger *zap.Logger) *DefaultCatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{Repo: repo, Cache: cache, Logger: logger}
}

func (s *DefaultCatalogService) GetServiceDetails(name string) (*models.ServiceOffering, error) {
	return s.Repo.FindByName(name)
}

func (s *DefaultCatalogService) ListActive() ([]models.ServiceOffering, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, activeListCacheKey).Result(); err == nil {
			var offerings []models.ServiceOffering
			if err := json.Unmarshal([]byte(cached), &offerings); err == nil {
				return offerings, nil
			}
		}
	}

	offerings, err := s.Repo.List(true)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(offerings); err == nil {
			if err := s.Cache.Set(ctx, activeListCacheKey, data, activeListCacheTTL).Err(); err != nil {
				s.Logger.Warn("catalog: failed to cache active listing", zap.Error(err))
			}
		}
	}
	return offerings, nil
}

func (s *DefaultCatalogService) CanAttach(addonName, serviceName string) (bool, error) {
	addon, err := s.Repo.FindByName(addonName)
	if err != nil {
		return false, fmt.Errorf("add-on lookup: %w", err)
	}
	return addon.CanAttachTo(serviceName), nil
}

func (s *DefaultCatalogService) UpsertOffering(offering *models.ServiceOffering) error {
	if err := s.Repo.Upsert(offering); err != nil {
		return err
	}
	// Drop the cached listing so the next read sees the change.
	if s.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Cache.Del(ctx, activeListCacheKey).Err(); err != nil {
			s.Logger.Warn("catalog: failed to invalidate listing cache", zap.Error(err))
		}
	}
	return nil
}
