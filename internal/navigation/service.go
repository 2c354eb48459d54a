// Package navigation implements the role-to-endpoint permission lookup backed
// by the navigation tables, with a short-lived Redis decision cache.
package navigation

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/thq-service/internal/auth"
	"github.com/spec-kit/thq-service/internal/domain"
	"github.com/spec-kit/thq-service/internal/repository"
)

// Service resolves authorization decisions for the auth pipeline.
type Service struct {
	repo     repository.NavigationRepository
	cache    *redis.Client
	cacheTTL time.Duration
	group    singleflight.Group
	logger   *zap.Logger
}

// NewService builds the lookup. The Redis client may be nil, in which case
// every lookup goes straight to the database.
func NewService(repo repository.NavigationRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Authorize implements auth.PermissionLookup. The original URL's query string
// is stripped before matching; a nil role is looked up as the empty role and
// will not match any granted link.
func (s *Service) Authorize(ctx context.Context, method, originalURL string, role *string) (auth.Decision, error) {
	path, _, _ := strings.Cut(originalURL, "?")

	roleID := ""
	if role != nil {
		roleID = *role
	}

	key := "nav:" + method + ":" + path + ":" + roleID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			return auth.Decision{Authorized: cached == "1"}, nil
		} else if err != redis.Nil {
			s.logger.Warn("navigation cache read failed", zap.Error(err))
		}
	}

	// Collapse concurrent identical lookups into one database round trip.
	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		patterns, err := s.repo.AllowedPaths(ctx, method, roleID)
		if err != nil {
			return false, err
		}
		allowed := false
		for _, pattern := range patterns {
			if pathMatches(pattern, path) {
				allowed = true
				break
			}
		}
		if s.cache != nil {
			cacheVal := "0"
			if allowed {
				cacheVal = "1"
			}
			if err := s.cache.Set(ctx, key, cacheVal, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("navigation cache write failed", zap.Error(err))
			}
		}
		return allowed, nil
	})
	if err != nil {
		return auth.Decision{}, err
	}

	return auth.Decision{Authorized: val.(bool)}, nil
}

// pathMatches reports whether a granted path pattern covers a concrete
// request path. Pattern segments starting with ':' match any single
// non-empty segment, mirroring how the router declares its routes.
func pathMatches(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if !strings.Contains(pattern, ":") {
		return false
	}

	patternSegs := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	pathSegs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(patternSegs) != len(pathSegs) {
		return false
	}
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, ":") {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}

// LinksForRole returns the active navigation links granted to a role.
func (s *Service) LinksForRole(ctx context.Context, role string) ([]domain.NavLink, error) {
	return s.repo.LinksForRole(ctx, role)
}

// Menus groups a role's links into menus with their distinct headers.
func (s *Service) Menus(ctx context.Context, role string) ([]domain.NavMenu, error) {
	links, err := s.repo.LinksForRole(ctx, role)
	if err != nil {
		return nil, err
	}

	var menus []domain.NavMenu
	index := make(map[string]int)
	seen := make(map[string]bool)
	for _, link := range links {
		i, ok := index[link.Menu]
		if !ok {
			i = len(menus)
			index[link.Menu] = i
			menus = append(menus, domain.NavMenu{Menu: link.Menu})
		}
		headerKey := link.Menu + "|" + link.Header
		if !seen[headerKey] {
			seen[headerKey] = true
			menus[i].Headers = append(menus[i].Headers, link.Header)
		}
	}
	return menus, nil
}
