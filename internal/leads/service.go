package leads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"leadboard/internal/client"
	"leadboard/internal/models"
	"leadboard/internal/storage"
)

// ErrNoData is returned when NocoDB fails and no cached snapshot exists.
var ErrNoData = errors.New("no lead data available")

// Fetcher lists raw lead records from the upstream source.
type Fetcher interface {
	FetchLeads(ctx context.Context, q client.Query) (*models.LeadsPage, error)
}

// Snapshot is what the dashboard computes over.
type Snapshot struct {
	Records   []models.RawRecord
	FetchedAt time.Time
	Stale     bool
	Warning   string
}

// Status describes the health of the upstream connection.
type Status struct {
	Online      bool      `json:"online"`
	LastSuccess time.Time `json:"lastSuccess"`
	LastError   string    `json:"lastError,omitempty"`
}

type Service struct {
	fetcher Fetcher
	cache   storage.LeadCache
	limit   int
	logger  *logrus.Logger
	now     func() time.Time
	group   singleflight.Group

	mu     sync.RWMutex
	status Status
}

func NewService(fetcher Fetcher, cache storage.LeadCache, limit int, logger *logrus.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		limit:   limit,
		logger:  logger,
		now:     time.Now,
		status:  Status{Online: true},
	}
}

// fetchTimeout bounds a shared upstream fetch, which outlives the request
// that started it.
const fetchTimeout = 2 * time.Minute

// Fetch returns the current lead list. Concurrent callers share one upstream
// request that runs detached from any single caller, so a caller giving up
// only abandons its own wait. When NocoDB fails the cached snapshot is
// returned marked stale.
func (s *Service) Fetch(ctx context.Context) (Snapshot, error) {
	ch := s.group.DoChan("leads", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	}
}

func (s *Service) fetch(ctx context.Context) (Snapshot, error) {
	page, err := s.fetcher.FetchLeads(ctx, client.Query{Limit: s.limit, Sort: client.DefaultSort})
	if err == nil {
		fetchedAt := s.now()
		s.markOnline(fetchedAt)
		if storeErr := s.cache.Store(ctx, page.List); storeErr != nil {
			s.logger.WithError(storeErr).Error("Failed to store lead snapshot")
		}
		return Snapshot{Records: page.List, FetchedAt: fetchedAt}, nil
	}

	s.markOffline(err)
	s.logger.WithError(err).Warn("Lead fetch failed, trying cached snapshot")

	cached, ok, cacheErr := s.cache.Load(ctx)
	if cacheErr != nil {
		s.logger.WithError(cacheErr).Error("Failed to load cached snapshot")
	}
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrNoData, err)
	}

	return Snapshot{
		Records:   cached.Records,
		FetchedAt: cached.StoredAt,
		Stale:     true,
		Warning:   "Mostrando datos guardados - " + err.Error(),
	}, nil
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Service) markOnline(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Status{Online: true, LastSuccess: at}
}

func (s *Service) markOffline(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Online = false
	s.status.LastError = err.Error()
}
