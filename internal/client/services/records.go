package services

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
)

// PageState is the remembered pagination and filter of the records view.
type PageState struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
	Filter     models.ActivityType
}

// RecordsService is a paginated, filterable view over learning records
// plus the summary statistics.
type RecordsService interface {
	FetchRecords(ctx context.Context, q *models.RecordQuery) ([]models.LearningRecord, error)
	SetFilter(ctx context.Context, activityType models.ActivityType) error
	GoToPage(ctx context.Context, page int) error
	ChangePageSize(ctx context.Context, size int) error
	FetchStatistics(ctx context.Context) *models.Statistics
	ClearAll()

	Records() []models.LearningRecord
	PageState() PageState
	HasRecords() bool
	HasMorePages() bool
	Statistics() *models.Statistics
	Loading() bool
	LastError() string
}

type recordsService struct {
	client          client.Client
	log             logging.Logger
	defaultPageSize int

	mu      sync.Mutex
	records []models.LearningRecord
	stats   *models.Statistics
	page    PageState
	loading int
	lastErr string
}

func NewRecordsService(c client.Client, defaultPageSize int, log logging.Logger) RecordsService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &recordsService{
		client:          c,
		log:             log.With("service", "records"),
		defaultPageSize: defaultPageSize,
		page:            PageState{Page: 1, PageSize: defaultPageSize},
	}
}

// FetchRecords loads one page. Page, size and filter given in q win over
// the remembered ones; the date range is used only when given. On success
// the local page is replaced wholesale.
func (s *recordsService) FetchRecords(ctx context.Context, q *models.RecordQuery) ([]models.LearningRecord, error) {
	s.mu.Lock()
	query := models.RecordQuery{
		Page:         s.page.Page,
		PageSize:     s.page.PageSize,
		ActivityType: s.page.Filter,
	}
	if q != nil {
		if q.Page > 0 {
			query.Page = q.Page
		}
		if q.PageSize > 0 {
			query.PageSize = q.PageSize
		}
		if q.ActivityType != "" {
			query.ActivityType = q.ActivityType
		}
		query.StartDate = q.StartDate
		query.EndDate = q.EndDate
	}
	s.loading++
	s.lastErr = ""
	s.mu.Unlock()

	res, err := s.client.ListRecords(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.lastErr = errorText(err, "Failed to fetch records")
		return nil, err
	}

	s.records = res.Records
	if s.records == nil {
		s.records = []models.LearningRecord{}
	}
	s.page.Total = res.Total
	s.page.TotalPages = res.TotalPages
	if res.PageSize > 0 {
		s.page.PageSize = res.PageSize
	}
	s.page.Page = clampPage(res.Page, res.TotalPages)
	return slices.Clone(s.records), nil
}

func clampPage(page, totalPages int) int {
	upper := max(totalPages, 1)
	return min(max(page, 1), upper)
}

// SetFilter sets the activity filter ("" for none) and reloads from page 1.
func (s *recordsService) SetFilter(ctx context.Context, activityType models.ActivityType) error {
	s.mu.Lock()
	s.page.Filter = activityType
	s.page.Page = 1
	s.mu.Unlock()

	_, err := s.FetchRecords(ctx, nil)
	return err
}

// GoToPage loads page. A page outside [1, TotalPages] is ignored.
func (s *recordsService) GoToPage(ctx context.Context, page int) error {
	s.mu.Lock()
	if page < 1 || page > s.page.TotalPages {
		s.mu.Unlock()
		return nil
	}
	s.page.Page = page
	s.mu.Unlock()

	_, err := s.FetchRecords(ctx, nil)
	return err
}

func (s *recordsService) ChangePageSize(ctx context.Context, size int) error {
	s.mu.Lock()
	if size > 0 {
		s.page.PageSize = size
	}
	s.page.Page = 1
	s.mu.Unlock()

	_, err := s.FetchRecords(ctx, nil)
	return err
}

// FetchStatistics refreshes the summary. Failures are logged and return nil.
func (s *recordsService) FetchStatistics(ctx context.Context) *models.Statistics {
	stats, err := s.client.Statistics(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to fetch statistics", "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	c := *stats
	return &c
}

func (s *recordsService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.stats = nil
	s.lastErr = ""
	s.page = PageState{Page: 1, PageSize: s.defaultPageSize}
}

func (s *recordsService) Records() []models.LearningRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *recordsService) PageState() PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *recordsService) HasRecords() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records) > 0
}

func (s *recordsService) HasMorePages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.Page < s.page.TotalPages
}

func (s *recordsService) Statistics() *models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		return nil
	}
	c := *s.stats
	return &c
}

func (s *recordsService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

func (s *recordsService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
