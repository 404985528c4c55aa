package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

const maxEventsToKeep = 10000 // Keep last 10k events for performance

// Service implements listing analytics tracking and reporting
type Service struct {
	mutex        sync.RWMutex
	events       []model.ListingEvent
	dataFilePath string
	fileMutex    sync.Mutex
	logger       *zap.Logger
}

// NewService creates a new analytics service. dataFilePath may be empty to
// disable persistence; logger may be nil.
func NewService(dataFilePath string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &Service{
		events:       make([]model.ListingEvent, 0),
		dataFilePath: dataFilePath,
		logger:       logger,
	}

	if err := service.loadData(); err != nil {
		logger.Warn("failed to load analytics data", zap.Error(err))
	}

	return service
}

// Track records a served listing. A missing id and timestamp are filled in.
func (s *Service) Track(event model.ListingEvent) error {
	s.mutex.Lock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	// Persist asynchronously
	go s.persist()

	return nil
}

// Dashboard returns complete listing analytics dashboard data
func (s *Service) Dashboard() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24hEvents := s.filterEventsByTime(s.events, yesterday)
	prevDayEvents := s.filterEventsByTimeRange(s.events, now.Add(-48*time.Hour), yesterday)
	lastWeekEvents := s.filterEventsByTime(s.events, lastWeek)

	dashboard := model.AnalyticsDashboard{
		TotalListings:            len(last24hEvents),
		ListingsChangePercent:    s.calculateChangePercent(len(last24hEvents), len(prevDayEvents)),
		AvgResponseTime:          s.calculateAvgResponseTime(last24hEvents),
		ResponseTimeChange:       s.calculateResponseTimeChange(last24hEvents, prevDayEvents),
		PopularQueries:           s.getPopularQueries(lastWeekEvents),
		ZeroResultQueries:        s.getZeroResultQueries(lastWeekEvents),
		TopCategories:            s.getTopCategories(lastWeekEvents),
		Viewports:                s.getViewportSplit(last24hEvents),
		ResponseTimeDistribution: s.getResponseTimeDistribution(last24hEvents),
	}

	return dashboard, nil
}

// filterEventsByTime returns events after the given time
func (s *Service) filterEventsByTime(events []model.ListingEvent, after time.Time) []model.ListingEvent {
	var filtered []model.ListingEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// filterEventsByTimeRange returns events within the given time range
func (s *Service) filterEventsByTimeRange(events []model.ListingEvent, start, end time.Time) []model.ListingEvent {
	var filtered []model.ListingEvent
	for _, event := range events {
		if event.Timestamp.After(start) && event.Timestamp.Before(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func (s *Service) calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func (s *Service) calculateAvgResponseTime(events []model.ListingEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	avgDuration := total / time.Duration(len(events))
	return avgDuration.Milliseconds()
}

// calculateResponseTimeChange calculates response time change trend
func (s *Service) calculateResponseTimeChange(current, previous []model.ListingEvent) string {
	currentAvg := s.calculateAvgResponseTime(current)
	previousAvg := s.calculateAvgResponseTime(previous)

	if previousAvg == 0 {
		return "stable"
	}

	change := float64(currentAvg-previousAvg) / float64(previousAvg)
	if change > 0.1 {
		return "up"
	} else if change < -0.1 {
		return "down"
	}
	return "stable"
}

// getPopularQueries returns the most frequently issued queries
func (s *Service) getPopularQueries(events []model.ListingEvent) []model.PopularQuery {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}
	return topQueries(queryCounts, 5)
}

// getZeroResultQueries returns the most frequent queries that served no hits
func (s *Service) getZeroResultQueries(events []model.ListingEvent) []model.PopularQuery {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" && event.ResultCount == 0 {
			queryCounts[event.Query]++
		}
	}
	return topQueries(queryCounts, 5)
}

// topQueries returns the n highest-count queries, ties broken alphabetically
func topQueries(queryCounts map[string]int, n int) []model.PopularQuery {
	type queryCount struct {
		query string
		count int
	}

	var queries []queryCount
	for query, count := range queryCounts {
		queries = append(queries, queryCount{query: query, count: count})
	}

	sort.Slice(queries, func(i, j int) bool {
		if queries[i].count != queries[j].count {
			return queries[i].count > queries[j].count
		}
		return queries[i].query < queries[j].query
	})

	var popular []model.PopularQuery
	for i, qc := range queries {
		if i >= n {
			break
		}
		popular = append(popular, model.PopularQuery{
			Query:        qc.query,
			ListingCount: qc.count,
		})
	}

	return popular
}

// getTopCategories returns the categories with the most listing traffic
func (s *Service) getTopCategories(events []model.ListingEvent) []model.CategoryUsage {
	categoryCounts := make(map[string]int)
	for _, event := range events {
		if event.CategoryID != "" {
			categoryCounts[event.CategoryID]++
		}
	}

	type categoryCount struct {
		categoryID string
		count      int
	}

	var categories []categoryCount
	for categoryID, count := range categoryCounts {
		categories = append(categories, categoryCount{categoryID: categoryID, count: count})
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].count != categories[j].count {
			return categories[i].count > categories[j].count
		}
		return categories[i].categoryID < categories[j].categoryID
	})

	var top []model.CategoryUsage
	for i, cc := range categories {
		if i >= 5 {
			break
		}
		top = append(top, model.CategoryUsage{
			CategoryID:   cc.categoryID,
			ListingCount: cc.count,
		})
	}

	return top
}

// getViewportSplit returns the desktop/mobile traffic split
func (s *Service) getViewportSplit(events []model.ListingEvent) model.ViewportSplit {
	split := model.ViewportSplit{}
	for _, event := range events {
		if event.Viewport == model.ViewportMobile {
			split.Mobile++
		} else {
			split.Desktop++
		}
	}
	return split
}

// getResponseTimeDistribution returns response time distribution
func (s *Service) getResponseTimeDistribution(events []model.ListingEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)

	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100

	return dist
}

// persist snapshots the event buffer and writes it to disk
func (s *Service) persist() {
	if s.dataFilePath == "" {
		return
	}

	s.mutex.RLock()
	events := make([]model.ListingEvent, len(s.events))
	copy(events, s.events)
	s.mutex.RUnlock()

	if err := s.saveData(events); err != nil {
		s.logger.Warn("failed to save analytics data", zap.Error(err))
	}
}

// Flush writes the current event buffer to disk synchronously. Called on
// shutdown so events tracked since the last async persist are not lost.
func (s *Service) Flush() error {
	if s.dataFilePath == "" {
		return nil
	}

	s.mutex.RLock()
	events := make([]model.ListingEvent, len(s.events))
	copy(events, s.events)
	s.mutex.RUnlock()

	return s.saveData(events)
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	if s.dataFilePath == "" {
		return nil
	}

	if _, err := os.Stat(s.dataFilePath); os.IsNotExist(err) {
		return nil // File doesn't exist yet, that's okay
	}

	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}

	return nil
}

// saveData saves analytics data to file
func (s *Service) saveData(events []model.ListingEvent) error {
	if s.dataFilePath == "" {
		return nil
	}

	s.fileMutex.Lock()
	defer s.fileMutex.Unlock()

	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	if err := os.WriteFile(s.dataFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}

	return nil
}

var _ services.AnalyticsRecorder = (*Service)(nil)
