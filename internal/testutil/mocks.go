package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"olga/internal/models"
	"olga/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockStatisticsService implements services.InstallationStatisticsServiceInterface
// with canned results. Err, when set, is returned by every query.
type MockStatisticsService struct {
	mu sync.Mutex

	Added     []*models.InstallationStatistics
	AddErr    error
	Err       error
	Totals    models.Totals
	Periods   []models.PeriodStats
	Countries []models.CountryRow
	First     time.Time
	Last      time.Time
	Records   int
	Clock     time.Time
}

func (m *MockStatisticsService) AddStatistics(_ context.Context, record *models.InstallationStatistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return m.AddErr
	}
	record.DataCreatedDatetime = m.Now()
	m.Added = append(m.Added, record)
	return nil
}

func (m *MockStatisticsService) OverallCounts(_ context.Context) (models.Totals, error) {
	return m.Totals, m.Err
}

func (m *MockStatisticsService) Timeline(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	labels := make([]string, 0, len(m.Periods))
	for _, p := range m.Periods {
		labels = append(labels, p.Label())
	}
	return labels, nil
}

func (m *MockStatisticsService) DataPerPeriod(_ context.Context) (students, courses, instances []int64, err error) {
	if m.Err != nil {
		return nil, nil, nil, m.Err
	}
	students, courses, instances = []int64{}, []int64{}, []int64{}
	for _, p := range m.Periods {
		students = append(students, p.Students)
		courses = append(courses, p.Courses)
		instances = append(instances, p.Instances)
	}
	return students, courses, instances, nil
}

func (m *MockStatisticsService) PeriodSeries(_ context.Context) (models.PeriodSeries, error) {
	if m.Err != nil {
		return models.PeriodSeries{}, m.Err
	}
	return models.NewPeriodSeries(m.Periods), nil
}

func (m *MockStatisticsService) DataCreatedDatetimeScope(_ context.Context) (first, last time.Time, err error) {
	if m.Err != nil {
		return time.Time{}, time.Time{}, m.Err
	}
	if m.First.IsZero() && m.Last.IsZero() {
		now := m.Now()
		return now, now, nil
	}
	return m.First, m.Last, nil
}

func (m *MockStatisticsService) StudentsPerCountryTabular(_ context.Context) ([]models.CountryRow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Countries == nil {
		return []models.CountryRow{}, nil
	}
	return m.Countries, nil
}

func (m *MockStatisticsService) RecordCount(_ context.Context) (int, error) {
	return m.Records, m.Err
}

func (m *MockStatisticsService) Now() time.Time {
	if m.Clock.IsZero() {
		return time.Date(2017, 8, 1, 12, 0, 0, 0, time.UTC)
	}
	return m.Clock
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Clears int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Clears++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu          sync.Mutex
	Requests    []string
	CacheHits   int
	CacheMisses int
	Submissions map[string]int
	StoreOps    []string
	Persisted   int
	RecordsSet  []int
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, endpoint)
}

func (m *MockMetrics) ObserveRequestDuration(endpoint string, d time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncSubmissions(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Submissions == nil {
		m.Submissions = make(map[string]int)
	}
	m.Submissions[result]++
}

func (m *MockMetrics) ObserveStoreDuration(op string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreOps = append(m.StoreOps, op)
}

func (m *MockMetrics) ObservePersistenceDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) SetRecordsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsSet = append(m.RecordsSet, count)
}

func (m *MockMetrics) RecordsTotals() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.RecordsSet...)
}

func (m *MockMetrics) SubmissionCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Submissions[result]
}

// MockRenderer implements providers.RendererInterface. It records the last
// template name and context and writes the name as the body.
type MockRenderer struct {
	mu       sync.Mutex
	Template string
	Data     any
	Err      error
}

func (m *MockRenderer) Render(w io.Writer, name string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Template = name
	m.Data = data
	_, err := io.WriteString(w, name)
	return err
}
