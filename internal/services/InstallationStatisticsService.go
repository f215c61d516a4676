package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"

	"olga/internal/models"
	"olga/internal/providers"
	"olga/internal/statistic/interfaces"
)

type InstallationStatisticsServiceInterface interface {
	AddStatistics(ctx context.Context, record *models.InstallationStatistics) error
	OverallCounts(ctx context.Context) (models.Totals, error)
	Timeline(ctx context.Context) ([]string, error)
	DataPerPeriod(ctx context.Context) (students, courses, instances []int64, err error)
	PeriodSeries(ctx context.Context) (models.PeriodSeries, error)
	DataCreatedDatetimeScope(ctx context.Context) (first, last time.Time, err error)
	StudentsPerCountryTabular(ctx context.Context) ([]models.CountryRow, error)
	RecordCount(ctx context.Context) (int, error)
	Now() time.Time
}

type InstallationStatisticsService struct {
	repository interfaces.RepositoryInterface
	cache      providers.CacheProviderInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewInstallationStatisticsService(repository interfaces.RepositoryInterface, cache providers.CacheProviderInterface, logger providers.Logger) InstallationStatisticsServiceInterface {
	return newInstallationStatisticsService(repository, cache, logger, time.Now)
}

func newInstallationStatisticsService(repository interfaces.RepositoryInterface, cache providers.CacheProviderInterface, logger providers.Logger, now func() time.Time) *InstallationStatisticsService {
	return &InstallationStatisticsService{
		repository: repository,
		cache:      cache,
		logger:     logger,
		now:        now,
	}
}

func (s *InstallationStatisticsService) Now() time.Time {
	return s.now().UTC()
}

// AddStatistics stamps the creation time and stores the record. Cached chart
// data is dropped afterwards.
func (s *InstallationStatisticsService) AddStatistics(ctx context.Context, record *models.InstallationStatistics) error {
	record.DataCreatedDatetime = s.Now()
	if err := s.repository.Insert(ctx, record); err != nil {
		return err
	}
	s.cache.Clear()
	s.logger.Debugf(providers.TypeApp, "Stored installation statistics #%d", record.Id)
	return nil
}

// OverallCounts sums every counter across all stored submissions.
func (s *InstallationStatisticsService) OverallCounts(ctx context.Context) (models.Totals, error) {
	return s.repository.Aggregate(ctx)
}

func (s *InstallationStatisticsService) Timeline(ctx context.Context) ([]string, error) {
	series, err := s.PeriodSeries(ctx)
	if err != nil {
		return nil, err
	}
	return series.Timeline, nil
}

// DataPerPeriod returns three series parallel to Timeline. Callers that need
// the labels too should use PeriodSeries, which reads the store once.
func (s *InstallationStatisticsService) DataPerPeriod(ctx context.Context) (students, courses, instances []int64, err error) {
	series, err := s.PeriodSeries(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return series.Students, series.Courses, series.Instances, nil
}

func (s *InstallationStatisticsService) PeriodSeries(ctx context.Context) (models.PeriodSeries, error) {
	periods, err := s.repository.PerPeriod(ctx)
	if err != nil {
		return models.PeriodSeries{}, err
	}
	return models.NewPeriodSeries(periods), nil
}

// DataCreatedDatetimeScope returns the earliest and latest creation times, or
// the same current instant twice when nothing is stored.
func (s *InstallationStatisticsService) DataCreatedDatetimeScope(ctx context.Context) (first, last time.Time, err error) {
	first, last, ok, err := s.repository.Range(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !ok {
		now := s.Now()
		return now, now, nil
	}
	return first, last, nil
}

// StudentsPerCountryTabular sorts countries by students, descending, with ties
// broken by name.
func (s *InstallationStatisticsService) StudentsPerCountryTabular(ctx context.Context) ([]models.CountryRow, error) {
	perCountry, err := s.repository.StudentsPerCountry(ctx)
	if err != nil {
		return nil, err
	}

	total := lo.Reduce(lo.Values(perCountry), func(sum, students int64, _ int) int64 {
		return models.SaturatingAdd(sum, students)
	}, int64(0))
	rows := lo.MapToSlice(perCountry, func(country string, students int64) models.CountryRow {
		return models.CountryRow{
			Country:  country,
			Students: students,
			Percent:  percentOf(students, total),
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Students != rows[j].Students {
			return rows[i].Students > rows[j].Students
		}
		return rows[i].Country < rows[j].Country
	})
	return rows, nil
}

func (s *InstallationStatisticsService) RecordCount(ctx context.Context) (int, error) {
	count, err := s.repository.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func percentOf(part, total int64) string {
	if total == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(part)*100/float64(total), 'f', 2, 64)
}
