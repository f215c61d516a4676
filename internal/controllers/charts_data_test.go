package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olga/internal/models"
	"olga/internal/services"
	"olga/internal/testutil"
)

// growingRepository lands a submission on a new day after every PerPeriod
// read, as a concurrent writer would.
type growingRepository struct {
	*models.StatStore
	day   time.Time
	reads int
}

func (g *growingRepository) PerPeriod(ctx context.Context) ([]models.PeriodStats, error) {
	periods, err := g.StatStore.PerPeriod(ctx)
	g.reads++
	g.day = g.day.AddDate(0, 0, 1)
	_ = g.StatStore.Insert(ctx, &models.InstallationStatistics{
		InstancesCount:      1,
		CoursesCount:        2,
		StudentsCount:       3,
		DataCreatedDatetime: g.day,
	})
	return periods, err
}

func TestBuildGraphsData_SeriesStayParallelUnderWrites(t *testing.T) {
	repo := &growingRepository{
		StatStore: models.NewStatStore(),
		day:       time.Date(2017, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	service := services.NewInstallationStatisticsService(repo, testutil.NewMockCache(), &testutil.MockLogger{})

	for i := 0; i < 3; i++ {
		data, err := buildGraphsData(context.Background(), service)
		require.NoError(t, err)

		assert.Len(t, data.Timeline, i)
		assert.Len(t, data.Students, len(data.Timeline))
		assert.Len(t, data.Courses, len(data.Timeline))
		assert.Len(t, data.Instances, len(data.Timeline))
	}
	assert.Equal(t, 3, repo.reads)
}

func TestBuildGraphsData_SeriesMatchPeriods(t *testing.T) {
	service := &testutil.MockStatisticsService{
		Periods: []models.PeriodStats{
			{Period: time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC), Students: 10, Courses: 2, Instances: 1},
			{Period: time.Date(2017, 6, 2, 0, 0, 0, 0, time.UTC), Students: 20, Courses: 4, Instances: 2},
		},
	}

	data, err := buildGraphsData(context.Background(), service)
	require.NoError(t, err)

	assert.Equal(t, []string{"2017-06-01", "2017-06-02"}, data.Timeline)
	assert.Equal(t, []int64{10, 20}, data.Students)
	assert.Equal(t, []int64{2, 4}, data.Courses)
	assert.Equal(t, []int64{1, 2}, data.Instances)
}
