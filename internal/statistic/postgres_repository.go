package statistic

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"olga/internal/models"
	"olga/internal/providers"
)

// Sums are clamped to the bigint maximum instead of failing the cast.
const (
	insertStatisticsSQL = `
		INSERT INTO installation_statistics (
			instances_count, courses_count, students_count,
			generated_certificates_count, students_per_country, data_created_datetime
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	aggregateStatisticsSQL = `
		SELECT
			LEAST(COALESCE(SUM(instances_count), 0), 9223372036854775807)::bigint,
			LEAST(COALESCE(SUM(courses_count), 0), 9223372036854775807)::bigint,
			LEAST(COALESCE(SUM(students_count), 0), 9223372036854775807)::bigint,
			LEAST(COALESCE(SUM(generated_certificates_count), 0), 9223372036854775807)::bigint
		FROM installation_statistics`

	rangeStatisticsSQL = `
		SELECT MIN(data_created_datetime), MAX(data_created_datetime)
		FROM installation_statistics`

	perPeriodStatisticsSQL = `
		SELECT
			date_trunc('day', data_created_datetime AT TIME ZONE 'UTC') AS period,
			LEAST(SUM(students_count), 9223372036854775807)::bigint,
			LEAST(SUM(courses_count), 9223372036854775807)::bigint,
			LEAST(SUM(instances_count), 9223372036854775807)::bigint
		FROM installation_statistics
		GROUP BY period
		ORDER BY period`

	studentsPerCountrySQL = `
		SELECT country.key, LEAST(SUM(country.value::bigint), 9223372036854775807)::bigint
		FROM installation_statistics, jsonb_each_text(students_per_country) AS country
		WHERE students_per_country IS NOT NULL
		GROUP BY country.key`

	countStatisticsSQL = `SELECT COUNT(*) FROM installation_statistics`
)

type PostgresRepository struct {
	pool    *pgxpool.Pool
	metrics providers.MetricsProviderInterface
}

func NewPostgresRepository(ctx context.Context, databaseUrl string, metrics providers.MetricsProviderInterface) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(databaseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool, metrics: metrics}, nil
}

func (r *PostgresRepository) observe(operation string, start time.Time) {
	r.metrics.ObserveStoreDuration(operation, time.Since(start))
}

func (r *PostgresRepository) Insert(ctx context.Context, record *models.InstallationStatistics) error {
	defer r.observe("insert", time.Now())

	// nil interface, not a nil map, so the column stays SQL NULL.
	var perCountry any
	if record.StudentsPerCountry != nil {
		perCountry = record.StudentsPerCountry
	}

	err := r.pool.QueryRow(ctx, insertStatisticsSQL,
		record.InstancesCount,
		record.CoursesCount,
		record.StudentsCount,
		record.GeneratedCertificatesCount,
		perCountry,
		record.DataCreatedDatetime,
	).Scan(&record.Id)
	if err != nil {
		return fmt.Errorf("insert installation statistics: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Aggregate(ctx context.Context) (models.Totals, error) {
	defer r.observe("aggregate", time.Now())

	var t models.Totals
	err := r.pool.QueryRow(ctx, aggregateStatisticsSQL).Scan(
		&t.InstancesCount,
		&t.CoursesCount,
		&t.StudentsCount,
		&t.GeneratedCertificatesCount,
	)
	if err != nil {
		return models.Totals{}, fmt.Errorf("aggregate installation statistics: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Range(ctx context.Context) (first, last time.Time, ok bool, err error) {
	defer r.observe("range", time.Now())

	var minTs, maxTs *time.Time
	if err := r.pool.QueryRow(ctx, rangeStatisticsSQL).Scan(&minTs, &maxTs); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("range of installation statistics: %w", err)
	}
	if minTs == nil || maxTs == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return minTs.UTC(), maxTs.UTC(), true, nil
}

func (r *PostgresRepository) PerPeriod(ctx context.Context) ([]models.PeriodStats, error) {
	defer r.observe("per_period", time.Now())

	rows, err := r.pool.Query(ctx, perPeriodStatisticsSQL)
	if err != nil {
		return nil, fmt.Errorf("installation statistics per period: %w", err)
	}
	defer rows.Close()

	periods := make([]models.PeriodStats, 0)
	for rows.Next() {
		var ps models.PeriodStats
		if err := rows.Scan(&ps.Period, &ps.Students, &ps.Courses, &ps.Instances); err != nil {
			return nil, fmt.Errorf("scan period row: %w", err)
		}
		ps.Period = time.Date(ps.Period.Year(), ps.Period.Month(), ps.Period.Day(), 0, 0, 0, 0, time.UTC)
		periods = append(periods, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate period rows: %w", err)
	}
	return periods, nil
}

func (r *PostgresRepository) StudentsPerCountry(ctx context.Context) (map[string]int64, error) {
	defer r.observe("students_per_country", time.Now())

	rows, err := r.pool.Query(ctx, studentsPerCountrySQL)
	if err != nil {
		return nil, fmt.Errorf("students per country: %w", err)
	}
	defer rows.Close()

	perCountry := make(map[string]int64)
	for rows.Next() {
		var country string
		var students int64
		if err := rows.Scan(&country, &students); err != nil {
			return nil, fmt.Errorf("scan country row: %w", err)
		}
		perCountry[country] = students
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country rows: %w", err)
	}
	return perCountry, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	defer r.observe("count", time.Now())

	var count int
	if err := r.pool.QueryRow(ctx, countStatisticsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count installation statistics: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}
