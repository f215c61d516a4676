package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const PeriodLayout = "2006-01-02"

// InstallationStatistics is one submission. Records are append-only: nothing
// updates or deletes them once stored.
type InstallationStatistics struct {
	Id                         int64            `json:"id"`
	InstancesCount             int64            `json:"instances_count"`
	CoursesCount               int64            `json:"courses_count"`
	StudentsCount              int64            `json:"students_count"`
	GeneratedCertificatesCount int64            `json:"generated_certificates_count"`
	StudentsPerCountry         map[string]int64 `json:"students_per_country"`
	DataCreatedDatetime        time.Time        `json:"data_created_datetime"`
}

func (s *InstallationStatistics) Clone() *InstallationStatistics {
	c := *s
	if s.StudentsPerCountry != nil {
		c.StudentsPerCountry = make(map[string]int64, len(s.StudentsPerCountry))
		for k, v := range s.StudentsPerCountry {
			c.StudentsPerCountry[k] = v
		}
	}
	return &c
}

// MaxCounter bounds every submitted counter so that sums over any realistic
// number of submissions stay within int64.
const MaxCounter = 1_000_000_000

// SaturatingAdd adds two non-negative counters, stopping at math.MaxInt64.
func SaturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// NewInstallationStatistics builds a record from two already validated forms.
// The per-country breakdown is kept only for the enthusiast statistics level.
func NewInstallationStatistics(installation *EdxInstallationForm, statistics *InstallationStatisticsForm, created time.Time) (*InstallationStatistics, error) {
	record := &InstallationStatistics{DataCreatedDatetime: created.UTC()}

	counters := []struct {
		name string
		raw  string
		dst  *int64
	}{
		{"instances_count", statistics.InstancesCount, &record.InstancesCount},
		{"courses_count", statistics.CoursesCount, &record.CoursesCount},
		{"students_count", statistics.StudentsCount, &record.StudentsCount},
		{"generated_certificates_count", statistics.GeneratedCertificatesCount, &record.GeneratedCertificatesCount},
	}
	for _, c := range counters {
		n, err := strconv.ParseInt(c.raw, 10, 64)
		if err != nil || n < 0 || n > MaxCounter {
			return nil, fmt.Errorf("%s: invalid counter %q", c.name, c.raw)
		}
		*c.dst = n
	}

	if installation.StatisticsLevel == StatisticsLevelEnthusiast && statistics.StudentsPerCountry != "" {
		perCountry, err := ParseStudentsPerCountry(statistics.StudentsPerCountry)
		if err != nil {
			return nil, err
		}
		record.StudentsPerCountry = perCountry
	}

	return record, nil
}

// ParseStudentsPerCountry decodes a JSON object of country name to student count.
func ParseStudentsPerCountry(raw string) (map[string]int64, error) {
	var perCountry map[string]int64
	if err := json.Unmarshal([]byte(raw), &perCountry); err != nil {
		return nil, fmt.Errorf("students_per_country: %w", err)
	}
	if perCountry == nil {
		return nil, fmt.Errorf("students_per_country: expected a JSON object")
	}
	for country, count := range perCountry {
		if country == "" {
			return nil, fmt.Errorf("students_per_country: empty country name")
		}
		if count < 0 {
			return nil, fmt.Errorf("students_per_country: negative count for %s", country)
		}
		if count > MaxCounter {
			return nil, fmt.Errorf("students_per_country: count for %s exceeds %d", country, MaxCounter)
		}
	}
	return perCountry, nil
}

type Totals struct {
	InstancesCount             int64 `json:"instances_count"`
	CoursesCount               int64 `json:"courses_count"`
	StudentsCount              int64 `json:"students_count"`
	GeneratedCertificatesCount int64 `json:"generated_certificates_count"`
}

// PeriodStats holds per-day sums. Period is midnight UTC of that day.
type PeriodStats struct {
	Period    time.Time
	Students  int64
	Courses   int64
	Instances int64
}

func (p PeriodStats) Label() string {
	return p.Period.UTC().Format(PeriodLayout)
}

// PeriodSeries holds the timeline labels and the three chart series built
// from a single read of the per-period sums, so all four have equal length.
type PeriodSeries struct {
	Timeline  []string
	Students  []int64
	Courses   []int64
	Instances []int64
}

func NewPeriodSeries(periods []PeriodStats) PeriodSeries {
	series := PeriodSeries{
		Timeline:  make([]string, 0, len(periods)),
		Students:  make([]int64, 0, len(periods)),
		Courses:   make([]int64, 0, len(periods)),
		Instances: make([]int64, 0, len(periods)),
	}
	for _, p := range periods {
		series.Timeline = append(series.Timeline, p.Label())
		series.Students = append(series.Students, p.Students)
		series.Courses = append(series.Courses, p.Courses)
		series.Instances = append(series.Instances, p.Instances)
	}
	return series
}

// CountryRow is one row of the tabular per-country data. It encodes as
// ["Canada", 66, "20.00"] for the world map.
type CountryRow struct {
	Country  string
	Students int64
	Percent  string
}

func (r CountryRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Country, r.Students, r.Percent})
}

// GetStatisticsTopCountry returns the country of the first row. Rows must
// already be sorted by students in descending order.
func GetStatisticsTopCountry(rows []CountryRow) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[0].Country
}
