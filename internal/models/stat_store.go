package models

import (
	"context"
	"sort"
	"sync"
	"time"
)

// StatStore is the in-memory repository. It hands out and keeps copies, so
// stored records cannot be mutated through a returned pointer.
type StatStore struct {
	mu      sync.RWMutex
	records []*InstallationStatistics
	lastId  int64
}

func NewStatStore() *StatStore {
	return &StatStore{
		records: make([]*InstallationStatistics, 0),
	}
}

func (s *StatStore) Insert(_ context.Context, record *InstallationStatistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastId++
	record.Id = s.lastId
	s.records = append(s.records, record.Clone())
	return nil
}

func (s *StatStore) Aggregate(_ context.Context) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t Totals
	for _, r := range s.records {
		t.InstancesCount = SaturatingAdd(t.InstancesCount, r.InstancesCount)
		t.CoursesCount = SaturatingAdd(t.CoursesCount, r.CoursesCount)
		t.StudentsCount = SaturatingAdd(t.StudentsCount, r.StudentsCount)
		t.GeneratedCertificatesCount = SaturatingAdd(t.GeneratedCertificatesCount, r.GeneratedCertificatesCount)
	}
	return t, nil
}

// Range returns the earliest and latest creation times; ok is false when the
// store is empty.
func (s *StatStore) Range(_ context.Context) (first, last time.Time, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, r := range s.records {
		if i == 0 || r.DataCreatedDatetime.Before(first) {
			first = r.DataCreatedDatetime
		}
		if i == 0 || r.DataCreatedDatetime.After(last) {
			last = r.DataCreatedDatetime
		}
	}
	return first, last, len(s.records) > 0, nil
}

func (s *StatStore) PerPeriod(_ context.Context) ([]PeriodStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := make(map[time.Time]*PeriodStats)
	for _, r := range s.records {
		day := r.DataCreatedDatetime.UTC().Truncate(24 * time.Hour)
		ps, ok := byDay[day]
		if !ok {
			ps = &PeriodStats{Period: day}
			byDay[day] = ps
		}
		ps.Students = SaturatingAdd(ps.Students, r.StudentsCount)
		ps.Courses = SaturatingAdd(ps.Courses, r.CoursesCount)
		ps.Instances = SaturatingAdd(ps.Instances, r.InstancesCount)
	}

	periods := make([]PeriodStats, 0, len(byDay))
	for _, ps := range byDay {
		periods = append(periods, *ps)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period.Before(periods[j].Period)
	})
	return periods, nil
}

func (s *StatStore) StudentsPerCountry(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perCountry := make(map[string]int64)
	for _, r := range s.records {
		for country, count := range r.StudentsPerCountry {
			perCountry[country] = SaturatingAdd(perCountry[country], count)
		}
	}
	return perCountry, nil
}

func (s *StatStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *StatStore) Close() {}

func (s *StatStore) GetSnapshot() *Storage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &Storage{
		LastId:  s.lastId,
		Records: make([]*InstallationStatistics, len(s.records)),
	}
	for i, r := range s.records {
		snapshot.Records[i] = r.Clone()
	}
	return snapshot
}

// PutData replaces the store content with a snapshot, used on restore.
func (s *StatStore) PutData(snapshot *Storage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]*InstallationStatistics, 0, len(snapshot.Records))
	s.lastId = snapshot.LastId
	for _, r := range snapshot.Records {
		if r == nil {
			continue
		}
		s.records = append(s.records, r.Clone())
		if r.Id > s.lastId {
			s.lastId = r.Id
		}
	}
}
