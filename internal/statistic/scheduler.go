package statistic

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"olga/internal/providers"
	"olga/internal/statistic/interfaces"
	"olga/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	repository  interfaces.RepositoryInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if _, ok := s.repository.(interfaces.SnapshotterInterface); ok {
		s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
			if err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
				return
			}
			s.logger.Debugf(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
		})
	}

	s.cron.AddFunc(gron.Every(s.config.Statistic.Interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.refreshRecordsGauge()
	})

	s.refreshRecordsGauge()
	s.cron.Start()
}

func (s *Scheduler) refreshRecordsGauge() {
	count, err := s.repository.Count(context.Background())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while counting records: %s", err)
		return
	}
	s.metrics.SetRecordsTotal(count)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if _, ok := s.repository.(interfaces.SnapshotterInterface); !ok {
		return nil
	}

	s.logger.Infof(providers.TypeApp, "Persisting statistic to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, repository interfaces.RepositoryInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		repository:  repository,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
