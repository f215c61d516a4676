package statistic

import (
	"bytes"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"olga/internal/models"
	"olga/internal/providers"
	"olga/internal/statistic/interfaces"
)

// FileManager writes snapshots of a memory-backed repository to disk. For any
// other repository both operations are no-ops.
type FileManager struct {
	repository interfaces.RepositoryInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, repository interfaces.RepositoryInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		repository: repository,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) snapshotter() (interfaces.SnapshotterInterface, bool) {
	s, ok := f.repository.(interfaces.SnapshotterInterface)
	return s, ok
}

func (f *FileManager) SaveToFile(fileName string) error {
	snapshotter, ok := f.snapshotter()
	if !ok {
		return nil
	}
	start := time.Now()
	defer func() { f.metrics.ObservePersistenceDuration(time.Since(start)) }()

	jsonData, err := json.Marshal(snapshotter.GetSnapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a snapshot. Besides compressed snapshots it accepts
// plain JSON, either a snapshot object or a bare array of records, which is
// how fixtures are seeded.
func (f *FileManager) LoadFromFile(fileName string) error {
	snapshotter, ok := f.snapshotter()
	if !ok {
		return nil
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
			return err
		}
		f.logger.Warnf(providers.TypeApp, "Snapshot %s is not compressed, reading it as plain JSON", fileName)
		decompressedData = trimmed
	}

	if len(decompressedData) > 0 && decompressedData[0] == '[' {
		var records []*models.InstallationStatistics
		if err := json.Unmarshal(decompressedData, &records); err != nil {
			return err
		}
		snapshotter.PutData(&models.Storage{Records: records})
		f.logger.Infof(providers.TypeApp, "Restored %d records from fixture %s", len(records), fileName)
		return nil
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return err
	}
	snapshotter.PutData(&storage)
	f.logger.Infof(providers.TypeApp, "Restored %d records from %s", len(storage.Records), fileName)
	return nil
}
