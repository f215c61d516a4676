package models

// Storage is the on-disk snapshot of the in-memory store.
type Storage struct {
	LastId  int64                     `json:"last_id"`
	Records []*InstallationStatistics `json:"records"`
}
