package storage

import "rentcompare/models"

// RecordStore is the interface any persistence backend for processed records
// must satisfy.
type RecordStore interface {
	Write(records []models.RentalRecord) error
	FetchAll() ([]models.RentalRecord, error)
	Close() error
}
