package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/models"
)

// ReservationStore is the read-only view of reservations the matchmaking
// core needs. The booking controllers own the writes. WithTx rebinds the
// store to a running transaction so reads share its snapshot.
type ReservationStore interface {
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	WithTx(tx *gorm.DB) ReservationStore
}

type gormReservationStore struct {
	db *gorm.DB
}

func NewReservationStore(db *gorm.DB) ReservationStore {
	return &gormReservationStore{db: db}
}

func (s *gormReservationStore) WithTx(tx *gorm.DB) ReservationStore {
	return &gormReservationStore{db: tx}
}

func (s *gormReservationStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).Preload("Field").Preload("Field.Facility").First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
