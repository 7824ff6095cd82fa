package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResidentUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig(t))

	resident := &models.Resident{
		Name:     "Asha Verma",
		Phone:    "+919800000001",
		Password: "password123",
		FlatNo:   "J-901",
	}
	require.NoError(t, svc.CreateResident(resident))

	// 同手机号
	err := svc.CreateResident(&models.Resident{
		Name:     "Other",
		Phone:    "+919800000001",
		Password: "password123",
		FlatNo:   "J-902",
	})
	assert.ErrorIs(t, err, ErrConflict)

	// 同房号
	err = svc.CreateResident(&models.Resident{
		Name:     "Other",
		Phone:    "+919800000002",
		Password: "password123",
		FlatNo:   "J-901",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetResidentByFlat(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig(t))
	resident := seedResident(t, db, "J-903")

	found, err := svc.GetResidentByFlat("J-903")
	require.NoError(t, err)
	assert.Equal(t, resident.ID, found.ID)

	_, err = svc.GetResidentByFlat("Z-999")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateResidentKeepsUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig(t))
	first := seedResident(t, db, "J-904")
	second := seedResident(t, db, "J-905")

	_, err := svc.UpdateResident(second.ID, map[string]interface{}{"flat_no": first.FlatNo})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := svc.UpdateResident(second.ID, map[string]interface{}{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestDeleteResident(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig(t))
	resident := seedResident(t, db, "J-906")

	require.NoError(t, svc.DeleteResident(resident.ID))

	_, err := svc.GetResidentByID(resident.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = svc.DeleteResident(resident.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
