package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestPatientCreateAppliesDefaults(t *testing.T) {
	db := setupTestDB(t, "patient_defaults", &Patient{})

	patient := Patient{}
	err := db.Create(&patient).Error
	assert.NoError(t, err)

	var stored Patient
	assert.NoError(t, db.First(&stored, patient.ID).Error)
	assert.Equal(t, DefaultPatientName, stored.Name)
	assert.Equal(t, DefaultPatientLastName, stored.LastName)
	assert.Equal(t, DefaultPatientDOB, stored.DOB)
	assert.NotNil(t, stored.CronicDiseases)
	assert.Len(t, stored.CronicDiseases, 0)
	assert.NotNil(t, stored.Predispositions)
	assert.Len(t, stored.Predispositions, 0)
	assert.False(t, stored.UpdatedAt.Before(stored.CreatedAt))
}

func TestPatientCreateKeepsProvidedFields(t *testing.T) {
	db := setupTestDB(t, "patient_provided", &Patient{})

	patient := Patient{
		Name:           "Jane",
		LastName:       "Doe",
		DOB:            "1958-04-12",
		CronicDiseases: datatypes.JSONMap{"diabetes": "type 2"},
	}
	assert.NoError(t, db.Create(&patient).Error)

	var stored Patient
	assert.NoError(t, db.First(&stored, patient.ID).Error)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "1958-04-12", stored.DOB)
	assert.Equal(t, "type 2", stored.CronicDiseases["diabetes"])
}

func TestDeletePatientCascadeRemovesDependents(t *testing.T) {
	db := setupTestDB(t, "patient_cascade", &Patient{}, &Wound{}, &WoundCare{})

	patient := Patient{Name: "Jane"}
	assert.NoError(t, db.Create(&patient).Error)

	wound := Wound{PatientID: patient.ID, WoundLocation: "left heel"}
	assert.NoError(t, db.Create(&wound).Error)
	other := Wound{PatientID: patient.ID, WoundLocation: "sacrum"}
	assert.NoError(t, db.Create(&other).Error)

	care := WoundCare{WoundID: wound.ID}
	assert.NoError(t, db.Create(&care).Error)

	assert.NoError(t, DeletePatientCascade(db, patient.ID))

	var patientCount, woundCount, careCount int64
	db.Model(&Patient{}).Count(&patientCount)
	db.Model(&Wound{}).Count(&woundCount)
	db.Model(&WoundCare{}).Count(&careCount)
	assert.Zero(t, patientCount)
	assert.Zero(t, woundCount)
	assert.Zero(t, careCount)
}

func TestDeletePatientCascadeUnknownID(t *testing.T) {
	db := setupTestDB(t, "patient_cascade_missing", &Patient{}, &Wound{}, &WoundCare{})

	err := DeletePatientCascade(db, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeletePatientCascadeLeavesOtherPatients(t *testing.T) {
	db := setupTestDB(t, "patient_cascade_isolated", &Patient{}, &Wound{}, &WoundCare{})

	doomed := Patient{Name: "A"}
	assert.NoError(t, db.Create(&doomed).Error)
	kept := Patient{Name: "B"}
	assert.NoError(t, db.Create(&kept).Error)

	keptWound := Wound{PatientID: kept.ID}
	assert.NoError(t, db.Create(&keptWound).Error)
	keptCare := WoundCare{WoundID: keptWound.ID}
	assert.NoError(t, db.Create(&keptCare).Error)

	assert.NoError(t, DeletePatientCascade(db, doomed.ID))

	var wound Wound
	assert.NoError(t, db.First(&wound, keptWound.ID).Error)
	var care WoundCare
	assert.NoError(t, db.First(&care, keptCare.ID).Error)
}

func TestPatientTimestampsRefreshOnUpdate(t *testing.T) {
	db := setupTestDB(t, "patient_timestamps", &Patient{})

	patient := Patient{Name: "Jane"}
	assert.NoError(t, db.Create(&patient).Error)

	created := patient.CreatedAt
	time.Sleep(10 * time.Millisecond)

	patient.Name = "Janet"
	assert.NoError(t, db.Save(&patient).Error)

	var stored Patient
	assert.NoError(t, db.First(&stored, patient.ID).Error)
	assert.Equal(t, created.Unix(), stored.CreatedAt.Unix())
	assert.True(t, stored.UpdatedAt.After(created))
}
