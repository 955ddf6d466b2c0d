package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultWoundLocation = "no wound location"
	DefaultWoundOrigin   = "no wound cause"
)

// DateLayout is the wire and storage format for all clinical dates.
const DateLayout = "2006-01-02"

// Wound represents a wound instance belonging to exactly one patient
// @Description Wound information
type Wound struct {
	gorm.Model
	PatientID       uint   `json:"patient_id" gorm:"column:patient_id;not null;index" example:"1"`
	WoundLocation   string `json:"wound_location" gorm:"column:wound_location;type:varchar(100)" example:"left heel"`
	WoundOrigin     string `json:"wound_origin" gorm:"column:wound_origin;type:varchar(100)" example:"pressure ulcer"`
	WoundOriginDate string `json:"wound_origin_date" gorm:"column:wound_origin_date;type:varchar(10)" example:"2024-11-02"`
}

func (w *Wound) BeforeCreate(tx *gorm.DB) error {
	if w.WoundLocation == "" {
		w.WoundLocation = DefaultWoundLocation
	}
	if w.WoundOrigin == "" {
		w.WoundOrigin = DefaultWoundOrigin
	}
	if w.WoundOriginDate == "" {
		w.WoundOriginDate = time.Now().Format(DateLayout)
	}
	return nil
}

// DeleteWoundCascade removes a wound and all of its wound cares in a single
// transaction.
func DeleteWoundCascade(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		wound := &Wound{}
		if err := tx.First(wound, id).Error; err != nil {
			return err
		}
		if err := tx.Where("wound_id = ?", id).Delete(&WoundCare{}).Error; err != nil {
			return err
		}
		return tx.Delete(wound).Error
	})
}
