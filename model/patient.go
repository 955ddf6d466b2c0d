package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Placeholder defaults applied when a create request omits the field.
// Kept verbatim from the clinical record format the mobile client expects.
const (
	DefaultPatientName     = "no name"
	DefaultPatientLastName = "no last name"
	DefaultPatientDOB      = "1900-01-01"
)

// Patient represents a patient identity and demographic record
// @Description Patient information
type Patient struct {
	gorm.Model
	Name            string            `json:"name" gorm:"column:name;type:varchar(100)" example:"Jane"`
	LastName        string            `json:"last_name" gorm:"column:last_name;type:varchar(100)" example:"Doe"`
	DOB             string            `json:"dob" gorm:"column:dob;type:varchar(10)" example:"1958-04-12"`
	CronicDiseases  datatypes.JSONMap `json:"cronic_diseases" gorm:"column:cronic_diseases"`
	Predispositions datatypes.JSONMap `json:"predispositions" gorm:"column:predispositions"`
}

// BeforeCreate fills placeholder defaults so creation never fails from
// omitted fields.
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.Name == "" {
		p.Name = DefaultPatientName
	}
	if p.LastName == "" {
		p.LastName = DefaultPatientLastName
	}
	if p.DOB == "" {
		p.DOB = DefaultPatientDOB
	}
	if p.CronicDiseases == nil {
		p.CronicDiseases = datatypes.JSONMap{}
	}
	if p.Predispositions == nil {
		p.Predispositions = datatypes.JSONMap{}
	}
	return nil
}

// DeletePatientCascade removes a patient together with all of its wounds and
// their wound cares in a single transaction. A partial cascade must never
// survive, so any failure rolls the whole delete back.
func DeletePatientCascade(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		patient := &Patient{}
		if err := tx.First(patient, id).Error; err != nil {
			return err
		}

		var woundIDs []uint
		if err := tx.Model(&Wound{}).Where("patient_id = ?", id).Pluck("id", &woundIDs).Error; err != nil {
			return err
		}
		if len(woundIDs) > 0 {
			if err := tx.Where("wound_id IN ?", woundIDs).Delete(&WoundCare{}).Error; err != nil {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&Wound{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(patient).Error
	})
}
