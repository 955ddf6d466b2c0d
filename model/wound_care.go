package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultExudateQuantity = "no exudate quantity"
	DefaultExudateQuality  = "no exudate quality"
	DefaultPrimaryDressing = "no primary dressing"
	DefaultCareNotes       = "no notes"
)

// WoundCare is a single timestamped clinical observation/treatment event for
// one wound. Tissue percentages are recorded as sent; the 0-100 range is
// implied but not enforced.
// @Description Wound care observation
type WoundCare struct {
	gorm.Model
	WoundID                uint              `json:"wound_id" gorm:"column:wound_id;not null;index" example:"1"`
	CareDate               string            `json:"care_date" gorm:"column:care_date;type:varchar(10)" example:"2025-01-15"`
	WoundHeigh             float64           `json:"wound_heigh" gorm:"column:wound_heigh" example:"2.5"`
	WoundWidth             float64           `json:"wound_width" gorm:"column:wound_width" example:"1.8"`
	WoundDepth             float64           `json:"wound_depth" gorm:"column:wound_depth" example:"0.4"`
	WoundNecroticTissue    float64           `json:"wound_necrotic_tissue" gorm:"column:wound_necrotic_tissue" example:"10"`
	WoundSloughedTissue    float64           `json:"wound_sloughed_tissue" gorm:"column:wound_sloughed_tissue" example:"20"`
	WoundGranulationTissue float64           `json:"wound_granulation_tissue" gorm:"column:wound_granulation_tissue" example:"70"`
	WoundExudateQuantity   string            `json:"wound_exudate_quantity" gorm:"column:wound_exudate_quantity;type:text" example:"moderate"`
	WoundExudateQuality    string            `json:"wound_exudate_quality" gorm:"column:wound_exudate_quality;type:text" example:"serous"`
	WoundDebridement       bool              `json:"wound_debridement" gorm:"column:wound_debridement;default:false" example:"false"`
	WoundPrimaryDressing   string            `json:"wound_primary_dressing" gorm:"column:wound_primary_dressing;type:text" example:"hydrocolloid"`
	WoundSecondaryDressing datatypes.JSONMap `json:"wound_secondary_dressing" gorm:"column:wound_secondary_dressing"`
	WoundNextCare          string            `json:"wound_next_care" gorm:"column:wound_next_care;type:varchar(10)" example:"2025-01-22"`
	WoundCareNotes         string            `json:"wound_care_notes" gorm:"column:wound_care_notes;type:text" example:"granulation improving"`
	WoundPhoto             string            `json:"wound_photo" gorm:"column:wound_photo;type:varchar(255)" example:"wound_photos/3f1a.jpg"`
}

func (wc *WoundCare) BeforeCreate(tx *gorm.DB) error {
	today := time.Now().Format(DateLayout)
	if wc.CareDate == "" {
		wc.CareDate = today
	}
	if wc.WoundNextCare == "" {
		wc.WoundNextCare = today
	}
	if wc.WoundExudateQuantity == "" {
		wc.WoundExudateQuantity = DefaultExudateQuantity
	}
	if wc.WoundExudateQuality == "" {
		wc.WoundExudateQuality = DefaultExudateQuality
	}
	if wc.WoundPrimaryDressing == "" {
		wc.WoundPrimaryDressing = DefaultPrimaryDressing
	}
	if wc.WoundCareNotes == "" {
		wc.WoundCareNotes = DefaultCareNotes
	}
	if wc.WoundSecondaryDressing == nil {
		wc.WoundSecondaryDressing = datatypes.JSONMap{}
	}
	return nil
}
