package endpoint

import (
	"fmt"

	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	woundSearchColumns  = []string{"wound_location", "wound_origin"}
	woundOrderingFields = map[string]string{
		"wound_location":    "wound_location",
		"wound_origin_date": "wound_origin_date",
		"created_at":        "created_at",
	}
)

type createWoundRequest struct {
	PatientID       uint   `json:"patient_id" binding:"required" example:"1"`
	WoundLocation   string `json:"wound_location" example:"left heel"`
	WoundOrigin     string `json:"wound_origin" example:"pressure ulcer"`
	WoundOriginDate string `json:"wound_origin_date" example:"2024-11-02"`
}

type updateWoundRequest struct {
	PatientID       *uint   `json:"patient_id"`
	WoundLocation   *string `json:"wound_location"`
	WoundOrigin     *string `json:"wound_origin"`
	WoundOriginDate *string `json:"wound_origin_date"`
}

// ensurePatientExists validates a wound's owner reference, responding with a
// validation error naming the bad reference.
func ensurePatientExists(c *gin.Context, db *gorm.DB, patientID uint) bool {
	var count int64
	if err := db.Model(&model.Patient{}).Where("id = ?", patientID).Count(&count).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate patient reference", Err: err})
		return false
	}
	if count == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid patient_id: patient %d does not exist", patientID),
			Err: fmt.Errorf("unknown patient reference"),
		})
		return false
	}
	return true
}

// ListWounds godoc
// @Summary      List all wounds
// @Description  Get the wound list ordered by creation time, with optional search and ordering
// @Tags         Wound
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive substring match on location or origin"
// @Param        ordering query string false "Sort field: wound_location|wound_origin_date|created_at, '-' prefix for descending"
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Success      200 {object} util.APIResponse{data=object} "Wounds retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/wounds [get]
func ListWounds(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	q := parseListQuery(c)
	query := db.Model(&model.Wound{})
	query = applySearch(query, q.Search, woundSearchColumns)
	query = applyOrdering(query, q.Ordering, woundOrderingFields)
	query = applyPagination(query, q)

	var wounds []model.Wound
	if err := query.Find(&wounds).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve wounds", Err: err})
		return
	}

	var total int64
	db.Model(&model.Wound{}).Count(&total)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Wounds retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(wounds), "wounds": wounds},
	})
}

// GetWoundInfo godoc
// @Summary      Get wound information
// @Tags         Wound
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound ID"
// @Success      200 {object} util.APIResponse{data=model.Wound} "Wound retrieved"
// @Failure      404 {object} util.APIResponse "Wound not found"
// @Router       /api/wounds/{id} [get]
func GetWoundInfo(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	wound, ok := getWoundByID(c, db)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Wound retrieved", Data: wound})
}

// CreateWound godoc
// @Summary      Create a new wound
// @Description  Register a wound referencing an existing patient
// @Tags         Wound
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createWoundRequest true "Wound information"
// @Success      201 {object} util.APIResponse{data=model.Wound} "Wound created"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown patient reference"
// @Router       /api/wounds [post]
func CreateWound(c *gin.Context) {
	var req createWoundRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if !validateDateField(c, "wound_origin_date", req.WoundOriginDate) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if !ensurePatientExists(c, db, req.PatientID) {
		return
	}

	wound := model.Wound{
		PatientID:       req.PatientID,
		WoundLocation:   req.WoundLocation,
		WoundOrigin:     req.WoundOrigin,
		WoundOriginDate: req.WoundOriginDate,
	}
	if err := db.Create(&wound).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create wound", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Wound created", Data: wound})
}

// ReplaceWound godoc
// @Summary      Replace wound information
// @Description  Full update: omitted fields are reset to their defaults
// @Tags         Wound
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound ID"
// @Param        request body updateWoundRequest true "Wound information"
// @Success      200 {object} util.APIResponse{data=model.Wound} "Wound updated"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown patient reference"
// @Failure      404 {object} util.APIResponse "Wound not found"
// @Router       /api/wounds/{id} [put]
func ReplaceWound(c *gin.Context) {
	updateWound(c, false)
}

// UpdateWound godoc
// @Summary      Update wound information
// @Description  Partial update: only the provided fields change
// @Tags         Wound
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound ID"
// @Param        request body updateWoundRequest true "Updated wound fields"
// @Success      200 {object} util.APIResponse{data=model.Wound} "Wound updated"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown patient reference"
// @Failure      404 {object} util.APIResponse "Wound not found"
// @Router       /api/wounds/{id} [patch]
func UpdateWound(c *gin.Context) {
	updateWound(c, true)
}

func updateWound(c *gin.Context, partial bool) {
	var req updateWoundRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if req.WoundOriginDate != nil && !validateDateField(c, "wound_origin_date", *req.WoundOriginDate) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	wound, ok := getWoundByID(c, db)
	if !ok {
		return
	}

	// Owner reference may be re-pointed, but only at an existing patient.
	if req.PatientID != nil {
		if !ensurePatientExists(c, db, *req.PatientID) {
			return
		}
		wound.PatientID = *req.PatientID
	}
	if req.WoundLocation != nil {
		wound.WoundLocation = *req.WoundLocation
	} else if !partial {
		wound.WoundLocation = model.DefaultWoundLocation
	}
	if req.WoundOrigin != nil {
		wound.WoundOrigin = *req.WoundOrigin
	} else if !partial {
		wound.WoundOrigin = model.DefaultWoundOrigin
	}
	if req.WoundOriginDate != nil {
		wound.WoundOriginDate = *req.WoundOriginDate
	}

	if err := db.Save(&wound).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update wound", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Wound updated", Data: wound})
}

// DeleteWound godoc
// @Summary      Delete a wound
// @Description  Delete a wound and cascade to all of its wound cares
// @Tags         Wound
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound ID"
// @Success      200 {object} util.APIResponse "Wound deleted"
// @Failure      404 {object} util.APIResponse "Wound not found"
// @Router       /api/wounds/{id} [delete]
func DeleteWound(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if err := model.DeleteWoundCascade(db, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Wound not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete wound", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Wound deleted"})
}

func getWoundByID(c *gin.Context, db *gorm.DB) (model.Wound, bool) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return model.Wound{}, false
	}

	var wound model.Wound
	if err := db.First(&wound, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Wound not found", Err: err})
			return model.Wound{}, false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve wound", Err: err})
		return model.Wound{}, false
	}

	return wound, true
}
