package endpoint

import (
	"fmt"

	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	woundCareSearchColumns  = []string{"wound_exudate_quality", "wound_care_notes"}
	woundCareOrderingFields = map[string]string{
		"care_date":       "care_date",
		"wound_next_care": "wound_next_care",
		"created_at":      "created_at",
	}
)

type createWoundCareRequest struct {
	WoundID                uint                   `json:"wound_id" binding:"required" example:"1"`
	CareDate               string                 `json:"care_date" example:"2025-01-15"`
	WoundHeigh             float64                `json:"wound_heigh" example:"2.5"`
	WoundWidth             float64                `json:"wound_width" example:"1.8"`
	WoundDepth             float64                `json:"wound_depth" example:"0.4"`
	WoundNecroticTissue    float64                `json:"wound_necrotic_tissue" example:"10"`
	WoundSloughedTissue    float64                `json:"wound_sloughed_tissue" example:"20"`
	WoundGranulationTissue float64                `json:"wound_granulation_tissue" example:"70"`
	WoundExudateQuantity   string                 `json:"wound_exudate_quantity" example:"moderate"`
	WoundExudateQuality    string                 `json:"wound_exudate_quality" example:"serous"`
	WoundDebridement       bool                   `json:"wound_debridement" example:"false"`
	WoundPrimaryDressing   string                 `json:"wound_primary_dressing" example:"hydrocolloid"`
	WoundSecondaryDressing map[string]interface{} `json:"wound_secondary_dressing"`
	WoundNextCare          string                 `json:"wound_next_care" example:"2025-01-22"`
	WoundCareNotes         string                 `json:"wound_care_notes" example:"granulation improving"`
	WoundPhoto             string                 `json:"wound_photo" example:"data:image/png;base64,iVBOR..."`
}

type updateWoundCareRequest struct {
	WoundID                *uint                   `json:"wound_id"`
	CareDate               *string                 `json:"care_date"`
	WoundHeigh             *float64                `json:"wound_heigh"`
	WoundWidth             *float64                `json:"wound_width"`
	WoundDepth             *float64                `json:"wound_depth"`
	WoundNecroticTissue    *float64                `json:"wound_necrotic_tissue"`
	WoundSloughedTissue    *float64                `json:"wound_sloughed_tissue"`
	WoundGranulationTissue *float64                `json:"wound_granulation_tissue"`
	WoundExudateQuantity   *string                 `json:"wound_exudate_quantity"`
	WoundExudateQuality    *string                 `json:"wound_exudate_quality"`
	WoundDebridement       *bool                   `json:"wound_debridement"`
	WoundPrimaryDressing   *string                 `json:"wound_primary_dressing"`
	WoundSecondaryDressing *map[string]interface{} `json:"wound_secondary_dressing"`
	WoundNextCare          *string                 `json:"wound_next_care"`
	WoundCareNotes         *string                 `json:"wound_care_notes"`
	WoundPhoto             *string                 `json:"wound_photo"`
}

func ensureWoundExists(c *gin.Context, db *gorm.DB, woundID uint) bool {
	var count int64
	if err := db.Model(&model.Wound{}).Where("id = ?", woundID).Count(&count).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate wound reference", Err: err})
		return false
	}
	if count == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid wound_id: wound %d does not exist", woundID),
			Err: fmt.Errorf("unknown wound reference"),
		})
		return false
	}
	return true
}

// ListWoundCares godoc
// @Summary      List all wound care observations
// @Description  Get the wound care list ordered by creation time, with optional search and ordering
// @Tags         WoundCare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive substring match on exudate quality or notes"
// @Param        ordering query string false "Sort field: care_date|wound_next_care|created_at, '-' prefix for descending"
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Success      200 {object} util.APIResponse{data=object} "Wound cares retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/wound_cares [get]
func ListWoundCares(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	q := parseListQuery(c)
	query := db.Model(&model.WoundCare{})
	query = applySearch(query, q.Search, woundCareSearchColumns)
	query = applyOrdering(query, q.Ordering, woundCareOrderingFields)
	query = applyPagination(query, q)

	var cares []model.WoundCare
	if err := query.Find(&cares).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve wound cares", Err: err})
		return
	}

	var total int64
	db.Model(&model.WoundCare{}).Count(&total)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Wound cares retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(cares), "wound_cares": cares},
	})
}

// GetWoundCareInfo godoc
// @Summary      Get a wound care observation
// @Tags         WoundCare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound care ID"
// @Success      200 {object} util.APIResponse{data=model.WoundCare} "Wound care retrieved"
// @Failure      404 {object} util.APIResponse "Wound care not found"
// @Router       /api/wound_cares/{id} [get]
func GetWoundCareInfo(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	care, ok := getWoundCareByID(c, db)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Wound care retrieved", Data: care})
}

// CreateWoundCare godoc
// @Summary      Record a wound care observation
// @Description  Register an observation referencing an existing wound; an optional photo arrives as a base64 data URI
// @Tags         WoundCare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createWoundCareRequest true "Wound care information"
// @Success      201 {object} util.APIResponse{data=model.WoundCare} "Wound care created"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown wound reference"
// @Router       /api/wound_cares [post]
func CreateWoundCare(c *gin.Context) {
	var req createWoundCareRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if !validateDateField(c, "care_date", req.CareDate) ||
		!validateDateField(c, "wound_next_care", req.WoundNextCare) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if !ensureWoundExists(c, db, req.WoundID) {
		return
	}

	photoPath, ok := resolveWoundPhoto(c, req.WoundPhoto)
	if !ok {
		return
	}

	care := model.WoundCare{
		WoundID:                req.WoundID,
		CareDate:               req.CareDate,
		WoundHeigh:             req.WoundHeigh,
		WoundWidth:             req.WoundWidth,
		WoundDepth:             req.WoundDepth,
		WoundNecroticTissue:    req.WoundNecroticTissue,
		WoundSloughedTissue:    req.WoundSloughedTissue,
		WoundGranulationTissue: req.WoundGranulationTissue,
		WoundExudateQuantity:   req.WoundExudateQuantity,
		WoundExudateQuality:    req.WoundExudateQuality,
		WoundDebridement:       req.WoundDebridement,
		WoundPrimaryDressing:   req.WoundPrimaryDressing,
		WoundSecondaryDressing: datatypes.JSONMap(req.WoundSecondaryDressing),
		WoundNextCare:          req.WoundNextCare,
		WoundCareNotes:         req.WoundCareNotes,
		WoundPhoto:             photoPath,
	}
	if err := db.Create(&care).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create wound care", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Wound care created", Data: care})
}

// ReplaceWoundCare godoc
// @Summary      Replace a wound care observation
// @Description  Full update: omitted fields are reset to their defaults
// @Tags         WoundCare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound care ID"
// @Param        request body updateWoundCareRequest true "Wound care information"
// @Success      200 {object} util.APIResponse{data=model.WoundCare} "Wound care updated"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown wound reference"
// @Failure      404 {object} util.APIResponse "Wound care not found"
// @Router       /api/wound_cares/{id} [put]
func ReplaceWoundCare(c *gin.Context) {
	updateWoundCare(c, false)
}

// UpdateWoundCare godoc
// @Summary      Update a wound care observation
// @Description  Partial update: only the provided fields change
// @Tags         WoundCare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound care ID"
// @Param        request body updateWoundCareRequest true "Updated wound care fields"
// @Success      200 {object} util.APIResponse{data=model.WoundCare} "Wound care updated"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown wound reference"
// @Failure      404 {object} util.APIResponse "Wound care not found"
// @Router       /api/wound_cares/{id} [patch]
func UpdateWoundCare(c *gin.Context) {
	updateWoundCare(c, true)
}

func updateWoundCare(c *gin.Context, partial bool) {
	var req updateWoundCareRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if req.CareDate != nil && !validateDateField(c, "care_date", *req.CareDate) {
		return
	}
	if req.WoundNextCare != nil && !validateDateField(c, "wound_next_care", *req.WoundNextCare) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	care, ok := getWoundCareByID(c, db)
	if !ok {
		return
	}

	if req.WoundID != nil {
		if !ensureWoundExists(c, db, *req.WoundID) {
			return
		}
		care.WoundID = *req.WoundID
	}

	if req.WoundPhoto != nil {
		photoPath, ok := resolveWoundPhoto(c, *req.WoundPhoto)
		if !ok {
			return
		}
		care.WoundPhoto = photoPath
	} else if !partial {
		care.WoundPhoto = ""
	}

	applyWoundCareUpdate(&care, &req, partial)

	if err := db.Save(&care).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update wound care", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Wound care updated", Data: care})
}

func applyWoundCareUpdate(care *model.WoundCare, req *updateWoundCareRequest, partial bool) {
	if req.CareDate != nil {
		care.CareDate = *req.CareDate
	}
	if req.WoundHeigh != nil {
		care.WoundHeigh = *req.WoundHeigh
	} else if !partial {
		care.WoundHeigh = 0
	}
	if req.WoundWidth != nil {
		care.WoundWidth = *req.WoundWidth
	} else if !partial {
		care.WoundWidth = 0
	}
	if req.WoundDepth != nil {
		care.WoundDepth = *req.WoundDepth
	} else if !partial {
		care.WoundDepth = 0
	}
	if req.WoundNecroticTissue != nil {
		care.WoundNecroticTissue = *req.WoundNecroticTissue
	} else if !partial {
		care.WoundNecroticTissue = 0
	}
	if req.WoundSloughedTissue != nil {
		care.WoundSloughedTissue = *req.WoundSloughedTissue
	} else if !partial {
		care.WoundSloughedTissue = 0
	}
	if req.WoundGranulationTissue != nil {
		care.WoundGranulationTissue = *req.WoundGranulationTissue
	} else if !partial {
		care.WoundGranulationTissue = 0
	}
	if req.WoundExudateQuantity != nil {
		care.WoundExudateQuantity = *req.WoundExudateQuantity
	} else if !partial {
		care.WoundExudateQuantity = model.DefaultExudateQuantity
	}
	if req.WoundExudateQuality != nil {
		care.WoundExudateQuality = *req.WoundExudateQuality
	} else if !partial {
		care.WoundExudateQuality = model.DefaultExudateQuality
	}
	if req.WoundDebridement != nil {
		care.WoundDebridement = *req.WoundDebridement
	} else if !partial {
		care.WoundDebridement = false
	}
	if req.WoundPrimaryDressing != nil {
		care.WoundPrimaryDressing = *req.WoundPrimaryDressing
	} else if !partial {
		care.WoundPrimaryDressing = model.DefaultPrimaryDressing
	}
	if req.WoundSecondaryDressing != nil {
		care.WoundSecondaryDressing = datatypes.JSONMap(*req.WoundSecondaryDressing)
	} else if !partial {
		care.WoundSecondaryDressing = datatypes.JSONMap{}
	}
	if req.WoundNextCare != nil {
		care.WoundNextCare = *req.WoundNextCare
	}
	if req.WoundCareNotes != nil {
		care.WoundCareNotes = *req.WoundCareNotes
	} else if !partial {
		care.WoundCareNotes = model.DefaultCareNotes
	}
}

// DeleteWoundCare godoc
// @Summary      Delete a wound care observation
// @Tags         WoundCare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Wound care ID"
// @Success      200 {object} util.APIResponse "Wound care deleted"
// @Failure      404 {object} util.APIResponse "Wound care not found"
// @Router       /api/wound_cares/{id} [delete]
func DeleteWoundCare(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	care, ok := getWoundCareByID(c, db)
	if !ok {
		return
	}

	if err := db.Delete(&care).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete wound care", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Wound care deleted"})
}

func getWoundCareByID(c *gin.Context, db *gorm.DB) (model.WoundCare, bool) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return model.WoundCare{}, false
	}

	var care model.WoundCare
	if err := db.First(&care, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Wound care not found", Err: err})
			return model.WoundCare{}, false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve wound care", Err: err})
		return model.WoundCare{}, false
	}

	return care, true
}
