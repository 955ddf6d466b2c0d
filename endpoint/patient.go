package endpoint

import (
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// patientSearchColumns and patientOrderingFields whitelist what the list
// endpoint may search and sort on.
var (
	patientSearchColumns  = []string{"name", "last_name"}
	patientOrderingFields = map[string]string{
		"name":       "name",
		"last_name":  "last_name",
		"dob":        "dob",
		"created_at": "created_at",
	}
)

type createPatientRequest struct {
	Name            string                 `json:"name" example:"Jane"`
	LastName        string                 `json:"last_name" example:"Doe"`
	DOB             string                 `json:"dob" example:"1958-04-12"`
	CronicDiseases  map[string]interface{} `json:"cronic_diseases"`
	Predispositions map[string]interface{} `json:"predispositions"`
}

type updatePatientRequest struct {
	Name            *string                 `json:"name"`
	LastName        *string                 `json:"last_name"`
	DOB             *string                 `json:"dob"`
	CronicDiseases  *map[string]interface{} `json:"cronic_diseases"`
	Predispositions *map[string]interface{} `json:"predispositions"`
}

// ListPatients godoc
// @Summary      List all patients
// @Description  Get the patient list ordered by creation time, with optional search and ordering
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive substring match on name or last name"
// @Param        ordering query string false "Sort field: name|last_name|dob|created_at, '-' prefix for descending"
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Success      200 {object} util.APIResponse{data=object} "Patients retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients [get]
func ListPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	q := parseListQuery(c)
	query := db.Model(&model.Patient{})
	query = applySearch(query, q.Search, patientSearchColumns)
	query = applyOrdering(query, q.Ordering, patientOrderingFields)
	query = applyPagination(query, q)

	var patients []model.Patient
	if err := query.Find(&patients).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patients", Err: err})
		return
	}

	var total int64
	db.Model(&model.Patient{}).Count(&total)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patients retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(patients), "patients": patients},
	})
}

// GetPatientInfo godoc
// @Summary      Get patient information
// @Description  Get detailed information about a specific patient
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [get]
func GetPatientInfo(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getPatientByID(c, db)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: patient})
}

// CreatePatient godoc
// @Summary      Create a new patient
// @Description  Register a patient record; omitted fields receive placeholder defaults
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createPatientRequest true "Patient information"
// @Success      201 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Router       /api/patients [post]
func CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if !validateDateField(c, "dob", req.DOB) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient := model.Patient{
		Name:            util.NormalizeName(req.Name),
		LastName:        util.NormalizeName(req.LastName),
		DOB:             req.DOB,
		CronicDiseases:  datatypes.JSONMap(req.CronicDiseases),
		Predispositions: datatypes.JSONMap(req.Predispositions),
	}
	if err := db.Create(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create patient", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Patient created", Data: patient})
}

// ReplacePatient godoc
// @Summary      Replace patient information
// @Description  Full update: omitted fields are reset to their defaults
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Patient ID"
// @Param        request body updatePatientRequest true "Patient information"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [put]
func ReplacePatient(c *gin.Context) {
	updatePatient(c, false)
}

// UpdatePatient godoc
// @Summary      Update patient information
// @Description  Partial update: only the provided fields change
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Patient ID"
// @Param        request body updatePatientRequest true "Updated patient fields"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [patch]
func UpdatePatient(c *gin.Context) {
	updatePatient(c, true)
}

func updatePatient(c *gin.Context, partial bool) {
	var req updatePatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if req.DOB != nil && !validateDateField(c, "dob", *req.DOB) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getPatientByID(c, db)
	if !ok {
		return
	}

	applyPatientUpdate(&patient, &req, partial)

	if err := db.Save(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient updated", Data: patient})
}

// applyPatientUpdate merges request fields into the record. On a full
// update absent fields fall back to the declared defaults instead of
// failing.
func applyPatientUpdate(patient *model.Patient, req *updatePatientRequest, partial bool) {
	if req.Name != nil {
		patient.Name = util.NormalizeName(*req.Name)
	} else if !partial {
		patient.Name = model.DefaultPatientName
	}
	if req.LastName != nil {
		patient.LastName = util.NormalizeName(*req.LastName)
	} else if !partial {
		patient.LastName = model.DefaultPatientLastName
	}
	if req.DOB != nil {
		patient.DOB = *req.DOB
	} else if !partial {
		patient.DOB = model.DefaultPatientDOB
	}
	if req.CronicDiseases != nil {
		patient.CronicDiseases = datatypes.JSONMap(*req.CronicDiseases)
	} else if !partial {
		patient.CronicDiseases = datatypes.JSONMap{}
	}
	if req.Predispositions != nil {
		patient.Predispositions = datatypes.JSONMap(*req.Predispositions)
	} else if !partial {
		patient.Predispositions = datatypes.JSONMap{}
	}
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Description  Delete a patient and cascade to all owned wounds and wound cares
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse "Patient deleted"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if err := model.DeletePatientCascade(db, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient deleted"})
}

func getPatientByID(c *gin.Context, db *gorm.DB) (model.Patient, bool) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return model.Patient{}, false
	}

	var patient model.Patient
	if err := db.First(&patient, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
			return model.Patient{}, false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patient", Err: err})
		return model.Patient{}, false
	}

	return patient, true
}
