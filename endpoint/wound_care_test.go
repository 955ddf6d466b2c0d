package endpoint_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Gabriel-Garrido/CuraMetric/endpoint"
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStorage captures saved blobs so tests can assert on the decoded
// payload without touching the filesystem.
type recordingStorage struct {
	saved [][]byte
	exts  []string
}

func (s *recordingStorage) SaveImage(ctx context.Context, data []byte, ext string) (string, error) {
	s.saved = append(s.saved, data)
	s.exts = append(s.exts, ext)
	return fmt.Sprintf("wound_photos/stored-%d%s", len(s.saved), ext), nil
}

func TestCreateWoundCareAppliesDefaults(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	body := map[string]interface{}{"wound_id": wound.ID}
	rr := doRequest(r, http.MethodPost, "/api/wound_cares", body, authHeader(token))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	today := time.Now().Format(model.DateLayout)
	data := parseDataToMap(t, parseResp(t, rr).Data)
	assert.Equal(t, today, data["care_date"])
	assert.Equal(t, today, data["wound_next_care"])
	assert.Equal(t, "no exudate quantity", data["wound_exudate_quantity"])
	assert.Equal(t, "no exudate quality", data["wound_exudate_quality"])
	assert.Equal(t, "no primary dressing", data["wound_primary_dressing"])
	assert.Equal(t, "no notes", data["wound_care_notes"])
	assert.Equal(t, map[string]interface{}{}, data["wound_secondary_dressing"])
}

func TestCreateWoundCareRejectsUnknownWound(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)

	body := map[string]interface{}{"wound_id": 9999}
	rr := doRequest(r, http.MethodPost, "/api/wound_cares", body, authHeader(token))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Contains(t, parseResp(t, rr).Msg, "wound_id")
	assert.Equal(t, int64(0), countRows(t, db, &model.WoundCare{}))
}

func TestCreateWoundCareRejectsMalformedDate(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	body := map[string]interface{}{"wound_id": wound.ID, "care_date": "15/01/2025"}
	rr := doRequest(r, http.MethodPost, "/api/wound_cares", body, authHeader(token))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Contains(t, parseResp(t, rr).Msg, "care_date")
	assert.Equal(t, int64(0), countRows(t, db, &model.WoundCare{}))
}

func TestCreateWoundCareStoresPhotoDataURI(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	store := &recordingStorage{}
	endpoint.SetMediaStorage(store)
	defer endpoint.SetMediaStorage(nil)

	body := map[string]interface{}{
		"wound_id":    wound.ID,
		"wound_photo": "data:image/png;base64,aGVsbG8gd291bmQ=",
	}
	rr := doRequest(r, http.MethodPost, "/api/wound_cares", body, authHeader(token))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	data := parseDataToMap(t, parseResp(t, rr).Data)
	assert.Equal(t, "wound_photos/stored-1.png", data["wound_photo"])

	require.Len(t, store.saved, 1)
	assert.Equal(t, []byte("hello wound"), store.saved[0])
	assert.Equal(t, ".png", store.exts[0])
}

func TestCreateWoundCareRejectsBadPhotoPayload(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	store := &recordingStorage{}
	endpoint.SetMediaStorage(store)
	defer endpoint.SetMediaStorage(nil)

	body := map[string]interface{}{
		"wound_id":    wound.ID,
		"wound_photo": "data:image/png;base64,!!!not-base64!!!",
	}
	rr := doRequest(r, http.MethodPost, "/api/wound_cares", body, authHeader(token))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Contains(t, parseResp(t, rr).Msg, "wound_photo")
	assert.Empty(t, store.saved)
	assert.Equal(t, int64(0), countRows(t, db, &model.WoundCare{}))
}

func TestCreateWoundCareKeepsStoredPhotoPath(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	// Already-stored paths pass through without touching the media backend.
	body := map[string]interface{}{
		"wound_id":    wound.ID,
		"wound_photo": "wound_photos/existing.jpg",
	}
	rr := doRequest(r, http.MethodPost, "/api/wound_cares", body, authHeader(token))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	data := parseDataToMap(t, parseResp(t, rr).Data)
	assert.Equal(t, "wound_photos/existing.jpg", data["wound_photo"])
}

func TestUpdateWoundCarePartialKeepsMeasurements(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	care := model.WoundCare{WoundID: wound.ID, WoundHeigh: 2.5, WoundWidth: 1.8}
	require.NoError(t, db.Create(&care).Error)

	body := map[string]interface{}{"wound_care_notes": "healing well"}
	rr := doRequest(r, http.MethodPatch, fmt.Sprintf("/api/wound_cares/%d", care.ID), body, authHeader(token))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	data := parseDataToMap(t, parseResp(t, rr).Data)
	assert.Equal(t, "healing well", data["wound_care_notes"])
	assert.Equal(t, 2.5, data["wound_heigh"])
	assert.Equal(t, 1.8, data["wound_width"])
}

func TestReplaceWoundCareResetsOmittedFields(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")

	care := model.WoundCare{WoundID: wound.ID, WoundHeigh: 2.5, WoundCareNotes: "initial"}
	require.NoError(t, db.Create(&care).Error)

	body := map[string]interface{}{"wound_debridement": true}
	rr := doRequest(r, http.MethodPut, fmt.Sprintf("/api/wound_cares/%d", care.ID), body, authHeader(token))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	data := parseDataToMap(t, parseResp(t, rr).Data)
	assert.Equal(t, true, data["wound_debridement"])
	assert.Equal(t, float64(0), data["wound_heigh"])
	assert.Equal(t, "no notes", data["wound_care_notes"])
}

func TestDeleteWoundCareLeavesWound(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)
	patient := seedPatient(t, db, "Jane", "Doe")
	wound := seedWound(t, db, patient.ID, "left heel")
	care := seedWoundCare(t, db, wound.ID)

	rr := doRequest(r, http.MethodDelete, fmt.Sprintf("/api/wound_cares/%d", care.ID), nil, authHeader(token))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, int64(0), countRows(t, db, &model.WoundCare{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.Wound{}))
}

func TestGetWoundCareNotFound(t *testing.T) {
	r, db := setupTestServer(t)
	_, token := seedUserWithToken(t, db)

	rr := doRequest(r, http.MethodGet, "/api/wound_cares/9999", nil, authHeader(token))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
