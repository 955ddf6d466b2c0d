package endpoint_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gabriel-Garrido/CuraMetric/endpoint"
	"github.com/Gabriel-Garrido/CuraMetric/middleware"
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// apiResp mirrors util.APIResponse with a raw Data field so each test can
// decode it into whatever shape it expects.
type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// setupTestServer opens an in-memory SQLite database, migrates the full
// schema, and returns a router wired exactly like the production one: auth
// routes public, resource routes behind AuthRequired.
func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:endpointdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Patient{}, &model.Wound{}, &model.WoundCare{}, &model.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	// Each test gets a fresh database, so cached user ids from earlier
	// tests must not leak into this one.
	middleware.FlushUserCache()

	r := gin.New()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.DatabaseMiddleware(db))

	auth := r.Group("/auth")
	{
		auth.POST("/registration", endpoint.Register)
		auth.POST("/login", endpoint.Login)
		auth.POST("/logout", endpoint.Logout)
		auth.POST("/token/refresh", endpoint.RefreshToken)
		auth.POST("/google", endpoint.GoogleAuth)
	}

	api := r.Group("/api", middleware.AuthRequired())
	{
		api.GET("/patients", endpoint.ListPatients)
		api.POST("/patients", endpoint.CreatePatient)
		api.GET("/patients/:id", endpoint.GetPatientInfo)
		api.PUT("/patients/:id", endpoint.ReplacePatient)
		api.PATCH("/patients/:id", endpoint.UpdatePatient)
		api.DELETE("/patients/:id", endpoint.DeletePatient)

		api.GET("/wounds", endpoint.ListWounds)
		api.POST("/wounds", endpoint.CreateWound)
		api.GET("/wounds/:id", endpoint.GetWoundInfo)
		api.PUT("/wounds/:id", endpoint.ReplaceWound)
		api.PATCH("/wounds/:id", endpoint.UpdateWound)
		api.DELETE("/wounds/:id", endpoint.DeleteWound)

		api.GET("/wound_cares", endpoint.ListWoundCares)
		api.POST("/wound_cares", endpoint.CreateWoundCare)
		api.GET("/wound_cares/:id", endpoint.GetWoundCareInfo)
		api.PUT("/wound_cares/:id", endpoint.ReplaceWoundCare)
		api.PATCH("/wound_cares/:id", endpoint.UpdateWoundCare)
		api.DELETE("/wound_cares/:id", endpoint.DeleteWoundCare)
	}

	return r, db
}

// doRequest performs an HTTP request against the test router. A nil body
// sends an empty request; anything else is marshalled to JSON.
func doRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, _ := json.Marshal(v)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// parseResp decodes a standard API response; it fails the test on a body
// that is not the shared envelope.
func parseResp(t *testing.T, rr *httptest.ResponseRecorder) apiResp {
	t.Helper()
	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v; body: %s", err, rr.Body.String())
	}
	return resp
}

// parseDataToMap unmarshals an API response Data field into a generic map.
func parseDataToMap(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("parse data failed: %v", err)
	}
	return data
}

// seedUserWithToken inserts an account and mints a valid access token for
// it, the credential every protected-route test presents.
func seedUserWithToken(t *testing.T, db *gorm.DB) (model.User, string) {
	t.Helper()
	salt, err := util.GenerateSalt()
	if err != nil {
		t.Fatalf("failed to generate salt: %v", err)
	}
	hashed, err := util.HashPasswordArgon2("password123", salt)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := model.User{
		Username:     "nurse1",
		Email:        "nurse@example.com",
		Password:     hashed,
		PasswordSalt: salt,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	pair, err := util.IssueTokenPair(&user)
	if err != nil {
		t.Fatalf("failed to issue token pair: %v", err)
	}
	return user, pair.Access
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func seedPatient(t *testing.T, db *gorm.DB, name, lastName string) model.Patient {
	t.Helper()
	patient := model.Patient{Name: name, LastName: lastName, DOB: "1958-04-12"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	return patient
}

func seedWound(t *testing.T, db *gorm.DB, patientID uint, location string) model.Wound {
	t.Helper()
	wound := model.Wound{PatientID: patientID, WoundLocation: location, WoundOrigin: "pressure ulcer", WoundOriginDate: "2024-11-02"}
	if err := db.Create(&wound).Error; err != nil {
		t.Fatalf("failed to seed wound: %v", err)
	}
	return wound
}

func seedWoundCare(t *testing.T, db *gorm.DB, woundID uint) model.WoundCare {
	t.Helper()
	care := model.WoundCare{WoundID: woundID, CareDate: "2025-01-15", WoundCareNotes: "granulation improving"}
	if err := db.Create(&care).Error; err != nil {
		t.Fatalf("failed to seed wound care: %v", err)
	}
	return care
}

// countRows counts the rows of one model, the quickest way to assert a
// failed create left no state behind.
func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
