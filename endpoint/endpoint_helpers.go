package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gabriel-Garrido/CuraMetric/middleware"
	"github.com/Gabriel-Garrido/CuraMetric/storage"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// mediaStorage is the backend for wound photo uploads, set during startup.
var mediaStorage storage.Storage

// SetMediaStorage installs the media backend used by wound care endpoints.
func SetMediaStorage(s storage.Storage) {
	mediaStorage = s
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// parseIDParam parses the "id" path parameter into a uint and returns an error if invalid.
func parseIDParam(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("id must be a valid integer")
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer")
	}
	return uint(id), nil
}

// listQuery carries the common list parameters shared by every collection.
type listQuery struct {
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

func parseListQuery(c *gin.Context) listQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return listQuery{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    limit,
		Offset:   offset,
	}
}

// applyOrdering sorts by a whitelisted field; a "-" prefix selects
// descending order. Unknown or empty fields fall back to ascending
// creation time, the default collection order.
func applyOrdering(query *gorm.DB, ordering string, allowed map[string]string) *gorm.DB {
	dir := "ASC"
	field := ordering
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	if column, ok := allowed[field]; ok {
		return query.Order(fmt.Sprintf("%s %s", column, dir))
	}
	return query.Order("created_at ASC")
}

// applySearch filters rows whose whitelisted columns contain the keyword,
// case-insensitively.
func applySearch(query *gorm.DB, search string, columns []string) *gorm.DB {
	if search == "" {
		return query
	}
	kw := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, kw)
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

func applyPagination(query *gorm.DB, q listQuery) *gorm.DB {
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	return query
}

// validateDateField rejects present-but-malformed dates, naming the field.
func validateDateField(c *gin.Context, field, value string) bool {
	if value == "" || util.IsValidDate(value) {
		return true
	}
	util.CallUserError(c, util.APIErrorParams{
		Msg: fmt.Sprintf("Invalid date for field %s, expected YYYY-MM-DD", field),
		Err: fmt.Errorf("malformed %s", field),
	})
	return false
}

// resolveWoundPhoto turns an inbound photo payload into a stored object
// path. Data URIs are decoded and persisted through the media backend; any
// other non-empty value is assumed to be an already-stored path and kept
// as-is.
func resolveWoundPhoto(c *gin.Context, payload string) (string, bool) {
	if payload == "" || !strings.HasPrefix(payload, "data:") {
		return payload, true
	}

	if mediaStorage == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Media storage not configured",
			Err: fmt.Errorf("media storage is nil"),
		})
		return "", false
	}

	data, ext, err := storage.DecodeBase64Image(payload)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid image payload for field wound_photo",
			Err: err,
		})
		return "", false
	}

	path, err := mediaStorage.SaveImage(c.Request.Context(), data, ext)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store wound photo", Err: err})
		return "", false
	}
	return path, true
}
