package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

// bindJSON decodes the request body and writes a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// requireRange reads start and end, writing a 400 when either is missing.
func requireRange(c *gin.Context) (string, string, bool) {
	start, end := strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end"))
	if start == "" || end == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start and end are required"))
		return "", "", false
	}
	return start, end, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func logFilterFromQuery(c *gin.Context) models.LogFilter {
	filter := models.LogFilter{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
		Name:  strings.TrimSpace(c.Query("name")),
		Dept:  strings.TrimSpace(c.Query("dept")),
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		if t, ok := models.ParseAffiliation(raw); ok {
			filter.Type = t
		} else {
			filter.Type = models.Affiliation(raw)
		}
	}
	return filter
}

func message(text string) gin.H {
	return gin.H{"message": text}
}
