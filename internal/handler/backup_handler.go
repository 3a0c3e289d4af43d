package handler

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
	"github.com/noah-isme/meal-reservation-api/pkg/storage"
)

type backupService interface {
	Run(ctx context.Context) (*dto.BackupResult, error)
	List() ([]storage.FileInfo, error)
	DatabasePath(ctx context.Context) (string, error)
}

// BackupHandler exposes manual snapshots and the database download.
type BackupHandler struct {
	service backupService
}

// NewBackupHandler constructs the handler.
func NewBackupHandler(service backupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// Run godoc
// @Summary Back up the database now
// @Tags Admin
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/backups [post]
func (h *BackupHandler) Run(c *gin.Context) {
	res, err := h.service.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// List godoc
// @Summary List stored backups
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	files, err := h.service.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil)
}

// DownloadDB godoc
// @Summary Download the live database file
// @Tags Admin
// @Produce application/octet-stream
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /admin/db/download [get]
func (h *BackupHandler) DownloadDB(c *gin.Context) {
	path, err := h.service.DatabasePath(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.FileAttachment(path, filepath.Base(path))
}
