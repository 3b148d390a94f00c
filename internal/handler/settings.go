package handler

import (
	"net/http"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"
	"tillpoint/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SettingsHandler struct {
	svc    service.SettingsService
	backup *worker.BackupWorker
}

func NewSettingsHandler(svc service.SettingsService, backup *worker.BackupWorker) *SettingsHandler {
	return &SettingsHandler{svc: svc, backup: backup}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Settings(c.Request.Context()))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) GetDarkMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.svc.DarkMode(c.Request.Context())})
}

func (h *SettingsHandler) SetDarkMode(c *gin.Context) {
	var req dto.DarkModeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetDarkMode(c.Request.Context(), *req.Enabled); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

func (h *SettingsHandler) GetExternalServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ExternalServices(c.Request.Context()))
}

func (h *SettingsHandler) UpdateExternalServices(c *gin.Context) {
	var req dto.ExternalServicesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateExternalServices(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) GetCloudBackup(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CloudBackup(c.Request.Context()))
}

// RunBackup triggers a synchronous backup so the operator gets an immediate
// success or failure instead of a fire-and-forget job.
func (h *SettingsHandler) RunBackup(c *gin.Context) {
	if err := h.backup.Run(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("manual backup failed")
		c.JSON(http.StatusBadGateway, apierror.New("Backup failed: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.svc.CloudBackup(c.Request.Context()))
}
