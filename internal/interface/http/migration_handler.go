package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-user-warehouse/internal/application"
	"go-user-warehouse/internal/domain/repository"
	"go-user-warehouse/pkg/response"
)

type MigrationHandler struct {
	Svc    *application.MigrationService
	Logger *logrus.Logger
}

func NewMigrationHandler(svc *application.MigrationService, logger *logrus.Logger) *MigrationHandler {
	return &MigrationHandler{Svc: svc, Logger: logger}
}

func (h *MigrationHandler) Status(c *gin.Context) {
	status, err := h.Svc.Status(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("migration status failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to read migration status", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, status, "migration status", nil)
	c.JSON(resp.Status, resp)
}

func (h *MigrationHandler) Records(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	rows, err := h.Svc.Sample(c.Request.Context(), limit)
	if err != nil {
		h.Logger.WithError(err).Error("warehouse sample failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to read migrated records", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, rows, "migrated records", map[string]any{"count": len(rows)})
	c.JSON(resp.Status, resp)
}

func (h *MigrationHandler) Bulk(c *gin.Context) {
	result, err := h.Svc.MigrateAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, application.ErrNoUsers) {
			resp := response.Error[any](c, http.StatusOK, "no users found in record store", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("bulk migration failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "bulk migration failed", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, result, "bulk migration completed", nil)
	c.JSON(resp.Status, resp)
}

func (h *MigrationHandler) MigrateUser(c *gin.Context) {
	err := h.Svc.MigrateOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
			c.JSON(resp.Status, resp)
		case errors.Is(err, application.ErrMigrationFailed):
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to migrate user", nil)
			c.JSON(resp.Status, resp)
		default:
			h.Logger.WithError(err).Error("single user migration failed")
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to migrate user", nil)
			c.JSON(resp.Status, resp)
		}
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"migrated": true}, "user migrated successfully", nil)
	c.JSON(resp.Status, resp)
}
