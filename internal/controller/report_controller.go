package controller

import (
	"errors"
	"fmt"
	"net/http"
	"simtrain_backend/internal/config"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/service"
	"simtrain_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
	Cfg           *config.Config
}

func NewReportController(reportService *service.ReportService, cfg *config.Config) *ReportController {
	return &ReportController{
		ReportService: reportService,
		Cfg:           cfg,
	}
}

// GetMyReport godoc
// @Summary Own performance report
// @Description JSON returns the report data; xlsx and pdf return a file download
// @Tags reports
// @Produce  json
// @Security ApiKeyAuth
// @Param   format query string false "json | xlsx | pdf" default(json)
// @Success 200 {object} util.Response{data=service.UserReportData} "Success (json format)"
// @Failure 400 {object} util.Response "Unknown format"
// @Failure 500 {object} util.Response "Report generation failed"
// @Router /api/reports/me [get]
func (c *ReportController) GetMyReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	c.serveUserReport(ctx, claims.UserID)
}

// GetUserReport godoc
// @Summary Performance report for any user
// @Description Admins may request anyone; group admins only members of their own organization
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Param   format query string false "json | xlsx | pdf" default(json)
// @Success 200 {object} util.Response{data=service.UserReportData} "Success (json format)"
// @Failure 400 {object} util.Response "Unknown format"
// @Failure 403 {object} util.Response "Outside caller's organization"
// @Failure 404 {object} util.Response "User not found"
// @Router /api/admin/reports/users/{id} [get]
func (c *ReportController) GetUserReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	userID := util.MustParseUint(ctx.Param("id"))
	if userID == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	if claims.Role == model.GroupAdmin {
		target, err := c.ReportService.UserRepo.FindByID(userID)
		if err != nil {
			util.NotFound(ctx)
			return
		}
		if target.OrganizationID == nil || *target.OrganizationID != claims.OrganizationID {
			util.Forbidden(ctx)
			return
		}
	}

	c.serveUserReport(ctx, userID)
}

// GetOrganizationReport godoc
// @Summary Organization performance report
// @Description Aggregated member statistics; the window query bounds the recent-activity period
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Organization ID"
// @Param   format query string false "json | xlsx | pdf" default(json)
// @Param   window query int false "Activity window in days" default(30)
// @Success 200 {object} util.Response{data=service.OrgReportData} "Success (json format)"
// @Failure 400 {object} util.Response "Unknown format or window"
// @Failure 403 {object} util.Response "Not the caller's organization"
// @Failure 404 {object} util.Response "Organization not found"
// @Router /api/admin/reports/organizations/{id} [get]
func (c *ReportController) GetOrganizationReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	orgID := util.MustParseUint(ctx.Param("id"))
	if orgID == 0 {
		util.BadRequest(ctx, "invalid organization id")
		return
	}

	if claims.Role == model.GroupAdmin && claims.OrganizationID != orgID {
		util.Forbidden(ctx)
		return
	}

	windowDays := c.Cfg.Reports.OrgWindowDays
	if raw := ctx.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			util.BadRequest(ctx, "invalid window, expected 1-365 days")
			return
		}
		windowDays = parsed
	}

	format := ctx.DefaultQuery("format", util.FormatJSON)
	file, data, err := c.ReportService.GenerateOrganizationReport(orgID, windowDays, format)
	if err != nil {
		c.writeReportError(ctx, err)
		return
	}

	if file == nil {
		util.Success(ctx, data)
		return
	}
	serveFile(ctx, file)
}

func (c *ReportController) serveUserReport(ctx *gin.Context, userID uint) {
	format := ctx.DefaultQuery("format", util.FormatJSON)

	file, data, err := c.ReportService.GenerateUserReport(userID, format)
	if err != nil {
		c.writeReportError(ctx, err)
		return
	}

	if file == nil {
		util.Success(ctx, data)
		return
	}
	serveFile(ctx, file)
}

func (c *ReportController) writeReportError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidFormat):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrOrganizationNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

func serveFile(ctx *gin.Context, file *service.ReportFile) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
