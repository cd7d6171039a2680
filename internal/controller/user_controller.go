package controller

import (
	"errors"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/service"
	"simtrain_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetUsers godoc
// @Summary List users
// @Description Paginated user listing with filters. Group admins only see their own organization.
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page, 1-based" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Param   role query string false "Filter by role"
// @Param   status query string false "active | inactive | disabled"
// @Param   search query string false "Name or email substring"
// @Param   organizationId query int false "Filter by organization (admin only)"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := service.UserFilter{
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}
	if raw := ctx.Query("organizationId"); raw != "" {
		filter.OrganizationID = util.MustParseUint(raw)
	}

	// Group admins are pinned to their own organization regardless of filter.
	if claims.Role == model.GroupAdmin {
		if claims.OrganizationID == 0 {
			util.Forbidden(ctx)
			return
		}
		filter.OrganizationID = claims.OrganizationID
	}

	users, total, err := c.UserService.GetUsers(page, pageSize, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"users":    users,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Role           string `json:"role" binding:"required,oneof=admin group_admin user"`
	OrganizationID *uint  `json:"organizationId"`
	Disabled       bool   `json:"disabled"`
}

// UpdateUser godoc
// @Summary Update a user
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Param   body body UpdateUserRequest true "New user state"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Invalid parameters"
// @Failure 404 {object} util.Response "User or organization not found"
// @Router /api/admin/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		Role:           model.UserRole(req.Role),
		OrganizationID: req.OrganizationID,
		Disabled:       req.Disabled,
	}
	user.ID = id

	if err := c.UserService.UpdateUser(user); err != nil {
		if errors.Is(err, util.ErrUserNotFound) || errors.Is(err, util.ErrOrganizationNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"id": id})
}

// ResetPassword godoc
// @Summary Reset a user's password
// @Description Issues a temporary password and returns it to the admin
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 404 {object} util.Response "User not found"
// @Router /api/admin/users/{id}/reset-password [post]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	tempPassword, err := c.UserService.ResetPassword(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"tempPassword": tempPassword})
}

// DisableUser godoc
// @Summary Disable or enable a user
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Param   disable query bool false "true to disable, false to enable" default(true)
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "User not found"
// @Router /api/admin/users/{id}/disable [post]
func (c *UserController) DisableUser(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	disable := ctx.DefaultQuery("disable", "true") == "true"

	if err := c.UserService.DisableUser(id, disable); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"id": id, "disabled": disable})
}
