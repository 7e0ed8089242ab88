package controller

import (
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type UpdateRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

type SetDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// @Summary 用户列表
// @Tags 管理-用户
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "角色"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	users, total, err := c.UserService.List(ctx.Request.Context(), ctx.Query("role"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// @Summary 修改用户角色
// @Tags 管理-用户
// @Accept json
// @Security ApiKeyAuth
// @Param id path string true "用户ID"
// @Param body body UpdateRoleRequest true "角色"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.UserService.UpdateRole(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 启用/禁用用户
// @Tags 管理-用户
// @Accept json
// @Security ApiKeyAuth
// @Param id path string true "用户ID"
// @Param body body SetDisabledRequest true "是否禁用"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/disabled [put]
func (c *UserController) SetDisabled(ctx *gin.Context) {
	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.UserService.SetDisabled(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req.Disabled); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
