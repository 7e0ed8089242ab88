package controller

import (
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// Submit godoc
// @Summary 交卷
// @Description 服务端按题库评分并保存一次作答记录。重复提交会产生多条记录
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitRequest true "作答"
// @Success 201 {object} util.Response{data=quiz.SubmitResult}
// @Failure 400 {object} util.Response "作答格式错误"
// @Failure 403 {object} util.Response "不能替他人交卷"
// @Failure 500 {object} util.Response "保存失败"
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)

	res, err := c.AttemptService.Submit(ctx.Request.Context(), claims.UserID, claims.IsAdmin(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// @Summary 我的作答记录
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param subjectId query string false "科目ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/attempts [get]
func (c *AttemptController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	c.list(ctx, claims.UserID)
}

// @Summary 作答记录（管理）
// @Tags 管理-作答
// @Produce json
// @Security ApiKeyAuth
// @Param userId query string false "用户ID"
// @Param subjectId query string false "科目ID"
// @Param examId query string false "试卷ID"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	c.list(ctx, ctx.Query("userId"))
}

func (c *AttemptController) list(ctx *gin.Context, userID string) {
	page, limit := util.PageParams(ctx)
	attempts, total, err := c.AttemptService.List(ctx.Request.Context(), repository.AttemptFilter{
		UserID:    userID,
		SubjectID: ctx.Query("subjectId"),
		ExamID:    ctx.Query("examId"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// @Summary 作答详情
// @Description 返回作答记录及含解析的题目，仅本人或管理员可见
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "作答ID"
// @Success 200 {object} util.Response{data=service.AttemptReview}
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	review, err := c.AttemptService.Get(ctx.Request.Context(), claims.UserID, claims.IsAdmin(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// @Summary 删除作答记录
// @Tags 管理-作答
// @Security ApiKeyAuth
// @Param id path string true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/admin/attempts/{id} [delete]
func (c *AttemptController) Delete(ctx *gin.Context) {
	if err := c.AttemptService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
