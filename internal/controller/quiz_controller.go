package controller

import (
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Compose godoc
// @Summary 组卷
// @Description fixed 按试卷顺序出题；random 按难度矩阵随机抽题。返回的题目不含答案
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ComposeRequest true "组卷参数"
// @Success 200 {object} util.Response{data=service.ComposedQuiz}
// @Failure 404 {object} util.Response "科目、试卷或题目不存在"
// @Failure 409 {object} util.Response "题库数量不足"
// @Router /api/quiz/compose [post]
func (c *QuizController) Compose(ctx *gin.Context) {
	var req service.ComposeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)

	composed, err := c.QuizService.Compose(ctx.Request.Context(), claims.UserID, req, claims.CanManageContent())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, composed)
}

// Resume godoc
// @Summary 恢复答题
// @Description 返回原题目顺序与服务端计算的剩余秒数
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.ComposedQuiz}
// @Failure 404 {object} util.Response "会话已过期"
// @Router /api/quiz/sessions/{id} [get]
func (c *QuizController) Resume(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	composed, err := c.QuizService.Resume(ctx.Request.Context(), claims.UserID, ctx.Param("id"), claims.IsAdmin())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, composed)
}

// Abandon godoc
// @Summary 放弃答题
// @Tags 答题
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/sessions/{id} [delete]
func (c *QuizController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.QuizService.Abandon(ctx.Request.Context(), claims.UserID, ctx.Param("id"), claims.IsAdmin()); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
