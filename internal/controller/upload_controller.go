package controller

import (
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// UploadImage godoc
// @Summary 上传题目图片
// @Description 校验文件类型后存储到本地、MinIO 或 OSS，可选生成缩略图
// @Tags 管理-题库
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片"
// @Success 201 {object} util.Response{data=service.ImageUpload}
// @Failure 400 {object} util.Response "文件类型或大小不合法"
// @Router /api/admin/uploads/images [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	img, err := c.StorageService.UploadImage(ctx.Request.Context(), fh)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, img)
}
