package rest

import "github.com/gin-gonic/gin"

func NewApi(router *gin.Engine, gallery GalleryService) {
	images := NewImagesApi(gallery)

	imagesV1 := router.Group("images/v1")
	{
		imagesV1.GET("/", images.ListImages)
		imagesV1.POST("/", images.UploadImage)
		imagesV1.DELETE("/:filename", images.DeleteImage)
		imagesV1.GET("/reconcile", images.ReconcileImages)
	}
}
