package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/storage"
)

type FileHandler struct {
	photos     *storage.PhotoStore
	publicPath string
}

func NewFileHandler(photos *storage.PhotoStore, publicPath string) *FileHandler {
	return &FileHandler{photos: photos, publicPath: publicPath}
}

// POST /files/upload
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, 40001, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	name, err := h.photos.Save(fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"filename": name,
		"url":      h.publicPath + "/" + name,
	})
}

// GET /files/:filename
func (h *FileHandler) Get(c *gin.Context) {
	path, err := h.photos.Path(c.Param("filename"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.File(path)
}

// GET /files/url/:filename
func (h *FileHandler) URL(c *gin.Context) {
	name := c.Param("filename")
	if _, err := h.photos.Path(name); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"url": h.publicPath + "/" + name})
}

// DELETE /files/:filename
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.photos.Delete(c.Param("filename")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "file deleted"})
}
