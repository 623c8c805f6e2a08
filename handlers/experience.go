package handlers

import (
	"net/http"
	"strconv"

	"mayhouse/models"
	"mayhouse/services/experience"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExperienceHandler serves host listings, admin review and listing photos.
type ExperienceHandler struct {
	Svc    experience.ExperienceService
	Logger *zap.Logger
}

func NewExperienceHandler(svc experience.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{Svc: svc, Logger: handlerLogger("experience")}
}

// Create handles POST /experiences.
func (h *ExperienceHandler) Create(c *gin.Context) {
	var req models.ExperienceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	exp, err := h.Svc.CreateExperience(currentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Experience created", zap.String("experienceID", exp.ID), zap.String("hostID", exp.HostID))
	c.JSON(http.StatusCreated, exp)
}

// ListMine handles GET /experiences/my.
func (h *ExperienceHandler) ListMine(c *gin.Context) {
	exps, err := h.Svc.ListHostExperiences(currentUserID(c), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exps)
}

// GetMine handles GET /experiences/:id.
func (h *ExperienceHandler) GetMine(c *gin.Context) {
	exp, err := h.Svc.GetHostExperience(currentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

// Update handles PUT /experiences/:id.
func (h *ExperienceHandler) Update(c *gin.Context) {
	var req models.ExperienceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	exp, err := h.Svc.UpdateExperience(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

// Submit handles POST /experiences/:id/submit. The body is optional.
func (h *ExperienceHandler) Submit(c *gin.Context) {
	var req models.ExperienceSubmission
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, utils.BindError(err))
			return
		}
	}
	exp, err := h.Svc.SubmitExperience(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

// Delete handles DELETE /experiences/:id.
func (h *ExperienceHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteExperience(currentUserID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminList handles GET /admin/experiences.
func (h *ExperienceHandler) AdminList(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50, 1, 100)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0, 0, 1<<30)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	exps, err := h.Svc.ListExperiences(c.Query("status"), limit, offset)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exps)
}

// AdminPending handles GET /admin/experiences/pending.
func (h *ExperienceHandler) AdminPending(c *gin.Context) {
	exps, err := h.Svc.ListPendingExperiences()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exps)
}

// AdminGet handles GET /admin/experiences/:id.
func (h *ExperienceHandler) AdminGet(c *gin.Context) {
	exp, err := h.Svc.GetExperience(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

// AdminReview handles POST /admin/experiences/:id/review.
func (h *ExperienceHandler) AdminReview(c *gin.Context) {
	var req models.ExperienceReview
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	exp, err := h.Svc.ReviewExperience(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Experience reviewed", zap.String("experienceID", exp.ID), zap.String("decision", req.Decision))
	c.JSON(http.StatusOK, exp)
}

// AdminStats handles GET /admin/experiences/stats.
func (h *ExperienceHandler) AdminStats(c *gin.Context) {
	stats, err := h.Svc.GetExperienceStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// UploadPhoto handles POST /experiences/:id/photos (multipart).
func (h *ExperienceHandler) UploadPhoto(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("A 'file' upload is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("Could not read uploaded file"))
		return
	}
	defer file.Close()

	isCover, _ := strconv.ParseBool(c.PostForm("is_cover_photo"))
	resp, err := h.Svc.UploadPhoto(c.Request.Context(), currentUserID(c), c.Param("id"), experience.PhotoUpload{
		File:         file,
		Filename:     header.Filename,
		Size:         header.Size,
		IsCoverPhoto: isCover,
		Caption:      c.PostForm("caption"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPhotos handles GET /experiences/:id/photos.
func (h *ExperienceHandler) ListPhotos(c *gin.Context) {
	photos, err := h.Svc.ListPhotos(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// UpdatePhoto handles PATCH /experiences/:id/photos/:photoId.
func (h *ExperienceHandler) UpdatePhoto(c *gin.Context) {
	var req models.ExperiencePhotoUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	photo, err := h.Svc.UpdatePhoto(currentUserID(c), c.Param("id"), c.Param("photoId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// DeletePhoto handles DELETE /experiences/:id/photos/:photoId.
func (h *ExperienceHandler) DeletePhoto(c *gin.Context) {
	if err := h.Svc.DeletePhoto(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("photoId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}
