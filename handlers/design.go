package handlers

import (
	"io"
	"net/http"

	"mayhouse/models"
	"mayhouse/services/design"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxAudioBytes bounds a transcription upload.
const maxAudioBytes = 10 << 20

// DesignHandler serves the experience design wizard and its AI helpers.
type DesignHandler struct {
	Svc    design.DesignService
	Logger *zap.Logger
}

func NewDesignHandler(svc design.DesignService) *DesignHandler {
	return &DesignHandler{Svc: svc, Logger: handlerLogger("design")}
}

// StartSession handles POST /design-experience/session.
func (h *DesignHandler) StartSession(c *gin.Context) {
	var req models.DesignSessionStart
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, utils.BindError(err))
			return
		}
	}
	resp, err := h.Svc.StartSession(currentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SaveBasics handles PATCH /design-experience/session/:id/basics.
func (h *DesignHandler) SaveBasics(c *gin.Context) {
	var req models.StepBasicsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	session, err := h.Svc.SaveBasics(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UploadMedia handles POST /design-experience/session/:id/media (multipart).
func (h *DesignHandler) UploadMedia(c *gin.Context) {
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

	session, err := h.Svc.UploadMedia(c.Request.Context(), currentUserID(c), c.Param("id"), file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ReorderMedia handles PATCH /design-experience/session/:id/media.
func (h *DesignHandler) ReorderMedia(c *gin.Context) {
	var req models.StepMediaReorder
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	session, err := h.Svc.ReorderMedia(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SaveLogistics handles PATCH /design-experience/session/:id/logistics.
func (h *DesignHandler) SaveLogistics(c *gin.Context) {
	var req models.StepLogisticsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	session, err := h.Svc.SaveLogistics(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Review handles GET /design-experience/session/:id/review.
func (h *DesignHandler) Review(c *gin.Context) {
	review, err := h.Svc.Review(currentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Submit handles POST /design-experience/session/:id/submit.
func (h *DesignHandler) Submit(c *gin.Context) {
	resp, err := h.Svc.Submit(currentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Design session submitted", zap.String("sessionID", c.Param("id")), zap.String("experienceID", resp.ExperienceID))
	c.JSON(http.StatusOK, resp)
}

// Generate handles POST /design-experience/generate.
func (h *DesignHandler) Generate(c *gin.Context) {
	var req models.QAGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.Generate(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transcribe handles POST /design-experience/transcribe (multipart "file").
func (h *DesignHandler) Transcribe(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("An audio 'file' upload is required"))
		return
	}
	if header.Size > maxAudioBytes {
		utils.RespondError(c, utils.ErrBadRequest("Audio file too large. Maximum size is 10MB"))
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("Could not read uploaded audio"))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("Could not read uploaded audio"))
		return
	}
	resp, err := h.Svc.Transcribe(c.Request.Context(), audio)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Chat handles POST /design-experience/chat.
func (h *DesignHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.Chat(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
