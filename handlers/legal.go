package handlers

import (
	"net/http"
	"time"

	"mayhouse/middleware"
	"mayhouse/models"
	"mayhouse/services/legal"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LegalHandler serves policy documents and EIP-712 policy signing.
type LegalHandler struct {
	Svc    legal.LegalService
	Logger *zap.Logger
}

func NewLegalHandler(svc legal.LegalService) *LegalHandler {
	return &LegalHandler{Svc: svc, Logger: handlerLogger("legal")}
}

// GetPolicy handles GET /legal/policies/:type.
func (h *LegalHandler) GetPolicy(c *gin.Context) {
	h.respondPolicy(c, c.Param("type"))
}

// Policy returns a handler bound to one policy type.
func (h *LegalHandler) Policy(policyType string) gin.HandlerFunc {
	return func(c *gin.Context) { h.respondPolicy(c, policyType) }
}

func (h *LegalHandler) respondPolicy(c *gin.Context, policyType string) {
	p, err := h.Svc.GetPolicy(policyType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// HostApplicationDocuments handles GET /legal/host-application/documents.
func (h *LegalHandler) HostApplicationDocuments(c *gin.Context) {
	bundle, err := h.Svc.HostApplicationBundle()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// MyStatus handles GET /legal/my-status.
func (h *LegalHandler) MyStatus(c *gin.Context) {
	status, err := h.Svc.MyStatus(currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// InitializePolicies handles POST /legal/admin/initialize-policies.
func (h *LegalHandler) InitializePolicies(c *gin.Context) {
	created, err := h.Svc.InitializePolicies()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Legal policies initialized", zap.Int("created", created), zap.String("adminID", currentUserID(c)))
	c.JSON(http.StatusOK, gin.H{"message": "Legal policies initialized successfully", "created": created})
}

// Health handles GET /legal/health.
func (h *LegalHandler) Health(c *gin.Context) {
	bundle, err := h.Svc.HostApplicationBundle()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"policies_available": gin.H{
			"terms_conditions":        bundle.TermsConditions != nil,
			"background_verification": bundle.BackgroundVerification != nil,
			"host_agreement":          bundle.HostAgreement != nil,
		},
		"last_updated": bundle.LastUpdated,
	})
}

// PrepareSignature handles POST /legal/eip712/prepare-signature.
func (h *LegalHandler) PrepareSignature(c *gin.Context) {
	var req models.PolicySignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.PrepareSignature(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrepareBulkSignature handles POST /legal/eip712/prepare-bulk-signature.
func (h *LegalHandler) PrepareBulkSignature(c *gin.Context) {
	var req models.BulkPolicySignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.PrepareBulkSignature(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifySignature handles POST /legal/eip712/verify-signature. The request's
// client address and user agent stand in for missing body values.
func (h *LegalHandler) VerifySignature(c *gin.Context) {
	var req models.PolicySignatureVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	if req.UserIP == "" {
		req.UserIP = middleware.ClientIP(c)
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}
	acceptance, err := h.Svc.VerifySignature(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acceptance)
}

// PolicyStatus handles POST /legal/eip712/policy-status/:user_address.
func (h *LegalHandler) PolicyStatus(c *gin.Context) {
	status, err := h.Svc.PolicyStatus(c.Param("user_address"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RequiredPolicies handles GET /legal/eip712/required-policies/:context.
func (h *LegalHandler) RequiredPolicies(c *gin.Context) {
	ctx := c.Param("context")
	c.JSON(http.StatusOK, gin.H{"context": ctx, "required_policies": legal.RequiredPolicies(ctx)})
}

// SigningHealth handles GET /legal/eip712/health by preparing a throwaway signature.
func (h *LegalHandler) SigningHealth(c *gin.Context) {
	_, err := h.Svc.PrepareSignature(models.PolicySignatureRequest{
		PolicyType:  models.PolicyTermsConditions,
		UserAddress: "0x0000000000000000000000000000000000000000",
		Context:     "test",
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "eip712_policy_signing",
		"features": []string{"single_policy_signing", "bulk_policy_signing", "signature_verification"},
		"checked":  time.Now().UTC(),
	})
}
