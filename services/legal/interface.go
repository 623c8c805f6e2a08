package legal

import (
	legalRepo "mayhouse/database/repository/legal"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
)

// LegalService serves policy documents and records users' acceptance of them,
// either from the host application form or as EIP-712 wallet signatures.
type LegalService interface {
	InitializePolicies() (int, error)
	GetPolicy(policyType string) (*models.LegalPolicy, error)
	HostApplicationBundle() (*models.LegalDocumentsBundle, error)
	MyStatus(userID string) (*models.UserPolicyStatus, error)
	RecordAcceptances(userID string, ctx AcceptanceContext, items []models.ApplicationPolicyAcceptance) error

	PrepareSignature(req models.PolicySignatureRequest) (*models.PolicySignatureResponse, error)
	PrepareBulkSignature(req models.BulkPolicySignatureRequest) (*models.BulkPolicySignatureResponse, error)
	VerifySignature(req models.PolicySignatureVerification) (*models.PolicyAcceptance, error)
	PolicyStatus(userAddress string) (*models.PolicyAcceptanceStatus, error)
}

// AcceptanceContext is where and from whom an acceptance was made.
type AcceptanceContext struct {
	Context   string
	UserIP    string
	UserAgent string
}

type DefaultLegalService struct {
	Repo  legalRepo.LegalRepository
	Users userRepo.UserRepository
}

// RequiredPolicies lists the policy types a context requires.
func RequiredPolicies(context string) []string {
	switch context {
	case models.ContextHostApplication:
		return []string{models.PolicyTermsConditions, models.PolicyBackgroundVerification}
	case models.ContextUserRegistration:
		return []string{models.PolicyTermsConditions, models.PolicyPrivacyPolicy}
	default:
		return []string{models.PolicyTermsConditions}
	}
}
