package hostapp

import (
	"time"

	hostApplicationRepo "mayhouse/database/repository/hostApplication"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
	"mayhouse/services/legal"
)

// ReapplyCooldown is how long a rejected applicant waits before applying again.
const ReapplyCooldown = 30 * 24 * time.Hour

// AutoApproveNote is recorded on applications approved without review.
const AutoApproveNote = "Auto-approved for wallet-based registration"

type HostUpgrader interface {
	UpgradeToHost(userID string) error
}

// PolicyRecorder stores the policy acceptances submitted with an application.
type PolicyRecorder interface {
	RecordAcceptances(userID string, ac legal.AcceptanceContext, items []models.ApplicationPolicyAcceptance) error
	GetPolicy(policyType string) (*models.LegalPolicy, error)
}

type HostApplicationService interface {
	Apply(userID string, data models.HostApplicationData, ac legal.AcceptanceContext) (*models.HostApplication, error)
	GetMyApplication(userID string) (*models.HostApplication, error)
	Eligibility(userID string) (*models.HostEligibility, error)

	ListApplications(status string, limit, offset int) ([]models.HostApplicationSummary, error)
	GetApplication(id string) (*models.HostApplication, error)
	ReviewApplication(adminID, id string, req models.HostApplicationReview) (*models.HostApplication, error)
	GetStats() (*models.HostApplicationStats, error)
}

type DefaultHostApplicationService struct {
	Repo        hostApplicationRepo.HostApplicationRepository
	Users       userRepo.UserRepository
	Policies    PolicyRecorder
	Upgrader    HostUpgrader
	AutoApprove bool
}
