package legal

import (
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultLegalService) InitializePolicies() (int, error) {
	created := 0
	for _, p := range DefaultPolicies(time.Now().UTC()) {
		written, err := s.Repo.UpsertPolicy(&p)
		if err != nil {
			return created, utils.ErrInternal(err, "Failed to initialize policies")
		}
		if written {
			created++
		}
	}
	utils.GetLogger().Info("Legal policies initialized", zap.Int("created", created))
	return created, nil
}

func (s *DefaultLegalService) GetPolicy(policyType string) (*models.LegalPolicy, error) {
	if !models.IsPolicyType(policyType) {
		return nil, utils.ErrBadRequest("Unknown policy type '%s'", policyType)
	}
	p, err := s.Repo.ActivePolicy(policyType)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to retrieve %s policy", policyType)
	}
	if p == nil {
		return nil, utils.ErrNotFound("Policy '%s' not found", policyType)
	}
	return p, nil
}

func (s *DefaultLegalService) HostApplicationBundle() (*models.LegalDocumentsBundle, error) {
	terms, err := s.GetPolicy(models.PolicyTermsConditions)
	if err != nil {
		return nil, err
	}
	background, err := s.GetPolicy(models.PolicyBackgroundVerification)
	if err != nil {
		return nil, err
	}
	bundle := &models.LegalDocumentsBundle{
		TermsConditions:        terms,
		BackgroundVerification: background,
		LastUpdated:            time.Now().UTC(),
	}
	if agreement, err := s.Repo.ActivePolicy(models.PolicyHostAgreement); err == nil {
		bundle.HostAgreement = agreement
	}
	return bundle, nil
}

func (s *DefaultLegalService) MyStatus(userID string) (*models.UserPolicyStatus, error) {
	accepted, err := s.Repo.ListAcceptances(userID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load policy acceptances")
	}
	versions := make(map[string]string, len(accepted))
	for _, a := range accepted {
		if _, seen := versions[a.PolicyType]; !seen {
			versions[a.PolicyType] = a.PolicyVersion
		}
	}
	missing := []string{}
	for _, t := range RequiredPolicies(models.ContextHostApplication) {
		if _, ok := versions[t]; !ok {
			missing = append(missing, t)
		}
	}
	return &models.UserPolicyStatus{
		UserID:              userID,
		PolicyAcceptances:   versions,
		AllRequiredAccepted: len(missing) == 0,
		MissingPolicies:     missing,
	}, nil
}

// RecordAcceptances stores the policies ticked on a form. Versions already
// accepted by the user are skipped.
func (s *DefaultLegalService) RecordAcceptances(userID string, ac AcceptanceContext, items []models.ApplicationPolicyAcceptance) error {
	for _, item := range items {
		if !item.Accepted {
			return utils.ErrBadRequest("Policy '%s' must be accepted", item.PolicyType)
		}
	}
	now := time.Now().UTC()
	for _, item := range items {
		policyID := item.PolicyType + "-" + item.PolicyVersion
		if p, err := s.Repo.ActivePolicy(item.PolicyType); err == nil && p != nil && p.Version == item.PolicyVersion {
			policyID = p.ID
		}
		existing, err := s.Repo.FindAcceptance(userID, policyID, item.PolicyVersion)
		if err != nil {
			return utils.ErrInternal(err, "Failed to check policy acceptance")
		}
		if existing != nil {
			continue
		}
		if err := s.Repo.CreateAcceptance(&models.PolicyAcceptance{
			ID:            uuid.New().String(),
			UserID:        userID,
			PolicyID:      policyID,
			PolicyType:    item.PolicyType,
			PolicyVersion: item.PolicyVersion,
			Context:       ac.Context,
			AcceptedAt:    now,
			UserIP:        ac.UserIP,
			UserAgent:     ac.UserAgent,
		}); err != nil {
			return utils.ErrInternal(err, "Failed to record policy acceptance")
		}
	}
	return nil
}
