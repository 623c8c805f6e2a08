package legalRepo

import "mayhouse/models"

// LegalRepository covers legal policies and the users' acceptances of them.
type LegalRepository interface {
	// UpsertPolicy inserts the policy unless one with the same type and version exists.
	// It reports whether a new document was written.
	UpsertPolicy(policy *models.LegalPolicy) (bool, error)
	// ActivePolicy returns the newest active policy of a type, or nil, nil.
	ActivePolicy(policyType string) (*models.LegalPolicy, error)

	CreateAcceptance(acc *models.PolicyAcceptance) error
	// FindAcceptance returns the user's acceptance of a policy version, or nil, nil.
	FindAcceptance(userID, policyID, version string) (*models.PolicyAcceptance, error)
	ListAcceptances(userID string) ([]models.PolicyAcceptance, error)
}
