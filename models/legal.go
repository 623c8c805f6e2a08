package models

import "time"

const (
	PolicyTermsConditions        = "terms_conditions"
	PolicyBackgroundVerification = "background_verification"
	PolicyPrivacyPolicy          = "privacy_policy"
	PolicyHostAgreement          = "host_agreement"
	PolicyCancellationPolicy     = "cancellation_policy"
)

// PolicyTypes lists every known legal policy type.
var PolicyTypes = []string{
	PolicyTermsConditions, PolicyBackgroundVerification, PolicyPrivacyPolicy,
	PolicyHostAgreement, PolicyCancellationPolicy,
}

// IsPolicyType reports whether t names a known policy type.
func IsPolicyType(t string) bool {
	for _, p := range PolicyTypes {
		if p == t {
			return true
		}
	}
	return false
}

const (
	PolicyActive   = "active"
	PolicyDraft    = "draft"
	PolicyArchived = "archived"
)

const (
	ContextHostApplication  = "host_application"
	ContextUserRegistration = "user_registration"
	ContextGeneral          = "general"
)

type LegalPolicy struct {
	ID            string    `json:"id" bson:"id"`
	PolicyType    string    `json:"policy_type" bson:"policy_type"`
	Title         string    `json:"title" bson:"title"`
	Version       string    `json:"version" bson:"version"`
	Content       string    `json:"content" bson:"content"`
	Summary       string    `json:"summary,omitempty" bson:"summary,omitempty"`
	EffectiveDate time.Time `json:"effective_date" bson:"effective_date"`
	LastUpdated   time.Time `json:"last_updated" bson:"last_updated"`
	Status        string    `json:"status" bson:"status"`
}

type PolicyAcceptance struct {
	ID            string    `json:"id" bson:"id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	UserAddress   string    `json:"user_address,omitempty" bson:"user_address,omitempty"`
	PolicyID      string    `json:"policy_id" bson:"policy_id"`
	PolicyType    string    `json:"policy_type" bson:"policy_type"`
	PolicyVersion string    `json:"policy_version" bson:"policy_version"`
	Signature     string    `json:"signature,omitempty" bson:"signature,omitempty"`
	Nonce         string    `json:"nonce,omitempty" bson:"nonce,omitempty"`
	Context       string    `json:"context" bson:"context"`
	AcceptedAt    time.Time `json:"accepted_at" bson:"accepted_at"`
	UserIP        string    `json:"user_ip,omitempty" bson:"user_ip,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
}

type UserPolicyStatus struct {
	UserID              string            `json:"user_id"`
	PolicyAcceptances   map[string]string `json:"policy_acceptances"`
	AllRequiredAccepted bool              `json:"all_required_accepted"`
	MissingPolicies     []string          `json:"missing_policies"`
}

type LegalDocumentsBundle struct {
	TermsConditions        *LegalPolicy `json:"terms_conditions"`
	BackgroundVerification *LegalPolicy `json:"background_verification"`
	HostAgreement          *LegalPolicy `json:"host_agreement,omitempty"`
	LastUpdated            time.Time    `json:"last_updated"`
}

// EIP712Domain is the signing domain handed to wallets.
type EIP712Domain struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	ChainID int64  `json:"chainId"`
}

// EIP712Field is one member of a typed-data struct definition.
type EIP712Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PolicyAcceptanceMessage is the PolicyAcceptance typed-data message.
type PolicyAcceptanceMessage struct {
	PolicyID      string `json:"policyId"`
	PolicyType    string `json:"policyType"`
	PolicyVersion string `json:"policyVersion"`
	UserAddress   string `json:"userAddress"`
	AcceptedAt    int64  `json:"acceptedAt"`
	Context       string `json:"context"`
	Nonce         string `json:"nonce"`
}

// BulkPolicyAcceptanceMessage is the BulkPolicyAcceptance typed-data message.
type BulkPolicyAcceptanceMessage struct {
	PolicyIDs      []string `json:"policyIds"`
	PolicyTypes    []string `json:"policyTypes"`
	PolicyVersions []string `json:"policyVersions"`
	UserAddress    string   `json:"userAddress"`
	AcceptedAt     int64    `json:"acceptedAt"`
	Context        string   `json:"context"`
	Nonce          string   `json:"nonce"`
}

type PolicySignatureRequest struct {
	PolicyType  string `json:"policy_type" binding:"required"`
	UserAddress string `json:"user_address" binding:"required,eth_addr"`
	Context     string `json:"context"`
	Nonce       string `json:"nonce"`
}

type PolicySignatureResponse struct {
	Domain      EIP712Domain             `json:"domain"`
	Types       map[string][]EIP712Field `json:"types"`
	PrimaryType string                   `json:"primaryType"`
	Message     PolicyAcceptanceMessage  `json:"message"`
	Nonce       string                   `json:"nonce"`
}

type BulkPolicySignatureRequest struct {
	PolicyTypes []string `json:"policy_types" binding:"required,min=1"`
	UserAddress string   `json:"user_address" binding:"required,eth_addr"`
	Context     string   `json:"context"`
	Nonce       string   `json:"nonce"`
}

type BulkPolicySignatureResponse struct {
	Domain      EIP712Domain                `json:"domain"`
	Types       map[string][]EIP712Field    `json:"types"`
	PrimaryType string                      `json:"primaryType"`
	Message     BulkPolicyAcceptanceMessage `json:"message"`
	Nonce       string                      `json:"nonce"`
	PolicyCount int                         `json:"policy_count"`
}

type PolicySignatureVerification struct {
	PolicyType  string `json:"policy_type" binding:"required"`
	UserAddress string `json:"user_address" binding:"required,eth_addr"`
	Signature   string `json:"signature" binding:"required"`
	Nonce       string `json:"nonce" binding:"required"`
	Context     string `json:"context"`
	AcceptedAt  int64  `json:"accepted_at" binding:"required"`
	UserIP      string `json:"user_ip"`
	UserAgent   string `json:"user_agent"`
}

type PolicyAcceptanceStatus struct {
	UserID          string             `json:"user_id"`
	UserAddress     string             `json:"user_address"`
	Acceptances     []PolicyAcceptance `json:"acceptances"`
	MissingPolicies []string           `json:"missing_policies"`
	LastUpdated     time.Time          `json:"last_updated"`
}
