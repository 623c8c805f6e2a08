package legal

import (
	"math/big"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/services/wallet"
	"mayhouse/utils"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	domainName    = "Mayhouse"
	domainVersion = "1"
	domainChainID = 1

	primaryPolicy = "PolicyAcceptance"
	primaryBulk   = "BulkPolicyAcceptance"
)

// Domain is the signing domain. There is no verifying contract.
func Domain() models.EIP712Domain {
	return models.EIP712Domain{Name: domainName, Version: domainVersion, ChainID: domainChainID}
}

var typedDataTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	},
	primaryPolicy: {
		{Name: "policyId", Type: "string"},
		{Name: "policyType", Type: "string"},
		{Name: "policyVersion", Type: "string"},
		{Name: "userAddress", Type: "address"},
		{Name: "acceptedAt", Type: "uint256"},
		{Name: "context", Type: "string"},
		{Name: "nonce", Type: "string"},
	},
	primaryBulk: {
		{Name: "policyIds", Type: "string[]"},
		{Name: "policyTypes", Type: "string[]"},
		{Name: "policyVersions", Type: "string[]"},
		{Name: "userAddress", Type: "address"},
		{Name: "acceptedAt", Type: "uint256"},
		{Name: "context", Type: "string"},
		{Name: "nonce", Type: "string"},
	},
}

// Types returns the type list handed to wallets; it is exactly what is hashed.
func Types() map[string][]models.EIP712Field {
	out := make(map[string][]models.EIP712Field, len(typedDataTypes))
	for name, fields := range typedDataTypes {
		list := make([]models.EIP712Field, 0, len(fields))
		for _, f := range fields {
			list = append(list, models.EIP712Field{Name: f.Name, Type: f.Type})
		}
		out[name] = list
	}
	return out
}

func typedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:    domainName,
		Version: domainVersion,
		ChainId: math.NewHexOrDecimal256(domainChainID),
	}
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

// PolicyAcceptanceHash is the EIP-712 digest a wallet signs for msg.
func PolicyAcceptanceHash(msg models.PolicyAcceptanceMessage) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(apitypes.TypedData{
		Types:       typedDataTypes,
		PrimaryType: primaryPolicy,
		Domain:      typedDataDomain(),
		Message: apitypes.TypedDataMessage{
			"policyId":      msg.PolicyID,
			"policyType":    msg.PolicyType,
			"policyVersion": msg.PolicyVersion,
			"userAddress":   msg.UserAddress,
			"acceptedAt":    big.NewInt(msg.AcceptedAt),
			"context":       msg.Context,
			"nonce":         msg.Nonce,
		},
	})
	return hash, err
}

// BulkPolicyAcceptanceHash is the EIP-712 digest for a bulk acceptance.
func BulkPolicyAcceptanceHash(msg models.BulkPolicyAcceptanceMessage) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(apitypes.TypedData{
		Types:       typedDataTypes,
		PrimaryType: primaryBulk,
		Domain:      typedDataDomain(),
		Message: apitypes.TypedDataMessage{
			"policyIds":      toInterfaces(msg.PolicyIDs),
			"policyTypes":    toInterfaces(msg.PolicyTypes),
			"policyVersions": toInterfaces(msg.PolicyVersions),
			"userAddress":    msg.UserAddress,
			"acceptedAt":     big.NewInt(msg.AcceptedAt),
			"context":        msg.Context,
			"nonce":          msg.Nonce,
		},
	})
	return hash, err
}

func contextOrDefault(c string) string {
	if c == "" {
		return models.ContextHostApplication
	}
	return c
}

func nonceOrNew(n string) string {
	if n == "" {
		return uuid.New().String()
	}
	return n
}

func (s *DefaultLegalService) PrepareSignature(req models.PolicySignatureRequest) (*models.PolicySignatureResponse, error) {
	policy, err := s.GetPolicy(req.PolicyType)
	if err != nil {
		return nil, err
	}
	nonce := nonceOrNew(req.Nonce)
	return &models.PolicySignatureResponse{
		Domain:      Domain(),
		Types:       Types(),
		PrimaryType: primaryPolicy,
		Message: models.PolicyAcceptanceMessage{
			PolicyID:      policy.ID,
			PolicyType:    policy.PolicyType,
			PolicyVersion: policy.Version,
			UserAddress:   strings.ToLower(req.UserAddress),
			AcceptedAt:    time.Now().Unix(),
			Context:       contextOrDefault(req.Context),
			Nonce:         nonce,
		},
		Nonce: nonce,
	}, nil
}

func (s *DefaultLegalService) PrepareBulkSignature(req models.BulkPolicySignatureRequest) (*models.BulkPolicySignatureResponse, error) {
	msg := models.BulkPolicyAcceptanceMessage{
		UserAddress: strings.ToLower(req.UserAddress),
		AcceptedAt:  time.Now().Unix(),
		Context:     contextOrDefault(req.Context),
		Nonce:       nonceOrNew(req.Nonce),
	}
	for _, t := range req.PolicyTypes {
		policy, err := s.GetPolicy(t)
		if err != nil {
			return nil, err
		}
		msg.PolicyIDs = append(msg.PolicyIDs, policy.ID)
		msg.PolicyTypes = append(msg.PolicyTypes, policy.PolicyType)
		msg.PolicyVersions = append(msg.PolicyVersions, policy.Version)
	}
	return &models.BulkPolicySignatureResponse{
		Domain:      Domain(),
		Types:       Types(),
		PrimaryType: primaryBulk,
		Message:     msg,
		Nonce:       msg.Nonce,
		PolicyCount: len(msg.PolicyIDs),
	}, nil
}

// VerifySignature rebuilds the typed data from the current policy version,
// checks the signer and records the acceptance once per policy version.
func (s *DefaultLegalService) VerifySignature(req models.PolicySignatureVerification) (*models.PolicyAcceptance, error) {
	logger := utils.GetLogger()

	policy, err := s.GetPolicy(req.PolicyType)
	if err != nil {
		return nil, err
	}
	address := strings.ToLower(req.UserAddress)
	msg := models.PolicyAcceptanceMessage{
		PolicyID:      policy.ID,
		PolicyType:    policy.PolicyType,
		PolicyVersion: policy.Version,
		UserAddress:   address,
		AcceptedAt:    req.AcceptedAt,
		Context:       contextOrDefault(req.Context),
		Nonce:         req.Nonce,
	}
	hash, err := PolicyAcceptanceHash(msg)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid typed data: %v", err)
	}
	signer, err := wallet.RecoverSigner(hash, req.Signature)
	if err != nil || !wallet.SameAddress(signer.Hex(), address) {
		logger.Warn("Policy signature rejected", zap.String("address", address), zap.String("policy", policy.ID))
		return nil, utils.ErrUnauthorized("Signature does not match user address")
	}

	user, err := s.Users.GetByWallet(address)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to look up user")
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found for the provided wallet address")
	}

	existing, err := s.Repo.FindAcceptance(user.ID, policy.ID, policy.Version)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to check policy acceptance")
	}
	if existing != nil {
		return existing, nil
	}

	acc := &models.PolicyAcceptance{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		UserAddress:   address,
		PolicyID:      policy.ID,
		PolicyType:    policy.PolicyType,
		PolicyVersion: policy.Version,
		Signature:     req.Signature,
		Nonce:         req.Nonce,
		Context:       msg.Context,
		AcceptedAt:    time.Now().UTC(),
		UserIP:        req.UserIP,
		UserAgent:     req.UserAgent,
	}
	if err := s.Repo.CreateAcceptance(acc); err != nil {
		return nil, utils.ErrInternal(err, "Failed to record policy acceptance")
	}
	logger.Info("Policy acceptance recorded", zap.String("acceptanceID", acc.ID), zap.String("policy", policy.ID))
	return acc, nil
}

func (s *DefaultLegalService) PolicyStatus(userAddress string) (*models.PolicyAcceptanceStatus, error) {
	address := strings.ToLower(userAddress)
	user, err := s.Users.GetByWallet(address)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to look up user")
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found for the provided wallet address")
	}
	accepted, err := s.Repo.ListAcceptances(user.ID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load policy acceptances")
	}

	// An acceptance only counts for the policy version currently in force.
	have := make(map[string]map[string]bool, len(accepted))
	for _, a := range accepted {
		if have[a.PolicyType] == nil {
			have[a.PolicyType] = map[string]bool{}
		}
		have[a.PolicyType][a.PolicyVersion] = true
	}
	missing := []string{}
	for _, t := range RequiredPolicies(models.ContextHostApplication) {
		policy, err := s.Repo.ActivePolicy(t)
		if err != nil {
			return nil, utils.ErrInternal(err, "Failed to retrieve %s policy", t)
		}
		ok := len(have[t]) > 0
		if policy != nil {
			ok = have[t][policy.Version]
		}
		if !ok {
			missing = append(missing, t)
		}
	}
	return &models.PolicyAcceptanceStatus{
		UserID:          user.ID,
		UserAddress:     address,
		Acceptances:     accepted,
		MissingPolicies: missing,
		LastUpdated:     time.Now().UTC(),
	}, nil
}
