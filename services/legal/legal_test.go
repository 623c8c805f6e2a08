package legal

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func newService(t *testing.T, users ...models.User) (*DefaultLegalService, *memory.Legal) {
	t.Helper()
	repo := memory.NewLegal()
	svc := &DefaultLegalService{Repo: repo, Users: memory.NewUsers(users...)}
	created, err := svc.InitializePolicies()
	require.NoError(t, err)
	require.Equal(t, 3, created)
	return svc, repo
}

func TestInitializePoliciesIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.InitializePolicies()
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestGetPolicy(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.GetPolicy(models.PolicyTermsConditions)
	require.NoError(t, err)
	assert.Equal(t, "terms-v1-2025", p.ID)
	assert.Equal(t, "1.0", p.Version)

	_, err = svc.GetPolicy("cookies")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.GetPolicy(models.PolicyCancellationPolicy)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestHostApplicationBundle(t *testing.T) {
	svc, _ := newService(t)
	b, err := svc.HostApplicationBundle()
	require.NoError(t, err)
	assert.Equal(t, "background-v1-2025", b.BackgroundVerification.ID)
	assert.Nil(t, b.HostAgreement)
}

func TestRequiredPolicies(t *testing.T) {
	assert.Equal(t, []string{"terms_conditions", "background_verification"}, RequiredPolicies("host_application"))
	assert.Equal(t, []string{"terms_conditions", "privacy_policy"}, RequiredPolicies("user_registration"))
	assert.Equal(t, []string{"terms_conditions"}, RequiredPolicies("general"))
	assert.Equal(t, []string{"terms_conditions"}, RequiredPolicies("anything"))
}

func TestRecordAcceptancesAndStatus(t *testing.T) {
	svc, _ := newService(t)

	status, err := svc.MyStatus("u-1")
	require.NoError(t, err)
	assert.False(t, status.AllRequiredAccepted)
	assert.Len(t, status.MissingPolicies, 2)

	err = svc.RecordAcceptances("u-1", AcceptanceContext{Context: models.ContextHostApplication}, []models.ApplicationPolicyAcceptance{
		{PolicyType: models.PolicyTermsConditions, PolicyVersion: "1.0", Accepted: false},
	})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	items := []models.ApplicationPolicyAcceptance{
		{PolicyType: models.PolicyTermsConditions, PolicyVersion: "1.0", Accepted: true},
		{PolicyType: models.PolicyBackgroundVerification, PolicyVersion: "1.0", Accepted: true},
	}
	require.NoError(t, svc.RecordAcceptances("u-1", AcceptanceContext{Context: models.ContextHostApplication}, items))
	require.NoError(t, svc.RecordAcceptances("u-1", AcceptanceContext{Context: models.ContextHostApplication}, items))

	status, err = svc.MyStatus("u-1")
	require.NoError(t, err)
	assert.True(t, status.AllRequiredAccepted)
	assert.Empty(t, status.MissingPolicies)
	assert.Equal(t, "1.0", status.PolicyAcceptances[models.PolicyTermsConditions])
}

func TestPrepareSignature(t *testing.T) {
	svc, _ := newService(t)
	resp, err := svc.PrepareSignature(models.PolicySignatureRequest{
		PolicyType:  models.PolicyTermsConditions,
		UserAddress: "0xABCDEF0000000000000000000000000000000001",
	})
	require.NoError(t, err)
	assert.Equal(t, "PolicyAcceptance", resp.PrimaryType)
	assert.Equal(t, "0xabcdef0000000000000000000000000000000001", resp.Message.UserAddress)
	assert.Equal(t, models.ContextHostApplication, resp.Message.Context)
	assert.NotEmpty(t, resp.Nonce)
	assert.Equal(t, resp.Nonce, resp.Message.Nonce)
	assert.Equal(t, int64(1), resp.Domain.ChainID)
	assert.Contains(t, resp.Types, "EIP712Domain")

	bulk, err := svc.PrepareBulkSignature(models.BulkPolicySignatureRequest{
		PolicyTypes: []string{models.PolicyTermsConditions, models.PolicyBackgroundVerification},
		UserAddress: "0xabcdef0000000000000000000000000000000001",
		Nonce:       "fixed",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, bulk.PolicyCount)
	assert.Equal(t, "fixed", bulk.Nonce)
	assert.Equal(t, []string{"terms-v1-2025", "background-v1-2025"}, bulk.Message.PolicyIDs)

	_, err = svc.PrepareBulkSignature(models.BulkPolicySignatureRequest{
		PolicyTypes: []string{models.PolicyHostAgreement},
		UserAddress: "0xabcdef0000000000000000000000000000000001",
	})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestBulkHashIsStable(t *testing.T) {
	msg := models.BulkPolicyAcceptanceMessage{
		PolicyIDs:      []string{"a", "b"},
		PolicyTypes:    []string{"terms_conditions", "background_verification"},
		PolicyVersions: []string{"1.0", "1.0"},
		UserAddress:    "0x0000000000000000000000000000000000000001",
		AcceptedAt:     1700000000,
		Context:        "host_application",
		Nonce:          "n",
	}
	h1, err := BulkPolicyAcceptanceHash(msg)
	require.NoError(t, err)
	h2, err := BulkPolicyAcceptanceHash(msg)
	require.NoError(t, err)
	assert.Len(t, h1, 32)
	assert.Equal(t, h1, h2)

	msg.Nonce = "m"
	h3, err := BulkPolicyAcceptanceHash(msg)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

// signAcceptance signs msg with a fresh key and returns the signature and signer address.
func signAcceptance(t *testing.T, msg models.PolicyAcceptanceMessage) (string, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	msg.UserAddress = strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
	hash, err := PolicyAcceptanceHash(msg)
	require.NoError(t, err)
	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)
	sig[64] += 27
	return hexutil.Encode(sig), msg.UserAddress
}

func TestVerifySignature(t *testing.T) {
	acceptedAt := time.Now().Unix()
	msg := models.PolicyAcceptanceMessage{
		PolicyID:      "terms-v1-2025",
		PolicyType:    models.PolicyTermsConditions,
		PolicyVersion: "1.0",
		AcceptedAt:    acceptedAt,
		Context:       models.ContextHostApplication,
		Nonce:         "nonce-1",
	}
	sig, address := signAcceptance(t, msg)

	svc, _ := newService(t, models.User{ID: "u-9", WalletAddress: address, Role: models.RoleUser})
	req := models.PolicySignatureVerification{
		PolicyType:  models.PolicyTermsConditions,
		UserAddress: address,
		Signature:   sig,
		Nonce:       "nonce-1",
		AcceptedAt:  acceptedAt,
		UserIP:      "10.0.0.1",
	}

	acc, err := svc.VerifySignature(req)
	require.NoError(t, err)
	assert.Equal(t, "u-9", acc.UserID)
	assert.Equal(t, "terms-v1-2025", acc.PolicyID)
	assert.Equal(t, "10.0.0.1", acc.UserIP)

	again, err := svc.VerifySignature(req)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, again.ID)

	tampered := req
	tampered.Nonce = "nonce-2"
	_, err = svc.VerifySignature(tampered)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	status, err := svc.PolicyStatus(strings.ToUpper(address[:2]) + address[2:])
	require.NoError(t, err)
	assert.Len(t, status.Acceptances, 1)
	assert.Equal(t, []string{models.PolicyBackgroundVerification}, status.MissingPolicies)
}

func TestVerifySignatureUnknownWallet(t *testing.T) {
	acceptedAt := time.Now().Unix()
	msg := models.PolicyAcceptanceMessage{
		PolicyID:      "terms-v1-2025",
		PolicyType:    models.PolicyTermsConditions,
		PolicyVersion: "1.0",
		AcceptedAt:    acceptedAt,
		Context:       models.ContextHostApplication,
		Nonce:         "n",
	}
	sig, address := signAcceptance(t, msg)

	svc, _ := newService(t)
	_, err := svc.VerifySignature(models.PolicySignatureVerification{
		PolicyType:  models.PolicyTermsConditions,
		UserAddress: address,
		Signature:   sig,
		Nonce:       "n",
		AcceptedAt:  acceptedAt,
	})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestPolicyStatusRequiresCurrentVersion(t *testing.T) {
	address := "0x00000000000000000000000000000000000000b7"
	svc, repo := newService(t, models.User{ID: "u-3", WalletAddress: address, Role: models.RoleUser})
	for _, a := range []models.PolicyAcceptance{
		{ID: "a1", UserID: "u-3", PolicyID: "terms-v1-2025", PolicyType: models.PolicyTermsConditions, PolicyVersion: "1.0"},
		{ID: "a2", UserID: "u-3", PolicyID: "background-v1-2025", PolicyType: models.PolicyBackgroundVerification, PolicyVersion: "1.0"},
	} {
		require.NoError(t, repo.CreateAcceptance(&a))
	}

	status, err := svc.PolicyStatus(address)
	require.NoError(t, err)
	assert.Empty(t, status.MissingPolicies)

	_, err = repo.UpsertPolicy(&models.LegalPolicy{
		ID:            "terms-v2-2026",
		PolicyType:    models.PolicyTermsConditions,
		Version:       "2.0",
		EffectiveDate: time.Now().Add(time.Hour),
		Status:        models.PolicyActive,
	})
	require.NoError(t, err)

	status, err = svc.PolicyStatus(address)
	require.NoError(t, err)
	assert.Len(t, status.Acceptances, 2)
	assert.Equal(t, []string{models.PolicyTermsConditions}, status.MissingPolicies)
}
