package wallet

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signPersonal signs like MetaMask: EIP-191 hash, V in {27,28}.
func signPersonal(t *testing.T, message string) (string, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestRecoverPersonalSign(t *testing.T) {
	msg := ChallengeMessage("deadbeef", 1)
	addr, sig := signPersonal(t, msg)

	got, err := RecoverPersonalSign(msg, sig)
	require.NoError(t, err)
	assert.True(t, SameAddress(addr, got.Hex()))

	other, err := RecoverPersonalSign(msg+"x", sig)
	require.NoError(t, err)
	assert.False(t, SameAddress(addr, other.Hex()))
}

func TestRecoverPersonalSignRejectsGarbage(t *testing.T) {
	_, err := RecoverPersonalSign("hello", "0x1234")
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = RecoverPersonalSign("hello", "not-hex")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0xabcd...7890", ShortAddress("0xabcd000000000000000000000000000000007890"))
	assert.Equal(t, "0x12", ShortAddress("0x12"))
}
