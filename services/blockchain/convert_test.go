package blockchain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestINRToWei(t *testing.T) {
	tests := []struct {
		name  string
		inr   float64
		price float64
		want  string
	}{
		{"one eth", 200000, 200000, "1000000000000000000"},
		{"fraction", 1200, 200000, "6000000000000000"},
		{"decimal amount", 0.1, 1, "100000000000000000"},
		{"truncates", 1, 3, "333333333333333333"},
		{"zero", 0, 250000, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, err := INRToWei(tt.inr, tt.price)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wei.String())
		})
	}
}

func TestINRToWeiRejectsBadPrice(t *testing.T) {
	_, err := INRToWei(100, 0)
	assert.Error(t, err)
}

func TestWeiToINR(t *testing.T) {
	wei, ok := new(big.Int).SetString("6000000000000000", 10)
	require.True(t, ok)

	inr, err := WeiToINR(wei, 200000)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, inr)

	inr, err = WeiToINR(big.NewInt(333333333333333333), 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, inr)

	assert.InDelta(t, 0.006, WeiToETH(wei), 1e-12)
}

func TestParseWei(t *testing.T) {
	w, err := ParseWei("1000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000", w.String())

	for _, bad := range []string{"", "-1", "1.5", "abc"} {
		_, err := ParseWei(bad)
		assert.Error(t, err, bad)
	}
}

func TestHostStake(t *testing.T) {
	stake := HostStake(big.NewInt(1_000_000_000), 4)
	assert.Equal(t, "800000000", stake.String())
}
