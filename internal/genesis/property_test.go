package genesis

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuild_SignersSurviveExtradata(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		count := rapid.IntRange(1, 12).Draw(r, "signers")
		accounts := []string{faucet}
		var want []common.Address
		for i := 0; i < count; i++ {
			raw := rapid.SliceOfN(rapid.Byte(), common.AddressLength, common.AddressLength).Draw(r, "address")
			addr := common.BytesToAddress(raw)
			want = append(want, addr)
			accounts = append(accounts, addr.Hex())
		}

		g, err := Build(testNetwork(), accounts)
		require.NoError(r, err)

		got, err := g.Signers()
		require.NoError(r, err)
		require.Equal(r, want, got)
	})
}
