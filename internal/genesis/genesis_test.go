package genesis

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/cliquenet/internal/network"
)

const (
	faucet   = "1111111111111111111111111111111111111111"
	signerA  = "0x2222222222222222222222222222222222222222"
	signerB  = "AbCdEf0123456789abcdef0123456789ABCDEF01"
	allocKey = "c0ffee254729296a45a3885639ac7e10f9d54979"
)

func testNetwork() *network.Network {
	return &network.Network{
		ID:         "net1",
		ChainID:    4242,
		Subnet:     "10.0.0.0/24",
		BootNodeIP: "10.0.0.10",
		Allocations: []network.Allocation{
			{Address: allocKey, Value: 5000},
		},
		Nodes: []network.Node{
			{Name: "m1", Type: network.NodeTypeMiner, IP: "10.0.0.11"},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	g, err := Build(testNetwork(), []string{faucet, signerA})
	require.NoError(t, err)

	assert.Equal(t, "1", g.Difficulty)
	assert.Equal(t, "8000000", g.GasLimit)
	require.NotNil(t, g.Config)
	assert.Equal(t, big.NewInt(4242), g.Config.ChainID)
	assert.Equal(t, big.NewInt(0), g.Config.LondonBlock)
	assert.Equal(t, big.NewInt(0), g.Config.HomesteadBlock)
	require.NotNil(t, g.Config.Clique)
	assert.Equal(t, uint64(5), g.Config.Clique.Period)
	assert.Equal(t, uint64(30000), g.Config.Clique.Epoch)

	require.Len(t, g.Alloc, 3)
	assert.Equal(t, FaucetBalance, g.Alloc[faucet].Balance)
	assert.Equal(t, "5000000000000000000000", g.Alloc[allocKey].Balance)
	assert.Equal(t, SignerBalance, g.Alloc["2222222222222222222222222222222222222222"].Balance)
}

func TestBuild_AllocationOverridesSignerBalance(t *testing.T) {
	t.Parallel()

	n := testNetwork()
	n.Allocations = append(n.Allocations, network.Allocation{Address: signerA, Value: 7})
	g, err := Build(n, []string{faucet, signerA, signerB})
	require.NoError(t, err)

	require.Len(t, g.Alloc, 4)
	assert.Equal(t, "7000000000000000000", g.Alloc["2222222222222222222222222222222222222222"].Balance)
	assert.Equal(t, SignerBalance, g.Alloc[strings.ToLower(signerB)].Balance)
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	accounts := []string{faucet, signerA, signerB}
	first, err := Build(testNetwork(), accounts)
	require.NoError(t, err)
	second, err := Build(testNetwork(), accounts)
	require.NoError(t, err)

	a, err := first.JSON()
	require.NoError(t, err)
	b, err := second.JSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuild_ExtradataRoundTrip(t *testing.T) {
	t.Parallel()

	g, err := Build(testNetwork(), []string{faucet, signerA, signerB})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(g.ExtraData, "0x"+strings.Repeat("00", ExtraVanity)))
	assert.True(t, strings.HasSuffix(g.ExtraData, strings.Repeat("00", ExtraSeal)))
	assert.Len(t, g.ExtraData, 2+2*(ExtraVanity+2*common.AddressLength+ExtraSeal))

	signers, err := g.Signers()
	require.NoError(t, err)
	assert.Equal(t, []common.Address{
		common.HexToAddress(signerA),
		common.HexToAddress(signerB),
	}, signers)
}

func TestBuild_FaucetIsNotASigner(t *testing.T) {
	t.Parallel()

	g, err := Build(testNetwork(), []string{faucet, signerA})
	require.NoError(t, err)

	signers, err := DecodeExtradata(g.ExtraData)
	require.NoError(t, err)
	assert.NotContains(t, signers, common.HexToAddress(faucet))
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		accounts []string
		allocs   []network.Allocation
		invalid  bool
	}{
		{name: "no accounts"},
		{name: "faucet only", accounts: []string{faucet}},
		{name: "short signer", accounts: []string{faucet, "1234"}, invalid: true},
		{name: "non hex signer", accounts: []string{faucet, strings.Repeat("z", 40)}, invalid: true},
		{
			name:     "bad allocation",
			accounts: []string{faucet, signerA},
			allocs:   []network.Allocation{{Address: "0xnothex", Value: 1}},
			invalid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := testNetwork()
			if tt.allocs != nil {
				n.Allocations = tt.allocs
			}
			_, err := Build(n, tt.accounts)
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidAddress))
		})
	}
}

func TestGenesis_JSONFieldNames(t *testing.T) {
	t.Parallel()

	g, err := Build(testNetwork(), []string{faucet, signerA})
	require.NoError(t, err)
	data, err := g.JSON()
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"config", "difficulty", "gasLimit", "extradata", "alloc"} {
		assert.Contains(t, doc, key)
	}

	var cfg map[string]any
	require.NoError(t, json.Unmarshal(doc["config"], &cfg))
	assert.EqualValues(t, 4242, cfg["chainId"])
	assert.Contains(t, cfg, "clique")
	assert.Contains(t, cfg, "petersburgBlock")
}

func TestDecodeExtradata_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"not hex":         "0xzz",
		"missing prefix":  "00",
		"too short":       "0x" + strings.Repeat("00", ExtraVanity),
		"partial address": "0x" + strings.Repeat("00", ExtraVanity+5+ExtraSeal),
	}
	for name, extra := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeExtradata(extra)
			assert.Error(t, err)
		})
	}
}

func TestDecodeExtradata_NoSigners(t *testing.T) {
	t.Parallel()

	signers, err := DecodeExtradata(EncodeExtradata(nil))
	require.NoError(t, err)
	assert.Empty(t, signers)
}

func TestToWei(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", ToWei(0).String())
	assert.Equal(t, "1000000000000000000", ToWei(1).String())
	assert.Equal(t, "18446744073709551615000000000000000000", ToWei(^uint64(0)).String())
}
