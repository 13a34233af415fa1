package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/cliquenet/internal/network"
)

const testEnode = "enode://abcd@10.0.0.10:30301"

func fullParams() Params {
	return Params{
		ChainID:       "4242",
		BootNodeIP:    "10.0.0.10",
		NodeIP:        "10.0.0.11",
		Subnet:        "10.0.0.0/24",
		BootnodeEnode: testEnode,
		Account:       "C0FFEE254729296a45a3885639AC7E10F9d54979",
		Port:          8545,
	}
}

func TestBuild_Bootnode(t *testing.T) {
	t.Parallel()

	args, err := Build(network.NodeTypeBootnode, fullParams())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-addr=10.0.0.10:30301",
		"-nodekey=/eth/boot.key",
		"-netrestrict=10.0.0.0/24",
		"-verbosity=3",
	}, args)
}

func TestBuild_Miner(t *testing.T) {
	t.Parallel()

	args, err := Build(network.NodeTypeMiner, fullParams())
	require.NoError(t, err)

	acct := "0xc0ffee254729296a45a3885639ac7e10f9d54979"
	assert.Contains(t, args, "--networkid=4242")
	assert.Contains(t, args, "--mine")
	assert.Contains(t, args, "--miner.etherbase="+acct)
	assert.Contains(t, args, "--unlock="+acct)
	assert.Contains(t, args, "--bootnodes="+testEnode)
	assert.Contains(t, args, "--nat=extip:10.0.0.11")
	assert.Contains(t, args, "--password=/root/.ethereum/password.txt")
	assert.Contains(t, args, "--allow-insecure-unlock")
	assert.Equal(t, "--ipcdisable", args[len(args)-1])
}

func TestBuild_RPC(t *testing.T) {
	t.Parallel()

	args, err := Build(network.NodeTypeRPC, fullParams())
	require.NoError(t, err)

	assert.Contains(t, args, "--http")
	assert.Contains(t, args, "--http.addr=0.0.0.0")
	assert.Contains(t, args, "--http.port=8545")
	assert.Contains(t, args, "--http.corsdomain=*")
	assert.Contains(t, args, "--http.api="+RPCAPIs)
	assert.NotContains(t, args, "--mine")
	assert.Equal(t, "--ipcdisable", args[len(args)-1])
}

func TestBuild_Normal(t *testing.T) {
	t.Parallel()

	p := fullParams()
	p.Account = ""
	p.Port = 0
	args, err := Build(network.NodeTypeNormal, p)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--networkid=4242",
		"--bootnodes=" + testEnode,
		"--nat=extip:10.0.0.11",
		"--netrestrict=10.0.0.0/24",
		"--ipcdisable",
	}, args)
}

func TestBuild_MissingParameter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role  network.NodeType
		clear func(*Params)
		want  string
	}{
		{network.NodeTypeBootnode, func(p *Params) { p.BootNodeIP = "" }, "bootNodeIP"},
		{network.NodeTypeBootnode, func(p *Params) { p.Subnet = "" }, "subnet"},
		{network.NodeTypeMiner, func(p *Params) { p.Account = "" }, "account"},
		{network.NodeTypeMiner, func(p *Params) { p.BootnodeEnode = "" }, "bootnodeEnode"},
		{network.NodeTypeRPC, func(p *Params) { p.Port = 0 }, "port"},
		{network.NodeTypeRPC, func(p *Params) { p.ChainID = "" }, "chainId"},
		{network.NodeTypeNormal, func(p *Params) { p.NodeIP = "" }, "nodeIP"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.want, func(t *testing.T) {
			t.Parallel()
			p := fullParams()
			tt.clear(&p)
			_, err := Build(tt.role, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingParameter))
			assert.Contains(t, err.Error(), string(tt.role))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_UnknownRole(t *testing.T) {
	t.Parallel()

	_, err := Build("validator", fullParams())
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestMustBuild(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { MustBuild(network.NodeTypeNormal, fullParams()) })
	assert.Panics(t, func() { MustBuild("validator", fullParams()) })
}
