package genesis

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"

	"github.com/imamik/cliquenet/internal/network"
)

// Layout of the clique extradata field.
const (
	ExtraVanity = 32 // leading zero bytes
	ExtraSeal   = 65 // trailing zero bytes reserved for the block signature
)

// Fixed genesis parameters.
const (
	Difficulty    = "1"
	GasLimit      = "8000000"
	CliquePeriod  = 5
	CliqueEpoch   = 30000
	FaucetBalance = "10000000000000000000000000000"
	SignerBalance = "1000000000000000000000" // 1000 ether
)

// ErrInvalidAddress is returned for an account that is not 40 hex characters.
var ErrInvalidAddress = errors.New("invalid account address")

// Account is a genesis balance in wei.
type Account struct {
	Balance string `json:"balance"`
}

// Genesis is the document consumed by `geth init`.
type Genesis struct {
	Config     *params.ChainConfig `json:"config"`
	Difficulty string              `json:"difficulty"`
	GasLimit   string              `json:"gasLimit"`
	ExtraData  string              `json:"extradata"`
	Alloc      map[string]Account  `json:"alloc"`
}

// Build creates the genesis document for n. accounts[0] is the faucet account and
// accounts[1:] are the signers in the order they must appear in extradata.
func Build(n *network.Network, accounts []string) (*Genesis, error) {
	if len(accounts) < 2 {
		return nil, fmt.Errorf("need a faucet account and at least one signer, got %d accounts", len(accounts))
	}

	addrs := make([]common.Address, 0, len(accounts))
	for _, a := range accounts {
		addr, err := parseAddress(a)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}

	faucet, signers := addrs[0], addrs[1:]

	alloc, err := buildAlloc(faucet, signers, n.Allocations)
	if err != nil {
		return nil, err
	}

	return &Genesis{
		Config:     chainConfig(n.ChainID),
		Difficulty: Difficulty,
		GasLimit:   GasLimit,
		ExtraData:  EncodeExtradata(signers),
		Alloc:      alloc,
	}, nil
}

// EncodeExtradata lays out 32 zero bytes, the signer addresses and 65 zero bytes,
// hex encoded with a 0x prefix.
func EncodeExtradata(signers []common.Address) string {
	extra := make([]byte, 0, ExtraVanity+len(signers)*common.AddressLength+ExtraSeal)
	extra = append(extra, make([]byte, ExtraVanity)...)
	for _, s := range signers {
		extra = append(extra, s.Bytes()...)
	}
	extra = append(extra, make([]byte, ExtraSeal)...)
	return hexutil.Encode(extra)
}

// DecodeExtradata recovers the ordered signer list from an extradata string.
func DecodeExtradata(extradata string) ([]common.Address, error) {
	extra, err := hexutil.Decode(extradata)
	if err != nil {
		return nil, fmt.Errorf("decode extradata: %w", err)
	}
	if len(extra) < ExtraVanity+ExtraSeal {
		return nil, fmt.Errorf("extradata is %d bytes, need at least %d", len(extra), ExtraVanity+ExtraSeal)
	}

	body := extra[ExtraVanity : len(extra)-ExtraSeal]
	if len(body)%common.AddressLength != 0 {
		return nil, fmt.Errorf("signer section of %d bytes is not a multiple of %d", len(body), common.AddressLength)
	}

	signers := make([]common.Address, 0, len(body)/common.AddressLength)
	for i := 0; i < len(body); i += common.AddressLength {
		signers = append(signers, common.BytesToAddress(body[i:i+common.AddressLength]))
	}
	return signers, nil
}

// AllocKey is the alloc map key for addr: lowercase hex without prefix.
func AllocKey(addr common.Address) string {
	return hex.EncodeToString(addr.Bytes())
}

// JSON returns the indented document as written to genesis.json.
func (g *Genesis) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal genesis: %w", err)
	}
	return append(data, '\n'), nil
}

// Signers decodes the signer list of g.
func (g *Genesis) Signers() ([]common.Address, error) {
	return DecodeExtradata(g.ExtraData)
}

// buildAlloc funds the faucet and every signer. An explicit allocation for a
// signer replaces its default balance.
func buildAlloc(faucet common.Address, signers []common.Address, allocs []network.Allocation) (map[string]Account, error) {
	alloc := map[string]Account{
		AllocKey(faucet): {Balance: FaucetBalance},
	}
	for _, s := range signers {
		alloc[AllocKey(s)] = Account{Balance: SignerBalance}
	}
	for _, a := range allocs {
		addr, err := parseAddress(a.Address)
		if err != nil {
			return nil, err
		}
		alloc[AllocKey(addr)] = Account{Balance: ToWei(a.Value).String()}
	}
	return alloc, nil
}

// ToWei converts an ether amount to wei.
func ToWei(ether uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(ether), big.NewInt(params.Ether))
}

func chainConfig(chainID uint64) *params.ChainConfig {
	zero := func() *big.Int { return big.NewInt(0) }
	return &params.ChainConfig{
		ChainID:             new(big.Int).SetUint64(chainID),
		HomesteadBlock:      zero(),
		EIP150Block:         zero(),
		EIP155Block:         zero(),
		EIP158Block:         zero(),
		ByzantiumBlock:      zero(),
		ConstantinopleBlock: zero(),
		PetersburgBlock:     zero(),
		IstanbulBlock:       zero(),
		BerlinBlock:         zero(),
		LondonBlock:         zero(),
		Clique: &params.CliqueConfig{
			Period: CliquePeriod,
			Epoch:  CliqueEpoch,
		},
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q is not a 40 character hex string", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
