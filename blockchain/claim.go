package blockchain

import (
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ClaimDomain is the EIP-712 domain of the mint contract.
type ClaimDomain struct {
	Name              string
	Version           string
	VerifyingContract common.Address
}

// ClaimMessage is the MintBySig payload. Owner doubles as the leaf owner.
type ClaimMessage struct {
	Domain           ClaimDomain
	VerifyingChainID *big.Int
	Owner            common.Address
	TokenRootCount   *big.Int
	MerkleRoot       common.Hash
	Deadline         int64
}

// SignedClaim is what the mint endpoint expects next to the claim fields.
// Signature is hex without the 0x prefix.
type SignedClaim struct {
	Signature string
	Deadline  int64
}

var claimTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "verifyingContract", Type: "address"},
	},
	"MintBySig": {
		{Name: "verifyingChainId", Type: "uint256"},
		{Name: "owner", Type: "address"},
		{Name: "leafInfo", Type: "LeafInfo"},
		{Name: "merkleRoot", Type: "bytes32"},
		{Name: "deadline", Type: "uint256"},
	},
	"LeafInfo": {
		{Name: "owner", Type: "address"},
		{Name: "tokenRootCount", Type: "uint256"},
	},
}

// DeadlineAfter returns the unix deadline validity after now.
func DeadlineAfter(now time.Time, validity time.Duration) int64 {
	return now.Add(validity).Unix()
}

func (m ClaimMessage) TypedData() apitypes.TypedData {
	return apitypes.TypedData{
		Types:       claimTypes,
		PrimaryType: "MintBySig",
		Domain: apitypes.TypedDataDomain{
			Name:              m.Domain.Name,
			Version:           m.Domain.Version,
			VerifyingContract: m.Domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"verifyingChainId": formatUint(m.VerifyingChainID),
			"owner":            m.Owner.Hex(),
			"leafInfo": map[string]interface{}{
				"owner":          m.Owner.Hex(),
				"tokenRootCount": formatUint(m.TokenRootCount),
			},
			"merkleRoot": m.MerkleRoot.Hex(),
			"deadline":   formatInt(m.Deadline),
		},
	}
}

// SignClaim signs m with the wallet key.
func (w *Wallet) SignClaim(m ClaimMessage) (SignedClaim, error) {
	sig, err := w.SignTypedData(m.TypedData())
	if err != nil {
		return SignedClaim{}, err
	}
	return SignedClaim{
		Signature: common.Bytes2Hex(sig),
		Deadline:  m.Deadline,
	}, nil
}

func formatUint(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
