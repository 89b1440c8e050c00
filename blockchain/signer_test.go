package blockchain

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01166b3d5c9"

func testWallet(t *testing.T) *Wallet {
	t.Helper()
	w, err := NewWallet("0x" + testKey)
	require.NoError(t, err)
	return w
}

func testClaim(owner common.Address) ClaimMessage {
	return ClaimMessage{
		Domain: ClaimDomain{
			Name:              "Reya",
			Version:           "1",
			VerifyingContract: common.HexToAddress("0x14d7c1efc024e118df70b241afbd2447d37f1ed6"),
		},
		VerifyingChainID: big.NewInt(1729),
		Owner:            owner,
		TokenRootCount:   big.NewInt(0),
		MerkleRoot:       common.HexToHash("0xbc6264e25255e1b3d456ec287615879c2525828345a3d4d4c09eb11baa2d201f"),
		Deadline:         1720000000,
	}
}

func TestNewWallet(t *testing.T) {
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	expected := crypto.PubkeyToAddress(key.PublicKey)

	for _, in := range []string{testKey, "0x" + testKey, "  " + testKey + "\n"} {
		w, err := NewWallet(in)
		require.NoError(t, err)
		assert.Equal(t, expected, w.Address())
	}
}

func TestNewWalletInvalid(t *testing.T) {
	for _, in := range []string{"", "0x1234", "zz" + testKey[2:], testKey + "00"} {
		_, err := NewWallet(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidCredential), in)
	}
}

func TestSignText(t *testing.T) {
	w := testWallet(t)
	text := "Reya Labs Limited Terms and Conditions"

	sig, err := w.SignText(text)
	require.NoError(t, err)
	require.Len(t, sig, crypto.SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[crypto.RecoveryIDOffset])

	signer, err := RecoverText(text, sig)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), signer)

	other, err := RecoverText(text+".", sig)
	require.NoError(t, err)
	assert.NotEqual(t, w.Address(), other)
}

func TestSignClaimDeterministic(t *testing.T) {
	w := testWallet(t)
	msg := testClaim(w.Address())

	first, err := w.SignClaim(msg)
	require.NoError(t, err)
	second, err := w.SignClaim(msg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Signature, 130)
	assert.NotContains(t, first.Signature, "0x")
	assert.Equal(t, msg.Deadline, first.Deadline)
}

func TestSignClaimRecoversOwner(t *testing.T) {
	w := testWallet(t)
	msg := testClaim(w.Address())

	signed, err := w.SignClaim(msg)
	require.NoError(t, err)

	signer, err := RecoverTypedData(msg.TypedData(), common.FromHex(signed.Signature))
	require.NoError(t, err)
	assert.Equal(t, w.Address(), signer)

	msg.Deadline++
	changed, err := w.SignClaim(msg)
	require.NoError(t, err)
	assert.NotEqual(t, signed.Signature, changed.Signature)
}

func TestDeadlineAfter(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, int64(1700600000), DeadlineAfter(now, 600000*time.Second))
}

func TestCreateAccountCalldata(t *testing.T) {
	owner := common.HexToAddress("0x5AfFeb5fcD283816ab4e926F380F9D0CBBA04d0e")

	data, err := CreateAccountCalldata("0x9859387b", owner)
	require.NoError(t, err)
	assert.Equal(t, "0x9859387b0000000000000000000000005affeb5fcd283816ab4e926f380f9d0cbba04d0e", data)

	_, err = CreateAccountCalldata("0x9859", owner)
	assert.Error(t, err)
	_, err = CreateAccountCalldata("nothex", owner)
	assert.Error(t, err)
}
