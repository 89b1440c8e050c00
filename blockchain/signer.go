package blockchain

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

// ErrInvalidCredential is returned for private keys of the wrong length or format.
var ErrInvalidCredential = errors.New("invalid private key")

// Wallet signs on behalf of one private key. It holds no mutable state.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

func NewWallet(privateKeyHex string) (*Wallet, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCredential, err.Error())
	}

	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.Wrap(ErrInvalidCredential, "error casting public key to ECDSA")
	}

	return &Wallet{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*publicKeyECDSA),
	}, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

// SignText signs the personal_sign hash of text. V is 27 or 28.
func (w *Wallet) SignText(text string) ([]byte, error) {
	return w.sign(accounts.TextHash([]byte(text)))
}

// SignTypedData signs the EIP-712 digest of td. V is 27 or 28.
func (w *Wallet) SignTypedData(td apitypes.TypedData) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, errors.Wrap(err, "failed on hash typed data")
	}
	return w.sign(hash)
}

func (w *Wallet) sign(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, w.privateKey)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverTypedData returns the address that produced sig over td.
func RecoverTypedData(td apitypes.TypedData, sig []byte) (common.Address, error) {
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed on hash typed data")
	}
	return recoverAddress(hash, sig)
}

// RecoverText returns the address that produced sig over the personal_sign hash of text.
func RecoverText(text string, sig []byte) (common.Address, error) {
	return recoverAddress(accounts.TextHash([]byte(text)), sig)
}

func recoverAddress(hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, errors.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
