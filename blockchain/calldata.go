package blockchain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// CreateAccountCalldata encodes selector(owner) with owner left padded to one word.
func CreateAccountCalldata(selector string, owner common.Address) (string, error) {
	selectorBytes, err := hexutil.Decode(selector)
	if err != nil {
		return "", errors.Wrapf(err, "bad function selector %q", selector)
	}
	if len(selectorBytes) != 4 {
		return "", errors.Errorf("function selector must be 4 bytes, got %d", len(selectorBytes))
	}

	data := make([]byte, 0, 4+common.HashLength)
	data = append(data, selectorBytes...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), common.HashLength)...)
	return hexutil.Encode(data), nil
}
