package reya

import (
	"context"
	"encoding/json"
	"fmt"

	http_tls "github.com/bogdanfinn/fhttp"
	"github.com/ethereum/go-ethereum/common"
)

// AccountRecord is the raw account lookup. The API answers {} for wallets
// without an on-chain margin account.
type AccountRecord map[string]json.RawMessage

func (a AccountRecord) Exists() bool {
	return len(a) > 0
}

type TermsSignature struct {
	Signature     string `json:"signature"`
	WalletAddress string `json:"walletAddress"`
	Message       string `json:"message"`
	Version       string `json:"version"`
}

type GelatoTxData struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type GelatoMetadata struct {
	AccountName string `json:"accountName"`
	Action      string `json:"action"`
	Sender      string `json:"sender"`
}

type GelatoRequest struct {
	TxData          GelatoTxData   `json:"txData"`
	ContractAddress string         `json:"contractAddress"`
	Metadata        GelatoMetadata `json:"metadata"`
}

// TxResponse is returned by the relayer and the mint endpoint. TxHash is nil
// when nothing was sent.
type TxResponse struct {
	TxHash *string `json:"txHash,omitempty"`
}

func (r TxResponse) Sent() bool {
	return r.TxHash != nil && *r.TxHash != ""
}

// MintStatus fields are pointers so a missing field can be told apart from false.
type MintStatus struct {
	IsEligible *bool `json:"isEligible"`
	HasMinted  *bool `json:"hasMinted"`
}

type MintRequest struct {
	Owner             string `json:"owner"`
	MerkleRoot        string `json:"merkleRoot"`
	TokenRootCounter  int64  `json:"tokenRootCounter"`
	Signature         string `json:"signature"`
	SignatureDeadline int64  `json:"signatureDeadline"`
}

func (c *Client) Account(ctx context.Context, address common.Address) (AccountRecord, error) {
	var record AccountRecord
	if err := c.Do(ctx, http_tls.MethodGet, "/api/accounts/"+address.Hex(), nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Client) AddTermsSignature(ctx context.Context, req TermsSignature) error {
	return c.Do(ctx, http_tls.MethodPost, "/api/owner/tos/add-signature", req, nil)
}

func (c *Client) ExecuteGelato(ctx context.Context, req GelatoRequest) (TxResponse, error) {
	var resp TxResponse
	err := c.Do(ctx, http_tls.MethodPost, "/api/transaction-gelato/executeGelato", req, &resp)
	return resp, err
}

func (c *Client) MintStatus(ctx context.Context, address common.Address, tokenCount int64) (MintStatus, error) {
	var status MintStatus
	path := fmt.Sprintf("/api/sbt/mint-status/owner/%s/tokenCount/%d", address.Hex(), tokenCount)
	err := c.Do(ctx, http_tls.MethodGet, path, nil, &status)
	return status, err
}

func (c *Client) Mint(ctx context.Context, req MintRequest) (TxResponse, error) {
	var resp TxResponse
	err := c.Do(ctx, http_tls.MethodPut, "/api/sbt/mint", req, &resp)
	return resp, err
}
