package claimer

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/WhereIsMyMindDL/ReyaOGClaimer/blockchain"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/config"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/reya"
)

// ErrMalformedStatus is returned when the mint status lacks the fields needed to decide.
var ErrMalformedStatus = errors.New("malformed mint status")

// API is the part of the Reya API the workflow needs.
type API interface {
	Account(ctx context.Context, address common.Address) (reya.AccountRecord, error)
	AddTermsSignature(ctx context.Context, req reya.TermsSignature) error
	ExecuteGelato(ctx context.Context, req reya.GelatoRequest) (reya.TxResponse, error)
	MintStatus(ctx context.Context, address common.Address, tokenCount int64) (reya.MintStatus, error)
	Mint(ctx context.Context, req reya.MintRequest) (reya.TxResponse, error)
}

// Settings are the per-round constants shared by every workflow of a batch.
type Settings struct {
	Claim      config.ClaimConfig
	Activation config.ActivationConfig
	Retry      RetryPolicy
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Claim:      cfg.Claim,
		Activation: cfg.Activation,
		Retry: RetryPolicy{
			Attempts: cfg.Retry.Attempts,
			Backoff:  cfg.Retry.Backoff,
		},
	}
}

type eligibility int

const (
	eligibleUnclaimed eligibility = iota
	eligibleClaimed
	notEligible
)

func classify(status reya.MintStatus) (eligibility, error) {
	if status.IsEligible == nil {
		return 0, errors.Wrap(ErrMalformedStatus, "isEligible is missing")
	}
	if !*status.IsEligible {
		return notEligible, nil
	}
	if status.HasMinted == nil {
		return 0, errors.Wrap(ErrMalformedStatus, "hasMinted is missing")
	}
	if *status.HasMinted {
		return eligibleClaimed, nil
	}
	return eligibleUnclaimed, nil
}

// Workflow claims for a single wallet: activate if needed, check eligibility,
// sign and submit the claim.
type Workflow struct {
	id       int
	wallet   *blockchain.Wallet
	api      API
	settings Settings
	log      *zap.Logger
	now      func() time.Time
}

func NewWorkflow(id int, wallet *blockchain.Wallet, api API, settings Settings, log *zap.Logger) *Workflow {
	return &Workflow{
		id:       id,
		wallet:   wallet,
		api:      api,
		settings: settings,
		log:      log.With(zap.Int("id", id), zap.String("address", wallet.Address().Hex())),
		now:      time.Now,
	}
}

func (w *Workflow) Run(ctx context.Context) Report {
	report := Report{
		ID:      w.id,
		Address: w.wallet.Address(),
	}

	report.Activation = w.activate(ctx)

	res := Retry(ctx, w.settings.Retry, func(ctx context.Context, attempt int) (eligibility, error) {
		state, err := w.check(ctx)
		if err != nil {
			w.log.Debug("eligibility check failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return state, err
	})
	if !res.OK() {
		report.Outcome = OutcomeCheckFailed
		report.Err = res.Err
		w.log.Warn("could not check eligibility", zap.Int("attempts", res.Attempts), zap.Error(res.Err))
		return report
	}

	switch res.Value {
	case eligibleClaimed:
		report.Outcome = OutcomeAlreadyMinted
		w.log.Info("already minted")
	case notEligible:
		report.Outcome = OutcomeNotEligible
		w.log.Info("not eligible")
	case eligibleUnclaimed:
		w.log.Info("eligible")
		report.Outcome, report.TxHash, report.Err = w.submit(ctx)
	}
	return report
}

// activate creates the margin account when the lookup comes back empty.
// Failures are logged and never stop the eligibility check.
func (w *Workflow) activate(ctx context.Context) Activation {
	address := w.wallet.Address()

	record, err := w.api.Account(ctx, address)
	if err != nil {
		w.log.Warn("failed on account lookup", zap.Error(err))
		return ActivationFailed
	}
	if record.Exists() {
		return ActivationAlreadyActive
	}

	w.log.Info("account is not activated")
	terms := w.settings.Activation

	sig, err := w.wallet.SignText(terms.TermsText)
	if err != nil {
		w.log.Warn("failed on sign terms", zap.Error(err))
		return ActivationFailed
	}

	err = w.api.AddTermsSignature(ctx, reya.TermsSignature{
		Signature:     hexutil.Encode(sig),
		WalletAddress: address.Hex(),
		Message:       terms.TermsText,
		Version:       terms.TermsVersion,
	})
	if err != nil {
		w.log.Warn("failed on add terms signature", zap.Error(err))
	}

	data, err := blockchain.CreateAccountCalldata(terms.CreateSelector, address)
	if err != nil {
		w.log.Warn("failed on build create account calldata", zap.Error(err))
		return ActivationFailed
	}

	resp, err := w.api.ExecuteGelato(ctx, reya.GelatoRequest{
		TxData: reya.GelatoTxData{
			To:   terms.AccountContract,
			Data: data,
		},
		ContractAddress: terms.AccountContract,
		Metadata: reya.GelatoMetadata{
			AccountName: terms.AccountName,
			Action:      "createAccount",
			Sender:      address.Hex(),
		},
	})
	if err != nil {
		w.log.Warn("failed on create account", zap.Error(err))
		return ActivationFailed
	}
	if !resp.Sent() {
		w.log.Info("account activation not confirmed")
		return ActivationPending
	}

	w.log.Info("account activated", zap.String("tx_hash", *resp.TxHash))
	return ActivationActivated
}

func (w *Workflow) check(ctx context.Context) (eligibility, error) {
	status, err := w.api.MintStatus(ctx, w.wallet.Address(), w.settings.Claim.TokenRootCount)
	if err != nil {
		return 0, err
	}
	return classify(status)
}

func (w *Workflow) claimMessage() blockchain.ClaimMessage {
	c := w.settings.Claim
	return blockchain.ClaimMessage{
		Domain: blockchain.ClaimDomain{
			Name:              c.DomainName,
			Version:           c.DomainVersion,
			VerifyingContract: common.HexToAddress(c.VerifyingContract),
		},
		VerifyingChainID: big.NewInt(c.VerifyingChainID),
		Owner:            w.wallet.Address(),
		TokenRootCount:   big.NewInt(c.TokenRootCount),
		MerkleRoot:       common.HexToHash(c.MerkleRoot),
		Deadline:         blockchain.DeadlineAfter(w.now(), c.SignatureValidity),
	}
}

// submit sends the signed claim once. Errors become OutcomeMintFailed.
func (w *Workflow) submit(ctx context.Context) (Outcome, string, error) {
	msg := w.claimMessage()

	signed, err := w.wallet.SignClaim(msg)
	if err != nil {
		w.log.Warn("failed on sign claim", zap.Error(err))
		return OutcomeMintFailed, "", err
	}

	resp, err := w.api.Mint(ctx, reya.MintRequest{
		Owner:             msg.Owner.Hex(),
		MerkleRoot:        msg.MerkleRoot.Hex(),
		TokenRootCounter:  msg.TokenRootCount.Int64(),
		Signature:         "0x" + signed.Signature,
		SignatureDeadline: signed.Deadline,
	})
	if err != nil {
		w.log.Warn("not minted", zap.Error(err))
		return OutcomeMintFailed, "", err
	}
	if !resp.Sent() {
		w.log.Info("not minted")
		return OutcomeMintFailed, "", nil
	}

	w.log.Info("success minted", zap.String("tx_hash", *resp.TxHash))
	return OutcomeMinted, *resp.TxHash, nil
}
