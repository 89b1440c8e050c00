package claimer

import "github.com/ethereum/go-ethereum/common"

type Activation int

const (
	ActivationUnknown Activation = iota
	ActivationAlreadyActive
	ActivationActivated
	// ActivationPending means the relayer answered without a tx hash.
	ActivationPending
	ActivationFailed
)

func (a Activation) String() string {
	switch a {
	case ActivationAlreadyActive:
		return "already_active"
	case ActivationActivated:
		return "activated"
	case ActivationPending:
		return "not_confirmed"
	case ActivationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one wallet.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeMinted
	OutcomeAlreadyMinted
	OutcomeNotEligible
	OutcomeMintFailed
	// OutcomeCheckFailed means the eligibility check ran out of retries.
	OutcomeCheckFailed
	// OutcomeAborted means the workflow never reached a decision, e.g. a bad key.
	OutcomeAborted
)

var outcomeNames = map[Outcome]string{
	OutcomeUnknown:       "unknown",
	OutcomeMinted:        "minted",
	OutcomeAlreadyMinted: "already_minted",
	OutcomeNotEligible:   "not_eligible",
	OutcomeMintFailed:    "mint_failed",
	OutcomeCheckFailed:   "check_failed",
	OutcomeAborted:       "aborted",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Report is what one wallet produced. It is logged, never stored.
type Report struct {
	ID         int
	Address    common.Address
	Activation Activation
	Outcome    Outcome
	TxHash     string
	Err        error
}
