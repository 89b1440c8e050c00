package claimer

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/WhereIsMyMindDL/ReyaOGClaimer/reya"
)

// fakeAPI scripts API answers and records every call.
type fakeAPI struct {
	mu sync.Mutex

	account    reya.AccountRecord
	accountErr error
	termsErr   error
	gelato     reya.TxResponse
	gelatoErr  error
	statuses   []reya.MintStatus
	statusErrs []error
	mint       reya.TxResponse
	mintErr    error
	onAccount  func()

	accountCalls int
	terms        []reya.TermsSignature
	gelatoReqs   []reya.GelatoRequest
	statusCalls  int
	mints        []reya.MintRequest
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func status(eligible, minted bool) reya.MintStatus {
	return reya.MintStatus{IsEligible: boolPtr(eligible), HasMinted: boolPtr(minted)}
}

func (f *fakeAPI) Account(ctx context.Context, address common.Address) (reya.AccountRecord, error) {
	if f.onAccount != nil {
		f.onAccount()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	return f.account, f.accountErr
}

func (f *fakeAPI) AddTermsSignature(ctx context.Context, req reya.TermsSignature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, req)
	return f.termsErr
}

func (f *fakeAPI) ExecuteGelato(ctx context.Context, req reya.GelatoRequest) (reya.TxResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gelatoReqs = append(f.gelatoReqs, req)
	return f.gelato, f.gelatoErr
}

// MintStatus answers statuses[i] / statusErrs[i] on the i-th call, repeating the last entry.
func (f *fakeAPI) MintStatus(ctx context.Context, address common.Address, tokenCount int64) (reya.MintStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.statusCalls
	f.statusCalls++

	var err error
	if len(f.statusErrs) > 0 {
		err = f.statusErrs[min(i, len(f.statusErrs)-1)]
	}
	if err != nil {
		return reya.MintStatus{}, err
	}
	if len(f.statuses) == 0 {
		return reya.MintStatus{}, nil
	}
	return f.statuses[min(i, len(f.statuses)-1)], nil
}

func (f *fakeAPI) Mint(ctx context.Context, req reya.MintRequest) (reya.TxResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mints = append(f.mints, req)
	return f.mint, f.mintErr
}
