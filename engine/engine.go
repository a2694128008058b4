// Package engine runs simulation plans against a sandbox and reports per batch account
// mutations.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/types"
)

const (
	DefaultConcurrency = 4
	DefaultChunkSize   = 100
)

// Engine stages accounts into a sandbox and executes plan batches in order.
type Engine struct {
	sandbox sdk.Sandbox
	source  sdk.AccountSource

	policy      LoadPolicy
	lggr        sdk.Logger
	concurrency int
	chunkSize   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLoadPolicy sets how missing or unloadable accounts are handled. Defaults to strict.
func WithLoadPolicy(policy LoadPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithLogger sets the logger. Defaults to the logger carried by the run context.
func WithLogger(lggr sdk.Logger) Option {
	return func(e *Engine) {
		e.lggr = lggr
	}
}

// WithConcurrency sets how many account requests run at the same time.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithChunkSize sets how many addresses are sent in one account request.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// New creates an Engine that executes against sandbox and loads accounts from source.
func New(sandbox sdk.Sandbox, source sdk.AccountSource, opts ...Option) *Engine {
	e := &Engine{
		sandbox:     sandbox,
		source:      source,
		policy:      LoadPolicyStrict,
		concurrency: DefaultConcurrency,
		chunkSize:   DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run executes the plan. Staging failures (loading under the strict policy, overrides and the
// clock) abort the run with an error. Batch failures never do: they are recorded in the results
// and the next batch runs.
func (e *Engine) Run(ctx context.Context, plan Plan) (*Results, error) {
	lggr := e.logger(ctx)
	results := &Results{}

	if err := e.load(ctx, lggr, plan, results); err != nil {
		return nil, err
	}

	overridden := slices.SortedFunc(maps.Keys(plan.Overrides), func(a, b solana.PublicKey) int {
		return bytes.Compare(a[:], b[:])
	})
	results.Overrides = make([]types.AccountSnapshot, 0, len(overridden))
	for _, address := range overridden {
		state := plan.Overrides[address]
		if err := e.sandbox.SetAccount(ctx, address, state); err != nil {
			return nil, fmt.Errorf("unable to apply override %s: %w", address, err)
		}
		results.Overrides = append(results.Overrides, types.NewAccountSnapshot(address, state))
	}
	lggr.Debugw("Applied overrides", "count", len(overridden))

	if plan.Clock != nil {
		if err := e.sandbox.AdvanceClock(ctx, *plan.Clock); err != nil {
			return nil, fmt.Errorf("unable to set sandbox clock: %w", err)
		}
		lggr.Debugw("Set sandbox clock", "time", plan.Clock.UTC())
	}

	results.Batches = make([]BatchResult, 0, len(plan.Batches))
	for i := range plan.Batches {
		result := e.runBatch(ctx, plan, i)
		if result.Success {
			lggr.Infow("Batch succeeded", "index", i, "label", result.Label, "mutations", len(result.Mutations))
		} else {
			lggr.Warnw("Batch failed", "index", i, "label", result.Label, "error", result.Error)
		}
		results.Batches = append(results.Batches, result)
	}

	return results, nil
}

func (e *Engine) logger(ctx context.Context) sdk.Logger {
	if e.lggr != nil {
		return e.lggr
	}

	return sdk.LoggerFrom(ctx)
}

// runBatch executes one batch and converts every failure, including a panic, into a failed
// result.
func (e *Engine) runBatch(ctx context.Context, plan Plan, i int) (result BatchResult) {
	batch := plan.Batches[i]
	result = BatchResult{Index: i, Label: batch.Label, Logs: []string{}, Mutations: []Mutation{}}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("panic: %v", r)
			result.Mutations = []Mutation{}
		}
	}()

	fail := func(err error) BatchResult {
		result.Error = err.Error()
		var txErr *sdk.TransactionError
		if errors.As(err, &txErr) && txErr.Logs != nil {
			result.Logs = txErr.Logs
		}

		return result
	}

	feePayer := plan.feePayerFor(i)
	if feePayer.IsZero() {
		return fail(errors.New("batch has no fee payer"))
	}
	if batch.FundLamports > 0 {
		if err := e.sandbox.FundAccount(ctx, feePayer, batch.FundLamports); err != nil {
			return fail(fmt.Errorf("unable to fund fee payer %s: %w", feePayer, err))
		}
	}

	tracked := dedupe(plan.TrackedAccountsFor(i))
	before, err := e.snapshot(ctx, tracked)
	if err != nil {
		return fail(err)
	}

	if err = e.sandbox.Submit(ctx, feePayer, batch.Instructions); err != nil {
		return fail(err)
	}

	after, err := e.snapshot(ctx, tracked)
	if err != nil {
		return fail(err)
	}

	result.Success = true
	result.Mutations = ComputeMutations(tracked, before, after)

	return result
}

func (e *Engine) snapshot(ctx context.Context, addresses []solana.PublicKey) (map[solana.PublicKey]types.AccountSnapshot, error) {
	snapshots := make(map[solana.PublicKey]types.AccountSnapshot, len(addresses))
	for _, address := range addresses {
		state, exists, err := e.sandbox.GetAccount(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("unable to snapshot account %s: %w", address, err)
		}
		if exists {
			snapshots[address] = types.NewAccountSnapshot(address, state)
		}
	}

	return snapshots, nil
}

// fetch reads one chunk from the source. A panic in the source fails the chunk.
func (e *Engine) fetch(ctx context.Context, addresses []solana.PublicKey) (accounts map[solana.PublicKey]types.AccountState, err error) {
	defer func() {
		if r := recover(); r != nil {
			accounts, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	return e.source.GetAccounts(ctx, addresses)
}

type chunkResult struct {
	addresses []solana.PublicKey
	accounts  map[solana.PublicKey]types.AccountState
	err       error
}

// load fetches the plan accounts that are not overridden and writes them to the sandbox.
func (e *Engine) load(ctx context.Context, lggr sdk.Logger, plan Plan, results *Results) error {
	addresses := make([]solana.PublicKey, 0, len(plan.Accounts))
	for _, address := range dedupe(plan.Accounts) {
		if _, ok := plan.Overrides[address]; !ok {
			addresses = append(addresses, address)
		}
	}

	chunks := make([]chunkResult, 0, (len(addresses)+e.chunkSize-1)/e.chunkSize)
	for start := 0; start < len(addresses); start += e.chunkSize {
		end := min(start+e.chunkSize, len(addresses))
		chunks = append(chunks, chunkResult{addresses: addresses[start:end]})
	}

	// errors are recorded per chunk and never cancel the group
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range chunks {
		g.Go(func() error {
			chunks[i].accounts, chunks[i].err = e.fetch(ctx, chunks[i].addresses)
			return nil
		})
	}
	_ = g.Wait()

	var (
		missing []solana.PublicKey
		failed  []AccountFailure
	)
	loaded := make([]types.AccountSnapshot, 0, len(addresses))
	for _, chunk := range chunks {
		for _, address := range chunk.addresses {
			if chunk.err != nil {
				failed = append(failed, AccountFailure{Address: address, Error: chunk.err.Error()})
				continue
			}
			state, ok := chunk.accounts[address]
			if !ok {
				missing = append(missing, address)
				continue
			}
			loaded = append(loaded, types.NewAccountSnapshot(address, state))
		}
	}

	if len(missing) > 0 || len(failed) > 0 {
		if e.policy == LoadPolicyStrict {
			return NewAccountLoadError(missing, failed)
		}

		for _, address := range missing {
			lggr.Warnw("Account not found, skipping", "address", address)
		}
		for _, failure := range failed {
			lggr.Warnw("Account could not be loaded, skipping", "address", failure.Address, "error", failure.Error)
		}
		results.MissingAccounts = missing
		results.FailedAccounts = failed
	}

	for _, snapshot := range loaded {
		if err := e.sandbox.SetAccount(ctx, snapshot.Address, snapshot.AccountState); err != nil {
			return fmt.Errorf("unable to stage account %s: %w", snapshot.Address, err)
		}
	}
	results.LoadedAccounts = loaded
	lggr.Debugw("Loaded accounts", "loaded", len(loaded), "missing", len(missing), "failed", len(failed))

	return nil
}
