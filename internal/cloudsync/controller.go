// Package cloudsync decides, for every read and write, whether MotoDash
// talks to the remote store or the on-device cache, and reconciles the two
// across connectivity gaps, cold starts and edits from other devices.
//
// The consistency model is deliberately simple: after any successful remote
// write the owning collection is re-fetched wholesale, so the canonical
// in-memory lists always reflect what the server returned, never a
// client-constructed guess. Two devices writing concurrently can lose
// updates (last full re-fetch wins); there is no cross-device conflict
// resolution here.
package cloudsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/johnathamoeda-glitch/MotoDash/internal/cache"
	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
	"github.com/johnathamoeda-glitch/MotoDash/internal/remote"
)

// Mode is the controller's operating mode for the session.
type Mode string

const (
	// ModeLocalOnly routes all reads and writes to the on-device cache,
	// either because no remote credentials are configured or because the
	// bootstrap fetch failed (degraded).
	ModeLocalOnly Mode = "local-only"

	// ModeRemoteActive routes writes to the remote store and keeps the
	// cache as a write-through mirror of remote state.
	ModeRemoteActive Mode = "remote-active"
)

// SyncState describes the controller's current relationship with the remote
// store. It is process-wide and never persisted.
type SyncState struct {
	Mode     Mode      `json:"mode"`
	LastSync time.Time `json:"lastSyncTimestamp"`
	Syncing  bool      `json:"isSyncing"`
}

// Controller owns the canonical in-memory transaction and goal lists. Both
// stores are written exclusively through it; consumers get read-only copies.
type Controller struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	goals        []domain.Goal
	state        SyncState
	client       remote.Service // nil means no remote configured
	inFlight     int
	generation   int // bumped on Reconfigure/Close so stale fetch results are discarded

	// Per-collection guards serialize remote round trips so a slow silent
	// refresh cannot clobber the re-fetch of a just-completed mutation.
	txOps   sync.Mutex
	goalOps sync.Mutex

	store        *cache.Store
	pollInterval time.Duration
	log          zerolog.Logger

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// New creates a controller. client may be nil when no remote store is
// configured. Call Init before anything else.
func New(store *cache.Store, client remote.Service, pollInterval time.Duration, log zerolog.Logger) *Controller {
	return &Controller{
		client:       client,
		store:        store,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Init performs the session bootstrap. With no remote client the controller
// enters local-only mode seeded from the cache. With a client it attempts a
// first fetch of both collections: success enters remote-active with the
// cache refreshed as a mirror, failure degrades to local-only seeded from
// whatever the cache holds. Degradation is one-way for the session until a
// later poll tick or explicit refresh succeeds.
func (c *Controller) Init(ctx context.Context) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		c.seedFromCache()
		c.log.Info().Msg("No remote store configured, running local-only")
		return
	}

	if err := c.Refresh(ctx, false); err != nil {
		c.log.Warn().Err(err).Msg("Bootstrap fetch failed, degrading to local-only")
		c.seedFromCache()
	}

	c.startPoller()
}

// seedFromCache loads both collections from the on-device snapshots and
// enters local-only mode. Absent or corrupted snapshots yield empty lists.
func (c *Controller) seedFromCache() {
	var txs []domain.Transaction
	var goals []domain.Goal
	c.store.Get(cache.CollectionTransactions, &txs)
	c.store.Get(cache.CollectionGoals, &goals)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = txs
	c.goals = goals
	c.state.Mode = ModeLocalOnly
}

// Transactions returns a read-only copy of the canonical transaction list.
func (c *Controller) Transactions() []domain.Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// Goals returns a read-only copy of the canonical goal list.
func (c *Controller) Goals() []domain.Goal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Goal, len(c.goals))
	copy(out, c.goals)
	return out
}

// State returns the current sync state.
func (c *Controller) State() SyncState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Refresh re-fetches both collections from the remote store and replaces the
// canonical lists with the response. When silent, failures are logged and
// swallowed so stale-but-valid data keeps serving; when not, the first
// failure is returned to the caller. In local-only mode without a client it
// re-seeds from the cache instead.
func (c *Controller) Refresh(ctx context.Context, silent bool) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		c.seedFromCache()
		return nil
	}

	err := func() error {
		c.txOps.Lock()
		defer c.txOps.Unlock()
		return c.fetchTransactions(ctx, client)
	}()
	if err == nil {
		err = func() error {
			c.goalOps.Lock()
			defer c.goalOps.Unlock()
			return c.fetchGoals(ctx, client)
		}()
	}

	if err != nil {
		if silent {
			c.log.Warn().Err(err).Msg("Silent refresh failed, keeping current state")
			return nil
		}
		return err
	}

	return nil
}

// AddTransaction records a new transaction. In remote-active mode the write
// goes to the remote store and, on success, the transactions collection is
// re-fetched in full before this call returns; a write failure surfaces to
// the caller and leaves the canonical list untouched, with no local
// fallback. In local-only mode the record is prepended to the canonical list
// and mirrored to the cache synchronously.
func (c *Controller) AddTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	client, mode := c.clientAndMode()
	if mode == ModeRemoteActive && client != nil {
		c.txOps.Lock()
		defer c.txOps.Unlock()

		c.beginRoundTrip()
		defer c.endRoundTrip()

		if _, err := client.InsertTransaction(ctx, tx); err != nil {
			return fmt.Errorf("add transaction: %w", err)
		}
		// Canonical truth is whatever the server stored, so re-fetch the
		// whole collection rather than patching the list locally.
		return c.fetchTransactions(ctx, client)
	}

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	c.mu.Lock()
	c.transactions = append([]domain.Transaction{tx}, c.transactions...)
	snapshot := make([]domain.Transaction, len(c.transactions))
	copy(snapshot, c.transactions)
	c.mu.Unlock()

	if err := c.store.Put(cache.CollectionTransactions, snapshot); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction by id, following the same
// remote-then-refetch versus local-and-mirror split as AddTransaction. The
// caller is assumed to have confirmed the deletion already.
func (c *Controller) DeleteTransaction(ctx context.Context, id string) error {
	client, mode := c.clientAndMode()
	if mode == ModeRemoteActive && client != nil {
		c.txOps.Lock()
		defer c.txOps.Unlock()

		c.beginRoundTrip()
		defer c.endRoundTrip()

		if err := client.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return c.fetchTransactions(ctx, client)
	}

	c.mu.Lock()
	kept := c.transactions[:0:0]
	for _, tx := range c.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	c.transactions = kept
	snapshot := make([]domain.Transaction, len(kept))
	copy(snapshot, kept)
	c.mu.Unlock()

	if err := c.store.Put(cache.CollectionTransactions, snapshot); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// AddGoal records a new savings goal, remote-then-refetch or local-and-
// mirror depending on mode.
func (c *Controller) AddGoal(ctx context.Context, g domain.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.CreatedAt == "" {
		g.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	client, mode := c.clientAndMode()
	if mode == ModeRemoteActive && client != nil {
		c.goalOps.Lock()
		defer c.goalOps.Unlock()

		c.beginRoundTrip()
		defer c.endRoundTrip()

		if _, err := client.InsertGoal(ctx, g); err != nil {
			return fmt.Errorf("add goal: %w", err)
		}
		return c.fetchGoals(ctx, client)
	}

	if g.ID == "" {
		g.ID = uuid.New().String()
	}

	c.mu.Lock()
	c.goals = append([]domain.Goal{g}, c.goals...)
	snapshot := make([]domain.Goal, len(c.goals))
	copy(snapshot, c.goals)
	c.mu.Unlock()

	if err := c.store.Put(cache.CollectionGoals, snapshot); err != nil {
		return fmt.Errorf("add goal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal by id.
func (c *Controller) DeleteGoal(ctx context.Context, id string) error {
	client, mode := c.clientAndMode()
	if mode == ModeRemoteActive && client != nil {
		c.goalOps.Lock()
		defer c.goalOps.Unlock()

		c.beginRoundTrip()
		defer c.endRoundTrip()

		if err := client.DeleteGoal(ctx, id); err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		return c.fetchGoals(ctx, client)
	}

	c.mu.Lock()
	kept := c.goals[:0:0]
	for _, g := range c.goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	c.goals = kept
	snapshot := make([]domain.Goal, len(kept))
	copy(snapshot, kept)
	c.mu.Unlock()

	if err := c.store.Put(cache.CollectionGoals, snapshot); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// Reconfigure atomically swaps the remote client reference and re-runs the
// session bootstrap. This is the explicit re-initialization the settings
// boundary calls after credentials change; the controller never watches
// configuration on its own. Pass nil to drop to local-only.
func (c *Controller) Reconfigure(ctx context.Context, client remote.Service) {
	c.stopPoller()

	c.mu.Lock()
	c.client = client
	c.generation++
	c.state = SyncState{Mode: ModeLocalOnly}
	c.mu.Unlock()

	c.Init(ctx)
}

// Close stops the background poller. In-flight remote calls are not
// interrupted; their results are discarded.
func (c *Controller) Close() {
	c.stopPoller()

	c.mu.Lock()
	c.generation++
	c.mu.Unlock()
}

// fetchTransactions lists the remote collection and replaces the canonical
// list and cache mirror with the response. The caller must hold txOps.
func (c *Controller) fetchTransactions(ctx context.Context, client remote.Service) error {
	gen := c.currentGeneration()

	c.beginRoundTrip()
	defer c.endRoundTrip()

	txs, err := client.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}

	if !c.applyFetched(gen, func() {
		c.transactions = txs
	}) {
		return nil
	}

	c.mirror(cache.CollectionTransactions, txs)
	return nil
}

// fetchGoals is the goals counterpart of fetchTransactions. The caller must
// hold goalOps.
func (c *Controller) fetchGoals(ctx context.Context, client remote.Service) error {
	gen := c.currentGeneration()

	c.beginRoundTrip()
	defer c.endRoundTrip()

	goals, err := client.ListGoals(ctx)
	if err != nil {
		return fmt.Errorf("fetch goals: %w", err)
	}

	if !c.applyFetched(gen, func() {
		c.goals = goals
	}) {
		return nil
	}

	c.mirror(cache.CollectionGoals, goals)
	return nil
}

// applyFetched installs a successful fetch result unless the controller was
// reconfigured while the call was in flight, in which case the stale result
// is dropped. A successful fetch is also what (re-)enters remote-active mode
// and advances the last-sync timestamp.
func (c *Controller) applyFetched(gen int, install func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		c.log.Debug().Msg("Discarding fetch result from a previous configuration")
		return false
	}

	install()
	c.state.Mode = ModeRemoteActive
	c.state.LastSync = time.Now()
	return true
}

// mirror writes a collection snapshot to the cache. Mirror failures do not
// fail the operation that produced fresh remote state; they only cost us a
// colder start next time.
func (c *Controller) mirror(collection string, records interface{}) {
	if err := c.store.Put(collection, records); err != nil {
		c.log.Warn().Err(err).Str("collection", collection).Msg("Failed to mirror snapshot to cache")
	}
}

func (c *Controller) clientAndMode() (remote.Service, Mode) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client, c.state.Mode
}

func (c *Controller) currentGeneration() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// beginRoundTrip and endRoundTrip maintain the isSyncing flag across
// possibly-overlapping remote calls.
func (c *Controller) beginRoundTrip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight++
	c.state.Syncing = true
}

func (c *Controller) endRoundTrip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.state.Syncing = c.inFlight > 0
}

// startPoller launches the periodic silent refresh that picks up edits made
// from other devices. It is a no-op when already running.
func (c *Controller) startPoller() {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()

	if c.pollCancel != nil || c.pollInterval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.pollCancel = cancel
	c.pollDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = c.Refresh(ctx, true)
			}
		}
	}()
}

// stopPoller cancels the poll loop and waits for it to exit.
func (c *Controller) stopPoller() {
	c.pollMu.Lock()
	cancel := c.pollCancel
	done := c.pollDone
	c.pollCancel = nil
	c.pollDone = nil
	c.pollMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
