package transfer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/indexer"
	"github.com/Ktl-XV/poap-webapp/metrics"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/wallet"
)

const refreshTimeout = 30 * time.Second

// IdentityResolver is satisfied by *identity.Resolver.
type IdentityResolver interface {
	Resolve(ctx context.Context, input string, allowEmail bool) (identity.Identity, error)
}

// TokenLister is satisfied by *indexer.Client.
type TokenLister interface {
	TokensFor(ctx context.Context, addressOrEmail string) ([]indexer.TokenInfo, error)
}

// Connector is satisfied by *wallet.KeystoreConnector.
type Connector interface {
	Connect(ctx context.Context, expected networks.Network) (wallet.Connection, error)
}

// SenderFactory builds the sender used for every transaction signed by an
// unlocked connection.
type SenderFactory func(conn wallet.Connection) Sender

type Options struct {
	// Owner is the address, email or ENS name whose badges are shown.
	Owner     string
	Network   networks.Network
	Resolver  IdentityResolver
	Tokens    TokenLister
	Connector Connector
	NewSender SenderFactory
	Token     TokenContract
	// Batch may be nil, transfers of several tokens then fail.
	Batch     BatchContract
	Estimator Estimator

	ReconciliationDelay time.Duration
	// Scheduler defaults to time.AfterFunc.
	Scheduler Scheduler
	Logger    *zap.Logger
}

// OwnerRecord is the resolved owner and the tokens it holds.
type OwnerRecord struct {
	Identity identity.Identity
	Tokens   []indexer.TokenInfo
	Loading  bool
	Loaded   bool
	Err      error
}

func (o OwnerRecord) TokenIDs() []TokenID {
	return TokenIDs(indexer.TokenIDs(o.Tokens))
}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Notice is a message for the user. Inline notices belong next to the
// recipient input rather than in a toast.
type Notice struct {
	Level   NoticeLevel
	Message string
	Inline  bool
}

type UpdateKind int

const (
	UpdateOwner UpdateKind = iota
	UpdateSelection
	UpdatePrompt
	UpdateTransaction
	UpdateNotice
	UpdateRefreshed
)

type Snapshot struct {
	Owner           OwnerRecord
	Selection       Selection
	State           State
	Record          Record
	RecipientPrompt bool
	InFlight        bool
}

type Update struct {
	Kind     UpdateKind
	Snapshot Snapshot
	Notice   *Notice
}

// Session is what a view drives: the owner's tokens, the selection and at
// most one transfer attempt at a time.
type Session struct {
	opts    Options
	log     *zap.Logger
	gas     *GasEstimator
	tracker *Tracker
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	owner     OwnerRecord
	selection Selection
	prompt    bool
	inFlight  bool
	conn      *wallet.Connection
	sender    Sender
	subs      map[int]func(Update)
	nextSub   int

	// serialises deliveries so subscribers see updates in transition order
	pubMu sync.Mutex
}

func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Network == nil {
		opts.Network = networks.CurrentNetwork()
	}
	if opts.ReconciliationDelay <= 0 {
		opts.ReconciliationDelay = DefaultReconciliationDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		opts:   opts,
		log:    opts.Logger,
		gas:    NewGasEstimator(opts.Estimator, opts.Logger),
		ctx:    ctx,
		cancel: cancel,
		owner:  OwnerRecord{Identity: identity.Identity{Input: opts.Owner}},
		subs:   map[int]func(Update){},
	}
	s.tracker = NewTracker(opts.ReconciliationDelay, s.refreshTokens)
	if opts.Scheduler != nil {
		s.tracker.WithScheduler(opts.Scheduler)
	}
	s.tracker.Subscribe(s.onTransition)
	return s
}

func (s *Session) Snapshot() Snapshot {
	state, record := s.tracker.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Owner:           s.owner,
		Selection:       s.selection,
		State:           state,
		Record:          record,
		RecipientPrompt: s.prompt,
		InFlight:        s.inFlight,
	}
}

// Subscribe registers fn for every update. fn runs synchronously and must
// not call back into the session.
func (s *Session) Subscribe(fn func(Update)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) publish(kind UpdateKind, n *Notice) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	snap := s.Snapshot()
	s.mu.Lock()
	subs := make([]func(Update), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(Update{Kind: kind, Snapshot: snap, Notice: n})
	}
}

func (s *Session) notify(level NoticeLevel, msg string) {
	s.publish(UpdateNotice, &Notice{Level: level, Message: msg})
}

// Load resolves the owner and lists its tokens.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	input := s.owner.Identity.Input
	s.owner.Loading = true
	s.mu.Unlock()
	s.publish(UpdateOwner, nil)

	owner, err := s.opts.Resolver.Resolve(ctx, input, true)
	if err == nil && !owner.Valid {
		err = fmt.Errorf("%w: %s", ErrUnknownOwner, input)
	}
	var tokens []indexer.TokenInfo
	if err == nil {
		tokens, err = s.opts.Tokens.TokensFor(ctx, owner.Key())
	}

	s.mu.Lock()
	s.owner.Loading = false
	s.owner.Identity = owner
	if err != nil {
		s.owner.Err = err
	} else {
		s.owner = OwnerRecord{Identity: owner, Tokens: tokens, Loaded: true}
		s.selection = s.selection.Retain(s.owner.TokenIDs())
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("couldn't load owner", zap.String("owner", input), zap.Error(err))
	} else {
		s.log.Debug("owner loaded", zap.String("owner", owner.Key()), zap.Int("tokens", len(tokens)))
	}
	s.publish(UpdateOwner, nil)
	return err
}

func (s *Session) refreshTokens() {
	ctx, cancel := context.WithTimeout(s.ctx, refreshTimeout)
	defer cancel()

	s.mu.Lock()
	key := s.owner.Identity.Key()
	s.mu.Unlock()

	tokens, err := s.opts.Tokens.TokensFor(ctx, key)
	s.mu.Lock()
	if err != nil {
		s.owner.Err = err
	} else {
		s.owner.Tokens = tokens
		s.owner.Err = nil
		s.selection = s.selection.Retain(s.owner.TokenIDs())
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("couldn't refresh tokens", zap.String("owner", key), zap.Error(err))
	}
	s.publish(UpdateRefreshed, nil)
}

func (s *Session) EnterSelectMode() {
	s.mu.Lock()
	s.selection = s.selection.Activate()
	s.mu.Unlock()
	s.publish(UpdateSelection, nil)
}

func (s *Session) checkOwnedLocked(ids ...TokenID) error {
	if !s.owner.Loaded {
		return nil
	}
	owned := s.owner.TokenIDs()
	for _, id := range ids {
		if !slices.Contains(owned, id) {
			return fmt.Errorf("%w: %s", ErrUnknownToken, id)
		}
	}
	return nil
}

// SelectTokens adds ids to the selection. Nothing changes if one of them
// isn't owned.
func (s *Session) SelectTokens(ids ...TokenID) error {
	s.mu.Lock()
	if err := s.checkOwnedLocked(ids...); err != nil {
		s.mu.Unlock()
		return err
	}
	s.selection = s.selection.Add(ids...)
	s.mu.Unlock()
	s.publish(UpdateSelection, nil)
	return nil
}

func (s *Session) ToggleToken(id TokenID) error {
	s.mu.Lock()
	if err := s.checkOwnedLocked(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.selection = s.selection.Toggle(id)
	s.mu.Unlock()
	s.publish(UpdateSelection, nil)
	return nil
}

func (s *Session) SelectAll() {
	s.mu.Lock()
	s.selection = s.selection.SelectAll(s.owner.TokenIDs())
	s.mu.Unlock()
	s.publish(UpdateSelection, nil)
}

// CancelSelection empties the selection and leaves select mode.
func (s *Session) CancelSelection() {
	s.mu.Lock()
	s.selection = s.selection.Clear()
	s.prompt = false
	s.mu.Unlock()
	s.publish(UpdateSelection, nil)
}

// StartTransfer opens the recipient prompt for the current selection.
func (s *Session) StartTransfer() error {
	s.mu.Lock()
	if s.selection.Len() == 0 {
		s.mu.Unlock()
		return ErrEmptySelection
	}
	s.prompt = true
	s.mu.Unlock()
	s.publish(UpdatePrompt, nil)
	return nil
}

func (s *Session) CloseRecipientPrompt() {
	s.mu.Lock()
	s.prompt = false
	s.mu.Unlock()
	s.publish(UpdatePrompt, nil)
}

func (s *Session) onTransition(state State, record Record) {
	var n *Notice
	s.mu.Lock()
	switch state {
	case StateHashKnown:
		s.prompt = false
	case StateConfirmed:
		s.prompt = false
		s.selection = s.selection.Clear()
		n = &Notice{Level: NoticeSuccess, Message: MsgTransferred}
	case StateFailed:
		msg := MsgSubmissionFailed
		if errors.Is(record.Err, ErrTransactionFailed) {
			msg = MsgTransactionFailed
		}
		n = &Notice{Level: NoticeError, Message: msg}
	}
	s.mu.Unlock()
	s.publish(UpdateTransaction, n)
}

func (s *Session) connect(ctx context.Context) (wallet.Connection, Sender, error) {
	s.mu.Lock()
	if s.conn != nil {
		conn, sender := *s.conn, s.sender
		s.mu.Unlock()
		return conn, sender, nil
	}
	s.mu.Unlock()

	if s.opts.Connector == nil || s.opts.NewSender == nil {
		return wallet.Connection{}, nil, wallet.ErrNoSigner
	}
	conn, err := s.opts.Connector.Connect(ctx, s.opts.Network)
	if err != nil || conn.NetworkMismatch {
		return conn, nil, err
	}
	sender := s.opts.NewSender(conn)
	s.mu.Lock()
	s.conn = &conn
	s.sender = sender
	s.mu.Unlock()
	return conn, sender, nil
}

// ConfirmTransfer transfers the selected tokens to destination and waits
// for the outcome. The returned error always matches one of the package's
// sentinel errors with errors.Is.
func (s *Session) ConfirmTransfer(ctx context.Context, destination string) (err error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrAttemptInFlight
	}
	ids := s.selection.IDs()
	owner := s.owner.Identity
	if len(ids) == 0 {
		s.mu.Unlock()
		return ErrEmptySelection
	}
	s.inFlight = true
	s.mu.Unlock()
	s.publish(UpdateTransaction, nil)

	log := s.log.With(zap.String("attempt", uuid.NewString()))
	var attempt uint64
	defer func() {
		if r := recover(); r != nil {
			log.Error("transfer attempt panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%w: %v", ErrSubmission, r)
			s.outcome("error")
			if attempt != 0 {
				s.tracker.Fail(attempt, err)
			} else {
				s.notify(NoticeError, MsgSubmissionFailed)
			}
		}
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
		s.publish(UpdateTransaction, nil)
	}()

	dest, rerr := s.opts.Resolver.Resolve(ctx, destination, false)
	if rerr != nil || !dest.IsAddress() {
		log.Info("invalid destination", zap.String("destination", destination), zap.Error(rerr))
		s.outcome("invalid_destination")
		s.publish(UpdateNotice, &Notice{Level: NoticeError, Message: MsgInvalidAddress, Inline: true})
		if rerr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDestination, rerr)
		}
		return fmt.Errorf("%w: %q", ErrInvalidDestination, destination)
	}
	s.tracker.Reset()

	conn, sender, cerr := s.connect(ctx)
	switch {
	case cerr != nil:
		log.Error("couldn't connect signer", zap.Error(cerr))
		s.outcome("error")
		s.notify(NoticeError, MsgSubmissionFailed)
		return fmt.Errorf("%w: %w", ErrSubmission, cerr)
	case conn.NetworkMismatch:
		log.Warn("wrong network", zap.Uint64("chain_id", conn.ChainID), zap.String("expected", s.opts.Network.GetName()))
		s.outcome("wrong_network")
		s.notify(NoticeError, WrongNetworkMessage(s.opts.Network.GetName()))
		return ErrWrongNetwork
	case !owner.IsAddress() || conn.Account.Address() != owner.Address:
		log.Warn("connected account is not the owner", zap.String("account", conn.Account.AddressHex()), zap.String("owner", owner.Key()))
		s.outcome("wrong_account")
		s.notify(NoticeError, WrongAccountMessage(owner.Key()))
		return ErrWrongAccount
	}

	intent, err := NewIntent(owner.Address, dest.Address, ids)
	if err != nil {
		s.outcome("invalid_destination")
		s.publish(UpdateNotice, &Notice{Level: NoticeError, Message: MsgInvalidAddress, Inline: true})
		return err
	}
	strategy := intent.Strategy()
	metrics.Transfers.Attempts.WithLabelValues(strategy.String()).Inc()
	log.Info("transfer started",
		zap.Stringer("strategy", strategy),
		zap.String("to", intent.To.Hex()),
		zap.Int("tokens", len(intent.TokenIDs)),
	)

	attempt = s.tracker.Begin()
	return s.dispatch(ctx, log, attempt, intent, sender)
}

func (s *Session) dispatch(ctx context.Context, log *zap.Logger, attempt uint64, intent Intent, sender Sender) error {
	if intent.Strategy() == StrategyBatch {
		if s.opts.Batch == nil {
			return s.fail(attempt, errors.New("no batch transfer contract configured"))
		}
		gate := NewApprovalGate(s.opts.Token, s.opts.Batch.Address(), s.gas, sender, log)
		gate.OnHash = func(hash string) {
			s.notify(NoticeInfo, fmt.Sprintf("Approval transaction submitted: %s", hash))
		}
		if err := gate.Ensure(ctx, intent.From); err != nil {
			log.Error("approval failed, batch transfer not sent", zap.Error(err))
			return s.fail(attempt, err)
		}
	}

	call, err := intent.Call(s.opts.Token, s.opts.Batch)
	if err != nil {
		return s.fail(attempt, err)
	}
	gas := s.gas.Estimate(ctx, intent.From, call)
	events, err := sender.Send(ctx, call, gas)
	if err != nil {
		log.Error("couldn't send transfer", zap.String("method", call.Method), zap.Error(err))
		return s.fail(attempt, err)
	}

	state := s.tracker.Track(ctx, attempt, events)
	_, record := s.tracker.Snapshot()
	switch state {
	case StateConfirmed:
		metrics.Transfers.Confirmation.Observe(s.tracker.Elapsed().Seconds())
		s.outcome("confirmed")
		log.Info("transfer confirmed", zap.String("hash", record.Hash))
		return nil
	case StateFailed:
		metrics.Transfers.Confirmation.Observe(s.tracker.Elapsed().Seconds())
		if errors.Is(record.Err, ErrTransactionFailed) {
			s.outcome("reverted")
			log.Warn("transfer reverted", zap.String("hash", record.Hash))
			return ErrTransactionFailed
		}
		s.outcome("error")
		log.Error("transfer failed", zap.String("hash", record.Hash), zap.Error(record.Err))
		return fmt.Errorf("%w: %w", ErrSubmission, record.Err)
	}

	// stopped waiting, the transaction itself may still be mined
	if ctx.Err() != nil {
		s.outcome("abandoned")
		log.Warn("stopped waiting for transfer", zap.String("hash", record.Hash), zap.Error(ctx.Err()))
		return fmt.Errorf("%w: %w", ErrSubmission, ctx.Err())
	}
	return s.fail(attempt, errors.New("transaction lifecycle ended without a receipt"))
}

func (s *Session) fail(attempt uint64, err error) error {
	if !errors.Is(err, ErrSubmission) {
		err = fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	s.outcome("error")
	s.tracker.Fail(attempt, err)
	return err
}

func (s *Session) outcome(label string) {
	metrics.Transfers.Outcomes.WithLabelValues(label).Inc()
}

// Close cancels a pending refresh and any refresh in progress.
func (s *Session) Close() {
	s.tracker.Close()
	s.cancel()
}
