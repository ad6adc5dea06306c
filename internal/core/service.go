package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"landledger/internal/certbridge"
	"landledger/internal/infra/persistence/memory"
	"landledger/internal/vault"
)

// MemoryStore is the canonical in-memory ledger store.
type MemoryStore = memory.Store

// NewMemoryStore constructs an in-memory store wired to the given engine.
func NewMemoryStore(engine *RulesEngine) *MemoryStore {
	return memory.NewStore(engine)
}

// Service exposes the transactional ledger operations: platform registry,
// KYC, property registry, ownership ledger, income distribution, governance,
// and the secondary market. Every mutating operation validates its inputs,
// authorizes the caller, applies its changes in a single store transaction,
// and reports the committed change set through the configured observability
// hooks.
type Service struct {
	store   PersistentStore
	engine  *RulesEngine
	clock   Clock
	now     func() time.Time
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	events  EventSink
	bridge  certbridge.Bridge
	vault   vault.Store
}

// Option customizes service construction.
type Option func(*Service)

// WithClock overrides the service clock. The clock is also pushed into the
// store when the backend supports it, so persisted timestamps match.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger overrides the service logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder wires a metrics recorder receiving one observation per
// operation.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) { s.metrics = rec }
}

// WithTracer wires a tracer spanning each operation.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// WithAuditRecorder wires an operation-level audit recorder.
func WithAuditRecorder(rec AuditRecorder) Option {
	return func(s *Service) { s.audit = rec }
}

// WithEventSink wires a sink receiving one event per committed operation.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) { s.events = sink }
}

// WithCertBridge wires the certificate bridge mirroring share movements.
func WithCertBridge(bridge certbridge.Bridge) Option {
	return func(s *Service) {
		if bridge != nil {
			s.bridge = bridge
		}
	}
}

// WithVault wires the document vault backing legal document storage.
func WithVault(store vault.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.vault = store
		}
	}
}

// NewService constructs a service over the supplied store. The rules engine
// is adopted from the store when the backend exposes one.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		engine: extractRulesEngine(store),
		logger: noopLogger{},
		bridge: certbridge.Noop{},
		vault:  vault.NewMemory(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.now = selectNowFunc(store, s.clock)
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store. A nil
// engine selects the default rule set.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(NewMemoryStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// RulesEngine returns the engine evaluated on every transaction, or nil when
// the store does not expose one.
func (s *Service) RulesEngine() *RulesEngine {
	return s.engine
}

// run executes fn inside one store transaction and reports the outcome to
// the logger, metrics recorder, tracer, audit recorder, and event sink. It
// is the single funnel every mutating operation goes through.
func (s *Service) run(ctx context.Context, operation, actor string, fn func(tx Transaction) error) (Result, error) {
	started := time.Now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	s.logger.Debug("operation start", "operation", operation, "actor", actor)

	res, err := s.store.RunInTransaction(ctx, fn)

	duration := time.Since(started)
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, duration)
	}
	s.recordAudit(ctx, operation, actor, res.Changes, duration, err)
	if span != nil {
		span.End(err)
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "actor", actor, "error", err.Error())
		return res, err
	}
	s.publishEvent(operation, actor, res.Changes)
	s.logger.Info("operation committed", "operation", operation, "actor", actor, "changes", len(res.Changes))
	return res, nil
}

// recordAudit emits one audit entry for operations listed in the profile
// catalog. The audited entity ID is taken from the committed change set.
func (s *Service) recordAudit(ctx context.Context, operation, actor string, changes []Change, duration time.Duration, opErr error) {
	if s.audit == nil {
		return
	}
	profile, ok := operationProfiles[operation]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: operation,
		Entity:    profile.Entity,
		Action:    profile.Action,
		EntityID:  primaryEntityID(profile.Entity, changes),
		Actor:     actor,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.now(),
	}
	if opErr != nil {
		entry.Status = AuditStatusError
		entry.Error = opErr.Error()
	}
	s.audit.Record(ctx, entry)
}

func (s *Service) publishEvent(operation, actor string, changes []Change) {
	if s.events == nil {
		return
	}
	event := Event{
		ID:         uuid.NewString(),
		Operation:  operation,
		Actor:      actor,
		OccurredAt: s.now(),
		Changes:    changes,
	}
	if err := s.events.Publish(event); err != nil {
		s.logger.Warn("event publish failed", "operation", operation, "event_id", event.ID, "error", err.Error())
	}
}

// primaryEntityID returns the ID of the first committed change touching the
// given entity type.
func primaryEntityID(entity EntityType, changes []Change) string {
	for _, change := range changes {
		if change.Entity != entity {
			continue
		}
		if id := changeEntityID(change.After); id != "" {
			return id
		}
	}
	return ""
}

func changeEntityID(after any) string {
	switch v := after.(type) {
	case PlatformConfig:
		return v.ID
	case Property:
		return v.ID
	case OwnershipPosition:
		return v.ID
	case Proposal:
		return v.ID
	case VoteRecord:
		return v.ID
	case KycRecord:
		return v.ID
	case MarketListing:
		return v.ID
	}
	return ""
}

// mirrorMint replicates a committed issuance onto the certificate bridge.
// Bridge failures are logged and counted, never propagated: the ledger has
// already committed and reconciliation is an offline concern.
func (s *Service) mirrorMint(ctx context.Context, propertyID, holderID string, amount uint64) {
	if s.bridge == nil || s.bridge.Driver() == certbridge.DriverOff {
		return
	}
	ref, err := s.bridge.MintCertificates(ctx, propertyID, holderID, amount)
	if err != nil {
		s.logger.Warn("certificate mint mirror failed", "property", propertyID, "holder", holderID, "error", err.Error())
		return
	}
	s.logger.Debug("certificate mint mirrored", "property", propertyID, "holder", holderID, "ref", ref)
}

// mirrorTransfer replicates a committed transfer onto the certificate bridge.
func (s *Service) mirrorTransfer(ctx context.Context, propertyID, fromID, toID string, amount uint64) {
	if s.bridge == nil || s.bridge.Driver() == certbridge.DriverOff {
		return
	}
	ref, err := s.bridge.TransferCertificates(ctx, propertyID, fromID, toID, amount)
	if err != nil {
		s.logger.Warn("certificate transfer mirror failed", "property", propertyID, "from", fromID, "to", toID, "error", err.Error())
		return
	}
	s.logger.Debug("certificate transfer mirrored", "property", propertyID, "from", fromID, "to", toID, "ref", ref)
}
