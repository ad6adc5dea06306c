// Package memory provides an in-memory implementation of the ledger
// persistence store used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"landledger/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// PlatformConfig aliases domain.PlatformConfig for in-memory persistence operations.
	PlatformConfig = domain.PlatformConfig
	// Property aliases domain.Property.
	Property = domain.Property
	// OwnershipPosition aliases domain.OwnershipPosition.
	OwnershipPosition = domain.OwnershipPosition
	// Proposal aliases domain.Proposal.
	Proposal = domain.Proposal
	// VoteRecord aliases domain.VoteRecord.
	VoteRecord = domain.VoteRecord
	// KycRecord aliases domain.KycRecord.
	KycRecord = domain.KycRecord
	// MarketListing aliases domain.MarketListing.
	MarketListing = domain.MarketListing
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

type memoryState struct {
	platform   *PlatformConfig
	properties map[string]Property
	positions  map[string]OwnershipPosition
	proposals  map[string]Proposal
	votes      map[string]VoteRecord
	kyc        map[string]KycRecord
	listings   map[string]MarketListing
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Platform   *PlatformConfig              `json:"platform,omitempty"`
	Properties map[string]Property          `json:"properties"`
	Positions  map[string]OwnershipPosition `json:"positions"`
	Proposals  map[string]Proposal          `json:"proposals"`
	Votes      map[string]VoteRecord        `json:"votes"`
	Kyc        map[string]KycRecord         `json:"kyc"`
	Listings   map[string]MarketListing     `json:"listings"`
}

func newMemoryState() memoryState {
	return memoryState{
		properties: make(map[string]Property),
		positions:  make(map[string]OwnershipPosition),
		proposals:  make(map[string]Proposal),
		votes:      make(map[string]VoteRecord),
		kyc:        make(map[string]KycRecord),
		listings:   make(map[string]MarketListing),
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func clonePlatform(p PlatformConfig) PlatformConfig {
	cp := p
	cp.ReferencePriceAt = cloneTime(p.ReferencePriceAt)
	return cp
}

func cloneProperty(p Property) Property {
	cp := p
	cp.LastDistributionAt = cloneTime(p.LastDistributionAt)
	cp.ValuationUpdatedAt = cloneTime(p.ValuationUpdatedAt)
	cp.SoldAt = cloneTime(p.SoldAt)
	return cp
}

func clonePosition(p OwnershipPosition) OwnershipPosition {
	cp := p
	cp.LastClaimAt = cloneTime(p.LastClaimAt)
	return cp
}

func cloneProposal(p Proposal) Proposal {
	cp := p
	cp.ExecutedAt = cloneTime(p.ExecutedAt)
	return cp
}

func cloneVote(v VoteRecord) VoteRecord {
	return v
}

func cloneKyc(k KycRecord) KycRecord {
	cp := k
	cp.VerifiedAt = cloneTime(k.VerifiedAt)
	return cp
}

func cloneListing(l MarketListing) MarketListing {
	cp := l
	cp.ClosedAt = cloneTime(l.ClosedAt)
	return cp
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Properties: make(map[string]Property, len(state.properties)),
		Positions:  make(map[string]OwnershipPosition, len(state.positions)),
		Proposals:  make(map[string]Proposal, len(state.proposals)),
		Votes:      make(map[string]VoteRecord, len(state.votes)),
		Kyc:        make(map[string]KycRecord, len(state.kyc)),
		Listings:   make(map[string]MarketListing, len(state.listings)),
	}
	if state.platform != nil {
		platform := clonePlatform(*state.platform)
		s.Platform = &platform
	}
	for k, v := range state.properties {
		s.Properties[k] = cloneProperty(v)
	}
	for k, v := range state.positions {
		s.Positions[k] = clonePosition(v)
	}
	for k, v := range state.proposals {
		s.Proposals[k] = cloneProposal(v)
	}
	for k, v := range state.votes {
		s.Votes[k] = cloneVote(v)
	}
	for k, v := range state.kyc {
		s.Kyc[k] = cloneKyc(v)
	}
	for k, v := range state.listings {
		s.Listings[k] = cloneListing(v)
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	if s.Platform != nil {
		platform := clonePlatform(*s.Platform)
		state.platform = &platform
	}
	for k, v := range s.Properties {
		state.properties[k] = cloneProperty(v)
	}
	for k, v := range s.Positions {
		state.positions[k] = clonePosition(v)
	}
	for k, v := range s.Proposals {
		state.proposals[k] = cloneProposal(v)
	}
	for k, v := range s.Votes {
		state.votes[k] = cloneVote(v)
	}
	for k, v := range s.Kyc {
		state.kyc[k] = cloneKyc(v)
	}
	for k, v := range s.Listings {
		state.listings[k] = cloneListing(v)
	}
	return state
}

// migrateSnapshot normalizes snapshots loaded from durable storage: nil maps
// become empty, composite keys and singleton IDs are rebuilt from record
// fields so snapshots written by older builds stay loadable.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Properties == nil {
		snapshot.Properties = map[string]Property{}
	}
	if snapshot.Positions == nil {
		snapshot.Positions = map[string]OwnershipPosition{}
	}
	if snapshot.Proposals == nil {
		snapshot.Proposals = map[string]Proposal{}
	}
	if snapshot.Votes == nil {
		snapshot.Votes = map[string]VoteRecord{}
	}
	if snapshot.Kyc == nil {
		snapshot.Kyc = map[string]KycRecord{}
	}
	if snapshot.Listings == nil {
		snapshot.Listings = map[string]MarketListing{}
	}

	if snapshot.Platform != nil && snapshot.Platform.ID == "" {
		snapshot.Platform.ID = domain.PlatformConfigID
	}
	for key, position := range snapshot.Positions {
		if position.ID == "" {
			position.ID = domain.PositionKey(position.PropertyID, position.HolderID)
			snapshot.Positions[key] = position
		}
	}
	for key, vote := range snapshot.Votes {
		if vote.ID == "" {
			vote.ID = domain.VoteKey(vote.ProposalID, vote.VoterID)
			snapshot.Votes[key] = vote
		}
	}
	for id, record := range snapshot.Kyc {
		if record.HolderID == "" {
			record.HolderID = id
			snapshot.Kyc[id] = record
		}
	}
	return snapshot
}

func (s memoryState) clone() memoryState {
	return memoryStateFromSnapshot(snapshotFromMemoryState(s))
}

// Store provides an in-memory transactional store for the ledger.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	return uuid.NewString()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider. Intended for tests that need a
// deterministic transaction clock.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// FindPlatformConfig retrieves the singleton platform record from the snapshot.
func (v transactionView) FindPlatformConfig() (PlatformConfig, bool) {
	if v.state.platform == nil {
		return PlatformConfig{}, false
	}
	return clonePlatform(*v.state.platform), true
}

// ListProperties returns all properties within the transaction snapshot.
func (v transactionView) ListProperties() []Property {
	out := make([]Property, 0, len(v.state.properties))
	for _, p := range v.state.properties {
		out = append(out, cloneProperty(p))
	}
	return out
}

// ListPositions returns all ownership positions in the snapshot.
func (v transactionView) ListPositions() []OwnershipPosition {
	out := make([]OwnershipPosition, 0, len(v.state.positions))
	for _, p := range v.state.positions {
		out = append(out, clonePosition(p))
	}
	return out
}

// ListProposals returns all proposals in the snapshot.
func (v transactionView) ListProposals() []Proposal {
	out := make([]Proposal, 0, len(v.state.proposals))
	for _, p := range v.state.proposals {
		out = append(out, cloneProposal(p))
	}
	return out
}

// ListVotes returns all vote records in the snapshot.
func (v transactionView) ListVotes() []VoteRecord {
	out := make([]VoteRecord, 0, len(v.state.votes))
	for _, vote := range v.state.votes {
		out = append(out, cloneVote(vote))
	}
	return out
}

// ListKycRecords returns all KYC records in the snapshot.
func (v transactionView) ListKycRecords() []KycRecord {
	out := make([]KycRecord, 0, len(v.state.kyc))
	for _, k := range v.state.kyc {
		out = append(out, cloneKyc(k))
	}
	return out
}

// ListListings returns all market listings in the snapshot.
func (v transactionView) ListListings() []MarketListing {
	out := make([]MarketListing, 0, len(v.state.listings))
	for _, l := range v.state.listings {
		out = append(out, cloneListing(l))
	}
	return out
}

// FindProperty retrieves a property by ID from the snapshot.
func (v transactionView) FindProperty(id string) (Property, bool) {
	p, ok := v.state.properties[id]
	if !ok {
		return Property{}, false
	}
	return cloneProperty(p), true
}

// FindPosition retrieves an ownership position from the snapshot.
func (v transactionView) FindPosition(propertyID, holderID string) (OwnershipPosition, bool) {
	p, ok := v.state.positions[domain.PositionKey(propertyID, holderID)]
	if !ok {
		return OwnershipPosition{}, false
	}
	return clonePosition(p), true
}

// FindProposal retrieves a proposal by ID from the snapshot.
func (v transactionView) FindProposal(id string) (Proposal, bool) {
	p, ok := v.state.proposals[id]
	if !ok {
		return Proposal{}, false
	}
	return cloneProposal(p), true
}

// FindVote retrieves a vote record from the snapshot.
func (v transactionView) FindVote(proposalID, voterID string) (VoteRecord, bool) {
	vote, ok := v.state.votes[domain.VoteKey(proposalID, voterID)]
	if !ok {
		return VoteRecord{}, false
	}
	return cloneVote(vote), true
}

// FindKycRecord retrieves a KYC record by holder from the snapshot.
func (v transactionView) FindKycRecord(holderID string) (KycRecord, bool) {
	k, ok := v.state.kyc[holderID]
	if !ok {
		return KycRecord{}, false
	}
	return cloneKyc(k), true
}

// FindListing retrieves a market listing by ID from the snapshot.
func (v transactionView) FindListing(id string) (MarketListing, bool) {
	l, ok := v.state.listings[id]
	if !ok {
		return MarketListing{}, false
	}
	return cloneListing(l), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy is swapped in only after fn succeeds and no rule blocks the commit,
// so a failed operation leaves no trace.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	result.Changes = tx.changes
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// Now returns the transaction timestamp. All mutations within one transaction
// observe the same instant.
func (tx *transaction) Now() time.Time {
	return tx.now
}

// CreatePlatformConfig stores the singleton platform record.
func (tx *transaction) CreatePlatformConfig(p PlatformConfig) (PlatformConfig, error) {
	if tx.state.platform != nil {
		return PlatformConfig{}, fmt.Errorf("platform config already exists")
	}
	p.ID = domain.PlatformConfigID
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	stored := clonePlatform(p)
	tx.state.platform = &stored
	tx.recordChange(Change{Entity: domain.EntityPlatformConfig, Action: domain.ActionCreate, After: clonePlatform(p)})
	return clonePlatform(p), nil
}

// UpdatePlatformConfig mutates the singleton platform record.
func (tx *transaction) UpdatePlatformConfig(mutator func(*PlatformConfig) error) (PlatformConfig, error) {
	if tx.state.platform == nil {
		return PlatformConfig{}, fmt.Errorf("platform config not found")
	}
	current := clonePlatform(*tx.state.platform)
	before := clonePlatform(current)
	if err := mutator(&current); err != nil {
		return PlatformConfig{}, err
	}
	current.ID = domain.PlatformConfigID
	current.UpdatedAt = tx.now
	stored := clonePlatform(current)
	tx.state.platform = &stored
	tx.recordChange(Change{Entity: domain.EntityPlatformConfig, Action: domain.ActionUpdate, Before: before, After: clonePlatform(current)})
	return clonePlatform(current), nil
}

// FindPlatformConfig exposes the platform record within the transaction scope.
func (tx *transaction) FindPlatformConfig() (PlatformConfig, bool) {
	if tx.state.platform == nil {
		return PlatformConfig{}, false
	}
	return clonePlatform(*tx.state.platform), true
}

// CreateProperty stores a new property within the transaction.
func (tx *transaction) CreateProperty(p Property) (Property, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.properties[p.ID]; exists {
		return Property{}, fmt.Errorf("property %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.properties[p.ID] = cloneProperty(p)
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionCreate, After: cloneProperty(p)})
	return cloneProperty(p), nil
}

// UpdateProperty mutates a property using the provided mutator function.
func (tx *transaction) UpdateProperty(id string, mutator func(*Property) error) (Property, error) {
	current, ok := tx.state.properties[id]
	if !ok {
		return Property{}, fmt.Errorf("property %q not found", id)
	}
	before := cloneProperty(current)
	if err := mutator(&current); err != nil {
		return Property{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.properties[id] = cloneProperty(current)
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionUpdate, Before: before, After: cloneProperty(current)})
	return cloneProperty(current), nil
}

// FindProperty exposes property lookup within the transaction scope.
func (tx *transaction) FindProperty(id string) (Property, bool) {
	p, ok := tx.state.properties[id]
	if !ok {
		return Property{}, false
	}
	return cloneProperty(p), true
}

// CreatePosition stores a new ownership position within the transaction.
func (tx *transaction) CreatePosition(p OwnershipPosition) (OwnershipPosition, error) {
	if p.PropertyID == "" || p.HolderID == "" {
		return OwnershipPosition{}, fmt.Errorf("position requires property and holder identifiers")
	}
	key := domain.PositionKey(p.PropertyID, p.HolderID)
	if _, exists := tx.state.positions[key]; exists {
		return OwnershipPosition{}, fmt.Errorf("position %q already exists", key)
	}
	p.ID = key
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.positions[key] = clonePosition(p)
	tx.recordChange(Change{Entity: domain.EntityPosition, Action: domain.ActionCreate, After: clonePosition(p)})
	return clonePosition(p), nil
}

// UpdatePosition mutates an ownership position using the provided mutator function.
func (tx *transaction) UpdatePosition(propertyID, holderID string, mutator func(*OwnershipPosition) error) (OwnershipPosition, error) {
	key := domain.PositionKey(propertyID, holderID)
	current, ok := tx.state.positions[key]
	if !ok {
		return OwnershipPosition{}, fmt.Errorf("position %q not found", key)
	}
	before := clonePosition(current)
	if err := mutator(&current); err != nil {
		return OwnershipPosition{}, err
	}
	current.ID = key
	current.PropertyID = propertyID
	current.HolderID = holderID
	current.UpdatedAt = tx.now
	tx.state.positions[key] = clonePosition(current)
	tx.recordChange(Change{Entity: domain.EntityPosition, Action: domain.ActionUpdate, Before: before, After: clonePosition(current)})
	return clonePosition(current), nil
}

// FindPosition exposes position lookup within the transaction scope.
func (tx *transaction) FindPosition(propertyID, holderID string) (OwnershipPosition, bool) {
	p, ok := tx.state.positions[domain.PositionKey(propertyID, holderID)]
	if !ok {
		return OwnershipPosition{}, false
	}
	return clonePosition(p), true
}

// CreateProposal stores a new proposal within the transaction.
func (tx *transaction) CreateProposal(p Proposal) (Proposal, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.proposals[p.ID]; exists {
		return Proposal{}, fmt.Errorf("proposal %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.proposals[p.ID] = cloneProposal(p)
	tx.recordChange(Change{Entity: domain.EntityProposal, Action: domain.ActionCreate, After: cloneProposal(p)})
	return cloneProposal(p), nil
}

// UpdateProposal mutates a proposal using the provided mutator function.
func (tx *transaction) UpdateProposal(id string, mutator func(*Proposal) error) (Proposal, error) {
	current, ok := tx.state.proposals[id]
	if !ok {
		return Proposal{}, fmt.Errorf("proposal %q not found", id)
	}
	before := cloneProposal(current)
	if err := mutator(&current); err != nil {
		return Proposal{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.proposals[id] = cloneProposal(current)
	tx.recordChange(Change{Entity: domain.EntityProposal, Action: domain.ActionUpdate, Before: before, After: cloneProposal(current)})
	return cloneProposal(current), nil
}

// FindProposal exposes proposal lookup within the transaction scope.
func (tx *transaction) FindProposal(id string) (Proposal, bool) {
	p, ok := tx.state.proposals[id]
	if !ok {
		return Proposal{}, false
	}
	return cloneProposal(p), true
}

// CreateVote stores a write-once vote record within the transaction.
func (tx *transaction) CreateVote(v VoteRecord) (VoteRecord, error) {
	if v.ProposalID == "" || v.VoterID == "" {
		return VoteRecord{}, fmt.Errorf("vote requires proposal and voter identifiers")
	}
	key := domain.VoteKey(v.ProposalID, v.VoterID)
	if _, exists := tx.state.votes[key]; exists {
		return VoteRecord{}, fmt.Errorf("vote %q already exists", key)
	}
	v.ID = key
	v.CreatedAt = tx.now
	v.UpdatedAt = tx.now
	tx.state.votes[key] = cloneVote(v)
	tx.recordChange(Change{Entity: domain.EntityVote, Action: domain.ActionCreate, After: cloneVote(v)})
	return cloneVote(v), nil
}

// FindVote exposes vote lookup within the transaction scope.
func (tx *transaction) FindVote(proposalID, voterID string) (VoteRecord, bool) {
	v, ok := tx.state.votes[domain.VoteKey(proposalID, voterID)]
	if !ok {
		return VoteRecord{}, false
	}
	return cloneVote(v), true
}

// CreateKycRecord stores a new KYC record within the transaction.
func (tx *transaction) CreateKycRecord(k KycRecord) (KycRecord, error) {
	if k.HolderID == "" {
		return KycRecord{}, fmt.Errorf("kyc record requires a holder identifier")
	}
	if _, exists := tx.state.kyc[k.HolderID]; exists {
		return KycRecord{}, fmt.Errorf("kyc record %q already exists", k.HolderID)
	}
	k.ID = k.HolderID
	k.CreatedAt = tx.now
	k.UpdatedAt = tx.now
	tx.state.kyc[k.HolderID] = cloneKyc(k)
	tx.recordChange(Change{Entity: domain.EntityKycRecord, Action: domain.ActionCreate, After: cloneKyc(k)})
	return cloneKyc(k), nil
}

// UpdateKycRecord mutates a KYC record using the provided mutator function.
func (tx *transaction) UpdateKycRecord(holderID string, mutator func(*KycRecord) error) (KycRecord, error) {
	current, ok := tx.state.kyc[holderID]
	if !ok {
		return KycRecord{}, fmt.Errorf("kyc record %q not found", holderID)
	}
	before := cloneKyc(current)
	if err := mutator(&current); err != nil {
		return KycRecord{}, err
	}
	current.ID = holderID
	current.HolderID = holderID
	current.UpdatedAt = tx.now
	tx.state.kyc[holderID] = cloneKyc(current)
	tx.recordChange(Change{Entity: domain.EntityKycRecord, Action: domain.ActionUpdate, Before: before, After: cloneKyc(current)})
	return cloneKyc(current), nil
}

// FindKycRecord exposes KYC lookup within the transaction scope.
func (tx *transaction) FindKycRecord(holderID string) (KycRecord, bool) {
	k, ok := tx.state.kyc[holderID]
	if !ok {
		return KycRecord{}, false
	}
	return cloneKyc(k), true
}

// CreateListing stores a new market listing within the transaction.
func (tx *transaction) CreateListing(l MarketListing) (MarketListing, error) {
	if l.ID == "" {
		l.ID = tx.store.newID()
	}
	if _, exists := tx.state.listings[l.ID]; exists {
		return MarketListing{}, fmt.Errorf("listing %q already exists", l.ID)
	}
	l.CreatedAt = tx.now
	l.UpdatedAt = tx.now
	tx.state.listings[l.ID] = cloneListing(l)
	tx.recordChange(Change{Entity: domain.EntityListing, Action: domain.ActionCreate, After: cloneListing(l)})
	return cloneListing(l), nil
}

// UpdateListing mutates a market listing using the provided mutator function.
func (tx *transaction) UpdateListing(id string, mutator func(*MarketListing) error) (MarketListing, error) {
	current, ok := tx.state.listings[id]
	if !ok {
		return MarketListing{}, fmt.Errorf("listing %q not found", id)
	}
	before := cloneListing(current)
	if err := mutator(&current); err != nil {
		return MarketListing{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.listings[id] = cloneListing(current)
	tx.recordChange(Change{Entity: domain.EntityListing, Action: domain.ActionUpdate, Before: before, After: cloneListing(current)})
	return cloneListing(current), nil
}

// FindListing exposes listing lookup within the transaction scope.
func (tx *transaction) FindListing(id string) (MarketListing, bool) {
	l, ok := tx.state.listings[id]
	if !ok {
		return MarketListing{}, false
	}
	return cloneListing(l), true
}

// GetPlatformConfig returns the committed singleton platform record.
func (s *Store) GetPlatformConfig() (PlatformConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.platform == nil {
		return PlatformConfig{}, false
	}
	return clonePlatform(*s.state.platform), true
}

// GetProperty returns a committed property by ID.
func (s *Store) GetProperty(id string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.properties[id]
	if !ok {
		return Property{}, false
	}
	return cloneProperty(p), true
}

// ListProperties returns all committed properties.
func (s *Store) ListProperties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Property, 0, len(s.state.properties))
	for _, p := range s.state.properties {
		out = append(out, cloneProperty(p))
	}
	return out
}

// GetPosition returns a committed ownership position.
func (s *Store) GetPosition(propertyID, holderID string) (OwnershipPosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.positions[domain.PositionKey(propertyID, holderID)]
	if !ok {
		return OwnershipPosition{}, false
	}
	return clonePosition(p), true
}

// ListPositions returns all committed ownership positions.
func (s *Store) ListPositions() []OwnershipPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OwnershipPosition, 0, len(s.state.positions))
	for _, p := range s.state.positions {
		out = append(out, clonePosition(p))
	}
	return out
}

// GetProposal returns a committed proposal by ID.
func (s *Store) GetProposal(id string) (Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.proposals[id]
	if !ok {
		return Proposal{}, false
	}
	return cloneProposal(p), true
}

// ListProposals returns all committed proposals.
func (s *Store) ListProposals() []Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Proposal, 0, len(s.state.proposals))
	for _, p := range s.state.proposals {
		out = append(out, cloneProposal(p))
	}
	return out
}

// GetVote returns a committed vote record.
func (s *Store) GetVote(proposalID, voterID string) (VoteRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state.votes[domain.VoteKey(proposalID, voterID)]
	if !ok {
		return VoteRecord{}, false
	}
	return cloneVote(v), true
}

// ListVotes returns all committed vote records.
func (s *Store) ListVotes() []VoteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]VoteRecord, 0, len(s.state.votes))
	for _, v := range s.state.votes {
		out = append(out, cloneVote(v))
	}
	return out
}

// GetKycRecord returns a committed KYC record by holder.
func (s *Store) GetKycRecord(holderID string) (KycRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.state.kyc[holderID]
	if !ok {
		return KycRecord{}, false
	}
	return cloneKyc(k), true
}

// ListKycRecords returns all committed KYC records.
func (s *Store) ListKycRecords() []KycRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]KycRecord, 0, len(s.state.kyc))
	for _, k := range s.state.kyc {
		out = append(out, cloneKyc(k))
	}
	return out
}

// GetListing returns a committed market listing by ID.
func (s *Store) GetListing(id string) (MarketListing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.state.listings[id]
	if !ok {
		return MarketListing{}, false
	}
	return cloneListing(l), true
}

// ListListings returns all committed market listings.
func (s *Store) ListListings() []MarketListing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MarketListing, 0, len(s.state.listings))
	for _, l := range s.state.listings {
		out = append(out, cloneListing(l))
	}
	return out
}
