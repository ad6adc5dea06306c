package core

import (
	"context"
	"sync"
	"time"
)

// AuditStatus classifies the outcome recorded for an operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry is one operation-level audit record. Entity and Action describe
// the primary record the operation touches, EntityID identifies it.
type AuditEntry struct {
	Operation string        `json:"operation"`
	Entity    EntityType    `json:"entity"`
	Action    Action        `json:"action"`
	EntityID  string        `json:"entity_id"`
	Actor     string        `json:"actor,omitempty"`
	Status    AuditStatus   `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// AuditRecorder receives operation-level audit entries from the service.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type operationProfile struct {
	Entity EntityType
	Action Action
}

// operationProfiles maps each service operation to the entity and action it
// audits as. Operations missing from the table are not audit-recorded.
var operationProfiles = map[string]operationProfile{
	OpInitializePlatform:        {EntityPlatformConfig, ActionCreate},
	OpUpdatePlatformFee:         {EntityPlatformConfig, ActionUpdate},
	OpUpdateGovernanceThreshold: {EntityPlatformConfig, ActionUpdate},
	OpRecordPriceReference:      {EntityPlatformConfig, ActionUpdate},
	OpSetKycStatus:              {EntityKycRecord, ActionUpdate},
	OpRegisterProperty:          {EntityProperty, ActionCreate},
	OpUpdateValuation:           {EntityProperty, ActionUpdate},
	OpUpdateExpectedYield:       {EntityProperty, ActionUpdate},
	OpInitiateSale:              {EntityProperty, ActionUpdate},
	OpExecuteSale:               {EntityProperty, ActionUpdate},
	OpAttachLegalDocument:       {EntityProperty, ActionUpdate},
	OpIssueShares:               {EntityPosition, ActionUpdate},
	OpTransferShares:            {EntityPosition, ActionUpdate},
	OpBatchTransfer:             {EntityPosition, ActionUpdate},
	OpAccrueIncome:              {EntityProperty, ActionUpdate},
	OpClaimIncome:               {EntityPosition, ActionUpdate},
	OpBatchClaim:                {EntityPosition, ActionUpdate},
	OpBatchDistribute:           {EntityProperty, ActionUpdate},
	OpCreateProposal:            {EntityProposal, ActionCreate},
	OpCastVote:                  {EntityVote, ActionCreate},
	OpExecuteProposal:           {EntityProposal, ActionUpdate},
	OpListShares:                {EntityListing, ActionCreate},
	OpFillListing:               {EntityListing, ActionUpdate},
	OpCancelListing:             {EntityListing, ActionUpdate},
}

// Operation names used across audit entries, events, metrics, and logs.
const (
	OpInitializePlatform        = "initialize_platform"
	OpUpdatePlatformFee         = "update_platform_fee"
	OpUpdateGovernanceThreshold = "update_governance_threshold"
	OpRecordPriceReference      = "record_price_reference"
	OpSetKycStatus              = "set_kyc_status"
	OpRegisterProperty          = "register_property"
	OpUpdateValuation           = "update_valuation"
	OpUpdateExpectedYield       = "update_expected_yield"
	OpInitiateSale              = "initiate_sale"
	OpExecuteSale               = "execute_sale"
	OpAttachLegalDocument       = "attach_legal_document"
	OpIssueShares               = "issue_shares"
	OpTransferShares            = "transfer_shares"
	OpBatchTransfer             = "batch_transfer"
	OpAccrueIncome              = "accrue_income"
	OpClaimIncome               = "claim_income"
	OpBatchClaim                = "batch_claim"
	OpBatchDistribute           = "batch_distribute"
	OpCreateProposal            = "create_proposal"
	OpCastVote                  = "cast_vote"
	OpExecuteProposal           = "execute_proposal"
	OpListShares                = "list_shares"
	OpFillListing               = "fill_listing"
	OpCancelListing             = "cancel_listing"
)

// MemoryAuditRecorder retains entries in memory, primarily for tests and
// offline reconciliation.
type MemoryAuditRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// Record implements AuditRecorder.
func (r *MemoryAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

// Entries returns a copy of the recorded entries in arrival order.
func (r *MemoryAuditRecorder) Entries() []AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// LogAuditRecorder forwards audit entries to a service Logger.
type LogAuditRecorder struct {
	logger Logger
}

// NewLogAuditRecorder builds a recorder writing through the supplied logger.
func NewLogAuditRecorder(logger Logger) *LogAuditRecorder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &LogAuditRecorder{logger: logger}
}

// Record implements AuditRecorder.
func (r *LogAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	args := []any{
		"operation", entry.Operation,
		"entity", string(entry.Entity),
		"action", string(entry.Action),
		"entity_id", entry.EntityID,
		"actor", entry.Actor,
		"duration_ms", float64(entry.Duration) / float64(time.Millisecond),
	}
	if entry.Status == AuditStatusSuccess {
		r.logger.Info("audit", args...)
		return
	}
	args = append(args, "error", entry.Error)
	r.logger.Error("audit", args...)
}
