package core

import "landledger/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	PlatformConfig     = domain.PlatformConfig
	Property           = domain.Property
	PropertyState      = domain.PropertyState
	PropertyCategory   = domain.PropertyCategory
	OwnershipPosition  = domain.OwnershipPosition
	Proposal           = domain.Proposal
	ProposalCategory   = domain.ProposalCategory
	ProposalStatus     = domain.ProposalStatus
	VoteRecord         = domain.VoteRecord
	KycRecord          = domain.KycRecord
	MarketListing      = domain.MarketListing
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Event              = domain.Event
	EventSink          = domain.EventSink
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	RuleView           = domain.RuleView
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityPlatformConfig = domain.EntityPlatformConfig
	EntityProperty       = domain.EntityProperty
	EntityPosition       = domain.EntityPosition
	EntityProposal       = domain.EntityProposal
	EntityVote           = domain.EntityVote
	EntityKycRecord      = domain.EntityKycRecord
	EntityListing        = domain.EntityListing
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	PropertyActive        = domain.PropertyActive
	PropertyListedForSale = domain.PropertyListedForSale
	PropertySold          = domain.PropertySold
)
