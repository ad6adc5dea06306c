package core

import (
	"context"
	"time"

	"landledger/pkg/domain"
)

// CreateProposalParams carries the attributes of a new governance proposal.
type CreateProposalParams struct {
	PropertyID   string           `json:"property_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Category     ProposalCategory `json:"category"`
	VotingPeriod time.Duration    `json:"voting_period"`
}

func (p CreateProposalParams) validate() error {
	if err := validateIdentifier("property id", p.PropertyID); err != nil {
		return err
	}
	if err := validateText("title", p.Title, MaxTitleLength, true); err != nil {
		return err
	}
	if err := validateText("description", p.Description, MaxDescriptionLength, false); err != nil {
		return err
	}
	if !p.Category.Valid() {
		return domain.NewErrorf(domain.CodeInvalidCategory, "unknown proposal category %q", p.Category)
	}
	if p.VotingPeriod < MinVotingPeriod || p.VotingPeriod > MaxVotingPeriod {
		return domain.NewErrorf(domain.CodeInvalidPeriod, "voting period %s outside [%s, %s]", p.VotingPeriod, MinVotingPeriod, MaxVotingPeriod)
	}
	return nil
}

// CreateProposal opens a governance proposal for a property. The caller
// becomes the proposer and must hold at least the platform governance
// threshold of the property's shares.
func (s *Service) CreateProposal(ctx context.Context, caller string, params CreateProposalParams) (Proposal, Result, error) {
	var created Proposal
	res, err := s.run(ctx, OpCreateProposal, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := params.validate(); err != nil {
			return err
		}
		property, err := findPropertyOrErr(tx, params.PropertyID)
		if err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		cfg, err := requirePlatform(tx)
		if err != nil {
			return err
		}
		position, _ := tx.FindPosition(params.PropertyID, caller)
		if position.SharesOwned < cfg.GovernanceThreshold {
			return domain.NewErrorf(domain.CodeInsufficientShares, "caller %q holds %d shares, governance threshold is %d", caller, position.SharesOwned, cfg.GovernanceThreshold)
		}
		created, err = tx.CreateProposal(Proposal{
			PropertyID:   params.PropertyID,
			ProposerID:   caller,
			Title:        params.Title,
			Description:  params.Description,
			Category:     params.Category,
			VotingEndsAt: tx.Now().Add(params.VotingPeriod),
		})
		return err
	})
	return created, res, err
}

// Vote casts the caller's vote on a proposal, weighted by the shares held at
// vote time. A holder votes at most once per proposal; the vote record is
// write-once and the weight is frozen when cast.
func (s *Service) Vote(ctx context.Context, caller, proposalID string, voteFor bool) (VoteRecord, Result, error) {
	var record VoteRecord
	res, err := s.run(ctx, OpCastVote, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("proposal id", proposalID); err != nil {
			return err
		}
		proposal, ok := tx.FindProposal(proposalID)
		if !ok {
			return domain.NewErrorf(domain.CodeNotFound, "proposal %q not found", proposalID)
		}
		now := tx.Now()
		if proposal.Executed || now.After(proposal.VotingEndsAt) {
			return domain.NewErrorf(domain.CodeVotingClosed, "voting on proposal %q has closed", proposalID)
		}
		position, _ := tx.FindPosition(proposal.PropertyID, caller)
		if position.SharesOwned == 0 {
			return domain.NewErrorf(domain.CodeNoSharesOwned, "caller %q owns no shares of property %q", caller, proposal.PropertyID)
		}
		if _, ok := tx.FindVote(proposalID, caller); ok {
			return domain.NewErrorf(domain.CodeAlreadyVoted, "caller %q already voted on proposal %q", caller, proposalID)
		}
		weight := position.SharesOwned
		if _, err := tx.UpdateProposal(proposalID, func(p *Proposal) error {
			total, err := checkedAdd(p.TotalVotes, weight, "total votes")
			if err != nil {
				return err
			}
			if voteFor {
				votes, err := checkedAdd(p.VotesFor, weight, "votes for")
				if err != nil {
					return err
				}
				p.VotesFor = votes
			} else {
				votes, err := checkedAdd(p.VotesAgainst, weight, "votes against")
				if err != nil {
					return err
				}
				p.VotesAgainst = votes
			}
			p.TotalVotes = total
			return nil
		}); err != nil {
			return err
		}
		var err error
		record, err = tx.CreateVote(VoteRecord{
			ProposalID: proposalID,
			VoterID:    caller,
			VoteFor:    voteFor,
			Weight:     weight,
		})
		return err
	})
	return record, res, err
}

// ExecuteProposal resolves a proposal after its voting deadline. Any caller
// may execute; the outcome is a pure function of the tallies. A proposal
// passes when the for-votes strictly beat the against-votes and turnout
// exceeds half the property's issued shares. Execution happens exactly once.
func (s *Service) ExecuteProposal(ctx context.Context, caller, proposalID string) (Proposal, Result, error) {
	var executed Proposal
	res, err := s.run(ctx, OpExecuteProposal, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("proposal id", proposalID); err != nil {
			return err
		}
		proposal, ok := tx.FindProposal(proposalID)
		if !ok {
			return domain.NewErrorf(domain.CodeNotFound, "proposal %q not found", proposalID)
		}
		if proposal.Executed {
			return domain.NewErrorf(domain.CodeAlreadyExecuted, "proposal %q already executed", proposalID)
		}
		now := tx.Now()
		if !now.After(proposal.VotingEndsAt) {
			return domain.NewErrorf(domain.CodeVotingStillOpen, "voting on proposal %q is open until %s", proposalID, proposal.VotingEndsAt.Format(time.RFC3339))
		}
		property, err := findPropertyOrErr(tx, proposal.PropertyID)
		if err != nil {
			return err
		}
		passed := proposal.VotesFor > proposal.VotesAgainst && proposal.TotalVotes > property.SharesIssued/2
		executed, err = tx.UpdateProposal(proposalID, func(p *Proposal) error {
			p.Executed = true
			p.Passed = passed
			p.ExecutedAt = &now
			return nil
		})
		return err
	})
	return executed, res, err
}
