package core

import (
	"context"
	"fmt"

	"landledger/pkg/domain"
	"landledger/pkg/fixedpoint"
)

// NewVoteIntegrityRule returns the in-transaction rule asserting that every
// proposal's tallies are internally consistent and exactly match the weights
// of its vote records.
func NewVoteIntegrityRule() domain.Rule {
	return voteIntegrityRule{}
}

type voteIntegrityRule struct{}

func (voteIntegrityRule) Name() string { return "vote_integrity" }

func (voteIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "vote_integrity",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   domain.EntityProposal,
			EntityID: id,
		})
	}

	type tally struct {
		votesFor     uint64
		votesAgainst uint64
	}
	tallies := make(map[string]tally)
	known := make(map[string]struct{})
	for _, proposal := range view.ListProposals() {
		known[proposal.ID] = struct{}{}
	}

	for _, vote := range view.ListVotes() {
		if _, ok := known[vote.ProposalID]; !ok {
			block(vote.ProposalID, fmt.Sprintf("vote %s references unknown proposal %s", vote.ID, vote.ProposalID))
			continue
		}
		t := tallies[vote.ProposalID]
		var err error
		if vote.VoteFor {
			t.votesFor, err = fixedpoint.Add(t.votesFor, vote.Weight)
		} else {
			t.votesAgainst, err = fixedpoint.Add(t.votesAgainst, vote.Weight)
		}
		if err != nil {
			block(vote.ProposalID, fmt.Sprintf("vote weights of proposal %s overflow", vote.ProposalID))
			continue
		}
		tallies[vote.ProposalID] = t
	}

	for _, proposal := range view.ListProposals() {
		total, err := fixedpoint.Add(proposal.VotesFor, proposal.VotesAgainst)
		if err != nil || total != proposal.TotalVotes {
			block(proposal.ID, fmt.Sprintf("proposal %s tallies %d for + %d against do not equal %d total", proposal.ID, proposal.VotesFor, proposal.VotesAgainst, proposal.TotalVotes))
			continue
		}
		t := tallies[proposal.ID]
		if t.votesFor != proposal.VotesFor || t.votesAgainst != proposal.VotesAgainst {
			block(proposal.ID, fmt.Sprintf("proposal %s tallies diverge from its vote records (%d/%d recorded, %d/%d tallied)", proposal.ID, t.votesFor, t.votesAgainst, proposal.VotesFor, proposal.VotesAgainst))
		}
	}
	return res, nil
}
