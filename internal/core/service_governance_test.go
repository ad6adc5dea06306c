package core_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"landledger/internal/core"
	"landledger/pkg/domain"
)

const votingPeriod = 72 * time.Hour

func createProposal(t *testing.T, svc *core.Service, proposer, propertyID string) core.Proposal {
	t.Helper()
	proposal, _, err := svc.CreateProposal(context.Background(), proposer, core.CreateProposalParams{
		PropertyID:   propertyID,
		Title:        "Replace the roof",
		Description:  "Quotes attached, work scheduled for the dry season.",
		Category:     domain.ProposalRenovation,
		VotingPeriod: votingPeriod,
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return proposal
}

func TestCreateProposal(t *testing.T) {
	svc, _ := newTestService(t)
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)

	proposal := createProposal(t, svc, alice, "prop-1")
	if proposal.ID == "" || proposal.PropertyID != "prop-1" || proposal.ProposerID != alice {
		t.Fatalf("unexpected proposal: %+v", proposal)
	}
	if proposal.VotesFor != 0 || proposal.VotesAgainst != 0 || proposal.TotalVotes != 0 {
		t.Fatalf("fresh proposal must have zero tallies: %+v", proposal)
	}
	wantEnd := scenarioStart.Add(votingPeriod)
	if !proposal.VotingEndsAt.Equal(wantEnd) {
		t.Fatalf("expected voting end %s, got %s", wantEnd, proposal.VotingEndsAt)
	}
	if got := proposal.Status(scenarioStart); got != domain.ProposalVotingOpen {
		t.Fatalf("expected open proposal, got %s", got)
	}
}

func TestCreateProposalRequiresThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	issueShares(t, svc, "prop-1", carol, 50)

	_, _, err := svc.CreateProposal(ctx, carol, core.CreateProposalParams{
		PropertyID:   "prop-1",
		Title:        "Paint the lobby",
		Category:     domain.ProposalMaintenance,
		VotingPeriod: votingPeriod,
	})
	assertCode(t, err, domain.CodeInsufficientShares)

	// No position at all counts as zero shares.
	_, _, err = svc.CreateProposal(ctx, bob, core.CreateProposalParams{
		PropertyID:   "prop-1",
		Title:        "Paint the lobby",
		Category:     domain.ProposalMaintenance,
		VotingPeriod: votingPeriod,
	})
	assertCode(t, err, domain.CodeInsufficientShares)
}

func TestCreateProposalValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)

	valid := func() core.CreateProposalParams {
		return core.CreateProposalParams{
			PropertyID:   "prop-1",
			Title:        "Replace the roof",
			Category:     domain.ProposalRenovation,
			VotingPeriod: votingPeriod,
		}
	}

	cases := []struct {
		name   string
		mutate func(*core.CreateProposalParams)
		code   domain.Code
	}{
		{"empty title", func(p *core.CreateProposalParams) { p.Title = "" }, domain.CodeMissingField},
		{"long title", func(p *core.CreateProposalParams) { p.Title = strings.Repeat("t", 129) }, domain.CodeFieldTooLong},
		{"long description", func(p *core.CreateProposalParams) { p.Description = strings.Repeat("d", 1025) }, domain.CodeFieldTooLong},
		{"bad category", func(p *core.CreateProposalParams) { p.Category = "museum" }, domain.CodeInvalidCategory},
		{"period too short", func(p *core.CreateProposalParams) { p.VotingPeriod = 30 * time.Minute }, domain.CodeInvalidPeriod},
		{"period too long", func(p *core.CreateProposalParams) { p.VotingPeriod = 9000 * time.Hour }, domain.CodeInvalidPeriod},
		{"missing property", func(p *core.CreateProposalParams) { p.PropertyID = "prop-missing" }, domain.CodeNotFound},
	}
	for _, tc := range cases {
		params := valid()
		tc.mutate(&params)
		_, _, err := svc.CreateProposal(ctx, alice, params)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if got := domain.CodeOf(err); got != tc.code {
			t.Fatalf("%s: expected %s, got %s (%v)", tc.name, tc.code, got, err)
		}
	}
}

func TestVoteTallies(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	issueShares(t, svc, "prop-1", bob, 600)
	proposal := createProposal(t, svc, alice, "prop-1")

	vote, res, err := svc.Vote(ctx, alice, proposal.ID, true)
	if err != nil {
		t.Fatalf("alice votes: %v", err)
	}
	if vote.ID != domain.VoteKey(proposal.ID, alice) || vote.Weight != 400 || !vote.VoteFor {
		t.Fatalf("unexpected vote record: %+v", vote)
	}
	var sawVote, sawProposal bool
	for _, change := range res.Changes {
		switch change.Entity {
		case core.EntityVote:
			sawVote = change.Action == core.ActionCreate
		case core.EntityProposal:
			sawProposal = change.Action == core.ActionUpdate
		}
	}
	if !sawVote || !sawProposal {
		t.Fatalf("expected vote create and proposal update, got %+v", res.Changes)
	}

	if _, _, err := svc.Vote(ctx, bob, proposal.ID, false); err != nil {
		t.Fatalf("bob votes: %v", err)
	}

	updated, _ := svc.GetProposal(proposal.ID)
	if updated.VotesFor != 400 || updated.VotesAgainst != 600 || updated.TotalVotes != 1000 {
		t.Fatalf("unexpected tallies: %+v", updated)
	}
}

func TestVoteValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	proposal := createProposal(t, svc, alice, "prop-1")

	_, _, err := svc.Vote(ctx, alice, "proposal-missing", true)
	assertCode(t, err, domain.CodeNotFound)

	_, _, err = svc.Vote(ctx, carol, proposal.ID, true)
	assertCode(t, err, domain.CodeNoSharesOwned)

	if _, _, err := svc.Vote(ctx, alice, proposal.ID, true); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	_, _, err = svc.Vote(ctx, alice, proposal.ID, false)
	assertCode(t, err, domain.CodeAlreadyVoted)
}

func TestVoteWeightFrozenAtVoteTime(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	proposal := createProposal(t, svc, alice, "prop-1")

	if _, _, err := svc.Vote(ctx, alice, proposal.ID, true); err != nil {
		t.Fatalf("alice votes: %v", err)
	}
	if _, _, err := svc.TransferShares(ctx, alice, "prop-1", alice, carol, 300); err != nil {
		t.Fatalf("alice transfers: %v", err)
	}

	// Alice's recorded weight does not follow her balance down.
	updated, _ := svc.GetProposal(proposal.ID)
	if updated.VotesFor != 400 {
		t.Fatalf("tally moved with the transfer: %+v", updated)
	}

	// Carol votes with the balance she holds now.
	vote, _, err := svc.Vote(ctx, carol, proposal.ID, true)
	if err != nil || vote.Weight != 300 {
		t.Fatalf("carol votes: %+v err=%v", vote, err)
	}
	updated, _ = svc.GetProposal(proposal.ID)
	if updated.VotesFor != 700 || updated.TotalVotes != 700 {
		t.Fatalf("unexpected tallies: %+v", updated)
	}
}

func TestVoteDeadline(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	issueShares(t, svc, "prop-1", bob, 600)
	proposal := createProposal(t, svc, alice, "prop-1")

	// The deadline instant itself still accepts votes.
	*now = proposal.VotingEndsAt
	if _, _, err := svc.Vote(ctx, alice, proposal.ID, true); err != nil {
		t.Fatalf("vote at deadline: %v", err)
	}

	*now = proposal.VotingEndsAt.Add(time.Second)
	_, _, err := svc.Vote(ctx, bob, proposal.ID, true)
	assertCode(t, err, domain.CodeVotingClosed)
}

func TestExecuteProposal(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	issueShares(t, svc, "prop-1", bob, 300)
	issueShares(t, svc, "prop-1", carol, 300)
	proposal := createProposal(t, svc, alice, "prop-1")

	if _, _, err := svc.Vote(ctx, alice, proposal.ID, true); err != nil {
		t.Fatalf("alice votes: %v", err)
	}
	if _, _, err := svc.Vote(ctx, bob, proposal.ID, false); err != nil {
		t.Fatalf("bob votes: %v", err)
	}

	_, _, err := svc.ExecuteProposal(ctx, carol, proposal.ID)
	assertCode(t, err, domain.CodeVotingStillOpen)

	// 400 for vs 300 against with 700 of 1000 shares voting: majority and
	// quorum both clear.
	*now = proposal.VotingEndsAt.Add(time.Minute)
	executed, _, err := svc.ExecuteProposal(ctx, carol, proposal.ID)
	if err != nil {
		t.Fatalf("execute proposal: %v", err)
	}
	if !executed.Executed || !executed.Passed {
		t.Fatalf("expected a passed proposal: %+v", executed)
	}
	if executed.ExecutedAt == nil || !executed.ExecutedAt.Equal(*now) {
		t.Fatalf("execution timestamp: %v", executed.ExecutedAt)
	}
	if got := executed.Status(*now); got != domain.ProposalResolved {
		t.Fatalf("expected resolved status, got %s", got)
	}

	_, _, err = svc.ExecuteProposal(ctx, carol, proposal.ID)
	assertCode(t, err, domain.CodeAlreadyExecuted)

	// A closed ballot takes no more votes.
	_, _, err = svc.Vote(ctx, carol, proposal.ID, true)
	assertCode(t, err, domain.CodeVotingClosed)
}

func TestExecuteProposalFailsQuorum(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 400)
	issueShares(t, svc, "prop-1", bob, 600)
	proposal := createProposal(t, svc, alice, "prop-1")

	// Unanimous among voters, but only 400 of 1000 shares turned out.
	if _, _, err := svc.Vote(ctx, alice, proposal.ID, true); err != nil {
		t.Fatalf("alice votes: %v", err)
	}
	*now = proposal.VotingEndsAt.Add(time.Minute)
	executed, _, err := svc.ExecuteProposal(ctx, bob, proposal.ID)
	if err != nil {
		t.Fatalf("execute proposal: %v", err)
	}
	if !executed.Executed || executed.Passed {
		t.Fatalf("expected a failed proposal: %+v", executed)
	}
}

func TestExecuteProposalTieFails(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)
	registerProperty(t, svc, "prop-1", false)
	issueShares(t, svc, "prop-1", alice, 300)
	issueShares(t, svc, "prop-1", bob, 300)
	issueShares(t, svc, "prop-1", carol, 400)
	proposal := createProposal(t, svc, alice, "prop-1")

	if _, _, err := svc.Vote(ctx, alice, proposal.ID, true); err != nil {
		t.Fatalf("alice votes: %v", err)
	}
	if _, _, err := svc.Vote(ctx, bob, proposal.ID, false); err != nil {
		t.Fatalf("bob votes: %v", err)
	}
	*now = proposal.VotingEndsAt.Add(time.Minute)
	executed, _, err := svc.ExecuteProposal(ctx, alice, proposal.ID)
	if err != nil {
		t.Fatalf("execute proposal: %v", err)
	}
	if executed.Passed {
		t.Fatalf("a tie must not pass: %+v", executed)
	}
}
