package core_test

import (
	"context"
	"testing"
	"time"
)

func TestViewOrderingAndFilters(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()
	initPlatform(t, svc)

	// Registration order deliberately differs from ID order.
	registerProperty(t, svc, "prop-b", false)
	registerProperty(t, svc, "prop-a", false)

	issueShares(t, svc, "prop-a", bob, 200)
	issueShares(t, svc, "prop-a", alice, 300)
	issueShares(t, svc, "prop-b", carol, 150)

	properties := svc.ListProperties()
	if len(properties) != 2 || properties[0].ID != "prop-a" || properties[1].ID != "prop-b" {
		t.Fatalf("unexpected property order: %+v", properties)
	}

	positions := svc.ListPositions("")
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(positions))
	}
	wantHolders := []string{alice, bob, carol}
	for i, pos := range positions {
		if pos.HolderID != wantHolders[i] {
			t.Fatalf("position %d: expected holder %s, got %s", i, wantHolders[i], pos.HolderID)
		}
	}
	if filtered := svc.ListPositions("prop-a"); len(filtered) != 2 {
		t.Fatalf("expected 2 positions on prop-a, got %d", len(filtered))
	}

	// Proposals list oldest first; the clock steps between creations.
	first := createProposal(t, svc, alice, "prop-a")
	*now = scenarioStart.Add(time.Hour)
	second := createProposal(t, svc, bob, "prop-a")
	*now = scenarioStart.Add(2 * time.Hour)
	third := createProposal(t, svc, carol, "prop-b")

	all := svc.ListProposals("")
	if len(all) != 3 || all[0].ID != first.ID || all[1].ID != second.ID || all[2].ID != third.ID {
		t.Fatalf("unexpected proposal order: %+v", all)
	}
	forA := svc.ListProposals("prop-a")
	if len(forA) != 2 || forA[0].ID != first.ID || forA[1].ID != second.ID {
		t.Fatalf("unexpected filtered proposals: %+v", forA)
	}

	// Votes order by voter within a proposal.
	if _, _, err := svc.Vote(ctx, bob, first.ID, false); err != nil {
		t.Fatalf("bob votes: %v", err)
	}
	if _, _, err := svc.Vote(ctx, alice, first.ID, true); err != nil {
		t.Fatalf("alice votes: %v", err)
	}
	if _, _, err := svc.Vote(ctx, carol, third.ID, true); err != nil {
		t.Fatalf("carol votes: %v", err)
	}
	votes := svc.ListVotes(first.ID)
	if len(votes) != 2 || votes[0].VoterID != alice || votes[1].VoterID != bob {
		t.Fatalf("unexpected vote order: %+v", votes)
	}
	if allVotes := svc.ListVotes(""); len(allVotes) != 3 {
		t.Fatalf("expected 3 votes in total, got %d", len(allVotes))
	}

	// KYC records order by holder.
	for _, holder := range []string{carol, alice, bob} {
		if _, _, err := svc.SetKycStatus(ctx, authority, holder, true, "idnow", ""); err != nil {
			t.Fatalf("set kyc for %s: %v", holder, err)
		}
	}
	records := svc.ListKycRecords()
	if len(records) != 3 || records[0].HolderID != alice || records[2].HolderID != carol {
		t.Fatalf("unexpected kyc order: %+v", records)
	}

	// Listings: property filter plus active-only filter, oldest first.
	l1 := listShares(t, svc, alice, "prop-a", 50, 60)
	*now = scenarioStart.Add(3 * time.Hour)
	l2 := listShares(t, svc, alice, "prop-a", 40, 65)
	l3 := listShares(t, svc, carol, "prop-b", 10, 70)
	if _, _, err := svc.CancelListing(ctx, alice, l1.ID); err != nil {
		t.Fatalf("cancel listing: %v", err)
	}

	listings := svc.ListListings("prop-a", false)
	if len(listings) != 2 || listings[0].ID != l1.ID || listings[1].ID != l2.ID {
		t.Fatalf("unexpected listings: %+v", listings)
	}
	active := svc.ListListings("prop-a", true)
	if len(active) != 1 || active[0].ID != l2.ID {
		t.Fatalf("unexpected active listings: %+v", active)
	}
	if everything := svc.ListListings("", false); len(everything) != 3 {
		t.Fatalf("expected 3 listings in total, got %d", len(everything))
	}
	if forB := svc.ListListings("prop-b", true); len(forB) != 1 || forB[0].ID != l3.ID {
		t.Fatalf("unexpected prop-b listings: %+v", forB)
	}
}

func TestGettersMissingEntities(t *testing.T) {
	svc, _ := newTestService(t)

	if _, ok := svc.GetProperty("nope"); ok {
		t.Fatalf("unexpected property")
	}
	if _, ok := svc.GetPosition("nope", "nobody"); ok {
		t.Fatalf("unexpected position")
	}
	if _, ok := svc.GetProposal("nope"); ok {
		t.Fatalf("unexpected proposal")
	}
	if _, ok := svc.GetVote("nope", "nobody"); ok {
		t.Fatalf("unexpected vote")
	}
	if _, ok := svc.GetKycRecord("nobody"); ok {
		t.Fatalf("unexpected kyc record")
	}
	if _, ok := svc.GetListing("nope"); ok {
		t.Fatalf("unexpected listing")
	}
}
