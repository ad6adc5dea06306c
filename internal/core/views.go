package core

import "sort"

// Committed read accessors. The store returns unordered copies; the service
// applies stable orderings so callers and tests see deterministic lists.

// GetProperty returns a committed property by ID.
func (s *Service) GetProperty(id string) (Property, bool) {
	return s.store.GetProperty(id)
}

// GetPosition returns a committed ownership position.
func (s *Service) GetPosition(propertyID, holderID string) (OwnershipPosition, bool) {
	return s.store.GetPosition(propertyID, holderID)
}

// GetProposal returns a committed proposal by ID.
func (s *Service) GetProposal(id string) (Proposal, bool) {
	return s.store.GetProposal(id)
}

// GetVote returns a committed vote record.
func (s *Service) GetVote(proposalID, voterID string) (VoteRecord, bool) {
	return s.store.GetVote(proposalID, voterID)
}

// GetKycRecord returns a committed KYC record for a holder.
func (s *Service) GetKycRecord(holderID string) (KycRecord, bool) {
	return s.store.GetKycRecord(holderID)
}

// GetListing returns a committed market listing by ID.
func (s *Service) GetListing(id string) (MarketListing, bool) {
	return s.store.GetListing(id)
}

// ListProperties returns all properties ordered by ID.
func (s *Service) ListProperties() []Property {
	properties := s.store.ListProperties()
	sort.Slice(properties, func(i, j int) bool { return properties[i].ID < properties[j].ID })
	return properties
}

// ListPositions returns ownership positions, filtered to one property when
// propertyID is non-empty, ordered by property then holder.
func (s *Service) ListPositions(propertyID string) []OwnershipPosition {
	positions := s.store.ListPositions()
	if propertyID != "" {
		filtered := positions[:0]
		for _, pos := range positions {
			if pos.PropertyID == propertyID {
				filtered = append(filtered, pos)
			}
		}
		positions = filtered
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].PropertyID != positions[j].PropertyID {
			return positions[i].PropertyID < positions[j].PropertyID
		}
		return positions[i].HolderID < positions[j].HolderID
	})
	return positions
}

// ListProposals returns proposals, filtered to one property when propertyID
// is non-empty, oldest first.
func (s *Service) ListProposals(propertyID string) []Proposal {
	proposals := s.store.ListProposals()
	if propertyID != "" {
		filtered := proposals[:0]
		for _, proposal := range proposals {
			if proposal.PropertyID == propertyID {
				filtered = append(filtered, proposal)
			}
		}
		proposals = filtered
	}
	sort.Slice(proposals, func(i, j int) bool {
		if !proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
		}
		return proposals[i].ID < proposals[j].ID
	})
	return proposals
}

// ListVotes returns vote records, filtered to one proposal when proposalID
// is non-empty, ordered by voter.
func (s *Service) ListVotes(proposalID string) []VoteRecord {
	votes := s.store.ListVotes()
	if proposalID != "" {
		filtered := votes[:0]
		for _, vote := range votes {
			if vote.ProposalID == proposalID {
				filtered = append(filtered, vote)
			}
		}
		votes = filtered
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].ProposalID != votes[j].ProposalID {
			return votes[i].ProposalID < votes[j].ProposalID
		}
		return votes[i].VoterID < votes[j].VoterID
	})
	return votes
}

// ListKycRecords returns all KYC records ordered by holder.
func (s *Service) ListKycRecords() []KycRecord {
	records := s.store.ListKycRecords()
	sort.Slice(records, func(i, j int) bool { return records[i].HolderID < records[j].HolderID })
	return records
}

// ListListings returns market listings, optionally filtered to one property
// and to active listings only, oldest first.
func (s *Service) ListListings(propertyID string, activeOnly bool) []MarketListing {
	listings := s.store.ListListings()
	filtered := listings[:0]
	for _, listing := range listings {
		if propertyID != "" && listing.PropertyID != propertyID {
			continue
		}
		if activeOnly && !listing.Active {
			continue
		}
		filtered = append(filtered, listing)
	}
	listings = filtered
	sort.Slice(listings, func(i, j int) bool {
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.Before(listings[j].CreatedAt)
		}
		return listings[i].ID < listings[j].ID
	})
	return listings
}
