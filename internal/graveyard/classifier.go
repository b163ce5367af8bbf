package graveyard

import (
	"math/big"
	"sort"
	"time"

	"github.com/crazycube/graveyard-api/internal/domain"
)

// Classification is an owner's burn records split by claim state
type Classification struct {
	Claimable      []domain.ClaimEntry
	Pending        []domain.ClaimEntry
	Claimed        []domain.ClaimEntry
	TotalClaimable *big.Int
	TotalPending   *big.Int
}

// Classify buckets the records that belong to owner by claim state at now.
// A record without a claim time is pending with nothing remaining; it never becomes claimable.
func Classify(owner string, records []domain.BurnRecord, now time.Time) Classification {
	c := Classification{
		Claimable:      make([]domain.ClaimEntry, 0),
		Pending:        make([]domain.ClaimEntry, 0),
		Claimed:        make([]domain.ClaimEntry, 0),
		TotalClaimable: big.NewInt(0),
		TotalPending:   big.NewInt(0),
	}
	nowUnix := now.Unix()

	for _, r := range records {
		if !domain.SameAddress(r.Owner, owner) {
			continue
		}

		entry := domain.ClaimEntry{
			TokenID:            r.TokenID,
			TotalAmount:        amountString(r.TotalAmount),
			ClaimAmount:        amountString(r.ClaimAmount),
			ClaimAvailableTime: r.ClaimAvailableTime,
			WaitMinutes:        r.WaitMinutes,
		}

		switch {
		case r.Claimed:
			entry.Status = domain.ClaimStatusClaimed
			c.Claimed = append(c.Claimed, entry)
		case r.ClaimAvailableTime == 0:
			entry.Status = domain.ClaimStatusPending
			c.Pending = append(c.Pending, entry)
			addAmount(c.TotalPending, r.ClaimAmount)
		case r.ClaimAvailableTime <= nowUnix:
			entry.Status = domain.ClaimStatusClaimable
			c.Claimable = append(c.Claimable, entry)
			addAmount(c.TotalClaimable, r.ClaimAmount)
		default:
			entry.Status = domain.ClaimStatusPending
			entry.SecondsRemaining = r.ClaimAvailableTime - nowUnix
			c.Pending = append(c.Pending, entry)
			addAmount(c.TotalPending, r.ClaimAmount)
		}
	}

	sortEntries(c.Claimable)
	sortEntries(c.Pending)
	sortEntries(c.Claimed)

	return c
}

// Readiness is the graveyard split by release state
type Readiness struct {
	Ready   []domain.TokenID
	Cooling []domain.GraveEntry
	Unknown []domain.TokenID
}

// ClassifyReadiness splits graveyard ids into those whose grave release time
// has passed, those still cooling and those without a burn record
func ClassifyReadiness(ids []domain.TokenID, records map[domain.TokenID]domain.BurnRecord, now time.Time) Readiness {
	r := Readiness{
		Ready:   make([]domain.TokenID, 0),
		Cooling: make([]domain.GraveEntry, 0),
		Unknown: make([]domain.TokenID, 0),
	}
	nowUnix := now.Unix()

	for _, id := range ids {
		record, ok := records[id]
		if !ok {
			r.Unknown = append(r.Unknown, id)
			continue
		}

		if record.GraveReleaseTime <= nowUnix {
			r.Ready = append(r.Ready, id)
			continue
		}

		r.Cooling = append(r.Cooling, domain.GraveEntry{
			TokenID:          id,
			GraveReleaseTime: record.GraveReleaseTime,
			SecondsRemaining: record.GraveReleaseTime - nowUnix,
		})
	}

	domain.SortTokenIDs(r.Ready)
	domain.SortTokenIDs(r.Unknown)
	sort.Slice(r.Cooling, func(i, j int) bool { return r.Cooling[i].TokenID.Less(r.Cooling[j].TokenID) })

	return r
}

func sortEntries(entries []domain.ClaimEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].TokenID.Less(entries[j].TokenID) })
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func addAmount(total, v *big.Int) {
	if v != nil {
		total.Add(total, v)
	}
}
