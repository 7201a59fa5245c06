package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMatchDateToleranceDays bounds how far apart in days a bank transaction
// and a candidate ledger posting may be for automatic matching.
const DefaultMatchDateToleranceDays = 3

// LedgerLineSnapshot is the caller-supplied view of an unmatched posted journal
// line used by the auto matcher: the line itself plus the entry date it was
// posted under.
type LedgerLineSnapshot struct {
	LineID          string
	AccountID       string
	TransactionType TransactionType
	Amount          decimal.Decimal
	EntryDate       time.Time
}

// MatchProposal pairs one bank transaction with exactly one ledger line.
type MatchProposal struct {
	TransactionID string
	LineID        string
}

// AutoMatchResult summarises a matching pass. Finding nothing to match is an
// ordinary outcome, reported as zero proposals.
type AutoMatchResult struct {
	Proposals      []MatchProposal
	MatchedCount   int
	UnmatchedCount int
}

// AutoMatch proposes transaction-to-line pairings over an in-memory snapshot.
// For every Unmatched transaction it considers lines whose posting direction is
// consistent with the transaction's amount sign and whose amount equals the
// transaction's absolute amount exactly. Among candidates dated within
// toleranceDays of the transaction it picks the strictly closest in date. A
// transaction with zero candidates, or with two candidates tied at the same
// distance, stays Unmatched: the matcher never guesses between ambiguous
// candidates. Each ledger line is consumed by at most one proposal.
func AutoMatch(transactions []BankTransaction, lines []LedgerLineSnapshot, toleranceDays int) AutoMatchResult {
	if toleranceDays <= 0 {
		toleranceDays = DefaultMatchDateToleranceDays
	}

	result := AutoMatchResult{}
	consumed := make(map[string]bool, len(lines))

	for _, txn := range transactions {
		if txn.MatchStatus == Matched {
			result.MatchedCount++
			continue
		}

		bestLineID := ""
		bestDistance := 0
		tied := false
		wantDirection := txn.LedgerDirection()
		wantAmount := txn.Amount.Abs()

		for _, line := range lines {
			if consumed[line.LineID] {
				continue
			}
			if line.TransactionType != wantDirection {
				continue
			}
			if !line.Amount.Equal(wantAmount) {
				continue
			}
			distance := dayDistance(txn.TransactionDate, line.EntryDate)
			if distance > toleranceDays {
				continue
			}
			switch {
			case bestLineID == "" || distance < bestDistance:
				bestLineID = line.LineID
				bestDistance = distance
				tied = false
			case distance == bestDistance:
				tied = true
			}
		}

		if bestLineID == "" || tied {
			result.UnmatchedCount++
			continue
		}

		consumed[bestLineID] = true
		result.Proposals = append(result.Proposals, MatchProposal{
			TransactionID: txn.TransactionID,
			LineID:        bestLineID,
		})
		result.MatchedCount++
	}

	return result
}

// dayDistance returns the absolute whole-day distance between two dates,
// ignoring the time of day.
func dayDistance(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(aDay.Sub(bDay).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
