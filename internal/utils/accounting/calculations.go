package accounting

import (
	"fmt"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line amount based on
// account type and entry side. Services and repositories share this so the
// incremental balance math is identical everywhere.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := line.Amount
	isDebit := line.Side == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit { // Credit to Asset/Expense
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit { // Debit to Liability/Equity/Revenue
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return signedAmount, nil
}

// ValidateEntryBalance checks that a candidate entry's lines form a valid
// double-entry posting: at least two lines, every amount strictly positive
// on exactly one side, and the debit sum exactly equal to the credit sum.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	}

	zero := decimal.NewFromInt(0)
	debitsSum := zero
	creditsSum := zero

	for _, line := range lines {
		if line.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("%w: line amount must be positive for account %s", apperrors.ErrValidation, line.AccountID)
		}

		switch line.Side {
		case domain.Debit:
			debitsSum = debitsSum.Add(line.Amount)
		case domain.Credit:
			creditsSum = creditsSum.Add(line.Amount)
		default:
			return fmt.Errorf("%w: line side must be DEBIT or CREDIT for account %s", apperrors.ErrValidation, line.AccountID)
		}
	}

	// Exact equality; no rounding tolerance beyond the decimal representation.
	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrImbalancedEntry, debitsSum.String(), creditsSum.String())
	}

	return nil
}

// EntryTotal computes the economic value of a balanced entry: the sum of
// its debit side.
func EntryTotal(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Side == domain.Debit {
			total = total.Add(line.Amount)
		}
	}
	return total
}
