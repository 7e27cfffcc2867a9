package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tags where a RateSnapshot came from so callers can tell live
// market data apart from synthesized values.
type RateSource string

const (
	SourceLive     RateSource = "live"
	SourceMock     RateSource = "mock"
	SourceFallback RateSource = "fallback"
)

// NisabBasis selects which metal anchors the nisab threshold.
type NisabBasis string

const (
	BasisGold   NisabBasis = "gold"
	BasisSilver NisabBasis = "silver"
)

// RateSnapshot holds per-gram precious metal prices at a point in time.
// Snapshots are immutable once constructed.
type RateSnapshot struct {
	Gold24KPerGram decimal.Decimal `json:"gold_24k_per_gram"`
	Gold22KPerGram decimal.Decimal `json:"gold_22k_per_gram"`
	Gold18KPerGram decimal.Decimal `json:"gold_18k_per_gram"`
	SilverPerGram  decimal.Decimal `json:"silver_per_gram"`
	Currency       string          `json:"currency"`
	Timestamp      time.Time       `json:"timestamp"`
	Source         RateSource      `json:"source"`
}

// SnapshotRecord is a persisted live RateSnapshot.
type SnapshotRecord struct {
	ID         string       `json:"id"`
	Rates      RateSnapshot `json:"rates"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// AssetInputs are the user's declared zakatable holdings. Metal weights are in
// grams, everything else is a currency amount.
type AssetInputs struct {
	Gold24KGrams      decimal.Decimal `json:"gold_24k_grams"`
	Gold22KGrams      decimal.Decimal `json:"gold_22k_grams"`
	Gold18KGrams      decimal.Decimal `json:"gold_18k_grams"`
	SilverGrams       decimal.Decimal `json:"silver_grams"`
	CashInHand        decimal.Decimal `json:"cash_in_hand"`
	BankSavings       decimal.Decimal `json:"bank_savings"`
	BusinessInventory decimal.Decimal `json:"business_inventory"`
	Investments       decimal.Decimal `json:"investments"`
	Receivables       decimal.Decimal `json:"receivables"`
	OtherAssets       decimal.Decimal `json:"other_assets"`
}

// LiabilityInputs are debts and expenses deductible from net wealth.
type LiabilityInputs struct {
	ShortTermDebts    decimal.Decimal `json:"short_term_debts"`
	ImmediateExpenses decimal.Decimal `json:"immediate_expenses"`
	OtherLiabilities  decimal.Decimal `json:"other_liabilities"`
}

// CalculationRequest is the full input for one zakat calculation.
type CalculationRequest struct {
	Assets      AssetInputs     `json:"assets"`
	Liabilities LiabilityInputs `json:"liabilities"`
	NisabBasis  NisabBasis      `json:"nisab_basis"`
}

// Validate rejects negative quantities and unknown nisab bases. The calculator
// assumes validated input and does no checking of its own.
func (r CalculationRequest) Validate() error {
	fields := map[string]decimal.Decimal{
		"gold_24k_grams":     r.Assets.Gold24KGrams,
		"gold_22k_grams":     r.Assets.Gold22KGrams,
		"gold_18k_grams":     r.Assets.Gold18KGrams,
		"silver_grams":       r.Assets.SilverGrams,
		"cash_in_hand":       r.Assets.CashInHand,
		"bank_savings":       r.Assets.BankSavings,
		"business_inventory": r.Assets.BusinessInventory,
		"investments":        r.Assets.Investments,
		"receivables":        r.Assets.Receivables,
		"other_assets":       r.Assets.OtherAssets,
		"short_term_debts":   r.Liabilities.ShortTermDebts,
		"immediate_expenses": r.Liabilities.ImmediateExpenses,
		"other_liabilities":  r.Liabilities.OtherLiabilities,
	}
	for name, val := range fields {
		if val.Sign() < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	if r.NisabBasis != BasisGold && r.NisabBasis != BasisSilver {
		return fmt.Errorf("nisab_basis must be %q or %q", BasisGold, BasisSilver)
	}
	return nil
}

// NisabThresholds carries both basis thresholds valued against one snapshot.
type NisabThresholds struct {
	GoldGrams   decimal.Decimal `json:"gold_grams"`
	SilverGrams decimal.Decimal `json:"silver_grams"`
	GoldValue   decimal.Decimal `json:"gold_value"`
	SilverValue decimal.Decimal `json:"silver_value"`
	Currency    string          `json:"currency"`
}

// CalculationResult is the outcome of one zakat calculation. Monetary fields
// are rounded to 2 decimal places when the result is built.
type CalculationResult struct {
	TotalAssets       decimal.Decimal            `json:"total_assets"`
	TotalLiabilities  decimal.Decimal            `json:"total_liabilities"`
	NetWealth         decimal.Decimal            `json:"net_wealth"`
	NisabThreshold    decimal.Decimal            `json:"nisab_threshold"`
	NisabBasis        NisabBasis                 `json:"nisab_basis"`
	IsZakatApplicable bool                       `json:"is_zakat_applicable"`
	ZakatAmount       decimal.Decimal            `json:"zakat_amount"`
	ZakatPercentage   decimal.Decimal            `json:"zakat_percentage"`
	CalculationDate   time.Time                  `json:"calculation_date"`
	RatesUsed         RateSnapshot               `json:"rates_used"`
	AssetBreakdown    map[string]decimal.Decimal `json:"asset_breakdown"`
}
