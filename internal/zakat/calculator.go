// Package zakat implements the zakat obligation calculation following Hanafi
// jurisprudence: 2.5% of net wealth once it reaches the nisab threshold.
package zakat

import (
	"time"

	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/shopspring/decimal"
)

// Classical nisab weights: 7.5 tola of gold, 52.5 tola of silver.
var (
	NisabGoldGrams   = decimal.RequireFromString("87.48")
	NisabSilverGrams = decimal.RequireFromString("612.36")

	zakatRate       = decimal.RequireFromString("0.025")
	zakatPercentage = decimal.RequireFromString("2.5")
)

// Calculate maps validated inputs and a rate snapshot onto a calculation
// result. It performs no I/O; monetary outputs are rounded to 2 decimal
// places only when the result is assembled, intermediate arithmetic keeps
// full precision.
func Calculate(req models.CalculationRequest, rates models.RateSnapshot, now time.Time) models.CalculationResult {
	assets := req.Assets
	liabilities := req.Liabilities

	goldValue := assets.Gold24KGrams.Mul(rates.Gold24KPerGram).
		Add(assets.Gold22KGrams.Mul(rates.Gold22KPerGram)).
		Add(assets.Gold18KGrams.Mul(rates.Gold18KPerGram))
	silverValue := assets.SilverGrams.Mul(rates.SilverPerGram)

	totalAssets := goldValue.
		Add(silverValue).
		Add(assets.CashInHand).
		Add(assets.BankSavings).
		Add(assets.BusinessInventory).
		Add(assets.Investments).
		Add(assets.Receivables).
		Add(assets.OtherAssets)

	totalLiabilities := liabilities.ShortTermDebts.
		Add(liabilities.ImmediateExpenses).
		Add(liabilities.OtherLiabilities)

	// Net wealth may go negative, it is reported as-is.
	netWealth := totalAssets.Sub(totalLiabilities)

	threshold := NisabSilverGrams.Mul(rates.SilverPerGram)
	if req.NisabBasis == models.BasisGold {
		threshold = NisabGoldGrams.Mul(rates.Gold24KPerGram)
	}

	applicable := netWealth.GreaterThanOrEqual(threshold)
	zakatAmount := decimal.Zero
	if applicable {
		zakatAmount = netWealth.Mul(zakatRate)
	}

	return models.CalculationResult{
		TotalAssets:       totalAssets.Round(2),
		TotalLiabilities:  totalLiabilities.Round(2),
		NetWealth:         netWealth.Round(2),
		NisabThreshold:    threshold.Round(2),
		NisabBasis:        req.NisabBasis,
		IsZakatApplicable: applicable,
		ZakatAmount:       zakatAmount.Round(2),
		ZakatPercentage:   zakatPercentage,
		CalculationDate:   now,
		RatesUsed:         rates,
		AssetBreakdown: map[string]decimal.Decimal{
			"gold":               goldValue.Round(2),
			"silver":             silverValue.Round(2),
			"cash_in_hand":       assets.CashInHand.Round(2),
			"bank_savings":       assets.BankSavings.Round(2),
			"business_inventory": assets.BusinessInventory.Round(2),
			"investments":        assets.Investments.Round(2),
			"receivables":        assets.Receivables.Round(2),
			"other_assets":       assets.OtherAssets.Round(2),
		},
	}
}

// Thresholds values both nisab weights against the given snapshot. Exposed
// separately from Calculate so the thresholds can be displayed on their own.
func Thresholds(rates models.RateSnapshot) models.NisabThresholds {
	return models.NisabThresholds{
		GoldGrams:   NisabGoldGrams,
		SilverGrams: NisabSilverGrams,
		GoldValue:   NisabGoldGrams.Mul(rates.Gold24KPerGram).Round(2),
		SilverValue: NisabSilverGrams.Mul(rates.SilverPerGram).Round(2),
		Currency:    rates.Currency,
	}
}
