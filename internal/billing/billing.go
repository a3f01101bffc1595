// Package billing implements the money arithmetic shared by every billed
// transaction. All amounts are fixed-point decimals; binary floats are
// never used for money.
package billing

import "github.com/shopspring/decimal"

// moneyPlaces is the storage scale for monetary amounts (decimal(18,2)).
// Tax ratios are carried at four places (decimal(18,4)).
const moneyPlaces = 2

// Result is the authoritative billing outcome for one transaction. It is
// computed once and copied into every persisted row that carries totals.
type Result struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	PayingAmount decimal.Decimal `json:"paying_amount"`
	Balance      decimal.Decimal `json:"balance"`
}

// Compute prices a set of line items under the clinic billing policy.
//
// Policy: the discount is applied to the subtotal BEFORE tax, and tax is
// computed on the discounted subtotal. Rate percentages are additive:
// several active rows sharing one tax code sum into a single combined
// rate, and an empty rate set means a zero rate, never an error.
//
// Compute is a total function. Negative discounts and paying amounts pass
// through arithmetically; sign validation belongs to the caller. A
// negative balance is a valid overpayment, not an error.
func Compute(lineItemCosts []decimal.Decimal, discount decimal.Decimal, ratePercents []decimal.Decimal, payingAmount decimal.Decimal) Result {
	subtotal := decimal.Zero
	for _, cost := range lineItemCosts {
		subtotal = subtotal.Add(cost)
	}
	subtotal = subtotal.Round(moneyPlaces)

	combinedRate := decimal.Zero
	for _, rate := range ratePercents {
		combinedRate = combinedRate.Add(rate)
	}

	taxable := subtotal.Sub(discount)
	taxAmount := taxable.Mul(combinedRate).Div(decimal.NewFromInt(100)).Round(moneyPlaces)
	grandTotal := taxable.Add(taxAmount).Round(moneyPlaces)
	balance := grandTotal.Sub(payingAmount).Round(moneyPlaces)

	return Result{
		Subtotal:     subtotal,
		Discount:     discount.Round(moneyPlaces),
		TaxAmount:    taxAmount,
		GrandTotal:   grandTotal,
		PayingAmount: payingAmount.Round(moneyPlaces),
		Balance:      balance,
	}
}
