package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCompute_AdditiveRates(t *testing.T) {
	// Two active rows sharing one code sum into a single 8% charge.
	result := Compute(
		[]decimal.Decimal{d("100.00")},
		decimal.Zero,
		[]decimal.Decimal{d("5"), d("3")},
		decimal.Zero,
	)

	assert.True(t, d("100.00").Equal(result.Subtotal))
	assert.True(t, d("8.00").Equal(result.TaxAmount), "got %s", result.TaxAmount)
	assert.True(t, d("108.00").Equal(result.GrandTotal))
}

func TestCompute_NoActiveRates(t *testing.T) {
	result := Compute(
		[]decimal.Decimal{d("100.00")},
		decimal.Zero,
		nil,
		decimal.Zero,
	)

	assert.True(t, result.TaxAmount.IsZero())
	assert.True(t, d("100.00").Equal(result.GrandTotal))
}

func TestCompute_EmptyLineItems(t *testing.T) {
	result := Compute(nil, decimal.Zero, []decimal.Decimal{d("15")}, decimal.Zero)

	assert.True(t, result.Subtotal.IsZero())
	assert.True(t, result.TaxAmount.IsZero())
	assert.True(t, result.GrandTotal.IsZero())
	assert.True(t, result.Balance.IsZero())
}

func TestCompute_DiscountBeforeTax(t *testing.T) {
	// Consultation 200.00 + service 50.00, 10% VAT, discount 20.00,
	// paying 150.00. Tax applies to the discounted subtotal.
	result := Compute(
		[]decimal.Decimal{d("200.00"), d("50.00")},
		d("20.00"),
		[]decimal.Decimal{d("10")},
		d("150.00"),
	)

	assert.True(t, d("250.00").Equal(result.Subtotal))
	assert.True(t, d("23.00").Equal(result.TaxAmount), "got %s", result.TaxAmount)
	assert.True(t, d("253.00").Equal(result.GrandTotal), "got %s", result.GrandTotal)
	assert.True(t, d("103.00").Equal(result.Balance), "got %s", result.Balance)
}

func TestCompute_Overpayment(t *testing.T) {
	result := Compute(
		[]decimal.Decimal{d("40.00")},
		decimal.Zero,
		nil,
		d("100.00"),
	)

	assert.True(t, d("-60.00").Equal(result.Balance))
}

func TestCompute_Identities(t *testing.T) {
	cases := []struct {
		name     string
		items    []string
		discount string
		rates    []string
		paying   string
	}{
		{"single item no tax", []string{"75.50"}, "0", nil, "75.50"},
		{"multi item taxed", []string{"10.00", "20.00", "30.00"}, "5.00", []string{"7.5"}, "25.00"},
		{"discount equals subtotal", []string{"99.99"}, "99.99", []string{"12"}, "0"},
		{"fractional cents round", []string{"33.33", "33.33"}, "0", []string{"5"}, "10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := make([]decimal.Decimal, 0, len(tc.items))
			for _, item := range tc.items {
				items = append(items, d(item))
			}
			rates := make([]decimal.Decimal, 0, len(tc.rates))
			for _, rate := range tc.rates {
				rates = append(rates, d(rate))
			}

			result := Compute(items, d(tc.discount), rates, d(tc.paying))

			taxable := result.Subtotal.Sub(result.Discount)
			assert.True(t, taxable.Add(result.TaxAmount).Equal(result.GrandTotal),
				"grand total must equal discounted subtotal plus tax")
			assert.True(t, result.GrandTotal.Sub(result.PayingAmount).Equal(result.Balance),
				"balance must equal grand total minus paying amount")
			assert.Equal(t, int32(-2), result.TaxAmount.Exponent(),
				"tax amount must carry two decimal places")
		})
	}
}

func TestCompute_NegativeInputsPassThrough(t *testing.T) {
	result := Compute(
		[]decimal.Decimal{d("50.00")},
		d("-10.00"),
		nil,
		d("-5.00"),
	)

	// Sign validation is the caller's job; arithmetic stays consistent.
	assert.True(t, d("60.00").Equal(result.GrandTotal))
	assert.True(t, d("65.00").Equal(result.Balance))
}
