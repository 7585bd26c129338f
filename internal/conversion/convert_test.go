package conversion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/util"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	usd = domain.Currency{ID: 1, Code: "USD", IsDefault: true, IsActive: true, ExchangeRate: dec("1")}
	eur = domain.Currency{ID: 2, Code: "EUR", IsActive: true, ExchangeRate: dec("1.25")}
	afn = domain.Currency{ID: 3, Code: "AFN", IsActive: true, ExchangeRate: dec("70.5")}
	bad = domain.Currency{ID: 4, Code: "XXX", IsActive: true, ExchangeRate: decimal.Zero}
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		from, to domain.Currency
		want     string
	}{
		{"DefaultToOther", "100", usd, eur, "125"},
		{"OtherToDefault", "125", eur, usd, "100"},
		{"PivotThroughDefault", "125", eur, afn, "7050"},
		{"PivotBack", "7050", afn, eur, "125"},
		{"DefaultToDefault", "42.42", usd, usd, "42.42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(dec(tt.amount), tt.from, tt.to, &usd)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestConvertIdentityIsExact(t *testing.T) {
	amount := dec("123.456789123")
	got, err := Convert(amount, eur, eur, &usd)
	require.NoError(t, err)
	assert.Equal(t, amount.String(), got.String())

	got, err = Convert(amount, bad, bad, &usd)
	require.NoError(t, err, "identity must not touch the rate")
	assert.True(t, amount.Equal(got))
}

func TestConvertZeroRate(t *testing.T) {
	t.Run("AsSource", func(t *testing.T) {
		_, err := Convert(dec("10"), bad, usd, &usd)
		assert.ErrorIs(t, err, util.ErrInvalidCurrencyRate)
	})

	t.Run("AsPivotSource", func(t *testing.T) {
		_, err := Convert(dec("10"), bad, eur, &usd)
		assert.ErrorIs(t, err, util.ErrInvalidCurrencyRate)
	})

	t.Run("NegativeRate", func(t *testing.T) {
		neg := eur
		neg.ExchangeRate = dec("-1")
		_, err := Convert(dec("10"), neg, usd, &usd)
		assert.ErrorIs(t, err, util.ErrInvalidCurrencyRate)
	})

	t.Run("AsTargetMultipliesToZero", func(t *testing.T) {
		got, err := Convert(dec("10"), usd, bad, &usd)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestConvertWithoutDefaultPivots(t *testing.T) {
	got, err := Convert(dec("125"), eur, afn, nil)
	require.NoError(t, err)
	assert.True(t, dec("7050").Equal(got))
}

func TestConvertRoundTrip(t *testing.T) {
	odd := domain.Currency{ID: 5, Code: "IRR", ExchangeRate: dec("42000.123457")}
	pairs := [][2]domain.Currency{{usd, eur}, {eur, afn}, {afn, odd}, {odd, usd}, {eur, odd}}
	amounts := []string{"0.01", "1", "99.99", "1000000", "333.33"}
	tolerance := dec("0.01")

	for _, p := range pairs {
		for _, a := range amounts {
			there, err := Convert(dec(a), p[0], p[1], &usd)
			require.NoError(t, err)
			back, err := Convert(there, p[1], p[0], &usd)
			require.NoError(t, err)
			diff := back.Sub(dec(a)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"%s %s->%s->%s drifted by %s", a, p[0].Code, p[1].Code, p[0].Code, diff)
		}
	}
}

func TestQuoteUsesOverrides(t *testing.T) {
	overrides := map[int64]decimal.Decimal{eur.ID: dec("1.20")}

	got, err := Quote(dec("100"), usd, eur, &usd, overrides)
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(got))

	// The registry currency itself is untouched.
	assert.True(t, dec("1.25").Equal(eur.ExchangeRate))

	got, err = Quote(dec("100"), usd, eur, &usd, nil)
	require.NoError(t, err)
	assert.True(t, dec("125").Equal(got))
}

func TestConvertDiffersFromTransferValuation(t *testing.T) {
	usd := domain.Currency{ID: 1, Code: "USD", IsDefault: true, ExchangeRate: decimal.NewFromInt(1)}
	eur := domain.Currency{ID: 2, Code: "EUR", ExchangeRate: decimal.RequireFromString("0.92")}

	converted, err := Convert(decimal.NewFromInt(100), eur, usd, &usd)
	require.NoError(t, err)
	assert.Equal(t, "108.70", domain.RoundAmount(converted).StringFixed(2))

	h := domain.NewSendHawala(0, "Ahmad", "Karim", "0700000000", decimal.NewFromInt(100))
	assert.Equal(t, "92.00", h.AmountInDefaultCurrency(&eur, &usd).StringFixed(2))
}
