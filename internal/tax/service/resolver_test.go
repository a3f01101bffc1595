package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	taxrepo "github.com/clinica-labs/clinica/internal/tax/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newResolverEnv(t *testing.T, dsn string) (*gorm.DB, *snowflake.Node, taxdomain.RateResolver) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&taxdomain.TaxRate{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	resolver := NewResolver(resolverParam{Repository: taxrepo.NewRepository(db)})
	return db, node, resolver
}

func createRate(t *testing.T, db *gorm.DB, node *snowflake.Node, code string, ratio int64, active bool) {
	t.Helper()
	rate := taxdomain.TaxRate{
		ID:       node.Generate(),
		Code:     code,
		Name:     code,
		Kind:     taxdomain.TaxKindPercentage,
		Ratio:    decimal.NewFromInt(ratio),
		IsActive: active,
	}
	require.NoError(t, db.Create(&rate).Error)
}

func TestCombinedRatioSumsActiveRates(t *testing.T) {
	db, node, resolver := newResolverEnv(t, "file:tax_sum?mode=memory&cache=shared")

	createRate(t, db, node, "VAT", 5, true)
	createRate(t, db, node, "VAT", 3, true)

	ratio, err := resolver.CombinedRatio(context.Background(), "VAT")
	require.NoError(t, err)
	assert.True(t, ratio.Equal(decimal.NewFromInt(8)), "ratio %s", ratio)
}

func TestCombinedRatioIgnoresInactiveAndOtherCodes(t *testing.T) {
	db, node, resolver := newResolverEnv(t, "file:tax_inactive?mode=memory&cache=shared")

	createRate(t, db, node, "VAT", 5, true)
	createRate(t, db, node, "VAT", 7, false)
	createRate(t, db, node, "GST", 12, true)

	ratio, err := resolver.CombinedRatio(context.Background(), "VAT")
	require.NoError(t, err)
	assert.True(t, ratio.Equal(decimal.NewFromInt(5)), "ratio %s", ratio)
}

func TestCombinedRatioZeroWhenNoActiveRates(t *testing.T) {
	_, _, resolver := newResolverEnv(t, "file:tax_none?mode=memory&cache=shared")

	ratio, err := resolver.CombinedRatio(context.Background(), "VAT")
	require.NoError(t, err)
	assert.True(t, ratio.IsZero())
}
