package service

import (
	"context"
	"testing"
	"time"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	entries map[string]string
	sets    int
	deletes int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) {
	c.entries[key] = value
	c.sets++
}

func (c *mapCache) Delete(_ context.Context, key string) {
	delete(c.entries, key)
	c.deletes++
}

func TestPriceCheckPopulatesCache(t *testing.T) {
	articles := newStubArticleRepo()
	stock := newStubStockRepo()
	cache := newMapCache()
	svc := NewArticleService(articles, stock, cache)

	art := testArticle("Loratadina 10mg", "18.50")
	require.NoError(t, articles.Create(context.Background(), art))
	supplierID := uuid.New()
	stock.seed(supplierID, art.ID, 12)

	resp, err := svc.PriceCheck(context.Background(), art.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loratadina 10mg", resp.Description)
	assert.True(t, resp.SalePrice.Equal(dec("18.50")))
	require.Len(t, resp.Stock, 1)
	assert.Equal(t, 12, resp.Stock[0].Stock)
	assert.Equal(t, 1, cache.sets)

	// second lookup is served from cache: no new Set
	again, err := svc.PriceCheck(context.Background(), art.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Description, again.Description)
	assert.True(t, resp.SalePrice.Equal(again.SalePrice))
	assert.Equal(t, 1, cache.sets)
}

func TestPriceCheckSurvivesCorruptCacheEntry(t *testing.T) {
	articles := newStubArticleRepo()
	stock := newStubStockRepo()
	cache := newMapCache()
	svc := NewArticleService(articles, stock, cache)

	art := testArticle("Loratadina 10mg", "18.50")
	require.NoError(t, articles.Create(context.Background(), art))
	cache.entries["pricecheck:"+art.ID.String()] = "{not json"

	resp, err := svc.PriceCheck(context.Background(), art.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loratadina 10mg", resp.Description)
}

func TestPriceCheckWorksWithoutCache(t *testing.T) {
	articles := newStubArticleRepo()
	svc := NewArticleService(articles, newStubStockRepo(), nil)

	art := testArticle("Loratadina 10mg", "18.50")
	require.NoError(t, articles.Create(context.Background(), art))

	resp, err := svc.PriceCheck(context.Background(), art.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Stock)
}

func TestArticleUpdateInvalidatesCache(t *testing.T) {
	articles := newStubArticleRepo()
	stock := newStubStockRepo()
	cache := newMapCache()
	svc := NewArticleService(articles, stock, cache)

	art := testArticle("Loratadina 10mg", "18.50")
	require.NoError(t, articles.Create(context.Background(), art))

	_, err := svc.PriceCheck(context.Background(), art.ID)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), art.ID, dto.SaveArticleRequest{
		Description: "Loratadina 10mg", SalePrice: dec("21.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)

	// re-reads the fresh price
	resp, err := svc.PriceCheck(context.Background(), art.ID)
	require.NoError(t, err)
	assert.True(t, resp.SalePrice.Equal(dec("21.00")), "price = %s", resp.SalePrice)
}

func TestArticleDeleteBlockedByDependents(t *testing.T) {
	articles := newStubArticleRepo()
	svc := NewArticleService(articles, newStubStockRepo(), nil)

	art := testArticle("Loratadina 10mg", "18.50")
	require.NoError(t, articles.Create(context.Background(), art))
	articles.withDependents[art.ID] = true

	err := svc.Delete(context.Background(), art.ID)
	assert.ErrorIs(t, err, apierror.ErrReferentialConflict)
}

func TestMovementsClampsLimit(t *testing.T) {
	articles := newStubArticleRepo()
	stock := newStubStockRepo()
	svc := NewArticleService(articles, stock, nil)
	articleID := uuid.New()
	supplierID := uuid.New()
	stock.seed(supplierID, articleID, 0)
	for i := 0; i < 120; i++ {
		require.NoError(t, stock.AdjustStockTx(nil, supplierID, articleID, 1, "manual", nil))
	}

	movements, err := svc.Movements(context.Background(), articleID, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 100)

	movements, err = svc.Movements(context.Background(), articleID, 50)
	require.NoError(t, err)
	assert.Len(t, movements, 50)
}
