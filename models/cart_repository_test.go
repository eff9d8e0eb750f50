package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andreysx/storefront/apperr"
)

func seedCart(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&Category{ID: 1, Name: "Home", IsActive: true}).Error)
	require.NoError(t, db.Create(&[]Product{
		{ID: 1, Name: "Candle", Price: dec("9.99"), Stock: 10, CategoryID: 1, SellerID: 1, IsActive: true},
		{ID: 2, Name: "Vase", Price: dec("15.00"), Stock: 4, CategoryID: 1, SellerID: 1, IsActive: true},
		{ID: 3, Name: "Gone", Price: dec("99.00"), Stock: 1, CategoryID: 1, SellerID: 1, IsActive: false},
	}).Error)
}

func TestAddItemFoldsDuplicates(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	item, err := repo.AddItem(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = repo.AddItem(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	var count int64
	require.NoError(t, db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count, "adds must converge to a single row")
}

func TestAddItemFoldsRowInsertedByRival(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	// The row already exists, written by a rival session the repository
	// never observed. The add must land on the unique index and fold,
	// not surface a constraint error.
	require.NoError(t, db.Create(&CartItem{UserID: 1, ProductID: 1, Quantity: 2}).Error)

	item, err := repo.AddItem(1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	var count int64
	require.NoError(t, db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemInactiveProduct(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 3, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = repo.AddItem(1, 42, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestConcurrentAddsConverge(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddItem(1, 1, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err, "a racing add must never surface the conflict")
	}

	var items []CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
}

func TestUpdateItemSetsExactQuantity(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 1, 5)
	require.NoError(t, err)

	item, err := repo.UpdateItem(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity, "update is absolute, not a delta")

	_, err = repo.UpdateItem(1, 2, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveItem(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, repo.RemoveItem(1, 1))

	err = repo.RemoveItem(1, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestClearCart(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 1, 1)
	require.NoError(t, err)
	_, err = repo.AddItem(1, 2, 1)
	require.NoError(t, err)

	require.NoError(t, repo.Clear(1))
	require.NoError(t, repo.Clear(1), "clearing an empty cart never fails")

	cart, err := repo.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalQuantity)
	assert.True(t, cart.TotalPrice.IsZero())
}

func TestGetCartTotals(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 1, 3)
	require.NoError(t, err)

	cart, err := repo.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), cart.UserID)
	assert.Equal(t, 3, cart.TotalQuantity)
	assert.True(t, dec("29.97").Equal(cart.TotalPrice), "9.99 x 3 must be exactly 29.97, got %s", cart.TotalPrice)
}

func TestGetCartUsesLivePrice(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 2, 2)
	require.NoError(t, err)

	require.NoError(t, db.Model(&Product{}).Where("id = ?", 2).Update("price", dec("20.00")).Error)

	cart, err := repo.GetCart(1)
	require.NoError(t, err)
	assert.True(t, dec("40.00").Equal(cart.TotalPrice), "total must follow the current price, got %s", cart.TotalPrice)
}

func TestGetCartInactiveProductContributesZero(t *testing.T) {
	db := testDB(t)
	seedCart(t, db)
	repo := NewCartRepository(db)

	_, err := repo.AddItem(1, 1, 3)
	require.NoError(t, err)
	_, err = repo.AddItem(1, 2, 1)
	require.NoError(t, err)

	require.NoError(t, db.Model(&Product{}).Where("id = ?", 2).Update("is_active", false).Error)

	cart, err := repo.GetCart(1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2, "the row stays even when its product went inactive")
	assert.Equal(t, 4, cart.TotalQuantity)
	assert.True(t, dec("29.97").Equal(cart.TotalPrice), "inactive product must contribute zero, got %s", cart.TotalPrice)
}
