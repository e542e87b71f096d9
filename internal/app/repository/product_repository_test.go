package repository

import (
	"testing"

	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func seedProducts(t *testing.T, repo ProductRepository, products ...model.Product) []model.Product {
	t.Helper()
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
	return products
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:        "Oat Milk",
		Description: "1L carton",
		Price:       decimal.RequireFromString("3.49"),
		Stock:       40,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.49").Equal(found.Price))
	assert.Equal(t, 40, found.Stock)
}

func TestProductRepository_FindAll_InsertionOrder(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedProducts(t, repo,
		model.Product{Name: "Bread", Price: decimal.NewFromInt(2)},
		model.Product{Name: "Apples", Price: decimal.NewFromInt(3)},
		model.Product{Name: "Cheese", Price: decimal.NewFromInt(5)},
	)

	found, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "Bread", found[0].Name)
	assert.Equal(t, "Apples", found[1].Name)
	assert.Equal(t, "Cheese", found[2].Name)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedProducts(t, repo,
		model.Product{Name: "Red Apple", Description: "crisp", Price: decimal.NewFromInt(1)},
		model.Product{Name: "Banana", Description: "yellow", Price: decimal.NewFromInt(1)},
		model.Product{Name: "Cider", Description: "made from APPLES", Price: decimal.NewFromInt(4)},
		model.Product{Name: "100% Juice", Description: "orange", Price: decimal.NewFromInt(3)},
	)

	tests := []struct {
		name   string
		filter ProductFilter
		want   []string
	}{
		{name: "empty search returns all", filter: ProductFilter{}, want: []string{"Red Apple", "Banana", "Cider", "100% Juice"}},
		{name: "name match is case-insensitive", filter: ProductFilter{Search: "BANANA"}, want: []string{"Banana"}},
		{name: "matches name or description", filter: ProductFilter{Search: "apple"}, want: []string{"Red Apple", "Cider"}},
		{name: "wildcards match literally", filter: ProductFilter{Search: "%"}, want: []string{"100% Juice"}},
		{name: "underscore matches literally", filter: ProductFilter{Search: "_"}, want: nil},
		{name: "no match", filter: ProductFilter{Search: "durian"}, want: nil},
		{name: "limit", filter: ProductFilter{Limit: 2}, want: []string{"Red Apple", "Banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindWithFilter(tt.filter)
			require.NoError(t, err)

			var names []string
			for _, p := range found {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_Count(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	seedProducts(t, repo,
		model.Product{Name: "A", Price: decimal.NewFromInt(1)},
		model.Product{Name: "B", Price: decimal.NewFromInt(1)},
	)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := seedProducts(t, repo, model.Product{Name: "Tea", Price: decimal.NewFromInt(4), Stock: 3})

	product := products[0]
	product.Price = decimal.RequireFromString("4.50")
	product.Stock = 0
	require.NoError(t, repo.Update(&product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea", found.Name)
	assert.True(t, decimal.RequireFromString("4.50").Equal(found.Price))
	assert.Equal(t, 0, found.Stock)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := seedProducts(t, repo, model.Product{Name: "Eggs", Price: decimal.NewFromInt(3)})
	id := products[0].ID

	user := &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)
	carts := NewCartRepository(testDB)
	cart, err := carts.GetOrCreate(user.ID)
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, id, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(id))

	_, err = repo.FindByID(id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := carts.FindItems(cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = repo.Delete(id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
