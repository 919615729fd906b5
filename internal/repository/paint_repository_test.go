package repository

import (
	"fmt"
	"math"
	"testing"

	"github.com/ruda-paints/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPaintRepositoryTest(t *testing.T) (*GormPaintRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Paint{}); err != nil {
		t.Fatalf("migrate paints failed: %v", err)
	}
	return NewPaintRepository(db), db
}

func createPaint(t *testing.T, repo *GormPaintRepository, name, category string, price float64, stock int, available bool) *models.Paint {
	t.Helper()
	sku := fmt.Sprintf("RUD-%s-%d", category[:2], len(name)*1000+stock+int(price))
	paint := &models.Paint{
		Name:          name,
		Category:      category,
		Brand:         "Ruda Paints",
		Size:          "4L",
		Price:         models.NewMoney(price),
		StockQuantity: stock,
		Available:     available,
		SKU:           &sku,
	}
	if err := repo.Create(paint); err != nil {
		t.Fatalf("create paint failed: %v", err)
	}
	return paint
}

func TestPaintAdjustStockDecreaseToZeroMarksUnavailable(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	paint := createPaint(t, repo, "Silk Emulsion", "Interior", 4500, 3, true)

	affected, err := repo.AdjustStock(paint.ID, -3)
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}
	got, _ := repo.GetByID(paint.ID)
	if got.StockQuantity != 0 || got.Available {
		t.Fatalf("expected stock 0 and unavailable, got stock=%d available=%v", got.StockQuantity, got.Available)
	}
}

func TestPaintAdjustStockInsufficientLeavesRowUntouched(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	paint := createPaint(t, repo, "Road Marking", "Others", 3000, 2, true)

	affected, err := repo.AdjustStock(paint.ID, -5)
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("insufficient stock must not update, affected=%d", affected)
	}
	got, _ := repo.GetByID(paint.ID)
	if got.StockQuantity != 2 || !got.Available {
		t.Fatalf("row changed: stock=%d available=%v", got.StockQuantity, got.Available)
	}
}

func TestPaintAdjustStockRejectsOverflowingDelta(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	paint := createPaint(t, repo, "Gloss Enamel", "Enamel", 1800, 3, true)

	for _, delta := range []int{math.MinInt, math.MaxInt} {
		if _, err := repo.AdjustStock(paint.ID, delta); err == nil {
			t.Fatalf("delta %d should be rejected", delta)
		}
	}
	affected, err := repo.AdjustStock(paint.ID, models.MaxStockQuantity)
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("restock above the limit must not update, affected=%d", affected)
	}
	got, err := repo.GetByID(paint.ID)
	if err != nil {
		t.Fatalf("row must stay readable: %v", err)
	}
	if got.StockQuantity != 3 {
		t.Fatalf("row changed: stock=%d", got.StockQuantity)
	}
}

func TestPaintAdjustStockRestockFromZeroRestoresAvailability(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	paint := createPaint(t, repo, "Clear Varnish", "Varnish", 2200, 0, false)

	if _, err := repo.AdjustStock(paint.ID, 5); err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	got, _ := repo.GetByID(paint.ID)
	if got.StockQuantity != 5 || !got.Available {
		t.Fatalf("expected stock 5 and available, got stock=%d available=%v", got.StockQuantity, got.Available)
	}
}

func TestPaintAdjustStockRestockKeepsManualHide(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	paint := createPaint(t, repo, "Hidden Primer", "Primer", 3500, 4, false)

	if _, err := repo.AdjustStock(paint.ID, 1); err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	got, _ := repo.GetByID(paint.ID)
	if got.StockQuantity != 5 || got.Available {
		t.Fatalf("restock from non-zero must not change availability, got available=%v", got.Available)
	}
}

func TestPaintApplyRatingRunningAverage(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	paint := createPaint(t, repo, "Gloss Enamel", "Enamel", 1800, 10, true)

	for _, r := range []float64{5, 3, 4} {
		if _, err := repo.ApplyRating(paint.ID, r); err != nil {
			t.Fatalf("apply rating failed: %v", err)
		}
	}
	got, _ := repo.GetByID(paint.ID)
	if got.ReviewCount != 3 {
		t.Fatalf("review count want 3 got %d", got.ReviewCount)
	}
	if got.Rating < 3.999 || got.Rating > 4.001 {
		t.Fatalf("rating want 4 got %v", got.Rating)
	}
}

func TestPaintStatisticsAggregates(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	createPaint(t, repo, "A Paint", "Interior", 1000, 1, true)
	createPaint(t, repo, "B Paint", "Interior", 2000, 1, false)
	createPaint(t, repo, "C Paint", "Exterior", 3000, 1, true)

	stats, err := repo.Statistics()
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalProducts != 3 || stats.AvailableProducts != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalValue.Float64() != 6000 || stats.AveragePrice.Float64() != 2000 {
		t.Fatalf("unexpected sum/avg: %s %s", stats.TotalValue, stats.AveragePrice)
	}
	if stats.MinPrice.Float64() != 1000 || stats.MaxPrice.Float64() != 3000 {
		t.Fatalf("unexpected min/max: %s %s", stats.MinPrice, stats.MaxPrice)
	}
	if len(stats.Categories) != 2 || stats.Categories[0].Category != "Exterior" || stats.Categories[1].Count != 2 {
		t.Fatalf("unexpected category stats: %+v", stats.Categories)
	}
	if stats.Categories[1].AveragePrice.Float64() != 1500 {
		t.Fatalf("interior average want 1500 got %s", stats.Categories[1].AveragePrice)
	}
}

func TestPaintStatisticsEmptyStore(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	stats, err := repo.Statistics()
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalProducts != 0 || !stats.TotalValue.IsZero() || len(stats.Categories) != 0 {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}
}

func TestPaintFindWithPredicateAndPagination(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	for i := 0; i < 5; i++ {
		createPaint(t, repo, fmt.Sprintf("Interior %d", i), "Interior", float64(1000*(i+1)), 1, true)
	}
	createPaint(t, repo, "Outside", "Exterior", 1500, 1, true)

	filter := PaintQueryFilter{
		Where:    squirrel.And{squirrel.Eq{"category": "Interior"}, squirrel.GtOrEq{"price": 2000.0}},
		OrderBy:  []OrderSpec{{Column: "price", Desc: true}, {Column: "id"}},
		Page:     1,
		PageSize: 3,
	}
	paints, total, err := repo.Find(filter)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if total != 4 || len(paints) != 3 {
		t.Fatalf("want total 4 page 3, got total %d page %d", total, len(paints))
	}
	if paints[0].Price.Float64() != 5000 {
		t.Fatalf("expected price desc order, first=%s", paints[0].Price)
	}
	if paints[0].FormattedPrice != "KES 5,000" {
		t.Fatalf("derived fields not filled: %q", paints[0].FormattedPrice)
	}
}

func TestPaintDeleteByIDsReturnsRemoved(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	a := createPaint(t, repo, "Alpha", "Primer", 100, 1, true)
	b := createPaint(t, repo, "Beta", "Primer", 200, 1, true)
	createPaint(t, repo, "Gamma", "Primer", 300, 1, true)

	removed, err := repo.DeleteByIDs([]uint{a.ID, b.ID, 9999})
	if err != nil {
		t.Fatalf("delete by ids failed: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("want 2 removed got %d", len(removed))
	}
	_, total, _ := repo.Find(PaintQueryFilter{})
	if total != 1 {
		t.Fatalf("want 1 remaining got %d", total)
	}
}

func TestPaintPriceListRowsOnlyAvailableSorted(t *testing.T) {
	repo, _ := setupPaintRepositoryTest(t)
	createPaint(t, repo, "Zinc Primer", "Primer", 100, 1, true)
	createPaint(t, repo, "Acrylic Primer", "Primer", 100, 1, true)
	createPaint(t, repo, "Hidden Exterior", "Exterior", 100, 0, false)
	createPaint(t, repo, "Weatherguard", "Exterior", 100, 1, true)

	rows, err := repo.ListPriceListRows()
	if err != nil {
		t.Fatalf("list rows failed: %v", err)
	}
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.Category+"/"+row.Name)
	}
	want := []string{"Exterior/Weatherguard", "Primer/Acrylic Primer", "Primer/Zinc Primer"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("want %v got %v", want, got)
	}
}
