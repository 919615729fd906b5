package main

import (
	"strings"

	"github.com/ruda-paints/internal/app"
	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/repository"
	"github.com/ruda-paints/internal/service"
)

// samplePaints 演示用商品，字段与后台表单一致
var samplePaints = []map[string]string{
	{
		"name":           "Silk Vinyl Emulsion",
		"category":       "Interior",
		"size":           "4L",
		"price":          "2450",
		"original_price": "2800",
		"stock_quantity": "60",
		"features":       "washable,low odour,smooth sheen",
		"featured":       "true",
		"description":    "Smooth silk finish for living rooms and bedrooms.",
	},
	{
		"name":           "Weatherguard Exterior",
		"category":       "Exterior",
		"size":           "20L",
		"price":          "11800",
		"stock_quantity": "25",
		"features":       "uv resistant,anti-fungal",
		"new_arrival":    "true",
		"description":    "Long-lasting protection against sun and rain.",
	},
	{
		"name":           "Universal Undercoat",
		"category":       "Primer",
		"size":           "4L",
		"price":          "1650",
		"stock_quantity": "80",
		"features":       "quick drying,high opacity",
		"description":    "Seals porous surfaces before top coats.",
	},
	{
		"name":           "Clear Wood Varnish",
		"category":       "Varnish",
		"size":           "1L",
		"price":          "950",
		"stock_quantity": "0",
		"available":      "false",
		"features":       "gloss,water resistant",
		"description":    "Protects and highlights natural wood grain.",
	},
	{
		"name":           "Gloss Enamel Signal Red",
		"category":       "Enamel",
		"size":           "5L",
		"price":          "3200",
		"original_price": "3600",
		"stock_quantity": "40",
		"features":       "high gloss,metal and wood",
		"description":    "Hard-wearing gloss for doors, gates and trims.",
	},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()

	db, err := app.InitDatabase(cfg)
	if err != nil {
		log.Fatalw("seed_database_init_failed", "error", err)
	}

	var existing int64
	if err := db.Model(&models.Paint{}).Count(&existing).Error; err != nil {
		log.Fatalw("seed_count_failed", "error", err)
	}
	if existing > 0 {
		log.Infow("seed_skipped", "existing_paints", existing)
		return
	}

	brand := strings.TrimSpace(cfg.Catalog.DefaultBrand)
	if brand == "" {
		brand = "Ruda Paints"
	}
	paints := service.NewPaintService(
		repository.NewPaintRepository(db),
		service.NewUploadService(cfg.Upload),
		service.PaintServiceOptions{MaxPrice: cfg.Catalog.MaxPrice, SKUAttempts: cfg.Catalog.SKUAttempts},
	)

	created := 0
	for _, sample := range samplePaints {
		form := map[string][]string{"brand": {brand}}
		for k, v := range sample {
			form[k] = []string{v}
		}
		in, err := service.ParsePaintForm(form)
		if err != nil {
			log.Warnw("seed_paint_invalid", "name", sample["name"], "error", err)
			continue
		}
		if _, err := paints.Create(in); err != nil {
			log.Warnw("seed_paint_create_failed", "name", sample["name"], "error", err)
			continue
		}
		created++
	}
	log.Infow("seed_completed", "created", created)
}
