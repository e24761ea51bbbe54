package services

import (
	"wardrobe/internal/repositories"
)

// lowStockThreshold is the stock level below which a product counts as
// running low on the dashboard.
const lowStockThreshold = 5

// PricePoint is one bar of the price distribution chart.
type PricePoint struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"finalPrice"`
}

// StockPoint is one point of the stock level chart.
type StockPoint struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// DashboardMetrics aggregates the numbers and series the admin
// dashboard charts render.
type DashboardMetrics struct {
	TotalProducts int          `json:"totalProducts"`
	TotalStock    int          `json:"totalStock"`
	LowStockCount int          `json:"lowStockCount"`
	Prices        []PricePoint `json:"prices"`
	Stocks        []StockPoint `json:"stocks"`
}

// MetricsService computes dashboard analytics over the product catalog.
type MetricsService struct {
	repo repositories.ProductRepository
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(repo repositories.ProductRepository) *MetricsService {
	return &MetricsService{
		repo: repo,
	}
}

// GetDashboardMetrics walks the catalog once and aggregates totals plus
// the per-product price and stock series, in catalog order.
func (s *MetricsService) GetDashboardMetrics() (*DashboardMetrics, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		TotalProducts: len(products),
		Prices:        make([]PricePoint, 0, len(products)),
		Stocks:        make([]StockPoint, 0, len(products)),
	}

	for _, p := range products {
		metrics.TotalStock += p.Stock
		if p.Stock < lowStockThreshold {
			metrics.LowStockCount++
		}
		metrics.Prices = append(metrics.Prices, PricePoint{
			Name:       p.Name,
			Price:      p.Price,
			FinalPrice: p.FinalPrice,
		})
		metrics.Stocks = append(metrics.Stocks, StockPoint{
			Name:  p.Name,
			Stock: p.Stock,
		})
	}

	return metrics, nil
}
