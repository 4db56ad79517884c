package jobs

import (
	"context"
	"log"
	"time"

	"tiendamart/internal/models"
	"tiendamart/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// LowStockAlertService periodically scans the catalog and logs products
// whose stock fell under the threshold, so operators can restock before
// orders start failing.
type LowStockAlertService struct {
	productRepo repositories.ProductRepository
	threshold   int
	scheduler   gocron.Scheduler
}

func NewLowStockAlertService(productRepo repositories.ProductRepository, threshold int) *LowStockAlertService {
	if threshold <= 0 {
		threshold = 10 // Default threshold
	}
	return &LowStockAlertService{
		productRepo: productRepo,
		threshold:   threshold,
	}
}

// Start schedules the periodic scan. Callers should defer Stop.
func (a *LowStockAlertService) Start(interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	a.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			alerts, err := a.CheckLowStock(ctx)
			if err != nil {
				log.Printf("Low stock scan failed: %v", err)
				return
			}
			a.LogLowStockAlerts(alerts)
		}),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (a *LowStockAlertService) Stop() {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			log.Printf("Failed to shut down low stock scheduler: %v", err)
		}
	}
}

func (a *LowStockAlertService) CheckLowStock(ctx context.Context) ([]*models.Product, error) {
	return a.productRepo.ListLowStock(ctx, a.threshold, 1000)
}

func (a *LowStockAlertService) LogLowStockAlerts(products []*models.Product) {
	if len(products) == 0 {
		return
	}
	log.Printf("Low stock alerts (threshold %d):", a.threshold)
	for _, product := range products {
		log.Printf("- Product '%s' has %d units left", product.Name, product.Stock)
	}
}
