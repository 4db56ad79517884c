package seed

import (
	"context"
	"fmt"
	"log"

	"tiendamart/internal/models"
	"tiendamart/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Run inserts development users and sample catalog products. Existing rows
// are left alone, so running it repeatedly is safe.
func Run(ctx context.Context, userRepo repositories.UserRepository, productRepo repositories.ProductRepository) error {
	if err := seedUser(ctx, userRepo, "admin", "adminpass", models.RoleAdmin); err != nil {
		return err
	}
	if err := seedUser(ctx, userRepo, "usuario", "userpass", models.RoleUser); err != nil {
		return err
	}
	return seedProducts(ctx, productRepo)
}

func seedUser(ctx context.Context, userRepo repositories.UserRepository, username, password, role string) error {
	exists, err := userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check seed user %s: %w", username, err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create seed user %s: %w", username, err)
	}
	log.Printf("Seeded %s user: %s", role, username)
	return nil
}

func seedProducts(ctx context.Context, productRepo repositories.ProductRepository) error {
	existing, _, err := productRepo.List(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("check seed products: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	samples := []struct {
		name        string
		description string
		price       string
		stock       int
	}{
		{"Laptop Gamer", "Potente laptop para juegos", "1200.00", 10},
		{"Monitor Curvo 27\"", "Monitor de alta resolución", "350.50", 25},
		{"Teclado Mecánico", "Teclado con switches Cherry MX", "99.99", 50},
		{"Ratón Inalámbrico", "Ratón ergonómico de precisión", "45.00", 100},
		{"Auriculares Bluetooth", "Auriculares con cancelación de ruido", "150.75", 30},
	}

	for _, sample := range samples {
		price, err := decimal.NewFromString(sample.price)
		if err != nil {
			return fmt.Errorf("parse seed price %q: %w", sample.price, err)
		}
		description := sample.description
		product := &models.Product{
			ID:          uuid.New(),
			Name:        sample.name,
			Description: &description,
			Price:       price,
			Stock:       sample.stock,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("create seed product %s: %w", sample.name, err)
		}
	}
	log.Printf("Seeded %d sample products", len(samples))
	return nil
}
