// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/profile"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Models in dependency order: order_items references orders.
	models := []interface{}{
		&profile.Profile{},
		&catalog.Product{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email)",
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("Database indexes created successfully")
	return nil
}

// SeedInitialData seeds a small development catalog and an admin profile
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	var productCount int64
	if err := m.db.Model(&catalog.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	if productCount == 0 {
		products := []catalog.Product{
			{ID: "prod-hoodie", Name: "후드 집업", Description: "오버핏 후드 집업", Price: 59000, SalePrice: 49000, ImageURL: "/images/hoodie.jpg", IsActive: true},
			{ID: "prod-sneakers", Name: "데일리 스니커즈", Description: "경량 데일리 스니커즈", Price: 89000, SalePrice: 79000, ImageURL: "/images/sneakers.jpg", IsActive: true},
			{ID: "prod-tumbler", Name: "스테인리스 텀블러", Description: "보온보냉 500ml", Price: 25000, SalePrice: 19000, ImageURL: "/images/tumbler.jpg", IsActive: true},
			{ID: "prod-backpack", Name: "캔버스 백팩", Description: "노트북 수납 백팩", Price: 72000, SalePrice: 65000, ImageURL: "/images/backpack.jpg", IsActive: true},
		}
		if err := m.db.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		log.Printf("Seeded %d products", len(products))
	}

	// Promote a well-known development account so the admin shell is reachable
	// without manual SQL. Profiles themselves are created on first login.
	if err := m.db.Model(&profile.Profile{}).
		Where("email = ?", "admin@example.com").
		Update("role", profile.RoleAdmin).Error; err != nil {
		return fmt.Errorf("failed to promote admin profile: %w", err)
	}

	log.Println("Initial data seeding completed")
	return nil
}

// GetTableInfo logs row counts for the main tables (development helper)
func (m *Migration) GetTableInfo() {
	tables := []string{"profiles", "products", "orders", "order_items"}
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: error counting rows: %v", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}
