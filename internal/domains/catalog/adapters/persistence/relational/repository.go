package relational

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/database"
)

var _ ports.Repository = (*Repository)(nil)

// Repository stores products through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID    int64           `gorm:"primaryKey;column:id;autoIncrement"`
	Name  string          `gorm:"column:name;not null"`
	Price decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Image string          `gorm:"column:image"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, database.StoreError("list products", err)
	}
	products := make([]*domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toDomain())
	}
	return products, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, database.StoreError("get product", err)
	}
	return rec.toDomain(), nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rec := toRecord(product)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, database.StoreError("create product", err)
	}
	return rec.toDomain(), nil
}

func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rec := toRecord(product)
	if err := r.db.WithContext(ctx).
		Model(&productRecord{ID: rec.ID}).
		Select("name", "price", "image").
		Updates(&rec).Error; err != nil {
		return nil, database.StoreError("update product", err)
	}
	return r.GetByID(ctx, rec.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return 0, database.StoreError("delete product", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Count(&count).Error; err != nil {
		return 0, database.StoreError("count products", err)
	}
	return count, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return database.StoreError("products", errors.New("relational product repository not configured"))
	}
	return nil
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{ID: r.ID, Name: r.Name, Price: r.Price, Image: r.Image}
}
