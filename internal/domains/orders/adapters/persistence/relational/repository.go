package relational

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/database"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL or MySQL through GORM. The schema is owned by the
// platform migrations; this adapter never migrates.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID        int64             `gorm:"primaryKey;column:id;autoIncrement"`
	Name      string            `gorm:"column:name;not null"`
	Address   string            `gorm:"column:address;not null"`
	Total     decimal.Decimal   `gorm:"column:total;type:decimal(12,2);not null"`
	Status    string            `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt time.Time         `gorm:"column:created_at"`
	Items     []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID           int64           `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID      int64           `gorm:"column:order_id;index;not null"`
	ProductName  string          `gorm:"column:product_name;not null"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:decimal(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, database.StoreError("list orders", err)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, database.StoreError("get order", err)
	}
	return record.toDomain(), nil
}

// Create inserts the order and its items in one statement batch; GORM saves the has-many
// association inside the same transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, database.StoreError("create order", err)
	}
	return record.toDomain(), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	// MySQL reports zero affected rows when the value is unchanged, so existence is decided by
	// the reload rather than RowsAffected.
	if err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Update("status", string(status)).Error; err != nil {
		return nil, database.StoreError("update order status", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the order; items go with it through the ON DELETE CASCADE foreign key.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return 0, database.StoreError("delete order", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return database.StoreError("orders", errors.New("relational order repository not configured"))
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:        order.ID,
		Name:      order.Name,
		Address:   order.Address,
		Total:     order.Total,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		Items:     make([]orderItemRecord, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Total:     r.Total,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		Items:     make([]domain.OrderItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:           item.ID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}
	return order
}
