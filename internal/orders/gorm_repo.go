package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

// orderRecord is the persisted row shape; the item snapshot is stored as a
// JSON document so the schema stays one table.
type orderRecord struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	OrderID         string    `gorm:"uniqueIndex;not null"`
	CreatedAt       time.Time `gorm:"not null"`
	ItemsJSON       []byte    `gorm:"column:items;not null"`
	Subtotal        int       `gorm:"not null"`
	Discount        int       `gorm:"not null"`
	DeliveryFee     int       `gorm:"not null"`
	Total           int       `gorm:"not null"`
	CouponCode      *string
	DeliveryAddress string
	DeliveryPartner string
	Store           string
	Status          string `gorm:"not null"`
}

func (orderRecord) TableName() string { return "orders" }

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds the database-backed order log and ensures the
// schema exists.
func NewGormRepository(db *gorm.DB) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if err := db.AutoMigrate(&orderRecord{}); err != nil {
		return nil, fmt.Errorf("migrating orders table: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Append(ctx context.Context, order *Order) error {
	record, err := toRecord(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append order")
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var record orderRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return fromRecord(&record)
}

func (r *gormRepository) GetLast(ctx context.Context, n int) ([]Order, error) {
	if n <= 0 {
		return nil, nil
	}

	var records []orderRecord
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	// Flip back to append order.
	orders := make([]Order, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		order, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func toRecord(order *Order) (*orderRecord, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order items")
	}
	return &orderRecord{
		OrderID:         order.OrderID,
		CreatedAt:       order.CreatedAt,
		ItemsJSON:       items,
		Subtotal:        order.Subtotal,
		Discount:        order.Discount,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
		CouponCode:      order.CouponCode,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryPartner: order.DeliveryPartner,
		Store:           order.Store,
		Status:          order.Status,
	}, nil
}

func fromRecord(record *orderRecord) (*Order, error) {
	var items []session.Entry
	if len(record.ItemsJSON) > 0 {
		if err := json.Unmarshal(record.ItemsJSON, &items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order items")
		}
	}
	return &Order{
		OrderID:         record.OrderID,
		CreatedAt:       record.CreatedAt,
		Items:           items,
		Subtotal:        record.Subtotal,
		Discount:        record.Discount,
		DeliveryFee:     record.DeliveryFee,
		Total:           record.Total,
		CouponCode:      record.CouponCode,
		DeliveryAddress: record.DeliveryAddress,
		DeliveryPartner: record.DeliveryPartner,
		Store:           record.Store,
		Status:          record.Status,
	}, nil
}
