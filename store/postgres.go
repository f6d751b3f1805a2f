package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/EduardKrecmer/pizzeria-web/cart"
	"github.com/EduardKrecmer/pizzeria-web/order"
)

// OrderRecord is the orders table row. Items are kept as a JSON blob;
// nothing queries into individual items.
type OrderRecord struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement"`
	CustomerName       string    `gorm:"type:varchar(120);not null"`
	CustomerEmail      string    `gorm:"type:varchar(254)"`
	CustomerPhone      string    `gorm:"type:varchar(20);not null"`
	DeliveryAddress    string    `gorm:"type:varchar(200)"`
	DeliveryCity       string    `gorm:"type:varchar(80)"`
	DeliveryCityPart   string    `gorm:"type:varchar(80)"`
	DeliveryPostalCode string    `gorm:"type:varchar(10)"`
	DeliveryType       string    `gorm:"type:varchar(10);not null"`
	DeliveryFee        float64   `gorm:"type:decimal(10,2)"`
	Notes              string    `gorm:"type:text"`
	Items              string    `gorm:"type:text;not null"`
	TotalAmount        float64   `gorm:"type:decimal(10,2)"`
	Status             string    `gorm:"type:varchar(20);default:'pending'"`
	CreatedAt          time.Time `gorm:""`
}

func (OrderRecord) TableName() string {
	return "orders"
}

// Postgres persists orders through gorm.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres connects and migrates the orders table.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&OrderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate orders table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Ping checks the underlying connection, for health probes.
func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Save(ctx context.Context, o *order.Order) error {
	rec, err := toRecord(o)
	if err != nil {
		return err
	}

	if err := p.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	o.ID = rec.ID
	o.CreatedAt = rec.CreatedAt
	return nil
}

func (p *Postgres) Get(ctx context.Context, id int64) (*order.Order, bool, error) {
	var rec OrderRecord
	err := p.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load order %d: %w", id, err)
	}

	o, err := fromRecord(&rec)
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

// List returns all orders, newest first.
func (p *Postgres) List(ctx context.Context) ([]order.Order, error) {
	var recs []OrderRecord
	if err := p.db.WithContext(ctx).Order("id desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	out := make([]order.Order, 0, len(recs))
	for i := range recs {
		o, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func toRecord(o *order.Order) (*OrderRecord, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	return &OrderRecord{
		ID:                 o.ID,
		CustomerName:       o.CustomerName,
		CustomerEmail:      o.CustomerEmail,
		CustomerPhone:      o.CustomerPhone,
		DeliveryAddress:    o.DeliveryAddress,
		DeliveryCity:       o.DeliveryCity,
		DeliveryCityPart:   o.DeliveryCityPart,
		DeliveryPostalCode: o.DeliveryPostalCode,
		DeliveryType:       string(o.DeliveryType),
		DeliveryFee:        o.DeliveryFee,
		Notes:              o.Notes,
		Items:              string(items),
		TotalAmount:        o.TotalAmount,
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
	}, nil
}

func fromRecord(rec *OrderRecord) (*order.Order, error) {
	var items []cart.Item
	if err := json.Unmarshal([]byte(rec.Items), &items); err != nil {
		return nil, fmt.Errorf("failed to decode items of order %d: %w", rec.ID, err)
	}

	return &order.Order{
		ID:                 rec.ID,
		CustomerName:       rec.CustomerName,
		CustomerEmail:      rec.CustomerEmail,
		CustomerPhone:      rec.CustomerPhone,
		DeliveryAddress:    rec.DeliveryAddress,
		DeliveryCity:       rec.DeliveryCity,
		DeliveryCityPart:   rec.DeliveryCityPart,
		DeliveryPostalCode: rec.DeliveryPostalCode,
		DeliveryType:       cart.DeliveryType(rec.DeliveryType),
		DeliveryFee:        rec.DeliveryFee,
		Notes:              rec.Notes,
		Items:              items,
		TotalAmount:        rec.TotalAmount,
		Status:             rec.Status,
		CreatedAt:          rec.CreatedAt,
	}, nil
}

var _ order.Store = (*Postgres)(nil)
