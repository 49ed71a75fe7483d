package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wooconnect/backend/internal/domain/commerce"
)

// PartnerModel is the persistence model for the Partner domain entity.
type PartnerModel struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key"`
	Name        string               `gorm:"type:varchar(255);not null"`
	Email       string               `gorm:"type:varchar(255);index"`
	Phone       string               `gorm:"type:varchar(50)"`
	Street      string               `gorm:"type:varchar(255)"`
	Street2     string               `gorm:"type:varchar(255)"`
	City        string               `gorm:"type:varchar(100)"`
	Zip         string               `gorm:"type:varchar(20)"`
	CountryCode string               `gorm:"type:varchar(2)"`
	StateCode   string               `gorm:"type:varchar(10)"`
	IsCompany   bool                 `gorm:"not null;default:false"`
	VATNumber   string               `gorm:"type:varchar(50)"`
	Type        commerce.PartnerType `gorm:"type:varchar(20);not null;default:'contact'"`
	ParentID    *uuid.UUID           `gorm:"type:uuid;index"`
	CreatedAt   time.Time            `gorm:"not null"`
	UpdatedAt   time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *commerce.Partner {
	return &commerce.Partner{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Street:      m.Street,
		Street2:     m.Street2,
		City:        m.City,
		Zip:         m.Zip,
		CountryCode: m.CountryCode,
		StateCode:   m.StateCode,
		IsCompany:   m.IsCompany,
		VATNumber:   m.VATNumber,
		Type:        m.Type,
		ParentID:    m.ParentID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *commerce.Partner) {
	m.ID = p.ID
	m.Name = p.Name
	m.Email = p.Email
	m.Phone = p.Phone
	m.Street = p.Street
	m.Street2 = p.Street2
	m.City = p.City
	m.Zip = p.Zip
	m.CountryCode = p.CountryCode
	m.StateCode = p.StateCode
	m.IsCompany = p.IsCompany
	m.VATNumber = p.VATNumber
	m.Type = p.Type
	m.ParentID = p.ParentID
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner entity.
func PartnerModelFromDomain(p *commerce.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Slug      string     `gorm:"type:varchar(255)"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *commerce.Category {
	return &commerce.Category{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		ParentID:  m.ParentID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *commerce.Category) {
	m.ID = c.ID
	m.Name = c.Name
	m.Slug = c.Slug
	m.ParentID = c.ParentID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	ID                      uuid.UUID            `gorm:"type:uuid;primary_key"`
	Name                    string               `gorm:"type:varchar(255);not null"`
	Description             string               `gorm:"type:text"`
	SKU                     string               `gorm:"type:varchar(100);index"`
	Type                    commerce.ProductType `gorm:"type:varchar(20);not null;default:'product'"`
	Price                   decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	Weight                  decimal.Decimal      `gorm:"type:decimal(12,3);not null;default:0"`
	ManageStock             bool                 `gorm:"not null;default:false"`
	Active                  bool                 `gorm:"not null;default:true"`
	CategoryID              *uuid.UUID           `gorm:"type:uuid;index"`
	ImageKey                string               `gorm:"type:varchar(255)"`
	QtyAvailable            decimal.Decimal      `gorm:"type:decimal(14,3);not null;default:0"`
	QtyAvailableNotReserved decimal.Decimal      `gorm:"type:decimal(14,3);not null;default:0"`
	CreatedAt               time.Time            `gorm:"not null"`
	UpdatedAt               time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *commerce.Product {
	return &commerce.Product{
		ID:                      m.ID,
		Name:                    m.Name,
		Description:             m.Description,
		SKU:                     m.SKU,
		Type:                    m.Type,
		Price:                   m.Price,
		Weight:                  m.Weight,
		ManageStock:             m.ManageStock,
		Active:                  m.Active,
		CategoryID:              m.CategoryID,
		ImageKey:                m.ImageKey,
		QtyAvailable:            m.QtyAvailable,
		QtyAvailableNotReserved: m.QtyAvailableNotReserved,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *commerce.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.Description = p.Description
	m.SKU = p.SKU
	m.Type = p.Type
	m.Price = p.Price
	m.Weight = p.Weight
	m.ManageStock = p.ManageStock
	m.Active = p.Active
	m.CategoryID = p.CategoryID
	m.ImageKey = p.ImageKey
	m.QtyAvailable = p.QtyAvailable
	m.QtyAvailableNotReserved = p.QtyAvailableNotReserved
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// SaleOrderModel is the persistence model for the SaleOrder domain entity.
type SaleOrderModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	Number            string          `gorm:"type:varchar(50);not null;index"`
	Note              string          `gorm:"type:text"`
	Status            string          `gorm:"type:varchar(30);not null;index"`
	PartnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShippingPartnerID *uuid.UUID      `gorm:"type:uuid"`
	PaymentModeID     uuid.UUID       `gorm:"type:uuid;not null"`
	CarrierID         *uuid.UUID      `gorm:"type:uuid"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTax          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleOrderModel) TableName() string {
	return "sale_orders"
}

// ToDomain converts the persistence model to a domain SaleOrder entity.
func (m *SaleOrderModel) ToDomain() *commerce.SaleOrder {
	return &commerce.SaleOrder{
		ID:                m.ID,
		Number:            m.Number,
		Note:              m.Note,
		Status:            m.Status,
		PartnerID:         m.PartnerID,
		ShippingPartnerID: m.ShippingPartnerID,
		PaymentModeID:     m.PaymentModeID,
		CarrierID:         m.CarrierID,
		TotalAmount:       m.TotalAmount,
		TotalTax:          m.TotalTax,
		ShippingTotal:     m.ShippingTotal,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleOrder entity.
func (m *SaleOrderModel) FromDomain(o *commerce.SaleOrder) {
	m.ID = o.ID
	m.Number = o.Number
	m.Note = o.Note
	m.Status = o.Status
	m.PartnerID = o.PartnerID
	m.ShippingPartnerID = o.ShippingPartnerID
	m.PaymentModeID = o.PaymentModeID
	m.CarrierID = o.CarrierID
	m.TotalAmount = o.TotalAmount
	m.TotalTax = o.TotalTax
	m.ShippingTotal = o.ShippingTotal
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// SaleOrderLineModel is the persistence model for the SaleOrderLine entity.
type SaleOrderLineModel struct {
	ID        uuid.UUID              `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID             `gorm:"type:uuid"`
	Name      string                 `gorm:"type:varchar(255);not null"`
	Kind      commerce.OrderLineKind `gorm:"type:varchar(20);not null;default:'product'"`
	Quantity  decimal.Decimal        `gorm:"type:decimal(12,3);not null;default:0"`
	PriceUnit decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	Sequence  int                    `gorm:"not null;default:0"`
	CreatedAt time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleOrderLineModel) TableName() string {
	return "sale_order_lines"
}

// ToDomain converts the persistence model to a domain SaleOrderLine entity.
func (m *SaleOrderLineModel) ToDomain() commerce.SaleOrderLine {
	return commerce.SaleOrderLine{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Name:      m.Name,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		PriceUnit: m.PriceUnit,
		Sequence:  m.Sequence,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleOrderLine entity.
func (m *SaleOrderLineModel) FromDomain(l *commerce.SaleOrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ProductID = l.ProductID
	m.Name = l.Name
	m.Kind = l.Kind
	m.Quantity = l.Quantity
	m.PriceUnit = l.PriceUnit
	m.Sequence = l.Sequence
	m.CreatedAt = l.CreatedAt
}

// PaymentModeModel is the persistence model for the PaymentMode entity.
type PaymentModeModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Name             string    `gorm:"type:varchar(100);not null"`
	Code             string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	DaysBeforeCancel int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModeModel) TableName() string {
	return "payment_modes"
}

// ToDomain converts the persistence model to a domain PaymentMode entity.
func (m *PaymentModeModel) ToDomain() *commerce.PaymentMode {
	return &commerce.PaymentMode{
		ID:               m.ID,
		Name:             m.Name,
		Code:             m.Code,
		DaysBeforeCancel: m.DaysBeforeCancel,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// DeliveryCarrierModel is the persistence model for the DeliveryCarrier entity.
type DeliveryCarrierModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(100);not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeliveryCarrierModel) TableName() string {
	return "delivery_carriers"
}

// ToDomain converts the persistence model to a domain DeliveryCarrier entity.
func (m *DeliveryCarrierModel) ToDomain() *commerce.DeliveryCarrier {
	return &commerce.DeliveryCarrier{
		ID:        m.ID,
		Name:      m.Name,
		ProductID: m.ProductID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain DeliveryCarrier entity.
func (m *DeliveryCarrierModel) FromDomain(c *commerce.DeliveryCarrier) {
	m.ID = c.ID
	m.Name = c.Name
	m.ProductID = c.ProductID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}
