package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wholesale/backend/internal/domain/catalog"
)

// SKUModel is the persistence model for the SKU domain entity.
type SKUModel struct {
	Code           string          `gorm:"type:varchar(100);primary_key"`
	Description    string          `gorm:"type:text"`
	Quantity       int             `gorm:"not null;default:0"`
	OnRoute        int             `gorm:"not null;default:0"`
	Size           string          `gorm:"type:varchar(50)"`
	Color          string          `gorm:"type:varchar(100)"`
	Fabric         string          `gorm:"type:varchar(200)"`
	CollectionID   uuid.UUID       `gorm:"type:uuid;index"`
	PriceCAD       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PriceUSD       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPriceCAD decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPriceUSD decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPriceCAD   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPriceUSD   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitsPerSKU    int             `gorm:"column:units_per_sku;not null;default:1"`
	IsPreOrder     bool            `gorm:"not null;default:false"`
	ImageURL       string          `gorm:"type:text"`
	WeightGrams    float64         `gorm:"not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SKUModel) TableName() string {
	return "catalog_skus"
}

// ToDomain converts the persistence model to a domain SKU entity.
func (m *SKUModel) ToDomain() *catalog.SKU {
	return &catalog.SKU{
		Code:           m.Code,
		Description:    m.Description,
		Quantity:       m.Quantity,
		OnRoute:        m.OnRoute,
		Size:           m.Size,
		Color:          m.Color,
		Fabric:         m.Fabric,
		CollectionID:   m.CollectionID,
		PriceCAD:       m.PriceCAD,
		PriceUSD:       m.PriceUSD,
		RetailPriceCAD: m.RetailPriceCAD,
		RetailPriceUSD: m.RetailPriceUSD,
		UnitPriceCAD:   m.UnitPriceCAD,
		UnitPriceUSD:   m.UnitPriceUSD,
		UnitsPerSKU:    m.UnitsPerSKU,
		IsPreOrder:     m.IsPreOrder,
		ImageURL:       m.ImageURL,
		WeightGrams:    m.WeightGrams,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SKU entity.
func (m *SKUModel) FromDomain(sku *catalog.SKU) {
	m.Code = sku.Code
	m.Description = sku.Description
	m.Quantity = sku.Quantity
	m.OnRoute = sku.OnRoute
	m.Size = sku.Size
	m.Color = sku.Color
	m.Fabric = sku.Fabric
	m.CollectionID = sku.CollectionID
	m.PriceCAD = sku.PriceCAD
	m.PriceUSD = sku.PriceUSD
	m.RetailPriceCAD = sku.RetailPriceCAD
	m.RetailPriceUSD = sku.RetailPriceUSD
	m.UnitPriceCAD = sku.UnitPriceCAD
	m.UnitPriceUSD = sku.UnitPriceUSD
	m.UnitsPerSKU = sku.UnitsPerSKU
	m.IsPreOrder = sku.IsPreOrder
	m.ImageURL = sku.ImageURL
	m.WeightGrams = sku.WeightGrams
	m.CreatedAt = sku.CreatedAt
	m.UpdatedAt = sku.UpdatedAt
}

// SKUModelFromDomain creates a new persistence model from a domain SKU entity.
func SKUModelFromDomain(sku *catalog.SKU) *SKUModel {
	m := &SKUModel{}
	m.FromDomain(sku)
	return m
}

// CollectionModel is the persistence model for the Collection domain entity.
type CollectionModel struct {
	ID        uuid.UUID              `gorm:"type:uuid;primary_key"`
	Name      string                 `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type      catalog.CollectionType `gorm:"type:varchar(20);not null;default:'ats'"`
	CreatedAt time.Time              `gorm:"not null"`
	UpdatedAt time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection entity.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	return &catalog.Collection{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Collection entity.
func (m *CollectionModel) FromDomain(c *catalog.Collection) {
	m.ID = c.ID
	m.Name = c.Name
	m.Type = c.Type
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// CollectionModelFromDomain creates a new persistence model from a domain Collection entity.
func CollectionModelFromDomain(c *catalog.Collection) *CollectionModel {
	m := &CollectionModel{}
	m.FromDomain(c)
	return m
}
