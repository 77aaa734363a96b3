package models

import (
	"strings"
	"time"

	"hotel-inventory-api/internal/errs"
)

type Supplier struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ContactPerson string     `json:"contactPerson"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Categories    []string   `json:"categories"`
	Rating        float64    `json:"rating"`
	TotalOrders   int        `json:"totalOrders"`
	TotalValue    float64    `json:"totalValue"`
	LastOrderDate *time.Time `json:"lastOrderDate,omitempty"`
	PaymentTerms  string     `json:"paymentTerms"`
	DeliveryTime  string     `json:"deliveryTime"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type SupplierInput struct {
	Name          string   `json:"name"`
	ContactPerson string   `json:"contactPerson"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	Categories    []string `json:"categories"`
	Rating        float64  `json:"rating"`
	PaymentTerms  string   `json:"paymentTerms"`
	DeliveryTime  string   `json:"deliveryTime"`
	Notes         string   `json:"notes,omitempty"`
}

func (in SupplierInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errs.Validation("supplier name is required")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return errs.Validation("rating must be between 0 and 5")
	}
	return nil
}

type SupplierPatch struct {
	Name          *string   `json:"name,omitempty"`
	ContactPerson *string   `json:"contactPerson,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Categories    *[]string `json:"categories,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	PaymentTerms  *string   `json:"paymentTerms,omitempty"`
	DeliveryTime  *string   `json:"deliveryTime,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

func (p SupplierPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errs.Validation("supplier name must not be empty")
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return errs.Validation("rating must be between 0 and 5")
	}
	return nil
}

// AutoOrderRule reorders OrderQuantity units of Category from Supplier once the
// in-stock count drops to MinThreshold.
type AutoOrderRule struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Supplier      string `json:"supplier"`
	MinThreshold  int    `json:"minThreshold"`
	OrderQuantity int    `json:"orderQuantity"`
	Enabled       bool   `json:"enabled"`
}

func (r AutoOrderRule) Validate() error {
	switch {
	case strings.TrimSpace(r.Category) == "":
		return errs.Validation("category is required")
	case strings.TrimSpace(r.Supplier) == "":
		return errs.Validation("supplier is required")
	case r.MinThreshold < 0:
		return errs.Validation("min threshold must not be negative")
	case r.OrderQuantity <= 0:
		return errs.Validation("order quantity must be positive")
	}
	return nil
}

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderOrdered  OrderStatus = "ordered"
	OrderReceived OrderStatus = "received"
)

// Next is the status an order moves to when advanced, or "" when it is final.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderPending:
		return OrderApproved
	case OrderApproved:
		return OrderOrdered
	case OrderOrdered:
		return OrderReceived
	}
	return ""
}

type PurchaseOrder struct {
	ID            string      `json:"id"`
	RuleID        string      `json:"ruleId"`
	Category      string      `json:"category"`
	Supplier      string      `json:"supplier"`
	Quantity      int         `json:"quantity"`
	EstimatedCost float64     `json:"estimatedCost"`
	Status        OrderStatus `json:"status"`
	Notes         string      `json:"notes"`
	OrderDate     time.Time   `json:"orderDate"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type AlertType string

const (
	AlertLowStock         AlertType = "low_stock"
	AlertWarrantyExpiring AlertType = "warranty_expiring"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type StockAlert struct {
	ID              string    `json:"id"`
	Type            AlertType `json:"type"`
	Category        string    `json:"category"`
	ItemID          string    `json:"itemId,omitempty"`
	ItemName        string    `json:"itemName,omitempty"`
	Message         string    `json:"message"`
	Severity        Severity  `json:"severity"`
	CurrentStock    int       `json:"currentStock,omitempty"`
	MinStock        int       `json:"minStock,omitempty"`
	DaysUntilExpiry int       `json:"daysUntilExpiry,omitempty"`
	Acknowledged    bool      `json:"acknowledged"`
	CreatedAt       time.Time `json:"createdAt"`
}
