package models

import (
	"time"

	"github.com/google/uuid"
)

type SupplierModel struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	User            *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CompanyName     string     `gorm:"type:varchar(255);not null"`
	StreetNo        string     `gorm:"type:varchar(20)"`
	StreetName      string     `gorm:"type:varchar(64)"`
	City            string     `gorm:"type:varchar(64)"`
	Zipcode         string     `gorm:"type:varchar(10)"`
	Code            string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	BusinessType    string     `gorm:"type:varchar(100);not null"`
	TaxID           string     `gorm:"type:varchar(50);not null"`
	ComplianceScore float64    `gorm:"not null"`
	Active          bool       `gorm:"not null;index"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

func (SupplierModel) TableName() string {
	return "suppliers"
}

type VendorModel struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	User            *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ShopName        string     `gorm:"type:varchar(255);not null"`
	Location        string     `gorm:"type:varchar(255);not null"`
	BusinessLicense string     `gorm:"type:varchar(50);not null"`
}

func (VendorModel) TableName() string {
	return "vendors"
}

type WarehouseManagerModel struct {
	UserID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	User        *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	WarehouseID string     `gorm:"type:varchar(50);not null"`
	Department  string     `gorm:"type:varchar(100);not null"`
}

func (WarehouseManagerModel) TableName() string {
	return "warehouse_managers"
}

type DriverModel struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	User          *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LicenseNumber string     `gorm:"type:varchar(50);not null"`
	VehicleType   string     `gorm:"type:varchar(100);not null"`
	VehicleID     string     `gorm:"type:varchar(50);not null;index"`
}

func (DriverModel) TableName() string {
	return "drivers"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&RoleModel{},
		&UserModel{},
		&SupplierModel{},
		&VendorModel{},
		&WarehouseManagerModel{},
		&DriverModel{},
		&AccessTokenModel{},
		&PasswordResetTokenModel{},
	}
}
