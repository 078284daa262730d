package postgres

import (
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/database/postgres/models"
)

// Helper functions to convert between domain entities and database models

func toUserModel(u *domainUser.User) *models.UserModel {
	var roleID *int
	if u.RoleID != nil {
		id := int(*u.RoleID)
		roleID = &id
	}
	return &models.UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		RoleID:         roleID,
		IsActive:       u.IsActive,
		IsVerified:     u.IsVerified,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	var role *domainUser.Role
	if m.RoleID != nil {
		r := domainUser.Role(*m.RoleID)
		role = &r
	}
	return &domainUser.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Phone:          m.Phone,
		RoleID:         role,
		IsActive:       m.IsActive,
		IsVerified:     m.IsVerified,
		LastLoginAt:    m.LastLoginAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func emptyProfileModel(kind domainUser.Role) (interface{}, error) {
	switch kind {
	case domainUser.RoleSupplier:
		return &models.SupplierModel{}, nil
	case domainUser.RoleVendor:
		return &models.VendorModel{}, nil
	case domainUser.RoleWarehouseManager:
		return &models.WarehouseManagerModel{}, nil
	case domainUser.RoleDriver:
		return &models.DriverModel{}, nil
	default:
		return nil, domainUser.ErrInvalidUserRole
	}
}

func toProfileModel(p domainUser.Profile) (interface{}, error) {
	switch v := p.(type) {
	case *domainUser.Supplier:
		return &models.SupplierModel{
			UserID:          v.UserID,
			CompanyName:     v.CompanyName,
			StreetNo:        v.StreetNo,
			StreetName:      v.StreetName,
			City:            v.City,
			Zipcode:         v.Zipcode,
			Code:            v.Code,
			BusinessType:    v.BusinessType,
			TaxID:           v.TaxID,
			ComplianceScore: v.ComplianceScore,
			Active:          v.Active,
			CreatedAt:       v.CreatedAt,
			UpdatedAt:       v.UpdatedAt,
		}, nil
	case *domainUser.Vendor:
		return &models.VendorModel{
			UserID:          v.UserID,
			ShopName:        v.ShopName,
			Location:        v.Location,
			BusinessLicense: v.BusinessLicense,
		}, nil
	case *domainUser.WarehouseManager:
		return &models.WarehouseManagerModel{
			UserID:      v.UserID,
			WarehouseID: v.WarehouseID,
			Department:  v.Department,
		}, nil
	case *domainUser.Driver:
		return &models.DriverModel{
			UserID:        v.UserID,
			LicenseNumber: v.LicenseNumber,
			VehicleType:   v.VehicleType,
			VehicleID:     v.VehicleID,
		}, nil
	default:
		return nil, domainUser.ErrInvalidUserRole
	}
}

func toProfileEntity(m interface{}) domainUser.Profile {
	switch v := m.(type) {
	case *models.SupplierModel:
		return toSupplierEntity(v)
	case *models.VendorModel:
		return &domainUser.Vendor{
			UserID:          v.UserID,
			ShopName:        v.ShopName,
			Location:        v.Location,
			BusinessLicense: v.BusinessLicense,
		}
	case *models.WarehouseManagerModel:
		return &domainUser.WarehouseManager{
			UserID:      v.UserID,
			WarehouseID: v.WarehouseID,
			Department:  v.Department,
		}
	case *models.DriverModel:
		return toDriverEntity(v)
	default:
		return nil
	}
}

func toSupplierEntity(m *models.SupplierModel) *domainUser.Supplier {
	return &domainUser.Supplier{
		UserID:          m.UserID,
		CompanyName:     m.CompanyName,
		StreetNo:        m.StreetNo,
		StreetName:      m.StreetName,
		City:            m.City,
		Zipcode:         m.Zipcode,
		Code:            m.Code,
		BusinessType:    m.BusinessType,
		TaxID:           m.TaxID,
		ComplianceScore: m.ComplianceScore,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDriverEntity(m *models.DriverModel) *domainUser.Driver {
	return &domainUser.Driver{
		UserID:        m.UserID,
		LicenseNumber: m.LicenseNumber,
		VehicleType:   m.VehicleType,
		VehicleID:     m.VehicleID,
	}
}

func toAccessTokenModel(t *domainUser.AccessToken) *models.AccessTokenModel {
	return &models.AccessTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		KeyHash:   t.KeyHash,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func toAccessTokenEntity(m *models.AccessTokenModel) *domainUser.AccessToken {
	return &domainUser.AccessToken{
		ID:        m.ID,
		UserID:    m.UserID,
		KeyHash:   m.KeyHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func toResetTokenModel(t *domainUser.PasswordResetToken) *models.PasswordResetTokenModel {
	return &models.PasswordResetTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		CreatedAt: t.CreatedAt,
	}
}

func toResetTokenEntity(m *models.PasswordResetTokenModel) *domainUser.PasswordResetToken {
	return &domainUser.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		CreatedAt: m.CreatedAt,
	}
}
