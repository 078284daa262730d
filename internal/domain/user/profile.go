package user

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const UnassignedVehicle = "UNASSIGNED"

// Profile is the role-specific extension of a User, keyed 1:1 by user id.
type Profile interface {
	Kind() Role
	Owner() uuid.UUID
	Data() map[string]any
}

type Supplier struct {
	UserID          uuid.UUID
	CompanyName     string
	StreetNo        string
	StreetName      string
	City            string
	Zipcode         string
	Code            string
	BusinessType    string
	TaxID           string
	ComplianceScore float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *Supplier) Kind() Role       { return RoleSupplier }
func (s *Supplier) Owner() uuid.UUID { return s.UserID }

func (s *Supplier) Data() map[string]any {
	return map[string]any{
		"company_name":     s.CompanyName,
		"street_no":        s.StreetNo,
		"street_name":      s.StreetName,
		"city":             s.City,
		"zipcode":          s.Zipcode,
		"code":             s.Code,
		"business_type":    s.BusinessType,
		"tax_id":           s.TaxID,
		"compliance_score": s.ComplianceScore,
		"active":           s.Active,
		"created_at":       s.CreatedAt,
		"updated_at":       s.UpdatedAt,
	}
}

type Vendor struct {
	UserID          uuid.UUID
	ShopName        string
	Location        string
	BusinessLicense string
}

func (v *Vendor) Kind() Role       { return RoleVendor }
func (v *Vendor) Owner() uuid.UUID { return v.UserID }

func (v *Vendor) Data() map[string]any {
	return map[string]any{
		"shop_name":        v.ShopName,
		"location":         v.Location,
		"business_license": v.BusinessLicense,
	}
}

type WarehouseManager struct {
	UserID      uuid.UUID
	WarehouseID string
	Department  string
}

func (w *WarehouseManager) Kind() Role       { return RoleWarehouseManager }
func (w *WarehouseManager) Owner() uuid.UUID { return w.UserID }

func (w *WarehouseManager) Data() map[string]any {
	return map[string]any{
		"warehouse_id": w.WarehouseID,
		"department":   w.Department,
	}
}

type Driver struct {
	UserID        uuid.UUID
	LicenseNumber string
	VehicleType   string
	VehicleID     string
}

func (d *Driver) Kind() Role       { return RoleDriver }
func (d *Driver) Owner() uuid.UUID { return d.UserID }

func (d *Driver) Data() map[string]any {
	return map[string]any{
		"license_number": d.LicenseNumber,
		"vehicle_type":   d.VehicleType,
		"vehicle_id":     d.VehicleID,
	}
}

// Attributes is the loosely typed role_data carried by requests.
type Attributes map[string]any

func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String renders the value for key as trimmed text. Missing and null values are "".
func (a Attributes) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func (a Attributes) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (a Attributes) Bool(key string) (bool, bool) {
	switch v := a[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	default:
		return false, false
	}
}

// ProfileSpec describes how a role's profile is validated, built and patched.
type ProfileSpec struct {
	Role     Role
	Required []string
	New      func(userID uuid.UUID, attrs Attributes, now time.Time) Profile
	Apply    func(p Profile, attrs Attributes, now time.Time)
}

// Missing returns the required keys that are absent or blank, sorted.
func (s ProfileSpec) Missing(attrs Attributes) []string {
	var missing []string
	for _, key := range s.Required {
		if attrs.String(key) == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

var profileSpecs = map[Role]ProfileSpec{
	RoleSupplier: {
		Role:     RoleSupplier,
		Required: []string{"company_name", "business_type", "tax_id"},
		New: func(userID uuid.UUID, attrs Attributes, now time.Time) Profile {
			s := &Supplier{
				UserID:          userID,
				Code:            SupplierCode(userID),
				ComplianceScore: 5.0,
				Active:          true,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			applySupplier(s, attrs)
			return s
		},
		Apply: func(p Profile, attrs Attributes, now time.Time) {
			s := p.(*Supplier)
			applySupplier(s, attrs)
			s.UpdatedAt = now
		},
	},
	RoleVendor: {
		Role:     RoleVendor,
		Required: []string{"shop_name", "location", "business_license"},
		New: func(userID uuid.UUID, attrs Attributes, _ time.Time) Profile {
			v := &Vendor{UserID: userID}
			applyVendor(v, attrs)
			return v
		},
		Apply: func(p Profile, attrs Attributes, _ time.Time) {
			applyVendor(p.(*Vendor), attrs)
		},
	},
	RoleWarehouseManager: {
		Role:     RoleWarehouseManager,
		Required: []string{"warehouse_id", "department"},
		New: func(userID uuid.UUID, attrs Attributes, _ time.Time) Profile {
			w := &WarehouseManager{UserID: userID}
			applyWarehouseManager(w, attrs)
			return w
		},
		Apply: func(p Profile, attrs Attributes, _ time.Time) {
			applyWarehouseManager(p.(*WarehouseManager), attrs)
		},
	},
	RoleDriver: {
		Role:     RoleDriver,
		Required: []string{"license_number", "vehicle_type"},
		New: func(userID uuid.UUID, attrs Attributes, _ time.Time) Profile {
			d := &Driver{UserID: userID, VehicleID: UnassignedVehicle}
			applyDriver(d, attrs)
			return d
		},
		Apply: func(p Profile, attrs Attributes, _ time.Time) {
			applyDriver(p.(*Driver), attrs)
		},
	},
}

// SpecFor returns the profile spec for roles that carry a profile.
func SpecFor(r Role) (ProfileSpec, bool) {
	s, ok := profileSpecs[r]
	return s, ok
}

// SupplierCode derives the default supplier code from the owning user id.
func SupplierCode(userID uuid.UUID) string {
	return "SUP-" + strings.ToUpper(strings.ReplaceAll(userID.String(), "-", "")[:8])
}

func setIfPresent(dst *string, attrs Attributes, key string) {
	if attrs.Has(key) {
		*dst = attrs.String(key)
	}
}

func applySupplier(s *Supplier, attrs Attributes) {
	setIfPresent(&s.CompanyName, attrs, "company_name")
	setIfPresent(&s.StreetNo, attrs, "street_no")
	setIfPresent(&s.StreetName, attrs, "street_name")
	setIfPresent(&s.City, attrs, "city")
	setIfPresent(&s.Zipcode, attrs, "zipcode")
	setIfPresent(&s.BusinessType, attrs, "business_type")
	setIfPresent(&s.TaxID, attrs, "tax_id")
	if code := attrs.String("code"); code != "" {
		s.Code = code
	}
	if score, ok := attrs.Float("compliance_score"); ok {
		s.ComplianceScore = score
	}
	if active, ok := attrs.Bool("active"); ok {
		s.Active = active
	}
}

func applyVendor(v *Vendor, attrs Attributes) {
	setIfPresent(&v.ShopName, attrs, "shop_name")
	setIfPresent(&v.Location, attrs, "location")
	setIfPresent(&v.BusinessLicense, attrs, "business_license")
}

func applyWarehouseManager(w *WarehouseManager, attrs Attributes) {
	setIfPresent(&w.WarehouseID, attrs, "warehouse_id")
	setIfPresent(&w.Department, attrs, "department")
}

func applyDriver(d *Driver, attrs Attributes) {
	setIfPresent(&d.LicenseNumber, attrs, "license_number")
	setIfPresent(&d.VehicleType, attrs, "vehicle_type")
	if vid := attrs.String("vehicle_id"); vid != "" {
		d.VehicleID = vid
	}
}
