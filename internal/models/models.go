package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document field names shared by every backend. Filters and update sets are
// keyed by these, never by Go field names.
const (
	FieldID           = "_id"
	FieldSubjectID    = "subjectId"
	FieldEmail        = "email"
	FieldDisplayName  = "displayName"
	FieldPhoto        = "photo"
	FieldCreatedAt    = "createdAt"
	FieldLastAccessAt = "lastAccessAt"
	FieldVerified     = "verified"
	FieldCart         = "cart"

	FieldSKU        = "sku"
	FieldPathname   = "pathname"
	FieldGadgetName = "gadgetName"
	FieldBrand      = "brand"
	FieldCategory   = "category"
	FieldRating     = "rating"
	FieldDetails    = "details"
	FieldPrice      = "price"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
)

// CartLine is stored exactly as the caller sent it.
type CartLine map[string]any

// Cart is replaced as a whole, never merged. SQL backends keep it in a JSON
// column; mongo stores it as a plain array.
type Cart = datatypes.JSONSlice[CartLine]

type Account struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"               json:"_id,omitempty"          bson:"_id,omitempty"`
	SubjectID    string     `gorm:"index;not null;default:''"                 json:"subjectId"              bson:"subjectId"`
	Email        string     `gorm:"index;not null;default:''"                 json:"email"                  bson:"email"`
	DisplayName  string     `gorm:"not null;default:''"                       json:"displayName"            bson:"displayName"`
	Photo        string     `gorm:"not null;default:''"                       json:"photo"                  bson:"photo"`
	CreatedAt    *time.Time `gorm:"autoCreateTime:false"                      json:"createdAt,omitempty"    bson:"createdAt"`
	LastAccessAt *time.Time `json:"lastAccessAt,omitempty" bson:"lastAccessAt"`
	Verified     bool       `gorm:"not null;default:false"                    json:"verified"               bson:"verified"`
	Cart         Cart       `gorm:"not null;default:'[]'"                     json:"cart"                   bson:"cart"`
}

func (Account) TableName() string {
	return UsersCollection
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)"  json:"_id,omitempty" bson:"_id,omitempty"`
	SKU        int64   `gorm:"index;not null;default:0"     json:"sku"           bson:"sku"`
	Pathname   string  `gorm:"index;not null;default:''"    json:"pathname"      bson:"pathname"`
	GadgetName string  `gorm:"not null;default:''"          json:"gadgetName"    bson:"gadgetName"`
	Brand      string  `gorm:"index;not null;default:''"    json:"brand"         bson:"brand"`
	Category   string  `gorm:"index;not null;default:''"    json:"category"      bson:"category"`
	Rating     float64 `gorm:"not null;default:0"           json:"rating"        bson:"rating"`
	Details    string  `gorm:"type:text;not null;default:''" json:"details"      bson:"details"`
	Photo      string  `gorm:"not null;default:''"          json:"photo"         bson:"photo"`
	Price      float64 `gorm:"not null;default:0"           json:"price"         bson:"price"`
}

func (Product) TableName() string {
	return ProductsCollection
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
