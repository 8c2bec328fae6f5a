package transport

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/repo"
)

type TouchRequest struct {
	Email        string     `json:"email"`
	LastAccessAt *time.Time `json:"lastAccessAt"`
}

type CartRequest struct {
	Email       string      `json:"email"`
	UpdatedCart models.Cart `json:"updatedCart"`
}

// SKU accepts a JSON number or a numeric string, and records whether the
// field was present at all.
type SKU struct {
	Value int64
	Set   bool
}

func (s *SKU) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(bytes.Trim(b, `"`))
	v, err := ParseSKU(raw)
	if err != nil {
		return err
	}
	s.Value, s.Set = v, true
	return nil
}

func ParseSKU(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sku %q is not an integer", raw)
	}
	return v, nil
}

type ProductRequest struct {
	SKU        SKU     `json:"sku"`
	Pathname   string  `json:"pathname"`
	GadgetName string  `json:"gadgetName"`
	Brand      string  `json:"brand"`
	Category   string  `json:"category"`
	Rating     float64 `json:"rating"`
	Details    string  `json:"details"`
	Photo      string  `json:"photo"`
	Price      float64 `json:"price"`
}

func (r ProductRequest) Product() models.Product {
	return models.Product{
		SKU:        r.SKU.Value,
		Pathname:   r.Pathname,
		GadgetName: r.GadgetName,
		Brand:      r.Brand,
		Category:   r.Category,
		Rating:     r.Rating,
		Details:    r.Details,
		Photo:      r.Photo,
		Price:      r.Price,
	}
}

type InsertAck struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateAck struct {
	Acknowledged bool `json:"acknowledged"`
	repo.UpdateResult
}

func Inserted(id string) InsertAck {
	return InsertAck{Acknowledged: true, InsertedID: id}
}

func Updated(res repo.UpdateResult) UpdateAck {
	return UpdateAck{Acknowledged: true, UpdateResult: res}
}
