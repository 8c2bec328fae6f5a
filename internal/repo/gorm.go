package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GormCollection stores documents as rows. Document field names are mapped to
// columns through the bson tags of T so filters are backend independent.
type GormCollection[T any] struct {
	DB      *gorm.DB
	columns map[string]string
	pk      *schema.Field
}

func NewGormCollection[T any](db *gorm.DB) (*GormCollection[T], error) {
	s, err := schema.Parse(new(T), &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if s.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("%s has no primary key", s.Name)
	}

	columns := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		name, _, _ := strings.Cut(f.Tag.Get("bson"), ",")
		if name == "" || name == "-" || f.DBName == "" {
			continue
		}
		columns[name] = f.DBName
	}

	return &GormCollection[T]{DB: db, columns: columns, pk: s.PrioritizedPrimaryField}, nil
}

func (c *GormCollection[T]) column(field string) (string, error) {
	col, ok := c.columns[field]
	if !ok {
		return "", fmt.Errorf("unknown document field %q", field)
	}
	return col, nil
}

func (c *GormCollection[T]) scope(tx *gorm.DB, f Filter) (*gorm.DB, error) {
	if f.All() {
		return tx, nil
	}
	col, err := c.column(f.Field)
	if err != nil {
		return nil, err
	}
	return tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: f.Value}), nil
}

func (c *GormCollection[T]) row(set Fields) (map[string]any, error) {
	row := make(map[string]any, len(set)+2)
	for k, v := range set {
		col, err := c.column(k)
		if err != nil {
			return nil, err
		}
		row[col] = v
	}
	return row, nil
}

func (c *GormCollection[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	tx, err := c.scope(c.DB.WithContext(ctx), f)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (c *GormCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	tx, err := c.scope(c.DB.WithContext(ctx), f)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := tx.Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (c *GormCollection[T]) Insert(ctx context.Context, doc *T) (string, error) {
	if err := c.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return "", err
	}
	id, _ := c.pk.ValueOf(ctx, reflect.ValueOf(doc))
	return fmt.Sprint(id), nil
}

// Update locks onto the first matching row inside a transaction so that, like a
// document store, a single row is changed even when several match.
func (c *GormCollection[T]) Update(ctx context.Context, f Filter, set Fields, policy Policy) (UpdateResult, error) {
	if f.All() {
		return UpdateResult{}, errors.New("update: filter field is required")
	}
	filterCol, err := c.column(f.Field)
	if err != nil {
		return UpdateResult{}, err
	}
	values, err := c.row(set)
	if err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	err = c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		q := tx.Model(new(T))
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.
			Where(clause.Eq{Column: clause.Column{Name: filterCol}, Value: f.Value}).
			Limit(1).
			Pluck(c.pk.DBName, &ids).Error; err != nil {
			return err
		}

		if len(ids) == 0 {
			if policy != Upsert {
				return nil
			}
			values[filterCol] = f.Value
			id := uuid.NewString()
			values[c.pk.DBName] = id
			if err := tx.Model(new(T)).Create(values).Error; err != nil {
				return err
			}
			res.UpsertedID = id
			return nil
		}

		res.Matched = 1
		if len(values) == 0 {
			return nil
		}
		out := tx.Model(new(T)).
			Where(clause.Eq{Column: clause.Column{Name: c.pk.DBName}, Value: ids[0]}).
			Updates(values)
		if out.Error != nil {
			return out.Error
		}
		res.Modified = out.RowsAffected
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return res, nil
}

// Migrate creates the table and its non-unique lookup indexes.
func (c *GormCollection[T]) Migrate() error {
	return c.DB.AutoMigrate(new(T))
}
