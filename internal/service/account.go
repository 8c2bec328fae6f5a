package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/technocare/internal/events"
	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/repo"
)

type AccountService struct {
	Repo      repo.Collection[models.Account]
	Publisher events.Publisher
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.Repo.Find(ctx, repo.Filter{})
}

func (s *AccountService) GetAccountBySubject(ctx context.Context, subjectID string) (*models.Account, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subjectId is required: %w", ErrValidation)
	}
	acc, err := s.Repo.FindOne(ctx, repo.Eq(models.FieldSubjectID, subjectID))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("account %q: %w", subjectID, ErrNotFound)
	}
	return acc, err
}

// GetCart fails with ErrNotFound when no account exists; an existing account
// without a cart yields an empty cart.
func (s *AccountService) GetCart(ctx context.Context, subjectID string) (models.Cart, error) {
	acc, err := s.GetAccountBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if acc.Cart == nil {
		return models.Cart{}, nil
	}
	return acc.Cart, nil
}

// CreateAccount inserts acc as given. Email and subjectId are not checked for
// duplicates here.
func (s *AccountService) CreateAccount(ctx context.Context, acc *models.Account) (string, error) {
	id, err := s.Repo.Insert(ctx, acc)
	if err != nil {
		return "", err
	}

	publish(ctx, s.Publisher, events.AccountTopic, acc.Email, map[string]any{
		"type":      "account_created",
		"accountID": id,
		"email":     acc.Email,
	})
	return id, nil
}

// UpsertProfile is the sign-in sync path: matched by email, inserted when absent.
func (s *AccountService) UpsertProfile(ctx context.Context, acc models.Account) (repo.UpdateResult, error) {
	if acc.Email == "" {
		return repo.UpdateResult{}, fmt.Errorf("email is required: %w", ErrValidation)
	}

	res, err := s.Repo.Update(ctx, repo.Eq(models.FieldEmail, acc.Email), repo.Fields{
		models.FieldDisplayName:  acc.DisplayName,
		models.FieldEmail:        acc.Email,
		models.FieldPhoto:        acc.Photo,
		models.FieldCreatedAt:    acc.CreatedAt,
		models.FieldLastAccessAt: acc.LastAccessAt,
		models.FieldVerified:     acc.Verified,
		models.FieldSubjectID:    acc.SubjectID,
	}, repo.Upsert)
	if err != nil {
		return repo.UpdateResult{}, err
	}

	publish(ctx, s.Publisher, events.AccountTopic, acc.Email, map[string]any{
		"type":     "profile_upserted",
		"email":    acc.Email,
		"inserted": res.UpsertedID != "",
	})
	return res, nil
}

// TouchLastAccess never inserts; an unknown email is a no-op.
func (s *AccountService) TouchLastAccess(ctx context.Context, email string, at *time.Time) (repo.UpdateResult, error) {
	if email == "" {
		return repo.UpdateResult{}, fmt.Errorf("email is required: %w", ErrValidation)
	}
	if at == nil {
		return repo.UpdateResult{}, fmt.Errorf("lastAccessAt is required: %w", ErrValidation)
	}

	res, err := s.Repo.Update(ctx, repo.Eq(models.FieldEmail, email), repo.Fields{
		models.FieldLastAccessAt: at,
	}, repo.ReplaceOnly)
	if err != nil {
		return repo.UpdateResult{}, err
	}

	if res.Matched > 0 {
		publish(ctx, s.Publisher, events.AccountTopic, email, map[string]any{
			"type":         "last_access_touched",
			"email":        email,
			"lastAccessAt": at,
		})
	}
	return res, nil
}

// ReplaceCart swaps the whole cart. An unknown email gets a new account
// holding only email and cart.
func (s *AccountService) ReplaceCart(ctx context.Context, email string, cart models.Cart) (repo.UpdateResult, error) {
	if email == "" {
		return repo.UpdateResult{}, fmt.Errorf("email is required: %w", ErrValidation)
	}
	if cart == nil {
		return repo.UpdateResult{}, fmt.Errorf("updatedCart is required: %w", ErrValidation)
	}

	res, err := s.Repo.Update(ctx, repo.Eq(models.FieldEmail, email), repo.Fields{
		models.FieldCart: cart,
	}, repo.Upsert)
	if err != nil {
		return repo.UpdateResult{}, err
	}

	publish(ctx, s.Publisher, events.AccountTopic, email, map[string]any{
		"type":  "cart_replaced",
		"email": email,
		"lines": len(cart),
	})
	return res, nil
}
