package service

import (
	"context"
	"fmt"
	"strings"

	"fsanano/coffee-shop/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *ShopService) SubmitContact(ctx context.Context, in ContactInput) (model.ContactMessage, error) {
	m := model.ContactMessage{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: s.now(),
	}
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Subject, validation.Length(0, 200)),
		validation.Field(&m.Message, validation.Required, validation.Length(1, 5000)),
	)
	if err != nil {
		return model.ContactMessage{}, err
	}

	if err := s.store.CreateContact(ctx, m); err != nil {
		return model.ContactMessage{}, fmt.Errorf("submit contact: %w", err)
	}
	return m, nil
}

func (s *ShopService) ListContacts(ctx context.Context) ([]model.ContactMessage, error) {
	return s.store.ListContacts(ctx)
}

type ReviewInput struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (s *ShopService) SubmitReview(ctx context.Context, in ReviewInput) (model.Review, error) {
	r := model.Review{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Rating:    in.Rating,
		Text:      strings.TrimSpace(in.Text),
		CreatedAt: s.now(),
	}
	if r.Rating == 0 {
		r.Rating = 5
	}
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Rating, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Text, validation.Required, validation.Length(1, 2000)),
	)
	if err != nil {
		return model.Review{}, err
	}

	if err := s.store.CreateReview(ctx, r); err != nil {
		return model.Review{}, fmt.Errorf("submit review: %w", err)
	}
	return r, nil
}

func (s *ShopService) ListReviews(ctx context.Context) ([]model.Review, error) {
	return s.store.ListReviews(ctx)
}
