package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"sweetconsole/internal/shared/apiclient"
)

var ErrInvalidNumber = errors.New("price and stock must be whole numbers")

type (
	Service struct {
		client *apiclient.Client
		logger zerolog.Logger
	}

	quantityRequest struct {
		Quantity int `json:"quantity"`
	}
)

func NewService(client *apiclient.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// GetAll fetches the full catalog. A response that is not a JSON array is
// treated as an empty catalog rather than a shape error.
func (s *Service) GetAll(ctx context.Context) ([]Sweet, error) {
	raw, err := s.client.Get(ctx, "/sweets")
	if err != nil {
		return nil, opError(err, "Failed to load sweets")
	}

	sweets := []Sweet{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.logger.Warn().Msg("Sweets response is not an array, treating as empty")
		return sweets, nil
	}
	if err := json.Unmarshal(trimmed, &sweets); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to decode sweets list, treating as empty")
		return []Sweet{}, nil
	}
	return sweets, nil
}

func (s *Service) Create(ctx context.Context, draft Draft) (*Sweet, error) {
	body, err := draft.toRequest()
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Post(ctx, "/sweets", body)
	if err != nil {
		return nil, opError(err, "Failed to create sweet. Please try again.")
	}
	return decodeSweet(raw, "Failed to create sweet. Please try again.")
}

func (s *Service) Update(ctx context.Context, id ID, draft Draft) (*Sweet, error) {
	body, err := draft.toRequest()
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Put(ctx, "/sweets/"+string(id), body)
	if err != nil {
		return nil, opError(err, "Failed to update sweet. Please try again.")
	}
	return decodeSweet(raw, "Failed to update sweet. Please try again.")
}

func (s *Service) Delete(ctx context.Context, id ID) error {
	if err := s.client.Delete(ctx, "/sweets/"+string(id)); err != nil {
		return opError(err, "Failed to delete sweet. Please try again.")
	}
	return nil
}

// Restock adds quantity units to the item's stock. The server's returned
// stock is authoritative.
func (s *Service) Restock(ctx context.Context, id ID, quantity int) (*Sweet, error) {
	raw, err := s.client.Post(ctx, "/sweets/"+string(id)+"/restock", quantityRequest{Quantity: quantity})
	if err != nil {
		return nil, opError(err, "Failed to restock sweet. Please try again.")
	}
	return decodeSweet(raw, "Failed to restock sweet. Please try again.")
}

// Purchase removes quantity units from the item's stock and returns the
// item with its new authoritative stock.
func (s *Service) Purchase(ctx context.Context, id ID, quantity int) (*Sweet, error) {
	raw, err := s.client.Post(ctx, "/sweets/"+string(id)+"/purchase", quantityRequest{Quantity: quantity})
	if err != nil {
		return nil, opError(err, "Failed to purchase sweet. Please try again.")
	}
	return decodeSweet(raw, "Failed to purchase sweet. Please try again.")
}

func (d Draft) toRequest() (*sweetRequest, error) {
	price, err := strconv.Atoi(strings.TrimSpace(d.Price))
	if err != nil {
		return nil, ErrInvalidNumber
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(d.Stock))
	if err != nil {
		return nil, ErrInvalidNumber
	}
	return &sweetRequest{
		Name:     d.Name,
		Category: d.Category,
		Price:    price,
		Quantity: quantity,
		Image:    d.Image,
	}, nil
}

func decodeSweet(raw json.RawMessage, fallback string) (*Sweet, error) {
	sweet := new(Sweet)
	if err := json.Unmarshal(raw, sweet); err != nil {
		return nil, errors.New(fallback)
	}
	return sweet, nil
}

// opError prefers the server-provided message and falls back to a fixed
// per-operation string for transport failures and bodyless error responses.
func opError(err error, fallback string) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr
	}
	return errors.New(fallback)
}
