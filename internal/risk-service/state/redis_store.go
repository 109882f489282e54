package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/sportsbook-risk-engine/internal/engine/allocator"
)

// Store persiste o PortfolioState de cada book no Redis.
// Sem TTL: é ledger, não cache.
type Store struct {
	Client *redis.Client
}

// NewStore cria o store de estado de portfólio.
func NewStore(c *redis.Client) *Store { return &Store{Client: c} }

// key gera a chave Redis do estado de um book
func key(bookID string) string { return "portfolio:" + bookID }

// Load carrega o estado de um book; se não existir, devolve um estado novo
// com o bankroll inicial configurado.
func (s *Store) Load(ctx context.Context, bookID string, startingBankroll float64) (*allocator.PortfolioState, error) {
	raw, err := s.Client.Get(ctx, key(bookID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return allocator.NewPortfolioState(startingBankroll), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load portfolio %s: %w", bookID, err)
	}

	var st allocator.PortfolioState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode portfolio %s: %w", bookID, err)
	}
	return &st, nil
}

// Save grava o estado mutado de volta.
func (s *Store) Save(ctx context.Context, bookID string, st *allocator.PortfolioState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(bookID), b, 0).Err()
}
