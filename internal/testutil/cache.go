package testutil

import (
	"context"
	"errors"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
)

// WalletCache is an in-memory stand-in for the Redis wallet cache. It
// stores copies so later repository writes never leak into cached reads,
// which is what makes staleness observable in tests.
type WalletCache struct {
	Entries     map[string]*models.Wallet
	Invalidated []string
}

func NewWalletCache() *WalletCache {
	return &WalletCache{Entries: make(map[string]*models.Wallet)}
}

func (c *WalletCache) GetWallet(ctx context.Context, userID uint, walletType string) (*models.Wallet, error) {
	w, ok := c.Entries[walletKey(userID, walletType)]
	if !ok {
		return nil, errors.New("cache miss")
	}
	cached := *w
	return &cached, nil
}

func (c *WalletCache) SetWallet(ctx context.Context, w *models.Wallet) error {
	cached := *w
	c.Entries[walletKey(w.UserID, w.Type)] = &cached
	return nil
}

func (c *WalletCache) InvalidateWallet(ctx context.Context, userID uint, walletType string) error {
	key := walletKey(userID, walletType)
	delete(c.Entries, key)
	c.Invalidated = append(c.Invalidated, key)
	return nil
}
