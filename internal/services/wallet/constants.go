package wallet

import "github.com/srigunasankarkatta/mlm-backend/internal/models"

// Default withdrawal policy applied when a wallet is provisioned.
const (
	DefaultMinWithdrawal = 10.00
	DefaultMaxWithdrawal = 5000.00
	DefaultDailyLimit    = 500.00
	DefaultMonthlyLimit  = 5000.00

	BonusMinWithdrawal = 50.00
)

// DefaultSettings returns the withdrawal policy for a wallet type. Reward
// and holding wallets are never withdrawable; the bonus wallet carries a
// higher minimum.
func DefaultSettings(walletType string) models.WalletSettings {
	settings := models.WalletSettings{
		WithdrawalEnabled: true,
		MinWithdrawal:     DefaultMinWithdrawal,
		MaxWithdrawal:     DefaultMaxWithdrawal,
		DailyLimit:        DefaultDailyLimit,
		MonthlyLimit:      DefaultMonthlyLimit,
	}

	switch walletType {
	case models.WalletTypeBonus:
		settings.MinWithdrawal = BonusMinWithdrawal
	case models.WalletTypeReward, models.WalletTypeHolding:
		settings.WithdrawalEnabled = false
	}

	return settings
}

func validWalletType(walletType string) bool {
	for _, t := range models.WalletTypes {
		if t == walletType {
			return true
		}
	}
	return false
}
