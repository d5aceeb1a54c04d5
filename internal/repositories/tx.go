package repositories

import "gorm.io/gorm"

// Repositories bundles every repository bound to one database handle. Inside
// ExecuteInTransaction all of them share the same transaction, which is how
// a package purchase keeps its ledger writes, income logs and package
// assignment in a single unit of work.
type Repositories struct {
	Users        UserRepository
	Packages     PackageRepository
	Wallets      WalletRepository
	Incomes      IncomeRepository
	AutoPool     AutoPoolRepository
	Transactions TransactionRepository
}

// NewRepositories builds the bundle over a database handle or transaction.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        NewUserRepository(db),
		Packages:     NewPackageRepository(db),
		Wallets:      NewWalletRepository(db),
		Incomes:      NewIncomeRepository(db),
		AutoPool:     NewAutoPoolRepository(db),
		Transactions: NewTransactionRepository(db),
	}
}

// Manager hands out repository bundles and cross-repository transactions.
type Manager interface {
	Repos() Repositories
	ExecuteInTransaction(fn func(Repositories) error) error
}

type manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) Manager {
	return &manager{db: db}
}

func (m *manager) Repos() Repositories {
	return NewRepositories(m.db)
}

func (m *manager) ExecuteInTransaction(fn func(Repositories) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
