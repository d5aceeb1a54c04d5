// Package testutil provides in-memory repository fakes for service tests.
// They mirror the storage-layer contracts closely enough to exercise the
// services without a database, including the unique-constraint behavior the
// auto-pool engine depends on.
package testutil

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
)

// UserRepo is an in-memory UserRepository backed by a flat user map.
type UserRepo struct {
	Users    map[uint]*models.User
	Packages map[uint]*models.Package
	nextID   uint
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		Users:    make(map[uint]*models.User),
		Packages: make(map[uint]*models.Package),
	}
}

// AddPackage registers a package so user preloads can resolve it.
func (r *UserRepo) AddPackage(pkg *models.Package) *models.Package {
	r.Packages[pkg.ID] = pkg
	return pkg
}

// AddUser stores a user, assigning an id when missing, and resolves its
// package reference.
func (r *UserRepo) AddUser(u *models.User) *models.User {
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	r.attachPackage(u)
	r.Users[u.ID] = u
	return u
}

func (r *UserRepo) attachPackage(u *models.User) {
	if u.PackageID != nil {
		u.Package = r.Packages[*u.PackageID]
	} else {
		u.Package = nil
	}
}

func (r *UserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.Users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	r.attachPackage(u)
	return u, nil
}

func (r *UserRepo) GetByIDForUpdate(id uint) (*models.User, error) {
	return r.GetByID(id)
}

func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *UserRepo) GetByReferralCode(code string) (*models.User, error) {
	for _, u := range r.Users {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *UserRepo) Create(user *models.User) error {
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	r.AddUser(user)
	return nil
}

func (r *UserRepo) Save(user *models.User) error {
	if _, ok := r.Users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.attachPackage(user)
	r.Users[user.ID] = user
	return nil
}

func (r *UserRepo) Delete(id uint) error {
	directs, err := r.DirectsCount(id)
	if err != nil {
		return err
	}
	if directs > 0 {
		return repositories.ErrUserHasDirects
	}
	delete(r.Users, id)
	return nil
}

func (r *UserRepo) List(filter repositories.UserListFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.Users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.PackageID != 0 && (u.PackageID == nil || *u.PackageID != filter.PackageID) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *UserRepo) IncrementTokenVersion(userID uint) error {
	u, ok := r.Users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	return nil
}

func (r *UserRepo) DirectsCount(userID uint) (int, error) {
	count := 0
	for _, u := range r.Users {
		if u.SponsorID != nil && *u.SponsorID == userID {
			count++
		}
	}
	return count, nil
}

func (r *UserRepo) DirectIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, u := range r.Users {
		if u.SponsorID != nil && *u.SponsorID == userID {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *UserRepo) QualifyingDirects(userID uint, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.Users {
		if u.SponsorID != nil && *u.SponsorID == userID && u.HasPackage() {
			r.attachPackage(u)
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserRepo) QualifyingDirectsCount(userID uint) (int, error) {
	directs, err := r.QualifyingDirects(userID, 0)
	return len(directs), err
}

func (r *UserRepo) PackageHolderIDs() ([]uint, error) {
	var ids []uint
	for _, u := range r.Users {
		if u.HasPackage() {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// PackageRepo is an in-memory PackageRepository.
type PackageRepo struct {
	users  *UserRepo
	Items  map[uint]*models.Package
	nextID uint
}

func NewPackageRepo(users *UserRepo) *PackageRepo {
	return &PackageRepo{users: users, Items: make(map[uint]*models.Package)}
}

// Add registers a package with both the package store and the user repo so
// preloads resolve.
func (r *PackageRepo) Add(pkg *models.Package) *models.Package {
	if pkg.ID == 0 {
		r.nextID++
		pkg.ID = r.nextID
	} else if pkg.ID > r.nextID {
		r.nextID = pkg.ID
	}
	r.Items[pkg.ID] = pkg
	if r.users != nil {
		r.users.AddPackage(pkg)
	}
	return pkg
}

func (r *PackageRepo) GetByID(id uint) (*models.Package, error) {
	pkg, ok := r.Items[id]
	if !ok {
		return nil, repositories.ErrPackageNotFound
	}
	return pkg, nil
}

func (r *PackageRepo) GetByLevelUnlock(level int) (*models.Package, error) {
	for _, pkg := range r.Items {
		if pkg.LevelUnlock == level {
			return pkg, nil
		}
	}
	return nil, repositories.ErrPackageNotFound
}

func (r *PackageRepo) List() ([]models.Package, error) {
	var out []models.Package
	for _, pkg := range r.Items {
		out = append(out, *pkg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LevelUnlock < out[j].LevelUnlock })
	return out, nil
}

func (r *PackageRepo) Create(pkg *models.Package) error {
	r.Add(pkg)
	return nil
}

func (r *PackageRepo) Save(pkg *models.Package) error {
	r.Items[pkg.ID] = pkg
	return nil
}

func (r *PackageRepo) Delete(id uint) error {
	holders, err := r.HoldersCount(id)
	if err != nil {
		return err
	}
	if holders > 0 {
		return repositories.ErrPackageInUse
	}
	delete(r.Items, id)
	return nil
}

func (r *PackageRepo) HoldersCount(packageID uint) (int64, error) {
	var count int64
	if r.users == nil {
		return 0, nil
	}
	for _, u := range r.users.Users {
		if u.PackageID != nil && *u.PackageID == packageID {
			count++
		}
	}
	return count, nil
}

// PoolRepo is an in-memory AutoPoolRepository. CreateCompletion enforces the
// (user, level) unique constraint the way the database does.
type PoolRepo struct {
	Levels      []models.AutoPoolLevel
	Completions map[string]*models.GroupCompletion
	Bonuses     map[uint]*models.AutoPoolBonus

	nextCompletionID uint
	nextBonusID      uint
}

func NewPoolRepo(levels ...models.AutoPoolLevel) *PoolRepo {
	return &PoolRepo{
		Levels:      levels,
		Completions: make(map[string]*models.GroupCompletion),
		Bonuses:     make(map[uint]*models.AutoPoolBonus),
	}
}

// DefaultPoolLevels is the seeded 4-star through 1024-star catalog.
func DefaultPoolLevels() []models.AutoPoolLevel {
	return []models.AutoPoolLevel{
		{ID: 1, Level: 4, Name: "4-Star", BonusAmount: 0.50, RequiredPackageTier: 1, RequiredDirects: 4, RequiredGroupSize: 4, IsActive: true, SortOrder: 1},
		{ID: 2, Level: 16, Name: "16-Star", BonusAmount: 16, RequiredPackageTier: 2, RequiredDirects: 4, RequiredGroupSize: 16, IsActive: true, SortOrder: 2},
		{ID: 3, Level: 64, Name: "64-Star", BonusAmount: 64, RequiredPackageTier: 3, RequiredDirects: 4, RequiredGroupSize: 64, IsActive: true, SortOrder: 3},
		{ID: 4, Level: 256, Name: "256-Star", BonusAmount: 256, RequiredPackageTier: 3, RequiredDirects: 4, RequiredGroupSize: 256, IsActive: true, SortOrder: 4},
		{ID: 5, Level: 1024, Name: "1024-Star", BonusAmount: 1024, RequiredPackageTier: 3, RequiredDirects: 4, RequiredGroupSize: 1024, IsActive: true, SortOrder: 5},
	}
}

func completionKey(userID uint, level int) string {
	return fmt.Sprintf("%d:%d", userID, level)
}

func (r *PoolRepo) ActiveLevels() ([]models.AutoPoolLevel, error) {
	var out []models.AutoPoolLevel
	for _, lvl := range r.Levels {
		if lvl.IsActive {
			out = append(out, lvl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *PoolRepo) GetLevel(level int) (*models.AutoPoolLevel, error) {
	for i := range r.Levels {
		if r.Levels[i].Level == level {
			return &r.Levels[i], nil
		}
	}
	return nil, repositories.ErrLevelNotFound
}

func (r *PoolRepo) GetCompletion(userID uint, level int) (*models.GroupCompletion, error) {
	gc, ok := r.Completions[completionKey(userID, level)]
	if !ok {
		return nil, repositories.ErrCompletionNotFound
	}
	return gc, nil
}

func (r *PoolRepo) CreateCompletion(gc *models.GroupCompletion) error {
	key := completionKey(gc.UserID, gc.AutoPoolLevel)
	if _, exists := r.Completions[key]; exists {
		return repositories.ErrDuplicateCompletion
	}
	r.nextCompletionID++
	gc.ID = r.nextCompletionID
	gc.CreatedAt = time.Now()
	r.Completions[key] = gc
	return nil
}

func (r *PoolRepo) SaveCompletion(gc *models.GroupCompletion) error {
	r.Completions[completionKey(gc.UserID, gc.AutoPoolLevel)] = gc
	return nil
}

func (r *PoolRepo) CompletionsByUser(userID uint) ([]models.GroupCompletion, error) {
	var out []models.GroupCompletion
	for _, gc := range r.Completions {
		if gc.UserID == userID {
			out = append(out, *gc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AutoPoolLevel < out[j].AutoPoolLevel })
	return out, nil
}

func (r *PoolRepo) CompletionsCount() (int64, error) {
	return int64(len(r.Completions)), nil
}

func (r *PoolRepo) CreateBonus(b *models.AutoPoolBonus) error {
	r.nextBonusID++
	b.ID = r.nextBonusID
	b.CreatedAt = time.Now()
	r.Bonuses[b.ID] = b
	return nil
}

func (r *PoolRepo) SaveBonus(b *models.AutoPoolBonus) error {
	r.Bonuses[b.ID] = b
	return nil
}

func (r *PoolRepo) BonusesByUser(userID uint) ([]models.AutoPoolBonus, error) {
	var out []models.AutoPoolBonus
	for _, b := range r.Bonuses {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PoolRepo) BonusTotalByStatus(status string) (float64, error) {
	var total float64
	for _, b := range r.Bonuses {
		if b.Status == status {
			total += b.Amount
		}
	}
	return total, nil
}

// IncomeRepo is an in-memory IncomeRepository.
type IncomeRepo struct {
	Records []*models.Income
	nextID  uint
}

func NewIncomeRepo() *IncomeRepo {
	return &IncomeRepo{}
}

func (r *IncomeRepo) Create(income *models.Income) error {
	r.nextID++
	income.ID = r.nextID
	income.CreatedAt = time.Now()
	r.Records = append(r.Records, income)
	return nil
}

func (r *IncomeRepo) ByUser(userID uint, limit, offset int) ([]models.Income, int64, error) {
	var out []models.Income
	for _, rec := range r.Records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *IncomeRepo) TotalByType(userID uint, incomeType string) (float64, error) {
	var total float64
	for _, rec := range r.Records {
		if rec.UserID == userID && rec.Type == incomeType {
			total += rec.Amount
		}
	}
	return total, nil
}

// WalletRepo is an in-memory WalletRepository.
type WalletRepo struct {
	Wallets      map[string]*models.Wallet
	Transactions []*models.WalletTransaction
	Withdrawals  map[uint]*models.Withdrawal

	nextWalletID     uint
	nextTxnID        uint
	nextWithdrawalID uint
}

func NewWalletRepo() *WalletRepo {
	return &WalletRepo{
		Wallets:     make(map[string]*models.Wallet),
		Withdrawals: make(map[uint]*models.Withdrawal),
	}
}

func walletKey(userID uint, walletType string) string {
	return fmt.Sprintf("%d:%s", userID, walletType)
}

func (r *WalletRepo) GetByUserAndType(userID uint, walletType string) (*models.Wallet, error) {
	w, ok := r.Wallets[walletKey(userID, walletType)]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (r *WalletRepo) GetByUserAndTypeForUpdate(userID uint, walletType string) (*models.Wallet, error) {
	return r.GetByUserAndType(userID, walletType)
}

func (r *WalletRepo) GetByUser(userID uint) ([]models.Wallet, error) {
	var out []models.Wallet
	for _, w := range r.Wallets {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *WalletRepo) Create(w *models.Wallet) error {
	r.nextWalletID++
	w.ID = r.nextWalletID
	r.Wallets[walletKey(w.UserID, w.Type)] = w
	return nil
}

func (r *WalletRepo) Save(w *models.Wallet) error {
	r.Wallets[walletKey(w.UserID, w.Type)] = w
	return nil
}

func (r *WalletRepo) CreateTransaction(txn *models.WalletTransaction) error {
	r.nextTxnID++
	txn.ID = r.nextTxnID
	txn.CreatedAt = time.Now()
	r.Transactions = append(r.Transactions, txn)
	return nil
}

func (r *WalletRepo) GetTransactionByID(id uint) (*models.WalletTransaction, error) {
	for _, txn := range r.Transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (r *WalletRepo) GetTransactionsByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var out []models.WalletTransaction
	for _, txn := range r.Transactions {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, int64(len(out)), nil
}

func (r *WalletRepo) SaveTransaction(txn *models.WalletTransaction) error {
	for i, existing := range r.Transactions {
		if existing.ID == txn.ID {
			r.Transactions[i] = txn
			return nil
		}
	}
	return repositories.ErrTransactionNotFound
}

func (r *WalletRepo) CreateWithdrawal(w *models.Withdrawal) error {
	r.nextWithdrawalID++
	w.ID = r.nextWithdrawalID
	w.CreatedAt = time.Now()
	r.Withdrawals[w.ID] = w
	return nil
}

func (r *WalletRepo) GetWithdrawalByID(id uint) (*models.Withdrawal, error) {
	w, ok := r.Withdrawals[id]
	if !ok {
		return nil, repositories.ErrWithdrawalNotFound
	}
	return w, nil
}

func (r *WalletRepo) GetWithdrawalByIDForUpdate(id uint) (*models.Withdrawal, error) {
	return r.GetWithdrawalByID(id)
}

func (r *WalletRepo) GetWithdrawalsByUser(userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	var out []models.Withdrawal
	for _, w := range r.Withdrawals {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, int64(len(out)), nil
}

func (r *WalletRepo) GetWithdrawalsByStatus(status string, limit, offset int) ([]models.Withdrawal, int64, error) {
	var out []models.Withdrawal
	for _, w := range r.Withdrawals {
		if w.Status == status {
			out = append(out, *w)
		}
	}
	return out, int64(len(out)), nil
}

func (r *WalletRepo) SaveWithdrawal(w *models.Withdrawal) error {
	r.Withdrawals[w.ID] = w
	return nil
}

func (r *WalletRepo) WithdrawalTotalSince(walletID uint, since time.Time) (float64, error) {
	var total float64
	for _, w := range r.Withdrawals {
		if w.WalletID != walletID || w.CreatedAt.Before(since) {
			continue
		}
		if w.Status == models.WithdrawalRejected || w.Status == models.WithdrawalCancelled {
			continue
		}
		total += w.Amount
	}
	return total, nil
}

func (r *WalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

// Balance reads a wallet balance directly, 0 when the wallet does not exist.
func (r *WalletRepo) Balance(userID uint, walletType string) float64 {
	w, err := r.GetByUserAndType(userID, walletType)
	if err != nil {
		return 0
	}
	return w.Balance
}

// TransactionRepo is an in-memory TransactionRepository.
type TransactionRepo struct {
	Records []*models.Transaction
	nextID  uint
}

func NewTransactionRepo() *TransactionRepo {
	return &TransactionRepo{}
}

func (r *TransactionRepo) Create(txn *models.Transaction) error {
	r.nextID++
	txn.ID = r.nextID
	txn.CreatedAt = time.Now()
	r.Records = append(r.Records, txn)
	return nil
}

func (r *TransactionRepo) GetByID(id uint) (*models.Transaction, error) {
	for _, txn := range r.Records {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, repositories.ErrPurchaseNotFound
}

func (r *TransactionRepo) ByUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, txn := range r.Records {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, int64(len(out)), nil
}

// Manager bundles the fakes behind the repositories.Manager contract. The
// transaction scope is a plain function call; rollback is not simulated.
type Manager struct {
	Bundle repositories.Repositories
}

func NewManager(users *UserRepo, packages *PackageRepo, wallets *WalletRepo, incomes *IncomeRepo, pool *PoolRepo, transactions *TransactionRepo) *Manager {
	return &Manager{Bundle: repositories.Repositories{
		Users:        users,
		Packages:     packages,
		Wallets:      wallets,
		Incomes:      incomes,
		AutoPool:     pool,
		Transactions: transactions,
	}}
}

func (m *Manager) Repos() repositories.Repositories {
	return m.Bundle
}

func (m *Manager) ExecuteInTransaction(fn func(repositories.Repositories) error) error {
	return fn(m.Bundle)
}

// World wires a full fake repository set plus helpers for building sponsor
// trees in tests.
type World struct {
	Users        *UserRepo
	Packages     *PackageRepo
	Wallets      *WalletRepo
	Incomes      *IncomeRepo
	Pool         *PoolRepo
	Transactions *TransactionRepo
	Manager      *Manager
}

func NewWorld() *World {
	users := NewUserRepo()
	packages := NewPackageRepo(users)
	wallets := NewWalletRepo()
	incomes := NewIncomeRepo()
	pool := NewPoolRepo(DefaultPoolLevels()...)
	transactions := NewTransactionRepo()
	return &World{
		Users:        users,
		Packages:     packages,
		Wallets:      wallets,
		Incomes:      incomes,
		Pool:         pool,
		Transactions: transactions,
		Manager:      NewManager(users, packages, wallets, incomes, pool, transactions),
	}
}

// SeedPackages installs the standard ten-tier catalog and returns it indexed
// by level_unlock.
func (w *World) SeedPackages() map[int]*models.Package {
	prices := []float64{20, 40, 60, 80, 100, 150, 200, 300, 500, 1000}
	byLevel := make(map[int]*models.Package, len(prices))
	for i, price := range prices {
		level := i + 1
		pkg := w.Packages.Add(&models.Package{
			Name:        fmt.Sprintf("Package-%d", level),
			Price:       price,
			LevelUnlock: level,
		})
		byLevel[level] = pkg
	}
	return byLevel
}

// NewUser creates a user under an optional sponsor with an optional package.
func (w *World) NewUser(name string, sponsorID uint, packageID uint) *models.User {
	u := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(name, " ", "."))),
		Role:  models.RoleUser,
	}
	if sponsorID != 0 {
		u.SponsorID = &sponsorID
	}
	if packageID != 0 {
		u.PackageID = &packageID
	}
	return w.Users.AddUser(u)
}

// FillDirects attaches n package-holding directs under a sponsor and returns
// them.
func (w *World) FillDirects(sponsorID uint, n int, packageID uint) []*models.User {
	out := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, w.NewUser(fmt.Sprintf("u%d-%d", sponsorID, i), sponsorID, packageID))
	}
	return out
}
