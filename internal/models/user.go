package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxDirects is the sponsor-tree fan-out cap. A user can never have more
// than four direct referrals.
const MaxDirects = 4

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'user'"`
	ReferralCode string `gorm:"uniqueIndex"`

	// Sponsor is a weak back-reference up the tree. It is assigned at
	// registration and never reassigned, so the structure is acyclic by
	// construction.
	SponsorID *uint `gorm:"index"`
	Sponsor   *User `gorm:"foreignKey:SponsorID"`

	PackageID *uint    `gorm:"index"`
	Package   *Package `gorm:"foreignKey:PackageID"`

	// Auto-pool progress.
	AutoPoolLevel         int     `gorm:"default:0"`
	GroupCompletionCount  int     `gorm:"default:0"`
	TotalAutoPoolEarnings float64 `gorm:"default:0"`
	LastGroupCompletionAt *time.Time

	TokenVersion int `gorm:"default:1"`
}

// HasPackage reports whether the user holds any package and therefore
// qualifies for income and group-size counting.
func (u *User) HasPackage() bool {
	return u.PackageID != nil && *u.PackageID >= 1
}

// PackageLevel returns the level_unlock of the user's package, or 0 when
// no package is owned.
func (u *User) PackageLevel() int {
	if u.Package == nil {
		return 0
	}
	return u.Package.LevelUnlock
}
