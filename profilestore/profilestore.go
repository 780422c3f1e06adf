// Package profilestore persists per-user leveling profiles. The leveling
// engine is the sole writer; everything it does goes through Update, which
// is atomic per user id (no lost increments under concurrent messages from
// the same user, no cross-user serialization).
package profilestore

import (
	"context"
)

// XP-per-level divisor. A profile's Level is derived from XP but stored,
// and only ever moves up: Level == max(1, XP/XPPerLevel) after every commit.
const XPPerLevel = 100

type Profile struct {
	UserID string `gorm:"primaryKey;column:user_id"`
	XP     int64  `gorm:"column:xp;not null;default:0"`
	Level  int64  `gorm:"column:level;not null;default:1"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

// NewProfile is the state of a user on first contact: no xp yet, level 1.
func NewProfile(userID string) Profile {
	return Profile{UserID: userID, XP: 0, Level: 1}
}

// MutateFunc inspects and mutates one profile under the store's per-key
// atomicity guarantee. found reports whether the profile existed; when
// false, p is NewProfile(userID). The mutated p is committed unless an
// error is returned, in which case nothing is written.
type MutateFunc func(p *Profile, found bool) error

type ProfileStore interface {
	// Get returns nil (no error) when the user has no profile.
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	// Update runs mut as an atomic read-modify-write for userID and
	// returns the committed profile.
	Update(ctx context.Context, userID string, mut MutateFunc) (*Profile, error)
}
