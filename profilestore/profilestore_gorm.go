package profilestore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProfileStore persists profiles in a SQL database. Update runs inside
// a transaction; with the sqlite backend the single-writer model serializes
// the read-modify-write, which is the per-key guarantee the leveling engine
// needs.
type GormProfileStore struct {
	db *gorm.DB
}

var _ ProfileStore = (*GormProfileStore)(nil)

func NewGormProfileStore(db *gorm.DB) (*GormProfileStore, error) {
	if err := db.AutoMigrate(&Profile{}); err != nil {
		return nil, fmt.Errorf("migrating user_profiles: %w", err)
	}
	return &GormProfileStore{db: db}, nil
}

func (s *GormProfileStore) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormProfileStore) Upsert(ctx context.Context, p *Profile) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"xp", "level"}),
	}).Create(p).Error
}

func (s *GormProfileStore) Update(ctx context.Context, userID string, mut MutateFunc) (*Profile, error) {
	var out Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Profile
		found := true
		err := tx.First(&p, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			p = NewProfile(userID)
		} else if err != nil {
			return err
		}
		if err := mut(&p, found); err != nil {
			return err
		}
		if found {
			if err := tx.Model(&Profile{}).Where("user_id = ?", userID).
				Updates(map[string]any{"xp": p.XP, "level": p.Level}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
