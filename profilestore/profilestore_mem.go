package profilestore

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemProfileStore keeps profiles in a concurrent map. Per-key atomicity for
// Update comes from MapOf.Compute, which serializes computations for one key
// while leaving other keys fully parallel.
type MemProfileStore struct {
	data *xsync.MapOf[string, Profile]
}

var _ ProfileStore = (*MemProfileStore)(nil)

func NewMemProfileStore() *MemProfileStore {
	return &MemProfileStore{
		data: xsync.NewMapOf[string, Profile](),
	}
}

func (s *MemProfileStore) Get(ctx context.Context, userID string) (*Profile, error) {
	p, ok := s.data.Load(userID)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemProfileStore) Upsert(ctx context.Context, p *Profile) error {
	s.data.Store(p.UserID, *p)
	return nil
}

func (s *MemProfileStore) Update(ctx context.Context, userID string, mut MutateFunc) (*Profile, error) {
	var out Profile
	var mutErr error
	s.data.Compute(userID, func(old Profile, loaded bool) (Profile, bool) {
		p := old
		if !loaded {
			p = NewProfile(userID)
		}
		if err := mut(&p, loaded); err != nil {
			mutErr = err
			// keep the existing value, or don't create one
			return old, !loaded
		}
		out = p
		return p, false
	})
	if mutErr != nil {
		return nil, mutErr
	}
	return &out, nil
}
