package jornada

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

const (
	SessionKeyPrefix = "session:"
	DateIndex        = "date"
	LastEventAtKey   = "last_event_at"
)

// BuntRepository keeps each session as a JSON document under
// "session:<id>" with a secondary index on its date.
type BuntRepository struct {
	db *buntdb.DB
}

func NewBuntRepository(db *buntdb.DB) (*BuntRepository, error) {
	err := db.CreateIndex(DateIndex, SessionKeyPrefix+"*", buntdb.IndexJSON("date"))
	if err != nil && !errors.Is(err, buntdb.ErrIndexExists) {
		return nil, fmt.Errorf("creating date index: %w", err)
	}
	return &BuntRepository{db: db}, nil
}

func (r *BuntRepository) Create(ctx context.Context, s WorkSession) (WorkSession, error) {
	s.ID = uuid.NewString()
	err := r.db.Update(func(tx *buntdb.Tx) error {
		bs, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(SessionKeyPrefix+s.ID, string(bs), nil)
		return err
	})
	if err != nil {
		return WorkSession{}, fmt.Errorf("creating work session: %w", err)
	}
	return s, nil
}

func (r *BuntRepository) Update(ctx context.Context, id string, u SessionUpdate) (WorkSession, error) {
	var updated WorkSession
	err := r.db.Update(func(tx *buntdb.Tx) error {
		v, err := tx.Get(SessionKeyPrefix + id)
		if errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("work session %s: %w", id, ErrNotFound)
		} else if err != nil {
			return err
		}
		var s WorkSession
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			return err
		}
		if !s.IsActive {
			return fmt.Errorf("work session %s: %w", id, ErrSessionClosed)
		}
		updated = u.apply(s)
		bs, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(SessionKeyPrefix+id, string(bs), nil)
		return err
	})
	if err != nil {
		return WorkSession{}, fmt.Errorf("updating work session: %w", err)
	}
	return updated, nil
}

func (r *BuntRepository) Filter(ctx context.Context, f Filter) ([]WorkSession, error) {
	var ss []WorkSession
	var decodeErr error
	err := r.db.View(func(tx *buntdb.Tx) error {
		iter := func(key, value string) bool {
			var s WorkSession
			if err := json.Unmarshal([]byte(value), &s); err != nil {
				decodeErr = fmt.Errorf("decoding %s: %w", key, err)
				return false
			}
			if !f.To.IsZero() && s.Date > f.To {
				return false
			}
			if f.match(s) {
				ss = append(ss, s)
			}
			return true
		}
		if f.From.IsZero() {
			return tx.Ascend(DateIndex, iter)
		}
		return tx.AscendGreaterOrEqual(DateIndex, fmt.Sprintf(`{"date":%q}`, f.From), iter)
	})
	if err == nil {
		err = decodeErr
	}
	if err != nil {
		return nil, fmt.Errorf("filtering work sessions: %w", err)
	}
	return f.arrange(ss), nil
}

func (r *BuntRepository) SaveLastEventAt(ctx context.Context, t time.Time) error {
	return r.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(LastEventAtKey, t.Format(time.RFC3339Nano), nil)
		return err
	})
}

func (r *BuntRepository) LastEventAt(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := r.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(LastEventAtKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		t, err = time.Parse(time.RFC3339Nano, v)
		return err
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("reading last event time: %w", err)
	}
	return t.Local(), nil
}
