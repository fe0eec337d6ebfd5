package datastore

import (
	"encoding/json"
	"fmt"

	"github.com/rps-game/api/models"
)

// DefaultRankingKey is the slot the leaderboard is stored under
const DefaultRankingKey = "rps-game-ranking"

type RankingRepository interface {
	Load() ([]models.RankingEntry, error)
	Save(entries []models.RankingEntry) error
	Clear() error
}

// RankingDatabase stores the whole leaderboard as one JSON array in a slot
type RankingDatabase struct {
	slot Slot
	key  string
}

func NewRankingDatabase(slot Slot, key string) (RankingDatabase, error) {
	if slot == nil {
		return RankingDatabase{}, fmt.Errorf("slot is required")
	}
	if key == "" {
		key = DefaultRankingKey
	}
	return RankingDatabase{slot: slot, key: key}, nil
}

// Load returns the stored entries. An empty slot yields no entries and no
// error; a blob that is not a JSON array of entries is an error.
func (rdb RankingDatabase) Load() ([]models.RankingEntry, error) {
	raw, err := rdb.slot.Get(rdb.key)
	if IsNoRows(err) {
		return []models.RankingEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.RankingEntry{}, nil
	}

	var entries []models.RankingEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rankings: %w", err)
	}
	if entries == nil {
		entries = []models.RankingEntry{}
	}
	return entries, nil
}

func (rdb RankingDatabase) Save(entries []models.RankingEntry) error {
	if entries == nil {
		entries = []models.RankingEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode rankings: %w", err)
	}
	return rdb.slot.Set(rdb.key, raw)
}

func (rdb RankingDatabase) Clear() error {
	return rdb.slot.Remove(rdb.key)
}
