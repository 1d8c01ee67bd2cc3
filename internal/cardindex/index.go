package cardindex

import (
	"log"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/cardhaven/marketplace/internal/models"
)

// Service provides read access to the local card index: set-code resolution,
// card location by set+number, and name search. The cards table is read-only
// at request time; only the bulk importer writes to it.
type Service struct {
	db *gorm.DB

	mu        sync.RWMutex
	setIDs    []string          // sorted for deterministic resolution
	setNames  map[string]string // set id -> display name
	setTotals map[string]int    // set id -> printed total-count
}

func NewService(db *gorm.DB) (*Service, error) {
	s := &Service{
		db:        db,
		setNames:  make(map[string]string),
		setTotals: make(map[string]int),
	}
	if err := s.loadSetMetadata(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadSetMetadata builds the in-memory set tables from the card index.
func (s *Service) loadSetMetadata() error {
	type setRow struct {
		SetID    string
		SetName  string
		SetTotal int
	}

	var rows []setRow
	err := s.db.Model(&models.CardRecord{}).
		Select("set_id, set_name, MAX(set_total) as set_total").
		Group("set_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setIDs = s.setIDs[:0]
	for _, r := range rows {
		s.setIDs = append(s.setIDs, r.SetID)
		s.setNames[r.SetID] = r.SetName
		s.setTotals[r.SetID] = r.SetTotal
	}
	sort.Strings(s.setIDs)

	log.Printf("Card index: loaded %d sets", len(s.setIDs))
	return nil
}

// ReloadSets refreshes the in-memory set tables after a re-import.
func (s *Service) ReloadSets() error {
	return s.loadSetMetadata()
}

// SetName returns the display name for an internal set id.
func (s *Service) SetName(setID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setNames[setID]
}

// SetCount returns the number of sets in the index.
func (s *Service) SetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.setIDs)
}

// CardCount returns the number of cards in the index.
func (s *Service) CardCount() int64 {
	var n int64
	s.db.Model(&models.CardRecord{}).Count(&n)
	return n
}

// GetCard fetches a single card by its index id.
func (s *Service) GetCard(id string) (*models.CardRecord, error) {
	var card models.CardRecord
	err := s.db.Where("id = ?", id).First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// SearchByName searches the index by card name, best matches first.
func (s *Service) SearchByName(query string, limit int) (*models.CardSearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return &models.CardSearchResult{}, nil
	}

	var candidates []models.CardRecord
	err := s.db.Where("LOWER(name) LIKE ?", "%"+queryLower+"%").Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	type scoredMatch struct {
		idx   int
		score int
	}
	scored := make([]scoredMatch, 0, len(candidates))
	for i, card := range candidates {
		scored = append(scored, scoredMatch{idx: i, score: scoreNameMatch(strings.ToLower(card.Name), queryLower)})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return candidates[scored[i].idx].ID < candidates[scored[j].idx].ID
	})

	max := limit
	if len(scored) < max {
		max = len(scored)
	}
	cards := make([]models.CardRecord, 0, max)
	for i := 0; i < max; i++ {
		cards = append(cards, candidates[scored[i].idx])
	}

	return &models.CardSearchResult{
		Cards:      cards,
		TotalCount: len(scored),
		HasMore:    len(scored) > max,
	}, nil
}

// scoreNameMatch ranks how well a card name matches a query. Both arguments
// must already be lower-cased.
func scoreNameMatch(name, query string) int {
	switch {
	case name == query:
		return 1000
	case name == query+" ex" || name == query+" gx" || name == query+" v" ||
		name == query+" vmax" || name == query+" vstar":
		// Mechanic-suffix variants of the searched name
		return 900
	case strings.HasPrefix(name, query+" "):
		return 800
	case strings.HasPrefix(name, query):
		return 700
	case strings.Contains(name, " "+query):
		return 600
	default:
		return 500
	}
}
