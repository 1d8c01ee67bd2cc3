package cardindex

import (
	"strings"

	"gorm.io/gorm"

	"github.com/cardhaven/marketplace/internal/models"
)

// NormalizeNumber strips leading zeros from a card number, preserving "0"
// when the stripped value would be empty.
func NormalizeNumber(number string) string {
	stripped := strings.TrimLeft(number, "0")
	if stripped == "" && number != "" {
		return "0"
	}
	return stripped
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FindCard locates a card by set id and in-set number. The upstream source is
// inconsistent about zero padding, so purely numeric numbers are retried
// zero-padded to 3 digits and with leading zeros stripped.
func (s *Service) FindCard(setID, number string) (*models.CardRecord, error) {
	candidates := []string{number}
	if isAllDigits(number) {
		stripped := NormalizeNumber(number)
		padded := stripped
		for len(padded) < 3 {
			padded = "0" + padded
		}
		for _, alt := range []string{padded, stripped} {
			if alt != number {
				candidates = append(candidates, alt)
			}
		}
	}

	for _, num := range candidates {
		var card models.CardRecord
		err := s.db.Where("set_id = ? AND UPPER(local_id) = UPPER(?)", setID, num).
			First(&card).Error
		if err == nil {
			return &card, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	return nil, nil
}

// FindSetsByTotal disambiguates a bare "number/total" input: it returns the
// matching card from every set that contains both a card numbered exactly
// total (proving the print run reaches that count) and a card numbered
// number. Zero results means no set qualifies; multiple results must be
// surfaced to the caller for disambiguation, never guessed.
func (s *Service) FindSetsByTotal(total, number string) ([]models.CardRecord, error) {
	var setIDs []string
	err := s.db.Model(&models.CardRecord{}).
		Distinct("set_id").
		Where("UPPER(local_id) = UPPER(?)", total).
		Pluck("set_id", &setIDs).Error
	if err != nil {
		return nil, err
	}

	var matches []models.CardRecord
	for _, setID := range setIDs {
		card, err := s.FindCard(setID, number)
		if err != nil {
			return nil, err
		}
		if card != nil {
			matches = append(matches, *card)
		}
	}
	return matches, nil
}

// FindByNumber locates cards by in-set number across all sets, used for
// prefixed-number inputs that carry no set information.
func (s *Service) FindByNumber(number string) ([]models.CardRecord, error) {
	var cards []models.CardRecord
	err := s.db.Where("UPPER(local_id) = UPPER(?)", number).Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
