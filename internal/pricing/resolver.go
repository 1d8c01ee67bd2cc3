package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardhaven/marketplace/internal/models"
)

const productMemoSize = 1024

// ProductResolver resolves a (external set id, card number) pair to catalogue
// product identities, preferring the persistent product cache over the
// catalogue search API. A bounded LRU memoizes recent cache hits.
type ProductResolver struct {
	db      *gorm.DB
	catalog *CatalogClient
	memo    *lru.Cache[string, []models.CatalogProduct]
}

func NewProductResolver(db *gorm.DB, catalog *CatalogClient) *ProductResolver {
	memo, err := lru.New[string, []models.CatalogProduct](productMemoSize)
	if err != nil {
		log.Printf("Catalog: failed to create product memo: %v", err)
	}
	return &ProductResolver{
		db:      db,
		catalog: catalog,
		memo:    memo,
	}
}

// ResolveProducts finds product identities for a card. Steps: persistent
// cache (exact then prefix number match, raw rows only), then the catalogue
// search API with increasingly relaxed parameters, persisting everything the
// API returns. An empty result means "no pricing available", not an error.
func (r *ProductResolver) ResolveProducts(ctx context.Context, externalSetID, internalSetID, number, cardName string, includeGraded bool) ([]models.CatalogProduct, error) {
	memoKey := fmt.Sprintf("%s|%s|%t", externalSetID, number, includeGraded)
	if r.memo != nil {
		if products, ok := r.memo.Get(memoKey); ok {
			return products, nil
		}
	}

	cached, err := r.lookupCached(externalSetID, number, includeGraded)
	if err != nil {
		log.Printf("Catalog: product cache lookup failed: %v", err)
	}
	if len(cached) > 0 {
		if r.memo != nil {
			r.memo.Add(memoKey, cached)
		}
		return cached, nil
	}

	results, err := r.searchWithFallbacks(ctx, externalSetID, internalSetID, cardName, includeGraded)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	// Persist every returned row, matches and non-matches alike: it builds a
	// durable index over time and amortizes future lookups for the set.
	r.persistResults(externalSetID, results)

	matched := matchCandidates(results, number, includeGraded)
	products := make([]models.CatalogProduct, 0, len(matched))
	for _, c := range matched {
		products = append(products, toCatalogProduct(externalSetID, c))
	}
	if len(products) > 0 && r.memo != nil {
		r.memo.Add(memoKey, products)
	}
	return products, nil
}

// numberForms lists the spellings a card number may be stored under. The
// catalogue is inconsistent about zero padding, so purely numeric numbers are
// also tried stripped and zero-padded to 3 digits.
func numberForms(number string) []string {
	forms := []string{number}
	for _, c := range number {
		if c < '0' || c > '9' {
			return forms
		}
	}
	if number == "" {
		return forms
	}

	stripped := stripZeros(number)
	if stripped != number {
		forms = append(forms, stripped)
	}
	padded := stripped
	for len(padded) < 3 {
		padded = "0" + padded
	}
	if padded != number && padded != stripped {
		forms = append(forms, padded)
	}
	return forms
}

// lookupCached queries the persistent product cache, preferring an exact
// number match and falling back to a prefix match (a stored "089/123" matches
// a requested "89"). Raw variants are deduplicated to one per material;
// graded rows are included only when requested.
func (r *ProductResolver) lookupCached(externalSetID, number string, includeGraded bool) ([]models.CatalogProduct, error) {
	for _, form := range numberForms(number) {
		q := r.db.Where("external_set_id = ? AND (card_number = ? OR card_number LIKE ?)",
			externalSetID, form, form+"/%")
		if !includeGraded {
			q = q.Where("graded = ?", false)
		}

		var rows []models.CatalogProduct
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return dedupeProducts(rows), nil
		}
	}
	return nil, nil
}

// dedupeProducts keeps one raw product per distinct material, raws first,
// then every graded row. The first element becomes the headline variant, so
// a raw product must lead.
func dedupeProducts(rows []models.CatalogProduct) []models.CatalogProduct {
	seen := make(map[string]bool)
	out := make([]models.CatalogProduct, 0, len(rows))
	for _, row := range rows {
		if row.Graded || seen[row.Material] {
			continue
		}
		seen[row.Material] = true
		out = append(out, row)
	}
	for _, row := range rows {
		if row.Graded {
			out = append(out, row)
		}
	}
	return out
}

// searchWithFallbacks tries the catalogue search with an ordered list of
// increasingly relaxed set scopes, stopping at the first attempt returning
// any results. A quota breach aborts the chain; other failures fall through
// to the next tier.
func (r *ProductResolver) searchWithFallbacks(ctx context.Context, externalSetID, internalSetID, cardName string, includeGraded bool) ([]CatalogCard, error) {
	setIDs := []string{externalSetID}
	if internalSetID != "" && internalSetID != externalSetID {
		setIDs = append(setIDs, internalSetID)
	}
	setIDs = append(setIDs, "") // unscoped, last resort

	var lastErr error
	for _, setID := range setIDs {
		results, err := r.catalog.Search(ctx, setID, cardName, includeGraded)
		if err != nil {
			var qe *QuotaError
			if errors.As(err, &qe) {
				return nil, err
			}
			log.Printf("Catalog: search failed (set=%q): %v", setID, err)
			lastErr = err
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// matchCandidates filters search results to those whose number matches the
// request (leading zeros stripped, any "/total" suffix ignored). One or more
// raw matches win, one per material, with graded matches appended when
// requested; with no number match, a sole candidate of any kind is accepted;
// multiple candidates with no number match stay unresolved rather than
// guessed.
func matchCandidates(results []CatalogCard, number string, includeGraded bool) []CatalogCard {
	want := normalizeCatalogNumber(number)

	var rawMatches, gradedMatches []CatalogCard
	for _, c := range results {
		if normalizeCatalogNumber(c.CardNumber) != want {
			continue
		}
		if c.Graded {
			gradedMatches = append(gradedMatches, c)
		} else {
			rawMatches = append(rawMatches, c)
		}
	}

	if len(rawMatches) > 0 {
		seen := make(map[string]bool)
		out := make([]CatalogCard, 0, len(rawMatches))
		for _, c := range rawMatches {
			if seen[c.Material] {
				continue
			}
			seen[c.Material] = true
			out = append(out, c)
		}
		if includeGraded {
			out = append(out, gradedMatches...)
		}
		return out
	}

	if len(results) == 1 {
		return results
	}
	return nil
}

// normalizeCatalogNumber strips a "/total" suffix and leading zeros for
// number comparison.
func normalizeCatalogNumber(number string) string {
	if idx := strings.IndexByte(number, '/'); idx >= 0 {
		number = number[:idx]
	}
	number = strings.TrimSpace(number)
	stripped := strings.TrimLeft(strings.ToUpper(number), "0")
	if stripped == "" && number != "" {
		return "0"
	}
	return stripped
}

func toCatalogProduct(externalSetID string, c CatalogCard) models.CatalogProduct {
	return models.CatalogProduct{
		ExternalSetID:  externalSetID,
		CardNumber:     c.CardNumber,
		ProductID:      c.ProductID,
		Material:       c.Material,
		Graded:         c.Graded,
		GradingCompany: c.GradingCompany,
		Grade:          c.Grade,
		CardName:       c.Name,
		LastFetched:    time.Now(),
	}
}

// persistResults upserts every returned catalogue row. Failures are logged
// and never abort the pricing response.
func (r *ProductResolver) persistResults(externalSetID string, results []CatalogCard) {
	rows := make([]models.CatalogProduct, 0, len(results))
	for _, c := range results {
		if c.ProductID == "" {
			continue
		}
		rows = append(rows, toCatalogProduct(externalSetID, c))
	}
	if len(rows) == 0 {
		return
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "external_set_id"}, {Name: "card_number"}, {Name: "product_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"material", "graded", "grading_company", "grade", "card_name",
			"last_fetched", "updated_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		log.Printf("Catalog: failed to persist %d product rows for set %s: %v",
			len(rows), externalSetID, err)
	}
}
