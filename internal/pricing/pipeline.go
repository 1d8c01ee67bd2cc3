package pricing

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cardhaven/marketplace/internal/cardindex"
	"github.com/cardhaven/marketplace/internal/metrics"
	"github.com/cardhaven/marketplace/internal/models"
)

// Options parameterizes a pipeline lookup by caller context.
type Options struct {
	// IncludeGraded also resolves and prices graded (slab) product variants.
	IncludeGraded bool
	// Recommend attaches a buy recommendation to priced results.
	Recommend bool
}

// LookupResult is the outcome of one pipeline run. Exactly one of Card or
// Candidates is populated on a successful identity resolution; both empty
// means nothing matched. Pricing is nil whenever no pricing is available,
// which is not an error: identity resolution is the higher-value half of the
// response and always survives pricing failures.
type LookupResult struct {
	Input          ParsedInput             `json:"-"`
	Card           *models.CardRecord      `json:"card,omitempty"`
	Candidates     []models.CardRecord     `json:"candidates,omitempty"`
	Pricing        *models.PricingSnapshot `json:"pricing,omitempty"`
	Recommendation *models.Recommendation  `json:"recommendation,omitempty"`
}

// Pipeline is the single card-identity resolution and pricing path shared by
// every route: public price check, seller submission, vendor buy and vendor
// sell all call it with different Options.
type Pipeline struct {
	index    *cardindex.Service
	resolver *ProductResolver
	market   *MarketDataClient
	history  *HistoryRecorder
	quota    *QuotaGuard
}

func NewPipeline(index *cardindex.Service, resolver *ProductResolver, market *MarketDataClient, history *HistoryRecorder, quota *QuotaGuard) *Pipeline {
	return &Pipeline{
		index:    index,
		resolver: resolver,
		market:   market,
		history:  history,
		quota:    quota,
	}
}

// Lookup resolves a free-text input to a card identity and, where possible,
// pricing. Ambiguous inputs return Candidates for the caller to surface;
// the pipeline never guesses between multiple matches.
func (p *Pipeline) Lookup(ctx context.Context, input string, opts Options) (*LookupResult, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	parsed := ParseInput(input)
	result := &LookupResult{Input: parsed}

	cards, err := p.resolveIdentity(parsed)
	if err != nil {
		return nil, err
	}

	switch len(cards) {
	case 0:
		metrics.LookupsTotal.WithLabelValues(parsed.Kind.String(), "not_found").Inc()
		return result, nil
	case 1:
		result.Card = &cards[0]
	default:
		metrics.LookupsTotal.WithLabelValues(parsed.Kind.String(), "ambiguous").Inc()
		result.Candidates = cards
		return result, nil
	}
	metrics.LookupsTotal.WithLabelValues(parsed.Kind.String(), "resolved").Inc()

	if err := p.attachPricing(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveIdentity maps a parsed input to candidate card records.
func (p *Pipeline) resolveIdentity(parsed ParsedInput) ([]models.CardRecord, error) {
	switch parsed.Kind {
	case InputSetAndNumber:
		setID, ok := p.index.ResolveSetCode(parsed.SetCode)
		if !ok {
			// The grammar is ambiguous for single-letter-group inputs:
			// reinterpret the unknown set code as a card-number prefix.
			return p.index.FindByNumber(parsed.SetCode + parsed.Number)
		}
		card, err := p.index.FindCard(setID, parsed.Number)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, nil
		}
		return []models.CardRecord{*card}, nil

	case InputBareNumber:
		return p.index.FindSetsByTotal(parsed.Total, parsed.Number)

	case InputPrefixedNumber:
		if parsed.Total != "" {
			return p.index.FindSetsByTotal(parsed.Total, parsed.Number)
		}
		return p.index.FindByNumber(parsed.Number)

	default: // name search
		res, err := p.index.SearchByName(parsed.Query, 10)
		if err != nil {
			return nil, err
		}
		return res.Cards, nil
	}
}

// attachPricing runs the pricing half of the pipeline for a resolved card.
// Quota breaches propagate; any other pricing failure degrades to a nil
// Pricing with the identity intact.
func (p *Pipeline) attachPricing(ctx context.Context, result *LookupResult, opts Options) error {
	card := result.Card

	snapshot, err := p.GetCardPricing(ctx, card.SetID, card.LocalID, card.Name, opts)
	if err != nil {
		var qe *QuotaError
		if errors.As(err, &qe) {
			return err
		}
		log.Printf("Pricing: lookup failed for %s %s: %v", card.SetID, card.LocalID, err)
		return nil
	}
	result.Pricing = snapshot

	if opts.Recommend {
		rec := Recommend(snapshot)
		result.Recommendation = &rec
	}
	return nil
}

// GetCardPricing resolves catalogue products for a card and fetches
// normalized market data for them. Returns nil (with nil error) when no
// pricing is available at any fallback tier.
func (p *Pipeline) GetCardPricing(ctx context.Context, setID, number, name string, opts Options) (*models.PricingSnapshot, error) {
	externalSetID := ToExternalSetID(setID)

	products, err := p.resolver.ResolveProducts(ctx, externalSetID, setID, number, name, opts.IncludeGraded)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	productIDs := make([]string, 0, len(products))
	for _, prod := range products {
		productIDs = append(productIDs, prod.ProductID)
	}

	records, err := p.market.FetchBatch(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	variants := make([]models.VariantPricing, 0, len(products))
	for _, prod := range products {
		recs, ok := records[prod.ProductID]
		if !ok {
			continue
		}
		variants = append(variants, NormalizeVariant(prod.ProductID, prod.Material, recs))
	}
	if len(variants) == 0 {
		return nil, nil
	}

	snapshot := &models.PricingSnapshot{
		VariantPricing: variants[0],
		Variants:       variants[1:],
	}

	if err := p.history.RecordSnapshot(setID, number, name, snapshot); err != nil {
		log.Printf("Pricing: failed to record history for %s %s: %v", setID, number, err)
	}

	return snapshot, nil
}

// QuotaStatus reports the shared daily budget, for the status endpoint and
// the monitor.
type QuotaStatus struct {
	DailyLimit int       `json:"daily_limit"`
	Remaining  int       `json:"remaining"`
	ResetsAt   time.Time `json:"resets_at"`
}

func (p *Pipeline) QuotaStatus() QuotaStatus {
	return QuotaStatus{
		DailyLimit: p.quota.DailyLimit(),
		Remaining:  p.quota.Remaining(),
		ResetsAt:   p.quota.ResetTime(),
	}
}

// History exposes the recorder to route handlers.
func (p *Pipeline) History() *HistoryRecorder {
	return p.history
}
