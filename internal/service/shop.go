package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/storefront-server/internal/catalog"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// HomePath is where the tab goes after a demo payment.
const HomePath = "index.html"

// Pixel reasons.
const (
	PixelAuto   = "auto"
	PixelManual = "manual"
)

// PaymentSummary is what the payment page shows.
type PaymentSummary struct {
	Product model.Product `json:"product"`
	Size    string        `json:"size"`
	Total   int           `json:"total"`
}

// Shop serves the catalog pages of a tab and records what the visitor does on them.
type Shop struct {
	catalog   *catalog.Catalog
	consent   *Consent
	jar       model.CookieJar
	navigator model.Navigator
	clock     model.Clock
	events    *EventLog
	logger    *logger.Logger
}

func NewShop(
	catalog *catalog.Catalog,
	consent *Consent,
	jar model.CookieJar,
	navigator model.Navigator,
	clock model.Clock,
	events *EventLog,
	logger *logger.Logger,
) *Shop {
	return &Shop{
		catalog:   catalog,
		consent:   consent,
		jar:       jar,
		navigator: navigator,
		clock:     clock,
		events:    events,
		logger:    logger,
	}
}

// Products lists the whole catalog.
func (s *Shop) Products() []model.Product {
	return s.catalog.All()
}

// Search filters products by name and records the query.
func (s *Shop) Search(ctx context.Context, query string) ([]model.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	results := s.catalog.Search(q)

	if err := s.events.Record(ctx, model.EventSearch, map[string]any{
		"q":       q,
		"results": len(results),
	}); err != nil {
		return nil, err
	}
	return results, nil
}

// ViewProduct records a product detail view. An empty size means the product default.
func (s *Shop) ViewProduct(ctx context.Context, id, size string) (model.Product, string, error) {
	product, ok := s.catalog.Get(id)
	if !ok {
		return model.Product{}, "", fmt.Errorf("%w: %s", model.ErrUnknownProduct, id)
	}
	if size == "" {
		size = product.DefaultSize()
	}

	if err := s.events.Record(ctx, model.EventProductView, map[string]any{
		"id":    product.ID,
		"name":  product.Name,
		"price": product.Price,
		"size":  size,
	}); err != nil {
		return model.Product{}, "", err
	}
	return product, size, nil
}

// LoadPage records a page visit: the view itself, the consent banner that
// every load shows, and the automatic tracking pixel.
func (s *Shop) LoadPage(ctx context.Context, page string) error {
	if err := s.events.Record(ctx, model.EventPageView, map[string]any{"page": page}); err != nil {
		return err
	}
	if err := s.consent.ShowBanner(ctx, page); err != nil {
		return err
	}
	_, err := s.FirePixel(ctx, page, PixelAuto)
	return err
}

// FirePixel records a simulated tracking pixel hit and returns its payload.
func (s *Shop) FirePixel(ctx context.Context, page, reason string) (map[string]any, error) {
	if reason == "" {
		reason = PixelAuto
	}

	payload := map[string]any{
		"reason":  reason,
		"page":    page,
		"consent": string(s.consent.Current(ctx)),
		"cookies": s.jar.ReadAll(),
		"ts":      s.clock.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.events.Record(ctx, model.EventPixelFired, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// PaymentSummary resolves the payment page. Missing values default to p1 in
// size M, and an unknown id falls back to the first product.
func (s *Shop) PaymentSummary(ctx context.Context, id, size string) (PaymentSummary, error) {
	summary := s.summary(id, size)

	if err := s.events.Record(ctx, model.EventPaymentPageLoaded, map[string]any{
		"id":    summary.Product.ID,
		"size":  summary.Size,
		"price": summary.Product.Price,
	}); err != nil {
		return PaymentSummary{}, err
	}
	return summary, nil
}

// SubmitPayment records the demo payment and sends the tab home.
// Nothing is charged.
func (s *Shop) SubmitPayment(ctx context.Context, id, size string) (PaymentSummary, error) {
	summary := s.summary(id, size)

	if err := s.events.Record(ctx, model.EventPaymentSubmit, map[string]any{
		"id":    summary.Product.ID,
		"size":  summary.Size,
		"price": summary.Product.Price,
	}); err != nil {
		return PaymentSummary{}, err
	}

	s.logger.Info("Shop: demo payment submitted",
		"product_id", summary.Product.ID,
		"size", summary.Size)

	s.navigator.NavigateTo(HomePath)
	return summary, nil
}

func (s *Shop) summary(id, size string) PaymentSummary {
	if id == "" {
		id = "p1"
	}
	if size == "" {
		size = "M"
	}

	product, ok := s.catalog.Get(id)
	if !ok {
		product = s.catalog.First()
	}
	return PaymentSummary{Product: product, Size: size, Total: product.Price}
}
