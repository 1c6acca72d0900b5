// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// EmptyMessage is shown by listings with no matching products
const EmptyMessage = "No products found"

const defaultRelatedLimit = 4

// PageRequest selects a window of a listing; Limit <= 0 returns everything
type PageRequest struct {
	Page  int
	Limit int
}

// Pagination represents pagination information
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Listing is one filtered, sorted and paginated product page
type Listing struct {
	Products   []Product  `json:"products"`
	Total      int        `json:"total"`
	Empty      bool       `json:"empty"`
	Message    string     `json:"message,omitempty"`
	Facets     Facets     `json:"facets"`
	Pagination Pagination `json:"pagination"`
}

// Highlights is the home page content
type Highlights struct {
	HeroOffers    []json.RawMessage `json:"heroOffers"`
	TrendingDeals []Product         `json:"trendingDeals"`
	Testimonials  []json.RawMessage `json:"testimonials"`
}

// Service serves read-only catalog queries over the loaded fixture
type Service struct {
	mu     sync.RWMutex
	doc    *Document
	loaded bool

	source Source
	delay  time.Duration
	logger logrus.FieldLogger
}

// NewService creates a catalog service; call Load before serving
func NewService(source Source, delay time.Duration, logger logrus.FieldLogger) *Service {
	return &Service{
		doc:    &Document{},
		source: source,
		delay:  delay,
		logger: logger,
	}
}

// NewStaticService serves an already decoded document
func NewStaticService(doc *Document, logger logrus.FieldLogger) *Service {
	if doc == nil {
		doc = &Document{}
	}
	doc.normalize()
	return &Service{doc: doc, loaded: true, logger: logger}
}

// Load fetches the fixture. On failure the service keeps serving an empty
// catalog and the error is returned for the caller to report.
func (s *Service) Load(ctx context.Context) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.install(&Document{})
			return ctx.Err()
		case <-timer.C:
		}
	}

	doc, err := Fetch(ctx, s.source)
	if err != nil {
		s.logger.WithError(err).WithField("source", s.source.String()).Error("Failed to load catalog")
		s.install(&Document{})
		return err
	}

	s.install(doc)
	s.logger.WithFields(logrus.Fields{
		"source":     s.source.String(),
		"products":   len(doc.Products),
		"brands":     len(doc.Brands),
		"categories": len(doc.Categories),
	}).Info("Catalog loaded")
	return nil
}

func (s *Service) install(doc *Document) {
	s.mu.Lock()
	s.doc = doc
	s.loaded = true
	s.mu.Unlock()
}

// Ready reports whether a load attempt has finished
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Service) document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Products returns every product in fixture order
func (s *Service) Products() []Product {
	return clone(s.document().Products)
}

// Product looks a product up by id
func (s *Service) Product(id int) (*Product, error) {
	doc := s.document()
	for i := range doc.Products {
		if doc.Products[i].ID == id {
			p := doc.Products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// Brands returns every brand
func (s *Service) Brands() []Brand {
	return clone(s.document().Brands)
}

// Brand looks a brand up by slug
func (s *Service) Brand(slug string) (*Brand, error) {
	slug = normalize(slug)
	for _, b := range s.document().Brands {
		if normalize(b.Slug) == slug {
			return &b, nil
		}
	}
	return nil, ErrBrandNotFound
}

// Categories returns every category
func (s *Service) Categories() []Category {
	return clone(s.document().Categories)
}

// Category looks a category up by slug
func (s *Service) Category(slug string) (*Category, error) {
	slug = normalize(slug)
	for _, c := range s.document().Categories {
		if normalize(c.Slug) == slug {
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// List runs a page's pipeline over the whole catalog
func (s *Service) List(page Page, criteria Criteria, req PageRequest) *Listing {
	return list(page, s.document().Products, criteria, req)
}

// BrandListing lists the products of one brand
func (s *Service) BrandListing(slug string, criteria Criteria, req PageRequest) (*Listing, error) {
	brand, err := s.Brand(slug)
	if err != nil {
		return nil, err
	}
	scoped := BrandPage.Within(s.document().Products, brand.Name, brand.Slug)
	return list(BrandPage, scoped, criteria, req), nil
}

// CategoryListing lists the products of one category
func (s *Service) CategoryListing(slug string, criteria Criteria, req PageRequest) (*Listing, error) {
	category, err := s.Category(slug)
	if err != nil {
		return nil, err
	}
	scoped := CategoryPage.Within(s.document().Products, category.Name, category.Slug)
	return list(CategoryPage, scoped, criteria, req), nil
}

func list(page Page, products []Product, criteria Criteria, req PageRequest) *Listing {
	matched := page.Run(products, criteria)

	listing := &Listing{
		Total:  len(matched),
		Empty:  len(matched) == 0,
		Facets: BuildFacets(products, page.Dimensions),
	}
	if listing.Empty {
		listing.Message = EmptyMessage
	}

	listing.Products, listing.Pagination = paginate(matched, req)
	return listing
}

func paginate(products []Product, req PageRequest) ([]Product, Pagination) {
	total := len(products)
	if req.Limit <= 0 {
		return products, Pagination{Page: 1, Limit: total, Total: total, TotalPages: 1}
	}

	page := max(req.Page, 1)
	totalPages := total / req.Limit
	if total%req.Limit != 0 {
		totalPages++
	}

	// pages past the end are empty; checked before multiplying so huge
	// page numbers cannot overflow the offset
	start := total
	if page <= totalPages {
		start = (page - 1) * req.Limit
	}
	end := start + min(req.Limit, total-start)

	return products[start:end], Pagination{
		Page:       page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Related returns products to show beside id: the fixture's related list
// first, then other products of the same category
func (s *Service) Related(id, limit int) ([]Product, error) {
	product, err := s.Product(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	doc := s.document()
	seen := map[int]struct{}{id: {}}
	out := make([]Product, 0, limit)

	add := func(p Product) {
		if len(out) >= limit {
			return
		}
		if _, dup := seen[p.ID]; dup {
			return
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	for _, p := range doc.RelatedProducts {
		add(p)
	}
	for _, p := range doc.Products {
		if strings.EqualFold(p.Category, product.Category) {
			add(p)
		}
	}
	return out, nil
}

// Reviews returns the reviews of a product
func (s *Service) Reviews(productID int) ([]Review, error) {
	if _, err := s.Product(productID); err != nil {
		return nil, err
	}
	out := []Review{}
	for _, r := range s.document().Reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Highlights returns hero offers, trending deals and testimonials
func (s *Service) Highlights() Highlights {
	doc := s.document()
	return Highlights{
		HeroOffers:    clone(doc.HeroOffers),
		TrendingDeals: clone(doc.TrendingDeals),
		Testimonials:  clone(doc.Testimonials),
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
