package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ShoppingAssistant/internal/catalog"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// Option keys understood by the storefront loader. Selectors are relative
// to the item element.
const (
	OptItem      = "item"
	OptName      = "name"
	OptNameAR    = "name_ar"
	OptPrice     = "price"
	OptCategory  = "category"
	OptLink      = "link"
	OptImage     = "image"
	OptPageParam = "page_param"
	OptMaxPages  = "max_pages"
	OptCurrency  = "currency"
)

var defaultOptions = map[string]string{
	OptItem:      ".product",
	OptName:      ".product-name",
	OptPrice:     ".price",
	OptCategory:  ".category",
	OptLink:      "a",
	OptImage:     "img",
	OptPageParam: "page",
	OptMaxPages:  "5",
}

var priceExpr = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// StorefrontLoader scrapes product grids from paginated store listing pages.
type StorefrontLoader struct {
	client *http.Client
	logger *slog.Logger
}

var _ catalog.Loader = (*StorefrontLoader)(nil)

// NewStorefrontLoader wires an HTTP client; a nil client gets a 20s timeout.
func NewStorefrontLoader(client *http.Client, logger *slog.Logger) *StorefrontLoader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger != nil {
		logger = logger.With("component", "storefront_loader")
	}
	return &StorefrontLoader{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *StorefrontLoader) Name() string {
	return "html"
}

// Load walks listing pages until one yields no products or max_pages is hit.
func (s *StorefrontLoader) Load(ctx context.Context, req catalog.Request) ([]domain.Product, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("no listing url provided for store %s", req.Store)
	}

	opts := withDefaults(req.Options)
	maxPages, err := strconv.Atoi(opts[OptMaxPages])
	if err != nil || maxPages < 1 {
		return nil, fmt.Errorf("store %s: invalid %s %q", req.Store, OptMaxPages, opts[OptMaxPages])
	}

	var (
		results []domain.Product
		seen    = map[string]struct{}{}
	)
	for page := 1; page <= maxPages; page++ {
		pageURL, err := buildPageURL(req.Location, opts[OptPageParam], page)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", req.Store, err)
		}

		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("store %s page %d: %w", req.Store, page, err)
		}

		items := extractProducts(doc, pageURL, req.Store, opts)
		s.debug("page scraped", "store", req.Store, "page", page, "products", len(items))
		if len(items) == 0 {
			break
		}

		fresh := 0
		for _, p := range items {
			key := p.ID
			if key == "" {
				key = p.Name + "|" + p.Category
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			results = append(results, p)
			fresh++
		}
		// Stores that ignore the page parameter return the same grid forever.
		if fresh == 0 {
			break
		}
	}

	return results, nil
}

func (s *StorefrontLoader) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ShoppingAssistant/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractProducts(doc *goquery.Document, pageURL, store string, opts map[string]string) []domain.Product {
	var collected []domain.Product
	doc.Find(opts[OptItem]).Each(func(_ int, item *goquery.Selection) {
		p, ok := parseItem(item, pageURL, opts)
		if !ok {
			return
		}
		p.StoreName = store
		collected = append(collected, p)
	})
	return collected
}

func parseItem(item *goquery.Selection, pageURL string, opts map[string]string) (domain.Product, bool) {
	name := text(item, opts[OptName])
	nameAR := text(item, opts[OptNameAR])
	if name == "" && nameAR == "" {
		return domain.Product{}, false
	}

	price, ok := parsePrice(text(item, opts[OptPrice]))
	if !ok {
		if raw, exists := item.Attr("data-price"); exists {
			price, ok = parsePrice(raw)
		}
	}
	if !ok {
		return domain.Product{}, false
	}

	category, _ := item.Attr("data-category")
	if category == "" {
		category = text(item, opts[OptCategory])
	}

	link := ""
	if href, exists := item.Find(opts[OptLink]).First().Attr("href"); exists {
		link = resolve(pageURL, href)
	}
	image := ""
	if src, exists := item.Find(opts[OptImage]).First().Attr("src"); exists {
		image = resolve(pageURL, src)
	}

	id, _ := item.Attr("data-id")
	if id == "" {
		id, _ = item.Attr("data-product-id")
	}

	p := domain.Product{
		ID:         strings.TrimSpace(id),
		Name:       name,
		NameAR:     nameAR,
		Category:   category,
		Price:      price,
		Currency:   opts[OptCurrency],
		ProductURL: link,
		ImageURL:   image,
	}
	switch {
	case name != "" && !lexicon.HasArabic(name):
		p.NameEN = name
	case name != "" && nameAR == "":
		p.NameAR = name
	}
	return p, true
}

func text(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(sel.Find(selector).First().Text()), " ")
}

// parsePrice takes the first number in s; "3,50 JD" reads as 3.5.
func parsePrice(s string) (float64, bool) {
	match := priceExpr.FindString(s)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func withDefaults(options map[string]string) map[string]string {
	merged := make(map[string]string, len(defaultOptions)+len(options))
	for k, v := range defaultOptions {
		merged[k] = v
	}
	for k, v := range options {
		if strings.TrimSpace(v) != "" {
			merged[k] = v
		}
	}
	return merged
}

func buildPageURL(base, param string, page int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}
	if page == 1 {
		return parsed.String(), nil
	}

	query := parsed.Query()
	query.Set(param, strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (s *StorefrontLoader) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
