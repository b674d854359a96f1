package feeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"MarketSnap/internal/domain/models"
	xhttp "MarketSnap/pkg/http"
)

var errNoPrice = errors.New("no price in page")

// Scrape reads the latest price from a public web page with a CSS selector.
// It yields a price only, never history.
type Scrape struct {
	client    *xhttp.Client
	userAgent string
}

// NewScrape creates a scrape feed on client.
func NewScrape(client *xhttp.Client, userAgent string) *Scrape {
	return &Scrape{client: client, userAgent: userAgent}
}

func (s *Scrape) Kind() models.FeedKind { return models.FeedScrape }

func (s *Scrape) Resolve(ctx context.Context, inst models.ComplianceInstrument, _ int) models.ComplianceRecord {
	rec := baseRecord(inst)
	price, err := s.scrape(ctx, inst.Feed.URL, inst.Feed.Selector)
	if err != nil {
		rec.SourceNote = fmt.Sprintf("Scrape error: %v", err)
		return rec
	}
	rec.Price = models.Float(price)
	rec.SourceNote = "Scraped " + hostOf(inst.Feed.URL)
	return rec
}

func (s *Scrape) scrape(ctx context.Context, pageURL, selector string) (float64, error) {
	if pageURL == "" || selector == "" {
		return 0, errors.New("url and selector required")
	}
	body, err := s.client.Get(ctx, &xhttp.Request{
		URL:     pageURL,
		Headers: map[string]string{"User-Agent": s.userAgent, "Accept": "text/html"},
	})
	if err != nil {
		return 0, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return 0, fmt.Errorf("%w: selector %q matched nothing", errNoPrice, selector)
	}
	return ParsePrice(sel.Text())
}

// ParsePrice extracts a number from text such as "€ 68,42" or "$1,234.50".
// A lone comma followed by two digits is read as a decimal separator.
func ParsePrice(text string) (float64, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	num := b.String()
	if num == "" {
		return 0, fmt.Errorf("%w: %q", errNoPrice, text)
	}
	if strings.Count(num, ",") == 1 && !strings.Contains(num, ".") {
		if i := strings.Index(num, ","); len(num)-i-1 <= 2 {
			num = strings.Replace(num, ",", ".", 1)
		}
	}
	num = strings.ReplaceAll(num, ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNoPrice, text)
	}
	return v, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
