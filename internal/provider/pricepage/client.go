// Package pricepage reads an ingredient's shelf price from a shop product page.
package pricepage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const DefaultSelector = "[itemprop=price]"

var defaultBackoffs = []time.Duration{0, 500 * time.Millisecond, 1 * time.Second, 2 * time.Second}

var numberPattern = regexp.MustCompile(`\d[\d.,]*`)

type Quote struct {
	URL      string  `json:"url"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Raw      string  `json:"raw"`
}

type Client struct {
	HTTPClient *http.Client
	// Selector is a CSS selector for the price element; DefaultSelector when empty.
	Selector string
	// Backoffs are the waits before each attempt; nil uses the default schedule.
	Backoffs []time.Duration
}

// LookupPrice fetches pageURL and parses the price found by the client's
// selector. The element's content attribute is preferred over its text.
// Transient failures (network errors, 429, 5xx) are retried a bounded number of times.
func (c *Client) LookupPrice(ctx context.Context, pageURL string) (Quote, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return Quote{}, fmt.Errorf("price url is required")
	}
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return Quote{}, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return Quote{}, fmt.Errorf("parse price page: %w", err)
	}
	selector := strings.TrimSpace(c.Selector)
	if selector == "" {
		selector = DefaultSelector
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return Quote{}, fmt.Errorf("no element matches %q on %s", selector, pageURL)
	}
	raw, ok := sel.Attr("content")
	if !ok || strings.TrimSpace(raw) == "" {
		raw = sel.Text()
	}
	raw = strings.Join(strings.Fields(raw), " ")
	price, err := ParsePrice(raw)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{URL: pageURL, Price: price, Raw: raw}
	if cur := doc.Find("[itemprop=priceCurrency]").First(); cur.Length() > 0 {
		if v, ok := cur.Attr("content"); ok {
			q.Currency = strings.TrimSpace(v)
		} else {
			q.Currency = strings.TrimSpace(cur.Text())
		}
	}
	return q, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	backoffs := c.Backoffs
	if backoffs == nil {
		backoffs = defaultBackoffs
	}
	if len(backoffs) == 0 {
		backoffs = []time.Duration{0}
	}

	var lastErr error
	for i, d := range backoffs {
		if d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create price request: %w", err)
		}
		req.Header.Set("User-Agent", "grocery-cli/1.0 (+https://github.com/saadjs/grocery-cli)")
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("execute price request: %w", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("price page request failed with status %d", resp.StatusCode)
			if i < len(backoffs)-1 {
				continue
			}
			return nil, lastErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("price page request failed with status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}
	return nil, lastErr
}

// ParsePrice extracts the first number from text such as "€ 2,49" or
// "1.299,00". When both separators occur the last one is the decimal mark.
func ParsePrice(text string) (float64, error) {
	m := numberPattern.FindString(text)
	m = strings.TrimRight(m, ".,")
	if m == "" {
		return 0, fmt.Errorf("no price in %q", text)
	}
	dec := strings.LastIndexAny(m, ".,")
	if dec >= 0 {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(m[:dec])
		m = intPart + "." + m[dec+1:]
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	return v, nil
}
