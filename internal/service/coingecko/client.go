package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client talks to the CoinGecko public API. It returns upstream errors as-is.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithRateLimiter(cfg.RPS, cfg.Burst),
			xhttp.WithUserAgent("trading-analyser/1.0"),
		),
	}
}

// ListMarkets returns the top coins by market cap with 7d sparklines.
func (c *Client) ListMarkets(ctx context.Context, limit int) ([]models.CryptoCurrency, error) {
	var out []models.CryptoCurrency
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/coins/markets",
		QueryParams: map[string][]string{
			"vs_currency":             {"usd"},
			"order":                   {"market_cap_desc"},
			"per_page":                {strconv.Itoa(limit)},
			"page":                    {"1"},
			"sparkline":               {"true"},
			"price_change_percentage": {"24h,7d"},
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("coingecko markets: empty response")
	}
	return out, nil
}

// HistoricalSeries returns [timestamp_ms, price] points for the last days.
func (c *Client) HistoricalSeries(ctx context.Context, id string, days int, interval string) (*models.HistoricalData, error) {
	var out models.HistoricalData
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/coins/" + url.PathEscape(id) + "/market_chart",
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"days":        {strconv.Itoa(days)},
			"interval":    {interval},
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("coingecko history %s: %w", id, err)
	}
	if len(out.Prices) == 0 {
		return nil, fmt.Errorf("coingecko history %s: empty series", id)
	}
	return &out, nil
}

// Details returns the market data block for one coin.
func (c *Client) Details(ctx context.Context, id string) (*models.CryptoDetail, error) {
	var out models.CryptoDetail
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/coins/" + url.PathEscape(id),
		QueryParams: map[string][]string{
			"localization":   {"false"},
			"tickers":        {"false"},
			"market_data":    {"true"},
			"community_data": {"false"},
			"developer_data": {"false"},
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("coingecko details %s: %w", id, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("coingecko details %s: empty payload", id)
	}
	return &out, nil
}
