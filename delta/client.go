// Package delta downloads historical candles from the Delta Exchange
// REST API and materializes the day-folder CSV layout the backtest
// loader consumes. The replay core never imports this package.
package delta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is Delta Exchange's public API host.
const DefaultBaseURL = "https://api.delta.exchange"

// Client is a minimal Delta Exchange history API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against baseURL, or DefaultBaseURL when
// empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 45 * time.Second,
		},
	}
}

// Candle is one OHLCV bar returned by the history endpoint.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type candleRow struct {
	Time   int64   `json:"time"` // unix seconds
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type candlesResponse struct {
	Result []candleRow `json:"result"`
}

// Candles fetches bars for symbol at the given resolution (e.g. "5m")
// over [start, end). An unknown symbol yields zero candles, not an
// error; the API answers the same way for symbols that never traded.
func (c *Client) Candles(ctx context.Context, symbol, resolution string, start, end time.Time) ([]Candle, error) {
	u, err := url.Parse(c.baseURL + "/v2/history/candles")
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("resolution", resolution)
	q.Set("symbol", symbol)
	q.Set("start", strconv.FormatInt(start.Unix(), 10))
	q.Set("end", strconv.FormatInt(end.Unix(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch candles for %s: status %d: %s", symbol, resp.StatusCode, body)
	}

	var parsed candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode candles for %s: %w", symbol, err)
	}

	candles := make([]Candle, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		candles = append(candles, Candle{
			Time:   time.Unix(r.Time, 0).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return candles, nil
}
