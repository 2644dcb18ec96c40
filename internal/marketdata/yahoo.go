package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"finboard/internal/models"
	"finboard/pkg/utils"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance chart API.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	retry   utils.RetryConfig
	logger  zerolog.Logger
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(timeout time.Duration, logger zerolog.Logger) *YahooProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: yahooBaseURL,
		retry:   utils.DefaultRetryConfig(),
		logger:  logger.With().Str("provider", "yahoo").Logger(),
	}
}

// yahooChart is the response structure of the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchSeries fetches a daily OHLCV series for the given range.
func (p *YahooProvider) FetchSeries(ctx context.Context, ticker string, period Period) ([]models.Bar, error) {
	if err := models.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	rng := string(period)
	if rng == "" {
		rng = string(Period2Y)
	}
	bars, err := p.fetchChart(ctx, ticker, "1d", rng)
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// FetchQuote fetches the latest quote for a ticker. Change is computed
// against the day's open, matching the dashboard quote shape.
func (p *YahooProvider) FetchQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	if err := models.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	bars, err := p.fetchChart(ctx, ticker, "1m", "1d")
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNotFound
	}

	first, last := bars[0], bars[len(bars)-1]
	quote := &models.Quote{
		Symbol:    ticker,
		Price:     last.Close,
		Change:    last.Close - first.Open,
		Volume:    last.Volume,
		Timestamp: time.Now(),
	}
	if first.Open != 0 {
		quote.ChangePercent = (last.Close - first.Open) / first.Open * 100
	}
	return quote, nil
}

// FetchQuotes fetches quotes for multiple tickers. One ticker's failure
// does not abort the others; failed tickers are simply absent from the
// returned map.
func (p *YahooProvider) FetchQuotes(ctx context.Context, tickers []string) (map[string]*models.Quote, error) {
	quotes := make(map[string]*models.Quote, len(tickers))
	for _, ticker := range tickers {
		quote, err := p.FetchQuote(ctx, ticker)
		if err != nil {
			p.logger.Warn().Err(err).Str("symbol", ticker).Msg("Quote fetch failed")
			continue
		}
		quotes[ticker] = quote
	}
	return quotes, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, ticker, interval, rng string) ([]models.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.baseURL, url.PathEscape(ticker), interval, rng)

	body, err := utils.RetryWithResult(ctx, p.retry, func() ([]byte, error) {
		return p.get(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: decoding chart: %v", ErrNetwork, err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s", ErrNetwork, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNotFound
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNotFound
	}
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    int64(toFloat(quote.Volume[i])),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

func (p *YahooProvider) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, utils.Permanent(ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
	return body, nil
}

var _ Provider = (*YahooProvider)(nil)
