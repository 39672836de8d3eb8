// Package kma is the client for the KMA VilageFcstInfoService, the primary
// weather source. It owns the provider's base-time and stepback retry
// semantics and normalizes its category/value payloads into canonical
// records.
package kma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ondolab/ondo/internal/geo"
	"github.com/ondolab/ondo/internal/provider/resilience"
	"github.com/ondolab/ondo/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "kma"

	// DefaultBaseURL is the VilageFcstInfoService base URL.
	DefaultBaseURL = "http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0"

	currentTimeout  = 8 * time.Second
	forecastTimeout = 10 * time.Second
	maxAttempts     = 3
)

// Provider API endpoints.
const (
	endpointNowcast       = "getUltraSrtNcst"
	endpointForecast      = "getVilageFcst"
	endpointUltraForecast = "getUltraSrtFcst"
)

// Client errors.
var (
	// ErrTimeout aborts the whole fetch; the orchestrator may still fall
	// back to another source.
	ErrTimeout = errors.New("kma: request timed out")

	// ErrEmptyResult means the provider had no data for the base time.
	ErrEmptyResult = errors.New("kma: empty result")

	// ErrProvider wraps a structured provider error code.
	ErrProvider = errors.New("kma: provider error")
)

// ClientConfig holds configuration for the KMA client.
type ClientConfig struct {
	// ServiceKey is the data.go.kr service key (required).
	ServiceKey string

	// BaseURL overrides the API base URL, used by tests.
	BaseURL string

	// HTTPClient is the transport. If nil, a circuit-breaker client with
	// defaults is used.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger

	// Now overrides the clock, used by tests. Defaults to time.Now.
	Now func() time.Time
}

// Client is a KMA VilageFcstInfoService client.
type Client struct {
	serviceKey string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new KMA client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		serviceKey: cfg.ServiceKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
		now:        now,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchCurrent fetches the nearest published nowcast observation for the
// grid cell. EmptyResult and provider errors step the base time back by one
// publication interval and retry; a timeout aborts the operation.
func (c *Client) FetchCurrent(ctx context.Context, cell geo.Cell, lat, lon float64) (*weather.Record, error) {
	base := nowcastBase(c.now())

	var rec *weather.Record
	err := resilience.Retry(ctx, resilience.RetryPolicy{
		MaxAttempts:    maxAttempts,
		AttemptTimeout: currentTimeout,
	}, func(ctx context.Context, attempt int) error {
		bt := base.StepBack(time.Duration(attempt) * nowcastStep)

		items, err := c.fetchItems(ctx, endpointNowcast, cell, bt, 60)
		if err != nil {
			c.logger.Debug().
				Str("base_date", bt.Date()).
				Str("base_time", bt.Time()).
				Int("attempt", attempt).
				Err(err).
				Msg("nowcast attempt failed")
			return classify(err)
		}

		rec = c.toRecord(items, bt, lat, lon)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FetchForecast fetches the short-range forecast and samples it onto the
// fixed three-hour interval. When the short-range endpoint yields no usable
// slots after all stepped-back attempts, the higher-frequency ultra-short
// endpoint is resampled onto the same grid before giving up.
func (c *Client) FetchForecast(ctx context.Context, cell geo.Cell, lat, lon float64) ([]weather.ForecastSlot, error) {
	now := c.now()
	base := forecastBase(now)

	var slots []weather.ForecastSlot
	err := resilience.Retry(ctx, resilience.RetryPolicy{
		MaxAttempts:    maxAttempts,
		AttemptTimeout: forecastTimeout,
	}, func(ctx context.Context, attempt int) error {
		bt := base.StepBack(time.Duration(attempt) * forecastStep)

		items, err := c.fetchItems(ctx, endpointForecast, cell, bt, 1000)
		if err != nil {
			c.logger.Debug().
				Str("base_date", bt.Date()).
				Str("base_time", bt.Time()).
				Int("attempt", attempt).
				Err(err).
				Msg("forecast attempt failed")
			return classify(err)
		}

		slots = c.toForecast(items, now)
		if len(slots) == 0 {
			return fmt.Errorf("%w: no usable forecast slots", ErrEmptyResult)
		}
		return nil
	})
	if err == nil {
		return slots, nil
	}
	if errors.Is(err, ErrTimeout) {
		return nil, err
	}

	c.logger.Warn().Err(err).Msg("short-range forecast exhausted, trying ultra-short endpoint")

	ultra, uerr := c.fetchUltraForecast(ctx, cell, now)
	if uerr != nil || len(ultra) == 0 {
		return nil, err
	}
	return ultra, nil
}

// fetchUltraForecast queries the hourly ultra-short forecast and resamples
// it onto the three-hour grid by nearest-timestamp matching.
func (c *Client) fetchUltraForecast(ctx context.Context, cell geo.Cell, now time.Time) ([]weather.ForecastSlot, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, forecastTimeout)
	defer cancel()

	items, err := c.fetchItems(attemptCtx, endpointUltraForecast, cell, nowcastBase(now), 1000)
	if err != nil {
		return nil, classify(err)
	}

	hourly := c.groupForecastItems(items, now, time.Hour)
	return resample(hourly, now), nil
}

// fetchItems issues one provider request and returns its item list.
func (c *Client) fetchItems(ctx context.Context, endpoint string, cell geo.Cell, bt BaseTime, rows int) ([]apiItem, error) {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("dataType", "JSON")
	q.Set("numOfRows", strconv.Itoa(rows))
	q.Set("pageNo", "1")
	q.Set("base_date", bt.Date())
	q.Set("base_time", bt.Time())
	q.Set("nx", strconv.Itoa(cell.X))
	q.Set("ny", strconv.Itoa(cell.Y))

	reqURL := c.baseURL + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrProvider, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrProvider, err)
	}

	header := payload.Response.Header
	switch header.ResultCode {
	case resultOK:
		// fall through
	case resultNoData:
		return nil, fmt.Errorf("%w: %s", ErrEmptyResult, header.ResultMsg)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrProvider, header.ResultMsg, header.ResultCode)
	}

	items := payload.Response.Body.Items.Item
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrEmptyResult)
	}
	return items, nil
}

// toRecord normalizes nowcast category/value pairs into the canonical
// record. Unknown categories are ignored; missing categories yield nil/zero
// fields, never an error.
func (c *Client) toRecord(items []apiItem, bt BaseTime, lat, lon float64) *weather.Record {
	values := make(map[string]float64, len(items))
	for _, it := range items {
		if v, err := strconv.ParseFloat(it.ObsrValue, 64); err == nil {
			values[it.Category] = v
		}
	}

	rec := &weather.Record{
		Timestamp: bt.t,
		Location:  weather.Location{Lat: lat, Lon: lon},
		Source:    weather.SourcePrimary,
	}

	if t, ok := values[categoryTemp]; ok {
		rec.Temperature = weather.Float(weather.RoundTemp(t))
		// The nowcast carries no distinct feels-like value.
		rec.FeelsLike = weather.Float(weather.RoundTemp(t))
	}
	rec.Humidity = values[categoryHumidity]
	rec.WindSpeed = values[categoryWindSpeed]
	rec.WindDirection = values[categoryWindDir]
	rec.Precipitation = values[categoryRain1h]

	pty := int(values[categoryPrecipType])
	sky := int(values[categorySky])
	if _, ok := values[categorySky]; !ok && pty == 0 {
		// The nowcast omits the sky category; no precipitation reads as clear.
		sky = 1
	}
	rec.Condition = weather.ConditionFromKMA(sky, pty)
	rec.Description = weather.DescriptionOrCondition("", rec.Condition)
	rec.Icon = weather.IconFor(bt.t.Hour(), rec.Condition, weather.DefaultSunrise, weather.DefaultSunset)

	return rec
}

// toForecast groups forecast items into slots on the fixed interval.
func (c *Client) toForecast(items []apiItem, now time.Time) []weather.ForecastSlot {
	return c.groupForecastItems(items, now, weather.ForecastInterval)
}

// groupForecastItems groups raw forecast items by their (date, time) key,
// keeps only slots aligned to the given interval and not before "now"
// rounded down to the canonical interval, and truncates to the slot limit.
func (c *Client) groupForecastItems(items []apiItem, now time.Time, align time.Duration) []weather.ForecastSlot {
	byTime := make(map[string]map[string]string)
	for _, it := range items {
		key := it.FcstDate + it.FcstTime
		if byTime[key] == nil {
			byTime[key] = make(map[string]string)
		}
		byTime[key][it.Category] = it.FcstValue
	}

	cutoff := now.In(weather.KST).Truncate(weather.ForecastInterval)
	alignHours := int(align / time.Hour)

	slots := make([]weather.ForecastSlot, 0, len(byTime))
	for key, cats := range byTime {
		ts, err := time.ParseInLocation("200601021504", key, weather.KST)
		if err != nil {
			continue
		}
		if ts.Hour()%alignHours != 0 || ts.Before(cutoff) {
			continue
		}
		slots = append(slots, buildSlot(ts, cats))
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Timestamp.Before(slots[j].Timestamp)
	})
	if align == weather.ForecastInterval && len(slots) > weather.MaxForecastSlots {
		slots = slots[:weather.MaxForecastSlots]
	}
	return slots
}

// buildSlot normalizes one grouped forecast slot.
func buildSlot(ts time.Time, cats map[string]string) weather.ForecastSlot {
	num := func(cat string) float64 {
		v, _ := strconv.ParseFloat(cats[cat], 64)
		return v
	}

	slot := weather.ForecastSlot{
		Timestamp:  ts,
		Humidity:   num(categoryHumidity),
		WindSpeed:  num(categoryWindSpeed),
		PrecipProb: num(categoryPrecipProb),
	}

	// Both the short-range (TMP) and ultra-short (T1H) temperature
	// categories are accepted so resampled slots normalize identically.
	if raw, ok := cats[categoryFcstTemp]; ok {
		if t, err := strconv.ParseFloat(raw, 64); err == nil {
			slot.Temperature = weather.Float(weather.RoundTemp(t))
		}
	} else if raw, ok := cats[categoryTemp]; ok {
		if t, err := strconv.ParseFloat(raw, 64); err == nil {
			slot.Temperature = weather.Float(weather.RoundTemp(t))
		}
	}

	if raw, ok := cats[categoryFcstRain]; ok {
		slot.Precipitation = parsePrecipAmount(raw)
	} else {
		slot.Precipitation = num(categoryRain1h)
	}

	sky := int(num(categorySky))
	pty := int(num(categoryPrecipType))
	slot.Condition = weather.ConditionFromKMA(sky, pty)
	slot.Description = weather.DescriptionOrCondition("", slot.Condition)
	slot.Icon = weather.IconFor(ts.Hour(), slot.Condition, weather.DefaultSunrise, weather.DefaultSunset)

	return slot
}

// resample projects hourly slots onto the three-hour grid by picking the
// nearest slot within half an interval of each target timestamp.
func resample(hourly []weather.ForecastSlot, now time.Time) []weather.ForecastSlot {
	if len(hourly) == 0 {
		return nil
	}

	cutoff := now.In(weather.KST).Truncate(weather.ForecastInterval)
	maxDrift := weather.ForecastInterval / 2

	out := make([]weather.ForecastSlot, 0, weather.MaxForecastSlots)
	for i := 0; i < weather.MaxForecastSlots; i++ {
		target := cutoff.Add(time.Duration(i) * weather.ForecastInterval)

		best := -1
		var bestDrift time.Duration
		for j, s := range hourly {
			drift := s.Timestamp.Sub(target)
			if drift < 0 {
				drift = -drift
			}
			if drift <= maxDrift && (best == -1 || drift < bestDrift) {
				best = j
				bestDrift = drift
			}
		}
		if best == -1 {
			continue
		}

		slot := hourly[best]
		slot.Timestamp = target
		out = append(out, slot)
	}
	return out
}

// classify translates transport errors into the client's error taxonomy.
// Timeouts are permanent: stepping back in time does not help a provider
// that is not answering.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return resilience.Permanent(fmt.Errorf("%w: %v", ErrTimeout, err))
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return resilience.Permanent(fmt.Errorf("%w: %v", ErrTimeout, err))
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return resilience.Permanent(err)
	}
	return err
}

// parsePrecipAmount parses the short-range precipitation category, which is
// free text such as "1.5mm", "30.0~50.0mm" or "강수없음" (no precipitation).
func parsePrecipAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	numeric := raw
	for i, r := range raw {
		if (r < '0' || r > '9') && r != '.' {
			numeric = raw[:i]
			break
		}
	}
	v, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0
	}
	return v
}

// Category codes extracted from provider payloads. Unknown categories are
// ignored.
const (
	categoryTemp       = "T1H" // nowcast temperature
	categoryFcstTemp   = "TMP" // short-range forecast temperature
	categoryHumidity   = "REH"
	categoryRain1h     = "RN1"
	categoryFcstRain   = "PCP"
	categoryWindSpeed  = "WSD"
	categoryWindDir    = "VEC"
	categorySky        = "SKY"
	categoryPrecipType = "PTY"
	categoryPrecipProb = "POP"
)

// Provider result codes.
const (
	resultOK     = "00"
	resultNoData = "03"
)

// Provider API response envelope.

type apiResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount int `json:"totalCount"`
			Items      struct {
				Item []apiItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type apiItem struct {
	Category  string `json:"category"`
	ObsrValue string `json:"obsrValue"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
}
