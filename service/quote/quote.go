package quote

import (
	"context"
	"fmt"
	"time"

	"cardmarket/core"

	"github.com/bluele/gcache"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"
)

type quoteService struct {
	client *resty.Client
	cache  gcache.Cache
	sf     singleflight.Group
	ttl    time.Duration
}

// New new usd quote service backed by a simple price endpoint
func New(cfg core.Quote) core.QuoteService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &quoteService{
		client: resty.New().SetBaseURL(cfg.EndPoint).SetTimeout(10 * time.Second),
		cache:  gcache.New(64).LRU().Build(),
		ttl:    ttl,
	}
}

func (s *quoteService) UsdRate(ctx context.Context, symbolID string) (decimal.Decimal, error) {
	if v, err := s.cache.Get(symbolID); err == nil {
		return v.(decimal.Decimal), nil
	}

	// concurrent misses of the same symbol share one upstream call
	v, err, _ := s.sf.Do(symbolID, func() (interface{}, error) {
		return s.fetch(ctx, symbolID)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}

func (s *quoteService) fetch(ctx context.Context, symbolID string) (decimal.Decimal, error) {
	var body map[string]map[string]interface{}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("ids", symbolID).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&body).
		Get("/simple/price")
	if err != nil {
		return decimal.Zero, err
	}

	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("quote: endpoint returned %s", resp.Status())
	}

	rates, ok := body[symbolID]
	if !ok {
		return decimal.Zero, fmt.Errorf("quote: no rate for %q", symbolID)
	}

	rate := decimal.NewFromFloat(cast.ToFloat64(rates["usd"]))
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("quote: non positive rate for %q", symbolID)
	}

	_ = s.cache.SetWithExpire(symbolID, rate, s.ttl)
	return rate, nil
}
