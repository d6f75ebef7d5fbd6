package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// httpFeed fetches a price point from a JSON HTTP endpoint, the shape
// common to Reflector/Pyth-style public price APIs. baseURL is expected to
// accept the asset symbol as a query parameter.
type httpFeed struct {
	baseURL    string
	client     *http.Client
	assetParam string
}

type feedResponse struct {
	Price       string  `json:"price"`
	Confidence  *string `json:"confidence,omitempty"`
	PublishTime uint64  `json:"publish_time"`
	Exponent    int32   `json:"exponent"`
}

// NewReflectorFeed builds a Feed against a Reflector-compatible price API.
func NewReflectorFeed(baseURL string, client *http.Client) Feed {
	return &httpFeed{baseURL: baseURL, client: client, assetParam: "asset"}
}

// NewPythFeed builds a Feed against a Pyth-compatible price API.
func NewPythFeed(baseURL string, client *http.Client) Feed {
	return &httpFeed{baseURL: baseURL, client: client, assetParam: "id"}
}

func (f *httpFeed) FetchPrice(ctx context.Context, asset string, _ time.Time) (PricePoint, error) {
	url := fmt.Sprintf("%s?%s=%s", f.baseURL, f.assetParam, asset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return PricePoint{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return PricePoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PricePoint{}, fmt.Errorf("oracle feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return PricePoint{}, err
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return PricePoint{}, err
	}

	point := PricePoint{
		Price:       price,
		PublishTime: body.PublishTime,
		Exponent:    body.Exponent,
	}
	if body.Confidence != nil {
		conf, err := decimal.NewFromString(*body.Confidence)
		if err != nil {
			return PricePoint{}, err
		}
		point.Confidence = &conf
	}
	return point, nil
}

// CustomFeed is an operator-pushed price point: no outbound call, the
// latest reading is set directly (e.g. by an off-chain relayer) and held
// in memory until overwritten.
type CustomFeed struct {
	latest map[string]PricePoint
}

// NewCustomFeed builds an empty operator-pushed feed.
func NewCustomFeed() *CustomFeed {
	return &CustomFeed{latest: make(map[string]PricePoint)}
}

// Push records the latest reading for asset.
func (c *CustomFeed) Push(asset string, point PricePoint) {
	c.latest[asset] = point
}

func (c *CustomFeed) FetchPrice(_ context.Context, asset string, _ time.Time) (PricePoint, error) {
	point, ok := c.latest[asset]
	if !ok {
		return PricePoint{}, errFeedNotFound(asset)
	}
	return point, nil
}

func errFeedNotFound(asset string) error {
	return fmt.Errorf("custom feed: no price pushed for asset %q", asset)
}
