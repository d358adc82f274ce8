package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrRateLimited is returned when the API answers with a quota notice
// instead of data.
var ErrRateLimited = errors.New("alphavantage: request quota exceeded")

type response map[string]interface{}

// query waits for the limiter and runs one GET through the breaker. Only
// transport and quota failures are errors; an empty payload is returned as
// data so a missing ticker does not trip the breaker.
func (c *Client) query(ctx context.Context, params url.Values) (response, error) {
	params.Set("apikey", c.APIKey)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return out.(response), nil
}

func (c *Client) get(ctx context.Context, params url.Values) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: %s %s", params.Get("function"), resp.Status)
	}

	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("alphavantage: decode %s: %w", params.Get("function"), err)
	}

	for _, key := range []string{"Note", "Information"} {
		if note, ok := data[key].(string); ok {
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, note)
		}
	}
	return data, nil
}
