package ubereats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sortimento/internal/jsonmap"
	"sortimento/internal/upstream"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type api struct {
	doer    Doer
	baseURL string
}

// getStore posts the standard storefront query and returns the payload under
// the top-level data key.
func (a *api) getStore(ctx context.Context, storeID string) (map[string]any, error) {
	payload := map[string]any{
		"storeUuid":  storeID,
		"diningMode": "DELIVERY",
		"time":       map[string]any{"asap": true},
		"cbType":     "EATER_ENDORSED",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/_p/api/getStoreV1", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	applyHeaders(req, a.baseURL)

	resp, err := a.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, upstream.NewAPIError("ubereats.store", resp.StatusCode, body)
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("ubereats.store: bad json: %w", err)
	}

	return jsonmap.Map(out, "data"), nil
}
