package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/steam-inventory-client/pkg/client"
)

// step is one scripted transport outcome: either a JSON body or an error.
type step struct {
	body string
	err  error
}

type fakeTransport struct {
	mu       sync.Mutex
	steps    []step
	requests []client.Request
}

func newFakeTransport(steps ...step) *fakeTransport {
	return &fakeTransport{steps: steps}
}

func (f *fakeTransport) GetJSON(ctx context.Context, req client.Request, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.requests) > len(f.steps) {
		return fmt.Errorf("unexpected request #%d to %s", len(f.requests), req.URL)
	}

	s := f.steps[len(f.requests)-1]
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.body), v)
}

func (f *fakeTransport) calls() []client.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.Request(nil), f.requests...)
}

func statusError(code int) error {
	return &client.HTTPError{StatusCode: code, ErrorClass: client.ErrorClassClient, Message: fmt.Sprintf("%d", code)}
}

func timeoutError() error {
	return &client.HTTPError{ErrorClass: client.ErrorClassNetwork, Message: "request failed", Err: context.DeadlineExceeded}
}

// waitRecorder replaces the API's retry sleep.
type waitRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	w.waits = append(w.waits, d)
	w.mu.Unlock()
	return ctx.Err()
}

func (w *waitRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waits)
}

const testOwner = "76561198000000001"

type fakeAsset struct {
	assetID, classID, instanceID, currencyID string
}

type fakeDesc struct {
	classID, instanceID, name string
	tradable                  bool
}

// pageJSON renders an endpoint page.
func pageJSON(assets []fakeAsset, descs []fakeDesc, lastAssetID string, total int) string {
	as := make([]map[string]any, 0, len(assets))
	for _, a := range assets {
		m := map[string]any{"appid": 730, "contextid": "2", "classid": a.classID, "amount": "1"}
		if a.assetID != "" {
			m["assetid"] = a.assetID
		}
		if a.instanceID != "" {
			m["instanceid"] = a.instanceID
		}
		if a.currencyID != "" {
			m["currencyid"] = a.currencyID
		}
		as = append(as, m)
	}

	ds := make([]map[string]any, 0, len(descs))
	for _, d := range descs {
		m := map[string]any{
			"appid":            730,
			"classid":          d.classID,
			"name":             d.name,
			"market_hash_name": d.name,
			"tradable":         0,
		}
		if d.tradable {
			m["tradable"] = 1
		}
		if d.instanceID != "" {
			m["instanceid"] = d.instanceID
		}
		ds = append(ds, m)
	}

	body := map[string]any{
		"success":               1,
		"assets":                as,
		"descriptions":          ds,
		"total_inventory_count": total,
	}
	if lastAssetID != "" {
		body["more_items"] = 1
		body["last_assetid"] = lastAssetID
	}

	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func newTestAPI(cfg Config, transport *fakeTransport) (*API, *waitRecorder) {
	cfg.Transport = transport
	api, err := New(cfg)
	if err != nil {
		panic(err)
	}
	rec := &waitRecorder{}
	api.wait = rec.wait
	return api, rec
}
