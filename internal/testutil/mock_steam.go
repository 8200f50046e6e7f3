// Package testutil provides testing utilities for the Steam inventory client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for one mock inventory response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is what the mock saw for one inventory request.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// MockSteam is a configurable mock of the community inventory endpoint.
//
// Responses are queued per inventory path and served in order; once a queue
// holds a single response it is repeated for every further request.
type MockSteam struct {
	server *httptest.Server

	mu       sync.Mutex
	queues   map[string][]MockResponse
	requests []RecordedRequest
}

// NewMockSteam creates a new mock Steam server.
func NewMockSteam() *MockSteam {
	mock := &MockSteam{
		queues: make(map[string][]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

func (m *MockSteam) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})

	queue := m.queues[r.URL.Path]
	var resp MockResponse
	found := len(queue) > 0
	if found {
		resp = queue[0]
		if len(queue) > 1 {
			m.queues[r.URL.Path] = queue[1:]
		}
	}
	m.mu.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("null"))
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// URL returns the mock server URL.
func (m *MockSteam) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSteam) Close() {
	m.server.Close()
}

// InventoryPath returns the request path for one inventory.
func InventoryPath(steamID64 string, appID uint32, contextID uint64) string {
	return fmt.Sprintf("/inventory/%s/%d/%d", steamID64, appID, contextID)
}

// InventoryURL builds URLs against the mock; it matches inventory.URLFunc.
func (m *MockSteam) InventoryURL(steamID64 string, appID uint32, contextID uint64) string {
	return m.server.URL + InventoryPath(steamID64, appID, contextID)
}

// Enqueue appends responses for an inventory path.
func (m *MockSteam) Enqueue(path string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[path] = append(m.queues[path], responses...)
}

// Requests returns a copy of every request seen so far.
func (m *MockSteam) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSteam) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Reset clears queues and recorded requests.
func (m *MockSteam) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues = make(map[string][]MockResponse)
	m.requests = nil
}

// PageFixture describes one inventory page in terms of the JSON the endpoint returns.
type PageFixture struct {
	Assets       []map[string]any
	Descriptions []map[string]any
	MoreItems    bool
	LastAssetID  string
	Total        int
}

// Asset builds an asset entry. An empty instanceID omits the field.
func Asset(assetID, classID, instanceID string) map[string]any {
	a := map[string]any{
		"appid":     730,
		"contextid": "2",
		"assetid":   assetID,
		"classid":   classID,
		"amount":    "1",
	}
	if instanceID != "" {
		a["instanceid"] = instanceID
	}
	return a
}

// Currency builds a currency asset entry.
func Currency(currencyID, classID, amount string) map[string]any {
	return map[string]any{
		"appid":      730,
		"contextid":  "2",
		"currencyid": currencyID,
		"classid":    classID,
		"amount":     amount,
	}
}

// Description builds a description entry. An empty instanceID omits the field.
func Description(classID, instanceID, name string, tradable bool) map[string]any {
	d := map[string]any{
		"appid":            730,
		"classid":          classID,
		"name":             name,
		"market_hash_name": name,
		"tradable":         boolToInt(tradable),
		"marketable":       boolToInt(tradable),
		"commodity":        0,
	}
	if instanceID != "" {
		d["instanceid"] = instanceID
	}
	return d
}

// NewPageResponse renders a 200 response carrying page.
func NewPageResponse(page PageFixture) MockResponse {
	body := map[string]any{
		"success":               1,
		"assets":                nonNil(page.Assets),
		"descriptions":          nonNil(page.Descriptions),
		"total_inventory_count": page.Total,
		"rwgrsn":                -2,
	}
	if page.MoreItems {
		body["more_items"] = 1
		body["last_assetid"] = page.LastAssetID
	}
	return jsonResponse(http.StatusOK, body)
}

// NewEmptyInventoryResponse is what the endpoint returns for an empty inventory.
func NewEmptyInventoryResponse() MockResponse {
	return jsonResponse(http.StatusOK, map[string]any{
		"success":               1,
		"total_inventory_count": 0,
		"rwgrsn":                -2,
	})
}

// NewPrivateResponse is the 403 returned for private profiles or inventories.
func NewPrivateResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusForbidden, Body: "null"}
}

// NewNotFoundResponse is the 404 returned for unknown profiles.
func NewNotFoundResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusNotFound, Body: "null"}
}

// NewRateLimitResponse is the 429 returned when requests come too fast.
func NewRateLimitResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusTooManyRequests, Body: "null"}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusInternalServerError, Body: `{"success": false}`}
}

// NewMalformedResponse is a 200 with success but without assets/descriptions.
func NewMalformedResponse(errorMessage string) MockResponse {
	body := map[string]any{"success": 1, "total_inventory_count": 3}
	if errorMessage != "" {
		body["error"] = errorMessage
	}
	return jsonResponse(http.StatusOK, body)
}

func jsonResponse(status int, body map[string]any) MockResponse {
	data, err := json.Marshal(body)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal body: %v", err))
	}
	return MockResponse{StatusCode: status, Body: string(data)}
}

func nonNil(list []map[string]any) []map[string]any {
	if list == nil {
		return []map[string]any{}
	}
	return list
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// TrimBase strips the mock's base URL from a full URL, for readable assertions.
func (m *MockSteam) TrimBase(fullURL string) string {
	return strings.TrimPrefix(fullURL, m.server.URL)
}
