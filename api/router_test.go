package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openclaw/qrforge/metrics"
	"github.com/openclaw/qrforge/qrgen"
	"github.com/openclaw/qrforge/render"
	"github.com/openclaw/qrforge/scan"
	"github.com/openclaw/qrforge/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := store.NewMemoryStore(store.DefaultLimit)
	m := metrics.New()
	svc := qrgen.NewService(qrgen.Deps{
		Renderer: render.NewRenderer("", log),
		History:  h,
		Metrics:  m,
		Defaults: render.DefaultOptions(),
		Log:      log,
	})
	t.Cleanup(svc.Close)

	srv := httptest.NewServer(NewRouter(&Server{
		Service:      svc,
		Metrics:      m,
		Log:          log,
		Version:      "test",
		MaxBodyBytes: 1 << 20,
	}))
	t.Cleanup(srv.Close)
	return srv, h
}

func post(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestGenerateEndpoint(t *testing.T) {
	srv, h := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"url", `{"type":"url","url":"https://example.com"}`, http.StatusOK, ""},
		{"string box size", `{"type":"text","text":"hi","boxSize":"5","border":"2"}`, http.StatusOK, ""},
		{"styled", `{"url":"x","style":"circle","gradientType":"radial","gradientColor":"#ff0000","frameStyle":"shadow","labelText":"Scan"}`, http.StatusOK, ""},
		{"template", `{"url":"x","template":"modern"}`, http.StatusOK, ""},
		{"jpeg", `{"url":"x","format":"jpg"}`, http.StatusOK, ""},
		{"numeric location", `{"type":"location","lat":40.7128,"lng":-74.006}`, http.StatusOK, ""},
		{"numeric phone", `{"type":"phone","phone":1234567890}`, http.StatusOK, ""},
		{"object field", `{"type":"text","text":{"a":1}}`, http.StatusBadRequest, ""},
		{"empty body", ``, http.StatusBadRequest, "No data provided"},
		{"empty object", `{}`, http.StatusBadRequest, "No data provided"},
		{"not json", `url=x`, http.StatusBadRequest, "No data provided"},
		{"missing content", `{"type":"url","url":"   "}`, http.StatusBadRequest, "Please provide data"},
		{"missing wifi ssid", `{"type":"wifi","password":"p"}`, http.StatusBadRequest, "Please provide data"},
		{"bad box size", `{"url":"x","boxSize":"big"}`, http.StatusBadRequest, ""},
		{"bad colour", `{"url":"x","fgColor":"nope"}`, http.StatusBadRequest, ""},
		{"unknown type", `{"type":"fax","text":"x"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := post(t, srv.URL+"/generate", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.wantStatus, out)
			}
			if tt.wantStatus == http.StatusOK {
				if out["success"] != true {
					t.Errorf("success = %v", out["success"])
				}
				if img, _ := out["image"].(string); !strings.HasPrefix(img, "data:image/") {
					t.Errorf("image = %.40q", img)
				}
				return
			}
			if tt.wantError != "" && out["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", out["error"], tt.wantError)
			}
			if out["error"] == nil {
				t.Error("missing error field")
			}
		})
	}

	entries, _ := h.List(context.Background())
	if len(entries) != 7 {
		t.Errorf("history has %d entries, want 7", len(entries))
	}
}

func TestGenerateEndpointNumericFields(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		body string
		want string
	}{
		{`{"type":"location","lat":40.7128,"lng":-74.006,"locationType":"google"}`, "https://www.google.com/maps?q=40.7128,-74.006"},
		{`{"type":"phone","phone":15551234567}`, "tel:15551234567"},
		{`{"type":"text","text":true}`, "true"},
		{`{"type":"vcard","name":"Ada","phone":123,"org":null}`, "BEGIN:VCARD\nVERSION:3.0\nFN:Ada\nTEL:123\nEMAIL:\nORG:\nEND:VCARD"},
	}
	for _, tt := range tests {
		status, out := post(t, srv.URL+"/generate", tt.body)
		if status != http.StatusOK {
			t.Fatalf("POST %s: status = %d, body %v", tt.body, status, out)
		}
		if got := decodeDataURL(t, out["image"].(string)); got != tt.want {
			t.Errorf("POST %s: decoded %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestGenerateEndpointTooLongContent(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"type":"text","text":"` + strings.Repeat("x", 8000) + `"}`

	status, out := post(t, srv.URL+"/generate", body)
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", status, http.StatusInternalServerError)
	}
	if msg, _ := out["error"].(string); !strings.HasPrefix(msg, "Generation failed: ") {
		t.Errorf("error = %q, want Generation failed prefix", msg)
	}
}

func decodeDataURL(t *testing.T, dataURL string) string {
	t.Helper()
	_, b64, ok := strings.Cut(dataURL, ",")
	if !ok {
		t.Fatalf("malformed data URL %.40q", dataURL)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	text, err := scan.Decode(img)
	if err != nil {
		t.Fatalf("scan.Decode() error = %v", err)
	}
	return text
}

func TestGenerateEndpointJPEGDataURL(t *testing.T) {
	srv, _ := newTestServer(t)
	_, out := post(t, srv.URL+"/generate", `{"url":"x","format":"jpeg"}`)
	if img, _ := out["image"].(string); !strings.HasPrefix(img, "data:image/jpeg;base64,") {
		t.Errorf("image = %.40q", img)
	}
}

func TestGenerateEndpointTooLarge(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"url":"x","logo":"` + strings.Repeat("A", 1<<20) + `"}`
	status, _ := post(t, srv.URL+"/generate", body)
	if status != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", status, http.StatusRequestEntityTooLarge)
	}
}

func TestBatchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv.URL+"/generate/batch", `{"urls":["https://a.example","https://b.example"]}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	results, _ := out["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results = %v", out["results"])
	}
	first := results[0].(map[string]any)
	if first["url"] != "https://a.example" || first["image"] == nil {
		t.Errorf("results[0] = %v", first)
	}

	status, out = post(t, srv.URL+"/generate/batch", `{"urls":[]}`)
	if status != http.StatusBadRequest || out["error"] != "Please provide data" {
		t.Errorf("empty batch: status %d, body %v", status, out)
	}

	urls := make([]string, maxBatchURLs+1)
	for i := range urls {
		urls[i] = `"x"`
	}
	status, _ = post(t, srv.URL+"/generate/batch", `{"urls":[`+strings.Join(urls, ",")+`]}`)
	if status != http.StatusBadRequest {
		t.Errorf("oversized batch: status %d", status)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	getHistory := func() []any {
		resp, err := http.Get(srv.URL + "/history")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var out struct {
			History []any `json:"history"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		return out.History
	}

	if got := getHistory(); got == nil || len(got) != 0 {
		t.Fatalf("initial history = %v, want empty list", got)
	}

	long := strings.Repeat("y", 80)
	post(t, srv.URL+"/generate", `{"type":"text","text":"first"}`)
	post(t, srv.URL+"/generate", `{"type":"text","text":"`+long+`"}`)

	got := getHistory()
	if len(got) != 2 {
		t.Fatalf("history has %d entries", len(got))
	}
	newest := got[0].(map[string]any)
	if newest["content"] != long[:50]+"..." {
		t.Errorf("newest content = %q", newest["content"])
	}
	if newest["type"] != "text" || newest["id"] == "" || newest["created_at"] == nil {
		t.Errorf("newest entry = %v", newest)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/history", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE /history status = %d", resp.StatusCode)
	}
	if got := getHistory(); len(got) != 0 {
		t.Errorf("history after clear = %v", got)
	}
}

func TestStatusIndexAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv.URL+"/generate", `{"url":"https://example.com"}`)

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	var st statusResponse
	json.NewDecoder(resp.Body).Decode(&st)
	resp.Body.Close()
	if st.Status != "ok" || st.Version != "test" || st.HistorySize != 1 {
		t.Errorf("status = %+v", st)
	}

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("index Content-Type = %q", ct)
	}
	if !strings.Contains(string(page), `fetch('/generate'`) {
		t.Error("index page does not post to /generate")
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `qrforge_generated_total{type="url"} 1`) {
		t.Errorf("metrics missing generated counter:\n%s", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/generate", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("OPTIONS status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{`10`, intp(10), false},
		{`"7"`, intp(7), false},
		{`" 3 "`, intp(3), false},
		{`null`, nil, false},
		{`""`, nil, false},
		{`4.0`, intp(4), false},
		{`4.5`, nil, true},
		{`"ten"`, nil, true},
	}
	for _, tt := range tests {
		var f flexInt
		err := f.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		got := f.ptr()
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func intp(v int) *int { return &v }

func TestFlexString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`"abc"`, "abc", false},
		{`"a\"b"`, `a"b`, false},
		{`40.7128`, "40.7128", false},
		{`-74.006`, "-74.006", false},
		{`1234567890`, "1234567890", false},
		{`1e3`, "1e3", false},
		{`false`, "false", false},
		{`null`, "", false},
		{`[1]`, "", true},
		{`{"a":1}`, "", true},
	}
	for _, tt := range tests {
		var f flexString
		err := f.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if string(f) != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %q, want %q", tt.in, f, tt.want)
		}
	}
}
