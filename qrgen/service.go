// Package qrgen ties content formatting, rendering, history, metrics and
// webhooks into one generation call shared by the HTTP API and the CLI.
package qrgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/openclaw/qrforge/content"
	"github.com/openclaw/qrforge/metrics"
	"github.com/openclaw/qrforge/notify"
	"github.com/openclaw/qrforge/render"
	"github.com/openclaw/qrforge/store"
)

// cacheCapacity bounds the number of rendered images kept in memory.
const cacheCapacity = 256

// Request is one generation request. Empty option fields take the service
// defaults, after any template has been applied.
type Request struct {
	content.Fields

	Template        string
	Style           string
	ErrorCorrection string
	FgColor         string
	BgColor         string
	GradientType    string
	GradientColor   string
	FrameStyle      string
	LabelText       string
	BoxSize         *int
	Border          *int
	Format          string

	// Logo is a data URL or base64 image. LogoImage, when set, takes
	// precedence and disables caching for the request.
	Logo      string
	LogoImage image.Image
}

// Result is a generated image together with its history entry.
type Result struct {
	Type     content.Type
	Content  string
	Image    []byte
	Format   render.Format
	MIMEType string
	DataURL  string
	Entry    store.Entry
	Cached   bool
}

// BatchItem is the outcome for one URL of GenerateBatch.
type BatchItem struct {
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
	Error string `json:"error,omitempty"`
}

// Deps are the collaborators of a Service. Only Renderer is required.
type Deps struct {
	Renderer *render.Renderer
	History  store.History
	Metrics  *metrics.Metrics
	Webhook  *notify.WebhookSender
	Defaults render.Options
	CacheTTL time.Duration
	Log      *slog.Logger
}

// Service generates QR images.
type Service struct {
	renderer *render.Renderer
	history  store.History
	metrics  *metrics.Metrics
	webhook  *notify.WebhookSender
	defaults render.Options
	cache    *ttlcache.Cache[string, []byte]
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. A positive CacheTTL enables the render
// cache; Close stops its janitor.
func NewService(d Deps) *Service {
	s := &Service{
		renderer: d.Renderer,
		history:  d.History,
		metrics:  d.Metrics,
		webhook:  d.Webhook,
		defaults: d.Defaults,
		log:      d.Log,
		now:      time.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer("", s.log)
	}
	if s.defaults.BoxSize == 0 {
		s.defaults = render.DefaultOptions()
	}
	if d.CacheTTL > 0 {
		s.cache = ttlcache.New[string, []byte](
			ttlcache.WithTTL[string, []byte](d.CacheTTL),
			ttlcache.WithCapacity[string, []byte](cacheCapacity),
		)
		go s.cache.Start()
	}
	return s
}

// Close stops the cache janitor. The history store is owned by the caller.
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// History returns the configured history store, which may be nil.
func (s *Service) History() store.History {
	return s.history
}

// Options resolves the render options for req: defaults, then the
// template, then explicit fields.
func (s *Service) Options(req Request) (render.Options, error) {
	o := s.defaults
	o.Logo = nil

	if req.Template != "" {
		t, err := LookupTemplate(req.Template)
		if err != nil {
			return render.Options{}, err
		}
		t.apply(&o)
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&o.Style, req.Style)
	set(&o.ErrorCorrection, req.ErrorCorrection)
	set(&o.FgColor, req.FgColor)
	set(&o.BgColor, req.BgColor)
	set(&o.GradientType, req.GradientType)
	set(&o.GradientColor, req.GradientColor)
	set(&o.FrameStyle, req.FrameStyle)
	o.LabelText = req.LabelText
	if req.BoxSize != nil {
		o.BoxSize = *req.BoxSize
	}
	if req.Border != nil {
		o.Border = *req.Border
	}
	if req.Format != "" {
		f, err := render.ParseFormat(req.Format)
		if err != nil {
			return render.Options{}, err
		}
		o.Format = f
	}
	if o.Format == "" {
		o.Format = render.FormatPNG
	}

	switch {
	case req.LogoImage != nil:
		o.Logo = req.LogoImage
	case strings.TrimSpace(req.Logo) != "":
		logo, err := render.DecodeLogo(req.Logo)
		if err != nil {
			return render.Options{}, err
		}
		o.Logo = logo
	}

	return o, o.Validate()
}

// Generate formats, renders and encodes req, then records the result.
// History and webhook failures are logged, never returned.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	typ := req.Fields.Kind()
	text, err := content.Format(req.Fields)
	if err != nil {
		s.countError("content")
		return nil, err
	}

	o, err := s.Options(req)
	if err != nil {
		s.countError("options")
		return nil, err
	}

	key := ""
	if s.cache != nil && req.LogoImage == nil {
		key = cacheKey(text, o, req.Logo)
	}

	var (
		data   []byte
		cached bool
	)
	if key != "" {
		if item := s.cache.Get(key); item != nil {
			data, cached = item.Value(), true
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
		}
	}

	if !cached {
		start := time.Now()
		img, err := s.renderer.Render(text, o)
		if err != nil {
			s.countError("render")
			return nil, err
		}
		data, err = render.EncodeBytes(img, o.Format)
		if err != nil {
			s.countError("encode")
			return nil, fmt.Errorf("encode %s: %w", o.Format, err)
		}
		if s.metrics != nil {
			s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
		}
		if key != "" {
			s.cache.Set(key, data, ttlcache.DefaultTTL)
		}
	}

	res := &Result{
		Type:     typ,
		Content:  text,
		Image:    data,
		Format:   o.Format,
		MIMEType: o.Format.MIMEType(),
		DataURL:  render.DataURL(data, o.Format),
		Cached:   cached,
	}
	res.Entry = store.Entry{
		ID:        uuid.NewString(),
		Type:      string(typ),
		Content:   content.Preview(text),
		Image:     res.DataURL,
		CreatedAt: s.now().UTC(),
	}

	if s.history != nil {
		if err := s.history.Add(ctx, res.Entry); err != nil {
			s.log.Warn("history add failed", "error", err, "id", res.Entry.ID)
		}
	}
	if s.metrics != nil {
		s.metrics.Generated.WithLabelValues(string(typ)).Inc()
	}
	s.notify(res)

	s.log.Debug("qr generated", "id", res.Entry.ID, "type", typ, "format", o.Format, "bytes", len(data), "cached", cached)
	return res, nil
}

// GenerateBatch renders each URL with the default styling. Blank entries are
// skipped; a failing URL records its error and does not stop the batch.
func (s *Service) GenerateBatch(ctx context.Context, urls []string) []BatchItem {
	items := make([]BatchItem, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			items = append(items, BatchItem{URL: u, Error: err.Error()})
			continue
		}
		res, err := s.Generate(ctx, Request{Fields: content.Fields{Type: content.TypeURL, URL: u}})
		if err != nil {
			items = append(items, BatchItem{URL: u, Error: err.Error()})
			continue
		}
		items = append(items, BatchItem{URL: u, Image: res.DataURL})
	}
	return items
}

func (s *Service) notify(res *Result) {
	if !s.webhook.Enabled() {
		return
	}
	p := &notify.Payload{
		ID:        res.Entry.ID,
		Type:      string(res.Type),
		Content:   res.Content,
		Format:    string(res.Format),
		Timestamp: res.Entry.CreatedAt.Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.webhook.Send(ctx, p); err != nil {
			s.log.Debug("webhook send returned error", "error", err)
		}
	}()
}

func (s *Service) countError(reason string) {
	if s.metrics != nil {
		s.metrics.Errors.WithLabelValues(reason).Inc()
	}
}

// IsInputError reports whether err was caused by malformed request fields
// or options. Encoder failures such as oversized content are not input
// errors and surface as generation failures.
func IsInputError(err error) bool {
	return errors.Is(err, content.ErrMissingData) ||
		errors.Is(err, content.ErrUnknownType) ||
		errors.Is(err, content.ErrInvalidField) ||
		errors.Is(err, render.ErrInvalidOption)
}

func cacheKey(text string, o render.Options, logo string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00",
		text, o.ErrorCorrection, o.BoxSize, o.Border, o.Style, o.FgColor, o.BgColor,
		o.GradientType, o.GradientColor, o.FrameStyle, o.LabelText, o.Format)
	h.Write([]byte(logo))
	return hex.EncodeToString(h.Sum(nil))
}
