package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/openclaw/qrforge/content"
	"github.com/openclaw/qrforge/qrgen"
	"github.com/openclaw/qrforge/render"
)

// maxBatchURLs caps the size of one /generate/batch request.
const maxBatchURLs = 50

// flexInt accepts a JSON number or a numeric string. Null and "" leave it unset.
type flexInt struct {
	set bool
	v   int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n != math.Trunc(n) {
		return fmt.Errorf("%w: %s is not an integer", render.ErrInvalidOption, b)
	}
	f.set, f.v = true, int(n)
	return nil
}

func (f flexInt) ptr() *int {
	if !f.set {
		return nil
	}
	v := f.v
	return &v
}

// flexString accepts a JSON string, number or bool. Numbers keep their
// literal text, so 40.7128 stays "40.7128". Null leaves it empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		return nil
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
	case s == "true" || s == "false":
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%w: %s is not a string, number or bool", content.ErrInvalidField, b)
		}
		*f = flexString(n.String())
	}
	return nil
}

// contentFields mirrors content.Fields with lenient JSON decoding.
type contentFields struct {
	Type flexString `json:"type"`

	URL  flexString `json:"url"`
	Text flexString `json:"text"`

	Email   flexString `json:"email"`
	Subject flexString `json:"subject"`
	Message flexString `json:"message"`

	Phone flexString `json:"phone"`

	Lat          flexString `json:"lat"`
	Lng          flexString `json:"lng"`
	LocationType flexString `json:"locationType"`

	SSID     flexString `json:"ssid"`
	Password flexString `json:"password"`
	Security flexString `json:"security"`

	Name flexString `json:"name"`
	Org  flexString `json:"org"`
}

func (c contentFields) fields() content.Fields {
	return content.Fields{
		Type:         content.Type(c.Type),
		URL:          string(c.URL),
		Text:         string(c.Text),
		Email:        string(c.Email),
		Subject:      string(c.Subject),
		Message:      string(c.Message),
		Phone:        string(c.Phone),
		Lat:          string(c.Lat),
		Lng:          string(c.Lng),
		LocationType: string(c.LocationType),
		SSID:         string(c.SSID),
		Password:     string(c.Password),
		Security:     string(c.Security),
		Name:         string(c.Name),
		Org:          string(c.Org),
	}
}

type generateRequest struct {
	contentFields

	Template        string     `json:"template"`
	Style           string     `json:"style"`
	ErrorCorrection string     `json:"errorCorrection"`
	FgColor         string     `json:"fgColor"`
	BgColor         string     `json:"bgColor"`
	GradientType    string     `json:"gradientType"`
	GradientColor   string     `json:"gradientColor"`
	FrameStyle      string     `json:"frameStyle"`
	LabelText       flexString `json:"labelText"`
	BoxSize         flexInt    `json:"boxSize"`
	Border          flexInt    `json:"border"`
	Logo            string     `json:"logo"`
	Format          string     `json:"format"`
}

func (g generateRequest) toRequest() qrgen.Request {
	return qrgen.Request{
		Fields:          g.contentFields.fields(),
		Template:        g.Template,
		Style:           g.Style,
		ErrorCorrection: g.ErrorCorrection,
		FgColor:         g.FgColor,
		BgColor:         g.BgColor,
		GradientType:    g.GradientType,
		GradientColor:   g.GradientColor,
		FrameStyle:      g.FrameStyle,
		LabelText:       string(g.LabelText),
		BoxSize:         g.BoxSize.ptr(),
		Border:          g.Border.ptr(),
		Logo:            g.Logo,
		Format:          g.Format,
	}
}

type generateResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

type batchResponse struct {
	Results []qrgen.BatchItem `json:"results"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readJSONObject(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		if errors.Is(err, render.ErrInvalidOption) || errors.Is(err, content.ErrInvalidField) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.Service.Generate(r.Context(), req.toRequest())
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Success: true, Image: res.DataURL})
}

func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readJSONObject(w, r)
	if !ok {
		return
	}

	var req batchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "Please provide data")
		return
	}
	if len(req.URLs) > maxBatchURLs {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d urls per batch", maxBatchURLs))
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{Results: s.Service.GenerateBatch(r.Context(), req.URLs)})
}

// readJSONObject reads the request body and checks that it is a non-empty
// JSON object, writing the error response itself when it is not.
func (s *Server) readJSONObject(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "No data provided")
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		writeError(w, http.StatusBadRequest, "No data provided")
		return nil, false
	}
	return body, true
}

func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrMissingData):
		writeError(w, http.StatusBadRequest, "Please provide data")
	case qrgen.IsInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.Log.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Generation failed: "+err.Error())
	}
}
