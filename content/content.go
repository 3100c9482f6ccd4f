// Package content turns a semantic QR type and its fields into the literal
// string that gets encoded into the symbol.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// Type is a semantic payload category.
type Type string

const (
	TypeURL      Type = "url"
	TypeText     Type = "text"
	TypeEmail    Type = "email"
	TypePhone    Type = "phone"
	TypeLocation Type = "location"
	TypeWiFi     Type = "wifi"
	TypeVCard    Type = "vcard"
)

// Types lists every supported type in display order.
var Types = []Type{TypeURL, TypeText, TypeEmail, TypePhone, TypeLocation, TypeVCard, TypeWiFi}

var (
	// ErrMissingData is returned when the field a type requires is empty.
	ErrMissingData = errors.New("please provide data")
	// ErrUnknownType is returned for a type outside Types.
	ErrUnknownType = errors.New("unknown QR type")
	// ErrInvalidField is returned when a field holds a value outside its allowed set.
	ErrInvalidField = errors.New("invalid field")
)

// Fields holds every input a QR type may draw from. Unused fields are ignored.
type Fields struct {
	Type Type `json:"type"`

	URL  string `json:"url"`
	Text string `json:"text"`

	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	Phone string `json:"phone"`

	Lat          string `json:"lat"`
	Lng          string `json:"lng"`
	LocationType string `json:"locationType"`

	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Security string `json:"security"`

	Name string `json:"name"`
	Org  string `json:"org"`
}

// Map flavours for TypeLocation.
const (
	LocationGeo    = "geo"
	LocationGoogle = "google"
	LocationApple  = "apple"
	LocationWaze   = "waze"
)

// WiFi security values accepted by Format.
var wifiSecurity = map[string]bool{"WPA": true, "WEP": true, "nopass": true}

// Format returns the literal string to encode for f. The type defaults to url.
// Values are inserted as given (after trimming), without escaping.
func Format(f Fields) (string, error) {
	typ := f.Kind()
	f = f.trimmed()

	switch typ {
	case TypeURL:
		if f.URL == "" {
			return "", missing("url")
		}
		return f.URL, nil

	case TypeText:
		if f.Text == "" {
			return "", missing("text")
		}
		return f.Text, nil

	case TypeEmail:
		if f.Email == "" {
			return "", missing("email")
		}
		return fmt.Sprintf("mailto:%s?subject=%s&body=%s", f.Email, f.Subject, f.Message), nil

	case TypePhone:
		if f.Phone == "" {
			return "", missing("phone")
		}
		return "tel:" + f.Phone, nil

	case TypeLocation:
		if f.Lat == "" || f.Lng == "" {
			return "", missing("lat and lng")
		}
		return formatLocation(f.LocationType, f.Lat, f.Lng), nil

	case TypeWiFi:
		if f.SSID == "" {
			return "", missing("ssid")
		}
		security := f.Security
		if security == "" {
			security = "WPA"
		}
		if !wifiSecurity[security] {
			return "", fmt.Errorf("%w: security %q (want WPA, WEP or nopass)", ErrInvalidField, security)
		}
		return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", security, f.SSID, f.Password), nil

	case TypeVCard:
		if f.Name == "" {
			return "", missing("name")
		}
		return "BEGIN:VCARD\nVERSION:3.0\n" +
			"FN:" + f.Name + "\n" +
			"TEL:" + f.Phone + "\n" +
			"EMAIL:" + f.Email + "\n" +
			"ORG:" + f.Org + "\n" +
			"END:VCARD", nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownType, typ)
}

func formatLocation(kind, lat, lng string) string {
	switch kind {
	case LocationGoogle:
		return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", lat, lng)
	case LocationApple:
		return fmt.Sprintf("http://maps.apple.com/?ll=%s,%s", lat, lng)
	case LocationWaze:
		return fmt.Sprintf("https://waze.com/ul?ll=%s,%s", lat, lng)
	default:
		return fmt.Sprintf("geo:%s,%s", lat, lng)
	}
}

// Kind returns the normalised type of f, url when unset.
func (f Fields) Kind() Type {
	t := Type(strings.ToLower(strings.TrimSpace(string(f.Type))))
	if t == "" {
		return TypeURL
	}
	return t
}

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", ErrMissingData, field)
}

func (f Fields) trimmed() Fields {
	f.URL = strings.TrimSpace(f.URL)
	f.Text = strings.TrimSpace(f.Text)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Lat = strings.TrimSpace(f.Lat)
	f.Lng = strings.TrimSpace(f.Lng)
	f.LocationType = strings.ToLower(strings.TrimSpace(f.LocationType))
	f.SSID = strings.TrimSpace(f.SSID)
	f.Password = strings.TrimSpace(f.Password)
	f.Security = strings.TrimSpace(f.Security)
	f.Name = strings.TrimSpace(f.Name)
	f.Org = strings.TrimSpace(f.Org)
	return f
}

// previewLen is how many characters of content a history entry keeps.
const previewLen = 50

// Preview shortens content for display, appending "..." when it was cut.
func Preview(content string) string {
	r := []rune(content)
	if len(r) <= previewLen {
		return content
	}
	return string(r[:previewLen]) + "..."
}
