package content

import (
	"errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   string
	}{
		{
			name:   "default type is url",
			fields: Fields{URL: "https://example.com"},
			want:   "https://example.com",
		},
		{
			name:   "url is trimmed",
			fields: Fields{Type: TypeURL, URL: "  https://example.com/a  "},
			want:   "https://example.com/a",
		},
		{
			name:   "text",
			fields: Fields{Type: TypeText, Text: "hello world"},
			want:   "hello world",
		},
		{
			name:   "email with subject and body",
			fields: Fields{Type: TypeEmail, Email: "a@b.c", Subject: "Hi", Message: "See you"},
			want:   "mailto:a@b.c?subject=Hi&body=See you",
		},
		{
			name:   "email without optional parts",
			fields: Fields{Type: TypeEmail, Email: "a@b.c"},
			want:   "mailto:a@b.c?subject=&body=",
		},
		{
			name:   "phone",
			fields: Fields{Type: TypePhone, Phone: "+1234567890"},
			want:   "tel:+1234567890",
		},
		{
			name:   "location defaults to geo",
			fields: Fields{Type: TypeLocation, Lat: "40.7128", Lng: "-74.0060"},
			want:   "geo:40.7128,-74.0060",
		},
		{
			name:   "location google",
			fields: Fields{Type: TypeLocation, Lat: "1", Lng: "2", LocationType: "google"},
			want:   "https://www.google.com/maps?q=1,2",
		},
		{
			name:   "location apple",
			fields: Fields{Type: TypeLocation, Lat: "1", Lng: "2", LocationType: "apple"},
			want:   "http://maps.apple.com/?ll=1,2",
		},
		{
			name:   "location waze",
			fields: Fields{Type: TypeLocation, Lat: "1", Lng: "2", LocationType: "Waze"},
			want:   "https://waze.com/ul?ll=1,2",
		},
		{
			name:   "location unknown kind falls back to geo",
			fields: Fields{Type: TypeLocation, Lat: "1", Lng: "2", LocationType: "bing"},
			want:   "geo:1,2",
		},
		{
			name:   "wifi defaults to WPA",
			fields: Fields{Type: TypeWiFi, SSID: "MyWiFi", Password: "secret"},
			want:   "WIFI:T:WPA;S:MyWiFi;P:secret;;",
		},
		{
			name:   "wifi open network",
			fields: Fields{Type: TypeWiFi, SSID: "Cafe", Security: "nopass"},
			want:   "WIFI:T:nopass;S:Cafe;P:;;",
		},
		{
			name:   "vcard",
			fields: Fields{Type: TypeVCard, Name: "John Doe", Phone: "+1", Email: "j@d.io", Org: "ACME"},
			want:   "BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nTEL:+1\nEMAIL:j@d.io\nORG:ACME\nEND:VCARD",
		},
		{
			name:   "type is case-insensitive",
			fields: Fields{Type: "PHONE", Phone: "123"},
			want:   "tel:123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.fields)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		wantErr error
	}{
		{"empty url", Fields{Type: TypeURL, URL: "   "}, ErrMissingData},
		{"empty text", Fields{Type: TypeText}, ErrMissingData},
		{"email without address", Fields{Type: TypeEmail, Subject: "x"}, ErrMissingData},
		{"phone missing", Fields{Type: TypePhone}, ErrMissingData},
		{"location missing lng", Fields{Type: TypeLocation, Lat: "1"}, ErrMissingData},
		{"wifi missing ssid", Fields{Type: TypeWiFi, Password: "x"}, ErrMissingData},
		{"vcard missing name", Fields{Type: TypeVCard, Phone: "1"}, ErrMissingData},
		{"wifi bad security", Fields{Type: TypeWiFi, SSID: "n", Security: "WPA3-ish"}, ErrInvalidField},
		{"unknown type", Fields{Type: "sms", Text: "hi"}, ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.fields)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Format() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	short := "https://example.com"
	if got := Preview(short); got != short {
		t.Errorf("Preview(%q) = %q", short, got)
	}

	exact := strings.Repeat("a", 50)
	if got := Preview(exact); got != exact {
		t.Errorf("Preview(50 chars) was modified: %q", got)
	}

	long := strings.Repeat("b", 51)
	want := strings.Repeat("b", 50) + "..."
	if got := Preview(long); got != want {
		t.Errorf("Preview(51 chars) = %q, want %q", got, want)
	}

	// cut on rune boundaries
	runes := strings.Repeat("ž", 60)
	got := Preview(runes)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 53 {
		t.Errorf("Preview(multibyte) = %q", got)
	}
}
