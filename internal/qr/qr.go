// Package qr builds the payload strings that QR encoders consume. Every
// format is a pure string template; encoding the payload into an image is
// the client's job.
package qr

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Format identifies one supported payload format.
type Format string

// Supported payload formats, matching the {format} path segment of the API.
const (
	FormatURL      Format = "url"
	FormatEmail    Format = "email"
	FormatPhone    Format = "phone"
	FormatSMS      Format = "sms"
	FormatWhatsApp Format = "whatsapp"
	FormatWiFi     Format = "wifi"
	FormatVCard    Format = "vcard"
	FormatMeCard   Format = "mecard"
	FormatGeo      Format = "geo"
	FormatEvent    Format = "event"
	FormatBitcoin  Format = "bitcoin"
)

// URLPayload produces a plain URL payload, defaulting the scheme to https.
type URLPayload struct {
	URL string `json:"url" validate:"required"`
}

// Validate validates the URLPayload using the validator.
func (p *URLPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *URLPayload) Encode() string {
	u := strings.TrimSpace(p.URL)
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

// EmailPayload produces a mailto: URI with optional subject and body.
type EmailPayload struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Validate validates the EmailPayload using the validator.
func (p *EmailPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *EmailPayload) Encode() string {
	out := "mailto:" + p.To
	params := url.Values{}
	if p.Subject != "" {
		params.Set("subject", p.Subject)
	}
	if p.Body != "" {
		params.Set("body", p.Body)
	}
	if len(params) > 0 {
		out += "?" + params.Encode()
	}
	return out
}

// PhonePayload produces a tel: URI.
type PhonePayload struct {
	Number string `json:"number" validate:"required"`
}

// Validate validates the PhonePayload using the validator.
func (p *PhonePayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *PhonePayload) Encode() string {
	return "tel:" + sanitizeNumber(p.Number)
}

// SMSPayload produces an sms: URI with an optional prefilled message.
type SMSPayload struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message,omitempty"`
}

// Validate validates the SMSPayload using the validator.
func (p *SMSPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *SMSPayload) Encode() string {
	out := "sms:" + sanitizeNumber(p.Number)
	if p.Message != "" {
		out += "?body=" + url.QueryEscape(p.Message)
	}
	return out
}

// WhatsAppPayload produces a wa.me link. The number is reduced to digits,
// as wa.me rejects plus signs and separators.
type WhatsAppPayload struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message,omitempty"`
}

// Validate validates the WhatsAppPayload using the validator.
func (p *WhatsAppPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *WhatsAppPayload) Encode() string {
	out := "https://wa.me/" + digitsOnly(p.Number)
	if p.Message != "" {
		out += "?text=" + url.QueryEscape(p.Message)
	}
	return out
}

// WiFiPayload produces the WIFI: network descriptor understood by phone
// cameras.
type WiFiPayload struct {
	SSID     string `json:"ssid" validate:"required"`
	Password string `json:"password,omitempty"`
	Security string `json:"security,omitempty" validate:"omitempty,oneof=WPA WEP nopass"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// Validate validates the WiFiPayload using the validator.
func (p *WiFiPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *WiFiPayload) Encode() string {
	security := p.Security
	if security == "" {
		security = "WPA"
	}
	var b strings.Builder
	b.WriteString("WIFI:T:" + security + ";S:" + escapeWiFi(p.SSID) + ";")
	if security != "nopass" && p.Password != "" {
		b.WriteString("P:" + escapeWiFi(p.Password) + ";")
	}
	if p.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String()
}

// VCardPayload produces a vCard 3.0 contact card.
type VCardPayload struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name,omitempty"`
	Org       string `json:"org,omitempty"`
	Title     string `json:"title,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Website   string `json:"website,omitempty"`
	Address   string `json:"address,omitempty"`
}

// Validate validates the VCardPayload using the validator.
func (p *VCardPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string. Lines use CRLF per RFC 2426.
func (p *VCardPayload) Encode() string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + escapeVCard(p.LastName) + ";" + escapeVCard(p.FirstName) + ";;;",
		"FN:" + escapeVCard(strings.TrimSpace(p.FirstName+" "+p.LastName)),
	}
	if p.Org != "" {
		lines = append(lines, "ORG:"+escapeVCard(p.Org))
	}
	if p.Title != "" {
		lines = append(lines, "TITLE:"+escapeVCard(p.Title))
	}
	if p.Phone != "" {
		lines = append(lines, "TEL;TYPE=CELL:"+sanitizeNumber(p.Phone))
	}
	if p.Email != "" {
		lines = append(lines, "EMAIL:"+p.Email)
	}
	if p.Website != "" {
		lines = append(lines, "URL:"+p.Website)
	}
	if p.Address != "" {
		lines = append(lines, "ADR;TYPE=HOME:;;"+escapeVCard(p.Address)+";;;;")
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}

// MeCardPayload produces the compact MECARD: contact format.
type MeCardPayload struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Website   string `json:"website,omitempty"`
}

// Validate validates the MeCardPayload using the validator.
func (p *MeCardPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *MeCardPayload) Encode() string {
	var b strings.Builder
	b.WriteString("MECARD:N:" + escapeWiFi(p.LastName) + "," + escapeWiFi(p.FirstName) + ";")
	if p.Phone != "" {
		b.WriteString("TEL:" + sanitizeNumber(p.Phone) + ";")
	}
	if p.Email != "" {
		b.WriteString("EMAIL:" + p.Email + ";")
	}
	if p.Website != "" {
		b.WriteString("URL:" + escapeWiFi(p.Website) + ";")
	}
	b.WriteString(";")
	return b.String()
}

// GeoPayload produces a geo: URI plus per-app map links.
type GeoPayload struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Validate validates the GeoPayload using the validator.
func (p *GeoPayload) Validate() error { return validate.Struct(p) }

// Encode returns the geo: URI payload string.
func (p *GeoPayload) Encode() string {
	return fmt.Sprintf("geo:%s,%s", formatCoord(p.Latitude), formatCoord(p.Longitude))
}

// GoogleMapsLink returns the equivalent Google Maps URL.
func (p *GeoPayload) GoogleMapsLink() string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s,%s", formatCoord(p.Latitude), formatCoord(p.Longitude))
}

// AppleMapsLink returns the equivalent Apple Maps URL.
func (p *GeoPayload) AppleMapsLink() string {
	return fmt.Sprintf("https://maps.apple.com/?ll=%s,%s", formatCoord(p.Latitude), formatCoord(p.Longitude))
}

// WazeLink returns the equivalent Waze navigation URL.
func (p *GeoPayload) WazeLink() string {
	return fmt.Sprintf("https://waze.com/ul?ll=%s,%s&navigate=yes", formatCoord(p.Latitude), formatCoord(p.Longitude))
}

// EventPayload produces an iCalendar VEVENT. Start and End are local
// timestamps in "2006-01-02T15:04" form.
type EventPayload struct {
	Title       string `json:"title" validate:"required"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start" validate:"required,datetime=2006-01-02T15:04"`
	End         string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02T15:04"`
}

// Validate validates the EventPayload using the validator.
func (p *EventPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *EventPayload) Encode() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"SUMMARY:" + escapeVCard(p.Title),
		"DTSTART:" + icsTimestamp(p.Start),
	}
	if p.End != "" {
		lines = append(lines, "DTEND:"+icsTimestamp(p.End))
	}
	if p.Location != "" {
		lines = append(lines, "LOCATION:"+escapeVCard(p.Location))
	}
	if p.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeVCard(p.Description))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

// BitcoinPayload produces a BIP 21 bitcoin: URI.
type BitcoinPayload struct {
	Address string  `json:"address" validate:"required"`
	Amount  float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Label   string  `json:"label,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Validate validates the BitcoinPayload using the validator.
func (p *BitcoinPayload) Validate() error { return validate.Struct(p) }

// Encode returns the payload string.
func (p *BitcoinPayload) Encode() string {
	out := "bitcoin:" + p.Address
	params := url.Values{}
	if p.Amount > 0 {
		params.Set("amount", strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", p.Amount), "0"), "."))
	}
	if p.Label != "" {
		params.Set("label", p.Label)
	}
	if p.Message != "" {
		params.Set("message", p.Message)
	}
	if len(params) > 0 {
		out += "?" + params.Encode()
	}
	return out
}

var nonNumberRe = regexp.MustCompile(`[^0-9+]`)

// sanitizeNumber keeps digits and a leading plus sign.
func sanitizeNumber(number string) string {
	cleaned := nonNumberRe.ReplaceAllString(number, "")
	lead := strings.HasPrefix(cleaned, "+")
	cleaned = strings.ReplaceAll(cleaned, "+", "")
	if lead {
		cleaned = "+" + cleaned
	}
	return cleaned
}

func digitsOnly(number string) string {
	return strings.TrimPrefix(sanitizeNumber(number), "+")
}

// escapeWiFi escapes the characters WIFI: and MECARD: treat as structure.
func escapeWiFi(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)
	return r.Replace(s)
}

// escapeVCard escapes per RFC 2426 text value rules.
func escapeVCard(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)
	return r.Replace(s)
}

// formatCoord trims trailing zeros from a coordinate.
func formatCoord(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// icsTimestamp converts "2006-01-02T15:04" into the basic iCalendar local
// form "20060102T150400".
func icsTimestamp(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, ":", "")
	return s + "00"
}
