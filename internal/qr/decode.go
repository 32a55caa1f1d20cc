package qr

import (
	"encoding/json"
	"fmt"
)

// Payload is implemented by every format's request body.
type Payload interface {
	Validate() error
	Encode() string
}

// ErrUnknownFormat is returned for a format path segment with no formatter.
type ErrUnknownFormat struct {
	Format string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown qr format: %s", e.Format)
}

// Decode unmarshals and validates a request body for the given format.
func Decode(format Format, body []byte) (Payload, error) {
	var payload Payload
	switch format {
	case FormatURL:
		payload = &URLPayload{}
	case FormatEmail:
		payload = &EmailPayload{}
	case FormatPhone:
		payload = &PhonePayload{}
	case FormatSMS:
		payload = &SMSPayload{}
	case FormatWhatsApp:
		payload = &WhatsAppPayload{}
	case FormatWiFi:
		payload = &WiFiPayload{}
	case FormatVCard:
		payload = &VCardPayload{}
	case FormatMeCard:
		payload = &MeCardPayload{}
	case FormatGeo:
		payload = &GeoPayload{}
	case FormatEvent:
		payload = &EventPayload{}
	case FormatBitcoin:
		payload = &BitcoinPayload{}
	default:
		return nil, &ErrUnknownFormat{Format: string(format)}
	}
	if err := json.Unmarshal(body, payload); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}
