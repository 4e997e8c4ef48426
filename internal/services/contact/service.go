package contact

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind classifies a free-form contact string so the caller knows which link
// schemes apply.
type Kind string

const (
	KindNone    Kind = ""
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindUnknown Kind = "unknown"
)

// Option is a single actionable contact link.
type Option struct {
	Label string `json:"label"`
	HRef  string `json:"href"`
}

var (
	naPhoneRe      = regexp.MustCompile(`^(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	cleanedPhoneRe = regexp.MustCompile(`^\+?\d{10,12}$`)
	phoneStripRe   = regexp.MustCompile(`[^\d+]`)
)

// Classify decides whether a contact string looks like an email address, a
// phone number, or neither. The heuristics are loose on purpose: posters type
// whatever they like and a wrong guess only changes which buttons render.
func Classify(raw string) Kind {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return KindNone
	}

	if strings.Contains(raw, "@") && strings.Contains(raw, ".") {
		return KindEmail
	}

	if naPhoneRe.MatchString(raw) {
		return KindPhone
	}
	if cleanedPhoneRe.MatchString(stripPhone(raw)) {
		return KindPhone
	}

	return KindUnknown
}

// Options builds every link that makes sense for the contact string: mailto
// for emails, sms/whatsapp/tel for phone numbers, nothing otherwise. The item
// title and location ride along in the prefilled message.
func Options(contactInfo, title, location string) (Kind, []Option) {
	kind := Classify(contactInfo)
	switch kind {
	case KindEmail:
		return kind, []Option{
			{Label: "Email", HRef: EmailLink(contactInfo, title, location)},
		}
	case KindPhone:
		return kind, []Option{
			{Label: "Text", HRef: SMSLink(contactInfo, title, location)},
			{Label: "WhatsApp", HRef: WhatsAppLink(contactInfo, title, location)},
			{Label: "Call", HRef: TelLink(contactInfo)},
		}
	default:
		return kind, nil
	}
}

func EmailLink(address, title, location string) string {
	body := "Hi!\n\nI saw your posting for \"" + title + "\" on Curb Alert and I'm interested in picking it up.\n\nIs it still available?\n\nLocation: " + location + "\n\nThanks!"
	return "mailto:" + address +
		"?subject=" + escapeMessage("Interested in: "+title) +
		"&body=" + escapeMessage(body)
}

func SMSLink(phone, title, location string) string {
	message := "Hi! Interested in \"" + title + "\" from Curb Alert. Still available? Location: " + location
	return "sms:" + strings.TrimPrefix(stripPhone(phone), "+") + "?body=" + escapeMessage(message)
}

// WhatsAppLink renders a wa.me URL. Numbers without a country code are
// assumed to be North American.
func WhatsAppLink(phone, title, location string) string {
	digits := strings.TrimPrefix(stripPhone(phone), "+")
	if len(digits) == 10 {
		digits = "1" + digits
	}
	message := "Hi! I'm interested in \"" + title + "\" that you posted on Curb Alert. Is it still available? Location: " + location
	return "https://wa.me/" + digits + "?text=" + escapeMessage(message)
}

func TelLink(phone string) string {
	return "tel:" + phone
}

// FormatPhoneNumber pretty-prints ten and eleven digit North American numbers
// and leaves anything else untouched.
func FormatPhoneNumber(phone string) string {
	digits := strings.TrimPrefix(stripPhone(phone), "+")

	switch {
	case len(digits) == 10:
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	default:
		return phone
	}
}

// stripPhone removes everything except digits, keeping a leading plus.
func stripPhone(phone string) string {
	cleaned := phoneStripRe.ReplaceAllString(strings.TrimSpace(phone), "")
	if plus := strings.HasPrefix(cleaned, "+"); strings.Contains(cleaned, "+") {
		cleaned = strings.ReplaceAll(cleaned, "+", "")
		if plus {
			cleaned = "+" + cleaned
		}
	}
	return cleaned
}

// escapeMessage percent-encodes a human message for a URL query. QueryEscape
// uses + for spaces, which mail and messaging apps do not all unescape, so
// spaces become %20 instead.
func escapeMessage(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
