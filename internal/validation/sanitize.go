package validation

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SanitizeUser normalizes user input in place. Passwords are left untouched.
func SanitizeUser(in *UserInput) {
	in.ID = strings.TrimSpace(in.ID)
	in.Email = SanitizeEmail(in.Email)
	in.FirstName = StripTags(in.FirstName)
	in.LastName = StripTags(in.LastName)
}

// SanitizeLogin normalizes login input in place.
func SanitizeLogin(in *LoginInput) {
	in.Email = SanitizeEmail(in.Email)
}

// SanitizeTicket normalizes ticket input in place.
func SanitizeTicket(in *TicketInput) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = StripTags(in.Title)
	in.Description = StripTags(in.Description)
}

// SanitizeStatus normalizes a status change in place.
func SanitizeStatus(in *StatusInput) {
	in.ID = strings.TrimSpace(in.ID)
	in.Status = domain.TicketStatus(strings.ToLower(strings.TrimSpace(string(in.Status))))
}

// SanitizeReply normalizes reply input in place.
func SanitizeReply(in *ReplyInput) {
	in.ID = strings.TrimSpace(in.ID)
	in.TicketID = strings.TrimSpace(in.TicketID)
	in.Message = StripTags(in.Message)
}

// SanitizePasswordReset normalizes reset input in place.
func SanitizePasswordReset(in *ResetInput) {
	in.Token = strings.TrimSpace(in.Token)
}

// SanitizeEmail trims, lowercases and drops characters not allowed in an address.
func SanitizeEmail(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("!#$%&'*+-=?^_`{|}~@.[]", r):
			return r
		}
		return -1
	}, strings.ToLower(strings.TrimSpace(raw)))
}

// StripTags removes markup and returns the trimmed text content. Entities are
// kept as written so escaped markup never turns into tags.
func StripTags(raw string) string {
	if !strings.ContainsAny(raw, "<>") {
		return strings.TrimSpace(raw)
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// ParseID validates and canonicalizes an entity id.
func ParseID(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.NewValidationError(field, field+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", domain.NewValidationError(field, field+" must be a valid id")
	}
	return id.String(), nil
}

// MaxPage bounds page numbers so offsets stay far from integer overflow.
const MaxPage = 100000

// ParsePage coerces a page query value, defaulting to 1 and capping at MaxPage.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}
