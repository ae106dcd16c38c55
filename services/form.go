package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tournament-platform/assets"
)

// parseData decodes the JSON "data" form field of a multipart request, or the
// whole body for application/json requests. An absent payload is allowed only
// when optional is set.
func parseData(c *fiber.Ctx, dst any, optional bool) error {
	var raw []byte
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		raw = c.Body()
	} else {
		raw = []byte(c.FormValue("data"))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if optional {
			return nil
		}
		return badInput("data field is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return badInput("data must be valid JSON: " + err.Error())
	}
	return nil
}

// formFile returns the uploaded part for field, or nil when none was sent.
func formFile(c *fiber.Ctx, field string) *assets.File {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return assets.FileFromHeader(fh)
}

// incomingFile is formFile for updates. Clients echo the current URL in
// <field>_name to say the image is unchanged.
func incomingFile(c *fiber.Ctx, field, currentURL string) *assets.File {
	if marker := c.FormValue(field + "_name"); marker != "" && marker == currentURL {
		return nil
	}
	return formFile(c, field)
}

// number accepts JSON numbers and numeric strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid number %q", s)
	}
	*n = number(f)
	return nil
}

// Count returns n as a non-negative whole number that fits an int32 column.
func (n number) Count(field string) (int, error) {
	f := float64(n)
	if f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, badInput(field + " must be a non-negative whole number")
	}
	return int(f), nil
}

func (n number) Float() float64 { return float64(n) }

// parseDate accepts a calendar date or an RFC3339 timestamp.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD or RFC3339)", s)
}

// properName trims and title-cases a person or team name, leaving the rest
// of each word as typed.
func properName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.English, cases.NoLower).String(s)
}

func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
