package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Result is the structured outcome of extracting one message. Empty strings
// and a zero rate mean "not found".
type Result struct {
	ServerName  string
	MoneyPerSec int64
	Players     string
	JobID       string
}

var (
	// ratePat matches "$1.5K", "2.3M", "500" — an optional currency sign,
	// a decimal number, and an optional magnitude suffix.
	ratePat = regexp.MustCompile(`\$?([0-9]+(?:\.[0-9]+)?)([KkMmBbTtQq]?)`)

	// barePat is the lenient fallback: the first number anywhere.
	barePat = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

	whitespacePat = regexp.MustCompile(`\s+`)

	// nameFieldPat and friends classify embed fields by their *name*.
	nameFieldPat    = regexp.MustCompile(`(?i)name`)
	moneyFieldPat   = regexp.MustCompile(`(?i)money|per sec|💰|generation|📈`)
	playersFieldPat = regexp.MustCompile(`(?i)players|👥`)
	jobFieldPat     = regexp.MustCompile(`(?i)job`)

	// teleportPat captures the instance ID argument of a
	// TeleportToPlaceInstance(placeId, "jobId") call in an embed description.
	teleportPat = regexp.MustCompile("TeleportToPlaceInstance\\([^)]+,\\s*[\"'`]?([^\"'`,)\\s]+)")

	// uuidPat matches UUID-shaped tokens loosely (hyphenated hex runs).
	uuidPat = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F-]{4,}-[0-9a-fA-F]{8,}`)
)

var rateMultipliers = map[string]float64{
	"":  1,
	"K": 1e3,
	"M": 1e6,
	"B": 1e9,
	"T": 1e12,
	"Q": 1e15,
}

// Rate parses an earnings-rate string such as "*1.2M*/s", "$1.5K/s" or
// "**500**" into a non-negative per-second integer. Emphasis markers,
// whitespace and a trailing "/s" or "per sec" unit are stripped before
// matching. When the primary pattern misses, the first bare number found is
// used; when nothing numeric is present the rate is 0.
func Rate(raw string) int64 {
	if raw == "" {
		return 0
	}
	s := strings.ReplaceAll(raw, "*", "")
	s = whitespacePat.ReplaceAllString(s, "")
	s = strings.Replace(s, "/s", "", 1)
	s = strings.Replace(s, "persec", "", 1)

	m := ratePat.FindStringSubmatch(s)
	if m == nil {
		if bare := barePat.FindString(s); bare != "" {
			f, _ := strconv.ParseFloat(bare, 64)
			return int64(f)
		}
		return 0
	}

	num, _ := strconv.ParseFloat(m[1], 64)
	mult, ok := rateMultipliers[strings.ToUpper(m[2])]
	if !ok {
		mult = 1
	}
	return int64(math.Floor(num * mult))
}

// Extract pulls a Result out of one message. See the package comment for
// the extraction order; within an embed the field name decides the field's
// meaning and the first matching keyword set wins.
func Extract(msg *Message) Result {
	var res Result

	// A bare message body that looks like an opaque identifier seeds the
	// job ID. Embed-derived values found below take precedence.
	if strings.TrimSpace(msg.Content) != "" {
		candidate := strings.TrimSpace(strings.ReplaceAll(msg.Content, "`", ""))
		if len(candidate) >= 10 && (strings.Contains(candidate, "-") || strings.Contains(candidate, "/")) {
			res.JobID = candidate
		}
	}

	for i := range msg.Embeds {
		embed := &msg.Embeds[i]
		for _, field := range embed.Fields {
			name := strings.TrimSpace(field.Name)
			value := strings.TrimSpace(field.Value)

			switch {
			case nameFieldPat.MatchString(name):
				res.ServerName = value
			case moneyFieldPat.MatchString(name):
				res.MoneyPerSec = Rate(value)
			case playersFieldPat.MatchString(name):
				res.Players = strings.ReplaceAll(value, "*", "")
			case jobFieldPat.MatchString(name):
				if clean := strings.TrimSpace(strings.ReplaceAll(value, "`", "")); clean != "" {
					res.JobID = jobToken(clean)
				}
			}
		}

		if res.ServerName == "" && embed.Title != "" {
			res.ServerName = embed.Title
		}
		if res.JobID == "" && embed.Description != "" {
			if m := teleportPat.FindStringSubmatch(embed.Description); m != nil {
				res.JobID = m[1]
			}
			// The UUID scan runs unconditionally and overrides the teleport
			// capture when both hit.
			if m := uuidPat.FindString(embed.Description); m != "" {
				res.JobID = m
			}
		}
	}

	return res
}

// jobToken picks the most identifier-like token from a cleaned field value:
// the first whitespace-delimited token longer than 8 characters, or the
// whole value when no token qualifies.
func jobToken(clean string) string {
	for _, part := range strings.Fields(clean) {
		if len(part) > 8 {
			return part
		}
	}
	return clean
}
