package outcome

import (
	"strconv"
	"strings"
)

// Parsed is the result of scanning a piece of agent text for markers.
type Parsed struct {
	SentinelFound bool

	Verdict      Verdict
	VerdictFound bool

	Score      int
	ScoreFound bool

	// Text is the input with every marker and sentinel removed, trimmed.
	Text string
}

// Malformed reports whether the sentinel was present but one of the
// structured fields had to be defaulted.
func (p Parsed) Malformed() bool {
	return p.SentinelFound && (!p.VerdictFound || !p.ScoreFound)
}

// Parse scans text for [KEY:VALUE] markers. Only VERDICT and SCORE keys are
// markers; any other bracketed text is kept as is. When both HIRE and REJECT
// verdicts occur, REJECT wins. The first SCORE marker holding an integer is
// used.
func Parse(text string) Parsed {
	parsed := Parsed{
		SentinelFound: strings.Contains(text, Sentinel),
		Verdict:       DefaultVerdict,
		Score:         DefaultScore,
	}

	var hire, reject bool
	var stripped strings.Builder
	stripped.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] != '[' {
			next := strings.IndexByte(text[i:], '[')
			if next < 0 {
				stripped.WriteString(text[i:])
				break
			}
			stripped.WriteString(text[i : i+next])
			i += next
			continue
		}

		key, value, length, ok := scanMarker(text[i:])
		if !ok {
			stripped.WriteByte('[')
			i++
			continue
		}
		i += length

		switch key {
		case MarkerVerdict:
			switch Verdict(strings.ToUpper(value)) {
			case VerdictHire:
				hire = true
			case VerdictReject:
				reject = true
			}
		case MarkerScore:
			if parsed.ScoreFound {
				continue
			}
			if score, err := strconv.Atoi(value); err == nil {
				parsed.Score = score
				parsed.ScoreFound = true
			}
		}
	}

	switch {
	case reject:
		parsed.Verdict, parsed.VerdictFound = VerdictReject, true
	case hire:
		parsed.Verdict, parsed.VerdictFound = VerdictHire, true
	}

	parsed.Text = strings.TrimSpace(strings.ReplaceAll(stripped.String(), Sentinel, ""))
	return parsed
}

// scanMarker reads a marker at the start of s, which must begin with '['.
func scanMarker(s string) (key, value string, length int, ok bool) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", "", 0, false
	}
	body := s[1:end]
	if strings.ContainsRune(body, '[') {
		return "", "", 0, false
	}

	rawKey, rawValue, found := strings.Cut(body, ":")
	if !found {
		return "", "", 0, false
	}

	key = strings.ToUpper(strings.TrimSpace(rawKey))
	if key != MarkerVerdict && key != MarkerScore {
		return "", "", 0, false
	}
	return key, strings.TrimSpace(rawValue), end + 1, true
}
