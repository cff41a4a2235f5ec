package toon

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// EstimateTokens gives a rough token count for s, approximating how an
// LLM tokenizer would split it: runs of letters/digits count as roughly
// 4 characters per token, each punctuation character counts as one
// token, and whitespace only separates words. This is a heuristic for comparing
// formats, not a tokenizer.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	tokens := 0
	runeLen := 0
	flushWord := func() {
		if runeLen == 0 {
			return
		}
		tokens += (runeLen + 3) / 4
		runeLen = 0
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			runeLen++
		case unicode.IsSpace(r):
			flushWord()
		default:
			flushWord()
			tokens++
		}
	}
	flushWord()
	return tokens
}

// SavingsReport compares TOON's encoded size against the same value
// encoded as JSON.
type SavingsReport struct {
	ToonChars    int
	JSONChars    int
	ToonTokens   int
	JSONTokens   int
	SavedPercent float64 // (1 - ToonTokens/JSONTokens) * 100
}

// Savings encodes v both as TOON and as JSON and reports the difference
// in character and estimated-token counts.
func Savings(v *Value, opts EncodeOptions) (SavingsReport, error) {
	toonText, err := Encode(v, opts)
	if err != nil {
		return SavingsReport{}, err
	}
	jsonBytes, err := json.Marshal(ToAny(v))
	if err != nil {
		return SavingsReport{}, err
	}
	jsonText := string(jsonBytes)

	toonTokens := EstimateTokens(toonText)
	jsonTokens := EstimateTokens(jsonText)

	report := SavingsReport{
		ToonChars:  len([]rune(toonText)),
		JSONChars:  len([]rune(jsonText)),
		ToonTokens: toonTokens,
		JSONTokens: jsonTokens,
	}
	if jsonTokens > 0 {
		report.SavedPercent = (1 - float64(toonTokens)/float64(jsonTokens)) * 100
	}
	return report, nil
}

// String renders the report as a one-line human-readable summary.
func (r SavingsReport) String() string {
	var b strings.Builder
	b.WriteString("toon: ")
	b.WriteString(strconv.Itoa(r.ToonTokens))
	b.WriteString(" tokens, json: ")
	b.WriteString(strconv.Itoa(r.JSONTokens))
	b.WriteString(" tokens (")
	b.WriteString(strconv.Itoa(int(r.SavedPercent)))
	b.WriteString("% saved)")
	return b.String()
}
