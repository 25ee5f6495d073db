// Package classify maps normalized status-page text to a line status using a
// source-specific keyword table. The first matching rule wins.
package classify

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/hamed0406/linewatch/internal/domain"
)

const (
	// MaxFragmentRunes bounds the excerpt quoted from the page.
	MaxFragmentRunes = 120
	// context kept in front of the keyword when a fragment must be windowed
	leadRunes = 40

	MessageNormal  = "平常運転です"
	MessageSilence = "遅延・運転見合わせの情報は掲載されていません"
	MessageUnknown = "運行状況を判定できませんでした（ページ構成が変更された可能性があります）"
)

// suspensionTerms mark a keyword as meaning "no service" rather than "late".
var suspensionTerms = []string{
	"見合わせ", "見合せ", "運休", "運転中止", "不通", "中止",
	"cancel", "suspend", "held",
}

// InferSeverity returns the severity implied by a keyword that has no
// explicit hint in the configuration.
func InferSeverity(keyword string) domain.Severity {
	k := strings.ToLower(keyword)
	for _, term := range suspensionTerms {
		if strings.Contains(k, term) {
			return domain.SeveritySuspended
		}
	}
	return domain.SeverityDelayed
}

type rule struct {
	keyword string
	status  domain.Status
}

// Classifier is an immutable, compiled keyword table for one source.
type Classifier struct {
	disruption      []rule
	normal          []string
	ignore          *strings.Replacer
	silenceIsNormal bool
}

func New(set domain.KeywordSet, silenceIsNormal bool) *Classifier {
	c := &Classifier{silenceIsNormal: silenceIsNormal}
	for _, r := range set.Disruption {
		kw := norm.NFKC.String(strings.TrimSpace(r.Keyword))
		if kw == "" {
			continue
		}
		sev := r.Severity
		if sev == domain.SeverityInfer {
			sev = InferSeverity(kw)
		}
		st := domain.StatusDelayed
		if sev == domain.SeveritySuspended {
			st = domain.StatusSuspended
		}
		c.disruption = append(c.disruption, rule{keyword: kw, status: st})
	}
	for _, n := range set.Normal {
		if kw := norm.NFKC.String(strings.TrimSpace(n)); kw != "" {
			c.normal = append(c.normal, kw)
		}
	}
	var pairs []string
	for _, ig := range set.Ignore {
		if p := norm.NFKC.String(strings.TrimSpace(ig)); p != "" {
			pairs = append(pairs, p, " ")
		}
	}
	if len(pairs) > 0 {
		c.ignore = strings.NewReplacer(pairs...)
	}
	return c
}

// Classify never fails; text that matches nothing falls through to the
// source's silence policy.
func (c *Classifier) Classify(text string) (domain.Status, string) {
	if c.ignore != nil {
		text = c.ignore.Replace(text)
	}
	for _, r := range c.disruption {
		if i := strings.Index(text, r.keyword); i >= 0 {
			return r.status, disruptionMessage(text, i, r.keyword)
		}
	}
	for _, kw := range c.normal {
		if strings.Contains(text, kw) {
			return domain.StatusNormal, MessageNormal
		}
	}
	if c.silenceIsNormal {
		return domain.StatusNormal, MessageSilence
	}
	return domain.StatusUnknown, MessageUnknown
}

func disruptionMessage(text string, at int, keyword string) string {
	frag := fragment(text, at, keyword)
	if frag == "" || frag == keyword {
		return Truncate("「"+keyword+"」に関する運行情報が掲載されています", domain.MaxMessageRunes)
	}
	return frag
}

// fragment returns the sentence around byte offset at, windowed so the
// keyword survives truncation.
func fragment(text string, at int, keyword string) string {
	start := strings.LastIndexAny(text[:at], "。！？!?\n")
	if start < 0 {
		start = 0
	} else {
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	end := len(text)
	rest := at + len(keyword)
	if j := strings.IndexAny(text[rest:], "。！？!?\n"); j >= 0 {
		_, size := utf8.DecodeRuneInString(text[rest+j:])
		end = rest + j + size
	}

	// step back in bytes so invalid UTF-8 cannot skew the offset
	lead := at
	for n := 0; n < leadRunes && lead > start; n++ {
		_, size := utf8.DecodeLastRuneInString(text[start:lead])
		lead -= size
	}
	start = lead
	return Truncate(strings.TrimSpace(text[start:end]), MaxFragmentRunes)
}

// Truncate cuts s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
