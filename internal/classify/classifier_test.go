package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hamed0406/linewatch/internal/domain"
)

func jrSet() domain.KeywordSet {
	return domain.KeywordSet{
		Disruption: []domain.Rule{
			{Keyword: "運転見合わせ", Severity: domain.SeveritySuspended},
			{Keyword: "運休"},
			{Keyword: "遅延"},
			{Keyword: "遅れ"},
			{Keyword: "ダイヤが乱れ"},
		},
		Normal: []string{"平常運転", "平常通り"},
		Ignore: []string{"遅延証明書"},
	}
}

func TestInferSeverity(t *testing.T) {
	cases := []struct {
		keyword string
		want    domain.Severity
	}{
		{"運転見合わせ", domain.SeveritySuspended},
		{"運転を見合せ", domain.SeveritySuspended},
		{"運休", domain.SeveritySuspended},
		{"直通運転中止", domain.SeveritySuspended},
		{"Service Cancelled", domain.SeveritySuspended},
		{"trains held", domain.SeveritySuspended},
		{"遅延", domain.SeverityDelayed},
		{"遅れ", domain.SeverityDelayed},
		{"ダイヤが乱れ", domain.SeverityDelayed},
	}
	for _, tc := range cases {
		if got := InferSeverity(tc.keyword); got != tc.want {
			t.Fatalf("InferSeverity(%q) = %q, want %q", tc.keyword, got, tc.want)
		}
	}
}

func TestClassify_DisruptionNeverNormal(t *testing.T) {
	c := New(jrSet(), true)
	texts := []string{
		"京葉線 強風の影響で、一部列車に遅れが出ています",
		"平常運転 ただし一部列車に遅延",
		"ダイヤが乱れています。平常通り運転しています",
		"遅れ",
	}
	for _, txt := range texts {
		st, msg := c.Classify(txt)
		if st != domain.StatusDelayed {
			t.Fatalf("Classify(%q) = %s, want delayed", txt, st)
		}
		if msg == "" {
			t.Fatalf("Classify(%q): empty message", txt)
		}
	}
}

func TestClassify_SuspensionWins(t *testing.T) {
	c := New(jrSet(), false)
	st, _ := c.Classify("運転見合わせ")
	if st != domain.StatusSuspended {
		t.Fatalf("want suspended, got %s", st)
	}
	// inferred from the keyword text
	st, _ = c.Classify("本日は一部列車が運休となります")
	if st != domain.StatusSuspended {
		t.Fatalf("want suspended for 運休, got %s", st)
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	c := New(jrSet(), false)
	st, msg := c.Classify("一部列車に遅れ。現在、蘇我～東京駅間で運転見合わせ")
	if st != domain.StatusSuspended {
		t.Fatalf("earlier rule should win regardless of text position, got %s", st)
	}
	if !strings.Contains(msg, "運転見合わせ") {
		t.Fatalf("message should quote the matched fragment: %q", msg)
	}
	if strings.Contains(msg, "一部列車に遅れ") {
		t.Fatalf("message should stop at the sentence boundary: %q", msg)
	}
}

func TestClassify_NormalOnly(t *testing.T) {
	for _, silence := range []bool{true, false} {
		c := New(jrSet(), silence)
		st, msg := c.Classify("京葉線 平常運転 お知らせ")
		if st != domain.StatusNormal || msg != MessageNormal {
			t.Fatalf("silence=%v: got (%s, %q)", silence, st, msg)
		}
	}
}

func TestClassify_SilencePolicy(t *testing.T) {
	texts := []string{"", "京葉線 運行情報 トップページ"}
	for _, txt := range texts {
		st, msg := New(jrSet(), true).Classify(txt)
		if st != domain.StatusNormal || msg != MessageSilence {
			t.Fatalf("silence-is-normal %q: got (%s, %q)", txt, st, msg)
		}
		st, msg = New(jrSet(), false).Classify(txt)
		if st != domain.StatusUnknown || msg != MessageUnknown {
			t.Fatalf("strict %q: got (%s, %q)", txt, st, msg)
		}
	}
}

func TestClassify_IgnorePhrases(t *testing.T) {
	c := New(jrSet(), false)
	st, _ := c.Classify("遅延証明書はこちら 平常運転")
	if st != domain.StatusNormal {
		t.Fatalf("ignored boilerplate must not count as a delay, got %s", st)
	}
}

func TestClassify_KeywordsAreNFKCNormalized(t *testing.T) {
	set := domain.KeywordSet{
		Disruption: []domain.Rule{{Keyword: "１５分以上の遅れ"}},
	}
	st, _ := New(set, false).Classify("現在15分以上の遅れが発生しています")
	if st != domain.StatusDelayed {
		t.Fatalf("want delayed, got %s", st)
	}
}

func TestClassify_FallbackMessageNamesKeyword(t *testing.T) {
	st, msg := New(jrSet(), false).Classify("運転見合わせ")
	if st != domain.StatusSuspended {
		t.Fatalf("want suspended, got %s", st)
	}
	if msg != "「運転見合わせ」に関する運行情報が掲載されています" {
		t.Fatalf("unexpected fallback: %q", msg)
	}
}

func TestClassify_LongFragmentIsBounded(t *testing.T) {
	pad := strings.Repeat("お知らせ", 80)
	txt := pad + "強風の影響で遅れが出ています" + pad
	_, msg := New(jrSet(), false).Classify(txt)
	if n := utf8.RuneCountInString(msg); n > MaxFragmentRunes {
		t.Fatalf("message has %d runes, max %d", n, MaxFragmentRunes)
	}
	if !strings.Contains(msg, "遅れ") {
		t.Fatalf("window must keep the keyword: %q", msg)
	}
}

func TestClassify_EmptyKeywordsSkipped(t *testing.T) {
	set := domain.KeywordSet{
		Disruption: []domain.Rule{{Keyword: "  "}},
		Normal:     []string{""},
	}
	st, _ := New(set, false).Classify("anything")
	if st != domain.StatusUnknown {
		t.Fatalf("blank keywords must not match, got %s", st)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abc", 5); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("あいうえおか", 4); got != "あいう…" {
		t.Fatalf("got %q", got)
	}
}

func TestClassify_InvalidUTF8BeforeKeyword(t *testing.T) {
	txt := strings.Repeat("\xff", 45) + "強風の影響で遅れが出ています"
	st, msg := New(jrSet(), false).Classify(txt)
	if st != domain.StatusDelayed {
		t.Fatalf("want delayed, got %s", st)
	}
	if !strings.Contains(msg, "強風の影響で遅れが出ています") {
		t.Fatalf("fragment garbled: %q", msg)
	}

	// mixed valid and invalid bytes must not split a character
	txt = strings.Repeat("あ\xff", 30) + "遅延しています"
	_, msg = New(jrSet(), false).Classify(txt)
	if !strings.HasPrefix(msg, "あ") || !strings.HasSuffix(msg, "遅延しています") {
		t.Fatalf("window must start on a character boundary: %q", msg)
	}
}

func TestClassify_FallbackMessageIsCapped(t *testing.T) {
	kw := strings.Repeat("遅", 120)
	set := domain.KeywordSet{Disruption: []domain.Rule{{Keyword: kw}}}
	st, msg := New(set, false).Classify(kw)
	if st != domain.StatusDelayed {
		t.Fatalf("want delayed, got %s", st)
	}
	if n := utf8.RuneCountInString(msg); n > domain.MaxMessageRunes {
		t.Fatalf("message has %d runes", n)
	}
}
