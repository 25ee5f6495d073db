package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	yaml "go.yaml.in/yaml/v3"

	"github.com/hamed0406/linewatch/internal/domain"
)

type linesFile struct {
	Lines []domain.LineConfig `yaml:"lines"`
}

// DefaultLines is used when no line file is configured.
//
// JR East only publishes delays of 15 minutes or more, and its per-line page
// carries no disruption text at all under normal service, so silence is
// treated as normal there. Tokyo Metro always prints an explicit normal
// message, so silence there means the page changed.
func DefaultLines() []domain.LineConfig {
	return []domain.LineConfig{
		{
			Name:     "京葉線",
			Operator: "JR東日本",
			Source:   "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=keiyoline",
			Marker:   "🚃",
			Keywords: domain.KeywordSet{
				Disruption: []domain.Rule{
					{Keyword: "運転見合わせ", Severity: domain.SeveritySuspended},
					{Keyword: "運転を見合わせ", Severity: domain.SeveritySuspended},
					{Keyword: "運休", Severity: domain.SeveritySuspended},
					{Keyword: "直通運転を中止", Severity: domain.SeveritySuspended},
					{Keyword: "遅延", Severity: domain.SeverityDelayed},
					{Keyword: "遅れ", Severity: domain.SeverityDelayed},
					{Keyword: "ダイヤが乱れ", Severity: domain.SeverityDelayed},
					{Keyword: "ダイヤ乱れ", Severity: domain.SeverityDelayed},
				},
				Normal: []string{"平常運転", "平常通り運転"},
				Ignore: []string{"遅延証明書"},
			},
			SilenceIsNormal: true,
		},
		{
			Name:     "東西線",
			Operator: "東京メトロ",
			Source:   "https://www.tokyometro.jp/unkou/history/touzai.html",
			Marker:   "🚇",
			Keywords: domain.KeywordSet{
				Disruption: []domain.Rule{
					{Keyword: "運転を見合わせ", Severity: domain.SeveritySuspended},
					{Keyword: "運転見合わせ", Severity: domain.SeveritySuspended},
					{Keyword: "運休", Severity: domain.SeveritySuspended},
					{Keyword: "折返し運転", Severity: domain.SeverityDelayed},
					{Keyword: "遅延", Severity: domain.SeverityDelayed},
					{Keyword: "遅れ", Severity: domain.SeverityDelayed},
					{Keyword: "ダイヤが乱れ", Severity: domain.SeverityDelayed},
					{Keyword: "ダイヤ乱れ", Severity: domain.SeverityDelayed},
				},
				Normal: []string{"平常どおり運転", "平常運転"},
				Ignore: []string{"遅延証明書"},
			},
			SilenceIsNormal: false,
		},
	}
}

// LoadLines reads the YAML line file at path. An empty path yields
// DefaultLines. Unknown keys are rejected so typos surface at startup.
func LoadLines(path string) ([]domain.LineConfig, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultLines(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lines file: %w", err)
	}
	lines, err := ParseLines(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

func ParseLines(data []byte) ([]domain.LineConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f linesFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse lines: %w", err)
	}
	if err := ValidateLines(f.Lines); err != nil {
		return nil, err
	}
	return f.Lines, nil
}

// ValidateLines returns every problem in the line list, combined.
func ValidateLines(lines []domain.LineConfig) error {
	if len(lines) == 0 {
		return errors.New("no lines configured")
	}
	var err error
	seen := make(map[string]bool, len(lines))
	for i, l := range lines {
		where := fmt.Sprintf("line %d (%s)", i+1, l.Name)
		if strings.TrimSpace(l.Name) == "" {
			err = multierr.Append(err, fmt.Errorf("line %d: name is required", i+1))
		} else if seen[l.Name] {
			err = multierr.Append(err, fmt.Errorf("%s: duplicate name", where))
		}
		seen[l.Name] = true
		if strings.TrimSpace(l.Source) == "" {
			err = multierr.Append(err, fmt.Errorf("%s: source is required", where))
		}
		if len(l.Keywords.Disruption) == 0 {
			err = multierr.Append(err, fmt.Errorf("%s: at least one disruption keyword is required", where))
		}
		for _, r := range l.Keywords.Disruption {
			switch r.Severity {
			case domain.SeverityInfer, domain.SeverityDelayed, domain.SeveritySuspended:
			default:
				err = multierr.Append(err, fmt.Errorf("%s: keyword %q has unknown severity %q", where, r.Keyword, r.Severity))
			}
		}
		if len(l.Keywords.Normal) == 0 && !l.SilenceIsNormal {
			err = multierr.Append(err, fmt.Errorf("%s: needs normal keywords or silence_is_normal", where))
		}
	}
	return err
}
