package csv

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds CSV-specific configuration.
// Parsed from core.SourceConfig.Params using mapstructure.
type Params struct {
	// Delimiter is a single character field separator (default ",")
	Delimiter string `mapstructure:"delimiter"`

	// Comment marks lines to skip when they start with this character
	Comment string `mapstructure:"comment"`

	// LazyQuotes allows quotes to appear in unquoted fields
	LazyQuotes bool `mapstructure:"lazy_quotes"`

	// TrimLeadingSpace ignores leading white space in a field
	TrimLeadingSpace bool `mapstructure:"trim_leading_space"`
}

// ParseParams decodes the raw params map into Params.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid csv params: %w", err)
	}

	for key, v := range map[string]string{"delimiter": p.Delimiter, "comment": p.Comment} {
		if utf8.RuneCountInString(v) > 1 {
			return nil, fmt.Errorf("invalid csv params: %s must be a single character, got %q", key, v)
		}
	}
	if p.Delimiter != "" && p.Delimiter == p.Comment {
		return nil, fmt.Errorf("invalid csv params: delimiter and comment must differ")
	}
	return p, nil
}

func (p *Params) delimiter() rune {
	r, _ := utf8.DecodeRuneInString(p.Delimiter)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

func (p *Params) comment() rune {
	r, _ := utf8.DecodeRuneInString(p.Comment)
	if r == utf8.RuneError {
		return 0
	}
	return r
}
