package cli

import (
	"fmt"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/spf13/pflag"
)

// languageValue is a pflag.Value accepting only supported locale codes.
type languageValue struct {
	lang *domain.Language
}

var _ pflag.Value = (*languageValue)(nil)

func newLanguageValue(p *domain.Language) *languageValue {
	return &languageValue{lang: p}
}

func (v *languageValue) String() string {
	if v.lang == nil {
		return ""
	}
	return string(*v.lang)
}

func (v *languageValue) Set(s string) error {
	l, err := domain.ParseLanguage(s)
	if err != nil {
		return err
	}
	*v.lang = l
	return nil
}

func (v *languageValue) Type() string { return "language" }

// policyValue is a pflag.Value for geo.Policy.
type policyValue struct {
	policy *geo.Policy
}

var _ pflag.Value = (*policyValue)(nil)

func (v *policyValue) String() string {
	if v.policy == nil {
		return ""
	}
	return string(*v.policy)
}

func (v *policyValue) Set(s string) error {
	p, err := geo.ParsePolicy(s)
	if err != nil {
		return err
	}
	*v.policy = p
	return nil
}

func (v *policyValue) Type() string { return "policy" }

// dateValue is a pflag.Value for YYYY-MM-DD dates.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (v *dateValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.DateOnly)
}

func (v *dateValue) Set(s string) error {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	*v.t = t
	return nil
}

func (v *dateValue) Type() string { return "date" }

// addLangFlag registers --lang. Use langOr to read it.
func addLangFlag(fs *pflag.FlagSet, p *domain.Language) {
	fs.Var(newLanguageValue(p), "lang", "Display language (en, hi, gu); defaults to your preference")
}

// langOr returns the --lang value if it was given, else fallback.
func langOr(fs *pflag.FlagSet, lang, fallback domain.Language) domain.Language {
	if fs.Changed("lang") {
		return lang
	}
	return fallback
}
