package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/hamed0406/statusdash/internal/domain"
)

// EnvPrefix scopes environment overrides of top-level document keys,
// e.g. STATUSDASH_STALE_TIMEOUT_SECONDS.
const EnvPrefix = "STATUSDASH"

type CheckConfig struct {
	Name      string  `mapstructure:"name"`
	URL       string  `mapstructure:"url"`
	CheckType string  `mapstructure:"check_type"`
	Keyword   *string `mapstructure:"keyword"`
}

type EnvironmentConfig struct {
	Name   string        `mapstructure:"name"`
	Checks []CheckConfig `mapstructure:"checks"`
}

// Document is the dashboard definition: what to probe and how long a
// result stays fresh. It is loaded once at startup.
type Document struct {
	ProjectName         string              `mapstructure:"project_name"`
	StaleTimeoutSeconds int                 `mapstructure:"stale_timeout_seconds"`
	Environments        []EnvironmentConfig `mapstructure:"environments"`
}

// LoadDocument reads and validates the document at path. The format is
// taken from the file extension (json, yaml, yml, toml).
func LoadDocument(path string) (*Document, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decode(v)
}

// ParseDocument is LoadDocument for an in-memory document.
func ParseDocument(r io.Reader, format string) (*Document, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("parse %s document: %w", format, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Document, error) {
	for _, key := range []string{"project_name", "stale_timeout_seconds"} {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("invalid document: %s is required", key)
		}
	}

	stale, err := integerSetting(v, "stale_timeout_seconds")
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.StaleTimeoutSeconds = stale
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &doc, nil
}

// integerSetting reads key as a whole number. Documents must carry a
// number without a fractional part; a string is accepted only when it comes
// from the environment override.
func integerSetting(v *viper.Viper, key string) (int, error) {
	switch n := v.Get(key).(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%s: %d is out of range", key, n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%s: %v is not an integer", key, n)
		}
		if n >= math.MaxInt64 || n <= math.MinInt64 {
			return 0, fmt.Errorf("%s: %v is out of range", key, n)
		}
		return int(n), nil
	case string:
		if _, fromEnv := os.LookupEnv(envKey(key)); !fromEnv {
			return 0, fmt.Errorf("%s: must be a number, got string %q", key, n)
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%s: %q from %s is not an integer", key, n, envKey(key))
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s: must be an integer, got %T", key, n)
	}
}

func envKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

var ErrDuplicateCheck = errors.New("duplicate check")

func (d *Document) Validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.StaleTimeoutSeconds, validation.Min(0)),
		validation.Field(&d.Environments,
			validation.Each(validation.By(validateEnvironment)),
		),
	)
	if err != nil {
		return err
	}

	seen := make(map[domain.CheckIdentity]struct{})
	for _, env := range d.Environments {
		for _, c := range env.Checks {
			id := domain.CheckIdentity{Environment: env.Name, Check: c.Name}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %q in environment %q", ErrDuplicateCheck, c.Name, env.Name)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func validateEnvironment(value interface{}) error {
	env, ok := value.(EnvironmentConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be an EnvironmentConfig")
	}
	return validation.ValidateStruct(&env,
		validation.Field(&env.Name, validation.Required),
		validation.Field(&env.Checks, validation.Each(validation.By(validateCheck))),
	)
}

func validateCheck(value interface{}) error {
	c, ok := value.(CheckConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a CheckConfig")
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required, validation.By(validateCheckURL)),
		validation.Field(&c.CheckType,
			validation.Required,
			validation.In(string(domain.KindHealthJSON), string(domain.KindKeywordMatch)),
		),
	)
}

func validateCheckURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}
	if u.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}
	return nil
}

// maxStaleSeconds is the largest timeout a time.Duration can hold.
const maxStaleSeconds = math.MaxInt64 / int64(time.Second)

// StaleAfter is the freshness window as a duration. Timeouts beyond what a
// time.Duration can hold saturate, so results stay fresh indefinitely.
func (d *Document) StaleAfter() time.Duration {
	if int64(d.StaleTimeoutSeconds) > maxStaleSeconds {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d.StaleTimeoutSeconds) * time.Second
}

// Checks flattens the document into configuration order.
func (d *Document) Checks() []domain.ConfiguredCheck {
	var out []domain.ConfiguredCheck
	for _, env := range d.Environments {
		for _, c := range env.Checks {
			out = append(out, domain.ConfiguredCheck{
				ID: domain.CheckIdentity{Environment: env.Name, Check: c.Name},
				Spec: domain.CheckSpec{
					Name:    c.Name,
					URL:     c.URL,
					Kind:    domain.CheckKind(c.CheckType),
					Keyword: c.Keyword,
				},
			})
		}
	}
	return out
}

// KeywordlessChecks lists keyword checks without a keyword. They are
// accepted but will always report an error outcome.
func (d *Document) KeywordlessChecks() []domain.CheckIdentity {
	var out []domain.CheckIdentity
	for _, c := range d.Checks() {
		if c.Spec.Kind == domain.KindKeywordMatch && c.Spec.Keyword == nil {
			out = append(out, c.ID)
		}
	}
	return out
}
