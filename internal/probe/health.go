package probe

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/hamed0406/statusdash/internal/domain"
)

// HealthJSONProber expects a body shaped like
// {"status": "Healthy", "version": "1.2.3", "checks": [{"name", "status", "details", "duration"}]}.
type HealthJSONProber struct {
	HTTP *HTTPChecker
}

func (p *HealthJSONProber) Probe(ctx context.Context, spec domain.CheckSpec) domain.Outcome {
	res, err := p.HTTP.fetch(ctx, spec.URL)
	if err != nil {
		out := domain.ErrorOutcome(err.Error())
		out.LatencyMS = res.LatencyMS
		return out
	}

	out, err := parseHealthBody(res.Body)
	if err != nil {
		out = domain.ErrorOutcome(err.Error())
	} else {
		out.Reason = res.Status
	}
	out.LatencyMS = res.LatencyMS
	return out
}

var (
	errInvalidJSON   = errors.New("response is not valid JSON")
	errNotObject     = errors.New("response is not a JSON object")
	errMissingStatus = errors.New(`response has no string "status"`)
	errBadVersion    = errors.New(`"version" is not a string`)
	errBadChecks     = errors.New(`"checks" is not an array of objects`)
)

func parseHealthBody(body []byte) (domain.Outcome, error) {
	if !gjson.ValidBytes(body) {
		return domain.Outcome{}, errInvalidJSON
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.Outcome{}, errNotObject
	}

	status := root.Get("status")
	if status.Type != gjson.String {
		return domain.Outcome{}, errMissingStatus
	}

	out := domain.Outcome{
		Status:    domain.StatusUnhealthy,
		SubChecks: []domain.SubStatus{},
	}
	if status.Str == "Healthy" {
		out.Status = domain.StatusHealthy
	}
	if v := root.Get("version"); v.Exists() && v.Type != gjson.Null {
		if v.Type != gjson.String {
			return domain.Outcome{}, errBadVersion
		}
		s := v.Str
		out.Version = &s
	}

	checks := root.Get("checks")
	if !checks.Exists() || checks.Type == gjson.Null {
		return out, nil
	}
	if !checks.IsArray() {
		return domain.Outcome{}, errBadChecks
	}

	var err error
	checks.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			err = errBadChecks
			return false
		}
		var sub domain.SubStatus
		if sub, err = subStatusFrom(item); err != nil {
			return false
		}
		out.SubChecks = append(out.SubChecks, sub)
		return true
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	return out, nil
}

// subStatusFrom requires string name and status. details must be a string
// and duration a non-negative integer when present.
func subStatusFrom(item gjson.Result) (domain.SubStatus, error) {
	name, status := item.Get("name"), item.Get("status")
	if name.Type != gjson.String {
		return domain.SubStatus{}, fmt.Errorf(`%w: sub-check without string "name"`, errBadChecks)
	}
	if status.Type != gjson.String {
		return domain.SubStatus{}, fmt.Errorf(`%w: sub-check %q without string "status"`, errBadChecks, name.Str)
	}
	sub := domain.SubStatus{Name: name.Str, Status: status.Str}

	if d := item.Get("details"); d.Exists() && d.Type != gjson.Null {
		if d.Type != gjson.String {
			return domain.SubStatus{}, fmt.Errorf(`%w: sub-check %q "details" is not a string`, errBadChecks, sub.Name)
		}
		s := d.Str
		sub.Details = &s
	}
	if d := item.Get("duration"); d.Exists() && d.Type != gjson.Null {
		ms, err := strconv.ParseUint(d.Raw, 10, 64)
		if d.Type != gjson.Number || err != nil {
			return domain.SubStatus{}, fmt.Errorf(`%w: sub-check %q "duration" is not a non-negative integer`, errBadChecks, sub.Name)
		}
		sub.DurationMS = &ms
	}
	return sub, nil
}
