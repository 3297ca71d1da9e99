package binding

import (
	"math"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

// Bind reads every declared parameter from the request.
//
// All parameters are processed even after a failure so the returned
// *errs.ValidationError lists each missing, malformed or out-of-range
// value. On success the error is nil.
func Bind(c echo.Context, params []Param) (Values, error) {
	vals := newValues()
	verr := &errs.ValidationError{}

	for _, p := range params {
		if p.In == InFile {
			bindFiles(c, p, vals, verr)
			continue
		}

		raw, err := lookup(c, p)
		if err != nil {
			verr.Add(p.Loc(), "could not read "+p.In.String()+" data")
			continue
		}

		if len(raw) == 0 {
			switch {
			case p.Required:
				verr.Add(p.Loc(), "is required")
			case p.DefaultValue != nil:
				vals.values[p.Name] = p.DefaultValue
			case p.Multi:
				vals.values[p.Name] = []any{}
			}
			continue
		}
		vals.present[p.Name] = true

		rules := p.ValidatorRules()
		if !p.Multi {
			if v, ok := coerceAndCheck(p, p.Loc(), raw[0], rules, verr); ok {
				vals.values[p.Name] = v
			}
			continue
		}

		items := make([]any, 0, len(raw))
		failed := false
		for i, r := range raw {
			v, ok := coerceAndCheck(p, p.Loc()+"."+strconv.Itoa(i), r, rules, verr)
			if !ok {
				failed = true
				continue
			}
			items = append(items, v)
		}
		if !failed {
			vals.values[p.Name] = items
		}
	}

	return vals, verr.Err()
}

func coerceAndCheck(p Param, loc, raw string, rules string, verr *errs.ValidationError) (any, bool) {
	v, msg := coerce(p.Kind, raw)
	if msg != "" {
		verr.Add(loc, msg)
		return nil, false
	}
	if fe := validation.Check(loc, v, rules); fe != nil {
		verr.Fields = append(verr.Fields, *fe)
		return nil, false
	}
	return v, true
}

// coerce converts a raw wire value to kind. A non-empty message means the
// value is not a valid kind.
func coerce(kind Kind, raw string) (any, string) {
	switch kind {
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, "must be a valid integer"
		}
		return n, ""

	case Float:
		f, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, "must be a valid number"
		}
		return f, ""

	case Bool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "yes", "on":
			return true, ""
		case "no", "off":
			return false, ""
		}
		b, err := cast.ToBoolE(strings.TrimSpace(raw))
		if err != nil {
			return nil, "must be a valid boolean"
		}
		return b, ""
	}
	return raw, ""
}

// lookup returns the raw occurrences of p in the request.
func lookup(c echo.Context, p Param) ([]string, error) {
	name := p.WireName()

	switch p.In {
	case InPath:
		raw := c.Param(name)
		if raw == "" {
			return nil, nil
		}
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
		return []string{raw}, nil

	case InQuery:
		return c.QueryParams()[name], nil

	case InHeader:
		return c.Request().Header.Values(name), nil

	case InCookie:
		ck, err := c.Cookie(name)
		if err != nil {
			// http.ErrNoCookie is the only error Cookie returns.
			return nil, nil
		}
		return []string{ck.Value}, nil

	case InForm:
		form, err := c.FormParams()
		if err != nil {
			return nil, err
		}
		return form[name], nil
	}

	return nil, nil
}

func bindFiles(c echo.Context, p Param, vals Values, verr *errs.ValidationError) {
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File[p.WireName()]
	}

	if len(files) == 0 {
		if p.Required {
			verr.Add(p.Loc(), "is required")
		}
		return
	}

	if !p.Multi {
		files = files[:1]
	}
	vals.present[p.Name] = true
	vals.files[p.Name] = files
}
