package jars

import (
	"fmt"
	"strings"
)

// TemplateContext carries the per-jar values a URL definition template is
// formatted against. Key is the dependency's own name, used for implicit
// host and name lookups.
type TemplateContext struct {
	Key     string
	Version Version
	Build   string
}

// ExpandURL formats a URL definition template against ctx. Placeholders are
// substituted in a single pass; text produced by a substitution is never
// rescanned.
//
// Recognized placeholders:
//
//	{host}        base URL for ctx.Key in the hosts table
//	{host:alias}  base URL for the explicit alias
//	{version}     ctx.Version verbatim
//	{build}       ctx.Build; error if the spec supplied none
//	{name}        filename template for ctx.Key with {version} applied,
//	              falling back to the bare key
func (t *Tables) ExpandURL(def string, ctx TemplateContext) (string, error) {
	var b strings.Builder
	rest := def
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])
		rest = rest[open+1:]

		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrInvalidTemplate, def)
		}
		token := rest[:closing]
		rest = rest[closing+1:]

		sub, err := t.expandToken(token, ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(sub)
	}
}

func (t *Tables) expandToken(token string, ctx TemplateContext) (string, error) {
	switch {
	case token == "host":
		return t.Host(ctx.Key)
	case strings.HasPrefix(token, "host:"):
		return t.Host(strings.TrimPrefix(token, "host:"))
	case token == "version":
		return ctx.Version.String(), nil
	case token == "build":
		if ctx.Build == "" {
			return "", fmt.Errorf("%w: template needs a build for %q", ErrMissingField, ctx.Key)
		}
		return ctx.Build, nil
	case token == "name":
		return t.LocalName(ctx.Key, ctx.Version), nil
	}
	return "", fmt.Errorf("%w: unknown placeholder %q", ErrInvalidTemplate, token)
}
