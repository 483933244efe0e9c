package templating

import (
	"regexp"
	"sort"

	"github.com/studiowebux/rhc/internal/types"
)

// Placeholder pattern: {varName}
var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Substitute replaces every {name} token whose name is bound in vars with
// the bound value. Unbound tokens are left verbatim. The text is scanned
// once, so replacement values are never scanned again even if they contain
// {token} syntax. When a name is bound more than once the first binding wins.
// The returned bool reports whether anything was replaced.
func Substitute(text string, vars []types.KeyValue) (string, bool) {
	if len(vars) == 0 || len(text) < 3 {
		return text, false
	}

	lookup := make(map[string]string, len(vars))
	for _, v := range vars {
		if _, exists := lookup[v.Name]; !exists {
			lookup[v.Name] = v.Value
		}
	}

	changed := false
	result := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		if value, ok := lookup[match[1:len(match)-1]]; ok {
			changed = true
			return value
		}
		return match
	})

	if !changed {
		return text, false
	}
	return result, true
}

// FindUnbound returns the names of all {name} tokens in text, deduplicated
// and sorted
func FindUnbound(text string) []string {
	seen := make(map[string]bool)
	collect(text, seen)
	return sortedNames(seen)
}

// ListUnboundVariables returns the sorted, deduplicated token names found in
// every substitutable field of a definition: the URL, header names and
// values, query parameter names and values, and the body.
func ListUnboundVariables(def *types.Definition) []string {
	seen := make(map[string]bool)
	if def == nil {
		return nil
	}

	collect(def.Request.URL, seen)
	for _, h := range def.Headers {
		collect(h.Name, seen)
		collect(h.Value, seen)
	}
	for _, q := range def.Query {
		collect(q.Name, seen)
		collect(q.Value, seen)
	}
	if def.Body != nil {
		switch def.Body.Kind {
		case types.BodyText, types.BodyJSON:
			collect(def.Body.Content, seen)
		case types.BodyURLEncoded:
			for _, f := range def.Body.Form {
				collect(f.Name, seen)
				collect(f.Value, seen)
			}
		}
	}

	return sortedNames(seen)
}

// SubstituteAll applies Substitute to every substitutable field of def in
// place. Fields where nothing changed are left untouched.
func SubstituteAll(def *types.Definition, vars []types.KeyValue) {
	if def == nil || len(vars) == 0 {
		return
	}

	replace(&def.Request.URL, vars)
	substituteList(def.Headers, vars)
	substituteList(def.Query, vars)

	if def.Body != nil {
		switch def.Body.Kind {
		case types.BodyText, types.BodyJSON:
			replace(&def.Body.Content, vars)
		case types.BodyURLEncoded:
			substituteList(def.Body.Form, vars)
		}
	}
}

func substituteList(list []types.KeyValue, vars []types.KeyValue) {
	for i := range list {
		replace(&list[i].Name, vars)
		replace(&list[i].Value, vars)
	}
}

func replace(field *string, vars []types.KeyValue) {
	if out, changed := Substitute(*field, vars); changed {
		*field = out
	}
}

func collect(text string, seen map[string]bool) {
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		seen[match[1]] = true
	}
}

func sortedNames(seen map[string]bool) []string {
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
