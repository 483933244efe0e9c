package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// KeyValue is an ordered name/value pair. It is the unit of environment
// variables, headers, query parameters and url-encoded body fields.
type KeyValue struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// NewKeyValue creates a KeyValue
func NewKeyValue(name, value string) KeyValue {
	return KeyValue{Name: name, Value: value}
}

// SortByName orders variables lexicographically by name
func SortByName(vars []KeyValue) {
	sort.SliceStable(vars, func(i, j int) bool {
		return vars[i].Name < vars[j].Name
	})
}

// Method is an HTTP method accepted in request definitions
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPatch   Method = "PATCH"
	MethodTrace   Method = "TRACE"
)

var knownMethods = []Method{
	MethodGet, MethodPost, MethodPut, MethodDelete,
	MethodHead, MethodOptions, MethodPatch, MethodTrace,
}

// ParseMethod converts a method name (any case) into a Method
func ParseMethod(s string) (Method, error) {
	upper := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range knownMethods {
		if m == upper {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown HTTP method %q", s)
}

// Metadata holds optional descriptive information about a definition
type Metadata struct {
	Description string
}

// Request is the target of a definition
type Request struct {
	URL    string
	Method Method
}

// BodyKind tags which encoding a Body carries
type BodyKind int

const (
	BodyText BodyKind = iota + 1
	BodyJSON
	BodyURLEncoded
)

// String returns the name used in definition files
func (k BodyKind) String() string {
	switch k {
	case BodyText:
		return "text"
	case BodyJSON:
		return "json"
	case BodyURLEncoded:
		return "urlencoded"
	default:
		return "unknown"
	}
}

// Body is the request payload. Content is used by text and JSON bodies,
// Form by url-encoded bodies.
type Body struct {
	Kind    BodyKind
	Content string
	Form    []KeyValue
}

// Definition is a saved request loaded from a definition file
type Definition struct {
	Metadata *Metadata
	Request  Request
	Query    []KeyValue
	Headers  []KeyValue
	Body     *Body
}

// Description returns the metadata description, or "" when absent
func (d *Definition) Description() string {
	if d == nil || d.Metadata == nil {
		return ""
	}
	return d.Metadata.Description
}

// Environment is a named set of variable bindings
type Environment struct {
	Name      string     `json:"name" yaml:"name" toml:"name"`
	Variables []KeyValue `json:"variables" yaml:"variables" toml:"variables"`
}

// HistoryEntry is a previously entered answer for a variable. Entries are
// compared structurally.
type HistoryEntry struct {
	VariableName    string
	Value           string
	EnvironmentName string
}

// Response is the result of dispatching a definition
type Response struct {
	Status      int
	StatusText  string
	Headers     map[string]string
	ContentType string
	Body        string
	Duration    time.Duration
}
