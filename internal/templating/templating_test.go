package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/rhc/internal/types"
)

func kv(name, value string) types.KeyValue {
	return types.NewKeyValue(name, value)
}

func TestSubstitute(t *testing.T) {
	vars := []types.KeyValue{
		kv("var1", "value1"),
		kv("var2", "value2"),
		kv("not_present", "unused"),
	}

	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{"mixed bound and unbound", "a {var2} b {var1} c {var3} d {var2}", "a value2 b value1 c {var3} d value2", true},
		{"nothing bound", "a {var3} b", "a {var3} b", false},
		{"no tokens", "plain text", "plain text", false},
		{"empty", "", "", false},
		{"nested braces", "{{var1}}", "{value1}", true},
		{"unterminated", "{var1", "{var1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Substitute(tt.input, vars)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestSubstitute_NoVariables(t *testing.T) {
	got, changed := Substitute("a {x}", nil)
	assert.Equal(t, "a {x}", got)
	assert.False(t, changed)
}

func TestSubstitute_ValuesAreNotRescanned(t *testing.T) {
	vars := []types.KeyValue{
		kv("a", "{b}"),
		kv("b", "B"),
		kv("self", "{self}"),
	}

	got, changed := Substitute("{a} {self}", vars)
	require.True(t, changed)
	assert.Equal(t, "{b} {self}", got)

	// A second pass only touches tokens that the first pass produced.
	again, _ := Substitute(got, vars)
	assert.Equal(t, "B {self}", again)

	for i := 0; i < 10; i++ {
		again, _ = Substitute(again, vars)
	}
	assert.Equal(t, "B {self}", again)
}

func TestSubstitute_IdempotentWithoutTokenValues(t *testing.T) {
	vars := []types.KeyValue{kv("host", "example.com"), kv("id", "42")}
	once, _ := Substitute("https://{host}/users/{id}?q={other}", vars)
	twice, changed := Substitute(once, vars)

	assert.Equal(t, once, twice)
	assert.False(t, changed)
}

func TestSubstitute_FirstBindingWins(t *testing.T) {
	got, _ := Substitute("{x}", []types.KeyValue{kv("x", "first"), kv("x", "second")})
	assert.Equal(t, "first", got)
}

func TestFindUnbound(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, FindUnbound("a {x} b {y} a {x}"))
	assert.Equal(t, []string{"a", "b", "c"}, FindUnbound("{c}{b}{a}"))
	assert.Empty(t, FindUnbound("no tokens {} here"))
	assert.Equal(t, []string{"with space"}, FindUnbound("{with space}"))
}

func TestListUnboundVariables(t *testing.T) {
	tests := []struct {
		name string
		def  *types.Definition
		want []string
	}{
		{
			name: "nil definition",
			def:  nil,
			want: nil,
		},
		{
			name: "url headers and query",
			def: &types.Definition{
				Request: types.Request{URL: "{base}/users/{id}", Method: types.MethodGet},
				Headers: []types.KeyValue{kv("{header_name}", "Bearer {token}")},
				Query:   []types.KeyValue{kv("page", "{page}"), kv("{key}", "1")},
			},
			want: []string{"base", "header_name", "id", "key", "page", "token"},
		},
		{
			name: "text body",
			def: &types.Definition{
				Request: types.Request{URL: "http://x"},
				Body:    &types.Body{Kind: types.BodyText, Content: "hello {name}"},
			},
			want: []string{"name"},
		},
		{
			name: "json body",
			def: &types.Definition{
				Request: types.Request{URL: "http://x/{id}"},
				Body:    &types.Body{Kind: types.BodyJSON, Content: `{"id": "{id}", "n": {count}}`},
			},
			want: []string{"count", "id"},
		},
		{
			name: "urlencoded body",
			def: &types.Definition{
				Request: types.Request{URL: "http://x"},
				Body:    &types.Body{Kind: types.BodyURLEncoded, Form: []types.KeyValue{kv("{v}", "{v}"), kv("k", "{w}")}},
			},
			want: []string{"v", "w"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ListUnboundVariables(tt.def)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstituteAll_EnvironmentBindsURL(t *testing.T) {
	def := &types.Definition{
		Request: types.Request{URL: "__base__/{var1}", Method: types.MethodGet},
	}

	SubstituteAll(def, []types.KeyValue{kv("var1", "bar")})

	assert.Equal(t, "__base__/bar", def.Request.URL)
	assert.Empty(t, ListUnboundVariables(def))
}

func TestSubstituteAll_URLEncodedBody(t *testing.T) {
	def := &types.Definition{
		Request: types.Request{URL: "http://localhost/form", Method: types.MethodPost},
		Body: &types.Body{
			Kind: types.BodyURLEncoded,
			Form: []types.KeyValue{kv("{v}", "{v}")},
		},
	}
	require.Equal(t, []string{"v"}, ListUnboundVariables(def))

	SubstituteAll(def, []types.KeyValue{kv("v", "x")})

	assert.Equal(t, []types.KeyValue{kv("x", "x")}, def.Body.Form)
	assert.Empty(t, ListUnboundVariables(def))
}

func TestSubstituteAll_AllFields(t *testing.T) {
	def := &types.Definition{
		Request: types.Request{URL: "{base}/items", Method: types.MethodPut},
		Headers: []types.KeyValue{kv("X-{h}", "{token}")},
		Query:   []types.KeyValue{kv("{q}", "{page}")},
		Body:    &types.Body{Kind: types.BodyJSON, Content: `{"owner": "{owner}", "other": "{missing}"}`},
	}
	vars := []types.KeyValue{
		kv("base", "http://api"),
		kv("h", "Trace"),
		kv("token", "abc"),
		kv("q", "page"),
		kv("page", "2"),
		kv("owner", "me"),
	}

	SubstituteAll(def, vars)

	assert.Equal(t, "http://api/items", def.Request.URL)
	assert.Equal(t, []types.KeyValue{kv("X-Trace", "abc")}, def.Headers)
	assert.Equal(t, []types.KeyValue{kv("page", "2")}, def.Query)
	assert.Equal(t, `{"owner": "me", "other": "{missing}"}`, def.Body.Content)
	assert.Equal(t, []string{"missing"}, ListUnboundVariables(def))
}

func TestSubstituteAll_NilSafe(t *testing.T) {
	SubstituteAll(nil, []types.KeyValue{kv("a", "b")})

	def := &types.Definition{Request: types.Request{URL: "{a}"}}
	SubstituteAll(def, nil)
	assert.Equal(t, "{a}", def.Request.URL)
}

func BenchmarkSubstitute(b *testing.B) {
	vars := []types.KeyValue{
		kv("var1", "value1"), kv("var2", "value2"), kv("var3", "value3"),
		kv("var4", "value4"), kv("var5", "value5"), kv("var6", "value6"),
		kv("var7", "value7"),
	}
	base := "GET {var1}/path/{var2}?a={var3}&b={var4} {var5} {var6} {var7} {unbound} trailing text"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Substitute(base, vars)
	}
}
