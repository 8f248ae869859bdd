package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, markup string) *html.Node {
	node, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return node
}

func TestGetText(t *testing.T) {
	cases := []struct {
		markup   string
		expected string
	}{
		{`<td>plain</td>`, "plain"},
		{`<td><a href="/x">NVIDIA <b>Corp</b></a></td>`, "NVIDIA Corp"},
		{`<td><span>first</span><span>second</span></td>`, "firstsecond"},
		{`<td></td>`, ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, GetText(parse(t, c.markup)))
	}
}

func TestGetTextNilNode(t *testing.T) {
	require.Equal(t, "", GetText(nil))
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"  NVIDIA Corp  ", "NVIDIA Corp"},
		{"a \n\t b", "a b"},
		{"no break", "nobreak"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, CleanText(c.input))
	}
}
