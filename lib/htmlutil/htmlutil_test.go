package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  IRONMAN 70.3   Oregon \n", expected: "IRONMAN 70.3 Oregon"},
		{in: "\t12 ", expected: "12"},
		{in: "a\u200bb\u00a0c", expected: "ab c"},
		{in: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.in))
	}
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div>
			<a href="/races/im-texas">IRONMAN   Texas</a>
			<a>no href</a>
			<a href="https://example.com/x">Other</a>
		</div>`))
	require.NoError(t, err)

	base, err := url.Parse("https://www.ironman.com")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), base, doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "IRONMAN Texas", Href: "https://www.ironman.com/races/im-texas"},
		{Name: "Other", Href: "https://example.com/x"},
	}, anchors)
}
