package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoindexHTML(t *testing.T) {
	tests := []struct {
		name string
		head string
		want bool
	}{
		{name: "no robots tags", head: `<meta name="description" content="noindex">`, want: false},
		{name: "robots noindex", head: `<meta name="robots" content="noindex, follow">`, want: true},
		{name: "robots none", head: `<meta name="ROBOTS" content="NONE">`, want: true},
		{name: "googlebot property", head: `<meta property="googlebot" content="noindex">`, want: true},
		{name: "http-equiv", head: `<meta http-equiv="X-Robots-Tag" content="noindex">`, want: true},
		{name: "substring is not a token", head: `<meta name="robots" content="nonexistent, noindexed">`, want: false},
		{name: "index follow", head: `<meta name="robots" content="index, follow"><meta name="googlebot" content="index">`, want: false},
		{name: "attribute order and quotes", head: `<meta content='noindex' name=robots>`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "<html><head>" + tt.head + "</head><body></body></html>"
			assert.Equal(t, tt.want, IsNoindexHTML(src))
		})
	}
}
