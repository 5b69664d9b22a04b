// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mode textMode
		want string
	}{
		{"umlaut", `M{\"u}ller`, modeText, "Müller"},
		{"acute braced", `Jos\'{e}`, modeText, "José"},
		{"grave", `\` + "`" + `a la carte`, modeText, "à la carte"},
		{"tilde", `Pe\~na`, modeText, "Peña"},
		{"cedilla", `Fran\c{c}ois`, modeText, "François"},
		{"caron", `\v{C}apek`, modeText, "Čapek"},
		{"dotless i", `Bal\'{\i}nt`, modeText, "Balínt"},
		{"sharp s", `Stra\ss{}e`, modeText, "Straße"},
		{"slashed o", `{\O}stergaard`, modeText, "Østergaard"},
		{"escapes", `R\&D at 50\% \_ \$5 \#1`, modeText, "R&D at 50% _ $5 #1"},
		{"escaped braces", `set \{a\}`, modeText, "set {a}"},
		{"protective braces", `{DNA} and {RNA}`, modeText, "DNA and RNA"},
		{"commands", `\textit{in vivo} and \emph{vitro}`, modeText, "in vivo and vitro"},
		{"dashes", `1990--2000 --- a decade`, modeText, "1990–2000 — a decade"},
		{"pages keep hyphens", `123--145`, modePages, "123--145"},
		{"nbsp", `Fig.~3`, modeText, "Fig. 3"},
		{"math", `$\alpha$-helix`, modeText, "-helix"},
		{"verbatim url", `https://x.org/~user/a--b`, modeVerbatim, "https://x.org/~user/a--b"},
		{"newlines", "a\n   b", modeText, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toText(tt.in, tt.mode))
		})
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Smith, J. and Doe, A.", []string{"Smith, J.", "Doe, A."}},
		{"Smith, J. AND\n Doe, A.", []string{"Smith, J.", "Doe, A."}},
		{"{Barnes and Noble} and Brown, K.", []string{"{Barnes and Noble}", "Brown, K."}},
		{"Anderson, B.", []string{"Anderson, B."}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := splitNames(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
