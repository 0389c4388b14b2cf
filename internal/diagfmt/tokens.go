package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hulk/internal/source"
	"hulk/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// FormatTokensPretty writes one line per token with position info.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, trivia.Kind.String())
		}

		fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String())

		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}

		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}

		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the token stream as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	var output []TokenOutput

	for _, tok := range tokens {
		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, trivia.Kind.String())
		}

		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: leading,
		})

		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
