// Package markdown, blog içeriğini HTML'e çevirir.
//
// Ham HTML render edilmez (goldmark safe mode); yazı içindeki <script> gibi
// etiketler yorum satırına dönüşür. Motor tek sefer kurulur ve eşzamanlı
// kullanılabilir.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Render, markdown'ı HTML'e çevirir.
func Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// MustRender, template func'ları için: hata olursa metni escape edip paragraf olarak döner.
func MustRender(source string) template.HTML {
	out, err := Render(source)
	if err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(source) + "</p>")
	}
	return out
}
