package web

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// Panel intros are written in Markdown. Raw HTML in the source is omitted by
// goldmark, and the output only keeps inline emphasis inside paragraphs.
var (
	introMarkdown = goldmark.New()
	introPolicy   = newIntroPolicy()
)

func newIntroPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "strong", "em", "code", "br")
	return p
}

// renderIntro converts panel intro Markdown to sanitized HTML.
func renderIntro(src string) (string, error) {
	var buf bytes.Buffer
	if err := introMarkdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render intro markdown: %w", err)
	}
	return introPolicy.Sanitize(buf.String()), nil
}

// mustRenderIntros fills in introHTML for every copy. The intros are constants,
// so a failure is a programming error.
func mustRenderIntros(copies map[model.Panel]panelCopy) map[model.Panel]panelCopy {
	for p, c := range copies {
		html, err := renderIntro(c.intro)
		if err != nil {
			panic(fmt.Sprintf("panel %s: %v", p, err))
		}
		c.introHTML = html
		copies[p] = c
	}
	return copies
}
