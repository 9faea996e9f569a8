// Package augment post-processes rendered article HTML: syntax highlighting
// and copy-to-clipboard buttons. Every pass first removes what an earlier
// pass added, so running it any number of times yields the same DOM.
package augment

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/ziadkadry99/progvibe/internal/theme"
)

const (
	// DefaultLabel is the idle copy-button text.
	DefaultLabel = "копировать"
	// CopiedLabel is shown on the button whose block was just copied.
	CopiedLabel = "скопировано"

	buttonClass         = "copy-button"
	highlightedClass    = "hljs"
	highlightedAttr     = "data-highlighted"
	languageClassPrefix = "language-"
)

// DefaultStyles maps each theme to a chroma style.
var DefaultStyles = map[theme.Theme]string{
	theme.Dark:  "monokai",
	theme.Light: "github",
}

// Augmenter applies highlighting and copy buttons to a rendered document.
type Augmenter struct {
	styles    map[theme.Theme]string
	formatter *chromahtml.Formatter
}

// New creates an Augmenter. Missing entries in styles fall back to
// DefaultStyles.
func New(styles map[theme.Theme]string) *Augmenter {
	merged := make(map[theme.Theme]string, len(DefaultStyles))
	for t, s := range DefaultStyles {
		merged[t] = s
	}
	for t, s := range styles {
		if s != "" {
			merged[t] = s
		}
	}
	return &Augmenter{
		styles: merged,
		formatter: chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Apply runs a full augmentation pass over doc. The order matters: strip
// old highlighting, drop old buttons, highlight, then add fresh buttons.
func (a *Augmenter) Apply(doc *goquery.Document, t theme.Theme) error {
	Strip(doc)
	RemoveButtons(doc)
	if err := a.Highlight(doc, t); err != nil {
		return err
	}
	AttachButtons(doc)
	return nil
}

// ApplyHTML parses an HTML fragment, augments it and returns the fragment.
func (a *Augmenter) ApplyHTML(fragment string, t theme.Theme) (string, error) {
	doc, err := ParseFragment(fragment)
	if err != nil {
		return "", err
	}
	if err := a.Apply(doc, t); err != nil {
		return "", err
	}
	return FragmentHTML(doc)
}

// AttachButtonsHTML adds copy buttons to a fragment that was highlighted
// elsewhere, e.g. at Markdown conversion time.
func AttachButtonsHTML(fragment string) (string, error) {
	doc, err := ParseFragment(fragment)
	if err != nil {
		return "", err
	}
	RemoveButtons(doc)
	AttachButtons(doc)
	return FragmentHTML(doc)
}

// Strip resets every code block to plain text and drops highlighting
// classes and markers. language-* classes are kept. Safe on clean nodes.
func Strip(doc *goquery.Document) {
	doc.Find("code").Each(func(_ int, code *goquery.Selection) {
		code.SetText(code.Text())
		code.RemoveAttr(highlightedAttr)
		code.RemoveAttr("style")
		keepLanguageClasses(code)
	})
	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		pre.RemoveAttr("style")
		pre.RemoveAttr(highlightedAttr)
	})
}

func keepLanguageClasses(s *goquery.Selection) {
	class, ok := s.Attr("class")
	if !ok {
		return
	}
	var kept []string
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, languageClassPrefix) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		s.RemoveAttr("class")
		return
	}
	s.SetAttr("class", strings.Join(kept, " "))
}

// addClass appends c to the class list, normalising whitespace.
func addClass(s *goquery.Selection, c string) {
	class, _ := s.Attr("class")
	classes := strings.Fields(class)
	for _, existing := range classes {
		if existing == c {
			return
		}
	}
	s.SetAttr("class", strings.Join(append(classes, c), " "))
}

// RemoveButtons deletes every copy button in doc.
func RemoveButtons(doc *goquery.Document) {
	doc.Find("button." + buttonClass).Remove()
}

// Highlight tokenises each pre > code block and replaces its content with
// styled spans for the theme's chroma style.
func (a *Augmenter) Highlight(doc *goquery.Document, t theme.Theme) error {
	style := styles.Get(a.StyleFor(t))
	bg := style.Get(chroma.Background)

	var firstErr error
	doc.Find("pre > code").Each(func(_ int, code *goquery.Selection) {
		if firstErr != nil {
			return
		}
		text := code.Text()
		lexer := lexerFor(languageOf(code), text)
		it, err := lexer.Tokenise(nil, text)
		if err != nil {
			firstErr = fmt.Errorf("tokenising %s block: %w", lexer.Config().Name, err)
			return
		}
		var buf bytes.Buffer
		if err := a.formatter.Format(&buf, style, it); err != nil {
			firstErr = fmt.Errorf("formatting %s block: %w", lexer.Config().Name, err)
			return
		}
		code.SetHtml(buf.String())
		addClass(code, highlightedClass)
		code.SetAttr(highlightedAttr, "yes")
		if bg.Background.IsSet() {
			code.Parent().SetAttr("style", "background-color:"+bg.Background.String())
		}
	})
	return firstErr
}

// StyleFor returns the chroma style name used for t.
func (a *Augmenter) StyleFor(t theme.Theme) string {
	if s, ok := a.styles[t]; ok {
		return s
	}
	return DefaultStyles[theme.Default]
}

func languageOf(code *goquery.Selection) string {
	class, _ := code.Attr("class")
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, languageClassPrefix) {
			return strings.TrimPrefix(c, languageClassPrefix)
		}
	}
	return ""
}

func lexerFor(lang, text string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// AttachButtons inserts one copy button directly before every pre block.
// The button copies its next sibling.
func AttachButtons(doc *goquery.Document) {
	doc.Find("pre").Each(func(i int, pre *goquery.Selection) {
		pre.BeforeHtml(fmt.Sprintf(
			`<button type="button" class="%s" id="copy-%d" data-copy-target="next">%s</button>`,
			buttonClass, i+1, DefaultLabel,
		))
	})
}

// ButtonCount returns the number of copy buttons in doc.
func ButtonCount(doc *goquery.Document) int {
	return doc.Find("button." + buttonClass).Length()
}

// MarkCopied records a successful copy from the button with the given id:
// every button shows DefaultLabel except that one, which shows CopiedLabel.
// It reports whether the button exists.
func MarkCopied(doc *goquery.Document, id string) bool {
	buttons := doc.Find("button." + buttonClass)
	clicked := buttons.FilterFunction(func(_ int, b *goquery.Selection) bool {
		v, _ := b.Attr("id")
		return v == id
	})
	if clicked.Length() == 0 {
		return false
	}
	buttons.SetText(DefaultLabel)
	clicked.SetText(CopiedLabel)
	return true
}

// CopyText returns the text a copy button would place on the clipboard:
// the content of its next sibling element.
func CopyText(doc *goquery.Document, id string) (string, bool) {
	var (
		text  string
		found bool
	)
	doc.Find("button." + buttonClass).EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if v, _ := b.Attr("id"); v != id {
			return true
		}
		target := b.Next()
		if target.Length() == 0 {
			return false
		}
		text, found = target.Text(), true
		return false
	})
	return text, found
}
