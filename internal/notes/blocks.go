package notes

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultLanguage is the fence info string that marks a summary block.
const DefaultLanguage = "timeTracker"

// Block is one fenced code block found in a note.
type Block struct {
	// Index counts matching blocks from 0 in document order.
	Index int
	// Line is the 1-based line of the opening fence.
	Line   int
	Source string
}

// Blocks returns every fenced code block in src whose language is language.
func Blocks(src []byte, language string) []Block {
	if language == "" {
		language = DefaultLanguage
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fence.Language(src)) != language {
			return ast.WalkSkipChildren, nil
		}

		var buf bytes.Buffer
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			buf.Write(segment.Value(src))
		}

		blocks = append(blocks, Block{
			Index:  len(blocks),
			Line:   fenceLine(src, fence),
			Source: buf.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// fenceLine locates the opening fence: the line before the first content
// line, or the info string's line for an empty block.
func fenceLine(src []byte, fence *ast.FencedCodeBlock) int {
	if fence.Info != nil {
		return bytes.Count(src[:fence.Info.Segment.Start], []byte("\n")) + 1
	}
	if fence.Lines().Len() > 0 {
		return bytes.Count(src[:fence.Lines().At(0).Start], []byte("\n"))
	}
	return 0
}
