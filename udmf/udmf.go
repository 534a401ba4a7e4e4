// Package udmf reads UDMF TEXTMAP lumps into flat, typed block lists.
package udmf

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
)

type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	return &Parser{log: common.OrNop(log)}
}

// Parse parses a TEXTMAP with a silent logger.
func Parse(text string) (*Document, error) {
	return NewParser(nil).Parse(text)
}

func (p *Parser) Parse(text string) (*Document, error) {
	chunks := Chunks(text)
	p.log.Info("found UDMF blocks", zap.Int("chunks", len(chunks)))

	doc := NewDocument()
	lastProgress := 0
	var lastKind BlockKind = 255
	for i, chunk := range chunks {
		if progress := i * 100 / len(chunks) / 10 * 10; progress != lastProgress {
			p.log.Info("parsing UDMF", zap.Int("percent", progress))
			lastProgress = progress
		}
		if !strings.Contains(chunk, "{") {
			return nil, fmt.Errorf("%w: chunk %d: %.40q", ErrBadBlock, i, chunk)
		}
		res, err := parseChunk(chunk)
		if errors.Is(err, ErrAmbiguous) {
			p.log.Warn("skipping ambiguous block", zap.Int("chunk", i), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		for k, v := range res.globals {
			doc.Globals[k] = v
		}
		for _, name := range res.unknown {
			p.log.Warn("ignoring unknown block", zap.Int("chunk", i), zap.String("block", name))
		}
		for _, b := range res.blocks {
			if b.Kind() != lastKind {
				p.log.Debug("parsing data blocks", zap.Stringer("kind", b.Kind()))
				lastKind = b.Kind()
			}
			doc.Add(b)
		}
	}
	p.log.Info("parsed UDMF",
		zap.Int("vertices", len(doc.Vertices)),
		zap.Int("sectors", len(doc.Sectors)),
		zap.Int("sidedefs", len(doc.Sidedefs)),
		zap.Int("linedefs", len(doc.Linedefs)),
		zap.Int("things", len(doc.Things)))
	return doc, nil
}

// Chunks normalizes line endings, strips comments, drops a leading namespace
// line and splits the text on blank lines. Empty chunks are discarded.
func Chunks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = StripComments(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "namespace") {
			lines = append(lines[:i:i], lines[i+1:]...)
		}
		break
	}

	var chunks []string
	var cur []string
	flush := func() {
		if s := strings.TrimSpace(strings.Join(cur, "\n")); s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return chunks
}

// StripComments removes // and /* */ comments outside of quoted strings.
// Line comments keep their newline.
func StripComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			sb.WriteByte(c)
			if c == '\\' && i+1 < len(text) {
				i++
				sb.WriteByte(text[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			sb.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(text) {
			switch text[i+1] {
			case '/':
				for i < len(text) && text[i] != '\n' {
					i++
				}
				if i < len(text) {
					sb.WriteByte('\n')
				}
				continue
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					i = len(text)
				} else {
					i += 2 + end + 1
				}
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
