package cssvar

// Position addresses a point between two tokens in a Cursor's token
// stream. It is stable across every Cursor view created from the same
// underlying stream (including nested-block sub-cursors), so a Position
// captured from one view can be passed to Slice/SliceFrom on any other.
type Position int

// Cursor is the tokenizer-facing interface the substitution engine is
// written against: a position-addressable, nestable view over a token
// stream, extended with the position/slice/nested-block contract the
// custom-property grammar needs.
//
// A Cursor created by NewCursor pre-tokenizes the whole input and
// precomputes, for every opening bracket/function token, the index of
// its matching closer. An opening token with no closer before EOF is
// matched to the EOF token itself — see matchBrackets for the
// consequences of that choice.
type Cursor struct {
	tokenizer *Tokenizer
	tokens    []Token
	match     []int // match[i] = index of the token matching tokens[i], or -1
	pos       int
	limit     int // exclusive upper bound on pos for this view
}

// NewCursor tokenizes input and returns a Cursor positioned at its start.
func NewCursor(input string) *Cursor {
	tz := NewTokenizer(input)
	tokens := tz.TokenizeAll()
	return &Cursor{
		tokenizer: tz,
		tokens:    tokens,
		match:     matchBrackets(tokens),
		pos:       0,
		limit:     len(tokens) - 1, // stop at the EOF token
	}
}

func isOpener(t TokenType) bool {
	return t == TokenFunction || t == TokenOpenParen || t == TokenOpenSquare || t == TokenOpenCurly
}

func closerFor(opener TokenType) TokenType {
	switch opener {
	case TokenFunction, TokenOpenParen:
		return TokenCloseParen
	case TokenOpenSquare:
		return TokenCloseSquare
	case TokenOpenCurly:
		return TokenCloseCurly
	default:
		return TokenEOF
	}
}

// matchBrackets pairs every function/bracket opener with its closer.
//
// An opener left on the stack when input runs out has no closer at all;
// it is matched to the index of the trailing EOF token, so callers that
// enter its "nested block" see it as implicitly closed at end of input.
// An unterminated var() fallback at the end of a style attribute, for
// example, is treated as closing exactly at EOF rather than rejected.
func matchBrackets(tokens []Token) []int {
	match := make([]int, len(tokens))
	for i := range match {
		match[i] = -1
	}
	var stack []int
	for i, tok := range tokens {
		switch {
		case isOpener(tok.Type):
			stack = append(stack, i)
		case tok.Type == TokenCloseParen || tok.Type == TokenCloseSquare || tok.Type == TokenCloseCurly:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if closerFor(tokens[top].Type) == tok.Type {
				stack = stack[:len(stack)-1]
				match[top] = i
			}
			// A mismatched closer (e.g. "]" inside "(") isn't consumed
			// here: it stays a plain token at its enclosing level, where
			// parseDeclarationValueBlock will reject it as stray.
		}
	}
	eof := len(tokens) - 1
	for _, idx := range stack {
		match[idx] = eof
	}
	return match
}

// Position returns the current position of the cursor.
func (c *Cursor) Position() Position { return Position(c.pos) }

// Reset moves the cursor back to a previously captured Position.
func (c *Cursor) Reset(p Position) { c.pos = int(p) }

func (c *Cursor) offsetOf(p Position) int { return c.tokens[int(p)].Pos }

// Slice returns the raw source text between two positions.
func (c *Cursor) Slice(start, end Position) string {
	return c.tokenizer.Slice(c.offsetOf(start), c.offsetOf(end))
}

// SliceFrom returns the raw source text from a position to the end of
// the whole input (not just this view's limit).
func (c *Cursor) SliceFrom(start Position) string {
	return c.tokenizer.SliceFrom(c.offsetOf(start))
}

// AtEnd reports whether this view has no more tokens.
func (c *Cursor) AtEnd() bool { return c.pos >= c.limit }

// NextIncludingWhitespaceAndComments consumes and returns the next
// token in this view, including whitespace and comment tokens. ok is
// false once the view is exhausted.
func (c *Cursor) NextIncludingWhitespaceAndComments() (tok Token, ok bool) {
	if c.pos >= c.limit {
		return Token{}, false
	}
	tok = c.tokens[c.pos]
	c.pos++
	return tok, true
}

// NextIncludingWhitespace is like NextIncludingWhitespaceAndComments but
// skips comment tokens.
func (c *Cursor) NextIncludingWhitespace() (Token, bool) {
	for {
		tok, ok := c.NextIncludingWhitespaceAndComments()
		if !ok || tok.Type != TokenComment {
			return tok, ok
		}
	}
}

// Next skips whitespace and comment tokens and returns the next
// significant token.
func (c *Cursor) Next() (Token, bool) {
	for {
		tok, ok := c.NextIncludingWhitespaceAndComments()
		if !ok {
			return tok, ok
		}
		if tok.Type != TokenComment && tok.Type != TokenWhitespace {
			return tok, ok
		}
	}
}

// ExpectIdent consumes a single ident token, skipping leading whitespace
// and comments, and reports whether one was found.
func (c *Cursor) ExpectIdent() (string, bool) {
	tok, ok := c.Next()
	if !ok || tok.Type != TokenIdent {
		return "", false
	}
	return tok.Value, true
}

// ExpectComma consumes a single comma token, skipping leading whitespace
// and comments, and reports whether one was found.
func (c *Cursor) ExpectComma() bool {
	tok, ok := c.Next()
	return ok && tok.Type == TokenComma
}

// ParseNestedBlock must be called immediately after consuming an opening
// token (a function, "(", "[" or "{"). It runs f against a sub-cursor
// scoped to exactly that block's contents, then — regardless of whether
// f consumed all of it or returned an error — advances the caller past
// the matching closing token, so a nested block is always fully skipped
// exactly once. A block left unterminated at end of input leaves the
// caller on the EOF token instead.
func (c *Cursor) ParseNestedBlock(f func(*Cursor) error) error {
	openIdx := c.pos - 1
	closeIdx := c.match[openIdx]
	sub := &Cursor{
		tokenizer: c.tokenizer,
		tokens:    c.tokens,
		match:     c.match,
		pos:       c.pos,
		limit:     closeIdx,
	}
	err := f(sub)
	if c.tokens[closeIdx].Type == TokenEOF {
		c.pos = closeIdx
	} else {
		c.pos = closeIdx + 1
	}
	return err
}

// ParseUntilBefore scopes f to the tokens from the current position up
// to (but not including) the first token at this view's nesting depth
// for which isDelimiter returns true — tokens inside a nested
// function/bracket are skipped over whole and never tested. After f
// returns, the cursor sits just before that delimiter (or at the end of
// the view, if none was found) without having consumed it.
func (c *Cursor) ParseUntilBefore(isDelimiter func(Token) bool, f func(*Cursor) error) error {
	boundary := c.limit
	idx := c.pos
	for idx < c.limit {
		tok := c.tokens[idx]
		if isDelimiter(tok) {
			boundary = idx
			break
		}
		if isOpener(tok.Type) {
			idx = c.match[idx] + 1
			continue
		}
		idx++
	}
	sub := &Cursor{
		tokenizer: c.tokenizer,
		tokens:    c.tokens,
		match:     c.match,
		pos:       c.pos,
		limit:     boundary,
	}
	err := f(sub)
	c.pos = boundary
	return err
}

func isBangOrSemicolon(t Token) bool {
	return t.Type == TokenSemicolon || (t.Type == TokenDelim && t.Delim == '!')
}
