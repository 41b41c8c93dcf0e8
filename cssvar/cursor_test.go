package cssvar

import "testing"

func TestCursorNextSkipsWhitespaceAndComments(t *testing.T) {
	c := NewCursor("  /* hi */ red  ")
	tok, ok := c.Next()
	if !ok || tok.Type != TokenIdent || tok.Value != "red" {
		t.Fatalf("Next() = %+v, ok=%v, want ident %q", tok, ok, "red")
	}
	if _, ok := c.Next(); ok {
		t.Fatalf("Next() after last token should report ok=false")
	}
}

func TestCursorNextIncludingWhitespaceAndComments(t *testing.T) {
	c := NewCursor("a/**/b")
	var types []TokenType
	for {
		tok, ok := c.NextIncludingWhitespaceAndComments()
		if !ok {
			break
		}
		types = append(types, tok.Type)
	}
	want := []TokenType{TokenIdent, TokenComment, TokenIdent}
	if len(types) != len(want) {
		t.Fatalf("got %v token types, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestCursorSliceRoundTrips(t *testing.T) {
	input := "1px solid red"
	c := NewCursor(input)
	start := c.Position()
	for {
		if _, ok := c.NextIncludingWhitespaceAndComments(); !ok {
			break
		}
	}
	got := c.Slice(start, Position(c.limit))
	if got != input {
		t.Fatalf("Slice(start, limit) = %q, want %q", got, input)
	}
}

func TestCursorResetRewinds(t *testing.T) {
	c := NewCursor("a b c")
	c.Next()
	mark := c.Position()
	c.Next()
	c.Next()
	c.Reset(mark)
	tok, ok := c.Next()
	if !ok || tok.Value != "b" {
		t.Fatalf("after Reset, Next() = %+v, ok=%v, want ident %q", tok, ok, "b")
	}
}

func TestCursorParseNestedBlockScopesToBlock(t *testing.T) {
	c := NewCursor("foo(1px, 2px) bar")
	tok, ok := c.Next()
	if !ok || tok.Type != TokenFunction {
		t.Fatalf("expected function token, got %+v", tok)
	}

	var inner []string
	err := c.ParseNestedBlock(func(sub *Cursor) error {
		for {
			t, ok := sub.Next()
			if !ok {
				return nil
			}
			inner = append(inner, t.String())
		}
	})
	if err != nil {
		t.Fatalf("ParseNestedBlock error: %v", err)
	}
	if len(inner) != 3 { // 1px, comma, 2px
		t.Fatalf("inner tokens = %v, want 3", inner)
	}

	tok, ok = c.Next()
	if !ok || tok.Type != TokenIdent || tok.Value != "bar" {
		t.Fatalf("after ParseNestedBlock, Next() = %+v, ok=%v, want ident %q", tok, ok, "bar")
	}
}

func TestCursorParseUntilBeforeSkipsNestedDelimiters(t *testing.T) {
	// The ";" inside calc()'s argument list must not be mistaken for a
	// top-level delimiter — parseDeclarationValue relies on exactly this.
	c := NewCursor("calc(1px; 2px); rest")
	var before []TokenType
	err := c.ParseUntilBefore(isBangOrSemicolon, func(sub *Cursor) error {
		for {
			tok, ok := sub.NextIncludingWhitespaceAndComments()
			if !ok {
				return nil
			}
			before = append(before, tok.Type)
		}
	})
	if err != nil {
		t.Fatalf("ParseUntilBefore error: %v", err)
	}
	if len(before) == 0 || before[0] != TokenFunction {
		t.Fatalf("unexpected tokens before delimiter: %v", before)
	}

	tok, ok := c.Next()
	if !ok || tok.Type != TokenSemicolon {
		t.Fatalf("cursor not parked before the top-level semicolon: %+v, ok=%v", tok, ok)
	}
}

func TestUnterminatedBlockClosesAtEOF(t *testing.T) {
	// An unclosed var() fallback at the end of input — as if a style
	// attribute were truncated mid-declaration — is treated as if the
	// function's block closed exactly at end of input, rather than
	// being rejected.
	c := NewCursor("var(--a, 1px")
	tok, ok := c.Next()
	if !ok || tok.Type != TokenFunction {
		t.Fatalf("expected function token, got %+v", tok)
	}

	var sawIdent, sawComma, sawDimension bool
	err := c.ParseNestedBlock(func(sub *Cursor) error {
		for {
			t, ok := sub.Next()
			if !ok {
				return nil
			}
			switch t.Type {
			case TokenIdent:
				sawIdent = true
			case TokenComma:
				sawComma = true
			case TokenDimension:
				sawDimension = true
			}
		}
	})
	if err != nil {
		t.Fatalf("ParseNestedBlock error: %v", err)
	}
	if !sawIdent || !sawComma || !sawDimension {
		t.Fatalf("did not see the full unterminated block contents: ident=%v comma=%v dimension=%v", sawIdent, sawComma, sawDimension)
	}
	if !c.AtEnd() {
		t.Fatalf("cursor not at end after draining the unterminated block")
	}
}
