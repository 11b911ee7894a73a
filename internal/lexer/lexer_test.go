package lexer

import "testing"

func TestOperatorsAndPunctuation(t *testing.T) {
	input := `+ - * / < <= > >= == != = -> : , . ( ) { }`

	tests := []TokenType{
		PLUS, MINUS, STAR, SLASH, LT, LE, GT, GE, EQ, NE, ASSIGN, ARROW,
		COLON, COMMA, DOT, LPAREN, RPAREN, LBRACE, RBRACE, EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, want, tok.Type)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `fn let if else while u64 struct noreturn total isReady _x`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{FN, "fn"},
		{LET, "let"},
		{IF, "if"},
		{ELSE, "else"},
		{WHILE, "while"},
		{U64, "u64"},
		{STRUCT, "struct"},
		{NORETURN, "noreturn"},
		{IDENT, "total"},
		{IDENT, "isReady"},
		{IDENT, "_x"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestIntegerLiterals(t *testing.T) {
	input := `0 42 18446744073709551615`

	tests := []string{"0", "42", "18446744073709551615"}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != INT {
			t.Fatalf("tests[%d] - tokentype wrong. expected=INT, got=%q", i, tok.Type)
		}
		if tok.Literal != want {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, want, tok.Literal)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "1 # this is a comment\n+ 2"

	l := New(input)
	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "1" {
		t.Fatalf("expected INT(1), got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != PLUS {
		t.Fatalf("expected PLUS, got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != INT || tok.Literal != "2" {
		t.Fatalf("expected INT(2), got %s", tok)
	}
}

func TestAmbiguousPrefixOperators(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"-", MINUS},
		{"->", ARROW},
		{"<", LT},
		{"<=", LE},
		{">", GT},
		{">=", GE},
		{"=", ASSIGN},
		{"==", EQ},
		{"!=", NE},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			tok := l.NextToken()
			if tok.Type != tt.want {
				t.Fatalf("input %q: expected=%q, got=%q", tt.input, tt.want, tok.Type)
			}
			if l.NextToken().Type != EOF {
				t.Fatalf("input %q: expected a single token", tt.input)
			}
		})
	}
}

func TestPositionsAreRuneCounted(t *testing.T) {
	// "λ" is a two-byte rune; the `+` after the identifier "λx" must be at
	// column 4, not column 5 (DESIGN.md: rune-counted column positions).
	input := "λx + 1"

	l := New(input)
	tok := l.NextToken() // identifier "λx"
	if tok.Type != IDENT || tok.Literal != "λx" {
		t.Fatalf("expected IDENT(λx), got %s", tok)
	}
	if tok.Pos.Column != 1 {
		t.Fatalf("expected column 1, got %d", tok.Pos.Column)
	}

	plus := l.NextToken()
	if plus.Type != PLUS {
		t.Fatalf("expected PLUS, got %s", plus)
	}
	if plus.Pos.Column != 4 {
		t.Fatalf("expected column 4 (rune count, not byte offset), got %d", plus.Pos.Column)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok)
	}
	if tok.Literal != "@" {
		t.Fatalf("expected literal '@', got %q", tok.Literal)
	}
}
