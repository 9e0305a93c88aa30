package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandrolain/gomodeval/pkg/types"
)

// render prints an AST fully parenthesised, e.g. ((8-3)-2).
func render(n *types.ASTNode) string {
	switch n.Type {
	case types.NodeNumber:
		var sb strings.Builder
		writeInt(&sb, n.Value)
		return sb.String()
	case types.NodeUnary:
		return string(n.Op) + render(n.LHS)
	case types.NodeGroup:
		return render(n.LHS)
	case types.NodeBinary:
		return "(" + render(n.LHS) + string(n.Op) + render(n.RHS) + ")"
	}
	return "?"
}

func writeInt(sb *strings.Builder, v int64) {
	if v >= 10 {
		writeInt(sb, v/10)
	}
	sb.WriteByte(byte('0' + v%10))
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"literal", "42", "42"},
		{"left assoc sub", "8-3-2", "((8-3)-2)"},
		{"left assoc div", "8/4/2", "((8/4)/2)"},
		{"precedence", "2+3*4", "(2+(3*4))"},
		{"parens", "(2+3)*4", "((2+3)*4)"},
		{"unary minus", "-5", "-5"},
		{"unary plus", "+5", "+5"},
		{"unary on group", "-(1+2)", "-(1+2)"},
		{"unary after op", "2*-3", "(2*-3)"},
		{"whitespace", " 1 +\t1 + 1 ", "((1+1)+1)"},
		{"nested", "((7))", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.query, err)
			}
			if got := render(expr.AST()); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseKeepsCompactSource(t *testing.T) {
	expr, err := Parse("1 + 1 * 2 + 2 * (3 + 5 * 4)\n")
	if err != nil {
		t.Fatal(err)
	}
	if expr.Source() != "1+1*2+2*(3+5*4)" {
		t.Errorf("source: got %q", expr.Source())
	}
	if expr.Nodes() == 0 {
		t.Error("expected node count to be recorded")
	}
}

func TestParseLevels(t *testing.T) {
	tests := []struct {
		name  string
		input string
		level types.Level
		rest  string
	}{
		{"factor literal", "1024*768", types.LevelFactor, "*768"},
		{"factor group", "(7+8-2*3)*5", types.LevelFactor, "*5"},
		{"term", "1024*768/16+256", types.LevelTerm, "+256"},
		{"term with groups", "(7+8-2*3)*32/(5-2*3)-1", types.LevelTerm, "-1"},
		{"expression stops at paren", "1+2)*3", types.LevelExpression, ")*3"},
		{"expression consumes all", "1+2*3", types.LevelExpression, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.input)
			if _, err := p.parseLevel(tt.level); err != nil {
				t.Fatalf("parseLevel: %v", err)
			}
			if got := p.cur.Rest(); got != tt.rest {
				t.Errorf("rest: got %q, want %q", got, tt.rest)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  types.ErrorCode
		pos   int
	}{
		{"empty", "", types.ErrMalformedExpression, 0},
		{"blank", "  \t ", types.ErrMalformedExpression, 0},
		{"unclosed", "(1+2", types.ErrMalformedExpression, 4},
		{"stray close", "1+2)", types.ErrMalformedExpression, 3},
		{"wrong closer", "(1+2]", types.ErrMalformedExpression, 4},
		{"trailing operator", "1+", types.ErrMalformedExpression, 2},
		{"double sign", "--5", types.ErrMalformedExpression, 1},
		{"missing operand", "1+*2", types.ErrMalformedExpression, 2},
		{"letter", "1+a", types.ErrMalformedExpression, 2},
		{"only open", "(", types.ErrMalformedExpression, 1},
		{"overflow", "99999999999999999999", types.ErrLiteralOverflow, 0},
		{"overflow in expression", "1+9223372036854775808", types.ErrLiteralOverflow, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if err == nil {
				t.Fatalf("expected error for %q", tt.query)
			}
			var e *types.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *types.Error, got %T", err)
			}
			if e.Code != tt.code {
				t.Errorf("code: got %s, want %s", e.Code, tt.code)
			}
			if e.Position != tt.pos {
				t.Errorf("position: got %d, want %d", e.Position, tt.pos)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	query := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)

	if _, err := Compile(query, WithMaxDepth(20)); err != nil {
		t.Fatalf("depth 20 should parse: %v", err)
	}

	_, err := Compile(query, WithMaxDepth(19))
	if !errors.Is(err, types.ErrDepthExceeded) {
		t.Fatalf("expected depth error, got %v", err)
	}

	if _, err := Compile(query, WithMaxDepth(0)); err != nil {
		t.Fatalf("unlimited depth should parse: %v", err)
	}
}

func TestReadLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		rest  string
	}{
		{"0", 0, ""},
		{"007", 7, ""},
		{"1024*768", 1024, "*768"},
		{"9223372036854775807", 9223372036854775807, ""},
		{"1000000007)", 1000000007, ")"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := NewCursor(tt.input)
			got, err := ReadLiteral(c)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if c.Rest() != tt.rest {
				t.Errorf("rest: got %q, want %q", c.Rest(), tt.rest)
			}
		})
	}
}

func TestReadLiteralOverflowConsumesRun(t *testing.T) {
	c := NewCursor("9223372036854775808+1")
	_, err := ReadLiteral(c)
	if !errors.Is(err, types.ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if c.Rest() != "+1" {
		t.Errorf("rest: got %q", c.Rest())
	}
}

func TestStripWhitespace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1 + 1", "1+1"},
		{"\t1\t+ \t1  ", "1+1"},
		{"1+1\n", "1+1"},
		{"1 + 1\r\n", "1+1"},
		{"12 34", "1234"},
		{"", ""},
		{"1+1\n2+2", "1+1"},
		{"0\r ", "0"},
		{"0 \r\t\r", "0"},
		{"1\r+1", "1\r+1"},
	}
	for _, tt := range tests {
		got := StripWhitespace(tt.in)
		if got != tt.want {
			t.Errorf("StripWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := StripWhitespace(got); again != got {
			t.Errorf("StripWhitespace not idempotent on %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor("ab")
	if c.Peek() != 'a' || c.Pos() != 0 {
		t.Fatal("unexpected start state")
	}
	c.Advance()
	c.Advance()
	if !c.AtEnd() || c.Peek() != eof {
		t.Fatal("expected end of input")
	}
	c.Advance()
	if c.Pos() != 2 {
		t.Errorf("Advance past end moved cursor to %d", c.Pos())
	}
}
