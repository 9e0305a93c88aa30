package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrMalformedExpression, "missing operand", 3)
	if got, want := err.Error(), "E0101 at position 3: missing operand"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	err = NewError(ErrDivisionByZero, "division by zero modulus", -1)
	if got, want := err.Error(), "E0301: division by zero modulus"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("line 4: %w", NewError(ErrLiteralOverflow, "too big", 0).WithToken("99999999999999999999"))

	if !errors.Is(err, ErrOverflow) {
		t.Error("expected errors.Is to match ErrOverflow")
	}
	if errors.Is(err, ErrMalformed) {
		t.Error("did not expect errors.Is to match ErrMalformed")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected errors.As to find *Error")
	}
	if e.Token != "99999999999999999999" {
		t.Errorf("token: got %q", e.Token)
	}
}

func TestErrorUnwrapCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrDivisionByZero, "x", 1).WithCause(cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		level Level
		name  string
		next  Level
	}{
		{LevelExpression, "expression", LevelTerm},
		{LevelTerm, "term", LevelFactor},
		{LevelFactor, "factor", LevelFactor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.level.String() != tt.name {
				t.Errorf("String: got %q, want %q", tt.level.String(), tt.name)
			}
			if tt.level.Next() != tt.next {
				t.Errorf("Next: got %v, want %v", tt.level.Next(), tt.next)
			}
		})
	}
}

func TestNodeArenaGrows(t *testing.T) {
	a := NewNodeArena()
	var nodes []*ASTNode
	for i := 0; i < arenaChunkSize*2+5; i++ {
		n := a.Alloc(NodeNumber, i)
		n.Value = int64(i)
		nodes = append(nodes, n)
	}
	if a.Len() != arenaChunkSize*2+5 {
		t.Fatalf("Len: got %d", a.Len())
	}
	for i, n := range nodes {
		if n.Position != i || n.Value != int64(i) {
			t.Fatalf("node %d clobbered: %+v", i, n)
		}
	}
}

func TestExpressionDepth(t *testing.T) {
	a := NewNodeArena()
	lit := a.Alloc(NodeNumber, 1)
	group := a.Alloc(NodeGroup, 0)
	group.LHS = lit
	neg := a.Alloc(NodeUnary, 0)
	neg.Op = '-'
	neg.LHS = group

	expr := NewExpressionFromArena(neg, "-(1)", a)
	if expr.Depth() != 3 {
		t.Errorf("Depth: got %d, want 3", expr.Depth())
	}
	if expr.Nodes() != 3 {
		t.Errorf("Nodes: got %d, want 3", expr.Nodes())
	}
	if expr.String() != "-(1)" {
		t.Errorf("String: got %q", expr.String())
	}
}
