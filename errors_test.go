package valtree_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/reoring/valtree"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := valtree.Issues{
		{Path: "/a", Code: valtree.CodeIntType},
		{Path: "/b", Code: valtree.CodeMissing},
		{Path: "/c", Code: valtree.CodeTooShort},
		{Path: "/d", Code: valtree.CodeTooLong},
	}
	want := "int_type at /a; missing at /b; too_short at /c; ... (total 4)"
	if s := iss.Error(); s != want {
		t.Fatalf("got %q, want %q", s, want)
	}
}

func TestIssues_Prefix(t *testing.T) {
	iss := valtree.Issues{{Path: "/"}, {Path: "/x/0"}}
	got := iss.Prefix("a/b")
	if got[0].Path != "/a~1b" || got[1].Path != "/a~1b/x/0" {
		t.Fatalf("unexpected paths: %v, %v", got[0].Path, got[1].Path)
	}
	if iss[0].Path != "/" {
		t.Fatalf("Prefix must not modify the receiver")
	}
}

func TestInternal_NeverDoubleWraps(t *testing.T) {
	boom := errors.New("boom")
	once := valtree.Internal(boom)
	twice := valtree.Internal(once)
	if once != twice {
		t.Fatalf("Internal must be idempotent")
	}
	if once.Error() != "boom" {
		t.Fatalf("internal error must not add context, got %q", once.Error())
	}
	if valtree.Internal(nil) != nil {
		t.Fatalf("Internal(nil) must be nil")
	}
}

func TestAsIssues_IgnoresInternal(t *testing.T) {
	iss := valtree.Issues{{Path: "/", Code: valtree.CodeIntType}}
	if _, ok := valtree.AsIssues(valtree.Internal(iss)); ok {
		t.Fatalf("issues inside an internal fault must stay internal")
	}
	got, ok := valtree.AsIssues(fmt.Errorf("wrapped: %w", iss))
	if !ok || len(got) != 1 {
		t.Fatalf("expected wrapped issues to be found, got %v", got)
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &valtree.ValidationError{Title: "User", Issues: valtree.Issues{
		{Path: "/age", Code: valtree.CodeIntType, Message: "Input should be a valid integer"},
	}}
	msg := ve.Error()
	if !strings.HasPrefix(msg, "1 validation error for User") || !strings.Contains(msg, "/age") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestBuildError_Nested(t *testing.T) {
	err := valtree.Nested("field", valtree.Nested("items", &valtree.BuildError{Msg: "bad"}))
	if err.Error() != "field.items: bad" {
		t.Fatalf("got %q", err.Error())
	}
	plain := errors.New("plain")
	if valtree.Nested("x", plain) != plain {
		t.Fatalf("non build errors pass through unchanged")
	}
}

func TestNewIssue_TranslatesMessage(t *testing.T) {
	it := valtree.NewIssue(valtree.CodeGreaterEqual, 0, "ge", 1)
	if it.Message != "Input should be greater than or equal to 1" || it.Params["ge"] != 1 || it.Path != "/" {
		t.Fatalf("unexpected issue %+v", it)
	}
}
