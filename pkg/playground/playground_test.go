package playground

import (
	"context"
	"math/rand"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func newTestPlayground() *Playground {
	return New(WithRandom(rand.New(rand.NewSource(1))))
}

func execute(t *testing.T, req *Request) *Result {
	t.Helper()
	res, err := newTestPlayground().Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	return res
}

func TestExecute_AllowedScenario(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"check if true;"},
		VerifierCode: strPtr("allow if true;"),
	})

	if got := len(res.TokenBlocks); got != 1 {
		t.Fatalf("len(TokenBlocks) = %d, want 1", got)
	}
	authority := res.TokenBlocks[0]
	if len(authority.Errors) != 0 {
		t.Errorf("authority errors = %v, want none", authority.Errors)
	}
	if len(authority.Markers) != 1 {
		t.Fatalf("len(authority markers) = %d, want 1", len(authority.Markers))
	}
	if !authority.Markers[0].Ok {
		t.Error("authority check marker ok = false, want true")
	}

	if res.VerifierResult == nil || *res.VerifierResult != "Success" {
		t.Errorf("VerifierResult = %v, want Success", res.VerifierResult)
	}
	if res.VerifierEditor == nil {
		t.Fatal("VerifierEditor is nil")
	}
	// Exactly one marker: the chosen policy. The verifier block has no checks.
	if len(res.VerifierEditor.Markers) != 1 {
		t.Fatalf("len(verifier markers) = %d, want 1", len(res.VerifierEditor.Markers))
	}
	if !res.VerifierEditor.Markers[0].Ok {
		t.Error("policy marker ok = false, want true")
	}
	if res.TokenContent == "" {
		t.Error("TokenContent is empty")
	}
}

func TestExecute_FailedCheckScenario(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"check if false;"},
		VerifierCode: strPtr("allow if true;"),
	})

	authority := res.TokenBlocks[0]
	if len(authority.Markers) != 1 {
		t.Fatalf("len(authority markers) = %d, want 1", len(authority.Markers))
	}
	if authority.Markers[0].Ok {
		t.Error("authority check marker ok = true, want false")
	}

	// No policy marker when checks failed.
	if got := len(res.VerifierEditor.Markers); got != 0 {
		t.Errorf("len(verifier markers) = %d, want 0", got)
	}
	if res.VerifierResult == nil || !strings.HasPrefix(*res.VerifierResult, "Error:") {
		t.Errorf("VerifierResult = %v, want an Error", res.VerifierResult)
	}
}

func TestExecute_MalformedAuthority(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"this is not datalog"},
		VerifierCode: strPtr("allow if true;"),
	})

	authority := res.TokenBlocks[0]
	if len(authority.Errors) == 0 {
		t.Fatal("authority has no parse errors")
	}
	pos := authority.Errors[0].Position
	if pos.LineStart != 0 || pos.ColumnStart < 0 {
		t.Errorf("parse error position = %+v, want inside the text", pos)
	}

	// The document still renders and the verifier still runs.
	if res.TokenContent == "" {
		t.Error("TokenContent is empty, want a rendered (near-empty) document")
	}
	if res.VerifierResult == nil || *res.VerifierResult != "Success" {
		t.Errorf("VerifierResult = %v, want Success", res.VerifierResult)
	}
}

func TestExecute_ExtensionBlocks(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks: []string{
			"user(\"alice\");",
			"region(\"eu\");\ncheck if region(\"eu\");",
			"check if user(\"bob\");",
		},
		VerifierCode: strPtr("allow if true;"),
	})

	if got := len(res.TokenBlocks); got != 3 {
		t.Fatalf("len(TokenBlocks) = %d, want 3", got)
	}
	if got := len(res.TokenBlocks[1].Markers); got != 1 {
		t.Fatalf("block 1 markers = %d, want 1", got)
	}
	if !res.TokenBlocks[1].Markers[0].Ok {
		t.Error("block 1 check marker ok = false, want true")
	}
	if got := len(res.TokenBlocks[2].Markers); got != 1 {
		t.Fatalf("block 2 markers = %d, want 1", got)
	}
	if res.TokenBlocks[2].Markers[0].Ok {
		t.Error("block 2 check marker ok = true, want false")
	}
	if !strings.Contains(res.TokenContent, "block 2 {") {
		t.Errorf("TokenContent missing block 2 section:\n%s", res.TokenContent)
	}
}

func TestExecute_DeniedPolicy(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"service(\"db\");"},
		VerifierCode: strPtr("deny if service(\"db\");\nallow if true;"),
	})

	if got := len(res.VerifierEditor.Markers); got != 1 {
		t.Fatalf("len(verifier markers) = %d, want 1", got)
	}
	marker := res.VerifierEditor.Markers[0]
	if marker.Ok {
		t.Error("deny policy marker ok = true, want false")
	}
	// The marker points at the deny policy on line 0.
	if marker.Position.LineStart != 0 {
		t.Errorf("policy marker line = %d, want 0", marker.Position.LineStart)
	}
}

func TestExecute_VerifierChecksGetMarkers(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"user(\"alice\");"},
		VerifierCode: strPtr("check if user(\"alice\");\ncheck if user(\"bob\");\nallow if true;"),
	})

	// Two check markers; no policy marker because checks failed.
	markers := res.VerifierEditor.Markers
	if len(markers) != 2 {
		t.Fatalf("len(verifier markers) = %d, want 2", len(markers))
	}
	if !markers[0].Ok {
		t.Error("verifier check 0 marker ok = false, want true")
	}
	if markers[1].Ok {
		t.Error("verifier check 1 marker ok = true, want false")
	}
	if markers[1].Position.LineStart != 1 {
		t.Errorf("verifier check 1 line = %d, want 1", markers[1].Position.LineStart)
	}
}

func TestExecute_World(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"right(\"file1\", \"read\");"},
		VerifierCode: strPtr("readable($f) <- right($f, \"read\");\nallow if true;"),
	})

	var found bool
	for _, f := range res.VerifierWorld {
		if f.Name == "readable" && len(f.Terms) == 1 && f.Terms[0] == `"file1"` {
			found = true
		}
	}
	if !found {
		t.Errorf("VerifierWorld = %v, want derived readable fact", res.VerifierWorld)
	}
}

func TestExecute_Query(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"right(\"file1\", \"read\");\nright(\"file2\", \"read\");"},
		VerifierCode: strPtr("allow if true;"),
		Query:        strPtr(`readable($f) <- right($f, "read")`),
	})

	if got := len(res.QueryResult); got != 2 {
		t.Fatalf("len(QueryResult) = %d, want 2", got)
	}
	for _, f := range res.QueryResult {
		if f.Name != "readable" {
			t.Errorf("query fact name = %q, want %q", f.Name, "readable")
		}
	}
}

func TestExecute_QueryFailureYieldsEmptyResult(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"user(\"alice\");"},
		VerifierCode: strPtr("allow if true;"),
		Query:        strPtr("syntactically broken("),
	})

	if got := len(res.QueryResult); got != 0 {
		t.Errorf("len(QueryResult) = %d, want 0", got)
	}
	if res.VerifierResult == nil || *res.VerifierResult != "Success" {
		t.Errorf("VerifierResult = %v, want Success despite query failure", res.VerifierResult)
	}
}

func TestExecute_MalformedVerifier(t *testing.T) {
	res := execute(t, &Request{
		TokenBlocks:  []string{"user(\"alice\");"},
		VerifierCode: strPtr("allow if ;"),
	})

	if res.VerifierEditor == nil || len(res.VerifierEditor.Errors) == 0 {
		t.Fatal("verifier editor has no parse errors")
	}
	if res.VerifierResult == nil || !strings.HasPrefix(*res.VerifierResult, "errors:") {
		t.Errorf("VerifierResult = %v, want an errors summary", res.VerifierResult)
	}
	// No reconciliation happened: block editors carry no markers.
	if got := len(res.TokenBlocks[0].Markers); got != 0 {
		t.Errorf("authority markers = %d, want 0", got)
	}
}

func TestExecute_NoVerifier(t *testing.T) {
	res := execute(t, &Request{TokenBlocks: []string{"user(\"alice\");"}})

	if res.VerifierEditor != nil {
		t.Error("VerifierEditor set without verifier code")
	}
	if res.VerifierResult != nil {
		t.Error("VerifierResult set without verifier code")
	}
	if res.TokenContent == "" {
		t.Error("TokenContent is empty")
	}
}

func TestExecute_VerifierWithoutToken(t *testing.T) {
	res := execute(t, &Request{
		VerifierCode: strPtr("fact(\"standalone\");\ncheck if fact(\"standalone\");\nallow if true;"),
	})

	if got := len(res.TokenBlocks); got != 0 {
		t.Errorf("len(TokenBlocks) = %d, want 0", got)
	}
	if res.VerifierResult == nil || *res.VerifierResult != "Success" {
		t.Errorf("VerifierResult = %v, want Success", res.VerifierResult)
	}
	// One check marker plus one policy marker.
	if got := len(res.VerifierEditor.Markers); got != 2 {
		t.Errorf("len(verifier markers) = %d, want 2", got)
	}
}

func TestExecute_RegistrationFailureIsRequestLevel(t *testing.T) {
	// A fact with a variable parses but is rejected by the builder.
	_, err := newTestPlayground().Execute(context.Background(), &Request{
		TokenBlocks: []string{"user($who);"},
	})
	if err == nil {
		t.Fatal("Execute() succeeded, want registration error")
	}
	if !strings.Contains(err.Error(), "registering fact") {
		t.Errorf("error = %v, want a registration failure", err)
	}
}
