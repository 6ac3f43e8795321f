package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// captureRun runs runProgram against src via -e, capturing stdout the way
// the reference dwscript CLI's own command tests do.
func captureRun(t *testing.T, src string) (string, error) {
	t.Helper()
	oldExpr, oldDump := evalExpr, dumpAST
	defer func() { evalExpr, dumpAST = oldExpr, oldDump }()
	evalExpr, dumpAST = src, false

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runProgram(runCmd, nil)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}

func TestRunIntAddition(t *testing.T) {
	out, err := captureRun(t, `result = 2.add[y=3].result`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5\n" {
		t.Fatalf("got %q, want %q", out, "5\n")
	}
}

func TestRunStringConcat(t *testing.T) {
	out, err := captureRun(t, `result = "foo".cat[y="bar"].result`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "foobar\n" {
		t.Fatalf("got %q, want %q", out, "foobar\n")
	}
}

func TestRunParseErrorExitsNonNil(t *testing.T) {
	if _, err := captureRun(t, `result = { x = 1, x = 2 }`); err == nil {
		t.Fatalf("expected an error for a duplicated attribute key")
	}
}

// TestRunSmallestPrimeFactor exercises the recursive factor-finder adapted
// from the reference interpreter's own example_factor.py: the smallest
// prime factor of 533 is 13.
func TestRunSmallestPrimeFactor(t *testing.T) {
	src := `factor = { f = 2
  next = @[f = ^.f.add[y=1].result].result
  result = x.mod[y=^.f].result.select[false=^.f, true=^.next].result }
result = factor[x=533].result`
	out, err := captureRun(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "smallest_prime_factor_533", out)
}

// TestRunFullFactorization adapts example_factors.py: the full prime
// factorization of 246 printed as a space-separated string ("2 3 41").
func TestRunFullFactorization(t *testing.T) {
	src := `factors = { f = 2
  next_result = @[f=^.f.add[y=1].result].result
  remaining_factors = @[x=^.x.div[y=^.^.f].result, f=2].result
  is_done = x.eq[y=^.f].result
  mod_out = x.mod[y=^.f].result
  result = is_done.select[
    true=^.x.str,
    false=^.mod_out.select[
      false=^.^.f.str.cat[y=" "].result.cat[y=^.^.^.remaining_factors].result,
      true=^.^.next_result
    ].result
  ].result }
result = factors[x=246].result`
	out, err := captureRun(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "full_factorization_246", out)
}

func TestRunFibonacciViaOverrideRecursion(t *testing.T) {
	src := `fib = { n = 0, a = 0, b = 1
  result = n.eq[y=0].result.select[
    true = ^.a,
    false = ^[n=^.n.sub[y=1].result, a=^.b, b=^.a.add[y=^.b].result].result
  ].result }
result = fib[n=10].result`
	out, err := captureRun(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "55\n" {
		t.Fatalf("got %q, want %q", out, "55\n")
	}
}

func TestRunFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/prog.bl"
	if err := os.WriteFile(path, []byte(`result = "hello".substr[start=1,end=4].result`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	oldExpr, oldDump := evalExpr, dumpAST
	defer func() { evalExpr, dumpAST = oldExpr, oldDump }()
	evalExpr, dumpAST = "", false

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runProgram(runCmd, []string{path})

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ell\n" {
		t.Fatalf("got %q, want %q", out, "ell\n")
	}
}
