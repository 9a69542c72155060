package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Response is a scripted result for Fake.
type Response struct {
	Output string
	Code   int
	Err    error
}

// Fake is an in-memory Runner for tests. It records every argv and
// answers from scripted responses keyed by the space-joined command line.
// Unscripted commands succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	calls     [][]string
	responses map[string]Response
	files     map[string][]byte
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]Response),
		files:     make(map[string][]byte),
	}
}

// On scripts the response for argv.
func (f *Fake) On(argv []string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[strings.Join(argv, " ")] = resp
}

// SetFile makes ReadFile return data for path.
func (f *Fake) SetFile(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
}

// Calls returns every argv run so far.
func (f *Fake) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Ran reports whether argv was run.
func (f *Fake) Ran(argv []string) bool {
	want := strings.Join(argv, " ")
	for _, c := range f.Calls() {
		if strings.Join(c, " ") == want {
			return true
		}
	}
	return false
}

func (f *Fake) Run(_ context.Context, argv []string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	f.calls = append(f.calls, append([]string(nil), argv...))

	resp := f.responses[strings.Join(argv, " ")]
	out := []byte(resp.Output)
	if resp.Err != nil {
		return out, resp.Err
	}
	if resp.Code != 0 {
		return out, &ExitError{Argv: argv, Code: resp.Code, Output: out}
	}
	return out, nil
}

func (f *Fake) ReadFile(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return data, nil
}

func (f *Fake) Close() error {
	return nil
}
