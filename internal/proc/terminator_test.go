package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/process"
)

type fakeProc struct {
	pid     int32
	name    string
	killErr error
	killed  bool
}

func (f *fakeProc) Pid() int32            { return f.pid }
func (f *fakeProc) Name() (string, error) { return f.name, nil }
func (f *fakeProc) Kill() error {
	if f.killErr != nil {
		return f.killErr
	}
	f.killed = true
	return nil
}

type fakeLister struct {
	procs []Proc
	err   error
}

func (f fakeLister) Processes(context.Context) ([]Proc, error) {
	return f.procs, f.err
}

func TestTerminateMatchesCaseInsensitive(t *testing.T) {
	chrome := &fakeProc{pid: 10, name: "Chrome.EXE"}
	driver := &fakeProc{pid: 11, name: "chromedriver"}
	other := &fakeProc{pid: 12, name: "explorer.exe"}

	term := NewWithLister(fakeLister{procs: []Proc{chrome, driver, other}})
	res, err := term.Terminate(context.Background(), []string{"chrome", "ChromeDriver.exe"})
	if err != nil {
		t.Fatal(err)
	}

	if res.Matched != 2 || res.Killed != 2 {
		t.Errorf("matched/killed = %d/%d, want 2/2", res.Matched, res.Killed)
	}
	if !chrome.killed || !driver.killed {
		t.Error("both matching processes should be killed")
	}
	if other.killed {
		t.Error("non-matching process must not be killed")
	}
}

func TestTerminateAlreadyGoneIsSuccess(t *testing.T) {
	gone := &fakeProc{pid: 20, name: "chrome", killErr: process.ErrorProcessNotRunning}

	term := NewWithLister(fakeLister{procs: []Proc{gone}})
	res, err := term.Terminate(context.Background(), []string{"chrome"})
	if err != nil {
		t.Fatal(err)
	}

	if res.Killed != 1 {
		t.Errorf("Killed = %d, want 1 (already gone counts)", res.Killed)
	}
	if len(res.Failed) != 0 {
		t.Errorf("Failed = %v, want none", res.Failed)
	}
}

func TestTerminateRecordsRefusals(t *testing.T) {
	denied := errors.New("access denied")
	stubborn := &fakeProc{pid: 30, name: "chrome", killErr: denied}
	meek := &fakeProc{pid: 31, name: "chrome"}

	term := NewWithLister(fakeLister{procs: []Proc{stubborn, meek}})
	res, err := term.Terminate(context.Background(), []string{"chrome"})
	if err != nil {
		t.Fatal(err)
	}

	if res.Killed != 1 {
		t.Errorf("Killed = %d, want 1", res.Killed)
	}
	if len(res.Failed) != 1 {
		t.Fatalf("Failed = %v, want one entry", res.Failed)
	}
	if res.Failed[0].Pid != 30 || !errors.Is(res.Failed[0].Err, denied) {
		t.Errorf("unexpected failure record: %+v", res.Failed[0])
	}
}

func TestTerminateListingError(t *testing.T) {
	boom := errors.New("proc table unavailable")
	term := NewWithLister(fakeLister{err: boom})

	res, err := term.Terminate(context.Background(), []string{"chrome"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the listing error surfaced", err)
	}
	if res.Matched != 0 {
		t.Errorf("Matched = %d, want 0", res.Matched)
	}
}

func TestTerminateEmptyNames(t *testing.T) {
	term := NewWithLister(fakeLister{procs: []Proc{&fakeProc{pid: 1, name: "chrome"}}})
	res, err := term.Terminate(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Matched != 0 {
		t.Errorf("Matched = %d, want 0 with no names", res.Matched)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Chrome.EXE":         "chrome",
		" chromedriver.exe ": "chromedriver",
		"chrome":             "chrome",
	}
	for in, want := range cases {
		if got := normalizeName(in); got != want {
			t.Errorf("normalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
