package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/victoralfred/winexec/hooks"
	internalexec "github.com/victoralfred/winexec/internal/exec"
	"github.com/victoralfred/winexec/wine"
)

// mockRunner captures the run configuration and returns canned results.
type mockRunner struct {
	lastConfig *internalexec.RunConfig
	result     *internalexec.RunResult
	err        error
}

func (m *mockRunner) Run(ctx context.Context, config *internalexec.RunConfig) (*internalexec.RunResult, error) {
	m.lastConfig = config
	if m.result == nil && m.err == nil {
		return &internalexec.RunResult{ExitCode: 0}, nil
	}
	return m.result, m.err
}

// makeWineContext builds a context over fake distribution and prefix
// trees.
func makeWineContext(t *testing.T, opts ...wine.ContextOption) *wine.Context {
	t.Helper()

	dist := t.TempDir()
	for _, sub := range []string{"bin", "lib", "lib64", "share"} {
		if err := os.MkdirAll(filepath.Join(dist, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, bin := range []string{"wine", "wine64", "wineserver", "wine-preloader", "wine64-preloader"} {
		if err := os.WriteFile(filepath.Join(dist, "bin", bin), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	prefix := t.TempDir()

	ctx, err := wine.NewContext(dist, prefix, opts...)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	return ctx
}

func envValue(env []string, key string) (string, bool) {
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

func TestProcess_Run_WineMode(t *testing.T) {
	wctx := makeWineContext(t, wine.WithEnv("ESYNC", "1"))
	mock := &mockRunner{}

	p := New("notepad.exe")
	p.runner = mock
	p.AddArguments(Flag("-info"), Positional(Path("/home/me/todo.txt")))

	if _, err := p.Run(context.Background(), WithContext(wctx)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	cfg := mock.lastConfig
	if cfg.Binary != wctx.Dist().Loader() {
		t.Errorf("Binary = %q, want the wine loader %q", cfg.Binary, wctx.Dist().Loader())
	}
	want := []string{"notepad.exe", "-info", `Z:\home\me\todo.txt`}
	if len(cfg.Args) != len(want) {
		t.Fatalf("Args = %v, want %v", cfg.Args, want)
	}
	for i := range want {
		if cfg.Args[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, cfg.Args[i], want[i])
		}
	}

	if got, ok := envValue(cfg.Env, "WINEPREFIX"); !ok || got != wctx.Prefix().Dir() {
		t.Errorf("WINEPREFIX = %q, want %q", got, wctx.Prefix().Dir())
	}
	if got, _ := envValue(cfg.Env, "ESYNC"); got != "1" {
		t.Errorf("ESYNC = %q, want the raw override visible to the child", got)
	}
	if got, _ := envValue(cfg.Env, "WINEESYNC"); got != "1" {
		t.Errorf("WINEESYNC = %q, want 1", got)
	}
}

func TestProcess_Run_ContextFromRegistry(t *testing.T) {
	reg := wine.NewRegistry()
	wctx := makeWineContext(t)
	reg.Register(wctx, wine.WithName("main"))
	mock := &mockRunner{}

	p := New("regedit")
	p.runner = mock

	if _, err := p.Run(context.Background(), WithRegistry(reg), WithContextName("main")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if mock.lastConfig.Binary != wctx.Dist().Loader() {
		t.Errorf("Binary = %q, want loader from the registry context", mock.lastConfig.Binary)
	}
}

func TestProcess_Run_MissingContextRevertsState(t *testing.T) {
	p := New("setup.exe")
	p.runner = &mockRunner{}

	_, err := p.Run(context.Background(), WithRegistry(wine.NewRegistry()))
	if !errors.Is(err, ErrMissingContext) {
		t.Fatalf("error = %v, want ErrMissingContext", err)
	}
	if got := GetErrorCode(err); got != ErrCodeMissingContext {
		t.Errorf("code = %q, want %q", got, ErrCodeMissingContext)
	}
	if p.State() != StateCreated {
		t.Errorf("state = %v, setup failure must leave the process runnable", p.State())
	}

	// A corrected call succeeds on the same Process.
	if _, err := p.Run(context.Background(), WithContext(makeWineContext(t))); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestProcess_Run_NativeMode(t *testing.T) {
	p := New("/bin/sh").SetArguments(
		Flag("-c"),
		Positional(String("echo native")),
	)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out := p.Stdout(); len(out) != 1 || out[0] != "native" {
		t.Errorf("Stdout = %v, want [native]", out)
	}
	if code, ok := p.ExitCode(); !ok || code != 0 {
		t.Errorf("ExitCode = (%d, %v), want (0, true)", code, ok)
	}
	if !p.Result().Success() {
		t.Error("Success() = false")
	}
}

func TestProcess_Run_NonzeroExitIsData(t *testing.T) {
	p := New("/bin/sh").SetArguments(Flag("-c"), Positional(String("exit 3")))

	_, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("nonzero exit must not be an error, got %v", err)
	}
	if code, ok := p.ExitCode(); !ok || code != 3 {
		t.Errorf("ExitCode = (%d, %v), want (3, true)", code, ok)
	}
	if p.Result().Status != StatusError {
		t.Errorf("Status = %v, want StatusError", p.Result().Status)
	}
}

func TestProcess_Run_AlreadyRun(t *testing.T) {
	p := New("/bin/true")
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	_, err := p.Run(context.Background())
	if !errors.Is(err, ErrAlreadyRun) {
		t.Errorf("error = %v, want ErrAlreadyRun", err)
	}
	// The cached result stays readable.
	if code, ok := p.ExitCode(); !ok || code != 0 {
		t.Errorf("ExitCode = (%d, %v) after rejected rerun", code, ok)
	}
}

func TestProcess_Run_LaunchFailure(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "missing-binary"))

	_, err := p.Run(context.Background())
	if !errors.Is(err, ErrLaunch) {
		t.Fatalf("error = %v, want ErrLaunch", err)
	}
	if !p.Finished() {
		t.Error("a spawn attempt must finish the process")
	}
	if _, ok := p.ExitCode(); ok {
		t.Error("launch failure must leave the exit code unset")
	}
	if p.Result().Status != StatusLaunchFailed {
		t.Errorf("Status = %v, want StatusLaunchFailed", p.Result().Status)
	}
}

func TestProcess_Run_Timeout(t *testing.T) {
	p := New("/bin/sh").SetArguments(
		Flag("-c"),
		Positional(String("echo partial; sleep 10")),
	)

	_, err := p.Run(context.Background(), WithTimeout(300*time.Millisecond))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if p.Result().Status != StatusTimeout {
		t.Errorf("Status = %v, want StatusTimeout", p.Result().Status)
	}
	if out := p.Stdout(); len(out) == 0 || out[0] != "partial" {
		t.Errorf("Stdout = %v, partial output must survive the timeout", out)
	}
}

func TestProcess_Run_WorkingDirDefaultsToExeDir(t *testing.T) {
	mock := &mockRunner{}
	p := New("/opt/app/tool.exe")
	p.runner = mock

	if _, err := p.Run(context.Background(), WithContext(makeWineContext(t))); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if mock.lastConfig.WorkingDir != "/opt/app" {
		t.Errorf("WorkingDir = %q, want /opt/app", mock.lastConfig.WorkingDir)
	}
}

func TestProcess_Run_WithDirOverride(t *testing.T) {
	mock := &mockRunner{}
	p := New("tool.exe")
	p.runner = mock

	if _, err := p.Run(context.Background(), WithContext(makeWineContext(t)), WithDir("/work")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if mock.lastConfig.WorkingDir != "/work" {
		t.Errorf("WorkingDir = %q, want /work", mock.lastConfig.WorkingDir)
	}
}

func TestProcess_Run_EnvOverrideBeatsContext(t *testing.T) {
	mock := &mockRunner{}
	p := New("tool.exe")
	p.runner = mock
	wctx := makeWineContext(t, wine.WithEnv("MY_VAR", "from-context"))

	_, err := p.Run(context.Background(),
		WithContext(wctx),
		WithEnv("MY_VAR", "from-run"),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, _ := envValue(mock.lastConfig.Env, "MY_VAR"); got != "from-run" {
		t.Errorf("MY_VAR = %q, run option must win over the context", got)
	}
}

// rejectingHook aborts every launch.
type rejectingHook struct{}

func (rejectingHook) Name() string  { return "reject" }
func (rejectingHook) Priority() int { return 0 }
func (rejectingHook) BeforeLaunch(ctx context.Context, launch *hooks.Launch) error {
	return errors.New("denied")
}

func TestProcess_Run_HookRejectionRevertsState(t *testing.T) {
	reg := hooks.NewRegistry()
	if err := reg.Register(rejectingHook{}); err != nil {
		t.Fatal(err)
	}

	mock := &mockRunner{}
	p := New("/bin/true")
	p.runner = mock

	_, err := p.Run(context.Background(), WithHooks(reg))
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("error = %v, want the hook rejection", err)
	}
	if mock.lastConfig != nil {
		t.Error("rejected launch must not spawn")
	}
	if p.State() != StateCreated {
		t.Errorf("state = %v, want StateCreated", p.State())
	}
}

// recordingHook captures after-exit invocations.
type recordingHook struct {
	exitCode int
	called   bool
}

func (*recordingHook) Name() string  { return "record" }
func (*recordingHook) Priority() int { return 0 }
func (h *recordingHook) AfterExit(ctx context.Context, launch *hooks.Launch, exitCode int, runErr error) error {
	h.called = true
	h.exitCode = exitCode
	return nil
}

func TestProcess_Run_AfterExitHook(t *testing.T) {
	rec := &recordingHook{}
	reg := hooks.NewRegistry()
	if err := reg.Register(rec); err != nil {
		t.Fatal(err)
	}

	p := New("/bin/sh").SetArguments(Flag("-c"), Positional(String("exit 5")))
	if _, err := p.Run(context.Background(), WithHooks(reg)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !rec.called {
		t.Fatal("after-exit hook not invoked")
	}
	if rec.exitCode != 5 {
		t.Errorf("hook exitCode = %d, want 5", rec.exitCode)
	}
}

func TestProcess_AccessorsBeforeRun(t *testing.T) {
	p := New("tool.exe")
	if p.Finished() {
		t.Error("fresh process reports finished")
	}
	if p.Result() != nil {
		t.Error("fresh process has a result")
	}
	if _, ok := p.ExitCode(); ok {
		t.Error("fresh process has an exit code")
	}
	if p.Stdout() != nil || p.Stderr() != nil {
		t.Error("fresh process has output")
	}
}
