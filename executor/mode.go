package executor

import (
	"runtime"

	"github.com/victoralfred/winexec/internal/envutil"
	"github.com/victoralfred/winexec/validation"
	"github.com/victoralfred/winexec/wine"
	"github.com/victoralfred/winexec/winepath"
)

// execMode is the two-variant execution mode, resolved once per Run.
type execMode int

const (
	modeNative execMode = iota
	modeWine
)

// resolveMode decides how exe must be launched on this host. Windows
// executables on a non-Windows host go through Wine; everything else,
// including any executable on a Windows host, runs natively.
func resolveMode(exe string) execMode {
	if runtime.GOOS == "windows" {
		return modeNative
	}
	if validation.IsWindowsExecutable(exe) || wine.IsWineTool(exe) {
		return modeWine
	}
	return modeNative
}

// launcher is the strategy behind an execution mode: it shapes the
// command vector, the child environment and the path translation.
type launcher interface {
	command(exe string) []string
	environ(overrides map[string]string) []string
	translator() winepath.Translator
}

// nativeLauncher runs the executable directly.
type nativeLauncher struct{}

func (nativeLauncher) command(exe string) []string {
	return []string{exe}
}

func (nativeLauncher) environ(overrides map[string]string) []string {
	return envutil.Build(envutil.Merge(envutil.Ambient(), overrides))
}

func (nativeLauncher) translator() winepath.Translator {
	return winepath.Native()
}

// wineLauncher runs the executable through a context's Wine loader.
type wineLauncher struct {
	ctx *wine.Context
}

func (l *wineLauncher) command(exe string) []string {
	return []string{l.ctx.Dist().Loader(), exe}
}

// environ layers the context environment over the ambient one, with
// caller overrides on top.
func (l *wineLauncher) environ(overrides map[string]string) []string {
	env := l.ctx.Environ(envutil.Ambient())
	return envutil.Build(envutil.Merge(env, overrides))
}

func (l *wineLauncher) translator() winepath.Translator {
	return winepath.ForPrefix(l.ctx.Prefix().DriveMapping())
}
