// Package build implements the BuildDriver: it inlines the hand-written
// runtime support library into generated Zig source, writes it to a
// temporary directory, invokes the external zig compiler, and relocates
// the resulting binary.
//
// The pipeline is single-threaded and synchronous: the only blocking
// operation is the external compiler invocation, awaited to completion.
// Every exit path — success, RuntimeNotFound, CompilationFailed,
// BinaryMissing — deletes the temporary directory before returning,
// unless Driver.KeepTemp is set, in which case it is left in place.
package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zylang-project/zylang/internal/errors"
)

const runtimeImportMarker = `@import("runtime")`
const stdImportLine = `const std = @import("std");`

// CommandRunner abstracts the external zig invocation so tests can stub it
// without a real toolchain on PATH.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// execRunner is the production CommandRunner, backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Driver is the build driver. Construct with NewDriver; it is not safe to
// share across concurrent compilations.
type Driver struct {
	Runner            CommandRunner
	RuntimeSearchPath []string // extra candidate paths, checked before the built-ins, in order
	Optimize          string   // zig -O mode; defaults to ReleaseFast
	OutputDir         string   // default promotion directory when no output path is given (O-3)
	KeepTemp          bool
	Log               *logrus.Logger
}

// NewDriver builds a Driver with production defaults.
func NewDriver() *Driver {
	return &Driver{
		Runner:    execRunner{},
		Optimize:  "ReleaseFast",
		OutputDir: ".",
		Log:       logrus.New(),
	}
}

// builtinSearchPaths returns the fixed, ordered list of candidate runtime
// locations relative to the transpiler's installation and the working
// directory, per spec §4.4 step 1.
func builtinSearchPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "..", "share", "zylang", "runtime.zig"))
	}
	paths = append(paths, filepath.Join(".", "runtime", "runtime.zig"))
	return paths
}

func (d *Driver) searchPaths() []string {
	var paths []string
	paths = append(paths, d.RuntimeSearchPath...)
	if env := os.Getenv("ZYLANG_RUNTIME_PATH"); env != "" {
		paths = append(paths, env)
	}
	paths = append(paths, builtinSearchPaths()...)
	return paths
}

func (d *Driver) locateRuntime() (string, error) {
	searched := d.searchPaths()
	for _, p := range searched {
		if p == "" {
			continue
		}
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			d.log().Debugf("found runtime at %s", p)
			return p, nil
		}
	}
	return "", errors.RuntimeNotFound(searched)
}

func (d *Driver) log() *logrus.Logger {
	if d.Log == nil {
		return logrus.New()
	}
	return d.Log
}

// inlineRuntime implements spec §4.4 step 2: strip the generated text's
// own runtime import (and its leading std import, since the runtime
// source already carries both), replace every "runtime." qualifier with
// the empty string since the contents are now inlined into the same
// translation unit, and concatenate runtime source + blank line +
// rewritten generated text.
func inlineRuntime(runtimeSource, generated string) string {
	lines := strings.Split(generated, "\n")
	var kept []string
	for i, line := range lines {
		if strings.Contains(line, runtimeImportMarker) {
			continue
		}
		if i == 0 && strings.TrimSpace(line) == stdImportLine {
			continue
		}
		kept = append(kept, strings.ReplaceAll(line, "runtime.", ""))
	}
	return runtimeSource + "\n\n" + strings.Join(kept, "\n")
}

// Compile implements spec §4.4: locate and inline the runtime if needed,
// write the combined source to a fresh temporary directory, invoke zig
// build-exe with release optimization, and relocate the resulting binary.
//
// sourceStem names the input script without its extension (e.g. "script"
// for "script.zy"); it is only used to name the promoted binary when
// outputPath is empty (O-3's resolution — see SPEC_FULL.md §4.6).
func (d *Driver) Compile(ctx context.Context, generated, sourceStem, outputPath string) (string, error) {
	if d.Runner == nil {
		d.Runner = execRunner{}
	}

	finalSource := generated
	if strings.Contains(generated, runtimeImportMarker) {
		runtimePath, err := d.locateRuntime()
		if err != nil {
			return "", err
		}
		runtimeBytes, err := os.ReadFile(runtimePath)
		if err != nil {
			return "", errors.IOFailure(err)
		}
		finalSource = inlineRuntime(string(runtimeBytes), generated)
	}

	tmpDir, err := os.MkdirTemp("", "zylc-build-"+uuid.NewString()+"-")
	if err != nil {
		return "", errors.IOFailure(err)
	}
	if !d.KeepTemp {
		defer os.RemoveAll(tmpDir)
	}

	srcPath := filepath.Join(tmpDir, "main.zig")
	if err := os.WriteFile(srcPath, []byte(finalSource), 0o644); err != nil {
		return "", errors.IOFailure(err)
	}

	optimize := d.Optimize
	if optimize == "" {
		optimize = "ReleaseFast"
	}

	d.log().Debugf("invoking zig build-exe %s -O %s", srcPath, optimize)
	_, stderr, err := d.Runner.Run(ctx, tmpDir, "zig", "build-exe", srcPath, "-O", optimize)
	if err != nil {
		return "", errors.CompilationFailed(stderr)
	}

	builtBinary := filepath.Join(tmpDir, "main")
	if _, err := os.Stat(builtBinary); err != nil {
		return "", errors.BinaryMissing(builtBinary)
	}

	dest := outputPath
	if dest == "" {
		// O-3: promote to a stable location instead of returning a path
		// inside the temp directory that is about to be removed.
		dest = filepath.Join(d.OutputDir, sourceStem)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.IOFailure(err)
	}
	if err := copyFile(builtBinary, dest); err != nil {
		return "", errors.IOFailure(err)
	}

	return dest, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o755)
}
