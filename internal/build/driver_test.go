package build_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zylang-project/zylang/internal/build"
	"github.com/zylang-project/zylang/internal/errors"
)

// fakeRunner stubs the external zig invocation so these tests run without a
// real toolchain on PATH.
type fakeRunner struct {
	err         error
	stderr      string
	writeBinary bool
}

func (f fakeRunner) Run(_ context.Context, dir, _ string, args ...string) (string, string, error) {
	if f.err != nil {
		return "", f.stderr, f.err
	}
	if f.writeBinary {
		// args[1] is the source path passed by Compile (after "build-exe");
		// "main" is always written alongside it in the same temp dir.
		_ = os.WriteFile(filepath.Join(dir, "main"), []byte("fake-binary"), 0o755)
	}
	return "", "", nil
}

func newTestDriver(t *testing.T, runner build.CommandRunner) *build.Driver {
	t.Helper()
	d := build.NewDriver()
	d.Runner = runner
	d.OutputDir = t.TempDir()
	return d
}

func TestCompileRuntimeNotFoundWhenSourceNeedsRuntimeAndNoneLocatable(t *testing.T) {
	t.Setenv("ZYLANG_RUNTIME_PATH", "")
	d := newTestDriver(t, fakeRunner{writeBinary: true})
	d.RuntimeSearchPath = []string{filepath.Join(t.TempDir(), "does-not-exist.zig")}

	generated := "const std = @import(\"std\");\nconst runtime = @import(\"runtime\");\npub fn main() void {}\n"
	_, err := d.Compile(context.Background(), generated, "prog", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRuntimeNotFound)
}

func TestCompileCompilationFailedSurfacesStderr(t *testing.T) {
	d := newTestDriver(t, fakeRunner{err: assertError{}, stderr: "main.zig:3:1: error: expected ';'"})

	generated := "const std = @import(\"std\");\npub fn main() void {}\n"
	_, err := d.Compile(context.Background(), generated, "prog", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCompilationFailed)
	assert.Contains(t, err.Error(), "expected ';'")
}

func TestCompileBinaryMissingWhenCompilerReportsSuccessButLeavesNothing(t *testing.T) {
	d := newTestDriver(t, fakeRunner{writeBinary: false})

	generated := "const std = @import(\"std\");\npub fn main() void {}\n"
	_, err := d.Compile(context.Background(), generated, "prog", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBinaryMissing)
}

func TestCompilePromotesBinaryToOutputDirWhenNoOutputPathGiven(t *testing.T) {
	d := newTestDriver(t, fakeRunner{writeBinary: true})

	generated := "const std = @import(\"std\");\npub fn main() void {}\n"
	dest, err := d.Compile(context.Background(), generated, "prog", "")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.OutputDir, "prog"), dest)
	assert.FileExists(t, dest)
}

func TestCompileHonorsExplicitOutputPath(t *testing.T) {
	d := newTestDriver(t, fakeRunner{writeBinary: true})
	want := filepath.Join(t.TempDir(), "nested", "out-bin")

	generated := "const std = @import(\"std\");\npub fn main() void {}\n"
	dest, err := d.Compile(context.Background(), generated, "prog", want)

	require.NoError(t, err)
	assert.Equal(t, want, dest)
	assert.FileExists(t, dest)
}

type assertError struct{}

func (assertError) Error() string { return "exec: zig build-exe failed" }
