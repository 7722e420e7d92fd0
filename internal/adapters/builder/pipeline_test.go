package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/shipyard/internal/core/domain"
)

func stagedContext(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask==2.0.1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("print('hi')\n"), 0o644))
	return dir
}

func TestAssembleDefaultPlan(t *testing.T) {
	st, err := assemble(domain.DefaultPlan(), stagedContext(t))
	require.NoError(t, err)

	want := `FROM python:3.11-slim
ENV PYTHONUNBUFFERED=1
WORKDIR /app
COPY requirements.txt .
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
EXPOSE 5000
CMD ["python","app.py"]
`
	assert.Equal(t, want, st.dockerfile())

	assert.Equal(t, "python:3.11-slim", st.artifact.BaseImage)
	assert.Equal(t, map[string]string{"PYTHONUNBUFFERED": "1"}, st.artifact.Env)
	assert.Equal(t, "/app", st.artifact.Workdir)
	assert.Equal(t, 5000, st.artifact.Port)
	assert.Equal(t, []string{"python", "app.py"}, st.artifact.Entrypoint)
}

// Dependency installation must precede the full context copy, so that
// source-only edits never invalidate the install layer.
func TestAssembleInstallPrecedesCopy(t *testing.T) {
	st, err := assemble(domain.DefaultPlan(), stagedContext(t))
	require.NoError(t, err)

	install, copyAll := -1, -1
	for i, ins := range st.instructions {
		switch {
		case ins == "RUN pip install --no-cache-dir -r requirements.txt":
			install = i
		case ins == "COPY . .":
			copyAll = i
		}
	}
	require.NotEqual(t, -1, install)
	require.NotEqual(t, -1, copyAll)
	assert.Less(t, install, copyAll)
}

func TestAssembleIsIdempotent(t *testing.T) {
	dir := stagedContext(t)
	plan := domain.DefaultPlan()
	plan.Env["FLASK_ENV"] = "production"

	first, err := assemble(plan, dir)
	require.NoError(t, err)
	second, err := assemble(plan, dir)
	require.NoError(t, err)

	assert.Equal(t, first.dockerfile(), second.dockerfile())
	assert.Equal(t, first.artifact, second.artifact)
}

func TestAssembleMissingManifestAbortsSequence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("print('hi')\n"), 0o644))

	_, err := assemble(domain.DefaultPlan(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBuildFile)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "stage-manifest", stepErr.Step)
	assert.Equal(t, 4, stepErr.Index)
}

func TestAssembleEmptyManifestAbortsSequence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("print('hi')\n"), 0o644))

	_, err := assemble(domain.DefaultPlan(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBuildFile)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "stage-manifest", stepErr.Step)
}

func TestAssembleBadBaseImageAbortsBeforeAnything(t *testing.T) {
	plan := domain.DefaultPlan()
	plan.BaseImage = "UPPERCASE IS NOT A REFERENCE"

	_, err := assemble(plan, stagedContext(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvableBaseImage)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
}

func TestAssembleEnvOrderIsStable(t *testing.T) {
	plan := domain.DefaultPlan()
	plan.Env = map[string]string{"ZED": "z", "ALPHA": "a", "PYTHONUNBUFFERED": "1"}

	st, err := assemble(plan, stagedContext(t))
	require.NoError(t, err)

	assert.Equal(t, "ENV ALPHA=a", st.instructions[1])
	assert.Equal(t, "ENV PYTHONUNBUFFERED=1", st.instructions[2])
	assert.Equal(t, "ENV ZED=z", st.instructions[3])
}

func TestStepErrorMessageNamesTheStep(t *testing.T) {
	err := &StepError{Step: "stage-manifest", Index: 4, Err: ErrMissingBuildFile}
	assert.Contains(t, err.Error(), "step 4")
	assert.Contains(t, err.Error(), "stage-manifest")
	assert.ErrorIs(t, err, ErrMissingBuildFile)
}
