package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/sirupsen/logrus"

	"github.com/melih/shipyard/internal/core/domain"
)

// buildState accumulates the outcome of each provisioning step: the rendered
// instruction sequence handed to the daemon and the metadata recorded on the
// artifact descriptor.
type buildState struct {
	plan         domain.Plan
	contextDir   string
	instructions []string
	artifact     domain.Artifact
}

func (st *buildState) emit(format string, args ...interface{}) {
	st.instructions = append(st.instructions, fmt.Sprintf(format, args...))
}

// dockerfile renders the accumulated instruction sequence.
func (st *buildState) dockerfile() string {
	return strings.Join(st.instructions, "\n") + "\n"
}

type step struct {
	name string
	run  func(*buildState) error
}

// sequence is the fixed provisioning chain. Order is invariant: dependency
// installation precedes the full context copy, so source-only edits never
// invalidate the dependency layer.
func sequence() []step {
	return []step{
		{name: "select-base-image", run: selectBaseImage},
		{name: "set-environment", run: setEnvironment},
		{name: "set-workdir", run: setWorkdir},
		{name: "stage-manifest", run: stageManifest},
		{name: "install-dependencies", run: installDependencies},
		{name: "stage-context", run: stageContext},
		{name: "declare-port", run: declarePort},
		{name: "declare-entrypoint", run: declareEntrypoint},
	}
}

// assemble runs the provisioning sequence against a staged build context.
// Each step must fully succeed before the next begins; the first failure
// terminates the chain and surfaces the failing step.
func assemble(plan domain.Plan, contextDir string) (*buildState, error) {
	st := &buildState{plan: plan, contextDir: contextDir}
	for i, s := range sequence() {
		logrus.WithFields(logrus.Fields{"seq": i + 1, "step": s.name}).Debug("provisioning step")
		if err := s.run(st); err != nil {
			return nil, &StepError{Step: s.name, Index: i + 1, Err: err}
		}
	}
	return st, nil
}

func selectBaseImage(st *buildState) error {
	ref := st.plan.BaseImage
	if _, err := name.ParseReference(ref); err != nil {
		return fmt.Errorf("%w: %v", ErrUnresolvableBaseImage, err)
	}
	st.artifact.BaseImage = ref
	st.emit("FROM %s", ref)
	return nil
}

func setEnvironment(st *buildState) error {
	env := make(map[string]string, len(st.plan.Env))
	for _, k := range st.plan.EnvKeys() {
		env[k] = st.plan.Env[k]
		st.emit("ENV %s=%s", k, st.plan.Env[k])
	}
	st.artifact.Env = env
	return nil
}

func setWorkdir(st *buildState) error {
	st.artifact.Workdir = st.plan.Workdir
	st.emit("WORKDIR %s", st.plan.Workdir)
	return nil
}

// stageManifest copies the dependency manifest on its own, ahead of the rest
// of the context, so the install layer keys off the manifest alone.
func stageManifest(st *buildState) error {
	src := filepath.Join(st.contextDir, st.plan.Manifest)
	info, err := os.Stat(src)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrMissingBuildFile, st.plan.Manifest)
	}
	st.emit("COPY %s .", st.plan.Manifest)
	return nil
}

// installDependencies materializes the manifest's packages. The download
// cache is reused within the daemon's layer cache, but pip's own persistent
// cache directory is disabled to keep the produced layer minimal.
func installDependencies(st *buildState) error {
	st.emit("RUN pip install --no-cache-dir -r %s", st.plan.Manifest)
	return nil
}

func stageContext(st *buildState) error {
	info, err := os.Stat(st.contextDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: build context %s", ErrMissingBuildFile, st.contextDir)
	}
	st.emit("COPY . .")
	return nil
}

func declarePort(st *buildState) error {
	st.artifact.Port = st.plan.Port
	st.emit("EXPOSE %d", st.plan.Port)
	return nil
}

// declareEntrypoint records the default execution target. The referenced
// program is not checked at build time; a missing app.py fails at run time.
func declareEntrypoint(st *buildState) error {
	argv, err := json.Marshal(st.plan.Entrypoint)
	if err != nil {
		return err
	}
	st.artifact.Entrypoint = append([]string(nil), st.plan.Entrypoint...)
	st.emit("CMD %s", argv)
	return nil
}
