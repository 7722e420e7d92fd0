package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/moby/term"
	"github.com/sirupsen/logrus"

	"github.com/melih/shipyard/internal/core/domain"
)

// Builder implements ports.BuilderService against a local Docker daemon.
// Layer caching is the daemon's optimization; a from-scratch rebuild of every
// step is equally correct, just slower.
type Builder struct {
	cli *client.Client
	out io.Writer
}

// NewBuilder creates a builder talking to the daemon from the environment.
func NewBuilder() (*Builder, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Builder{cli: cli, out: os.Stdout}, nil
}

// SetOutput redirects the daemon's build progress stream.
func (b *Builder) SetOutput(w io.Writer) { b.out = w }

// BuildImage runs the full provisioning sequence for a plan: stage the
// context, assemble the step chain, execute it on the daemon, then inspect
// the result and return its descriptor. Any failure aborts the build and no
// artifact is returned.
func (b *Builder) BuildImage(ctx context.Context, plan domain.Plan) (domain.Artifact, error) {
	if err := plan.Validate(); err != nil {
		return domain.Artifact{}, err
	}

	contextDir, cleanup, err := stageSource(ctx, plan)
	if err != nil {
		return domain.Artifact{}, err
	}
	defer cleanup()

	st, err := assemble(plan, contextDir)
	if err != nil {
		return domain.Artifact{}, err
	}

	// The daemon reads the instruction file out of the context tar, so the
	// rendered sequence is dropped next to the sources for the duration of
	// the build.
	df, err := os.CreateTemp(contextDir, ".shipyard-*.dockerfile")
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("staging build instructions: %w", err)
	}
	defer os.Remove(df.Name())
	if _, err := df.WriteString(st.dockerfile()); err != nil {
		df.Close()
		return domain.Artifact{}, fmt.Errorf("staging build instructions: %w", err)
	}
	if err := df.Close(); err != nil {
		return domain.Artifact{}, fmt.Errorf("staging build instructions: %w", err)
	}

	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{
		ExcludePatterns: plan.Exclude,
	})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("failed to create build context: %w", err)
	}

	logrus.WithFields(logrus.Fields{"tag": plan.Tag, "base": plan.BaseImage}).Info("building image")
	resp, err := b.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{plan.Tag},
		Dockerfile: filepath.Base(df.Name()),
		Remove:     true, // Remove intermediate containers
	})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	imageID, err := streamBuild(b.out, resp.Body)
	if err != nil {
		return domain.Artifact{}, err
	}
	if imageID == "" {
		// Older daemons omit the aux message with the built ID.
		info, _, err := b.cli.ImageInspectWithRaw(ctx, plan.Tag)
		if err != nil {
			return domain.Artifact{}, fmt.Errorf("resolving built image id: %w", err)
		}
		imageID = info.ID
	}

	art := st.artifact
	art.ID = uuid.NewString()
	art.ImageID = imageID
	art.Tag = plan.Tag
	art.CreatedAt = time.Now().UTC()

	if err := b.verify(ctx, art); err != nil {
		return domain.Artifact{}, err
	}

	logrus.WithFields(logrus.Fields{"artifact": art.ID, "image": imageID, "tag": art.Tag}).Info("artifact produced")
	return art, nil
}

// streamBuild relays the daemon's progress stream and captures the image ID
// from the aux message. A stream error is the daemon reporting a failed
// instruction, which terminates the whole build.
func streamBuild(dst io.Writer, src io.Reader) (string, error) {
	var imageID string
	aux := func(msg jsonmessage.JSONMessage) {
		if msg.Aux == nil {
			return
		}
		var result types.BuildResult
		if err := json.Unmarshal(*msg.Aux, &result); err != nil {
			logrus.WithError(err).Debug("unable to parse build output")
			return
		}
		imageID = result.ID
	}

	fd, isTerm := term.GetFdInfo(dst)
	if err := jsonmessage.DisplayJSONMessagesStream(src, dst, fd, isTerm, aux); err != nil {
		var jm *jsonmessage.JSONError
		if errors.As(err, &jm) {
			if strings.Contains(jm.Message, "pip install") {
				return "", fmt.Errorf("%w: %s", ErrDependencyInstall, jm.Message)
			}
			return "", fmt.Errorf("%w: %s", ErrBuildFailed, jm.Message)
		}
		return "", fmt.Errorf("unable to stream build output: %w", err)
	}
	return imageID, nil
}

// verify inspects the built image and checks the runtime-facing metadata
// against the descriptor: environment set, working directory, declared port
// and the recorded startup command.
func (b *Builder) verify(ctx context.Context, art domain.Artifact) error {
	info, _, err := b.cli.ImageInspectWithRaw(ctx, art.ImageID)
	if err != nil {
		return fmt.Errorf("inspecting built image: %w", err)
	}
	cfg := info.Config
	for k, v := range art.Env {
		if !slices.Contains(cfg.Env, k+"="+v) {
			return fmt.Errorf("%w: env %s=%s not recorded on image", ErrBuildFailed, k, v)
		}
	}
	if cfg.WorkingDir != art.Workdir {
		return fmt.Errorf("%w: workdir %q recorded as %q", ErrBuildFailed, art.Workdir, cfg.WorkingDir)
	}
	port := nat.Port(fmt.Sprintf("%d/tcp", art.Port))
	if _, ok := cfg.ExposedPorts[port]; !ok {
		return fmt.Errorf("%w: port %d not declared on image", ErrBuildFailed, art.Port)
	}
	if !slices.Equal([]string(cfg.Cmd), art.Entrypoint) {
		return fmt.Errorf("%w: entrypoint recorded as %v", ErrBuildFailed, cfg.Cmd)
	}
	return nil
}

// ExportArchive saves an image to a docker-save style tar on disk, pairable
// with InspectArchive for offline checks.
func (b *Builder) ExportArchive(ctx context.Context, ref, path string) error {
	rd, err := b.cli.ImageSave(ctx, []string{ref})
	if err != nil {
		return fmt.Errorf("exporting image %s: %w", ref, err)
	}
	defer rd.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, rd); err != nil {
		return fmt.Errorf("writing archive %s: %w", path, err)
	}
	return nil
}
