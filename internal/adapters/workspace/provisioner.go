// Package workspace implements the local environment provisioner.
//
// Each job gets a fresh directory under the provisioner root; the checkout
// step copies the repository snapshot into it. Workspaces never outlive
// their job and nothing is shared between jobs.
package workspace

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Provisioner implements ports.Provisioner with local directories.
type Provisioner struct {
	root    string
	source  string
	runners map[string]struct{}
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRunners restricts provisioning to the given runner labels. Without this
// option every label is accepted.
func WithRunners(labels ...string) Option {
	return func(p *Provisioner) {
		p.runners = make(map[string]struct{}, len(labels))
		for _, l := range labels {
			p.runners[l] = struct{}{}
		}
	}
}

// New creates a Provisioner. Workspaces are created under root (the system
// temp directory when empty); source is the repository snapshot used by
// checkout steps.
func New(root, source string, opts ...Option) *Provisioner {
	if root == "" {
		root = os.TempDir()
	}
	p := &Provisioner{
		root:   root,
		source: source,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision allocates a clean workspace for the job.
func (p *Provisioner) Provision(ctx context.Context, job domain.JobSpec) (ports.Environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.runners != nil {
		if _, ok := p.runners[job.Runner]; !ok {
			err := zerr.Wrap(domain.ErrRunnerUnavailable, "no such runner label")
			err = zerr.With(err, "runner", job.Runner)
			return nil, zerr.With(err, "job", job.Name)
		}
	}

	dir, err := os.MkdirTemp(p.root, "loom-"+job.ID+"-")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot create workspace"), "job", job.Name)
	}

	return &Environment{
		runner:  job.Runner,
		workDir: dir,
		source:  p.source,
	}, nil
}

// Environment is one job's local workspace.
type Environment struct {
	runner  string
	workDir string
	source  string
}

// Runner returns the label the environment was provisioned for.
func (e *Environment) Runner() string { return e.runner }

// WorkDir returns the workspace path.
func (e *Environment) WorkDir() string { return e.workDir }

// Checkout copies the repository snapshot into the workspace. VCS metadata
// is not carried over.
func (e *Environment) Checkout(ctx context.Context) error {
	if e.source == "" {
		return zerr.New("no checkout source configured")
	}

	err := filepath.WalkDir(e.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		rel, err := filepath.Rel(e.source, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		target := filepath.Join(e.workDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "checkout failed"), "source", e.source)
	}
	return nil
}

// Close reclaims the workspace.
func (e *Environment) Close() error {
	return os.RemoveAll(e.workDir)
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // path comes from the walked snapshot
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // workspace path
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
