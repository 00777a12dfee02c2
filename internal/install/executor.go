package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samhoang/reins/internal/config"
	"github.com/samhoang/reins/internal/connector"
	rerrors "github.com/samhoang/reins/internal/errors"
	"github.com/samhoang/reins/internal/harness"
)

// Executor installs components into one harness's profiles.
type Executor struct {
	paths *config.Paths
	h     *harness.Harness
}

func NewExecutor(paths *config.Paths, h *harness.Harness) *Executor {
	return &Executor{paths: paths, h: h}
}

// Options control installation behavior.
type Options struct {
	// Force overwrites a component that is already installed
	Force bool
}

// Result reports where a component ended up.
type Result struct {
	Name    string
	Skipped bool
	// Live is true when the target profile was active, so the live
	// config dir was updated as well
	Live bool
}

// Install places the component into the named profile. If that profile
// is active, the live config dir receives the same write, so the user
// sees the component immediately. An already-installed component is
// skipped unless Force is set.
func (e *Executor) Install(profileName string, comp Component, opts Options) (*Result, error) {
	name, err := SanitizeName(comp.Name)
	if err != nil {
		return nil, err
	}

	profileDir := e.paths.ProfileDir(e.h.ID(), profileName)
	if info, err := os.Stat(profileDir); err != nil || !info.IsDir() {
		return nil, rerrors.NewProfileError(e.h.ID(), profileName, "install", rerrors.ErrProfileNotFound)
	}

	live, err := e.profileIsActive(profileName)
	if err != nil {
		return nil, err
	}

	if comp.Kind == harness.Connector {
		return e.installConnector(profileName, profileDir, name, comp, opts, live)
	}
	return e.installFiles(profileName, profileDir, name, comp, opts, live)
}

func (e *Executor) installConnector(profileName, profileDir, name string, comp Component, opts Options, live bool) (*Result, error) {
	if comp.Connector == nil {
		return nil, fmt.Errorf("connector component %q has no descriptor", name)
	}
	if !e.h.Supports(harness.Connector) {
		return nil, rerrors.NewProfileError(e.h.ID(), profileName, "install", rerrors.ErrUnsupportedResource)
	}

	desc := *comp.Connector
	desc.Name = name

	// fail before any write if required secrets are absent
	if err := desc.CheckEnv(); err != nil {
		return nil, err
	}

	stored := harness.New(e.h.Kind(), profileDir)

	checkPath := stored.ConnectorPath()
	checkHarness := stored
	if live {
		checkPath = e.h.ConnectorPath()
		checkHarness = e.h
	}
	present, err := connector.Exists(checkHarness, checkPath, name)
	if err != nil {
		return nil, err
	}
	if present && !opts.Force {
		return &Result{Name: name, Skipped: true}, nil
	}

	if err := connector.WriteFile(stored, stored.ConnectorPath(), []connector.Descriptor{desc}); err != nil {
		return nil, err
	}
	if live {
		if err := connector.WriteFile(e.h, e.h.ConnectorPath(), []connector.Descriptor{desc}); err != nil {
			return nil, err
		}
	}

	if err := e.record(profileDir, Record{
		Name:      name,
		Kind:      string(harness.Connector),
		Source:    comp.Source,
		Installed: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return &Result{Name: name, Live: live}, nil
}

func (e *Executor) installFiles(profileName, profileDir, name string, comp Component, opts Options, live bool) (*Result, error) {
	stored := harness.New(e.h.Kind(), profileDir)
	rp, ok := stored.Resolve(comp.Kind)
	if !ok {
		return nil, rerrors.NewProfileError(e.h.ID(), profileName, "install", rerrors.ErrUnsupportedResource)
	}

	files, dir, err := layoutFiles(rp, name, comp)
	if err != nil {
		return nil, err
	}

	if e.componentPresent(rp, name, dir) && !opts.Force {
		return &Result{Name: name, Skipped: true}, nil
	}

	written, err := MergeWrite(rp.Path, files)
	if err != nil {
		return nil, err
	}
	if live {
		liveRP, ok := e.h.Resolve(comp.Kind)
		if !ok {
			return nil, rerrors.NewProfileError(e.h.ID(), profileName, "install", rerrors.ErrUnsupportedResource)
		}
		if _, err := MergeWrite(liveRP.Path, files); err != nil {
			return nil, err
		}
	}

	subdir, err := filepath.Rel(profileDir, rp.Path)
	if err != nil {
		return nil, err
	}
	rec := Record{
		Name:      name,
		Kind:      string(comp.Kind),
		Source:    comp.Source,
		Installed: time.Now().UTC(),
	}
	for _, rel := range written {
		rec.Files = append(rec.Files, filepath.ToSlash(filepath.Join(subdir, rel)))
	}
	if dir != "" {
		rec.Dir = filepath.ToSlash(filepath.Join(subdir, dir))
	}
	if err := e.record(profileDir, rec); err != nil {
		return nil, err
	}
	return &Result{Name: name, Live: live}, nil
}

// layoutFiles maps the component's files onto the resource location:
// one renamed file for a Flat resource, the whole tree under a
// directory named after the component for a Nested one. dir is the
// component directory relative to the resource root, empty for Flat.
func layoutFiles(rp harness.ResolvedPath, name string, comp Component) (map[string][]byte, string, error) {
	if rp.Structure == harness.Nested {
		if len(comp.Files) == 0 {
			return nil, "", fmt.Errorf("component %q has no files", name)
		}
		out := make(map[string][]byte, len(comp.Files))
		for rel, data := range comp.Files {
			out[filepath.ToSlash(filepath.Join(name, rel))] = data
		}
		if rp.Entry != "" {
			if _, ok := out[name+"/"+rp.Entry]; !ok {
				return nil, "", fmt.Errorf("component %q is missing its %s entry file", name, rp.Entry)
			}
		}
		return out, name, nil
	}

	if len(comp.Files) != 1 {
		return nil, "", fmt.Errorf("component %q must have exactly one file, has %d", name, len(comp.Files))
	}
	ext := filepath.Ext(rp.Pattern)
	for _, data := range comp.Files {
		return map[string][]byte{name + ext: data}, "", nil
	}
	return nil, "", nil
}

func (e *Executor) componentPresent(rp harness.ResolvedPath, name, dir string) bool {
	target := filepath.Join(rp.Path, name+filepath.Ext(rp.Pattern))
	if dir != "" {
		target = filepath.Join(rp.Path, dir)
	}
	_, err := os.Stat(target)
	return err == nil
}

// Uninstall removes a component previously recorded in the profile's
// manifest, deleting exactly the files it brought. If the profile is
// active, the live config dir is cleaned too.
func (e *Executor) Uninstall(profileName string, kind harness.ResourceKind, rawName string) error {
	name, err := SanitizeName(rawName)
	if err != nil {
		return err
	}

	profileDir := e.paths.ProfileDir(e.h.ID(), profileName)
	if info, err := os.Stat(profileDir); err != nil || !info.IsDir() {
		return rerrors.NewProfileError(e.h.ID(), profileName, "uninstall", rerrors.ErrProfileNotFound)
	}

	manifest, err := LoadManifest(profileDir)
	if err != nil {
		return err
	}
	rec, ok := manifest.Find(string(kind), name)
	if !ok {
		return rerrors.NewProfileError(e.h.ID(), profileName, "uninstall", rerrors.ErrComponentNotInstalled)
	}

	live, err := e.profileIsActive(profileName)
	if err != nil {
		return err
	}

	if kind == harness.Connector {
		stored := harness.New(e.h.Kind(), profileDir)
		if err := connector.RemoveFromFile(stored, stored.ConnectorPath(), name); err != nil {
			return err
		}
		if live {
			if err := connector.RemoveFromFile(e.h, e.h.ConnectorPath(), name); err != nil {
				return err
			}
		}
	} else {
		roots := []string{profileDir}
		if live {
			roots = append(roots, e.h.ConfigDir())
		}
		for _, root := range roots {
			if err := removeRecorded(root, rec); err != nil {
				return err
			}
		}
	}

	manifest.Remove(string(kind), name)
	return manifest.Save(profileDir)
}

func removeRecorded(root string, rec Record) error {
	if rec.Dir != "" {
		path, err := securePath(root, rec.Dir)
		if err != nil {
			return err
		}
		if err := os.RemoveAll(path); err != nil {
			return rerrors.NewPathError(path, "uninstall", err)
		}
		return nil
	}
	for _, rel := range rec.Files {
		path, err := securePath(root, rel)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return rerrors.NewPathError(path, "uninstall", err)
		}
	}
	return nil
}

func (e *Executor) profileIsActive(profileName string) (bool, error) {
	st, err := config.LoadState(e.paths.StatePath())
	if err != nil {
		return false, err
	}
	active, ok := st.ActiveProfileFor(e.h.ID())
	return ok && active == profileName, nil
}

// record loads, updates and saves the profile manifest in one step.
func (e *Executor) record(profileDir string, rec Record) error {
	manifest, err := LoadManifest(profileDir)
	if err != nil {
		return err
	}
	manifest.Upsert(rec)
	return manifest.Save(profileDir)
}
