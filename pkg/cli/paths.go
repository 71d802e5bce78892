package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the ringbuf directory structure
type Paths struct {
	// AppName is the application name
	AppName string

	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{
		AppName: appName,
		HomeDir: home,
	}, nil
}

// BaseDir returns the base directory (~/.ringbuf)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns the app-specific directory (~/.ringbuf/<app>)
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns the config file path (~/.ringbuf/<app>/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// PlanDir returns the directory holding saved bench plans (~/.ringbuf/<app>/plans)
func (p *Paths) PlanDir() string {
	return filepath.Join(p.AppDir(), "plans")
}

// PlanPath returns the path of a saved plan. A name without an extension
// gets ".yaml".
func (p *Paths) PlanPath(name string) string {
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	return filepath.Join(p.PlanDir(), name)
}

// FindPlan resolves a plan argument. An existing file path wins; otherwise
// the name is looked up in PlanDir.
func (p *Paths) FindPlan(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	path := p.PlanPath(name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
