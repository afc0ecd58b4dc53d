// Package openscad renders OpenSCAD sources through the external openscad
// executable and tracks their use/include dependencies.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/stl"
)

var (
	useRegex     = regexp.MustCompile(`^\s*use\s*<([^>]+)>`)
	includeRegex = regexp.MustCompile(`^\s*include\s*<([^>]+)>`)
)

// DefaultBinary is the executable looked up on PATH
const DefaultBinary = "openscad"

// InstallHint tells users where to get OpenSCAD
const InstallHint = "https://openscad.org/downloads.html"

// Renderer handles OpenSCAD file rendering to STL
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a new OpenSCAD renderer
func NewRenderer(workDir string) *Renderer {
	return &Renderer{
		workDir: workDir,
		binary:  DefaultBinary,
	}
}

// WithBinary overrides the OpenSCAD executable name or path
func (r *Renderer) WithBinary(binary string) *Renderer {
	r.binary = binary
	return r
}

// Available reports whether the OpenSCAD executable can be found
func (r *Renderer) Available() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", r.binary, err)
	}
	return nil
}

// RenderToSTL renders an OpenSCAD file to STL format
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	absScadFile := r.abs(scadFile)

	if err := r.Available(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, r.binary, "-o", outputFile, absScadFile)
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		fmt.Fprintf(&errMsg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			errMsg.WriteString("\nstderr: ")
			errMsg.WriteString(strings.TrimSpace(stderr.String()))
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("\nstdout: ")
			errMsg.WriteString(strings.TrimSpace(stdout.String()))
		}
		return errors.New(errMsg.String())
	}

	return nil
}

// Load renders scadFile to a temporary STL and parses it. The temporary
// file is removed before returning.
func (r *Renderer) Load(ctx context.Context, scadFile string) (mesh.Asset, error) {
	tmp, err := os.CreateTemp("", "meshview-*.stl")
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("failed to create temporary STL: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := r.RenderToSTL(ctx, scadFile, tmpPath); err != nil {
		return mesh.Asset{}, err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("failed to read rendered STL: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))
	m, err := stl.ParseBytes(data, name)
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	m.Name = name
	return mesh.FromMesh(m), nil
}

func (r *Renderer) abs(scadFile string) string {
	if filepath.IsAbs(scadFile) {
		return scadFile
	}
	return filepath.Join(r.workDir, scadFile)
}

// ResolveDependencies finds all dependencies (use/include statements) in an OpenSCAD file
// Returns a list of absolute paths to all dependencies
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	absScadFile := r.abs(scadFile)

	visited := make(map[string]bool)
	var deps []string

	if err := r.resolveDependenciesRecursive(absScadFile, visited, &deps); err != nil {
		return nil, err
	}

	return deps, nil
}

// resolveDependenciesRecursive recursively finds all dependencies
func (r *Renderer) resolveDependenciesRecursive(scadFile string, visited map[string]bool, deps *[]string) error {
	// Avoid circular dependencies
	if visited[scadFile] {
		return nil
	}
	visited[scadFile] = true

	// Add this file to dependencies
	*deps = append(*deps, scadFile)

	// Parse the file to find use/include statements
	fileDeps, err := r.parseDependencies(scadFile)
	if err != nil {
		return err
	}

	// Recursively resolve dependencies
	for _, dep := range fileDeps {
		if err := r.resolveDependenciesRecursive(dep, visited, deps); err != nil {
			return err
		}
	}

	return nil
}

// parseDependencies parses a single OpenSCAD file to find use/include statements
func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	scanner := bufio.NewScanner(file)

	scadDir := filepath.Dir(scadFile)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}

		// Check for use statement
		if matches := useRegex.FindStringSubmatch(line); len(matches) > 1 {
			depPath := r.resolveDepPath(matches[1], scadDir)
			deps = append(deps, depPath)
		}

		// Check for include statement
		if matches := includeRegex.FindStringSubmatch(line); len(matches) > 1 {
			depPath := r.resolveDepPath(matches[1], scadDir)
			deps = append(deps, depPath)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}

	return deps, nil
}

// resolveDepPath resolves a dependency path relative to the current file's directory
func (r *Renderer) resolveDepPath(depPath, currentDir string) string {
	// If the path starts with ./ or ../, it's relative to the current file
	if strings.HasPrefix(depPath, "./") || strings.HasPrefix(depPath, "../") {
		absPath := filepath.Join(currentDir, depPath)
		return filepath.Clean(absPath)
	}

	// Otherwise, try relative to current directory first
	absPath := filepath.Join(currentDir, depPath)
	if _, err := os.Stat(absPath); err == nil {
		return filepath.Clean(absPath)
	}

	// Try relative to work directory
	absPath = filepath.Join(r.workDir, depPath)
	return filepath.Clean(absPath)
}
