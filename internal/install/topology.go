// Package install locates the pieces of a proofdriver installation.
//
// The driver runs either from a development checkout, where the build puts
// binaries under target/proofdriver/bin, or from an unpacked release bundle
// with a top-level bin directory. Which one is active is decided once from
// the location of the running executable.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/proofdriver/internal/logger"
)

// devBuildSignature is the trailing path of the bin folder inside a development checkout.
var devBuildSignature = []string{"target", "proofdriver", "bin"}

// releaseBinDir is the bin folder name inside a release bundle.
const releaseBinDir = "bin"

var log = logger.Named("install")

// Topology is the detected installation layout. It is one of DevCheckout or ReleaseBundle.
type Topology interface {
	// Root is the base folder of the installation.
	Root() string
	// BinDir is the folder holding the driver executables.
	BinDir() string
	isTopology()
}

// DevCheckout is a locally built repository checkout.
type DevCheckout struct {
	RepoRoot string // Root of the checked-out repository
	Bin      string // target/proofdriver/bin of that checkout
}

// Root implements Topology.
func (d DevCheckout) Root() string { return d.RepoRoot }

// BinDir implements Topology.
func (d DevCheckout) BinDir() string { return d.Bin }

func (DevCheckout) isTopology() {}

// String describes the topology for diagnostics.
func (d DevCheckout) String() string {
	return fmt.Sprintf("development checkout at %s", d.RepoRoot)
}

// ReleaseBundle is an unpacked release archive.
type ReleaseBundle struct {
	BundleRoot string // Directory the bundle was unpacked into
}

// Root implements Topology.
func (r ReleaseBundle) Root() string { return r.BundleRoot }

// BinDir implements Topology.
func (r ReleaseBundle) BinDir() string { return filepath.Join(r.BundleRoot, releaseBinDir) }

func (ReleaseBundle) isTopology() {}

// String describes the topology for diagnostics.
func (r ReleaseBundle) String() string {
	return fmt.Sprintf("release bundle at %s", r.BundleRoot)
}

// Resolve detects the topology from the location of the running executable.
func Resolve() (Topology, error) {
	binDir, err := executableDir()
	if err != nil {
		return nil, err
	}
	return ResolveFrom(binDir)
}

// ResolveFrom detects the topology given the directory holding the executable.
func ResolveFrom(binDir string) (Topology, error) {
	clean := filepath.Clean(binDir)
	segments := strings.Split(filepath.ToSlash(clean), "/")

	if hasSuffix(segments, devBuildSignature) {
		root := clean
		for range devBuildSignature {
			root = filepath.Dir(root)
		}
		log.Debugf("detected development checkout: root=%s bin=%s", root, clean)
		return DevCheckout{RepoRoot: root, Bin: clean}, nil
	}

	if filepath.Base(clean) == releaseBinDir {
		root := filepath.Dir(clean)
		log.Debugf("detected release bundle: root=%s", root)
		return ReleaseBundle{BundleRoot: root}, nil
	}

	return nil, &LayoutError{Path: clean}
}

// hasSuffix reports whether segments ends with suffix.
func hasSuffix(segments, suffix []string) bool {
	if len(segments) < len(suffix) {
		return false
	}
	offset := len(segments) - len(suffix)
	for i, s := range suffix {
		if segments[offset+i] != s {
			return false
		}
	}
	return true
}

// executableDir returns the folder where the current executable is located.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot determine current executable location: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
