package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	compilerName    = "proof-compiler"
	buildToolName   = "cargo"
	supportLibC     = "library/proof/proof_lib.c"
	toolchainBinDir = "toolchain/bin"
)

// LibraryKind selects one of the precompiled support library folders.
type LibraryKind int

const (
	// LibraryDefault is used for verification builds.
	LibraryDefault LibraryKind = iota
	// LibraryPlayback is used when compiling concrete playback tests.
	LibraryPlayback
	// LibraryNoCore is built without the core library for no_core crates.
	LibraryNoCore
)

// String returns the folder of the library relative to the installation root.
func (k LibraryKind) String() string {
	switch k {
	case LibraryPlayback:
		return "playback/lib"
	case LibraryNoCore:
		return "no_core/lib"
	default:
		return "lib"
	}
}

// Toolchain is the toolchain the driver was built against.
// Set at build time: -ldflags "-X github.com/harrison/proofdriver/internal/install.Toolchain=..."
var Toolchain = "nightly"

// ToolchainShorthand returns the "+<toolchain>" selector passed to the build tool.
func ToolchainShorthand() string {
	return "+" + Toolchain
}

// Paths is the read-only view of the files an installation provides.
// Compiler and SupportLibC are validated when the view is created.
type Paths struct {
	Topology    Topology
	Compiler    string // Verification backend compiler
	SupportLibC string // C support library linked into models
}

// NewPaths resolves and validates the installation's required files.
func NewPaths(t Topology) (*Paths, error) {
	compiler, err := CompilerPath(t)
	if err != nil {
		return nil, err
	}
	libC, err := basePathWith(t, supportLibC)
	if err != nil {
		return nil, err
	}
	log.Debugf("compiler=%s support=%s", compiler, libC)
	return &Paths{Topology: t, Compiler: compiler, SupportLibC: libC}, nil
}

// Library returns the path of a support library folder.
func (p *Paths) Library(kind LibraryKind) (string, error) {
	return LibraryPath(p.Topology, kind)
}

// BuildTool returns the path of the build tool binary.
func (p *Paths) BuildTool() (string, error) {
	return BuildToolPath(p.Topology)
}

// CompilerPath locates the verification compiler.
// Development checkouts use the executable's own folder so debug and
// release builds of the driver each pick their sibling compiler.
func CompilerPath(t Topology) (string, error) {
	switch t := t.(type) {
	case DevCheckout:
		return expectPath(filepath.Join(t.Bin, compilerName))
	case ReleaseBundle:
		return expectPath(filepath.Join(t.BundleRoot, releaseBinDir, compilerName))
	default:
		return "", fmt.Errorf("unsupported topology %T", t)
	}
}

// LibraryPath locates a support library folder. Libraries sit next to the
// bin folder: the installation root for release bundles, target/proofdriver
// for development checkouts.
func LibraryPath(t Topology, kind LibraryKind) (string, error) {
	return expectPath(filepath.Join(filepath.Dir(t.BinDir()), filepath.FromSlash(kind.String())))
}

// BuildToolPath locates the build tool. Development checkouts use the one on
// PATH; release bundles ship their own toolchain.
func BuildToolPath(t Topology) (string, error) {
	switch t := t.(type) {
	case DevCheckout:
		path, err := exec.LookPath(buildToolName)
		if err != nil {
			return "", &MissingComponentError{Name: buildToolName, Path: "$PATH"}
		}
		return path, nil
	case ReleaseBundle:
		return expectPath(filepath.Join(t.BundleRoot, toolchainBinDir, buildToolName))
	default:
		return "", fmt.Errorf("unsupported topology %T", t)
	}
}

// basePathWith joins subpath onto the installation root and checks it exists.
func basePathWith(t Topology, subpath string) (string, error) {
	return expectPath(filepath.Join(t.Root(), filepath.FromSlash(subpath)))
}

// expectPath returns path if it exists, or a MissingComponentError naming it.
func expectPath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", missingAt(path)
	}
	return path, nil
}

// Locate resolves the running installation and its required files.
func Locate() (*Paths, error) {
	topo, err := Resolve()
	if err != nil {
		return nil, err
	}
	return NewPaths(topo)
}
