package domain

const (
	// BuildFileYAML is the name of the YAML build file.
	BuildFileYAML = "forge.yaml"

	// BuildFileHCL is the name of the HCL build file.
	BuildFileHCL = "forge.hcl"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Buildfile is the loaded content of a build file.
type Buildfile struct {
	// Root is the directory containing the build file. Relative task directories resolve against it.
	Root string
	// Path is the absolute path of the build file.
	Path string
	// Targets are the declared targets in a deterministic order.
	Targets []*Target
	// Defaults are the names of the default targets, in order.
	Defaults []string
}
