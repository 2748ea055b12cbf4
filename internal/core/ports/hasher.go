package ports

// Hasher defines the interface for fingerprinting build scripts.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the content hash of a single file.
	ComputeFileHash(path string) (uint64, error)

	// ComputeScriptHash returns a hash over the script and the given extra files.
	ComputeScriptHash(script string, includes []string) (string, error)
}
