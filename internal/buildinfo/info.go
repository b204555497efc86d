// Package buildinfo carries release metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/floraledger/flora/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/floraledger/flora/internal/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/floraledger/flora/internal/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/flora
package buildinfo

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short git revision.
	Commit = "none"
	// Date is the UTC build date.
	Date = "unknown"
)
