// Package buildinfo exposes version information injected at build time:
//
//	go build -ldflags "-X github.com/yndnr/restgate-go/internal/infra/buildinfo.Version=v1.2.0 \
//	  -X github.com/yndnr/restgate-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// When ldflags are absent the values fall back to the module build info
// recorded by the Go toolchain.
package buildinfo
