// Package version reports build information for xhrkit binaries.
//
// Version and commit are set at link time and fall back to the module's
// embedded VCS stamps:
//
//	go build -ldflags "-X github.com/kbukum/xhrkit/version.Version=1.0.0" ./cmd/xhrget
package version
