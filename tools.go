//go:build tools

// Package main (tools) pins the versions of the developer-tool binaries
// this module's Makefile shells out to -- lint, coverage, and gRPC
// debugging -- the way viam-modules repos do, so `go mod tidy` can't
// drop them even though no runtime package imports them.
package main

import (
	_ "github.com/AlekSi/gocov-xml"
	_ "github.com/axw/gocov/gocov"
	_ "github.com/edaniels/golinters"
	_ "github.com/fullstorydev/grpcurl/cmd/grpcurl"
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/rhysd/actionlint/cmd/actionlint"
	_ "gotest.tools/gotestsum"
)
