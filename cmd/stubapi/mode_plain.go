//go:build !swagger

package main

import "github.com/bjaus/stubapi/internal/gateway"

// buildMode is Plain unless built with -tags swagger.
const buildMode = gateway.Plain
