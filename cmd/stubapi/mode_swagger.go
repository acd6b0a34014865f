//go:build swagger

package main

import "github.com/bjaus/stubapi/internal/gateway"

// buildMode publishes the schema document and the documentation browser.
const buildMode = gateway.Documented
