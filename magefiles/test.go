//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const envPostgresDSN = "ASSETLEDGER_TEST_POSTGRES_DSN"

// Test groups test targets.
type Test mg.Namespace

// All runs every test. Postgres tests skip themselves unless
// ASSETLEDGER_TEST_POSTGRES_DSN is set.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs the tests with the postgres DSN cleared.
func (Test) Unit() error {
	return sh.RunWithV(map[string]string{envPostgresDSN: ""}, binGo, "test", "./...")
}

// Postgres runs the state store tests against a live database.
func (Test) Postgres() error {
	if os.Getenv(envPostgresDSN) == "" {
		return fmt.Errorf("%s must be set", envPostgresDSN)
	}
	return sh.RunV(binGo, "test", "-v", "-run", "Postgres", "./internal/state/...")
}

// Race runs every test with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}
