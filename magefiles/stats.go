//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
)

// statsRoots are the source trees reported by Stats.
var statsRoots = []string{"cmd", "internal", "pkg"}

// pkgStats holds the counts for one package directory.
type pkgStats struct {
	dir       string
	prodLines int
	testLines int
	tests     int
	benches   int
}

// Stats prints a per-package table of production and test line counts
// together with the number of Test and Benchmark functions, followed by a
// total row.
func Stats() error {
	byDir := make(map[string]*pkgStats)
	fset := token.NewFileSet()

	for _, root := range statsRoots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".go") {
				return nil
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			dir := filepath.Dir(path)
			ps, ok := byDir[dir]
			if !ok {
				ps = &pkgStats{dir: dir}
				byDir[dir] = ps
			}

			lines := bytes.Count(src, []byte("\n"))
			if !strings.HasSuffix(path, "_test.go") {
				ps.prodLines += lines
				return nil
			}
			ps.testLines += lines

			f, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			for _, decl := range f.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Recv != nil {
					continue
				}
				switch {
				case strings.HasPrefix(fn.Name.Name, "Test"):
					ps.tests++
				case strings.HasPrefix(fn.Name.Name, "Benchmark"):
					ps.benches++
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "PACKAGE\tPROD\tTEST\tRATIO\tTESTS\tBENCH\t")
	var total pkgStats
	total.dir = "total"
	for _, dir := range dirs {
		ps := byDir[dir]
		writeStatsRow(w, ps)
		total.prodLines += ps.prodLines
		total.testLines += ps.testLines
		total.tests += ps.tests
		total.benches += ps.benches
	}
	writeStatsRow(w, &total)
	return w.Flush()
}

func writeStatsRow(w *tabwriter.Writer, ps *pkgStats) {
	ratio := "-"
	if ps.prodLines > 0 {
		ratio = fmt.Sprintf("%.2f", float64(ps.testLines)/float64(ps.prodLines))
	}
	fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%d\t\n",
		filepath.ToSlash(ps.dir), ps.prodLines, ps.testLines, ratio, ps.tests, ps.benches)
}
