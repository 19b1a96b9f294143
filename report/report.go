// Copyright 2025 Model X-Ray Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package report exposes the x-ray report parsing API.
//
// This package wraps the internal report implementation and exports a clean
// public surface for programs that consume x-ray reports without going
// through the CLI.
//
// Example usage:
//
//	records, err := report.ParseNamedModules(text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for path, rec := range records {
//	    fmt.Println(path, rec.Class)
//	}
package report

import (
	"github.com/rrroooyyywang/Model-Xray/internal/report"
)

// Record is one entry of the named_modules section.
type Record = report.Record

// Section is a named slice of raw report lines.
type Section = report.Section

// Input errors surfaced when a report cannot be visualized.
var (
	ErrSectionMissing = report.ErrSectionMissing
	ErrSectionEmpty   = report.ErrSectionEmpty
)

// ParseNamedModules extracts the named_modules table from report text.
// See the internal package documentation for the exact line format.
func ParseNamedModules(text string) (map[string]Record, error) {
	return report.ParseNamedModules(text)
}

// Sections splits report text into its "===" delimited sections.
func Sections(text string) []Section {
	return report.Sections(text)
}
