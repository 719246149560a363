// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// Package cmd provides the CLI entry point for airgap-setup. It
// handles flag parsing, logging setup, exit codes and remediation
// output.
package cmd
