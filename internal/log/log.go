// SPDX-License-Identifier: Unlicense OR MIT

// Package log routes the standard logger to the debugger for processes
// without a console. Importing it for side effects is enough.
package log
