// Package output provides printing, color handling and exit codes for the
// git-vines CLI.
//
// # Printer
//
// The Printer writes graph rows to stdout. Errors are returned to the
// command and printed by fang.
//
//	color := output.ResolveColorMode(colorFlag, output.IsTTY(cmd.OutOrStdout()))
//	printer := output.NewPrinter(cmd.OutOrStdout(), color)
//	palette := render.NewPalette(printer.Renderer(), color)
//
//	printer.Println(line)
//
// # Color
//
// Colors are decided once per run. NewRenderer pins the lipgloss color
// profile so that --color=always still produces ANSI output through a pipe
// and --color=never produces none on a terminal.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: User error (bad flags, unknown style)
//	output.ExitSystemError // 2: System error (git failed, bad repository layout)
//
// Use the error constructors to create properly-coded errors:
//
//	output.NewUserError("unknown style: 3")
//	output.NewSystemErrorWithCause("cannot resolve HEAD", err)
package output
