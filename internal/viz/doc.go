// Package viz renders search progress for the terminal.
//
// It provides:
//
//   - [Notifier]: styled [OK], [REJECTED] and hint lines for a running search
//   - [PlotMeanTimes]: an ASCII chart of mean trial time per combination
//   - [Summary]: the closing best-combination block
//   - [ProgressBar] and [SparklineChart]: small widgets shared with the TUI
//
// Styles come from lipgloss and degrade to plain text when the output is not
// a terminal.
package viz
