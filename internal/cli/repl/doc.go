// Package repl runs restgate-cli commands interactively.
//
// Each input line is split shell-style and handed to an Executor, which
// restgate-cli wires to its own urfave/cli application. A line ending in
// "?" lists matching commands instead of running one. History is kept in
// ~/.restgate/history.
package repl
