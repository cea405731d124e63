// Package input defines the actions that drive the editor.
//
// An Action names a command ("edit.paste", "arrange.moveToTop") and carries
// optional arguments and a repeat count. Actions are produced by the command
// line front end, the interactive prompt and script hooks, and are executed
// by the dispatcher.
package input
