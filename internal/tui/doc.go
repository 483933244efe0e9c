/*
Package tui implements the two interactive screens of rhc.

# Architecture

Both screens are Bubble Tea models following the Model-Update-View pattern:
  - Selector: the request definition picker
  - Prompt: asks for a value for each unbound variable

Each model is run by its own tea.Program (see run.go) and exposes a Result
method that is read once the program has exited.

# Selector

The picker lists every definition in a catalog.Catalog, filtered by a fuzzy
query. The list is drawn bottom-up, so the best match sits right above the
query line. The catalog is filled by a background loader; every progress
message triggers a redraw from a fresh catalog snapshot.

Tab and shift+tab cycle the active environment, with "none" between the last
and the first. Rows show the request URL with the active environment applied.

# Prompt

The prompt walks the variable names in order. In typing mode key presses edit
the query; tab switches to browsing, where up and down move through the
history of previous answers for that variable. Confirming a typed value
records it in the history before moving on. Any text edit while browsing
returns to typing.

# Key Bindings

Keys are resolved through keybinds.Registry using the selector and prompt
contexts, falling back to the global context. The help line is built from the
same registry so user overrides show up there too.
*/
package tui
