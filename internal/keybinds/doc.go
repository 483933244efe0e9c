/*
Package keybinds maps key presses to actions for the picker and the variable
prompt.

Bindings live in a context. Match looks in the requested context first and
falls back to ContextGlobal, so a selector or prompt binding shadows a global
one for the same key.

Defaults come from NewDefaultRegistry. Users override them from the
keybinds table of the config file:

	[keybinds.selector]
	"ctrl+n" = "navigate_down"

	[keybinds.global]
	"ctrl+g" = "cancel"

Overrides are validated before being applied. Unknown contexts or actions
are errors, as is rebinding ctrl+c to anything but cancel.
*/
package keybinds
