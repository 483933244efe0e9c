/*
Package types defines the data model shared by the picker, the templating
engine, the history store and the HTTP executor.

# Request Definitions

Definition is the parsed form of a definition file:

	[metadata]
	description = "Fetch a user"

	[request]
	method = "GET"
	url = "{base}/users/{id}"

	[headers]
	headers = [{ name = "Accept", value = "application/json" }]

Body is a tagged union: text and JSON bodies carry Content, url-encoded
bodies carry Form.

# Variables

KeyValue is used for every name/value list (environment variables, headers,
query parameters, form fields). Order is preserved as written in the file.

# History

HistoryEntry records one answer given at the variable prompt, scoped by
variable name and environment name.
*/
package types
