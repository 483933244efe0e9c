/*
Package executor sends a fully substituted request definition over HTTP.

Query parameters and url-encoded form fields are encoded in the order the
definition lists them. JSON bodies may contain comments or trailing commas;
they are stripped and the result must be valid JSON. A Content-Type header
matching the body kind is added unless the definition sets one.

Timeouts come from the config: the connect timeout bounds dialing and the TLS
handshake, the read timeout bounds the wait for response headers, and the
overall timeout bounds the whole exchange. Cancelling the context passed to
Do aborts the request.
*/
package executor
