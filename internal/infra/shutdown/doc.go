// Package shutdown coordinates graceful teardown of the sigcap server.
//
// The server registers one hook per component (HTTP listener, spool,
// archive, watchers) and blocks in Wait until SIGINT or SIGTERM
// arrives. Hooks then run in reverse registration order under a shared
// deadline, and Done unblocks once every hook has returned.
package shutdown
