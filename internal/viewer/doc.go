// Package viewer serves analysis results in a browser.
//
// The server reads the CSV snapshot written by the analyzer and exposes
// it as JSON under /api/markets, /api/categories and /api/summary, with
// a small embedded dashboard on /. A background poll watches the file's
// modification time and pushes a reload event to connected browsers over
// a WebSocket whenever a new run lands.
package viewer
