// Package output renders sigcap-cli results for terminals and scripts.
//
// A Formatter turns command results into one of three formats: a
// column-aligned table (the default), JSON, or YAML. Table columns come
// from struct json tags, with extra columns revealed by wide mode, and
// the Spinner animates long-running operations such as uploads.
package output
