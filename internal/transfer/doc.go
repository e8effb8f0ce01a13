// Package transfer moves a user's data in and out of the system: the JSON
// export payload, the passphrase-protected envelope around it, the lenient
// import sanitizer and the spreadsheet export.
package transfer
