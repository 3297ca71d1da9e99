// Package repository holds the service's data.
//
// There is no database: items, the demo catalog and registered users
// live in memory, behind the same repository boundary a persistent
// store would use, so the service layer never touches storage directly.
package repository
