// Package version - Versionsinformation fuer plauderkasten
package version

var Version string = "0.1.9"
