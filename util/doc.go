// Package util provides small generic helpers shared by the batchkit
// packages and the batchctl command: pointer helpers for optional settings
// and list handling for command-line key arguments.
package util
