// Package internal holds build metadata shared by the commands.
package internal

// Version is the build version, set with
// -ldflags "-X github.com/vocdoni/davinci-tally/internal.Version=..."
var Version = "dev"
